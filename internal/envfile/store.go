package envfile

// Store binds Load and Save to a settings file path chosen by the caller.
type Store struct {
	path string
}

// NewStore creates a store for the file at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the settings file path.
func (st *Store) Path() string {
	return st.path
}

// Load reads the current settings. See Load.
func (st *Store) Load() *Settings {
	return Load(st.path)
}

// Save merges s into the file. See Save.
func (st *Store) Save(s *Settings) error {
	return Save(s, st.path)
}

// Update loads the settings, applies fn and saves the result.
func (st *Store) Update(fn func(s *Settings)) error {
	s := st.Load()
	fn(s)
	return st.Save(s)
}
