package envfile

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return string(data)
}

func ptr(s string) *string { return &s }

func TestLoad_MissingFile(t *testing.T) {
	s := Load(filepath.Join(t.TempDir(), "does-not-exist", ".env"))
	if s == nil {
		t.Fatal("Load should never return nil")
	}
	for _, k := range RecognizedKeys() {
		if v, ok := s.Get(k); ok {
			t.Errorf("expected %s unset, got %q", k, v)
		}
	}
}

func TestLoad_ParsesRecognizedKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	writeFile(t, path, "# Beeminder\n"+
		"BEEMINDER_USERNAME=alice\n"+
		"  BEEMINDER_GOAL  =  writing  \n"+
		"BEEMINDER_TOKEN=\"abc123\"\n"+
		"BEAR_DB_PATH=~/bear.sqlite\n")

	s := Load(path)

	tests := []struct {
		key  Key
		want string
	}{
		{KeyUsername, "alice"},
		{KeyGoal, "writing"},
		{KeyToken, "abc123"},
	}
	for _, tt := range tests {
		got, ok := s.Get(tt.key)
		if !ok {
			t.Errorf("%s: expected set", tt.key)
			continue
		}
		if got != tt.want {
			t.Errorf("%s = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestLoad_QuoteStripping(t *testing.T) {
	tests := []struct {
		name string
		line string
		want string
	}{
		{"matched pair", `BEEMINDER_TOKEN="abc123"`, "abc123"},
		{"leading only", `BEEMINDER_TOKEN="abc`, `"abc`},
		{"trailing only", `BEEMINDER_TOKEN=abc"`, `abc"`},
		{"one layer only", `BEEMINDER_TOKEN=""abc""`, `"abc"`},
		{"lone quote", `BEEMINDER_TOKEN="`, `"`},
		{"empty quoted", `BEEMINDER_TOKEN=""`, ""},
		{"spaces outside quotes", `BEEMINDER_TOKEN =  " abc "  `, " abc "},
		{"equals in value", `BEEMINDER_TOKEN=a=b`, "a=b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), ".env")
			writeFile(t, path, tt.line+"\n")
			got, ok := Load(path).Get(KeyToken)
			if !ok {
				t.Fatal("expected token to be set")
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoad_LastAssignmentWins(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	writeFile(t, path, "BEEMINDER_GOAL=first\nBEEMINDER_GOAL=second\n")

	if got, _ := Load(path).Get(KeyGoal); got != "second" {
		t.Errorf("got %q, want %q", got, "second")
	}
}

func TestLoad_IgnoresUnrecognizedAndMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	writeFile(t, path, "BEEMINDER_USERNAME\nbeeminder_username=lower\nOTHER=1\n\n")

	s := Load(path)
	if !s.IsEmpty() {
		t.Errorf("expected no recognized keys, got %+v", s)
	}
}

func TestSave_RoundTripIdentity(t *testing.T) {
	inputs := map[string]string{
		"mixed": "# settings\n" +
			"BEEMINDER_USERNAME=alice\n" +
			"\n" +
			"BEEMINDER_GOAL = \"writing\"\n" +
			"BEAR_MINDER_DEBUG=true\n" +
			"BEEMINDER_TOKEN=\"tok\n",
		"duplicates": "BEEMINDER_GOAL=a\nX=1\nBEEMINDER_GOAL=b\n",
		"crlf":       "BEEMINDER_USERNAME=alice\r\n# note\r\nBEEMINDER_TOKEN=t\r\n",
		"blank tail": "BEEMINDER_USERNAME=alice\n\n\n",
		"only other": "FOO=bar\n",
	}

	for name, content := range inputs {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), ".env")
			writeFile(t, path, content)

			if err := Save(Load(path), path); err != nil {
				t.Fatalf("Save failed: %v", err)
			}
			if got := readFile(t, path); got != content {
				t.Errorf("content changed:\ngot  %q\nwant %q", got, content)
			}
		})
	}
}

func TestSave_NormalizesTrailingNewline(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	writeFile(t, path, "BEEMINDER_USERNAME=alice\n# end")

	if err := Save(Load(path), path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	want := "BEEMINDER_USERNAME=alice\n# end\n"
	if got := readFile(t, path); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestSave_SelectiveUpdate(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	writeFile(t, path, "BEEMINDER_USERNAME=1\n# comment\nBEEMINDER_GOAL=2\n")

	if err := Save(&Settings{Username: ptr("9")}, path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	want := "BEEMINDER_USERNAME=9\n# comment\nBEEMINDER_GOAL=2\n"
	if got := readFile(t, path); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestSave_AppendOnAbsence(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	writeFile(t, path, "BEEMINDER_USERNAME=1\n")

	if err := Save(&Settings{Goal: ptr("x")}, path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	want := "BEEMINDER_USERNAME=1\nBEEMINDER_GOAL=x\n"
	if got := readFile(t, path); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestSave_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", ".env")

	s := &Settings{Username: ptr("alice"), Goal: ptr("writing"), Token: ptr("tok")}
	if err := Save(s, path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	want := "BEEMINDER_USERNAME=alice\nBEEMINDER_GOAL=writing\nBEEMINDER_TOKEN=tok\n"
	if got := readFile(t, path); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestSave_EmptyRecordOnMissingFileWritesEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")

	if err := Save(&Settings{}, path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if got := readFile(t, path); got != "" {
		t.Errorf("expected empty file, got %q", got)
	}
}

func TestSave_IdempotentDoubleSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	writeFile(t, path, "# header\nBEEMINDER_GOAL=old\nOTHER=1\n")

	s := &Settings{Username: ptr("alice"), Goal: ptr("writing"), Token: ptr("tok")}
	if err := Save(s, path); err != nil {
		t.Fatalf("first Save failed: %v", err)
	}
	first := readFile(t, path)

	if err := Save(s, path); err != nil {
		t.Fatalf("second Save failed: %v", err)
	}
	if second := readFile(t, path); second != first {
		t.Errorf("second save differs:\nfirst  %q\nsecond %q", first, second)
	}
}

func TestSave_ThenLoadReturnsSavedValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	writeFile(t, path, "BEEMINDER_TOKEN=a\n BEEMINDER_TOKEN = b\n")

	if err := Save(&Settings{Token: ptr("c")}, path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if got, _ := Load(path).Get(KeyToken); got != "c" {
		t.Errorf("got %q, want %q", got, "c")
	}
	want := "BEEMINDER_TOKEN=a\nBEEMINDER_TOKEN=c\n"
	if got := readFile(t, path); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestSave_UnreadableFileReturnsIOError(t *testing.T) {
	// A directory at the settings path cannot be read as a file.
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.Mkdir(path, 0700); err != nil {
		t.Fatal(err)
	}

	err := Save(&Settings{Username: ptr("alice")}, path)
	if err == nil {
		t.Fatal("expected error")
	}
	var ioErr *IOError
	if !errors.As(err, &ioErr) {
		t.Fatalf("expected *IOError, got %T", err)
	}
	if ioErr.Path != path {
		t.Errorf("Path = %q, want %q", ioErr.Path, path)
	}
	if ioErr.Op != "read" {
		t.Errorf("Op = %q, want read", ioErr.Op)
	}
}

func TestSave_WriteFailureReturnsIOError(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced here")
	}
	dir := filepath.Join(t.TempDir(), "ro")
	if err := os.Mkdir(dir, 0500); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, ".env")

	err := Save(&Settings{Username: ptr("alice")}, path)
	var ioErr *IOError
	if !errors.As(err, &ioErr) {
		t.Fatalf("expected *IOError, got %v", err)
	}
	if ioErr.Op != "write" {
		t.Errorf("Op = %q, want write", ioErr.Op)
	}
}

func TestStore_Update(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	writeFile(t, path, "BEEMINDER_USERNAME=\"alice\"\nBEEMINDER_GOAL=old\n")

	st := NewStore(path)
	if err := st.Update(func(s *Settings) { s.Set(KeyGoal, "new") }); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	want := "BEEMINDER_USERNAME=\"alice\"\nBEEMINDER_GOAL=new\n"
	if got := readFile(t, path); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestLookup(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	writeFile(t, path, "# data\nBEAR_MINDER_DB=old.db\n  BEAR_MINDER_DB = \"/srv/bm/db.sqlite\"\nBEEMINDER_GOAL=x\n")

	if got, ok := Lookup(path, "BEAR_MINDER_DB"); !ok || got != "/srv/bm/db.sqlite" {
		t.Errorf("Lookup() = %q, %v", got, ok)
	}
	if _, ok := Lookup(path, "MISSING"); ok {
		t.Error("unset name should report false")
	}
	if _, ok := Lookup(filepath.Join(t.TempDir(), "none"), "BEAR_MINDER_DB"); ok {
		t.Error("missing file should report false")
	}
}
