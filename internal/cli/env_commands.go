package cli

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/bearminder/bearminder-tray/internal/envfile"
)

// newEnvCmd creates the 'env' command group.
func newEnvCmd() *cobra.Command {
	envCmd := &cobra.Command{
		Use:   "env",
		Short: "Read and write the Beeminder settings in .env",
		Long: `Read and write the Beeminder settings (BEEMINDER_USERNAME, BEEMINDER_GOAL,
BEEMINDER_TOKEN) in the sync tool's .env file.

Other lines in the file are kept exactly as they are.`,
	}

	envCmd.AddCommand(newEnvGetCmd())
	envCmd.AddCommand(newEnvSetCmd())
	envCmd.AddCommand(newEnvPathCmd())

	return envCmd
}

func openStore() (*envfile.Store, error) {
	_, paths, err := loadPaths()
	if err != nil {
		return nil, err
	}
	return envfile.NewStore(paths.EnvPath), nil
}

func newEnvGetCmd() *cobra.Command {
	var asJSON, showToken bool

	cmd := &cobra.Command{
		Use:   "get",
		Short: "Show the current settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}

			s := store.Load()
			if !showToken {
				s = s.Redacted()
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(s)
			}
			for _, k := range envfile.RecognizedKeys() {
				v, ok := s.Get(k)
				if !ok {
					v = "(unset)"
				}
				fmt.Fprintf(out, "%s=%s\n", k, v)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&showToken, "show-token", false, "Print the token instead of masking it")

	return cmd
}

func newEnvSetCmd() *cobra.Command {
	var username, goal, token string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Update one or more settings",
		Long: `Update one or more settings. Only the flags given are written.

Use --token - to type the token without echoing it (or pipe it on stdin).

Example:
  bearminder-tray env set --username alice --goal writing --token -`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if !flags.Changed("username") && !flags.Changed("goal") && !flags.Changed("token") {
				return errors.New("nothing to set: use --username, --goal or --token")
			}

			if flags.Changed("token") && token == "-" {
				t, err := readSecret(cmd.InOrStdin(), cmd.ErrOrStderr(), "Beeminder API token: ")
				if err != nil {
					return err
				}
				token = t
			}

			store, err := openStore()
			if err != nil {
				return err
			}

			err = store.Update(func(s *envfile.Settings) {
				if flags.Changed("username") {
					s.Set(envfile.KeyUsername, username)
				}
				if flags.Changed("goal") {
					s.Set(envfile.KeyGoal, goal)
				}
				if flags.Changed("token") {
					s.Set(envfile.KeyToken, token)
				}
			})
			if err != nil {
				return err
			}

			GetLogger().Debug().Str("path", store.Path()).Msg("Settings saved")
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", store.Path())
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Beeminder username")
	cmd.Flags().StringVar(&goal, "goal", "", "Beeminder goal name")
	cmd.Flags().StringVar(&token, "token", "", "Beeminder API token, or - to prompt")

	return cmd
}

func newEnvPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show the settings file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), store.Path())
			return nil
		},
	}
}

// readSecret prompts without echo when in is a terminal, and otherwise reads
// one line from in.
func readSecret(in io.Reader, prompt io.Writer, label string) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(prompt, label)
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(prompt)
		if err != nil {
			return "", fmt.Errorf("failed to read token: %w", err)
		}
		return strings.TrimSpace(string(b)), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read token: %w", err)
	}
	return strings.TrimSpace(line), nil
}
