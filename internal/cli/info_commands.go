package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/bearminder/bearminder-tray/internal/bear"
	"github.com/bearminder/bearminder-tray/internal/status"
)

// newPathsCmd creates the 'paths' command.
func newPathsCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "paths",
		Short: "Show the files and folders the tray uses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, paths, err := loadPaths()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(paths)
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "Repo root:\t%s\n", paths.RepoRoot)
			fmt.Fprintf(w, "Settings (.env):\t%s\n", paths.EnvPath)
			fmt.Fprintf(w, "Tool config:\t%s\n", paths.ConfigPath)
			fmt.Fprintf(w, "Data folder:\t%s\n", paths.DataDir)
			fmt.Fprintf(w, "Status file:\t%s\n", paths.StatusPath)
			return w.Flush()
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

// newStatusCmd creates the 'status' command.
func newStatusCmd() *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the result of the last sync",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, paths, err := loadPaths()
			if err != nil {
				return err
			}

			text, err := status.ReadRaw(paths.StatusPath)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if raw {
				fmt.Fprint(out, text)
				return nil
			}

			st, err := status.Parse(text)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			result := "Error"
			if st.Success {
				result = "Success"
			}
			if st.DryRun {
				result += " (preview)"
			}
			fmt.Fprintf(w, "Last sync:\t%s\n", st.LastSync)
			fmt.Fprintf(w, "Words posted:\t%d\n", st.Value)
			fmt.Fprintf(w, "Notes scanned:\t%d\n", st.NotesCount)
			fmt.Fprintf(w, "Tags found:\t%d\n", st.TagsCount)
			fmt.Fprintf(w, "Result:\t%s\n", result)
			if st.Error != "" {
				fmt.Fprintf(w, "Error:\t%s\n", st.Error)
			}
			if st.Comment != "" {
				fmt.Fprintf(w, "Details:\t%s\n", st.Comment)
			}
			return w.Flush()
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "Print status.json unchanged")
	return cmd
}

// newBearCmd creates the 'bear' command group.
func newBearCmd() *cobra.Command {
	bearCmd := &cobra.Command{
		Use:   "bear",
		Short: "Locate the Bear notes database",
	}

	bearCmd.AddCommand(&cobra.Command{
		Use:   "detect",
		Short: "Print the Bear database path",
		Long: `Print the Bear database path. ` + bear.EnvDBPath + ` is checked first, then the
Bear 2 and Bear 1 locations under ~/Library.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := bear.Detect()
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), "Checked:")
				for _, c := range bear.Candidates() {
					fmt.Fprintf(cmd.ErrOrStderr(), "  %s\n", c)
				}
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), p)
			return nil
		},
	})

	bearCmd.AddCommand(&cobra.Command{
		Use:   "open",
		Short: "Open the folder containing the Bear database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := bear.Folder()
			if err != nil {
				return err
			}
			return newOpener().Open(dir)
		},
	})

	return bearCmd
}
