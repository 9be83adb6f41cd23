// Package cli provides the command-line interface for bearminder-tray.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/bearminder/bearminder-tray/internal/config"
	"github.com/bearminder/bearminder-tray/internal/constants"
	"github.com/bearminder/bearminder-tray/internal/logging"
	"github.com/bearminder/bearminder-tray/internal/version"
)

var (
	// Global flags
	cfgFile      string
	rootOverride string
	verbose      bool
	debug        bool

	// Global logger
	logger *logging.Logger

	// Global context for signal handling
	rootContext context.Context
	cancelFunc  context.CancelFunc
)

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   constants.BinaryName,
		Short: "BearMinder - tray companion for the Bear to Beeminder sync tool",
		Long: `BearMinder ` + version.String() + `
Tray companion for the bearminder sync tool. It edits the Beeminder settings
in the tool's .env file, runs "python -m bearminder.main sync-once" on demand
and shows the result of the last sync.

Run without arguments on a desktop to start the tray icon.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger = logging.NewDefaultCLILogger()
			if verbose || debug {
				logging.SetGlobalLevel(zerolog.DebugLevel)
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Tray configuration file (default: "+defaultConfigHint()+")")
	rootCmd.PersistentFlags().StringVar(&rootOverride, "root", "", "Sync tool checkout (overrides trayconfig and "+config.EnvRoot+")")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output (shows debug messages)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug output (same as --verbose)")

	rootCmd.Version = version.String()
	rootCmd.SetVersionTemplate("{{.Name}} {{.Version}}\n")

	rootCmd.AddCommand(newCompletionCmd(rootCmd))
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	return rootCmd
}

func newCompletionCmd(rootCmd *cobra.Command) *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate a shell completion script",
		Long: `Generate a shell completion script for ` + constants.BinaryName + `.

  bash:       source <(` + constants.BinaryName + ` completion bash)
  zsh:        ` + constants.BinaryName + ` completion zsh > "${fpath[1]}/_` + constants.BinaryName + `"
  fish:       ` + constants.BinaryName + ` completion fish | source
  powershell: ` + constants.BinaryName + ` completion powershell | Out-String | Invoke-Expression`,
		ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return rootCmd.GenBashCompletion(out)
			case "zsh":
				return rootCmd.GenZshCompletion(out)
			case "fish":
				return rootCmd.GenFishCompletion(out, true)
			default:
				return rootCmd.GenPowerShellCompletion(out)
			}
		},
	}
}

// Execute runs the CLI with args (os.Args[1:] when nil).
func Execute(args []string) error {
	rootContext, cancelFunc = context.WithCancel(context.Background())
	defer cancelFunc()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		for sig := range sigChan {
			if sig != nil {
				fmt.Fprintf(os.Stderr, "\nReceived signal %v, cancelling...\n", sig)
				cancelFunc()
			}
		}
	}()

	rootCmd := NewRootCmd()
	AddCommands(rootCmd)
	if args != nil {
		rootCmd.SetArgs(args)
	}
	err := rootCmd.ExecuteContext(rootContext)

	signal.Stop(sigChan)
	close(sigChan)

	return err
}

// AddCommands adds all subcommands to the root command.
func AddCommands(rootCmd *cobra.Command) {
	rootCmd.AddCommand(newTrayCmd())
	rootCmd.AddCommand(newGUICmd())
	rootCmd.AddCommand(newSyncCmd())
	rootCmd.AddCommand(newEnvCmd())
	rootCmd.AddCommand(newPathsCmd())
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newBearCmd())
	rootCmd.AddCommand(newOpenCmd())
	rootCmd.AddCommand(newConfigCmd())
}

// GetLogger returns the global CLI logger.
func GetLogger() *logging.Logger {
	if logger == nil {
		logger = logging.NewDefaultCLILogger()
	}
	return logger
}

// GetContext returns the global CLI context with signal handling.
// This context will be cancelled when the user presses Ctrl+C.
func GetContext() context.Context {
	if rootContext == nil {
		return context.Background()
	}
	return rootContext
}

// loadConfig loads the tray configuration and applies --root.
func loadConfig() (*config.TrayConfig, error) {
	cfg, err := config.LoadTrayConfig(cfgFile)
	if err != nil {
		return nil, err
	}
	if rootOverride != "" {
		cfg.Tool.Root = rootOverride
	}
	return cfg, nil
}

// loadPaths loads the configuration and resolves the sync tool paths.
func loadPaths() (*config.TrayConfig, *config.Paths, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	paths, err := config.ResolvePaths(cfg)
	if errors.Is(err, config.ErrInvalidToolConfig) && paths != nil {
		// .env and the openers still work; "open config" is how the user fixes it
		GetLogger().Warn().Err(err).Msg("Using default data folder")
		err = nil
	}
	if err != nil {
		return nil, nil, err
	}
	return cfg, paths, nil
}

// configPath returns the trayconfig location in effect.
func configPath() (string, error) {
	if cfgFile != "" {
		return cfgFile, nil
	}
	return config.DefaultTrayConfigPath()
}

func defaultConfigHint() string {
	p, err := config.DefaultTrayConfigPath()
	if err != nil {
		return "<config dir>/bearminder/trayconfig"
	}
	return p
}

// passthroughFlags returns the global flags a child process needs to see the
// same configuration.
func passthroughFlags() []string {
	var args []string
	if cfgFile != "" {
		args = append(args, "--config", cfgFile)
	}
	if rootOverride != "" {
		args = append(args, "--root", rootOverride)
	}
	if verbose || debug {
		args = append(args, "--verbose")
	}
	return args
}
