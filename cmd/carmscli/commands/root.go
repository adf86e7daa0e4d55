package commands

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/carmscli/carmscli/internal/agent"
	"github.com/carmscli/carmscli/internal/chat"
	"github.com/carmscli/carmscli/internal/config"
	"github.com/carmscli/carmscli/internal/logging"
	"github.com/carmscli/carmscli/internal/ui"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

var rootCmd = &cobra.Command{
	Use:   "carmscli",
	Short: "CaRMS CLI - chat with the residency program assistant",
	Long: `carmscli talks to a CaRMS residency program assistant server. It can
stream chat responses, upload a CV for profile extraction, and manage
the active session.

Use "carmscli [command] --help" for more information about a command.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().String("server", "", "API server URL (default: config or http://localhost:8000)")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output")

	rootCmd.AddCommand(versionCmd)
}

// loadConfig resolves config from file and environment, then applies the
// persistent flags on top.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if server, _ := cmd.Flags().GetString("server"); server != "" {
		cfg.ServerURL = server
	}
	if noColor, _ := cmd.Flags().GetBool("no-color"); noColor {
		cfg.NoColor = true
	}
	if cfg.NoColor {
		ui.SetNoColor(true)
	}
	return cfg, nil
}

func consoleLogger(cmd *cobra.Command, cfg *config.Config, out io.Writer) zerolog.Logger {
	level := cfg.LogLevel
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = "debug"
	}
	return logging.Console(out, level, cfg.NoColor)
}

func newClient(cfg *config.Config, log zerolog.Logger) *agent.Client {
	return agent.New(cfg.ServerURL, cfg.RequestTimeout(), log)
}

// loadSetup is the common path for one-shot commands: console logging to
// stderr and a controller wired to the configured server.
func loadSetup(cmd *cobra.Command, logOut io.Writer) (*config.Config, *chat.Controller, zerolog.Logger, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, zerolog.Nop(), err
	}
	log := consoleLogger(cmd, cfg, logOut)
	ctrl := chat.NewController(newClient(cfg, log), log)
	return cfg, ctrl, log, nil
}

// versionCmd shows version info
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("carmscli\n")
		fmt.Printf("  Version: %s\n", Version)
		fmt.Printf("  Commit:  %s\n", Commit)
	},
}
