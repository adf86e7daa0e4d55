package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/carmscli/carmscli/internal/ui"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage agent sessions",
}

var sessionClearCmd = &cobra.Command{
	Use:   "clear <session-id>",
	Short: "Delete a session and its extracted profile on the server",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionClear,
}

func init() {
	sessionCmd.AddCommand(sessionClearCmd)
	rootCmd.AddCommand(sessionCmd)
}

func runSessionClear(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log := consoleLogger(cmd, cfg, os.Stderr)
	client := newClient(cfg, log)

	if err := client.DeleteSession(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	fmt.Println(ui.RenderSuccess("Session cleared."))
	return nil
}
