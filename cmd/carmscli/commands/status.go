package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/carmscli/carmscli/internal/chat"
	"github.com/carmscli/carmscli/internal/ui"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check whether the assistant is available",
	Long: `Probe the API server and report whether the agent can take chat
messages. Exits non-zero when the server cannot be reached.`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, ctrl, _, err := loadSetup(cmd, os.Stderr)
	if err != nil {
		return err
	}

	kind := ctrl.Probe(cmd.Context())
	if kind == chat.AgentUnreachable {
		return fmt.Errorf("cannot reach API server at %s", cfg.ServerURL)
	}

	fmt.Println(ui.RenderStatus(kind.StatusText(), kind == chat.AgentAvailable))
	return nil
}
