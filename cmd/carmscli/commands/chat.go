package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/carmscli/carmscli/internal/chat"
	"github.com/carmscli/carmscli/internal/config"
	"github.com/carmscli/carmscli/internal/logging"
	"github.com/carmscli/carmscli/internal/tui"
	"github.com/carmscli/carmscli/internal/ui"
)

var chatCmd = &cobra.Command{
	Use:   "chat [message]",
	Short: "Chat with the residency program assistant",
	Long: `Start an interactive chat session with the assistant, or send a single
message and print the streamed reply.

Examples:
  # Interactive mode (full-screen)
  carmscli chat

  # Single message mode
  carmscli chat "find family medicine programs in Ontario"

  # Against another server
  carmscli chat --server http://localhost:9000 "compare UBC and UofT"
`,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return runChatOnce(cmd, strings.Join(args, " "))
	}
	return runChatInteractive(cmd)
}

func runChatOnce(cmd *cobra.Command, message string) error {
	_, ctrl, _, err := loadSetup(cmd, os.Stderr)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if kind := ctrl.Probe(ctx); kind != chat.AgentAvailable {
		return fmt.Errorf("%s", kind.StatusText())
	}

	sink := &cliSink{spinner: ui.NewSpinner("Thinking...")}
	sink.spinner.Start()
	defer sink.stopSpinner()

	if err := ctrl.Send(ctx, message, sink); err != nil {
		return err
	}
	fmt.Println()
	return nil
}

// Interactive mode renders through the full-screen interface; logs go to a
// file so they cannot corrupt the screen.
func runChatInteractive(cmd *cobra.Command) error {
	paths, err := config.GetPaths()
	if err != nil {
		return err
	}
	if err := paths.EnsureDirectories(); err != nil {
		return err
	}

	level := "info"
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = "debug"
	}
	log, closer, err := logging.File(paths.LogsDir, "chat.log", level)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer closer.Close()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctrl := chat.NewController(newClient(cfg, log), log)
	return tui.Run(ctrl, cfg.ServerURL, log)
}

// cliSink prints a streaming reply to stdout as it arrives. With quietErrors
// set, error statuses are skipped because the caller surfaces the returned
// error itself.
type cliSink struct {
	chat.NopSink
	spinner     *ui.Spinner
	stopped     bool
	printed     string
	quietErrors bool
}

func (s *cliSink) stopSpinner() {
	if s.spinner != nil && !s.stopped {
		s.spinner.Stop()
		s.stopped = true
	}
}

func (s *cliSink) ActiveUpdated(full string) {
	s.stopSpinner()
	if strings.HasPrefix(full, s.printed) {
		fmt.Print(full[len(s.printed):])
	} else {
		// The reply was replaced wholesale (an error notice); reprint it.
		fmt.Print("\n" + full)
	}
	s.printed = full
}

func (s *cliSink) IndicatorAdded(label string) {
	s.stopSpinner()
	fmt.Println(ui.RenderDim("· " + label))
}

func (s *cliSink) UploadStatus(text string, isErr bool) {
	if text == "" {
		return
	}
	s.stopSpinner()
	if isErr {
		if s.quietErrors {
			return
		}
		fmt.Println(ui.RenderError(fmt.Errorf("%s", text)))
		return
	}
	fmt.Println(ui.RenderDim(text))
}
