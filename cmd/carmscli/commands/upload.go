package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/carmscli/carmscli/internal/markdown"
	"github.com/carmscli/carmscli/internal/ui"
)

var uploadCmd = &cobra.Command{
	Use:   "upload <file.pdf>",
	Short: "Upload a CV and extract a candidate profile",
	Long: `Upload a PDF CV to the server for profile extraction. The extracted
profile seeds the chat session, so a following "carmscli chat" message
can match against it.

Examples:
  carmscli upload ~/cv.pdf
  carmscli upload --verbose ~/cv.pdf
`,
	Args: cobra.ExactArgs(1),
	RunE: runUpload,
}

func init() {
	rootCmd.AddCommand(uploadCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	_, ctrl, _, err := loadSetup(cmd, os.Stderr)
	if err != nil {
		return err
	}

	sink := &cliSink{spinner: ui.NewSpinner("Uploading..."), quietErrors: true}
	sink.spinner.Start()
	defer sink.stopSpinner()

	if err := ctrl.Upload(cmd.Context(), args[0], sink); err != nil {
		return err
	}
	sink.stopSpinner()

	// The outcome message is the assistant entry the upload appended.
	entries := ctrl.Transcript().Snapshot()
	if n := len(entries); n > 0 {
		fmt.Println(ui.RenderAssistantPrefix() + markdown.RenderANSI(entries[n-1].Text))
	}

	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		if p := ctrl.Profile(); p != nil {
			fmt.Println()
			fmt.Println(p.Details())
		}
	}

	if sid := ctrl.SessionID(); sid != "" {
		fmt.Println(ui.RenderDim("Session: " + sid))
	}
	return nil
}
