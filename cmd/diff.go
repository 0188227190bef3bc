package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/frame-diff/internal/config"
	"github.com/kozaktomas/frame-diff/internal/framediff"
)

const defaultVideo = "0.mp4"

var diffCmd = &cobra.Command{
	Use:   "diff [video]",
	Short: "Describe the changes between two frames of a video",
	Long: `Ask the configured chat model to describe what changed between two frames.
The frames are described by the answers to one question. Without arguments
frames 0 and 1 of video 0.mp4 are compared using question 0.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDiff,
}

func init() {
	rootCmd.AddCommand(diffCmd)

	diffCmd.Flags().Int("question", 0, "Question position whose answers describe the frames")
	diffCmd.Flags().Int("from", 0, "Index of the first frame")
	diffCmd.Flags().Int("to", 1, "Index of the second frame")
	diffCmd.Flags().Bool("full", false, "Print the full result including prompts and answers")
}

func runDiff(cmd *cobra.Command, args []string) error {
	video := defaultVideo
	if len(args) > 0 {
		video = args[0]
	}

	cfg := config.Load()

	ctx, cancel := signalContext()
	defer cancel()

	differ, provider, err := newDiffer(ctx, cfg)
	if err != nil {
		return err
	}

	result, err := differ.Diff(ctx, framediff.Request{
		Video:    video,
		Question: mustGetInt(cmd, "question"),
		From:     mustGetInt(cmd, "from"),
		To:       mustGetInt(cmd, "to"),
	})
	if err != nil {
		return fmt.Errorf("diff failed: %w", err)
	}

	out := cmd.OutOrStdout()
	if mustGetBool(cmd, "full") {
		err = printJSON(out, result)
	} else {
		err = printJSON(out, result.Predictions)
	}
	if err != nil {
		return err
	}

	printUsage(os.Stderr, provider)
	return nil
}
