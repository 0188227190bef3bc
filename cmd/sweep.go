package cmd

import (
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/kozaktomas/frame-diff/internal/config"
	"github.com/kozaktomas/frame-diff/internal/framediff"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep <video>",
	Short: "Describe the changes between every pair of consecutive frames",
	Long: `Walk a video frame by frame and ask the chat model to describe the changes
between each consecutive pair (0->1, 1->2, ...). Stops at the first failure.`,
	Args: cobra.ExactArgs(1),
	RunE: runSweep,
}

func init() {
	rootCmd.AddCommand(sweepCmd)

	sweepCmd.Flags().Int("question", 0, "Question position whose answers describe the frames")
}

func runSweep(cmd *cobra.Command, args []string) error {
	video := args[0]
	cfg := config.Load()

	ctx, cancel := signalContext()
	defer cancel()

	differ, provider, err := newDiffer(ctx, cfg)
	if err != nil {
		return err
	}

	var bar *progressbar.ProgressBar
	result, err := differ.Sweep(ctx, framediff.SweepRequest{
		Video:    video,
		Question: mustGetInt(cmd, "question"),
		OnProgress: func(info framediff.ProgressInfo) {
			if bar == nil {
				bar = progressbar.NewOptions(info.Total,
					progressbar.OptionSetWriter(os.Stderr),
					progressbar.OptionSetDescription(fmt.Sprintf("Diffing %s", video)),
					progressbar.OptionShowCount(),
					progressbar.OptionSetItsString("pairs"),
					progressbar.OptionShowElapsedTimeOnFinish(),
					progressbar.OptionSetPredictTime(true),
					progressbar.OptionFullWidth(),
					progressbar.OptionSetTheme(progressbar.Theme{
						Saucer:        "=",
						SaucerHead:    ">",
						SaucerPadding: " ",
						BarStart:      "[",
						BarEnd:        "]",
					}),
				)
			}
			_ = bar.Set(info.Current)
		},
	})
	if bar != nil {
		_ = bar.Finish()
		fmt.Fprintln(os.Stderr)
	}
	if err != nil {
		return fmt.Errorf("sweep failed: %w", err)
	}

	if err := printJSON(cmd.OutOrStdout(), result); err != nil {
		return err
	}

	printUsage(os.Stderr, provider)
	return nil
}
