package cmd

import (
	"github.com/spf13/cobra"

	"github.com/kozaktomas/frame-diff/internal/config"
)

var indexCmd = &cobra.Command{
	Use:   "index [video]",
	Short: "Print the frame index",
	Long: `Print the answers of every question grouped per video, one entry per frame.
With a video name only that video's index is printed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	index, err := loadIndex(config.Load())
	if err != nil {
		return err
	}

	if len(args) == 0 {
		return printJSON(cmd.OutOrStdout(), index)
	}

	video, err := index.Video(args[0])
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), video)
}
