package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/frame-diff/internal/ai"
	"github.com/kozaktomas/frame-diff/internal/config"
)

var promptCmd = &cobra.Command{
	Use:   "prompt <video>",
	Short: "Print the prompts for a frame pair without calling a model",
	Args:  cobra.ExactArgs(1),
	RunE:  runPrompt,
}

func init() {
	rootCmd.AddCommand(promptCmd)

	promptCmd.Flags().Int("question", 0, "Question position whose answers describe the frames")
	promptCmd.Flags().Int("from", 0, "Index of the first frame")
	promptCmd.Flags().Int("to", 1, "Index of the second frame")
}

func runPrompt(cmd *cobra.Command, args []string) error {
	index, err := loadIndex(config.Load())
	if err != nil {
		return err
	}

	video := args[0]
	question := mustGetInt(cmd, "question")
	from, err := index.Answer(video, question, mustGetInt(cmd, "from"))
	if err != nil {
		return err
	}
	to, err := index.Answer(video, question, mustGetInt(cmd, "to"))
	if err != nil {
		return err
	}

	for i, prompt := range ai.BuildFrameDiffPrompts(from, to) {
		fmt.Fprintf(cmd.OutOrStdout(), "[%d] %s\n", i+1, prompt)
	}
	return nil
}
