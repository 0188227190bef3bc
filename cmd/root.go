package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
)

var (
	datasetPath          string
	providerName         string
	questionsPerFrame    int
	allowDuplicateVideos bool
	verbose              bool
)

var rootCmd = &cobra.Command{
	Use:   "frame-diff",
	Short: "Describe what changed between video frames using a chat model",
	Long: `Frame Diff loads a dataset of video frames described by question/answer
pairs, indexes the answers per video and question, and asks a chat model
(OpenAI, Gemini, Ollama, llama.cpp) to describe the changes between two frames.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&datasetPath, "dataset", "", "Path to the dataset JSON (defaults to $FRAMEDIFF_DATASET or data.json)")
	rootCmd.PersistentFlags().StringVar(&providerName, "provider", "", "AI provider to use: openai, gemini, ollama, llamacpp (defaults to $FRAMEDIFF_PROVIDER or ollama)")
	rootCmd.PersistentFlags().IntVar(&questionsPerFrame, "questions-per-frame", 4, "Number of questions every frame must have")
	rootCmd.PersistentFlags().BoolVar(&allowDuplicateVideos, "allow-duplicate-videos", false, "Let a later video replace an earlier one with the same name")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

func initConfig() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      level,
			TimeFormat: "15:04:05",
		}),
	))
}
