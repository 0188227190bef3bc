package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/kozaktomas/frame-diff/internal/ai"
	"github.com/kozaktomas/frame-diff/internal/config"
	"github.com/kozaktomas/frame-diff/internal/dataset"
	"github.com/kozaktomas/frame-diff/internal/framediff"
)

// resolvedDataset returns the dataset path from --dataset or the environment.
func resolvedDataset(cfg *config.Config) string {
	if datasetPath != "" {
		return datasetPath
	}
	return cfg.Dataset
}

// loadIndex reads the dataset and builds the frame index.
func loadIndex(cfg *config.Config) (dataset.Index, error) {
	path := resolvedDataset(cfg)
	ds, err := dataset.Load(path)
	if err != nil {
		return nil, err
	}

	index, err := dataset.BuildIndex(ds, dataset.IndexOptions{
		QuestionsPerFrame:   questionsPerFrame,
		OverwriteDuplicates: allowDuplicateVideos,
	})
	if err != nil {
		return nil, fmt.Errorf("build index from %s: %w", path, err)
	}
	slog.Debug("dataset indexed", "path", path, "videos", len(index))
	return index, nil
}

// newDiffer wires the index, the selected provider and the generator.
func newDiffer(ctx context.Context, cfg *config.Config) (*framediff.Differ, ai.Provider, error) {
	index, err := loadIndex(cfg)
	if err != nil {
		return nil, nil, err
	}

	if providerName != "" {
		cfg.Provider = providerName
	}
	provider, err := newProvider(ctx, cfg, cfg.Provider)
	if err != nil {
		return nil, nil, err
	}

	generator, err := ai.NewGenerator(provider, cfg.GeneratorConfig())
	if err != nil {
		return nil, nil, err
	}
	return framediff.New(index, generator, slog.Default()), provider, nil
}

// signalContext returns a context cancelled on Ctrl+C or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-sigChan:
			fmt.Fprintln(os.Stderr, "\nReceived interrupt signal...")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigChan)
	}()

	return ctx, cancel
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printUsage(w io.Writer, provider ai.Provider) {
	usage := provider.GetUsage()
	if usage.InputTokens > 0 || usage.OutputTokens > 0 {
		fmt.Fprintf(w, "\nAPI Usage (%s):\n", provider.Name())
		fmt.Fprintf(w, "  Input tokens: %d\n", usage.InputTokens)
		fmt.Fprintf(w, "  Output tokens: %d\n", usage.OutputTokens)
		fmt.Fprintf(w, "  Total cost: $%.4f\n", usage.TotalCost)
	}
}
