package ai

import (
	"context"
	"errors"
	"fmt"
)

// MaxContextLen is the context window of the Llama 3 family; MaxSeqLen may not exceed it.
const MaxContextLen = 8192

const (
	defaultMaxSeqLen    = 512
	defaultMaxBatchSize = 4
	defaultTemperature  = 0.6
	defaultTopP         = 0.9
)

var (
	ErrNoDialogs     = errors.New("no dialogs provided")
	ErrBatchTooLarge = errors.New("too many dialogs for batch size")
	ErrEmptyDialog   = errors.New("dialog has no messages")
	ErrInvalidRole   = errors.New("invalid message role")
)

// GeneratorConfig holds the generation limits and sampling settings.
type GeneratorConfig struct {
	MaxSeqLen    int
	MaxBatchSize int
	Temperature  float64
	TopP         float64
	MaxGenLen    int // 0 means MaxSeqLen-1
}

// DefaultGeneratorConfig returns the settings used when nothing is configured.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		MaxSeqLen:    defaultMaxSeqLen,
		MaxBatchSize: defaultMaxBatchSize,
		Temperature:  defaultTemperature,
		TopP:         defaultTopP,
	}
}

// Validate checks that all limits are within the ranges backends accept.
func (c GeneratorConfig) Validate() error {
	if c.MaxSeqLen < 1 || c.MaxSeqLen > MaxContextLen {
		return fmt.Errorf("max sequence length must be between 1 and %d, got %d", MaxContextLen, c.MaxSeqLen)
	}
	if c.MaxBatchSize < 1 {
		return fmt.Errorf("max batch size must be at least 1, got %d", c.MaxBatchSize)
	}
	if c.Temperature < 0 {
		return fmt.Errorf("temperature must not be negative, got %g", c.Temperature)
	}
	if c.TopP <= 0 || c.TopP > 1 {
		return fmt.Errorf("top-p must be in (0, 1], got %g", c.TopP)
	}
	if c.MaxGenLen < 0 || c.MaxGenLen >= c.MaxSeqLen {
		return fmt.Errorf("max generation length must be between 0 and %d, got %d", c.MaxSeqLen-1, c.MaxGenLen)
	}
	return nil
}

// Params returns the per-call parameters derived from the configuration.
func (c GeneratorConfig) Params() GenerationParams {
	maxGenLen := c.MaxGenLen
	if maxGenLen == 0 {
		maxGenLen = c.MaxSeqLen - 1
	}
	return GenerationParams{
		Temperature: c.Temperature,
		TopP:        c.TopP,
		MaxGenLen:   maxGenLen,
		MaxSeqLen:   c.MaxSeqLen,
	}
}

// Generator submits dialogs to a Provider using a fixed configuration.
type Generator struct {
	provider Provider
	cfg      GeneratorConfig
}

// NewGenerator validates cfg and binds it to provider.
func NewGenerator(provider Provider, cfg GeneratorConfig) (*Generator, error) {
	if provider == nil {
		return nil, errors.New("provider is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid generator config: %w", err)
	}
	return &Generator{provider: provider, cfg: cfg}, nil
}

// Provider returns the backend the generator talks to.
func (g *Generator) Provider() Provider {
	return g.provider
}

// Config returns the generator configuration.
func (g *Generator) Config() GeneratorConfig {
	return g.cfg
}

// ChatCompletion returns one prediction per dialog, in input order. Dialogs are
// sent one at a time; the first provider error aborts the call.
func (g *Generator) ChatCompletion(ctx context.Context, dialogs []Dialog) ([]ChatPrediction, error) {
	if len(dialogs) == 0 {
		return nil, ErrNoDialogs
	}
	if len(dialogs) > g.cfg.MaxBatchSize {
		return nil, fmt.Errorf("%w: %d dialogs, max %d", ErrBatchTooLarge, len(dialogs), g.cfg.MaxBatchSize)
	}
	for i, dialog := range dialogs {
		if err := validateDialog(dialog); err != nil {
			return nil, fmt.Errorf("dialog %d: %w", i, err)
		}
	}

	params := g.cfg.Params()
	predictions := make([]ChatPrediction, 0, len(dialogs))
	for i, dialog := range dialogs {
		prediction, err := g.provider.Chat(ctx, dialog, params)
		if err != nil {
			return nil, fmt.Errorf("%s chat completion for dialog %d: %w", g.provider.Name(), i, err)
		}
		predictions = append(predictions, *prediction)
	}
	return predictions, nil
}

func validateDialog(dialog Dialog) error {
	if len(dialog) == 0 {
		return ErrEmptyDialog
	}
	for i, msg := range dialog {
		if !msg.Role.Valid() {
			return fmt.Errorf("%w %q at message %d", ErrInvalidRole, msg.Role, i)
		}
	}
	return nil
}
