package handlers

import (
	"net/http"

	"github.com/kozaktomas/frame-diff/internal/ai"
	"github.com/kozaktomas/frame-diff/internal/config"
)

// ConfigHandler handles configuration endpoints
type ConfigHandler struct {
	config   *config.Config
	provider ai.Provider
}

// NewConfigHandler creates a new config handler
func NewConfigHandler(cfg *config.Config, provider ai.Provider) *ConfigHandler {
	return &ConfigHandler{
		config:   cfg,
		provider: provider,
	}
}

// ConfigResponse represents the configuration response
type ConfigResponse struct {
	Providers  []ProviderInfo     `json:"providers"`
	Active     string             `json:"active"`
	Model      string             `json:"model"`
	Generation GenerationSettings `json:"generation"`
	Usage      UsageInfo          `json:"usage"`
}

// ProviderInfo represents information about an AI provider
type ProviderInfo struct {
	Name      string `json:"name"`
	Available bool   `json:"available"`
}

type GenerationSettings struct {
	MaxSeqLen    int     `json:"max_seq_len"`
	MaxBatchSize int     `json:"max_batch_size"`
	Temperature  float64 `json:"temperature"`
	TopP         float64 `json:"top_p"`
	MaxGenLen    int     `json:"max_gen_len"`
}

type UsageInfo struct {
	InputTokens  int     `json:"input_tokens"`
	OutputTokens int     `json:"output_tokens"`
	TotalCost    float64 `json:"total_cost"`
}

// Get returns the active configuration and accumulated usage
func (h *ConfigHandler) Get(w http.ResponseWriter, r *http.Request) {
	providers := []ProviderInfo{
		{
			Name:      "openai",
			Available: h.config.OpenAI.Token != "",
		},
		{
			Name:      "gemini",
			Available: h.config.Gemini.APIKey != "",
		},
		{
			Name:      "ollama",
			Available: true, // Always available (local)
		},
		{
			Name:      "llamacpp",
			Available: true, // Always available (local)
		},
	}

	gen := h.config.GeneratorConfig()
	usage := h.provider.GetUsage()

	respondJSON(w, http.StatusOK, ConfigResponse{
		Providers: providers,
		Active:    h.config.Provider,
		Model:     h.provider.Name(),
		Generation: GenerationSettings{
			MaxSeqLen:    gen.MaxSeqLen,
			MaxBatchSize: gen.MaxBatchSize,
			Temperature:  gen.Temperature,
			TopP:         gen.TopP,
			MaxGenLen:    gen.Params().MaxGenLen,
		},
		Usage: UsageInfo{
			InputTokens:  usage.InputTokens,
			OutputTokens: usage.OutputTokens,
			TotalCost:    usage.TotalCost,
		},
	})
}
