package config

import (
	_ "embed"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kozaktomas/frame-diff/internal/ai"
)

//go:embed prices.yaml
var pricesYAML []byte

const (
	DefaultDataset  = "data.json"
	DefaultProvider = "ollama"
	DefaultWebPort  = 8085
	DefaultWebHost  = "0.0.0.0"
)

type Config struct {
	Dataset    string
	Provider   string
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	Ollama     OllamaConfig
	LlamaCpp   LlamaCppConfig
	Generation GenerationConfig
	Web        WebConfig
	Prices     PricesConfig
}

type OpenAIConfig struct {
	Token string
	Model string // defaults to gpt-4.1-mini
}

type GeminiConfig struct {
	APIKey string
	Model  string // defaults to gemini-2.5-flash
}

type OllamaConfig struct {
	URL   string // defaults to http://localhost:11434
	Model string // defaults to llama3:8b
}

type LlamaCppConfig struct {
	URL   string // defaults to http://localhost:8080
	Model string // defaults to Meta-Llama-3-8B
}

// GenerationConfig mirrors ai.GeneratorConfig; zero values fall back to defaults.
type GenerationConfig struct {
	MaxSeqLen    int
	MaxBatchSize int
	Temperature  float64
	TopP         float64
	MaxGenLen    int
}

type WebConfig struct {
	Port           int
	Host           string
	AllowedOrigins []string // extra CORS origins; localhost is always allowed
}

type PricesConfig struct {
	Models map[string]ModelPricing `yaml:"models"`
}

type ModelPricing struct {
	Standard RequestPricing `yaml:"standard"`
	Batch    RequestPricing `yaml:"batch"`
}

type RequestPricing struct {
	Input  float64 `yaml:"input"`
	Output float64 `yaml:"output"`
}

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset or empty, and logs a
// warning before falling back when the value is invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	slog.Warn("ignoring invalid setting, expected a positive integer", "key", key, "value", s, "default", defaultVal)
	return defaultVal
}

// envFloat reads an environment variable and parses it as a non-negative float.
// Returns the default value if the env var is unset or empty, and logs a
// warning before falling back when the value is invalid.
func envFloat(key string, defaultVal float64) float64 {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f >= 0 {
		return f
	}
	slog.Warn("ignoring invalid setting, expected a non-negative number", "key", key, "value", s, "default", defaultVal)
	return defaultVal
}

func envString(key, defaultVal string) string {
	if s := os.Getenv(key); s != "" {
		return s
	}
	return defaultVal
}

// envList reads a comma-separated environment variable, skipping empty items.
func envList(key string) []string {
	var items []string
	for item := range strings.SplitSeq(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func Load() *Config {
	var prices PricesConfig
	if err := yaml.Unmarshal(pricesYAML, &prices); err != nil {
		// This is an embedded file so this error should never happen in practice
		panic("failed to unmarshal embedded prices.yaml: " + err.Error())
	}

	defaults := ai.DefaultGeneratorConfig()

	return &Config{
		Dataset:  envString("FRAMEDIFF_DATASET", DefaultDataset),
		Provider: envString("FRAMEDIFF_PROVIDER", DefaultProvider),
		OpenAI: OpenAIConfig{
			Token: os.Getenv("OPENAI_TOKEN"),
			Model: os.Getenv("OPENAI_MODEL"),
		},
		Gemini: GeminiConfig{
			APIKey: os.Getenv("GEMINI_API_KEY"),
			Model:  os.Getenv("GEMINI_MODEL"),
		},
		Ollama: OllamaConfig{
			URL:   os.Getenv("OLLAMA_URL"),
			Model: os.Getenv("OLLAMA_MODEL"),
		},
		LlamaCpp: LlamaCppConfig{
			URL:   os.Getenv("LLAMACPP_URL"),
			Model: os.Getenv("LLAMACPP_MODEL"),
		},
		Generation: GenerationConfig{
			MaxSeqLen:    envInt("GENERATION_MAX_SEQ_LEN", defaults.MaxSeqLen),
			MaxBatchSize: envInt("GENERATION_MAX_BATCH_SIZE", defaults.MaxBatchSize),
			Temperature:  envFloat("GENERATION_TEMPERATURE", defaults.Temperature),
			TopP:         envFloat("GENERATION_TOP_P", defaults.TopP),
			MaxGenLen:    envInt("GENERATION_MAX_GEN_LEN", defaults.MaxGenLen),
		},
		Web: WebConfig{
			Port:           envInt("WEB_PORT", DefaultWebPort),
			Host:           envString("WEB_HOST", DefaultWebHost),
			AllowedOrigins: envList("WEB_ALLOWED_ORIGINS"),
		},
		Prices: prices,
	}
}

// GeneratorConfig returns the generation settings in the form the ai package expects.
func (c *Config) GeneratorConfig() ai.GeneratorConfig {
	return ai.GeneratorConfig{
		MaxSeqLen:    c.Generation.MaxSeqLen,
		MaxBatchSize: c.Generation.MaxBatchSize,
		Temperature:  c.Generation.Temperature,
		TopP:         c.Generation.TopP,
		MaxGenLen:    c.Generation.MaxGenLen,
	}
}

// GetModelPricing returns pricing for a specific model, with fallback defaults
func (c *Config) GetModelPricing(modelName string) ModelPricing {
	if pricing, ok := c.Prices.Models[modelName]; ok {
		return pricing
	}
	// Return zero pricing if model not found
	return ModelPricing{}
}

// RequestPricing returns the standard per-request pricing in ai form.
func (c *Config) RequestPricing(modelName string) ai.RequestPricing {
	p := c.GetModelPricing(modelName).Standard
	return ai.RequestPricing{Input: p.Input, Output: p.Output}
}
