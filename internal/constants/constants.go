// Package constants provides shared constants used across the codebase.
package constants

import "time"

// Provider names accepted by --provider and FRAMEDIFF_PROVIDER
const (
	ProviderOpenAI   = "openai"
	ProviderGemini   = "gemini"
	ProviderOllama   = "ollama"
	ProviderLlamaCpp = "llamacpp"
)

// Default models per provider
const (
	DefaultOpenAIModel = "gpt-4.1-mini"
	DefaultGeminiModel = "gemini-2.5-flash"
)

// Event channel constants
const (
	// EventChannelBuffer is the buffer size for job event listeners
	EventChannelBuffer = 100

	// FinishedJobRetention is how long finished sweep jobs stay queryable
	FinishedJobRetention = time.Hour
)

// HTTP constants
const (
	// MaxRequestBodySize limits JSON request bodies (1MB)
	MaxRequestBodySize = 1 << 20
)
