package ai

import (
	"context"
	"sync"
)

// Role identifies the author of a dialog turn.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether r is one of the roles accepted by chat backends.
func (r Role) Valid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	}
	return false
}

// Message is a single dialog turn.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Dialog is an ordered conversation submitted as one chat completion.
type Dialog []Message

// ChatPrediction is the model's reply to one dialog.
type ChatPrediction struct {
	Generation Message `json:"generation"`
}

// GenerationParams are the sampling settings passed to a provider for a single call.
type GenerationParams struct {
	Temperature float64
	TopP        float64
	MaxGenLen   int // maximum number of generated tokens
	MaxSeqLen   int // context window requested from local backends
}

// Provider defines the interface for chat-completion backends.
type Provider interface {
	Name() string
	Chat(ctx context.Context, dialog Dialog, params GenerationParams) (*ChatPrediction, error)

	// Usage tracking.
	GetUsage() Usage
	ResetUsage()
}

// Usage tracks token usage and calculates cost.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalCost    float64 // in USD
}

// RequestPricing holds input/output prices per 1M tokens
type RequestPricing struct {
	Input  float64
	Output float64
}

// usageCounter accumulates Usage; providers may be shared by HTTP handlers.
type usageCounter struct {
	mu      sync.Mutex
	usage   Usage
	pricing RequestPricing
}

func (c *usageCounter) track(inputTokens, outputTokens int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.usage.InputTokens += int(inputTokens)
	c.usage.OutputTokens += int(outputTokens)
	c.usage.TotalCost += float64(inputTokens) / 1_000_000 * c.pricing.Input
	c.usage.TotalCost += float64(outputTokens) / 1_000_000 * c.pricing.Output
}

func (c *usageCounter) snapshot() Usage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.usage
}

func (c *usageCounter) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.usage = Usage{}
}
