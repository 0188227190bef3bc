package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.5-flash"

type GeminiProvider struct {
	client *genai.Client
	model  string
	usage  usageCounter
}

func NewGeminiProvider(ctx context.Context, apiKey, model string, pricing RequestPricing) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	if model == "" {
		model = defaultGeminiModel
	}

	return &GeminiProvider{
		client: client,
		model:  model,
		usage:  usageCounter{pricing: pricing},
	}, nil
}

func (p *GeminiProvider) GetUsage() Usage {
	return p.usage.snapshot()
}

func (p *GeminiProvider) ResetUsage() {
	p.usage.reset()
}

func (p *GeminiProvider) Name() string {
	return p.model
}

func (p *GeminiProvider) Chat(ctx context.Context, dialog Dialog, params GenerationParams) (*ChatPrediction, error) {
	contents, system := toGeminiContents(dialog)

	config := &genai.GenerateContentConfig{
		Temperature: float32Ptr(params.Temperature),
		TopP:        float32Ptr(params.TopP),
	}
	if params.MaxGenLen > 0 {
		config.MaxOutputTokens = int32(params.MaxGenLen)
	}
	if system != nil {
		config.SystemInstruction = system
	}

	result, err := p.client.Models.GenerateContent(ctx, p.model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("gemini API error: %w", err)
	}

	// Track usage
	if result.UsageMetadata != nil {
		p.usage.track(int64(result.UsageMetadata.PromptTokenCount), int64(result.UsageMetadata.CandidatesTokenCount))
	}

	content := result.Text()
	if content == "" {
		return nil, errors.New("no response from Gemini")
	}

	return &ChatPrediction{
		Generation: Message{Role: RoleAssistant, Content: content},
	}, nil
}

// toGeminiContents maps a dialog onto Gemini contents. System turns are joined
// into a single system instruction; assistant turns use the "model" role.
func toGeminiContents(dialog Dialog) ([]*genai.Content, *genai.Content) {
	var contents []*genai.Content
	var systemParts []string
	for _, msg := range dialog {
		switch msg.Role {
		case RoleSystem:
			systemParts = append(systemParts, msg.Content)
		case RoleAssistant:
			contents = append(contents, &genai.Content{
				Role:  "model",
				Parts: []*genai.Part{{Text: msg.Content}},
			})
		default:
			contents = append(contents, &genai.Content{
				Role:  "user",
				Parts: []*genai.Part{{Text: msg.Content}},
			})
		}
	}

	if len(systemParts) == 0 {
		return contents, nil
	}
	return contents, &genai.Content{
		Parts: []*genai.Part{{Text: strings.Join(systemParts, "\n\n")}},
	}
}

func float32Ptr(v float64) *float32 {
	f := float32(v)
	return &f
}
