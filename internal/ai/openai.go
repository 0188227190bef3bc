package ai

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const defaultOpenAIModel = openai.ChatModelGPT4_1Mini

type OpenAIProvider struct {
	client *openai.Client
	model  openai.ChatModel
	usage  usageCounter
}

// NewOpenAIProvider creates a provider for the OpenAI Chat Completions API.
// Extra request options (base URL, HTTP client) are passed through to the SDK.
func NewOpenAIProvider(apiKey, model string, pricing RequestPricing, opts ...option.RequestOption) *OpenAIProvider {
	if model == "" {
		model = string(defaultOpenAIModel)
	}
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	client := openai.NewClient(opts...)
	return &OpenAIProvider{
		client: &client,
		model:  openai.ChatModel(model),
		usage:  usageCounter{pricing: pricing},
	}
}

func (p *OpenAIProvider) Name() string {
	return string(p.model)
}

func (p *OpenAIProvider) GetUsage() Usage {
	return p.usage.snapshot()
}

func (p *OpenAIProvider) ResetUsage() {
	p.usage.reset()
}

func (p *OpenAIProvider) Chat(ctx context.Context, dialog Dialog, params GenerationParams) (*ChatPrediction, error) {
	req := openai.ChatCompletionNewParams{
		Model:       p.model,
		Messages:    toOpenAIMessages(dialog),
		Temperature: openai.Float(params.Temperature),
		TopP:        openai.Float(params.TopP),
	}
	if params.MaxGenLen > 0 {
		req.MaxTokens = openai.Int(int64(params.MaxGenLen))
	}

	resp, err := p.client.Chat.Completions.New(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, errors.New("no response from OpenAI")
	}

	// Track usage
	if resp.Usage.PromptTokens > 0 || resp.Usage.CompletionTokens > 0 {
		p.usage.track(resp.Usage.PromptTokens, resp.Usage.CompletionTokens)
	}

	return &ChatPrediction{
		Generation: Message{
			Role:    RoleAssistant,
			Content: resp.Choices[0].Message.Content,
		},
	}, nil
}

func toOpenAIMessages(dialog Dialog) []openai.ChatCompletionMessageParamUnion {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(dialog))
	for _, msg := range dialog {
		switch msg.Role {
		case RoleSystem:
			messages = append(messages, openai.ChatCompletionMessageParamUnion{
				OfSystem: &openai.ChatCompletionSystemMessageParam{
					Content: openai.ChatCompletionSystemMessageParamContentUnion{
						OfString: openai.String(msg.Content),
					},
				},
			})
		case RoleAssistant:
			messages = append(messages, openai.ChatCompletionMessageParamUnion{
				OfAssistant: &openai.ChatCompletionAssistantMessageParam{
					Content: openai.ChatCompletionAssistantMessageParamContentUnion{
						OfString: openai.String(msg.Content),
					},
				},
			})
		default:
			messages = append(messages, openai.ChatCompletionMessageParamUnion{
				OfUser: &openai.ChatCompletionUserMessageParam{
					Content: openai.ChatCompletionUserMessageParamContentUnion{
						OfString: openai.String(msg.Content),
					},
				},
			})
		}
	}
	return messages
}
