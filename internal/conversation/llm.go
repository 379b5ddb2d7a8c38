package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"

	"github.com/bookwise-ai/bookwise/internal/catalog"
	"github.com/bookwise-ai/bookwise/pkg/logging"
)

var llmTracer = otel.Tracer("bookwise.internal.conversation")

// TextCompleter produces one completion for a system+user prompt pair.
// Satisfied by LLMClient; tests supply canned implementations.
type TextCompleter interface {
	Complete(ctx context.Context, system, user string, temperature float32, maxTokens int) (string, error)
}

// chatAPI is the slice of the OpenAI client the LLM client needs.
type chatAPI interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// LLMClient calls a chat completion API. The Groq endpoint speaks the OpenAI
// wire protocol, so the same client serves either provider.
type LLMClient struct {
	client chatAPI
	model  string
	logger *logging.Logger
}

// LLMConfig configures the completion endpoint.
type LLMConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// NewLLMClient builds a client against the configured endpoint.
func NewLLMClient(cfg LLMConfig, logger *logging.Logger) (*LLMClient, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("conversation: llm api key required")
	}
	if cfg.Model == "" {
		return nil, errors.New("conversation: llm model required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &LLMClient{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
		logger: logger,
	}, nil
}

// newLLMClientWithAPI injects a chat API. Intended for tests.
func newLLMClientWithAPI(api chatAPI, model string, logger *logging.Logger) *LLMClient {
	if logger == nil {
		logger = logging.Default()
	}
	return &LLMClient{client: api, model: model, logger: logger}
}

// Complete sends one system+user exchange and returns the reply text.
func (c *LLMClient) Complete(ctx context.Context, system, user string, temperature float32, maxTokens int) (string, error) {
	ctx, span := llmTracer.Start(ctx, "conversation.complete")
	defer span.End()

	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: temperature,
		MaxTokens:   maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	}
	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("conversation: completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		err := errors.New("conversation: completion returned no choices")
		span.RecordError(err)
		return "", err
	}
	return resp.Choices[0].Message.Content, nil
}

// Sampling parameters: conversational replies get headroom, extraction is
// kept short and near-deterministic.
const (
	chatTemperature    float32 = 0.7
	chatMaxTokens              = 2048
	extractTemperature float32 = 0.3
	extractMaxTokens           = 150
)

// ServiceGuesser asks the model which catalog service an utterance refers to.
// It implements the extractor's fallback for phrasings the keyword table
// misses ("my hair is a mess" -> Salon Service).
type ServiceGuesser struct {
	completer TextCompleter
	logger    *logging.Logger
}

// NewServiceGuesser builds the guesser.
func NewServiceGuesser(completer TextCompleter, logger *logging.Logger) *ServiceGuesser {
	if completer == nil {
		panic("conversation: text completer required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &ServiceGuesser{completer: completer, logger: logger}
}

// GuessService returns the exact catalog service name, or the NOT_FOUND
// sentinel when the utterance names no service.
func (g *ServiceGuesser) GuessService(ctx context.Context, utterance string) (string, error) {
	prompt := fmt.Sprintf(`Extract service type from: %q
Available: %s
Reply with ONLY the exact service name or "NOT_FOUND".
Service:`, utterance, strings.Join(catalog.Names(), ", "))

	reply, err := g.completer.Complete(ctx, "You are a data extraction assistant.", prompt, extractTemperature, extractMaxTokens)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(reply), nil
}
