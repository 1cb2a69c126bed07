package anthropicLLM

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/akolanti/StudyAPI/internal/config"
	"github.com/akolanti/StudyAPI/internal/customHttpClient"
	"github.com/akolanti/StudyAPI/internal/study/llm"
	"github.com/akolanti/StudyAPI/pkg/logger_i"
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

var logger = logger_i.NewLogger("llm_anthropic")

type llmClient struct {
	client    anthropic.Client
	modelName string
}

func NewAnthropicClient(modelName string, apikey string) llm.Provider {
	if apikey == "" {
		logger.Warn("no Anthropic api key configured")
		return nil
	}
	if modelName == "" {
		modelName = config.AnthropicModelName
	}
	c := anthropic.NewClient(
		option.WithAPIKey(apikey),
		option.WithHTTPClient(customHttpClient.GetClient()),
		option.WithMaxRetries(0),
	)
	logger.Info("Anthropic client created", "model", modelName)
	return &llmClient{client: c, modelName: modelName}
}

func (c *llmClient) Name() string {
	return config.LLMProviderAnthropic
}

func (c *llmClient) Generate(ctx context.Context, prompt string) (string, error) {
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(c.modelName),
		MaxTokens:   int64(config.ModelMaxTokens),
		Messages:    []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock(prompt))},
		Temperature: anthropic.Float(float64(config.ModelTemperature)),
		System:      []anthropic.TextBlockParam{{Text: config.ModelContext}},
	}

	resp, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("anthropic messages: %w", err)
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return "", errors.New("anthropic returned no text")
	}
	return sb.String(), nil
}
