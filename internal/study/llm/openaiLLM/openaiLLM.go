package openaiLLM

import (
	"context"
	"errors"
	"fmt"

	"github.com/akolanti/StudyAPI/internal/config"
	"github.com/akolanti/StudyAPI/internal/customHttpClient"
	"github.com/akolanti/StudyAPI/internal/study/llm"
	"github.com/akolanti/StudyAPI/pkg/logger_i"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

var logger = logger_i.NewLogger("llm_openai")

type llmClient struct {
	client    openai.Client
	modelName string
}

// NewOpenAIClient returns nil without an api key. SDK retries are disabled;
// the generation engine owns the retry policy.
func NewOpenAIClient(modelName string, apikey string) llm.Provider {
	if apikey == "" {
		logger.Warn("no OpenAI api key configured")
		return nil
	}
	if modelName == "" {
		modelName = config.OpenAIModelName
	}
	c := openai.NewClient(
		option.WithAPIKey(apikey),
		option.WithHTTPClient(customHttpClient.GetClient()),
		option.WithMaxRetries(0),
	)
	logger.Info("OpenAI client created", "model", modelName)
	return &llmClient{client: c, modelName: modelName}
}

func (c *llmClient) Name() string {
	return config.LLMProviderOpenAI
}

func (c *llmClient) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: c.modelName,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(config.ModelContext),
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(float64(config.ModelTemperature)),
		MaxTokens:   openai.Int(config.ModelMaxTokens),
	})
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", errors.New("openai returned no text")
	}
	return resp.Choices[0].Message.Content, nil
}
