package gemini

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/akolanti/StudyAPI/internal/config"
	"github.com/akolanti/StudyAPI/internal/customHttpClient"
	"github.com/akolanti/StudyAPI/internal/study/llm"
	"github.com/akolanti/StudyAPI/pkg/logger_i"
	"google.golang.org/genai"
)

type llmClient struct {
	client    *genai.Client
	modelName string
}

var logger = logger_i.NewLogger("llm_gemini")
var geminiClient *llmClient
var once sync.Once

// GetGeminiClient returns the shared Gemini provider, or nil when the client
// could not be created.
func GetGeminiClient(ctx context.Context, modelName string, apikey string) llm.Provider {
	once.Do(func() {
		newGeminiClient(ctx, modelName, apikey)
	})

	if geminiClient == nil {
		return nil
	}
	return geminiClient
}

func newGeminiClient(ctx context.Context, modelName string, apikey string) {
	if apikey == "" {
		logger.Warn("no Gemini api key configured")
		return
	}
	if modelName == "" {
		modelName = config.GeminiModelName
	}

	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     apikey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: customHttpClient.GetClient(),
	})
	if err != nil {
		logger.Error("Error creating Gemini client:", "error", err)
		return
	}
	geminiClient = &llmClient{client: c, modelName: modelName}
	logger.Info("Gemini client created", "model", modelName)
}

func (c *llmClient) Name() string {
	return config.LLMProviderGemini
}

func (c *llmClient) Generate(ctx context.Context, prompt string) (string, error) {
	contentConfig := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(config.ModelContext, genai.RoleUser),
		Temperature:       genai.Ptr(config.ModelTemperature),
		MaxOutputTokens:   config.ModelMaxTokens,
		ResponseMIMEType:  "application/json",
	}

	result, err := c.client.Models.GenerateContent(ctx, c.modelName, genai.Text(prompt), contentConfig)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	text := result.Text()
	if text == "" {
		return "", errors.New("gemini returned no text")
	}
	return text, nil
}
