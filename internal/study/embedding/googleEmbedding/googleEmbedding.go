package googleEmbedding

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/akolanti/StudyAPI/internal/config"
	"github.com/akolanti/StudyAPI/internal/customHttpClient"
	"github.com/akolanti/StudyAPI/internal/study/embedding"
	"github.com/akolanti/StudyAPI/pkg/logger_i"
	"google.golang.org/genai"
)

var logger = logger_i.NewLogger("google_embedding")
var once sync.Once
var embeddingClient *client
var dimension int32 = config.EmbeddingOutputDimensionality

const (
	taskDocument = "RETRIEVAL_DOCUMENT"
	taskQuery    = "RETRIEVAL_QUERY"
)

type client struct {
	genAi *genai.Client
	model string
}

func newGoogleEmbedder(ctx context.Context, modelName string, apikey string) {
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     apikey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: customHttpClient.GetClient(),
	})
	if err != nil {
		logger.Error("Error creating Google Embedding client", "error", err)
		return
	}
	embeddingClient = &client{
		genAi: c,
		model: modelName,
	}
	logger.Info("Google Embedding client created", "model", modelName)
	go closeClient(ctx)
}

func closeClient(ctx context.Context) {
	<-ctx.Done()
	logger.Info("Closing Google Embedding client")
}

// GetGoogleEmbeddingClient returns nil when the client could not be created,
// which turns semantic search off.
func GetGoogleEmbeddingClient(ctx context.Context, modelName string, apikey string) embedding.Embedder {
	once.Do(func() {
		if apikey == "" {
			logger.Warn("no embedding api key, semantic search disabled")
			return
		}
		newGoogleEmbedder(ctx, modelName, apikey)
	})

	if embeddingClient == nil {
		return nil
	}
	return &client{genAi: embeddingClient.genAi, model: embeddingClient.model}
}

func (c *client) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	log := logger.WithTrace(ctx)
	log.Debug("embedding query", "length", len(query))

	res, err := c.embedWithRetry(ctx, genai.Text(query), taskQuery, log)
	if err != nil {
		return nil, err
	}
	if len(res.Embeddings) == 0 || res.Embeddings[0] == nil {
		return nil, errors.New("embedding response was empty")
	}
	return res.Embeddings[0].Values, nil
}

func (c *client) BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error) {
	log := logger.WithTrace(ctx).With("batch", len(chunks))

	res, err := c.embedWithRetry(ctx, getContent(chunks), taskDocument, log)
	if err != nil {
		return nil, err
	}
	if len(res.Embeddings) != len(chunks) {
		return nil, fmt.Errorf("embedding count mismatch: sent %d got %d", len(chunks), len(res.Embeddings))
	}

	embeddingResults := make([][]float32, 0, len(res.Embeddings))
	for _, r := range res.Embeddings {
		if r == nil {
			embeddingResults = append(embeddingResults, nil)
			continue
		}
		embeddingResults = append(embeddingResults, r.Values)
	}
	return embeddingResults, nil
}

func (c *client) doCall(ctx context.Context, content []*genai.Content, task string) (*genai.EmbedContentResponse, error) {
	return c.genAi.Models.EmbedContent(ctx, c.model, content, &genai.EmbedContentConfig{
		OutputDimensionality: &dimension,
		TaskType:             task,
	})
}
