package googleEmbedding

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/akolanti/StudyAPI/pkg/logger_i"
	"google.golang.org/genai"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	maxEmbeddingAttempts = 3
	rateLimitWait        = 5 * time.Second
)

func getContent(chunks []string) []*genai.Content {
	contentsToSend := make([]*genai.Content, 0, len(chunks))

	for _, chunk := range chunks {
		contentsToSend = append(contentsToSend, &genai.Content{
			Parts: []*genai.Part{{Text: chunk}},
		})
	}
	return contentsToSend
}

// doRetry reports whether err is a rate limit, the only failure worth waiting out.
func doRetry(err error, log *logger_i.Logger) bool {
	if err == nil {
		return false
	}
	var apiErr genai.APIError
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusTooManyRequests {
		log.Warn("Rate limit hit", "error", err)
		return true
	}
	if s, ok := status.FromError(err); ok {
		if s.Code() == codes.ResourceExhausted {
			log.Warn("Rate limit hit", "error", err)
			return true
		}
	}
	return false
}

func (c *client) embedWithRetry(ctx context.Context, content []*genai.Content, task string, log *logger_i.Logger) (*genai.EmbedContentResponse, error) {
	var lastErr error
	for attempt := 1; attempt <= maxEmbeddingAttempts; attempt++ {
		res, err := c.doCall(ctx, content, task)
		if err == nil && res != nil {
			return res, nil
		}
		if err == nil {
			err = errors.New("embedding response was nil")
		}
		lastErr = err
		if !doRetry(err, log) {
			break
		}
		log.Debug("Retrying embedding call", "attempt", attempt, "wait", rateLimitWait)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(rateLimitWait * time.Duration(attempt)):
		}
	}
	log.Error("Error getting Embeddings from Google", "error", lastErr)
	return nil, lastErr
}
