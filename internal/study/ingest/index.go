package ingest

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/akolanti/StudyAPI/internal/config"
	"github.com/akolanti/StudyAPI/internal/domain/courseModel"
	"github.com/akolanti/StudyAPI/internal/metrics"
	"github.com/akolanti/StudyAPI/internal/study/embedding"
	"github.com/akolanti/StudyAPI/internal/study/vectorDB"
)

// Indexer pushes course chunks into the vector index. It remembers the
// fingerprint each course was last indexed with and skips unchanged courses.
type Indexer struct {
	index    vectorDB.ChunkIndex
	embedder embedding.Embedder

	mu      sync.Mutex
	indexed map[string]string
}

func NewIndexer(index vectorDB.ChunkIndex, embedder embedding.Embedder) *Indexer {
	return &Indexer{
		index:    index,
		embedder: embedder,
		indexed:  make(map[string]string),
	}
}

// IndexChanged indexes every course whose fingerprint differs from the last
// indexed one. Failures are logged per course and never returned.
func (ix *Indexer) IndexChanged(ctx context.Context, courses []courseModel.CourseParseResult) {
	log := logger.WithTrace(ctx)
	for _, course := range courses {
		if ctx.Err() != nil {
			return
		}
		ix.mu.Lock()
		last := ix.indexed[course.CourseId]
		ix.mu.Unlock()
		if last == course.Fingerprint {
			continue
		}

		if err := BatchIndex(ctx, course, ix.index, ix.embedder); err != nil {
			log.Error("indexing course failed", "courseId", course.CourseId, "error", err)
			continue
		}
		ix.mu.Lock()
		ix.indexed[course.CourseId] = course.Fingerprint
		ix.mu.Unlock()
		log.Info("course indexed", "courseId", course.CourseId, "chunks", len(course.Chunks))
	}
}

// BatchIndex replaces the indexed chunks of one course, embedding them in
// batches.
func BatchIndex(ctx context.Context, course courseModel.CourseParseResult, index vectorDB.ChunkIndex, embedder embedding.Embedder) error {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("vector_index", time.Since(start)) }()

	if err := index.DeleteCourse(ctx, course.CourseId); err != nil {
		return err
	}

	chunkUnits := unitsByChunk(course.Units)
	batchSize := config.EmbeddingBatchSize

	for i := 0; i < len(course.Chunks); i += batchSize {
		end := min(i+batchSize, len(course.Chunks))
		currentBatch := course.Chunks[i:end]

		texts := make([]string, 0, len(currentBatch))
		indexed := make([]vectorDB.IndexedChunk, 0, len(currentBatch))
		for _, c := range currentBatch {
			texts = append(texts, c.Text)
			indexed = append(indexed, vectorDB.IndexedChunk{
				CourseId:    course.CourseId,
				Fingerprint: course.Fingerprint,
				ChunkIndex:  c.Index,
				Units:       chunkUnits[c.Index],
				Content:     c.Text,
			})
		}

		logger.Debug("Starting embedding call", "courseId", course.CourseId, "batch", len(texts))
		vectors, err := embedder.BatchEmbedding(ctx, texts)
		if err != nil {
			return fmt.Errorf("embedding batch failed: %w", err)
		}
		if err := index.UpsertBatch(ctx, indexed, vectors); err != nil {
			return fmt.Errorf("upserting to vector index failed: %w", err)
		}
	}
	return nil
}

func unitsByChunk(units map[int]courseModel.Unit) map[int][]int {
	out := make(map[int][]int)
	for number, unit := range units {
		for _, idx := range unit.ChunkIndexes {
			out[idx] = append(out[idx], number)
		}
	}
	for idx := range out {
		sort.Ints(out[idx])
	}
	return out
}
