package vectorDB

import (
	"context"

	"github.com/akolanti/StudyAPI/internal/domain/courseModel"
)

// IndexedChunk is one chunk of a course as stored in the vector index.
type IndexedChunk struct {
	CourseId    string
	Fingerprint string
	ChunkIndex  int
	Units       []int
	Content     string
}

type ChunkIndex interface {
	CreateCollection(ctx context.Context) error
	DeleteCourse(ctx context.Context, courseId string) error
	UpsertBatch(ctx context.Context, chunks []IndexedChunk, vectors [][]float32) error
	Search(ctx context.Context, courseId string, vector []float32, limit int) ([]courseModel.SearchMatch, error)
}
