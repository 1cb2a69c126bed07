package qdrantDB

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/akolanti/StudyAPI/internal/config"
	"github.com/akolanti/StudyAPI/internal/domain/courseModel"
	"github.com/akolanti/StudyAPI/internal/study/vectorDB"
	"github.com/akolanti/StudyAPI/pkg/logger_i"
	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
)

var logger = logger_i.NewLogger("Qdrant")
var quadrantInstance *qdrant.Client
var once sync.Once
var dimension = uint64(config.EmbeddingOutputDimensionality)

// namespace for deterministic point ids
var pointNamespace = uuid.MustParse("6f1c1f0e-4d2b-4c8e-9a57-2f0d6c3a9b11")

type ClientHolder struct {
	QObj       *qdrant.Client
	collection string
}

// GetQuadrantClient connects once and returns nil when Qdrant is unreachable,
// which turns semantic search off.
func GetQuadrantClient(ctx context.Context, host string, port int) *ClientHolder {
	once.Do(func() {
		res := newClient(ctx, host, port)
		if res != nil {
			quadrantInstance = res
			go closeQdrant(ctx, quadrantInstance)
		}
	})

	if quadrantInstance == nil {
		return nil
	}
	return &ClientHolder{
		QObj:       quadrantInstance,
		collection: config.ChunkIndexCollection,
	}
}

func newClient(ctx context.Context, host string, port int) *qdrant.Client {
	if host == "" {
		logger.Info("no qdrant host configured")
		return nil
	}
	client, err := qdrant.NewClient(&qdrant.Config{
		Host:     host,
		Port:     port,
		UseTLS:   config.QdrantUseTLS,
		PoolSize: uint(config.QdrantPoolSize),
	})
	if err != nil {
		logger.Error("could not instantiate", "error", err)
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, config.QdrantConnectionTimeout)
	defer cancel()
	if err := createCollection(ctx, client, config.ChunkIndexCollection); err != nil {
		logger.Error("could not create collection", "collectionName", config.ChunkIndexCollection, "error", err)
		_ = client.Close()
		return nil
	}

	return client
}

func closeQdrant(ctx context.Context, qi *qdrant.Client) {
	<-ctx.Done()
	logger.Info("Shutting down Qdrant")
	if err := qi.Close(); err != nil {
		logger.Error("could not close Qdrant", "error", err)
	}
}

// PointId is stable for a given course version and chunk, so re-indexing the
// same document overwrites instead of duplicating.
func PointId(courseId, fingerprint string, chunkIndex int) string {
	name := courseId + "/" + fingerprint + "/" + strconv.Itoa(chunkIndex)
	return uuid.NewSHA1(pointNamespace, []byte(name)).String()
}

func (db *ClientHolder) CreateCollection(ctx context.Context) error {
	return createCollection(ctx, db.QObj, db.collection)
}

func (db *ClientHolder) DeleteCourse(ctx context.Context, courseId string) error {
	_, err := db.QObj.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: db.collection,
		Wait:           qdrant.PtrOf(true),
		Points: qdrant.NewPointsSelectorFilter(&qdrant.Filter{
			Must: []*qdrant.Condition{qdrant.NewMatch("course_id", courseId)},
		}),
	})
	if err != nil {
		return fmt.Errorf("qdrant delete for course %s failed: %w", courseId, err)
	}
	return nil
}

func (db *ClientHolder) UpsertBatch(ctx context.Context, chunks []vectorDB.IndexedChunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("mismatch: got %d chunks but %d vectors", len(chunks), len(vectors))
	}

	qdrantPoints := make([]*qdrant.PointStruct, 0, len(chunks))
	for i, chunk := range chunks {
		if len(vectors[i]) == 0 {
			logger.Warn("skipping chunk without a vector", "courseId", chunk.CourseId, "chunk", chunk.ChunkIndex)
			continue
		}
		units := make([]any, 0, len(chunk.Units))
		for _, u := range chunk.Units {
			units = append(units, u)
		}
		payload, err := qdrant.TryValueMap(map[string]any{
			"course_id":   chunk.CourseId,
			"chunk_index": chunk.ChunkIndex,
			"units":       units,
			"content":     chunk.Content,
			"fingerprint": chunk.Fingerprint,
		})
		if err != nil {
			return fmt.Errorf("building payload for chunk %d: %w", chunk.ChunkIndex, err)
		}
		qdrantPoints = append(qdrantPoints, &qdrant.PointStruct{
			Id:      qdrant.NewID(PointId(chunk.CourseId, chunk.Fingerprint, chunk.ChunkIndex)),
			Vectors: qdrant.NewVectors(vectors[i]...),
			Payload: payload,
		})
	}
	if len(qdrantPoints) == 0 {
		return nil
	}

	_, err := db.QObj.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: db.collection,
		Points:         qdrantPoints,
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		return fmt.Errorf("qdrant upsert failed: %w", err)
	}
	return nil
}

func (db *ClientHolder) Search(ctx context.Context, courseId string, vector []float32, limit int) ([]courseModel.SearchMatch, error) {
	log := logger.WithTrace(ctx)
	if limit <= 0 {
		limit = config.SearchDefaultLimit
	}
	result, err := db.QObj.Query(ctx, &qdrant.QueryPoints{
		CollectionName: db.collection,
		Query:          qdrant.NewQuery(vector...),
		Filter: &qdrant.Filter{
			Must: []*qdrant.Condition{qdrant.NewMatch("course_id", courseId)},
		},
		Limit:       qdrant.PtrOf(uint64(limit)),
		WithPayload: qdrant.NewWithPayload(true),
	})
	if err != nil {
		log.Error("Error querying Qdrant", "error", err)
		return nil, err
	}

	matches := make([]courseModel.SearchMatch, 0, len(result))
	for _, hit := range result {
		matches = append(matches, toSearchMatch(hit))
	}
	log.Debug("Found matches", "count", len(matches))
	return matches, nil
}

func toSearchMatch(hit *qdrant.ScoredPoint) courseModel.SearchMatch {
	payload := hit.GetPayload()
	var units []int
	for _, v := range payload["units"].GetListValue().GetValues() {
		units = append(units, int(v.GetIntegerValue()))
	}
	return courseModel.SearchMatch{
		CourseId:   payload["course_id"].GetStringValue(),
		ChunkIndex: int(payload["chunk_index"].GetIntegerValue()),
		Units:      units,
		Score:      hit.GetScore(),
		Snippet:    payload["content"].GetStringValue(),
	}
}

func createCollection(ctx context.Context, client *qdrant.Client, collectionName string) error {
	if collectionName == "" {
		return errors.New("empty collection name")
	}

	exists, err := client.CollectionExists(ctx, collectionName)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	err = client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     dimension,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return err
	}

	// payload index so per-course filters stay cheap
	_, err = client.CreateFieldIndex(ctx, &qdrant.CreateFieldIndexCollection{
		CollectionName: collectionName,
		FieldName:      "course_id",
		FieldType:      qdrant.FieldType_FieldTypeKeyword.Enum(),
	})
	return err
}
