package qdrantDB

import (
	"reflect"
	"testing"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
)

func TestPointId(t *testing.T) {
	a := PointId("stats", "h1", 3)
	if a != PointId("stats", "h1", 3) {
		t.Error("point ids must be deterministic")
	}
	if a == PointId("stats", "h2", 3) {
		t.Error("a new fingerprint must produce new ids")
	}
	if a == PointId("stats", "h1", 4) {
		t.Error("chunks must not share ids")
	}
	if _, err := uuid.Parse(a); err != nil {
		t.Errorf("qdrant needs uuid ids, got %q: %v", a, err)
	}
}

func TestToSearchMatch(t *testing.T) {
	payload, err := qdrant.TryValueMap(map[string]any{
		"course_id":   "stats",
		"chunk_index": 7,
		"units":       []any{2, 3},
		"content":     "Hypothesis testing starts with a null hypothesis.",
	})
	if err != nil {
		t.Fatal(err)
	}
	got := toSearchMatch(&qdrant.ScoredPoint{Payload: payload, Score: 0.82})

	if got.CourseId != "stats" || got.ChunkIndex != 7 || got.Score != 0.82 {
		t.Errorf("unexpected match %+v", got)
	}
	if !reflect.DeepEqual(got.Units, []int{2, 3}) {
		t.Errorf("units got %v", got.Units)
	}
	if got.Snippet == "" {
		t.Error("snippet should carry the chunk content")
	}
}
