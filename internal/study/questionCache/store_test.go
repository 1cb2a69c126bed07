package questionCache

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/akolanti/StudyAPI/internal/config"
	"github.com/akolanti/StudyAPI/internal/data/redisStore"
	"github.com/akolanti/StudyAPI/internal/domain/courseModel"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func sampleSet(course string, unit int, fp string) courseModel.CachedQuestionSet {
	return courseModel.CachedQuestionSet{
		CourseId: course,
		Unit:     unit,
		Questions: []courseModel.Question{{
			Question:    "What is the mean of 2 and 4?",
			Options:     []string{"2", "3", "4", "6"},
			Answer:      "B",
			Explanation: "(2+4)/2 = 3",
		}},
		Fingerprint: fp,
		GeneratedAt: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		Origin:      courseModel.OriginBackend,
	}
}

func newRedisStore(t *testing.T) (*RedisQuestionStore, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisQuestionStore(redisStore.NewTestStore(client)), mr
}

func stores(t *testing.T) map[string]Store {
	rs, _ := newRedisStore(t)
	return map[string]Store{
		"file":  NewFileStore(t.TempDir()),
		"redis": rs,
	}
}

func TestStore_Lifecycle(t *testing.T) {
	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "test-trace")

	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			if _, ok, err := s.Get(ctx, "statistics", 1); ok || err != nil {
				t.Fatalf("empty store: ok=%v err=%v", ok, err)
			}
			units, err := s.ListCachedUnits(ctx, "statistics")
			if err != nil || len(units) != 0 {
				t.Fatalf("empty listing: %v %v", units, err)
			}

			want := sampleSet("statistics", 2, "h1")
			if err := s.Put(ctx, want); err != nil {
				t.Fatalf("Put failed: %v", err)
			}
			got, ok, err := s.Get(ctx, "statistics", 2)
			if err != nil || !ok {
				t.Fatalf("Get after Put: ok=%v err=%v", ok, err)
			}
			if !reflect.DeepEqual(got.Questions, want.Questions) || !got.GeneratedAt.Equal(want.GeneratedAt) || got.Origin != want.Origin {
				t.Errorf("round trip mismatch: %+v", got)
			}

			if valid, _ := s.IsValid(ctx, "statistics", 2, "h1"); !valid {
				t.Error("set should be valid for its own fingerprint")
			}
			if valid, _ := s.IsValid(ctx, "statistics", 2, "h2"); valid {
				t.Error("set should be stale for a new fingerprint")
			}
			if valid, _ := s.IsValid(ctx, "statistics", 9, "h1"); valid {
				t.Error("missing set cannot be valid")
			}

			// last write wins
			replaced := sampleSet("statistics", 2, "h2")
			replaced.Origin = courseModel.OriginFallback
			if err := s.Put(ctx, replaced); err != nil {
				t.Fatal(err)
			}
			got, _, _ = s.Get(ctx, "statistics", 2)
			if got.Fingerprint != "h2" || got.Origin != courseModel.OriginFallback {
				t.Errorf("second Put should replace the set, got %+v", got)
			}

			_ = s.Put(ctx, sampleSet("statistics", 10, "h2"))
			_ = s.Put(ctx, sampleSet("algebra", 1, "x"))
			units, err = s.ListCachedUnits(ctx, "statistics")
			if err != nil || !reflect.DeepEqual(units, []int{2, 10}) {
				t.Errorf("listing got %v, %v", units, err)
			}
		})
	}
}

func TestStore_RejectsBadKeys(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name   string
		course string
		unit   int
	}{
		{"empty course", "", 1},
		{"zero unit", "stats", 0},
		{"path traversal", "../etc", 1},
		{"separator", "a/b", 1},
	}
	for name, s := range stores(t) {
		for _, tt := range tests {
			t.Run(name+"/"+tt.name, func(t *testing.T) {
				if err := s.Put(ctx, sampleSet(tt.course, tt.unit, "h")); err == nil {
					t.Error("expected an error")
				}
			})
		}
	}
}

func TestFileStore_Layout(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStore(dir)
	if err := s.Put(context.Background(), sampleSet("statistics", 3, "h1")); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, "statistics", "unit_3.json")); err != nil {
		t.Errorf("expected unit_3.json: %v", err)
	}
	entries, _ := os.ReadDir(filepath.Join(dir, "statistics"))
	if len(entries) != 1 {
		t.Errorf("temp files left behind: %d entries", len(entries))
	}
}

func TestFileStore_CorruptFileIsAnError(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "stats"), 0750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "stats", "unit_1.json"), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	s := NewFileStore(dir)
	if _, ok, err := s.Get(context.Background(), "stats", 1); ok || err == nil {
		t.Errorf("corrupt file: ok=%v err=%v", ok, err)
	}
	if valid, err := s.IsValid(context.Background(), "stats", 1, "h"); valid || err == nil {
		t.Errorf("corrupt file should not validate: %v %v", valid, err)
	}
}

func TestFileStore_ConcurrentPutsLeaveOneWholeSet(t *testing.T) {
	s := NewFileStore(t.TempDir())
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			fp := "h-even"
			if i%2 == 1 {
				fp = "h-odd"
			}
			_ = s.Put(ctx, sampleSet("stats", 1, fp))
		}(i)
	}
	wg.Wait()

	got, ok, err := s.Get(ctx, "stats", 1)
	if err != nil || !ok {
		t.Fatalf("Get: %v %v", ok, err)
	}
	if got.Fingerprint != "h-even" && got.Fingerprint != "h-odd" {
		t.Errorf("unexpected fingerprint %q", got.Fingerprint)
	}
}

func TestRedisQuestionStore_Keys(t *testing.T) {
	s, mr := newRedisStore(t)
	if err := s.Put(context.Background(), sampleSet("statistics", 4, "h1")); err != nil {
		t.Fatal(err)
	}
	if !mr.Exists("questions:statistics:4") {
		t.Error("set key missing")
	}
	members, err := mr.Members("questions:statistics:units")
	if err != nil || !reflect.DeepEqual(members, []string{"4"}) {
		t.Errorf("unit set got %v, %v", members, err)
	}
}

func TestNewStore_FallsBackToFiles(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(context.Background(), config.CacheSettings{Dir: dir})
	if _, ok := s.(*FileStore); !ok {
		t.Fatalf("expected a file store, got %T", s)
	}
}
