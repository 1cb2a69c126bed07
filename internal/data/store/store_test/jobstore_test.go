package store_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/akolanti/StudyAPI/internal/config"
	"github.com/akolanti/StudyAPI/internal/data/redisStore"
	"github.com/akolanti/StudyAPI/internal/data/store"
	"github.com/akolanti/StudyAPI/internal/domain/jobModel"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestRedisJobStore_Lifecycle(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	jobStore := store.TestJobStore(redisStore.NewTestStore(client))

	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "test-trace")
	jobID := "job_abc_123"

	testJob := jobModel.Job{
		Id:      jobID,
		Status:  jobModel.JobStatusRunning,
		JobType: jobModel.JobTypeWarm,
		JobPayload: jobModel.JobPayload{
			CourseId:       "statistics",
			GeneratedUnits: []int{1, 2},
		},
	}

	t.Run("Save and Get Roundtrip", func(t *testing.T) {
		if err := jobStore.SaveJob(ctx, testJob); err != nil {
			t.Fatalf("SaveJob failed: %v", err)
		}

		retrievedJob, found := jobStore.GetJob(ctx, jobID)
		if !found {
			t.Fatal("Job was saved but not found in Redis")
		}
		if retrievedJob.JobPayload.CourseId != "statistics" || len(retrievedJob.JobPayload.GeneratedUnits) != 2 {
			t.Errorf("Data mismatch! Got %+v", retrievedJob.JobPayload)
		}
		if ttl := mr.TTL("job:" + jobID); ttl != config.RedisJobStoreTTL {
			t.Errorf("expected TTL %v, got %v", config.RedisJobStoreTTL, ttl)
		}
	})

	t.Run("Get Non-Existent Job", func(t *testing.T) {
		if _, found := jobStore.GetJob(ctx, "ghost-id"); found {
			t.Error("Expected found=false for non-existent key")
		}
	})

	t.Run("Corrupt Job Is Not Found", func(t *testing.T) {
		if err := mr.Set("job:corrupt", "{oops"); err != nil {
			t.Fatal(err)
		}
		if _, found := jobStore.GetJob(ctx, "corrupt"); found {
			t.Error("corrupt job should read as missing")
		}
	})

	t.Run("Delete Job", func(t *testing.T) {
		jobStore.DeleteJob(ctx, jobID)
		if mr.Exists("job:" + jobID) {
			t.Error("Job still exists in Redis after DeleteJob call")
		}
	})
}

func TestRedisJobStore_Race(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	jobStore := store.TestJobStore(redisStore.NewTestStore(client))

	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "race-trace")
	job := jobModel.Job{Id: "race-job"}

	const workers = 50
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = jobStore.SaveJob(ctx, job)
			_, _ = jobStore.GetJob(ctx, "race-job")
		}()
	}
	wg.Wait()
	if _, found := jobStore.GetJob(ctx, "race-job"); !found {
		t.Error("job missing after concurrent saves")
	}
}

func TestInMemoryJobStore(t *testing.T) {
	s := store.InitInMemoryJobStore()
	ctx := context.Background()
	if err := s.SaveJob(ctx, jobModel.Job{Id: "a", Status: jobModel.JobStatusQueued}); err != nil {
		t.Fatal(err)
	}
	got, ok := s.GetJob(ctx, "a")
	if !ok || got.Status != jobModel.JobStatusQueued {
		t.Errorf("got %+v %v", got, ok)
	}
	s.DeleteJob(ctx, "a")
	if _, ok := s.GetJob(ctx, "a"); ok {
		t.Error("job should be deleted")
	}
}

func TestInMemoryJobStore_Expiry(t *testing.T) {
	s := store.InitInMemoryJobStoreWithTTL(20 * time.Millisecond)
	ctx := context.Background()
	if err := s.SaveJob(ctx, jobModel.Job{Id: "old", Status: jobModel.JobStatusComplete}); err != nil {
		t.Fatal(err)
	}
	if _, ok := s.GetJob(ctx, "old"); !ok {
		t.Fatal("job should be readable before its TTL")
	}
	time.Sleep(40 * time.Millisecond)
	if _, ok := s.GetJob(ctx, "old"); ok {
		t.Error("job should expire after its TTL")
	}
	if err := s.SaveJob(ctx, jobModel.Job{Id: "new"}); err != nil {
		t.Fatal(err)
	}
	if _, ok := s.GetJob(ctx, "new"); !ok {
		t.Error("a fresh job should be readable")
	}
}
