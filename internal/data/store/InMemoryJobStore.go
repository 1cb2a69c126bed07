package store

import (
	"context"
	"sync"
	"time"

	"github.com/akolanti/StudyAPI/internal/config"
	"github.com/akolanti/StudyAPI/internal/domain/jobModel"
	"github.com/akolanti/StudyAPI/pkg/logger_i"
)

var inMemLogger = logger_i.NewLogger("InMem JobStore")

type storedJob struct {
	job       jobModel.Job
	expiresAt time.Time
}

// InMemoryJobStore is the job store used when Redis is offline. Jobs expire
// after the same TTL the Redis store sets.
type InMemoryJobStore struct {
	jobMutex *sync.RWMutex
	jobMap   map[string]storedJob
	ttl      time.Duration
	now      func() time.Time
}

func InitInMemoryJobStore() *InMemoryJobStore {
	return InitInMemoryJobStoreWithTTL(config.RedisJobStoreTTL)
}

func InitInMemoryJobStoreWithTTL(ttl time.Duration) *InMemoryJobStore {
	return &InMemoryJobStore{
		jobMutex: new(sync.RWMutex),
		jobMap:   make(map[string]storedJob),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (store *InMemoryJobStore) SaveJob(ctx context.Context, jobToStore jobModel.Job) error {
	store.jobMutex.Lock()
	defer store.jobMutex.Unlock()

	now := store.now()
	store.jobMap[jobToStore.Id] = storedJob{job: jobToStore, expiresAt: now.Add(store.ttl)}
	store.evictExpired(now)
	inMemLogger.WithTrace(ctx).Debug("Saved job to store", "jobId", jobToStore.Id, "status", jobToStore.Status)
	return nil
}

func (store *InMemoryJobStore) GetJob(ctx context.Context, jobId string) (jobModel.Job, bool) {
	store.jobMutex.RLock()
	defer store.jobMutex.RUnlock()
	entry, found := store.jobMap[jobId]
	if !found || !store.now().Before(entry.expiresAt) {
		return jobModel.Job{}, false
	}
	return entry.job, true
}

func (store *InMemoryJobStore) DeleteJob(ctx context.Context, jobID string) {
	store.jobMutex.Lock()
	defer store.jobMutex.Unlock()
	delete(store.jobMap, jobID)
}

// evictExpired runs under the write lock.
func (store *InMemoryJobStore) evictExpired(now time.Time) {
	for id, entry := range store.jobMap {
		if !now.Before(entry.expiresAt) {
			delete(store.jobMap, id)
		}
	}
}
