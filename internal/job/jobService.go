package job

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"

	"github.com/akolanti/StudyAPI/internal/config"
	"github.com/akolanti/StudyAPI/internal/domain/jobModel"
	"github.com/akolanti/StudyAPI/internal/metrics"
	"github.com/akolanti/StudyAPI/pkg/logger_i"
)

var logger = logger_i.NewLogger("JobService")

// Service is the queue shared by the HTTP handlers and the worker pool.
type Service struct {
	JobChannel        chan jobModel.Job
	RequestCount      int64
	DispatcherChannel chan bool
	JobStore          jobModel.JobStore
}

type ServiceConfig struct {
	JobChannel        chan jobModel.Job
	RequestCount      int64
	DispatcherChannel chan bool
	JobStore          jobModel.JobStore
}

func InitJobService(cfg ServiceConfig) *Service {
	return &Service{
		JobChannel:        cfg.JobChannel,
		RequestCount:      cfg.RequestCount,
		DispatcherChannel: cfg.DispatcherChannel,
		JobStore:          cfg.JobStore,
	}
}

// Enqueue records job as QUEUED, so /status sees it before a worker does,
// then hands it to the workers. The send blocks while the buffer is full
// and gives up when ctx is done.
func (s *Service) Enqueue(ctx context.Context, job jobModel.Job) error {
	log := logger.WithTrace(ctx).With("jobId", job.Id, "jobType", job.JobType)
	job.Status = jobModel.JobStatusQueued
	if err := s.JobStore.SaveJob(ctx, job); err != nil {
		log.Error("Failed to save queued job", "err", err)
	}

	select {
	case s.JobChannel <- job:
	case <-ctx.Done():
		job.Status = jobModel.JobStatusError
		job.CurrentStep = jobModel.Error
		job.Error = jobModel.JobError{Code: http.StatusServiceUnavailable, Message: "job queue is full", Retry: true}
		_ = s.JobStore.SaveJob(context.WithoutCancel(ctx), job)
		return fmt.Errorf("enqueue job %s: %w", job.Id, ctx.Err())
	}
	metrics.IncrementJobsInQueue()
	log.Info("Created new job")

	// ingest and warm jobs are long running, so each one asks the dispatcher
	// for a worker; idle workers retire on their own
	count := atomic.AddInt64(&s.RequestCount, 1)
	if count%config.RequestsPerNewWorkerCount == 0 || job.JobType == jobModel.JobTypeIngest || job.JobType == jobModel.JobTypeWarm {
		metrics.StartDispatcherSignalCount()
		log.Debug("Signalling dispatcher", "requestCount", count)
		select {
		case s.DispatcherChannel <- true:
		case <-ctx.Done():
			log.Warn("Dispatcher signal dropped", "err", ctx.Err())
		}
	}
	return nil
}
