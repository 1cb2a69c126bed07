package worker

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/akolanti/StudyAPI/internal/config"
	"github.com/akolanti/StudyAPI/internal/domain/courseModel"
	jobmodel "github.com/akolanti/StudyAPI/internal/domain/jobModel"
	"github.com/akolanti/StudyAPI/internal/metrics"
	"github.com/akolanti/StudyAPI/pkg/logger_i"
)

var errUnknownJobType = errors.New("unknown job type")

func executeJob(job jobmodel.Job) {
	start := time.Now()
	defer func() {
		metrics.CaptureJobMetrics(string(job.JobType)+"_"+string(job.Status), time.Since(start))
	}()
	ctxTrace := context.WithValue(context.Background(), config.TRACE_ID_KEY, job.TraceId)
	ctx, cancel := context.WithTimeout(ctxTrace, config.JobTimeout)
	defer cancel()
	log := logger.WithTrace(ctx).With("jobId", job.Id, "jobType", job.JobType)
	log.Debug("Processing job")

	job.Status = jobmodel.JobStatusRunning
	saveJobState(ctx, job)

	var err error
	switch job.JobType {
	case jobmodel.JobTypeIngest:
		job.CurrentStep = jobmodel.IngestProcessing
		job, err = ingestDocuments(ctx, job, log)
	case jobmodel.JobTypeWarm:
		job.CurrentStep = jobmodel.WarmProcessing
		job, err = warmCourse(ctx, job, log)
	default:
		err = fmt.Errorf("%w: %q", errUnknownJobType, job.JobType)
	}

	job.EndTime = time.Now()
	if err != nil {
		log.Error("Job failed", "err", err)
		job.Status = jobmodel.JobStatusError
		job.CurrentStep = jobmodel.Error
		job.Error = toJobError(err)
	} else {
		job.Status = jobmodel.JobStatusComplete
		job.CurrentStep = jobmodel.Complete
	}
	saveJobState(ctx, job)
}

func toJobError(err error) jobmodel.JobError {
	kind := courseModel.KindOf(err)
	return jobmodel.JobError{
		Code:    kind.StatusCode(),
		Message: err.Error(),
		// internal failures (backend down, timeout) may succeed on a later run
		Retry: kind == courseModel.KindInternal,
	}
}

func removeWorker(reason string) {
	atomic.AddInt64(&currentWorkerCount, -1)
	retireWorker(reason)
}

// retireWorker finishes a worker whose count was already taken off.
func retireWorker(reason string) {
	workerWaitGroup.Done()
	logger.Info("Removed worker", "reason", reason, "workerCount", atomic.LoadInt64(&currentWorkerCount))
	metrics.DecrementActiveWorkerCount()
}

func ingestDocuments(ctx context.Context, job jobmodel.Job, log *logger_i.Logger) (jobmodel.Job, error) {
	if err := _studyService.Reingest(ctx); err != nil {
		return job, err
	}
	job.JobPayload.CourseCount = len(_studyService.ListCourses(ctx))
	log.Info("Documents ingested", "courses", job.JobPayload.CourseCount)
	return job, nil
}

func warmCourse(ctx context.Context, job jobmodel.Job, log *logger_i.Logger) (jobmodel.Job, error) {
	res, err := _studyService.WarmCourse(ctx, job.JobPayload.CourseId)
	job.JobPayload.GeneratedUnits = res.Generated
	job.JobPayload.SkippedUnits = res.Skipped
	if err != nil {
		return job, err
	}
	log.Info("Course warmed", "generated", len(res.Generated), "skipped", len(res.Skipped))
	return job, nil
}

func saveJobState(ctx context.Context, job jobmodel.Job) {
	if err := _jobService.JobStore.SaveJob(ctx, job); err != nil {
		logger.Error("Failed to update job status", "err", err)
	}
}
