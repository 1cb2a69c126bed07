package handlers

import (
	"context"
	"sync"
	"time"

	"github.com/akolanti/StudyAPI/internal/config"
	"github.com/akolanti/StudyAPI/internal/domain/jobModel"
	"github.com/akolanti/StudyAPI/internal/job"
	"github.com/akolanti/StudyAPI/pkg/logger_i"
)

var (
	handlerInstance *JobHandler //private singleton
	once            sync.Once
	logJH           *logger_i.Logger
)

type JobHandler struct {
	service *job.Service
}

func InitJobHandler(jobService *job.Service) {
	once.Do(func() {
		handlerInstance = &JobHandler{service: jobService}

		logJH = logger_i.NewLogger("JobHandler")
		logRH = logger_i.NewLogger("RequestHandler")
		logJH.Info("Starting job handler")
	})

}

func CreateNewJob(newJob newJobData) {
	logJH.With("traceId", newJob.traceId, "jobId", newJob.id).Info("To create new job", "jobType", newJob.jobType)
	handlerInstance.pushToJobChannel(newJob)
}

func GetJobStatus(id string, traceId string) (result jobModel.Job, isFound bool) {
	ctxC := context.WithValue(context.Background(), config.TRACE_ID_KEY, traceId)
	if handlerInstance != nil {
		return handlerInstance.service.JobStore.GetJob(ctxC, id)
	}
	return result, false
}

// private methods
func (h *JobHandler) pushToJobChannel(newJob newJobData) {
	_job := jobModel.Job{
		Id:          newJob.id,
		CreatedTime: time.Now(),
		TraceId:     newJob.traceId,
		JobType:     newJob.jobType,
	}

	switch newJob.jobType {
	case jobModel.JobTypeIngest:
		_job.CurrentStep = jobModel.IngestInit
		_job.JobPayload.UploadedFile = newJob.uploadedFile
	case jobModel.JobTypeWarm:
		_job.CurrentStep = jobModel.WarmInit
		_job.JobPayload.CourseId = newJob.courseId
	}

	ctxC, cancel := context.WithTimeout(context.WithValue(context.Background(), config.TRACE_ID_KEY, newJob.traceId), config.EnqueueTimeout)
	defer cancel()
	if err := h.service.Enqueue(ctxC, _job); err != nil {
		logJH.Error("Job was not queued", "jobId", _job.Id, "err", err)
	}
}
