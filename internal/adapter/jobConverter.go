package adapter

import (
	"fmt"
	"time"

	"github.com/akolanti/StudyAPI/internal/api"
	"github.com/akolanti/StudyAPI/internal/domain/jobModel"
)

func ToInitJobResponse(id string) api.InitJobResponse {
	return api.InitJobResponse{
		Id:        id,
		StatusURL: fmt.Sprintf("status/%s", id), //pass "status/job.Id"
	}
}

func ToAPIResponse(job jobModel.Job) api.JobResponse {

	var errorPtr *api.JobOutgoingError
	if job.Error.Message != "" || job.Error.Code != 0 {
		errorPtr = &api.JobOutgoingError{
			Code:    job.Error.Code,
			Message: job.Error.Message,
			Retry:   job.Error.Retry,
		}
	}

	result := api.Result{Status: string(job.Status)}
	switch job.JobType {
	case jobModel.JobTypeIngest:
		result.Ingest = toIngestResult(job)
	case jobModel.JobTypeWarm:
		result.Warm = toWarmResult(job)
	}

	return api.JobResponse{
		Id:        job.Id,
		JobType:   string(job.JobType),
		StartTime: job.CreatedTime,
		EndTime:   job.EndTime,
		Error:     errorPtr,
		Result:    result,
	}
}

// results are only reported once the job has finished
func toIngestResult(job jobModel.Job) *api.IngestResult {
	if job.Status != jobModel.JobStatusComplete {
		return nil
	}
	return &api.IngestResult{
		CourseCount:  job.JobPayload.CourseCount,
		UploadedFile: job.JobPayload.UploadedFile,
	}
}

func toWarmResult(job jobModel.Job) *api.WarmResult {
	if job.Status != jobModel.JobStatusComplete && job.Status != jobModel.JobStatusError {
		return nil
	}
	return &api.WarmResult{
		CourseId:       job.JobPayload.CourseId,
		GeneratedUnits: nonNil(job.JobPayload.GeneratedUnits),
		SkippedUnits:   nonNil(job.JobPayload.SkippedUnits),
	}
}

func nonNil(units []int) []int {
	if units == nil {
		return []int{}
	}
	return units
}

func BadRequest(id string, error string, code int) api.JobResponse {
	return api.JobResponse{
		Id:        id,
		StartTime: time.Time{},
		EndTime:   time.Time{},
		Result: api.Result{
			Status: string(api.JobStatusError),
		},
		Error: &api.JobOutgoingError{
			Code:    code,
			Message: error,
			Retry:   false,
		},
	}
}
