package jobModel

import (
	"context"
	"time"
)

type JobStatus string
type InternalStatus string

type JobType string

const (
	JobStatusQueued   JobStatus = "QUEUED"
	JobStatusRunning  JobStatus = "RUNNING"
	JobStatusComplete JobStatus = "COMPLETE"
	JobStatusError    JobStatus = "Error"

	IngestInit       InternalStatus = "IngestInit"
	IngestProcessing InternalStatus = "IngestProcessing"
	WarmInit         InternalStatus = "WarmInit"
	WarmProcessing   InternalStatus = "WarmProcessing"
	Error            InternalStatus = "Error"

	Complete InternalStatus = "Complete"

	// JobTypeIngest rebuilds the course registry from the documents directory.
	JobTypeIngest JobType = "Ingest"
	// JobTypeWarm pre-generates question sets for every unit of one course.
	JobTypeWarm JobType = "Warm"
)

type Job struct {
	Id          string         `json:"id"`
	TraceId     string         `json:"trace_id"`
	JobType     JobType        `json:"job_type"`
	JobPayload  JobPayload     `json:"job_payload"`
	Error       JobError       `json:"error,omitempty"`
	CreatedTime time.Time      `json:"created_time"`
	EndTime     time.Time      `json:"end_time,omitempty"`
	Status      JobStatus      `json:"status"`
	CurrentStep InternalStatus `json:"current_step"`
}

type JobError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Retry   bool   `json:"retry"`
}

type JobPayload struct {
	CourseId       string `json:"course_id,omitempty"`
	UploadedFile   string `json:"uploaded_file,omitempty"`
	CourseCount    int    `json:"course_count,omitempty"`
	GeneratedUnits []int  `json:"generated_units,omitempty"`
	SkippedUnits   []int  `json:"skipped_units,omitempty"`
}

type JobStore interface {
	GetJob(ctx context.Context, jobId string) (Job, bool)
	SaveJob(ctx context.Context, job Job) error
	DeleteJob(ctx context.Context, jobID string)
}
