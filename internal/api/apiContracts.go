package api

import "time"

type JobExternalStatus string

const (
	JobStatusError JobExternalStatus = "Error"
)

type JobResponse struct {
	Id        string            `json:"id" example:"job_cz109"`
	JobType   string            `json:"job_type" example:"Warm"`
	Result    Result            `json:"result"`
	Error     *JobOutgoingError `json:"error,omitempty"`
	StartTime time.Time         `json:"start_time"`
	EndTime   time.Time         `json:"end_time,omitempty"`
}

type JobOutgoingError struct {
	Code    int    `json:"code" example:"404"`
	Message string `json:"message" example:"Job not found"`
	Retry   bool   `json:"can_retry" example:"false"`
}

type IngestResult struct {
	CourseCount  int    `json:"course_count" example:"3"`
	UploadedFile string `json:"uploaded_file,omitempty" example:"statistics.pdf"`
}

type WarmResult struct {
	CourseId       string `json:"course_id" example:"statistics"`
	GeneratedUnits []int  `json:"generated_units"`
	SkippedUnits   []int  `json:"skipped_units"`
}

type Result struct {
	Status string        `json:"status" example:"COMPLETE"`
	Ingest *IngestResult `json:"ingest,omitempty"`
	Warm   *WarmResult   `json:"warm,omitempty"`
}

type InitJobResponse struct {
	Id        string `json:"id"`
	StatusURL string `json:"status_url"`
}

type ErrorResponse struct {
	Code    int    `json:"code" example:"404"`
	Kind    string `json:"kind" example:"course_not_found"`
	Message string `json:"message" example:"course \"biology\" not found"`
}

type CourseResponse struct {
	CourseId    string `json:"course_id" example:"statistics"`
	UnitCount   int    `json:"unit_count" example:"9"`
	ChunkCount  int    `json:"chunk_count" example:"42"`
	Fingerprint string `json:"fingerprint"`
	Strategy    string `json:"strategy" example:"marker"`
}

type CoursesResponse struct {
	Courses []CourseResponse `json:"courses"`
}

type UnitResponse struct {
	Number     int    `json:"number" example:"1"`
	Title      string `json:"title" example:"Descriptive Statistics"`
	ChunkCount int    `json:"chunk_count" example:"4"`
	Cached     bool   `json:"cached"`
}

type UnitsResponse struct {
	CourseId string         `json:"course_id" example:"statistics"`
	Units    []UnitResponse `json:"units"`
}

type QuestionResponse struct {
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	Answer      string   `json:"answer" example:"B"`
	Explanation string   `json:"explanation"`
}

type QuestionSetResponse struct {
	CourseId    string             `json:"course_id" example:"statistics"`
	Unit        int                `json:"unit" example:"1"`
	Title       string             `json:"title"`
	Source      string             `json:"source" example:"cache"`
	Origin      string             `json:"origin" example:"backend"`
	Fingerprint string             `json:"fingerprint"`
	GeneratedAt time.Time          `json:"generated_at"`
	Questions   []QuestionResponse `json:"questions"`
}

type SearchMatchResponse struct {
	ChunkIndex int     `json:"chunk_index"`
	Units      []int   `json:"units"`
	Score      float32 `json:"score"`
	Snippet    string  `json:"snippet"`
}

type SearchResponse struct {
	CourseId string                `json:"course_id" example:"statistics"`
	Query    string                `json:"query"`
	Matches  []SearchMatchResponse `json:"matches"`
}

// requests---------------------

type JobStatusRequest struct {
	JobId string `json:"job_id" validate:"required"`
}

type SearchRequest struct {
	CourseId string `validate:"required"`
	Query    string `validate:"required,max=500"`
	Limit    int    `validate:"gte=0,lte=50"`
}
