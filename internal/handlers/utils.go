package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/akolanti/StudyAPI/internal/adapter"
	"github.com/akolanti/StudyAPI/internal/adapter/utils"
	"github.com/akolanti/StudyAPI/internal/config"
	"github.com/akolanti/StudyAPI/internal/domain/courseModel"
	"github.com/akolanti/StudyAPI/internal/domain/jobModel"
	"github.com/akolanti/StudyAPI/internal/study/ingest"
)

var courseNamePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9 _-]*$`)

func writeJsonResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but can't send a clean status code now
		logRH.Error("Error encoding response", "err", err)
	}
}

func writeStudyError(w http.ResponseWriter, err error) {
	code, body := adapter.ToErrorResponse(err)
	if code >= http.StatusInternalServerError {
		logRH.Error("Request failed", "err", err)
	}
	writeJsonResponse(w, code, body)
}

func traceIdFrom(ctx context.Context) string {
	trace, _ := ctx.Value(config.TRACE_ID_KEY).(string)
	return trace
}

func validateId(id string, traceId string) (result jobModel.Job, isFound bool) {
	if id == "" {
		logRH.Warn("Empty Job ID")
		return jobModel.Job{}, false
	}
	return GetJobStatus(id, traceId)
}

func validateContext(ctx context.Context) bool {
	if ctx.Err() != nil {
		logRH.Warn("context error", "traceId", traceIdFrom(ctx), "err", ctx.Err())
		return false
	}
	return true
}

func WriteErrorResponse(w http.ResponseWriter, httpCode int, id string, error string) {
	writeJsonResponse(w, httpCode, adapter.BadRequest(id, error, httpCode))
}

func parseUnit(r *http.Request) (int, error) {
	raw := utils.GetChiURLParam(r, "unit")
	unit, err := strconv.Atoi(raw)
	if err != nil {
		return 0, courseModel.NewError(courseModel.KindInvalidInput, fmt.Sprintf("unit %q is not a number", raw), nil)
	}
	return unit, nil
}

// saveUpload writes an uploaded document into the documents directory under
// its final name. The rename keeps the watcher from reading a partial file.
func saveUpload(dir string, name string, src io.Reader) (string, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return "", fmt.Errorf("creating documents dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		return "", fmt.Errorf("writing upload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("closing upload: %w", err)
	}
	target := filepath.Join(dir, name)
	if err := os.Rename(tmp.Name(), target); err != nil {
		return "", fmt.Errorf("moving upload into place: %w", err)
	}
	return target, nil
}

// uploadName picks the stored file name: the optional course id with the
// upload's extension, or the upload's own base name.
func uploadName(courseId string, filename string) (string, error) {
	base := filepath.Base(filename)
	ext := strings.ToLower(filepath.Ext(base))
	if !ingest.IsSupported(base) {
		return "", fmt.Errorf("unsupported document type %q", ext)
	}
	name := strings.TrimSuffix(base, filepath.Ext(base))
	if courseId != "" {
		name = courseId
	}
	if !courseNamePattern.MatchString(name) {
		return "", fmt.Errorf("invalid course name %q", name)
	}
	return name + ext, nil
}

func processNewJobData(request *http.Request, w http.ResponseWriter, jobType jobModel.JobType, courseId string, uploadedFile string) {
	newJob := newJobData{
		id:           utils.GetNewUUID(),
		traceId:      traceIdFrom(request.Context()),
		jobType:      jobType,
		courseId:     courseId,
		uploadedFile: uploadedFile,
	}
	CreateNewJob(newJob)
	res := adapter.ToInitJobResponse(newJob.id)
	writeJsonResponse(w, http.StatusAccepted, res)
}
