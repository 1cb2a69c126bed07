package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/akolanti/StudyAPI/internal/adapter"
	"github.com/akolanti/StudyAPI/internal/adapter/utils"
	"github.com/akolanti/StudyAPI/internal/domain/jobModel"
	"github.com/akolanti/StudyAPI/pkg/logger_i"
)

var logRH *logger_i.Logger

// technically i dont need this
// but i want to eventually remove jobHandler from handlers and set it in another package
// so in anticipation for that this struct exists
type newJobData struct {
	id           string
	traceId      string
	jobType      jobModel.JobType
	courseId     string
	uploadedFile string
}

const maxUploadSize = 32 << 20 //32mb

func GetHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	return
}

// GetStatusHandler godoc
// @Summary      Get job status
// @Description  Retrieves the current status of an ingest or warm job using its ID.
// @Tags         Job Status
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Job ID "
// @Success      200  {object}  api.JobResponse   "Successful retrieval of job status"
// @Failure      404  {object}  api.JobResponse   "Job not found (returns Error object within JobResponse)"
// @Router       /status/{id} [get]
func GetStatusHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {
		//use chi get the url id
		idString := utils.GetChiURLParam(r, "id")
		result, isFound := validateId(idString, traceIdFrom(r.Context()))

		logRH.Debug("Get Status Request", "URL path", r.URL.Path)
		if !isFound {
			WriteErrorResponse(w, http.StatusNotFound, idString, "Job not found")
			return
		}

		writeJsonResponse(w, http.StatusOK, adapter.ToAPIResponse(result))
	}
}

// PostIngestHandler queues a rebuild of the course registry. A document may be
// uploaded with the request; it is stored in the documents directory first.
// @Summary      Re-ingest course documents
// @Description  Optionally receives a document via multipart/form-data, stores it in the documents directory, and queues an ingest job that rebuilds the course registry.
// @Tags         Ingestion
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        course_id  formData  string  false  "Course id to store the document under (defaults to the file name)"
// @Param        document   formData  file    false  "A PDF, DOCX, ODT, RTF, TXT, Markdown or HTML course document"
// @Success      202  {object}  api.InitJobResponse "Accepted - returns job id"
// @Failure      400  {object}  api.JobResponse "Bad Request - unsupported file or file too large"
// @Failure      500  {object}  api.JobResponse "Internal Server Error - Storage or Write Error"
// @Router       /ingest [post]
func PostIngestHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		logRH.Warn("Invalid Context by request", "remoteAddr", r.RemoteAddr)
		return
	}

	uploaded := ""
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			WriteErrorResponse(w, http.StatusBadRequest, "", "File too large or bad request")
			return
		}

		fileReader, fileMetadata, err := r.FormFile("document")
		switch {
		case errors.Is(err, http.ErrMissingFile):
			// a bare rebuild
		case err != nil:
			WriteErrorResponse(w, http.StatusBadRequest, "", "Could not retrieve file")
			return
		default:
			defer fileReader.Close()
			name, err := uploadName(strings.TrimSpace(r.FormValue("course_id")), fileMetadata.Filename)
			if err != nil {
				WriteErrorResponse(w, http.StatusBadRequest, "", err.Error())
				return
			}
			if _, err := saveUpload(studyInstance.documentsDir, name, fileReader); err != nil {
				logRH.Error("Couldn't store uploaded document", "err", err)
				WriteErrorResponse(w, http.StatusInternalServerError, name, "Storage error")
				return
			}
			uploaded = name
		}
	}

	processNewJobData(r, w, jobModel.JobTypeIngest, "", uploaded)
}
