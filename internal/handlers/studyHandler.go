package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/akolanti/StudyAPI/internal/adapter"
	"github.com/akolanti/StudyAPI/internal/adapter/utils"
	"github.com/akolanti/StudyAPI/internal/api"
	"github.com/akolanti/StudyAPI/internal/domain/courseModel"
	"github.com/akolanti/StudyAPI/internal/domain/jobModel"
	"github.com/akolanti/StudyAPI/internal/study"
	"github.com/go-playground/validator/v10"
)

var (
	studyInstance *StudyHandler
	studyOnce     sync.Once
	validate      = validator.New()
)

type StudyHandler struct {
	service      study.Service
	documentsDir string
}

func InitStudyHandler(service study.Service, documentsDir string) {
	studyOnce.Do(func() {
		studyInstance = &StudyHandler{service: service, documentsDir: documentsDir}
	})
}

// ListCoursesHandler godoc
// @Summary      List courses
// @Tags         Courses
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  api.CoursesResponse
// @Router       /courses [get]
func ListCoursesHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	courses := studyInstance.service.ListCourses(r.Context())
	writeJsonResponse(w, http.StatusOK, adapter.ToCoursesResponse(courses))
}

// ListUnitsHandler godoc
// @Summary      List the units of a course
// @Description  Unit numbers, titles, and whether a valid question set is cached.
// @Tags         Courses
// @Produce      json
// @Security     BearerAuth
// @Param        courseId  path  string  true  "Course id"
// @Success      200  {object}  api.UnitsResponse
// @Failure      404  {object}  api.ErrorResponse
// @Router       /courses/{courseId}/units [get]
func ListUnitsHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	listing, err := studyInstance.service.ListUnits(r.Context(), utils.GetChiURLParam(r, "courseId"))
	if err != nil {
		writeStudyError(w, err)
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToUnitsResponse(listing))
}

// GetQuestionsHandler godoc
// @Summary      Get practice questions for a unit
// @Description  Served from the cache when the course document is unchanged, generated otherwise.
// @Tags         Questions
// @Produce      json
// @Security     BearerAuth
// @Param        courseId  path  string  true  "Course id"
// @Param        unit      path  int     true  "Unit number"
// @Success      200  {object}  api.QuestionSetResponse
// @Failure      400  {object}  api.ErrorResponse
// @Failure      404  {object}  api.ErrorResponse
// @Router       /courses/{courseId}/units/{unit}/questions [get]
func GetQuestionsHandler(w http.ResponseWriter, r *http.Request) {
	questionsHandler(w, r, studyInstance.service.GetQuestions)
}

// RegenerateQuestionsHandler godoc
// @Summary      Regenerate practice questions for a unit
// @Description  Ignores the cache, generates a new set and stores it.
// @Tags         Questions
// @Produce      json
// @Security     BearerAuth
// @Param        courseId  path  string  true  "Course id"
// @Param        unit      path  int     true  "Unit number"
// @Success      200  {object}  api.QuestionSetResponse
// @Failure      400  {object}  api.ErrorResponse
// @Failure      404  {object}  api.ErrorResponse
// @Router       /courses/{courseId}/units/{unit}/regenerate [post]
func RegenerateQuestionsHandler(w http.ResponseWriter, r *http.Request) {
	questionsHandler(w, r, studyInstance.service.RegenerateQuestions)
}

type questionsFunc func(ctx context.Context, courseId string, unit int) (courseModel.QuestionSetResult, error)

func questionsHandler(w http.ResponseWriter, r *http.Request, get questionsFunc) {
	if !validateContext(r.Context()) {
		return
	}
	unit, err := parseUnit(r)
	if err != nil {
		writeStudyError(w, err)
		return
	}
	res, err := get(r.Context(), utils.GetChiURLParam(r, "courseId"), unit)
	if err != nil {
		writeStudyError(w, err)
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToQuestionSetResponse(res))
}

// SearchHandler godoc
// @Summary      Semantic search within a course
// @Tags         Courses
// @Produce      json
// @Security     BearerAuth
// @Param        courseId  path   string  true   "Course id"
// @Param        q         query  string  true   "Search text"
// @Param        limit     query  int     false  "Maximum matches (default 5, max 50)"
// @Success      200  {object}  api.SearchResponse
// @Failure      400  {object}  api.ErrorResponse
// @Failure      404  {object}  api.ErrorResponse
// @Failure      500  {object}  api.ErrorResponse "Search is not configured"
// @Router       /courses/{courseId}/search [get]
func SearchHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	req := api.SearchRequest{
		CourseId: utils.GetChiURLParam(r, "courseId"),
		Query:    strings.TrimSpace(r.URL.Query().Get("q")),
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			writeStudyError(w, courseModel.NewError(courseModel.KindInvalidInput, "limit must be a number", nil))
			return
		}
		req.Limit = limit
	}
	if err := validate.Struct(req); err != nil {
		writeStudyError(w, courseModel.NewError(courseModel.KindInvalidInput, "q is required and limit must be between 0 and 50", nil))
		return
	}

	matches, err := studyInstance.service.SearchCourse(r.Context(), req.CourseId, req.Query, req.Limit)
	if err != nil {
		writeStudyError(w, err)
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToSearchResponse(req.CourseId, req.Query, matches))
}

// WarmCourseHandler godoc
// @Summary      Pre-generate questions for a course
// @Description  Queues a job that generates every unit whose cached set is missing or stale.
// @Tags         Courses
// @Produce      json
// @Security     BearerAuth
// @Param        courseId  path  string  true  "Course id"
// @Success      202  {object}  api.InitJobResponse
// @Failure      404  {object}  api.ErrorResponse
// @Router       /courses/{courseId}/warm [post]
func WarmCourseHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	courseId := strings.ToLower(strings.TrimSpace(utils.GetChiURLParam(r, "courseId")))
	if !courseExists(r, courseId) {
		writeStudyError(w, courseModel.NewError(courseModel.KindCourseNotFound, "course \""+courseId+"\" not found", nil))
		return
	}
	processNewJobData(r, w, jobModel.JobTypeWarm, courseId, "")
}

func courseExists(r *http.Request, courseId string) bool {
	for _, c := range studyInstance.service.ListCourses(r.Context()) {
		if c.CourseId == courseId {
			return true
		}
	}
	return false
}
