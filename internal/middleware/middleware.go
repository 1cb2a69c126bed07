package middleware

import (
	"net/http"
	"strconv"

	"github.com/akolanti/StudyAPI/internal/config"
	"github.com/akolanti/StudyAPI/internal/handlers"
	"github.com/akolanti/StudyAPI/internal/metrics"
	"github.com/akolanti/StudyAPI/pkg/logger_i"
	"github.com/go-chi/chi/v5"
)

type requestResponseStruct struct {
	writer     http.ResponseWriter
	req        *http.Request
	badRequest failureStruct
	logger     *logger_i.Logger
}

type failureStruct struct {
	isBadRequest bool
	httpCode     int
	errorMessage string
	id           string
}

var authSettings config.ServerSettings

// Init sets the bearer token and rate limiting for every wrapped handler.
func Init(settings config.ServerSettings) {
	authSettings = settings
}

var GetHandler = Wrap(handlers.GetHandler)

var GetStatusHandler = Wrap(handlers.GetStatusHandler)
var PostIngestHandler = Wrap(handlers.PostIngestHandler)

var ListCoursesHandler = Wrap(handlers.ListCoursesHandler)
var ListUnitsHandler = Wrap(handlers.ListUnitsHandler)
var GetQuestionsHandler = Wrap(handlers.GetQuestionsHandler)
var RegenerateQuestionsHandler = Wrap(handlers.RegenerateQuestionsHandler)
var SearchHandler = Wrap(handlers.SearchHandler)
var WarmCourseHandler = Wrap(handlers.WarmCourseHandler)

func Wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &metrics.HttpStatusRecorder{ResponseWriter: w, Status: 200} //metrics
		re := processRequest(requestResponseStruct{req: r, writer: rec})

		if re.badRequest.isBadRequest {
			handleBadRequest(re)
			metrics.HttpRequestsTotal.WithLabelValues(routePattern(r), strconv.Itoa(re.badRequest.httpCode)).Inc()
			return
		}
		next(rec, re.req)

		metrics.HttpRequestsTotal.WithLabelValues(routePattern(re.req), strconv.Itoa(rec.Status)).Inc() //metrics
	}
}
func processRequest(re requestResponseStruct) requestResponseStruct {
	re.logger = logger_i.NewLogger("middleware")
	re.logger.Info("New request received")
	re = injectTrace(re)
	if re.badRequest.isBadRequest {
		return re
	}
	re = authenticate(re)
	if re.badRequest.isBadRequest {
		return re //stop if auth fails
	}
	if authSettings.RateLimit {
		re = rateLimiter(re)
	}
	return re
}

// routePattern keeps the metrics label set bounded: /courses/{courseId}/units
// rather than one series per course.
func routePattern(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return r.URL.Path
}
