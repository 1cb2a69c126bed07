package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/akolanti/StudyAPI/internal/config"
	"github.com/akolanti/StudyAPI/internal/data/store"
	"github.com/akolanti/StudyAPI/internal/domain/courseModel"
	"github.com/akolanti/StudyAPI/internal/domain/jobModel"
	"github.com/akolanti/StudyAPI/internal/handlers"
	"github.com/akolanti/StudyAPI/internal/job"
	"github.com/akolanti/StudyAPI/internal/middleware"
	"github.com/akolanti/StudyAPI/internal/study/study_test"
	"github.com/go-chi/chi/v5"
)

func TestRegisterRoutes(t *testing.T) {
	svc := &study_test.MockService{Courses: []courseModel.CourseSummary{{CourseId: "statistics"}}}
	handlers.InitJobHandler(&job.Service{
		JobChannel:        make(chan jobModel.Job, 10),
		DispatcherChannel: make(chan bool, 10),
		JobStore:          store.InitInMemoryJobStore(),
	})
	handlers.InitStudyHandler(svc, t.TempDir())
	middleware.Init(config.ServerSettings{AuthToken: "token"})

	r := chi.NewRouter()
	RegisterRoutes(r)

	tests := []struct {
		method string
		path   string
		auth   bool
		want   int
	}{
		{http.MethodGet, "/health", true, http.StatusOK},
		{http.MethodGet, "/courses", true, http.StatusOK},
		{http.MethodGet, "/courses", false, http.StatusUnauthorized},
		{http.MethodGet, "/courses/statistics/units", true, http.StatusOK},
		{http.MethodGet, "/courses/statistics/units/1/questions", true, http.StatusOK},
		{http.MethodPost, "/courses/statistics/units/1/regenerate", true, http.StatusOK},
		{http.MethodGet, "/courses/statistics/search?q=mean", true, http.StatusOK},
		{http.MethodPost, "/courses/statistics/warm", true, http.StatusAccepted},
		{http.MethodPost, "/ingest", true, http.StatusAccepted},
		{http.MethodGet, "/status/unknown", true, http.StatusNotFound},
		{http.MethodGet, "/courses/statistics/units/1/regenerate", true, http.StatusMethodNotAllowed},
		{http.MethodGet, "/quiz", true, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.auth {
				req.Header.Set("Authorization", "Bearer token")
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("expected %d, got %d (%s)", tt.want, rec.Code, rec.Body.String())
			}
		})
	}
}
