package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/akolanti/StudyAPI/internal/config"
	"github.com/akolanti/StudyAPI/internal/domain/courseModel"
	"github.com/akolanti/StudyAPI/internal/domain/jobModel"
	"github.com/akolanti/StudyAPI/internal/job"
	"github.com/akolanti/StudyAPI/pkg/logger_i"
)

// MockStudyService only implements what jobs call; the rest return zero values.
type MockStudyService struct {
	OnReingest func(ctx context.Context) error
	OnWarm     func(ctx context.Context, courseId string) (courseModel.WarmResult, error)
	Courses    []courseModel.CourseSummary
	Calls      int32
}

func (m *MockStudyService) ListCourses(ctx context.Context) []courseModel.CourseSummary {
	return m.Courses
}

func (m *MockStudyService) ListUnits(ctx context.Context, courseId string) (courseModel.UnitListing, error) {
	return courseModel.UnitListing{}, nil
}

func (m *MockStudyService) GetQuestions(ctx context.Context, courseId string, unit int) (courseModel.QuestionSetResult, error) {
	return courseModel.QuestionSetResult{}, nil
}

func (m *MockStudyService) RegenerateQuestions(ctx context.Context, courseId string, unit int) (courseModel.QuestionSetResult, error) {
	return courseModel.QuestionSetResult{}, nil
}

func (m *MockStudyService) SearchCourse(ctx context.Context, courseId string, query string, limit int) ([]courseModel.SearchMatch, error) {
	return nil, nil
}

func (m *MockStudyService) WarmCourse(ctx context.Context, courseId string) (courseModel.WarmResult, error) {
	atomic.AddInt32(&m.Calls, 1)
	if m.OnWarm != nil {
		return m.OnWarm(ctx, courseId)
	}
	return courseModel.WarmResult{CourseId: courseId}, nil
}

func (m *MockStudyService) Reingest(ctx context.Context) error {
	atomic.AddInt32(&m.Calls, 1)
	if m.OnReingest != nil {
		return m.OnReingest(ctx)
	}
	return nil
}

type MockJobStore struct {
	mu    sync.Mutex
	Saved []jobModel.Job
}

func (m *MockJobStore) GetJob(ctx context.Context, jobId string) (jobModel.Job, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.Saved) - 1; i >= 0; i-- {
		if m.Saved[i].Id == jobId {
			return m.Saved[i], true
		}
	}
	return jobModel.Job{}, false
}

func (m *MockJobStore) DeleteJob(ctx context.Context, jobID string) {}

func (m *MockJobStore) SaveJob(ctx context.Context, j jobModel.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Saved = append(m.Saved, j)
	return nil
}

func (m *MockJobStore) statuses() []jobModel.JobStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]jobModel.JobStatus, 0, len(m.Saved))
	for _, j := range m.Saved {
		out = append(out, j.Status)
	}
	return out
}

func waitForStatus(t *testing.T, store *MockJobStore, id string, want jobModel.JobStatus) jobModel.Job {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if j, ok := store.GetJob(context.Background(), id); ok && j.Status == want {
			return j
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("job %s never reached %s, saved statuses %v", id, want, store.statuses())
	return jobModel.Job{}
}

func TestWorkerPool_Flow(t *testing.T) {
	idleWorkerTimeout = time.Hour
	t.Cleanup(func() { idleWorkerTimeout = config.IdleWorkerTimeout })

	store := &MockJobStore{}
	jobSvc := &job.Service{
		JobChannel:        make(chan jobModel.Job, 10),
		DispatcherChannel: make(chan bool, 10),
		JobStore:          store,
	}
	mockStudy := &MockStudyService{
		Courses: []courseModel.CourseSummary{{CourseId: "statistics"}, {CourseId: "algebra"}},
	}
	stopChan := make(chan bool)
	wg := &sync.WaitGroup{}

	InitServices(jobSvc, mockStudy)
	InitWorkerPool(stopChan, wg)

	t.Run("Dispatcher creates worker on signal", func(t *testing.T) {
		jobSvc.DispatcherChannel <- true
		time.Sleep(50 * time.Millisecond)

		if count := atomic.LoadInt64(&currentWorkerCount); count < 1 {
			t.Errorf("Expected at least 1 worker, got %d", count)
		}
	})

	t.Run("Worker processes an ingest job", func(t *testing.T) {
		jobSvc.JobChannel <- jobModel.Job{Id: "ingest-1", JobType: jobModel.JobTypeIngest}

		done := waitForStatus(t, store, "ingest-1", jobModel.JobStatusComplete)
		if done.JobPayload.CourseCount != 2 {
			t.Errorf("expected course count 2, got %d", done.JobPayload.CourseCount)
		}
		if done.CurrentStep != jobModel.Complete {
			t.Errorf("expected step Complete, got %s", done.CurrentStep)
		}
		if done.EndTime.IsZero() {
			t.Error("EndTime should be set")
		}
	})

	t.Run("Stop signal retires workers", func(t *testing.T) {
		close(stopChan)

		done := make(chan struct{})
		go func() {
			wg.Wait()
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Error("Workers did not stop within timeout")
		}
	})
}

func TestExecuteJob(t *testing.T) {
	logger = logger_i.NewLogger("TestWorkerPool")

	tests := []struct {
		name       string
		job        jobModel.Job
		study      *MockStudyService
		wantStatus jobModel.JobStatus
		wantCode   int
		check      func(t *testing.T, j jobModel.Job)
	}{
		{
			name: "warm fills generated and skipped units",
			job:  jobModel.Job{Id: "w1", JobType: jobModel.JobTypeWarm, JobPayload: jobModel.JobPayload{CourseId: "statistics"}},
			study: &MockStudyService{OnWarm: func(ctx context.Context, courseId string) (courseModel.WarmResult, error) {
				return courseModel.WarmResult{CourseId: courseId, Generated: []int{2, 3}, Skipped: []int{1}}, nil
			}},
			wantStatus: jobModel.JobStatusComplete,
			check: func(t *testing.T, j jobModel.Job) {
				if len(j.JobPayload.GeneratedUnits) != 2 || len(j.JobPayload.SkippedUnits) != 1 {
					t.Errorf("unexpected payload %+v", j.JobPayload)
				}
			},
		},
		{
			name: "warm of unknown course is a 404 job error",
			job:  jobModel.Job{Id: "w2", JobType: jobModel.JobTypeWarm, JobPayload: jobModel.JobPayload{CourseId: "nope"}},
			study: &MockStudyService{OnWarm: func(ctx context.Context, courseId string) (courseModel.WarmResult, error) {
				return courseModel.WarmResult{}, courseModel.NewError(courseModel.KindCourseNotFound, "course not found", nil)
			}},
			wantStatus: jobModel.JobStatusError,
			wantCode:   404,
			check: func(t *testing.T, j jobModel.Job) {
				if j.Error.Retry {
					t.Error("a missing course is not retryable")
				}
			},
		},
		{
			name: "failed ingest is kept as an error",
			job:  jobModel.Job{Id: "i1", JobType: jobModel.JobTypeIngest},
			study: &MockStudyService{OnReingest: func(ctx context.Context) error {
				return courseModel.NewError(courseModel.KindInternal, "re-ingestion failed", nil)
			}},
			wantStatus: jobModel.JobStatusError,
			wantCode:   500,
			check: func(t *testing.T, j jobModel.Job) {
				if !j.Error.Retry {
					t.Error("internal failures should be retryable")
				}
			},
		},
		{
			name:       "unknown job type",
			job:        jobModel.Job{Id: "x1", JobType: "Export"},
			study:      &MockStudyService{},
			wantStatus: jobModel.JobStatusError,
			wantCode:   500,
			check: func(t *testing.T, j jobModel.Job) {
				if j.CurrentStep != jobModel.Error {
					t.Errorf("expected step Error, got %s", j.CurrentStep)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &MockJobStore{}
			InitServices(&job.Service{JobStore: store}, tt.study)

			executeJob(tt.job)

			statuses := store.statuses()
			if len(statuses) != 2 || statuses[0] != jobModel.JobStatusRunning {
				t.Fatalf("expected RUNNING then a final status, got %v", statuses)
			}
			final, _ := store.GetJob(context.Background(), tt.job.Id)
			if final.Status != tt.wantStatus {
				t.Errorf("status: got %s, want %s", final.Status, tt.wantStatus)
			}
			if final.Error.Code != tt.wantCode {
				t.Errorf("error code: got %d, want %d", final.Error.Code, tt.wantCode)
			}
			if tt.check != nil {
				tt.check(t, final)
			}
		})
	}
}

func TestWorker_IdleTimeout(t *testing.T) {
	atomic.StoreInt64(&currentWorkerCount, 0)
	atomic.StoreInt64(&minWorkerCount, 0)
	idleWorkerTimeout = 50 * time.Millisecond
	t.Cleanup(func() {
		atomic.StoreInt64(&minWorkerCount, config.MinWorkerCount)
		idleWorkerTimeout = config.IdleWorkerTimeout
	})
	logger = logger_i.NewLogger("TestWorkerPool")
	InitServices(&job.Service{JobChannel: make(chan jobModel.Job)}, &MockStudyService{})

	wg := &sync.WaitGroup{}
	workerWaitGroup = wg
	stopWorkerChannel = make(chan bool)

	createWorker()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("idle worker did not retire")
	}
	if count := atomic.LoadInt64(&currentWorkerCount); count != 0 {
		t.Errorf("Worker should have timed out and retired, but count is %d", count)
	}
}

func TestClaimRetirement_KeepsFloor(t *testing.T) {
	origCount, origMin := atomic.LoadInt64(&currentWorkerCount), minWorkerCount
	t.Cleanup(func() {
		atomic.StoreInt64(&currentWorkerCount, origCount)
		minWorkerCount = origMin
	})
	atomic.StoreInt64(&currentWorkerCount, 3)
	minWorkerCount = 1

	var claimed int32
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if claimRetirement() {
				atomic.AddInt32(&claimed, 1)
			}
		}()
	}
	wg.Wait()

	if claimed != 2 {
		t.Errorf("expected 2 retirements, got %d", claimed)
	}
	if n := atomic.LoadInt64(&currentWorkerCount); n != 1 {
		t.Errorf("expected 1 worker left, got %d", n)
	}
}
