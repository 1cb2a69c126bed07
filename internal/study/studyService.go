package study

import (
	"context"
	"strings"
	"time"

	"github.com/akolanti/StudyAPI/internal/config"
	"github.com/akolanti/StudyAPI/internal/domain/courseModel"
	"github.com/akolanti/StudyAPI/internal/metrics"
	"github.com/akolanti/StudyAPI/internal/study/embedding"
	"github.com/akolanti/StudyAPI/internal/study/generation"
	"github.com/akolanti/StudyAPI/internal/study/questionCache"
	"github.com/akolanti/StudyAPI/internal/study/vectorDB"
	"github.com/akolanti/StudyAPI/pkg/logger_i"
)

const maxSearchLimit = 50

// Service is the only entry point the HTTP handlers, workers, CLI and MCP
// tools use. Errors it returns are *courseModel.StudyError.
type Service interface {
	ListCourses(ctx context.Context) []courseModel.CourseSummary
	ListUnits(ctx context.Context, courseId string) (courseModel.UnitListing, error)
	GetQuestions(ctx context.Context, courseId string, unit int) (courseModel.QuestionSetResult, error)
	RegenerateQuestions(ctx context.Context, courseId string, unit int) (courseModel.QuestionSetResult, error)
	SearchCourse(ctx context.Context, courseId string, query string, limit int) ([]courseModel.SearchMatch, error)
	WarmCourse(ctx context.Context, courseId string) (courseModel.WarmResult, error)
	Reingest(ctx context.Context) error
}

// CourseRegistry is the read side of registry.Registry plus its rebuild
// trigger.
type CourseRegistry interface {
	HasCourse(courseId string) bool
	GetUnits(courseId string) []int
	GetUnitContent(courseId string, unit int) (courseModel.UnitContent, bool)
	GetFingerprint(courseId string) (string, bool)
	Courses() []courseModel.CourseSummary
	Rebuild(ctx context.Context) error
}

type QuestionGenerator interface {
	Generate(ctx context.Context, req generation.Request) generation.Result
}

type ServiceConfig struct {
	Registry      CourseRegistry
	Cache         questionCache.Store
	Generator     QuestionGenerator
	Embedder      embedding.Embedder
	Index         vectorDB.ChunkIndex
	QuestionCount int
	Now           func() time.Time
}

type service struct {
	registry      CourseRegistry
	cache         questionCache.Store
	generator     QuestionGenerator
	embedder      embedding.Embedder
	index         vectorDB.ChunkIndex
	questionCount int
	now           func() time.Time
	logger        *logger_i.Logger
}

// NewService wires the service. Embedder and Index may be nil, which turns
// SearchCourse off.
func NewService(cfg ServiceConfig) Service {
	s := &service{
		registry:      cfg.Registry,
		cache:         cfg.Cache,
		generator:     cfg.Generator,
		embedder:      cfg.Embedder,
		index:         cfg.Index,
		questionCount: cfg.QuestionCount,
		now:           cfg.Now,
		logger:        logger_i.NewLogger("Study Service"),
	}
	if s.questionCount <= 0 {
		s.questionCount = config.DefaultQuestionCount
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

func normalizeCourseId(courseId string) string {
	return strings.ToLower(strings.TrimSpace(courseId))
}

func (s *service) ListCourses(ctx context.Context) []courseModel.CourseSummary {
	return s.registry.Courses()
}

func (s *service) ListUnits(ctx context.Context, courseId string) (courseModel.UnitListing, error) {
	courseId = normalizeCourseId(courseId)
	if courseId == "" {
		return courseModel.UnitListing{}, courseModel.NewError(courseModel.KindInvalidInput, "course id is required", nil)
	}
	if !s.registry.HasCourse(courseId) {
		return courseModel.UnitListing{}, courseNotFound(courseId)
	}

	log := s.logger.WithTrace(ctx).With("courseId", courseId)
	// Cached reports that an entry exists, whether or not it is still valid
	cached := s.cachedUnits(ctx, log, courseId)
	listing := courseModel.UnitListing{CourseId: courseId, Units: []courseModel.UnitSummary{}}
	for _, n := range s.registry.GetUnits(courseId) {
		content, ok := s.registry.GetUnitContent(courseId, n)
		if !ok {
			continue
		}
		listing.Units = append(listing.Units, courseModel.UnitSummary{
			Number:     n,
			Title:      content.Title,
			ChunkCount: content.ChunkCount,
			Cached:     cached[n],
		})
	}
	return listing, nil
}

func (s *service) GetQuestions(ctx context.Context, courseId string, unit int) (courseModel.QuestionSetResult, error) {
	return s.questions(ctx, courseId, unit, true)
}

// RegenerateQuestions skips the cache lookup but still writes the new set.
func (s *service) RegenerateQuestions(ctx context.Context, courseId string, unit int) (courseModel.QuestionSetResult, error) {
	return s.questions(ctx, courseId, unit, false)
}

func (s *service) questions(ctx context.Context, courseId string, unit int, useCache bool) (courseModel.QuestionSetResult, error) {
	courseId = normalizeCourseId(courseId)
	target, err := s.resolveUnit(courseId, unit)
	if err != nil {
		return courseModel.QuestionSetResult{}, err
	}
	log := s.logger.WithTrace(ctx).With("courseId", courseId, "unit", unit)

	if useCache {
		if cached, ok := s.executeCacheLookupStep(ctx, log, target); ok {
			metrics.RecordQuestionRequest(string(courseModel.SourceCache), string(cached.Origin))
			return toResult(cached, target.content.Title, courseModel.SourceCache), nil
		}
	}

	set := s.executeGenerationStep(ctx, log, target)
	if err := ctx.Err(); err != nil {
		// a set produced for an abandoned request is not kept
		log.Warn("request ended during generation, not caching", "origin", set.Origin, "error", err)
	} else {
		s.executeCacheStoreStep(ctx, log, set)
	}

	metrics.RecordQuestionRequest(string(courseModel.SourceGenerated), string(set.Origin))
	return toResult(set, target.content.Title, courseModel.SourceGenerated), nil
}

func (s *service) SearchCourse(ctx context.Context, courseId string, query string, limit int) ([]courseModel.SearchMatch, error) {
	courseId = normalizeCourseId(courseId)
	query = strings.TrimSpace(query)
	if courseId == "" || query == "" {
		return nil, courseModel.NewError(courseModel.KindInvalidInput, "course id and query are required", nil)
	}
	if !s.registry.HasCourse(courseId) {
		return nil, courseNotFound(courseId)
	}
	if s.embedder == nil || s.index == nil {
		return nil, courseModel.NewError(courseModel.KindInternal, "search unavailable", nil)
	}
	if limit <= 0 {
		limit = config.SearchDefaultLimit
	}
	limit = min(limit, maxSearchLimit)

	log := s.logger.WithTrace(ctx).With("courseId", courseId)
	matches, err := s.executeSearchStep(ctx, log, courseId, query, limit)
	if err != nil {
		log.Error("search failed", "error", err)
		return nil, courseModel.NewError(courseModel.KindInternal, "search failed", err)
	}
	return matches, nil
}

// WarmCourse generates every unit whose cached set is missing or stale.
func (s *service) WarmCourse(ctx context.Context, courseId string) (courseModel.WarmResult, error) {
	courseId = normalizeCourseId(courseId)
	result := courseModel.WarmResult{CourseId: courseId, Generated: []int{}, Skipped: []int{}}
	if courseId == "" {
		return result, courseModel.NewError(courseModel.KindInvalidInput, "course id is required", nil)
	}
	fingerprint, ok := s.registry.GetFingerprint(courseId)
	if !ok {
		return result, courseNotFound(courseId)
	}

	log := s.logger.WithTrace(ctx).With("courseId", courseId)
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("warm_course", time.Since(start)) }()

	for _, n := range s.registry.GetUnits(courseId) {
		if err := ctx.Err(); err != nil {
			return result, courseModel.NewError(courseModel.KindInternal, "warming interrupted", err)
		}
		if s.isCached(ctx, log, courseId, n, fingerprint) {
			result.Skipped = append(result.Skipped, n)
			continue
		}
		if _, err := s.questions(ctx, courseId, n, false); err != nil {
			// the unit vanished in a rebuild since GetUnits
			log.Warn("unit skipped while warming", "unit", n, "error", err)
			continue
		}
		result.Generated = append(result.Generated, n)
	}
	log.Info("course warmed", "generated", len(result.Generated), "skipped", len(result.Skipped))
	return result, nil
}

func (s *service) Reingest(ctx context.Context) error {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("document_ingestion", time.Since(start)) }()

	if err := s.registry.Rebuild(ctx); err != nil {
		s.logger.WithTrace(ctx).Error("re-ingestion failed", "error", err)
		return courseModel.NewError(courseModel.KindInternal, "re-ingestion failed", err)
	}
	return nil
}
