package study

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/akolanti/StudyAPI/internal/domain/courseModel"
	"github.com/akolanti/StudyAPI/internal/metrics"
	"github.com/akolanti/StudyAPI/internal/study/generation"
	"github.com/akolanti/StudyAPI/pkg/logger_i"
)

type unitTarget struct {
	courseId    string
	unit        int
	fingerprint string
	content     courseModel.UnitContent
}

func courseNotFound(courseId string) error {
	return courseModel.NewError(courseModel.KindCourseNotFound, fmt.Sprintf("course %q not found", courseId), nil)
}

// resolveUnit checks the request against the registry without touching the
// cache or the backend. The fingerprint is read before the content, so a
// rebuild in between leaves a set that is already stale.
func (s *service) resolveUnit(courseId string, unit int) (unitTarget, error) {
	if courseId == "" {
		return unitTarget{}, courseModel.NewError(courseModel.KindInvalidInput, "course id is required", nil)
	}
	if unit <= 0 {
		return unitTarget{}, courseModel.NewError(courseModel.KindInvalidInput, fmt.Sprintf("unit must be positive, got %d", unit), nil)
	}
	if !s.registry.HasCourse(courseId) {
		return unitTarget{}, courseNotFound(courseId)
	}
	fingerprint, ok := s.registry.GetFingerprint(courseId)
	if !ok {
		return unitTarget{}, courseNotFound(courseId)
	}
	content, ok := s.registry.GetUnitContent(courseId, unit)
	if !ok {
		return unitTarget{}, courseModel.NewError(courseModel.KindUnitNotFound, fmt.Sprintf("unit %d not found in course %q", unit, courseId), nil)
	}
	return unitTarget{courseId: courseId, unit: unit, fingerprint: fingerprint, content: content}, nil
}

func toResult(set courseModel.CachedQuestionSet, title string, source courseModel.QuestionSource) courseModel.QuestionSetResult {
	return courseModel.QuestionSetResult{
		CourseId:    set.CourseId,
		Unit:        set.Unit,
		Title:       title,
		Questions:   set.Questions,
		Source:      source,
		Origin:      set.Origin,
		Fingerprint: set.Fingerprint,
		GeneratedAt: set.GeneratedAt,
	}
}

func (s *service) isCached(ctx context.Context, log *logger_i.Logger, courseId string, unit int, fingerprint string) bool {
	valid, err := s.cache.IsValid(ctx, courseId, unit, fingerprint)
	if err != nil {
		metrics.RecordCacheError("is_valid")
		log.Error("cache validity check failed", "unit", unit, "error", err)
		return false
	}
	return valid
}

func (s *service) cachedUnits(ctx context.Context, log *logger_i.Logger, courseId string) map[int]bool {
	units, err := s.cache.ListCachedUnits(ctx, courseId)
	if err != nil {
		metrics.RecordCacheError("list")
		log.Error("listing cached units failed", "error", err)
		return nil
	}
	cached := make(map[int]bool, len(units))
	for _, n := range units {
		cached[n] = true
	}
	return cached
}

// usableSet rejects sets that are empty or hold a question failing the
// schema, whatever wrote them.
func usableSet(set courseModel.CachedQuestionSet) error {
	if len(set.Questions) == 0 {
		return errors.New("cached set has no questions")
	}
	for i, q := range set.Questions {
		if err := generation.ValidQuestion(q); err != nil {
			return fmt.Errorf("cached question %d: %w", i, err)
		}
	}
	return nil
}

func (s *service) executeCacheLookupStep(ctx context.Context, log *logger_i.Logger, t unitTarget) (courseModel.CachedQuestionSet, bool) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("cache_lookup", time.Since(start)) }()

	set, found, err := s.cache.Get(ctx, t.courseId, t.unit)
	if err != nil {
		metrics.RecordCacheError("get")
		log.Error("cache read failed, generating instead", "error", err)
		return courseModel.CachedQuestionSet{}, false
	}
	if !found {
		log.Debug("cache miss")
		return set, false
	}
	if !set.IsValidFor(t.fingerprint) {
		log.Info("cached set is stale", "cached", set.Fingerprint, "current", t.fingerprint)
		return set, false
	}
	if err := usableSet(set); err != nil {
		metrics.RecordCacheError("invalid_set")
		log.Warn("cached set is unusable, generating instead", "error", err)
		return set, false
	}
	return set, true
}

func (s *service) executeGenerationStep(ctx context.Context, log *logger_i.Logger, t unitTarget) courseModel.CachedQuestionSet {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("question_generation", time.Since(start)) }()

	res := s.generator.Generate(ctx, generation.Request{
		CourseId: t.courseId,
		Unit:     t.unit,
		Title:    t.content.Title,
		Content:  t.content.Text,
		Count:    s.questionCount,
	})
	if res.LastErr != nil {
		log.Warn("serving fallback questions", "attempts", res.Attempts, "error", res.LastErr)
	}
	return courseModel.CachedQuestionSet{
		CourseId:    t.courseId,
		Unit:        t.unit,
		Questions:   res.Questions,
		Fingerprint: t.fingerprint,
		GeneratedAt: s.now().UTC(),
		Origin:      res.Origin,
	}
}

func (s *service) executeCacheStoreStep(ctx context.Context, log *logger_i.Logger, set courseModel.CachedQuestionSet) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("cache_store", time.Since(start)) }()

	if err := s.cache.Put(ctx, set); err != nil {
		metrics.RecordCacheError("put")
		log.Error("cache write failed", "error", err)
	}
}

func (s *service) executeSearchStep(ctx context.Context, log *logger_i.Logger, courseId string, query string, limit int) ([]courseModel.SearchMatch, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("vector_search", time.Since(start)) }()

	vector, err := s.embedder.GetEmbedding(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	log.Debug("searching course chunks", "limit", limit)
	return s.index.Search(ctx, courseId, vector, limit)
}
