package questionCache

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/akolanti/StudyAPI/internal/config"
	"github.com/akolanti/StudyAPI/internal/data/redisStore"
	"github.com/akolanti/StudyAPI/internal/domain/courseModel"
	"github.com/akolanti/StudyAPI/pkg/logger_i"
)

var logger = logger_i.NewLogger("questionCache")

var ErrBadKey = errors.New("invalid cache key")

// Store persists one question set per (course, unit). Writes replace the
// previous set whole; the last writer wins.
type Store interface {
	Get(ctx context.Context, courseId string, unit int) (courseModel.CachedQuestionSet, bool, error)
	Put(ctx context.Context, set courseModel.CachedQuestionSet) error
	IsValid(ctx context.Context, courseId string, unit int, fingerprint string) (bool, error)
	ListCachedUnits(ctx context.Context, courseId string) ([]int, error)
}

// NewStore returns the Redis backed store when Redis is configured and
// reachable, otherwise the file store under settings.Dir.
func NewStore(ctx context.Context, settings config.CacheSettings) Store {
	if settings.UseRedis {
		rs := redisStore.GetRedisStore(ctx, redisStore.Options{
			Addr:     settings.RedisAddr,
			Password: settings.RedisPassword,
		}, config.RedisQuestionStore)
		if rs != nil {
			logger.Info("question cache backed by redis", "addr", settings.RedisAddr)
			return NewRedisQuestionStore(rs)
		}
		logger.Warn("redis is offline, using file question cache", "dir", settings.Dir)
	}
	return NewFileStore(settings.Dir)
}

func isValid(ctx context.Context, s Store, courseId string, unit int, fingerprint string) (bool, error) {
	set, ok, err := s.Get(ctx, courseId, unit)
	if err != nil || !ok {
		return false, err
	}
	return set.IsValidFor(fingerprint), nil
}

func checkKey(courseId string, unit int) error {
	if courseId == "" || unit <= 0 {
		return fmt.Errorf("%w: course %q unit %d", ErrBadKey, courseId, unit)
	}
	if strings.ContainsAny(courseId, `/\:`) || strings.Contains(courseId, "..") {
		return fmt.Errorf("%w: course %q", ErrBadKey, courseId)
	}
	return nil
}
