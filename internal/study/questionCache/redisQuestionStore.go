package questionCache

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/akolanti/StudyAPI/internal/data/redisStore"
	"github.com/akolanti/StudyAPI/internal/domain/courseModel"
)

type RedisQuestionStore struct {
	store *redisStore.Store
}

func NewRedisQuestionStore(store *redisStore.Store) *RedisQuestionStore {
	return &RedisQuestionStore{store: store}
}

func setKey(courseId string, unit int) string {
	return fmt.Sprintf("questions:%s:%d", courseId, unit)
}

func unitsKey(courseId string) string {
	return fmt.Sprintf("questions:%s:units", courseId)
}

func (s *RedisQuestionStore) Get(ctx context.Context, courseId string, unit int) (courseModel.CachedQuestionSet, bool, error) {
	var set courseModel.CachedQuestionSet
	if err := checkKey(courseId, unit); err != nil {
		return set, false, err
	}
	val, err := s.store.Get(ctx, setKey(courseId, unit))
	if s.store.IsNil(err) {
		return set, false, nil
	} else if err != nil {
		return set, false, fmt.Errorf("redis get: %w", err)
	}
	if err := json.Unmarshal([]byte(val), &set); err != nil {
		return set, false, fmt.Errorf("decoding cached set %s/%d: %w", courseId, unit, err)
	}
	return set, true, nil
}

func (s *RedisQuestionStore) Put(ctx context.Context, set courseModel.CachedQuestionSet) error {
	if err := checkKey(set.CourseId, set.Unit); err != nil {
		return err
	}
	data, err := json.Marshal(set)
	if err != nil {
		return fmt.Errorf("encoding cached set: %w", err)
	}
	if err := s.store.SetWithMember(ctx, setKey(set.CourseId, set.Unit), data, unitsKey(set.CourseId), set.Unit); err != nil {
		return fmt.Errorf("redis put: %w", err)
	}
	logger.WithTrace(ctx).Debug("cached question set in redis", "courseId", set.CourseId, "unit", set.Unit)
	return nil
}

func (s *RedisQuestionStore) IsValid(ctx context.Context, courseId string, unit int, fingerprint string) (bool, error) {
	return isValid(ctx, s, courseId, unit, fingerprint)
}

func (s *RedisQuestionStore) ListCachedUnits(ctx context.Context, courseId string) ([]int, error) {
	if err := checkKey(courseId, 1); err != nil {
		return nil, err
	}
	members, err := s.store.SetMembers(ctx, unitsKey(courseId))
	if err != nil {
		return nil, fmt.Errorf("redis list units: %w", err)
	}
	units := make([]int, 0, len(members))
	for _, m := range members {
		n, err := strconv.Atoi(m)
		if err != nil || n <= 0 {
			continue
		}
		units = append(units, n)
	}
	sort.Ints(units)
	return units, nil
}
