package questionCache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"

	"github.com/akolanti/StudyAPI/internal/domain/courseModel"
)

var unitFilePattern = regexp.MustCompile(`^unit_(\d+)\.json$`)

// FileStore keeps each set at <dir>/<course>/unit_<n>.json.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (s *FileStore) path(courseId string, unit int) string {
	return filepath.Join(s.dir, courseId, fmt.Sprintf("unit_%d.json", unit))
}

func (s *FileStore) Get(ctx context.Context, courseId string, unit int) (courseModel.CachedQuestionSet, bool, error) {
	var set courseModel.CachedQuestionSet
	if err := checkKey(courseId, unit); err != nil {
		return set, false, err
	}
	data, err := os.ReadFile(s.path(courseId, unit))
	if errors.Is(err, fs.ErrNotExist) {
		return set, false, nil
	}
	if err != nil {
		return set, false, fmt.Errorf("reading cached set: %w", err)
	}
	if err := json.Unmarshal(data, &set); err != nil {
		return set, false, fmt.Errorf("decoding cached set %s/%d: %w", courseId, unit, err)
	}
	return set, true, nil
}

// Put writes to a temp file in the course directory and renames it over the
// target, so a reader sees the old set or the new one.
func (s *FileStore) Put(ctx context.Context, set courseModel.CachedQuestionSet) error {
	if err := checkKey(set.CourseId, set.Unit); err != nil {
		return err
	}
	courseDir := filepath.Join(s.dir, set.CourseId)
	if err := os.MkdirAll(courseDir, 0750); err != nil {
		return fmt.Errorf("creating cache dir: %w", err)
	}

	data, err := json.MarshalIndent(set, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding cached set: %w", err)
	}

	tmp, err := os.CreateTemp(courseDir, fmt.Sprintf(".unit_%d-*.tmp", set.Unit))
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		// no-op once renamed
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing cached set: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("syncing cached set: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing cached set: %w", err)
	}
	if err := os.Rename(tmpName, s.path(set.CourseId, set.Unit)); err != nil {
		return fmt.Errorf("replacing cached set: %w", err)
	}
	logger.WithTrace(ctx).Debug("cached question set", "courseId", set.CourseId, "unit", set.Unit, "questions", len(set.Questions))
	return nil
}

func (s *FileStore) IsValid(ctx context.Context, courseId string, unit int, fingerprint string) (bool, error) {
	return isValid(ctx, s, courseId, unit, fingerprint)
}

func (s *FileStore) ListCachedUnits(ctx context.Context, courseId string) ([]int, error) {
	if err := checkKey(courseId, 1); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(filepath.Join(s.dir, courseId))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("listing cache dir: %w", err)
	}

	var units []int
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		m := unitFilePattern.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil || n <= 0 {
			continue
		}
		units = append(units, n)
	}
	sort.Ints(units)
	return units, nil
}
