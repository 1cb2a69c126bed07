package study_test

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/akolanti/StudyAPI/internal/domain/courseModel"
	"github.com/akolanti/StudyAPI/internal/study/generation"
	"github.com/akolanti/StudyAPI/internal/study/vectorDB"
)

type mockUnit struct {
	title string
	text  string
}

// MockRegistry serves fixed course data and counts every read.
type MockRegistry struct {
	mu           sync.Mutex
	Fingerprints map[string]string
	Units        map[string]map[int]mockUnit
	Reads        int
	OnRebuild    func(ctx context.Context) error
}

func NewMockRegistry() *MockRegistry {
	return &MockRegistry{
		Fingerprints: map[string]string{},
		Units:        map[string]map[int]mockUnit{},
	}
}

func (m *MockRegistry) AddUnit(courseId, fingerprint string, unit int, title, text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Fingerprints[courseId] = fingerprint
	if m.Units[courseId] == nil {
		m.Units[courseId] = map[int]mockUnit{}
	}
	m.Units[courseId][unit] = mockUnit{title: title, text: text}
}

func (m *MockRegistry) SetFingerprint(courseId, fingerprint string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Fingerprints[courseId] = fingerprint
}

func (m *MockRegistry) read() {
	m.mu.Lock()
	m.Reads++
	m.mu.Unlock()
}

func (m *MockRegistry) HasCourse(courseId string) bool {
	m.read()
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.Fingerprints[courseId]
	return ok
}

func (m *MockRegistry) GetUnits(courseId string) []int {
	m.read()
	m.mu.Lock()
	defer m.mu.Unlock()
	var units []int
	for n := range m.Units[courseId] {
		units = append(units, n)
	}
	sort.Ints(units)
	return units
}

func (m *MockRegistry) GetUnitContent(courseId string, unit int) (courseModel.UnitContent, bool) {
	m.read()
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.Units[courseId][unit]
	if !ok {
		return courseModel.UnitContent{}, false
	}
	return courseModel.UnitContent{Title: u.title, Text: u.text, ChunkCount: 1}, true
}

func (m *MockRegistry) GetFingerprint(courseId string) (string, bool) {
	m.read()
	m.mu.Lock()
	defer m.mu.Unlock()
	fp, ok := m.Fingerprints[courseId]
	return fp, ok
}

func (m *MockRegistry) Courses() []courseModel.CourseSummary {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []courseModel.CourseSummary
	for id, fp := range m.Fingerprints {
		out = append(out, courseModel.CourseSummary{CourseId: id, UnitCount: len(m.Units[id]), Fingerprint: fp})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CourseId < out[j].CourseId })
	return out
}

func (m *MockRegistry) Rebuild(ctx context.Context) error {
	if m.OnRebuild != nil {
		return m.OnRebuild(ctx)
	}
	return nil
}

// MockCache implements questionCache.Store. Unset hooks fall back to an
// in-memory map.
type MockCache struct {
	mu      sync.Mutex
	sets    map[string]courseModel.CachedQuestionSet
	Gets    int
	Puts    []courseModel.CachedQuestionSet
	OnGet   func(ctx context.Context, courseId string, unit int) (courseModel.CachedQuestionSet, bool, error)
	OnPut   func(ctx context.Context, set courseModel.CachedQuestionSet) error
	OnValid func(ctx context.Context, courseId string, unit int, fingerprint string) (bool, error)
	OnList  func(ctx context.Context, courseId string) ([]int, error)
}

func NewMockCache() *MockCache {
	return &MockCache{sets: map[string]courseModel.CachedQuestionSet{}}
}

func cacheKey(courseId string, unit int) string {
	return fmt.Sprintf("%s/%d", courseId, unit)
}

func (m *MockCache) Seed(set courseModel.CachedQuestionSet) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sets[cacheKey(set.CourseId, set.Unit)] = set
}

func (m *MockCache) Get(ctx context.Context, courseId string, unit int) (courseModel.CachedQuestionSet, bool, error) {
	m.mu.Lock()
	m.Gets++
	m.mu.Unlock()
	if m.OnGet != nil {
		return m.OnGet(ctx, courseId, unit)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	set, ok := m.sets[cacheKey(courseId, unit)]
	return set, ok, nil
}

func (m *MockCache) Put(ctx context.Context, set courseModel.CachedQuestionSet) error {
	m.mu.Lock()
	m.Puts = append(m.Puts, set)
	m.mu.Unlock()
	if m.OnPut != nil {
		return m.OnPut(ctx, set)
	}
	m.Seed(set)
	return nil
}

func (m *MockCache) IsValid(ctx context.Context, courseId string, unit int, fingerprint string) (bool, error) {
	if m.OnValid != nil {
		return m.OnValid(ctx, courseId, unit, fingerprint)
	}
	set, ok, err := m.Get(ctx, courseId, unit)
	if err != nil || !ok {
		return false, err
	}
	return set.IsValidFor(fingerprint), nil
}

func (m *MockCache) ListCachedUnits(ctx context.Context, courseId string) ([]int, error) {
	if m.OnList != nil {
		return m.OnList(ctx, courseId)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var units []int
	for _, set := range m.sets {
		if set.CourseId == courseId {
			units = append(units, set.Unit)
		}
	}
	sort.Ints(units)
	return units, nil
}

func (m *MockCache) PutCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Puts)
}

// MockGenerator implements study.QuestionGenerator.
type MockGenerator struct {
	mu         sync.Mutex
	Calls      []generation.Request
	OnGenerate func(ctx context.Context, req generation.Request) generation.Result
}

func (m *MockGenerator) Generate(ctx context.Context, req generation.Request) generation.Result {
	m.mu.Lock()
	m.Calls = append(m.Calls, req)
	m.mu.Unlock()
	if m.OnGenerate != nil {
		return m.OnGenerate(ctx, req)
	}
	return generation.Result{Questions: sampleQuestions(req.Count), Origin: courseModel.OriginBackend, Attempts: 1}
}

func (m *MockGenerator) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

type MockEmbedder struct {
	OnGetEmbedding func(ctx context.Context, query string) ([]float32, error)
}

func (m *MockEmbedder) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	if m.OnGetEmbedding != nil {
		return m.OnGetEmbedding(ctx, query)
	}
	return []float32{0.1, 0.2}, nil
}

func (m *MockEmbedder) BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error) {
	return make([][]float32, len(chunks)), nil
}

// MockChunkIndex implements vectorDB.ChunkIndex.
type MockChunkIndex struct {
	OnSearch func(ctx context.Context, courseId string, vector []float32, limit int) ([]courseModel.SearchMatch, error)
}

func (m *MockChunkIndex) CreateCollection(ctx context.Context) error { return nil }

func (m *MockChunkIndex) DeleteCourse(ctx context.Context, courseId string) error { return nil }

func (m *MockChunkIndex) UpsertBatch(ctx context.Context, chunks []vectorDB.IndexedChunk, vectors [][]float32) error {
	return nil
}

func (m *MockChunkIndex) Search(ctx context.Context, courseId string, vector []float32, limit int) ([]courseModel.SearchMatch, error) {
	if m.OnSearch != nil {
		return m.OnSearch(ctx, courseId, vector, limit)
	}
	return nil, nil
}

func sampleQuestions(n int) []courseModel.Question {
	out := make([]courseModel.Question, n)
	for i := range out {
		out[i] = courseModel.Question{
			Question:    "Which value is the median of 1, 2, 9?",
			Options:     []string{"1", "2", "4", "9"},
			Answer:      "B",
			Explanation: "2 is the middle value.",
		}
	}
	return out
}

// MockService implements study.Service for the outer surfaces. Unset hooks
// return empty results.
type MockService struct {
	mu           sync.Mutex
	Courses      []courseModel.CourseSummary
	Requests     []string
	OnListUnits  func(ctx context.Context, courseId string) (courseModel.UnitListing, error)
	OnQuestions  func(ctx context.Context, courseId string, unit int, regenerate bool) (courseModel.QuestionSetResult, error)
	OnSearch     func(ctx context.Context, courseId string, query string, limit int) ([]courseModel.SearchMatch, error)
	OnWarmCourse func(ctx context.Context, courseId string) (courseModel.WarmResult, error)
	OnReingest   func(ctx context.Context) error
}

func (m *MockService) record(call string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Requests = append(m.Requests, call)
}

// Calls returns the names of the service methods called so far, in order.
func (m *MockService) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.Requests...)
}

func (m *MockService) ListCourses(ctx context.Context) []courseModel.CourseSummary {
	m.record("ListCourses")
	return m.Courses
}

func (m *MockService) ListUnits(ctx context.Context, courseId string) (courseModel.UnitListing, error) {
	m.record("ListUnits")
	if m.OnListUnits != nil {
		return m.OnListUnits(ctx, courseId)
	}
	return courseModel.UnitListing{CourseId: courseId, Units: []courseModel.UnitSummary{}}, nil
}

func (m *MockService) GetQuestions(ctx context.Context, courseId string, unit int) (courseModel.QuestionSetResult, error) {
	m.record("GetQuestions")
	if m.OnQuestions != nil {
		return m.OnQuestions(ctx, courseId, unit, false)
	}
	return SampleResult(courseId, unit, courseModel.SourceCache), nil
}

func (m *MockService) RegenerateQuestions(ctx context.Context, courseId string, unit int) (courseModel.QuestionSetResult, error) {
	m.record("RegenerateQuestions")
	if m.OnQuestions != nil {
		return m.OnQuestions(ctx, courseId, unit, true)
	}
	return SampleResult(courseId, unit, courseModel.SourceGenerated), nil
}

func (m *MockService) SearchCourse(ctx context.Context, courseId string, query string, limit int) ([]courseModel.SearchMatch, error) {
	m.record("SearchCourse")
	if m.OnSearch != nil {
		return m.OnSearch(ctx, courseId, query, limit)
	}
	return nil, nil
}

func (m *MockService) WarmCourse(ctx context.Context, courseId string) (courseModel.WarmResult, error) {
	m.record("WarmCourse")
	if m.OnWarmCourse != nil {
		return m.OnWarmCourse(ctx, courseId)
	}
	return courseModel.WarmResult{CourseId: courseId, Generated: []int{}, Skipped: []int{}}, nil
}

func (m *MockService) Reingest(ctx context.Context) error {
	m.record("Reingest")
	if m.OnReingest != nil {
		return m.OnReingest(ctx)
	}
	return nil
}

// SampleResult is a valid ten-question set for courseId/unit.
func SampleResult(courseId string, unit int, source courseModel.QuestionSource) courseModel.QuestionSetResult {
	return courseModel.QuestionSetResult{
		CourseId:    courseId,
		Unit:        unit,
		Title:       fmt.Sprintf("Unit %d", unit),
		Questions:   sampleQuestions(10),
		Source:      source,
		Origin:      courseModel.OriginBackend,
		Fingerprint: "h1",
	}
}
