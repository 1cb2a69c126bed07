package registry

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/akolanti/StudyAPI/internal/config"
	"github.com/akolanti/StudyAPI/internal/domain/courseModel"
	"github.com/akolanti/StudyAPI/internal/metrics"
	"github.com/akolanti/StudyAPI/internal/study/ingest"
	"github.com/akolanti/StudyAPI/internal/study/segment"
	"github.com/akolanti/StudyAPI/pkg/logger_i"
	"golang.org/x/sync/errgroup"
)

var logger = logger_i.NewLogger("registry")

// DocumentSource lists the documents a build should parse.
type DocumentSource interface {
	Discover(ctx context.Context) ([]courseModel.SourceDocument, error)
	Dir() string
}

type Extractor func(doc courseModel.SourceDocument) (string, error)

type PublishHook func(ctx context.Context, courses []courseModel.CourseParseResult)

type snapshot struct {
	courses map[string]*courseModel.CourseParseResult
	builtAt time.Time
}

// Registry holds the parsed courses. Reads go to an immutable snapshot that a
// build replaces in one step, so readers see either the old or the new state.
type Registry struct {
	source      DocumentSource
	extract     Extractor
	chunker     *ingest.Chunker
	segmenter   segment.Segmenter
	parallelism int
	hooks       []PublishHook
	now         func() time.Time

	current atomic.Pointer[snapshot]
	buildMu sync.Mutex
}

type Option func(*Registry)

func WithExtractor(e Extractor) Option {
	return func(r *Registry) { r.extract = e }
}

func WithChunker(c *ingest.Chunker) Option {
	return func(r *Registry) { r.chunker = c }
}

func WithSegmenter(s segment.Segmenter) Option {
	return func(r *Registry) { r.segmenter = s }
}

func WithParallelism(n int) Option {
	return func(r *Registry) {
		if n > 0 {
			r.parallelism = n
		}
	}
}

// WithPublishHook registers a callback run in the background after each
// published build.
func WithPublishHook(h PublishHook) Option {
	return func(r *Registry) { r.hooks = append(r.hooks, h) }
}

func WithClock(now func() time.Time) Option {
	return func(r *Registry) { r.now = now }
}

func New(source DocumentSource, opts ...Option) *Registry {
	r := &Registry{
		source:      source,
		extract:     ingest.ExtractText,
		chunker:     ingest.NewChunker(),
		segmenter:   segment.NewMarkerSegmenter(),
		parallelism: config.IngestParallelism,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.current.Store(&snapshot{courses: map[string]*courseModel.CourseParseResult{}})
	return r
}

// Fingerprint is the lower-case hex SHA-256 of the raw document bytes.
func Fingerprint(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// Build parses every discovered document and publishes the result. Only one
// build runs at a time; a document that fails keeps its previous entry.
func (r *Registry) Build(ctx context.Context) error {
	r.buildMu.Lock()
	defer r.buildMu.Unlock()

	log := logger.WithTrace(ctx)
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("registry_build", time.Since(start)) }()

	docs, err := r.source.Discover(ctx)
	if err != nil {
		metrics.RecordRegistryBuild("error")
		return fmt.Errorf("discovering documents: %w", err)
	}

	prev := r.current.Load()
	results := make([]*courseModel.CourseParseResult, len(docs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.parallelism)
	for i, doc := range docs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fp := Fingerprint(doc.Content)
			if old, ok := prev.courses[doc.Id]; ok && old.Fingerprint == fp && old.SourcePath == doc.Path {
				results[i] = old
				return nil
			}
			parsed, err := r.parse(doc, fp)
			if err != nil {
				log.Error("document failed to parse", "courseId", doc.Id, "path", doc.Path, "error", err)
				return nil
			}
			results[i] = parsed
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		metrics.RecordRegistryBuild("error")
		return fmt.Errorf("building registry: %w", err)
	}

	next := &snapshot{
		courses: make(map[string]*courseModel.CourseParseResult, len(docs)),
		builtAt: r.now(),
	}
	var published []courseModel.CourseParseResult
	failed := 0
	for i, doc := range docs {
		res := results[i]
		if res == nil {
			failed++
			if old, ok := prev.courses[doc.Id]; ok {
				next.courses[doc.Id] = old
			}
			continue
		}
		next.courses[doc.Id] = res
		published = append(published, *res)
	}

	r.current.Store(next)
	metrics.SetRegistryCourses(len(next.courses))
	metrics.RecordRegistryBuild("ok")
	log.Info("registry published", "courses", len(next.courses), "failed", failed, "took", time.Since(start))

	if len(r.hooks) > 0 && len(published) > 0 {
		hookCtx := context.WithoutCancel(ctx)
		for _, h := range r.hooks {
			go h(hookCtx, published)
		}
	}
	return nil
}

// Rebuild is Build under the name used for explicit re-ingestion.
func (r *Registry) Rebuild(ctx context.Context) error {
	return r.Build(ctx)
}

func (r *Registry) parse(doc courseModel.SourceDocument, fingerprint string) (*courseModel.CourseParseResult, error) {
	text, err := r.extract(doc)
	if err != nil {
		return nil, err
	}
	chunks := r.chunker.Split(text)
	if len(chunks) == 0 {
		return nil, ingest.ErrNoText
	}
	units := r.segmenter.Segment(chunks)
	return &courseModel.CourseParseResult{
		CourseId:    doc.Id,
		SourcePath:  doc.Path,
		Chunks:      chunks,
		Units:       units,
		FullText:    text,
		Fingerprint: fingerprint,
		ParsedAt:    r.now(),
		Strategy:    r.segmenter.Name(),
	}, nil
}

func (r *Registry) lookup(courseId string) (*courseModel.CourseParseResult, bool) {
	c, ok := r.current.Load().courses[courseId]
	return c, ok
}

func (r *Registry) HasCourse(courseId string) bool {
	_, ok := r.lookup(courseId)
	return ok
}

// GetUnits returns the unit numbers of a course in ascending order.
func (r *Registry) GetUnits(courseId string) []int {
	c, ok := r.lookup(courseId)
	if !ok {
		return nil
	}
	units := make([]int, 0, len(c.Units))
	for n := range c.Units {
		units = append(units, n)
	}
	sort.Ints(units)
	return units
}

func (r *Registry) GetUnitContent(courseId string, unit int) (courseModel.UnitContent, bool) {
	c, ok := r.lookup(courseId)
	if !ok {
		return courseModel.UnitContent{}, false
	}
	u, ok := c.Units[unit]
	if !ok || len(u.ChunkIndexes) == 0 {
		return courseModel.UnitContent{}, false
	}

	parts := make([]string, 0, len(u.ChunkIndexes))
	for _, idx := range u.ChunkIndexes {
		if idx >= 0 && idx < len(c.Chunks) {
			parts = append(parts, c.Chunks[idx].Text)
		}
	}
	return courseModel.UnitContent{
		Title:      u.Title,
		Text:       strings.Join(parts, "\n\n"),
		ChunkCount: len(parts),
	}, true
}

func (r *Registry) GetFingerprint(courseId string) (string, bool) {
	c, ok := r.lookup(courseId)
	if !ok {
		return "", false
	}
	return c.Fingerprint, true
}

func (r *Registry) GetCourse(courseId string) (courseModel.CourseParseResult, bool) {
	c, ok := r.lookup(courseId)
	if !ok {
		return courseModel.CourseParseResult{}, false
	}
	return *c, true
}

// Courses lists the published courses sorted by id.
func (r *Registry) Courses() []courseModel.CourseSummary {
	snap := r.current.Load()
	out := make([]courseModel.CourseSummary, 0, len(snap.courses))
	for _, c := range snap.courses {
		out = append(out, courseModel.CourseSummary{
			CourseId:    c.CourseId,
			UnitCount:   len(c.Units),
			ChunkCount:  len(c.Chunks),
			Fingerprint: c.Fingerprint,
			Strategy:    c.Strategy,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CourseId < out[j].CourseId })
	return out
}

func (r *Registry) BuiltAt() time.Time {
	return r.current.Load().builtAt
}
