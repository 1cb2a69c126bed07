package segment

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/akolanti/StudyAPI/internal/config"
	"github.com/akolanti/StudyAPI/internal/domain/courseModel"
)

// Segmenter groups chunks into numbered units. Every returned unit has a
// number in [config.MinUnitNumber, config.MaxUnitNumber] and unique,
// ascending chunk references.
type Segmenter interface {
	Segment(chunks []courseModel.Chunk) map[int]courseModel.Unit
	Name() string
}

var markerPattern = regexp.MustCompile(`(?i)\b(unit|chapter|section|module|lesson)\s+(\d{1,3})\b`)

const titleTrimChars = " \t.,;:-–—"

type marker struct {
	number int
	chunk  int
	title  string
}

// MarkerSegmenter assigns every chunk that mentions "Unit 3", "Chapter 3"
// and the like to that unit.
type MarkerSegmenter struct{}

func NewMarkerSegmenter() *MarkerSegmenter {
	return &MarkerSegmenter{}
}

func (MarkerSegmenter) Name() string {
	return config.SegmenterMarker
}

func (MarkerSegmenter) Segment(chunks []courseModel.Chunk) map[int]courseModel.Unit {
	units := make(map[int]courseModel.Unit)
	for _, m := range findMarkers(chunks) {
		addChunk(units, m)
	}
	if len(units) == 0 {
		return Fallback(chunks)
	}
	return finalize(units)
}

// SpanSegmenter extends each unit over the unmarked chunks that follow its
// last marker, treating a marker as the start of a section.
type SpanSegmenter struct{}

func NewSpanSegmenter() *SpanSegmenter {
	return &SpanSegmenter{}
}

func (SpanSegmenter) Name() string {
	return config.SegmenterSpan
}

func (SpanSegmenter) Segment(chunks []courseModel.Chunk) map[int]courseModel.Unit {
	markers := findMarkers(chunks)
	if len(markers) == 0 {
		return Fallback(chunks)
	}

	units := make(map[int]courseModel.Unit)
	marked := make(map[int]bool)
	for _, m := range markers {
		addChunk(units, m)
		marked[m.chunk] = true
	}

	current := 0
	for _, c := range chunks {
		if marked[c.Index] {
			current = lastMarkerIn(markers, c.Index)
			continue
		}
		if current == 0 {
			continue
		}
		addChunk(units, marker{number: current, chunk: c.Index})
	}
	return finalize(units)
}

func lastMarkerIn(markers []marker, chunk int) int {
	number := 0
	for _, m := range markers {
		if m.chunk == chunk {
			number = m.number
		}
	}
	return number
}

func New(name string) (Segmenter, error) {
	switch name {
	case "", config.SegmenterMarker:
		return NewMarkerSegmenter(), nil
	case config.SegmenterSpan:
		return NewSpanSegmenter(), nil
	default:
		return nil, fmt.Errorf("unknown segmenter %q", name)
	}
}

// findMarkers returns in-range markers in chunk order, then position order.
func findMarkers(chunks []courseModel.Chunk) []marker {
	var markers []marker
	for _, c := range chunks {
		for _, loc := range markerPattern.FindAllStringSubmatchIndex(c.Text, -1) {
			n, err := strconv.Atoi(c.Text[loc[4]:loc[5]])
			if err != nil || n < config.MinUnitNumber || n > config.MaxUnitNumber {
				continue
			}
			markers = append(markers, marker{
				number: n,
				chunk:  c.Index,
				title:  titleAt(c.Text, loc[0]),
			})
		}
	}
	return markers
}

// titleAt returns the line holding the marker at pos when the line starts
// with that marker and is short enough to be a heading.
func titleAt(text string, pos int) string {
	lineStart := strings.LastIndexByte(text[:pos], '\n') + 1
	if strings.TrimSpace(text[lineStart:pos]) != "" {
		return ""
	}
	lineEnd := strings.IndexByte(text[pos:], '\n')
	if lineEnd < 0 {
		lineEnd = len(text)
	} else {
		lineEnd += pos
	}
	line := strings.Join(strings.Fields(text[pos:lineEnd]), " ")
	line = strings.TrimRight(line, titleTrimChars)
	if line == "" || len(line) > config.MaxTitleLength {
		return ""
	}
	return line
}

func addChunk(units map[int]courseModel.Unit, m marker) {
	u, ok := units[m.number]
	if !ok {
		u = courseModel.Unit{Number: m.number}
	}
	if u.Title == "" && m.title != "" {
		u.Title = m.title
	}
	u.ChunkIndexes = append(u.ChunkIndexes, m.chunk)
	units[m.number] = u
}

func finalize(units map[int]courseModel.Unit) map[int]courseModel.Unit {
	for n, u := range units {
		u.ChunkIndexes = uniqueSorted(u.ChunkIndexes)
		if u.Title == "" {
			u.Title = GenericTitle(n)
		}
		units[n] = u
	}
	return units
}

func uniqueSorted(in []int) []int {
	sort.Ints(in)
	out := make([]int, 0, len(in))
	for _, v := range in {
		if len(out) > 0 && out[len(out)-1] == v {
			continue
		}
		out = append(out, v)
	}
	return out
}

func GenericTitle(n int) string {
	return "Unit " + strconv.Itoa(n)
}

// Fallback splits the chunks into min(FallbackUnitCount, len(chunks))
// contiguous groups of near equal size covering every chunk once.
func Fallback(chunks []courseModel.Chunk) map[int]courseModel.Unit {
	units := make(map[int]courseModel.Unit)
	n := len(chunks)
	k := min(config.FallbackUnitCount, n)
	for i := 0; i < k; i++ {
		lo, hi := i*n/k, (i+1)*n/k
		idx := make([]int, 0, hi-lo)
		for _, c := range chunks[lo:hi] {
			idx = append(idx, c.Index)
		}
		units[i+1] = courseModel.Unit{
			Number:       i + 1,
			Title:        GenericTitle(i + 1),
			ChunkIndexes: idx,
		}
	}
	return units
}
