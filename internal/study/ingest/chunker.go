package ingest

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/akolanti/StudyAPI/internal/config"
	"github.com/akolanti/StudyAPI/internal/domain/courseModel"
)

// separators ordered from best to worst for keeping meaning together.
// Each level may hold several boundaries of equal rank.
var separators = [][]string{
	{"\n\n"},
	{"\n"},
	{". ", "? ", "! "},
	{" "},
}

type Chunker struct {
	size    int
	overlap int
}

type ChunkerOption func(*Chunker)

func WithSize(size int) ChunkerOption {
	return func(c *Chunker) {
		if size > 0 {
			c.size = size
		}
	}
}

func WithOverlap(overlap int) ChunkerOption {
	return func(c *Chunker) {
		if overlap >= 0 {
			c.overlap = overlap
		}
	}
}

func NewChunker(opts ...ChunkerOption) *Chunker {
	c := &Chunker{size: config.ChunkSize, overlap: config.ChunkOverlap}
	for _, opt := range opts {
		opt(c)
	}
	if c.overlap >= c.size {
		c.overlap = c.size / 2
	}
	return c
}

func (c *Chunker) Size() int {
	return c.size
}

func (c *Chunker) Overlap() int {
	return c.overlap
}

// Split cuts text into bounded, overlapping chunks. The output only depends on
// the input and the chunker's size and overlap.
func (c *Chunker) Split(text string) []courseModel.Chunk {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if len(text) <= c.size {
		return []courseModel.Chunk{{Index: 0, Text: text}}
	}

	pieces := splitPieces(text, c.size, 0)
	texts := mergePieces(pieces, c.size, c.overlap)

	chunks := make([]courseModel.Chunk, 0, len(texts))
	for i, t := range texts {
		chunks = append(chunks, courseModel.Chunk{Index: i, Text: t})
	}
	return chunks
}

// splitPieces breaks text into pieces no longer than limit, using the
// coarsest separator that works and falling back to finer ones.
func splitPieces(text string, limit int, level int) []string {
	if len(text) <= limit {
		return []string{text}
	}
	if level >= len(separators) {
		return hardCut(text, limit)
	}

	parts := splitAfterAny(text, separators[level])
	if len(parts) == 1 {
		return splitPieces(text, limit, level+1)
	}

	var pieces []string
	for _, part := range parts {
		if len(part) <= limit {
			pieces = append(pieces, part)
			continue
		}
		pieces = append(pieces, splitPieces(part, limit, level+1)...)
	}
	return pieces
}

// splitAfterAny splits after every occurrence of any of seps, keeping the
// separator attached to the preceding part.
func splitAfterAny(text string, seps []string) []string {
	var parts []string
	start := 0
	for i := 0; i < len(text); {
		matched := 0
		for _, sep := range seps {
			if strings.HasPrefix(text[i:], sep) {
				matched = len(sep)
				break
			}
		}
		if matched == 0 {
			i++
			continue
		}
		i += matched
		parts = append(parts, text[start:i])
		start = i
	}
	if start < len(text) {
		parts = append(parts, text[start:])
	}
	return parts
}

// hardCut slices text into pieces of at most limit bytes without splitting a
// multi-byte rune.
func hardCut(text string, limit int) []string {
	var pieces []string
	for len(text) > limit {
		cut := limit
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		if cut == 0 {
			// limit smaller than one rune
			_, cut = utf8.DecodeRuneInString(text)
		}
		pieces = append(pieces, text[:cut])
		text = text[cut:]
	}
	if text != "" {
		pieces = append(pieces, text)
	}
	return pieces
}

func mergePieces(pieces []string, limit int, overlap int) []string {
	var chunks []string
	var current strings.Builder
	fresh := false

	for _, piece := range pieces {
		if fresh && current.Len()+len(piece) > limit {
			prev := current.String()
			chunks = append(chunks, prev)

			current.Reset()
			current.WriteString(overlapTail(prev, min(overlap, limit-len(piece))))
			fresh = false
		}
		current.WriteString(piece)
		fresh = true
	}

	if fresh {
		chunks = append(chunks, current.String())
	}
	return chunks
}

// overlapTail returns at most n trailing bytes of s, moved forward to the
// start of a word.
func overlapTail(s string, n int) string {
	if n <= 0 || s == "" {
		return ""
	}
	if n >= len(s) {
		return s
	}
	start := len(s) - n
	for start < len(s) && !utf8.RuneStart(s[start]) {
		start++
	}
	if start > 0 {
		prev, _ := utf8.DecodeLastRuneInString(s[:start])
		if !unicode.IsSpace(prev) {
			idx := strings.IndexFunc(s[start:], unicode.IsSpace)
			if idx < 0 {
				return ""
			}
			start += idx
		}
	}
	for start < len(s) {
		r, size := utf8.DecodeRuneInString(s[start:])
		if !unicode.IsSpace(r) {
			break
		}
		start += size
	}
	return s[start:]
}
