package ingest

import (
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"
)

func longText(paragraphs int) string {
	var b strings.Builder
	for i := 0; i < paragraphs; i++ {
		b.WriteString("Unit ")
		b.WriteString(strings.Repeat("x", i%3+1))
		b.WriteString(" covers sampling. Each sample is drawn at random? Yes! The mean is estimated from the sample.\n")
		b.WriteString("Variance measures spread around the mean and grows with outliers.\n\n")
	}
	return b.String()
}

func TestChunker_SmallAndEmpty(t *testing.T) {
	c := NewChunker()

	if got := c.Split("   \n\t  "); got != nil {
		t.Errorf("whitespace-only text should yield no chunks, got %d", len(got))
	}

	got := c.Split("Chapter 1: Intro.")
	if len(got) != 1 || got[0].Index != 0 || got[0].Text != "Chapter 1: Intro." {
		t.Errorf("short text should be one chunk, got %+v", got)
	}
}

func TestChunker_BoundsAndOverlap(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		size    int
		overlap int
	}{
		{"paragraphs", longText(60), 1500, 200},
		{"small window", longText(10), 120, 30},
		{"single long line", strings.Repeat("word ", 2000), 500, 100},
		{"no whitespace at all", strings.Repeat("abcdefghij", 500), 300, 50},
		{"multibyte runes", strings.Repeat("ünïcödé ", 400), 101, 20},
		{"multibyte no spaces", strings.Repeat("é", 1000), 99, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewChunker(WithSize(tt.size), WithOverlap(tt.overlap))
			chunks := c.Split(tt.text)
			if len(chunks) < 2 {
				t.Fatalf("expected several chunks, got %d", len(chunks))
			}
			for i, ch := range chunks {
				if ch.Index != i {
					t.Errorf("chunk %d has index %d", i, ch.Index)
				}
				if len(ch.Text) > tt.size {
					t.Errorf("chunk %d is %d bytes, bound %d", i, len(ch.Text), tt.size)
				}
				if !utf8.ValidString(ch.Text) {
					t.Errorf("chunk %d splits a rune", i)
				}
			}
		})
	}
}

func TestChunker_OverlapStartsOnWord(t *testing.T) {
	c := NewChunker(WithSize(200), WithOverlap(40))
	chunks := c.Split(longText(20))

	for i := 1; i < len(chunks); i++ {
		prev := chunks[i-1].Text
		cur := chunks[i].Text
		shared := 0
		for n := min(40, len(prev)); n > 0; n-- {
			if strings.HasPrefix(cur, prev[len(prev)-n:]) {
				shared = n
				break
			}
		}
		if shared == 0 || shared == len(prev) {
			continue
		}
		before := prev[len(prev)-shared-1]
		if before != ' ' && before != '\n' {
			t.Errorf("chunk %d overlap starts mid-word: %q", i, prev[len(prev)-shared:])
		}
	}
}

func TestChunker_Deterministic(t *testing.T) {
	text := longText(40)
	a := NewChunker().Split(text)
	b := NewChunker().Split(text)
	if !reflect.DeepEqual(a, b) {
		t.Error("same input produced different chunks")
	}
}

func TestChunker_CoversAllText(t *testing.T) {
	text := strings.TrimSpace(longText(30))
	chunks := NewChunker(WithSize(300), WithOverlap(0)).Split(text)

	var b strings.Builder
	for _, ch := range chunks {
		b.WriteString(ch.Text)
	}
	if b.String() != text {
		t.Error("with zero overlap the chunks should concatenate back to the input")
	}
}

func TestNewChunker_ClampsOverlap(t *testing.T) {
	c := NewChunker(WithSize(100), WithOverlap(150))
	if c.Overlap() >= c.Size() {
		t.Errorf("overlap %d should be below size %d", c.Overlap(), c.Size())
	}
}

func TestOverlapTail(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"the mean of the sample", 9, "sample"},
		{"the mean of the sample", 10, "the sample"},
		{"the mean of the sample", 0, ""},
		{"abcdefghij", 4, ""},
		{"one two\n\nthree", 7, "three"},
	}
	for _, tt := range tests {
		if got := overlapTail(tt.in, tt.n); got != tt.want {
			t.Errorf("overlapTail(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}

func TestSplitAfterAny(t *testing.T) {
	got := splitAfterAny("One. Two? Three! Four", []string{". ", "? ", "! "})
	want := []string{"One. ", "Two? ", "Three! ", "Four"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %q, want %q", got, want)
	}
}
