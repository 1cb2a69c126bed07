package ingest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/akolanti/StudyAPI/internal/domain/courseModel"
	"github.com/akolanti/StudyAPI/pkg/logger_i"
)

type rawPage struct {
	Number  int    `json:"number"`
	Content string `json:"content"`
}

var logger = logger_i.NewLogger("ingest")

var ErrNoText = errors.New("document has no extractable text")

var errDocumentChanged = errors.New("document changed during extraction")

// Loader discovers curriculum documents in a single directory. Nested
// directories are not searched.
type Loader struct {
	dir string
}

func NewLoader(dir string) *Loader {
	return &Loader{dir: dir}
}

func (l *Loader) Dir() string {
	return l.dir
}

// Discover returns every supported document in name order. A missing
// directory is created and yields no documents. Unreadable files are logged
// and skipped.
func (l *Loader) Discover(ctx context.Context) ([]courseModel.SourceDocument, error) {
	log := logger.WithTrace(ctx).With("dir", l.dir)

	if err := os.MkdirAll(l.dir, 0750); err != nil {
		return nil, fmt.Errorf("creating documents directory: %w", err)
	}

	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, fmt.Errorf("reading documents directory: %w", err)
	}

	seen := make(map[string]string)
	var docs []courseModel.SourceDocument
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		id := CourseIdFromName(name)
		if id == "" {
			log.Debug("skipping file without a usable name", "file", name)
			continue
		}
		if strings.HasPrefix(name, ".") {
			continue
		}
		docType := getDocType(name)
		if docType == courseModel.ERR {
			continue
		}
		if first, dup := seen[id]; dup {
			log.Warn("duplicate course id, keeping the first file", "courseId", id, "kept", first, "skipped", name)
			continue
		}

		path := filepath.Join(l.dir, name)
		content, err := os.ReadFile(path)
		if err != nil {
			log.Error("unreadable document skipped", "file", name, "error", err)
			continue
		}
		seen[id] = name
		docs = append(docs, courseModel.SourceDocument{
			Id:      id,
			Path:    path,
			Content: content,
			DocType: docType,
		})
	}
	log.Debug("discovered documents", "count", len(docs))
	return docs, nil
}

// CourseIdFromName lower-cases the file name and strips its extension.
func CourseIdFromName(name string) string {
	base := filepath.Base(name)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return strings.TrimSpace(strings.ToLower(base))
}

// IsSupported reports whether the loader can read a file with this name.
func IsSupported(name string) bool {
	return getDocType(name) != courseModel.ERR
}

// ExtractText turns a discovered document into plain text.
func ExtractText(doc courseModel.SourceDocument) (string, error) {
	pages, err := extractText(doc)
	if err != nil {
		return "", err
	}
	parts := make([]string, 0, len(pages))
	for _, p := range pages {
		if strings.TrimSpace(p.Content) != "" {
			parts = append(parts, p.Content)
		}
	}
	text := normalizeText(strings.Join(parts, "\n\n"))
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%s: %w", doc.Path, ErrNoText)
	}
	return text, nil
}
