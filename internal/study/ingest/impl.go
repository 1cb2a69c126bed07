package ingest

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/akolanti/StudyAPI/internal/domain/courseModel"
)

var blankRuns = regexp.MustCompile(`\n{3,}`)

func getDocType(docPath string) courseModel.DocType {
	ext := strings.ToLower(filepath.Ext(docPath))
	switch ext {
	case ".pdf":
		return courseModel.PDF
	case ".docx":
		return courseModel.DOCX
	case ".odt":
		return courseModel.ODT
	case ".rtf":
		return courseModel.RTF
	case ".txt":
		return courseModel.TXT
	case ".md", ".markdown":
		return courseModel.MARKDOWN
	case ".html", ".htm":
		return courseModel.HTML
	default:
		return courseModel.ERR
	}
}

func extractText(doc courseModel.SourceDocument) ([]rawPage, error) {
	switch doc.DocType {
	case courseModel.PDF:
		return extractPDF(doc.Path, doc.Content)
	case courseModel.DOCX, courseModel.ODT, courseModel.RTF:
		return extractDocument(doc.Path, doc.Content)
	case courseModel.TXT:
		return extractPlainText(doc.Content)
	case courseModel.MARKDOWN:
		return extractMarkdown(doc.Content)
	case courseModel.HTML:
		return extractHTML(doc.Content)
	default:
		return nil, fmt.Errorf("unsupported content type: %s", doc.DocType)
	}
}

// normalizeText unifies line endings, drops trailing blanks on each line and
// collapses long runs of empty lines so paragraph breaks stay meaningful.
func normalizeText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t ")
	}
	s = strings.Join(lines, "\n")
	s = blankRuns.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
