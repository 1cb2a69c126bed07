package ingest

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/akolanti/StudyAPI/internal/config"
	"github.com/dslipak/pdf"
	"github.com/lu4p/cat"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

var pageTimeout = config.PageExtractionTimeout

// extractPDF reads the bytes the fingerprint was taken from, never the file
// again.
func extractPDF(path string, data []byte) ([]rawPage, error) {
	logger.Debug("extractPDF", "attempting extraction", path)
	f, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		logger.Error("failed opening of pdf file", "path", path)
		return nil, fmt.Errorf("failed to open pdf: %w", err)
	}

	var pages []rawPage
	numPages := f.NumPage()
	logger.Debug("extractPDF", "number of pages", numPages)
	for i := 1; i <= numPages; i++ {
		page := f.Page(i)
		if page.V.IsNull() {
			logger.Debug("extractPDF", "null page", i)
			continue
		}

		content, err := protectExtract(page)
		if err != nil {
			// a bad page costs us that page only
			logger.Error("Error parsing page content", "page", i, "Error", err)
			continue
		}

		pages = append(pages, rawPage{
			Number:  i,
			Content: content,
		})
	}
	return pages, nil
}

// extractDocument reads a .odt, .docx or .rtf file as a single page. cat only
// reads from disk, so the file is compared with the fingerprinted bytes
// afterwards and a document edited in between is rejected.
func extractDocument(path string, data []byte) ([]rawPage, error) {
	content, err := cat.File(path)
	if err != nil {
		logger.Error("Error extracting content from doc", "path", path)
		return nil, fmt.Errorf("failed to extract document: %w", err)
	}
	if err := unchanged(path, data); err != nil {
		return nil, err
	}

	return []rawPage{
		{
			Number:  1,
			Content: content,
		},
	}, nil
}

func unchanged(path string, data []byte) error {
	current, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("re-reading %s: %w", path, err)
	}
	if !bytes.Equal(current, data) {
		return fmt.Errorf("%w: %s", errDocumentChanged, path)
	}
	return nil
}

func extractPlainText(data []byte) ([]rawPage, error) {
	return []rawPage{{Number: 1, Content: strings.ToValidUTF8(string(data), "")}}, nil
}

func extractMarkdown(src []byte) ([]rawPage, error) {
	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	var b strings.Builder
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		switch node := n.(type) {
		case *ast.Text:
			if entering {
				b.Write(node.Segment.Value(src))
				if node.SoftLineBreak() || node.HardLineBreak() {
					b.WriteByte('\n')
				}
			}
		case *ast.String:
			if entering {
				b.Write(node.Value)
			}
		case *ast.CodeBlock, *ast.FencedCodeBlock:
			if entering {
				lines := n.Lines()
				for i := 0; i < lines.Len(); i++ {
					seg := lines.At(i)
					b.Write(seg.Value(src))
				}
				b.WriteString("\n\n")
				return ast.WalkSkipChildren, nil
			}
		case *ast.HTMLBlock, *ast.RawHTML:
			return ast.WalkSkipChildren, nil
		}
		if !entering && n.Type() == ast.TypeBlock {
			b.WriteString("\n\n")
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk markdown: %w", err)
	}
	return []rawPage{{Number: 1, Content: b.String()}}, nil
}

func extractHTML(src []byte) ([]rawPage, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}
	doc.Find("script,style,noscript,template").Remove()
	doc.Find("p,div,br,li,tr,h1,h2,h3,h4,h5,h6,section,article,header,footer,pre,blockquote").
		Each(func(_ int, s *goquery.Selection) {
			s.AfterHtml("\n\n")
		})

	body := doc.Find("body")
	content := body.Text()
	if strings.TrimSpace(content) == "" {
		content = doc.Text()
	}

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.Join(strings.Fields(line), " ")
	}
	return []rawPage{{Number: 1, Content: strings.Join(lines, "\n")}}, nil
}

func protectExtract(page pdf.Page) (string, error) {
	type result struct {
		content string
		err     error
	}
	resChan := make(chan result, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				resChan <- result{"", fmt.Errorf("page extraction panicked: %v", r)}
			}
		}()
		content, err := page.GetPlainText(nil)
		resChan <- result{content, err}
	}()
	select {
	case r := <-resChan:
		return r.content, r.err
	case <-time.After(pageTimeout):
		logger.Error("pageExtract", "timeout", pageTimeout)
		return "", errors.New("timeout")
	}
}
