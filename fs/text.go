package fs

import (
	"context"
	"os"
	"regexp"
	"strings"

	"github.com/fwojciec/fidata"
)

// Ensure TextReader implements fidata.PageReader at compile time.
var _ fidata.PageReader = (*TextReader)(nil)

var cellSepRe = regexp.MustCompile(`\t+|\s{2,}`)

// TextReader reads text dumps produced by layout-preserving PDF-to-text
// tools. Pages are separated by form feeds; every non-blank line becomes a
// table row whose cells are separated by tabs or runs of two or more spaces.
type TextReader struct{}

// NewTextReader creates a new TextReader.
func NewTextReader() *TextReader {
	return &TextReader{}
}

func (r *TextReader) ReadPages(ctx context.Context, path string) ([]*fidata.Page, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParsePages(string(data)), ctx.Err()
}

// ParsePages splits a text dump into pages.
func ParsePages(text string) []*fidata.Page {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	raw := strings.Split(text, "\f")
	if n := len(raw); n > 1 && strings.TrimSpace(raw[n-1]) == "" {
		raw = raw[:n-1]
	}

	pages := make([]*fidata.Page, 0, len(raw))
	for i, content := range raw {
		page := &fidata.Page{Number: i + 1, Text: strings.Trim(content, "\n")}
		if t := parseTable(content); t != nil {
			page.Tables = []fidata.Table{t}
		}
		pages = append(pages, page)
	}
	return pages
}

// parseTable returns nil when no line holds more than one cell.
func parseTable(content string) fidata.Table {
	var table fidata.Table
	multi := false
	for line := range strings.SplitSeq(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		cells := cellSepRe.Split(line, -1)
		if len(cells) > 1 {
			multi = true
		}
		table = append(table, cells)
	}
	if !multi {
		return nil
	}
	return table
}

// Ensure DispatchReader implements fidata.PageReader at compile time.
var _ fidata.PageReader = (*DispatchReader)(nil)

// DispatchReader routes text dumps to Text and everything else to PDF.
type DispatchReader struct {
	PDF  fidata.PageReader
	Text fidata.PageReader
}

func (r *DispatchReader) ReadPages(ctx context.Context, path string) ([]*fidata.Page, error) {
	if IsText(path) {
		return r.Text.ReadPages(ctx, path)
	}
	return r.PDF.ReadPages(ctx, path)
}
