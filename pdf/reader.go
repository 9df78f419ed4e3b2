// Package pdf reads document pages with github.com/ledongthuc/pdf.
package pdf

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/fwojciec/fidata"
	"github.com/ledongthuc/pdf"
)

// Ensure Reader implements fidata.PageReader at compile time.
var _ fidata.PageReader = (*Reader)(nil)

const (
	// cellGap is the horizontal gap, in multiples of the font size, that
	// separates two table cells on one row.
	cellGap = 1.5
	// wordGap is the gap that separates two words inside a cell.
	wordGap = 0.2
	// defaultFontSize is used for runs without font information.
	defaultFontSize = 10.0
)

// Reader extracts text rows from PDF files. Every page yields one table whose
// rows are the page's text lines split into cells at wide horizontal gaps.
type Reader struct{}

// NewReader creates a new Reader.
func NewReader() *Reader {
	return &Reader{}
}

func (r *Reader) ReadPages(ctx context.Context, path string) (pages []*fidata.Page, err error) {
	// The decoder panics on some malformed streams.
	defer func() {
		if p := recover(); p != nil {
			pages, err = nil, fmt.Errorf("decode %s: %v", path, p)
		}
	}()

	f, doc, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	n := doc.NumPage()
	pages = make([]*fidata.Page, 0, n)
	for i := 1; i <= n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p := doc.Page(i)
		if p.V.IsNull() {
			continue
		}
		rows, err := p.GetTextByRow()
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i, err)
		}
		pages = append(pages, buildPage(i, rows))
	}
	return pages, nil
}

func buildPage(number int, rows pdf.Rows) *fidata.Page {
	// PDF coordinates grow upwards; read rows top to bottom.
	slices.SortStableFunc(rows, func(a, b *pdf.Row) int { return cmp.Compare(b.Position, a.Position) })

	page := &fidata.Page{Number: number}
	var table fidata.Table
	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		cells := RowCells(row.Content)
		if len(cells) == 0 {
			continue
		}
		table = append(table, cells)
		lines = append(lines, strings.Join(cells, "  "))
	}
	page.Text = strings.Join(lines, "\n")
	if len(table) > 0 {
		page.Tables = []fidata.Table{table}
	}
	return page
}

// RowCells joins the text runs of one row into cells. Runs closer than a
// fraction of the font size are glued, wider gaps insert a space, and gaps
// wider than cellGap font sizes start a new cell.
func RowCells(texts pdf.TextHorizontal) []string {
	runs := slices.Clone(texts)
	slices.SortStableFunc(runs, func(a, b pdf.Text) int { return cmp.Compare(a.X, b.X) })

	var cells []string
	var b strings.Builder
	flush := func() {
		if s := strings.Join(strings.Fields(b.String()), " "); s != "" {
			cells = append(cells, s)
		}
		b.Reset()
	}

	var end float64
	for i, t := range runs {
		if i > 0 {
			size := t.FontSize
			if size <= 0 {
				size = defaultFontSize
			}
			gap := t.X - end
			switch {
			case gap > size*cellGap:
				flush()
			case gap > size*wordGap:
				b.WriteByte(' ')
			}
		}
		b.WriteString(t.S)
		end = t.X + t.W
	}
	flush()
	return cells
}
