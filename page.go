package fidata

import "context"

// Table is a table reconstructed from a page: rows of cell text.
// Empty cells are kept so columns stay aligned with the header.
type Table [][]string

// Page is the text content of one document page.
type Page struct {
	Number int
	Text   string
	Tables []Table
}

// PageReader reads the pages of a document.
// Implementations hide PDF decoding vs pre-extracted text dumps.
type PageReader interface {
	ReadPages(ctx context.Context, path string) ([]*Page, error)
}

// DocumentKind identifies the vendor document an input file holds.
type DocumentKind string

// Supported document kinds.
const (
	DocumentFeatureMatrix DocumentKind = "featuresupportmatrix"
	DocumentReleaseNotes  DocumentKind = "releasenotes"
)

// ExtractEvent is the kind of an ExtractProgress event.
type ExtractEvent int

const (
	ExtractStarted ExtractEvent = iota
	ExtractCompleted
	ExtractFailed
	ExtractFinished
)

// ExtractProgress reports progress while documents are processed.
type ExtractProgress struct {
	Type      ExtractEvent
	Path      string
	Completed int
	Total     int
	Records   int
	Error     error
}

// ExtractProgressFunc is called as documents are processed.
type ExtractProgressFunc func(ExtractProgress)
