// Package extractor adapts an external PDF text-extraction engine into
// the page-oriented contract the dispatcher and chunker depend on. The
// engine itself — here github.com/ledongthuc/pdf — is treated as a
// library whose page API is called from worker goroutines; this package
// never interprets glyph positions, fonts, or layout.
package extractor

import (
	"fmt"
	"strings"

	pdflib "github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// PageText is a single page's flattened text paired with its page
// number. PageNumber is 0-based, matching the dispatcher's iteration
// order.
type PageText struct {
	Text       string
	PageNumber int
}

// ExtractOptions mirrors the recognized fields from the PDF engine's
// structured-output mode. For the chunking core, positions and fonts are
// disabled; this package's backend (ledongthuc/pdf's plain-text API)
// does not expose glyph position or font metadata at all, so those two
// fields are accepted for interface compatibility and otherwise ignored.
type ExtractOptions struct {
	ExtractPositions bool
	ExtractFonts     bool
	ExtractColors    bool
	StructuredOutput bool
}

// PageSource is the capability the dispatcher depends on. Production
// code gets one from New; tests substitute a fake to control page
// content and simulate per-page failures without touching the
// filesystem.
type PageSource interface {
	PageCount(path string) (int, error)
	ExtractPage(path string, index int, opts ExtractOptions) (PageText, error)
}

// Extractor is the production PageSource, backed by ledongthuc/pdf.
type Extractor struct{}

// New returns a PDF page extractor.
func New() *Extractor {
	return &Extractor{}
}

// PageCount opens the document just long enough to report its page
// count. It uses pdfcpu's fast page-count path rather than opening the
// full text-extraction reader, since callers frequently need the count
// before committing to a dispatcher run (to size worker batches or
// report progress) and pdfcpu's validation-only open is considerably
// cheaper than extracting text.
func (e *Extractor) PageCount(path string) (int, error) {
	n, err := api.PageCountFile(path)
	if err != nil {
		return 0, fmt.Errorf("extractor: page count: %w", err)
	}
	return n, nil
}

// ExtractPage renders page index (0-based) to plain text. Blocks are
// separated by a blank line and lines within a block by a single
// newline, per ledongthuc/pdf's own paragraph-spacing heuristic in
// GetPlainText — this package does not re-derive block boundaries
// itself.
func (e *Extractor) ExtractPage(path string, index int, opts ExtractOptions) (PageText, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return PageText{}, fmt.Errorf("extractor: open %s: %w", path, err)
	}
	defer f.Close()

	pageNum := index + 1 // ledongthuc/pdf pages are 1-based
	if pageNum < 1 || pageNum > reader.NumPage() {
		return PageText{}, fmt.Errorf("extractor: page %d out of range (document has %d pages)", index, reader.NumPage())
	}

	page := reader.Page(pageNum)
	if page.V.IsNull() {
		return PageText{PageNumber: index}, nil
	}

	text, err := page.GetPlainText(nil)
	if err != nil {
		return PageText{}, fmt.Errorf("extractor: extract page %d: %w", index, err)
	}

	return PageText{
		Text:       strings.TrimRight(text, "\n"),
		PageNumber: index,
	}, nil
}
