package chunker

import (
	"errors"
	"strings"
	"testing"

	"github.com/mboros1/fast-pdf-parser/internal/extractor"
	"github.com/mboros1/fast-pdf-parser/internal/tokenizer"
)

func testChunker(opts ChunkOptions) *Chunker {
	return &Chunker{opts: opts, tok: tokenizer.New()}
}

func page(text string, num int) extractor.PageText {
	return extractor.PageText{Text: text, PageNumber: num}
}

func repeatParagraph(tok *tokenizer.Tokenizer, target, words int) string {
	word := "lorem "
	var sb strings.Builder
	for tok.Count(sb.String()) < target {
		for i := 0; i < words; i++ {
			sb.WriteString(word)
		}
	}
	return strings.TrimSpace(sb.String())
}

// S1: trivial single page.
func TestScenario_TrivialSinglePage(t *testing.T) {
	c := testChunker(DefaultChunkOptions())
	chunks := c.runPipeline([]extractor.PageText{page("# Title\n\nHello world.", 0)})

	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	got := chunks[0]
	if got.StartPage != 0 || got.EndPage != 0 {
		t.Errorf("start/end page = %d/%d, want 0/0", got.StartPage, got.EndPage)
	}
	if !got.HasMajorHeading {
		t.Error("expected has_major_heading = true")
	}
	if got.MinHeadingLevel != 1 {
		t.Errorf("min_heading_level = %d, want 1", got.MinHeadingLevel)
	}
	if got.TokenCount <= 0 {
		t.Error("expected positive token count")
	}
}

// S2: undersized merge across two pages.
func TestScenario_UndersizedMerge(t *testing.T) {
	opts := ChunkOptions{MaxTokens: 512, MinTokens: 150, OverlapTokens: 0, ThreadCount: 1}
	c := testChunker(opts)

	p0 := "This page has a short paragraph of about forty tokens in it for testing purposes today."
	p1 := "This second page also has a short paragraph of about forty tokens for the same test."

	chunks := c.runPipeline([]extractor.PageText{page(p0, 0), page(p1, 1)})

	if len(chunks) != 1 {
		t.Fatalf("expected exactly 1 merged chunk, got %d", len(chunks))
	}
	if chunks[0].StartPage != 0 || chunks[0].EndPage != 1 {
		t.Errorf("start/end page = %d/%d, want 0/1", chunks[0].StartPage, chunks[0].EndPage)
	}
}

// S3: oversize split of a single page of many 100-token paragraphs.
func TestScenario_OversizeSplit(t *testing.T) {
	opts := ChunkOptions{MaxTokens: 512, MinTokens: 150, OverlapTokens: 0, ThreadCount: 1}
	c := testChunker(opts)

	var paragraphs []string
	for i := 0; i < 10; i++ {
		paragraphs = append(paragraphs, repeatParagraph(c.tok, 100, 5))
	}
	text := strings.Join(paragraphs, "\n\n")

	chunks := c.runPipeline([]extractor.PageText{page(text, 0)})

	if len(chunks) < 2 || len(chunks) > 4 {
		t.Fatalf("expected 2-4 chunks, got %d", len(chunks))
	}
	for i, ch := range chunks {
		if ch.TokenCount > opts.MaxTokens {
			t.Errorf("chunk %d token_count = %d, exceeds max_tokens %d", i, ch.TokenCount, opts.MaxTokens)
		}
	}
}

// S4: major-heading veto prevents a forward merge.
func TestScenario_MajorHeadingVeto(t *testing.T) {
	opts := ChunkOptions{MaxTokens: 512, MinTokens: 150, OverlapTokens: 0, ThreadCount: 1}
	c := testChunker(opts)

	first := repeatParagraph(c.tok, 80, 5)
	second := repeatParagraph(c.tok, 200, 5)
	text := first + "\n# Next Section\n" + second

	chunks := c.runPipeline([]extractor.PageText{page(text, 0)})

	if len(chunks) < 2 {
		t.Fatalf("expected the heading to prevent a full merge, got %d chunk(s)", len(chunks))
	}
	if !chunks[1].HasMajorHeading {
		t.Error("expected second chunk to carry the major heading")
	}
}

// S6: determinism across repeated runs.
func TestScenario_Deterministic(t *testing.T) {
	c := testChunker(DefaultChunkOptions())
	pages := []extractor.PageText{
		page("# Report\n\nFirst paragraph of the document body.", 0),
		page("Second page continues the body text here.", 1),
	}

	a := c.runPipeline(pages)
	b := c.runPipeline(pages)

	if len(a) != len(b) {
		t.Fatalf("non-deterministic chunk count: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].Text != b[i].Text || a[i].TokenCount != b[i].TokenCount {
			t.Fatalf("non-deterministic chunk %d", i)
		}
	}
}

// Property 3 & 4: ordering and page coverage.
func TestProperty_OrderingAndPageCoverage(t *testing.T) {
	c := testChunker(ChunkOptions{MaxTokens: 300, MinTokens: 80, OverlapTokens: 0, ThreadCount: 1})

	var pages []extractor.PageText
	for i := 0; i < 6; i++ {
		pages = append(pages, page(repeatParagraph(c.tok, 120, 5), i))
	}

	chunks := c.runPipeline(pages)
	if len(chunks) == 0 {
		t.Fatal("expected chunks")
	}

	seenPages := make(map[int]bool)
	for i, ch := range chunks {
		if i > 0 && chunks[i-1].StartPage > ch.StartPage {
			t.Errorf("chunk %d start_page %d < previous start_page %d", i, ch.StartPage, chunks[i-1].StartPage)
		}
		for p := ch.StartPage; p <= ch.EndPage; p++ {
			seenPages[p] = true
		}
	}
	for i := 0; i < len(pages); i++ {
		if !seenPages[i] {
			t.Errorf("page %d missing from chunk coverage", i)
		}
	}
}

// Property 6: reported token_count must equal tokenizer.count(text).
func TestProperty_TokenCountAuthority(t *testing.T) {
	c := testChunker(ChunkOptions{MaxTokens: 300, MinTokens: 80, OverlapTokens: 40, ThreadCount: 1})

	var pages []extractor.PageText
	for i := 0; i < 4; i++ {
		pages = append(pages, page(repeatParagraph(c.tok, 150, 5), i))
	}

	chunks := c.runPipeline(pages)
	for i, ch := range chunks {
		want := c.tok.Count(ch.Text)
		if ch.TokenCount != want {
			t.Errorf("chunk %d reported token_count %d, want %d (tokenizer.count(text))", i, ch.TokenCount, want)
		}
	}
}

// Property 1 & 2: size band and upper-bound robustness.
func TestProperty_SizeBandAndUpperBound(t *testing.T) {
	opts := ChunkOptions{MaxTokens: 400, MinTokens: 100, OverlapTokens: 0, ThreadCount: 1}
	c := testChunker(opts)

	var pages []extractor.PageText
	for i := 0; i < 8; i++ {
		pages = append(pages, page(repeatParagraph(c.tok, 90, 5), i))
	}

	chunks := c.runPipeline(pages)
	for i, ch := range chunks {
		isLastOrSole := i == len(chunks)-1 || len(chunks) == 1
		if ch.TokenCount > opts.MaxTokens {
			t.Errorf("chunk %d token_count %d exceeds max_tokens %d", i, ch.TokenCount, opts.MaxTokens)
		}
		if !isLastOrSole && ch.TokenCount < opts.MinTokens {
			t.Errorf("chunk %d (not last/sole) token_count %d below min_tokens %d", i, ch.TokenCount, opts.MinTokens)
		}
	}
}

func TestChunkFile_EmptyInputYieldsEmptyOutput(t *testing.T) {
	c := testChunker(DefaultChunkOptions())
	chunks := c.runPipeline(nil)
	if len(chunks) != 0 {
		t.Errorf("expected no chunks for empty input, got %d", len(chunks))
	}
}

func TestNewChunker_InvalidOptionsRejected(t *testing.T) {
	_, err := NewChunker(ChunkOptions{MaxTokens: 100, MinTokens: 200}, nil)
	if err == nil {
		t.Fatal("expected InvalidOption error when min_tokens > max_tokens")
	}
	var chunkerErr *Error
	if !errors.As(err, &chunkerErr) {
		t.Fatalf("expected *chunker.Error, got %T", err)
	}
	if chunkerErr.Kind != InvalidOption {
		t.Errorf("Kind = %v, want InvalidOption", chunkerErr.Kind)
	}
}
