// Package chunker implements the seven-pass hierarchical chunking
// pipeline: line annotation, semantic grouping, greedy packing,
// overlap, hierarchical merge, oversize split, and a final strict
// merge with authoritative re-measurement.
package chunker

import (
	"context"
	"os"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/mboros1/fast-pdf-parser/internal/dispatcher"
	"github.com/mboros1/fast-pdf-parser/internal/extractor"
	"github.com/mboros1/fast-pdf-parser/internal/tokenizer"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Chunker owns a validated ChunkOptions, a tokenizer, and a
// dispatcher built from the given PageSource. One Chunker can process
// many documents; its dispatcher's worker pool is reused across
// ChunkFile calls.
type Chunker struct {
	opts   ChunkOptions
	tok    *tokenizer.Tokenizer
	disp   *dispatcher.Dispatcher
}

// NewChunker validates opts and constructs a Chunker backed by src.
// Invalid options fail fast with InvalidOption, matching spec.md §7.
func NewChunker(opts ChunkOptions, src extractor.PageSource) (*Chunker, error) {
	if err := validate.Struct(opts); err != nil {
		return nil, newError(InvalidOption, "new_chunker", err)
	}

	return &Chunker{
		opts: opts,
		tok:  tokenizer.New(),
		disp: dispatcher.New(src, opts.ThreadCount, dispatcher.DefaultBatchSize),
	}, nil
}

// Close releases the Chunker's worker pool.
func (c *Chunker) Close() {
	c.disp.Close()
}

// Stats returns lifetime counters for every document this Chunker's
// dispatcher has processed (spec.md §9 / FastPdfParser::get_stats).
func (c *Chunker) Stats() dispatcher.Stats {
	return c.disp.Stats()
}

// ChunkFile runs the full pipeline over path, collecting pages via
// the dispatcher (pageLimit <= 0 means no limit, per spec.md §6) and
// returning a ChunkingResult. Extractor open failures are returned
// inside the result rather than as a Go error, matching spec.md §7's
// propagation policy; construction-time and filesystem errors are
// returned directly.
func (c *Chunker) ChunkFile(path string, pageLimit int) (ChunkingResult, error) {
	start := time.Now()

	if _, err := os.Stat(path); err != nil {
		return ChunkingResult{}, newError(InputNotFound, "chunk_file", err)
	}

	var pages []extractor.PageText
	runErr := c.disp.Run(context.Background(), path, pageLimit, extractor.ExtractOptions{}, func(res dispatcher.PageResult) bool {
		if res.Success {
			pages = append(pages, extractor.PageText{Text: res.Text, PageNumber: res.PageNumber})
		} else {
			pages = append(pages, extractor.PageText{Text: "", PageNumber: res.PageNumber})
		}
		return true
	})

	if runErr != nil {
		wrapped := newError(ExtractorError, "chunk_file", runErr)
		return ChunkingResult{Err: wrapped}, nil
	}

	chunks := c.runPipeline(pages)

	records := make([]ChunkRecord, len(chunks))
	for i, ch := range chunks {
		records[i] = ChunkRecord{
			Text:            ch.Text,
			TokenCount:      ch.TokenCount,
			StartPage:       ch.StartPage,
			EndPage:         ch.EndPage,
			HasMajorHeading: ch.HasMajorHeading,
			MinHeadingLevel: ch.MinHeadingLevel,
		}
	}

	return ChunkingResult{
		Chunks:           records,
		TotalPages:       len(pages),
		TotalChunks:      len(records),
		ProcessingTimeMs: float64(time.Since(start).Microseconds()) / 1000.0,
	}, nil
}

// runPipeline executes passes 1 through 7 over already-collected
// pages. Empty input produces empty output.
func (c *Chunker) runPipeline(pages []extractor.PageText) []Chunk {
	lines := annotateLines(pages, c.tok)
	if len(lines) == 0 {
		return nil
	}

	units := groupSemanticUnits(lines)
	chunks := packInitialChunks(units, c.opts.MaxTokens)

	addOverlap(chunks, c.opts.OverlapTokens, c.tok)

	chunks = mergeSmallChunksHierarchically(chunks, c.opts.MinTokens, c.opts.MaxTokens)
	chunks = splitOversizedChunks(chunks, c.opts.MaxTokens, c.tok)
	chunks = finalMergePass(chunks, c.opts.MinTokens, c.opts.MaxTokens)

	return finalizeChunks(chunks, c.tok)
}
