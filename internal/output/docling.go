// Package output serializes a ChunkingResult into the docling-core
// compatible JSON schema and writes it to a local path or, optionally,
// to object storage.
package output

import (
	"hash/fnv"

	"github.com/bytedance/sonic"

	"github.com/mboros1/fast-pdf-parser/internal/chunker"
)

// Origin mirrors docling_core's DocumentOrigin record for a PDF
// source.
type Origin struct {
	Mimetype   string `json:"mimetype"`
	BinaryHash int64  `json:"binary_hash"`
	Filename   string `json:"filename"`
	URI        *string `json:"uri"`
}

// DocMeta is the per-chunk metadata block, matching
// schema_name="docling_core.transforms.chunker.DocMeta" exactly.
type DocMeta struct {
	SchemaName      string      `json:"schema_name"`
	Version         string      `json:"version"`
	StartPage       int         `json:"start_page"`
	EndPage         int         `json:"end_page"`
	PageCount       int         `json:"page_count"`
	ChunkIndex      int         `json:"chunk_index"`
	TotalChunks     int         `json:"total_chunks"`
	TokenCount      int         `json:"token_count"`
	HasMajorHeading bool        `json:"has_major_heading"`
	MinHeadingLevel int         `json:"min_heading_level"`
	Origin          Origin      `json:"origin"`
	DocItems        []any       `json:"doc_items"`
	Headings        []string    `json:"headings"`
	Captions        *string     `json:"captions"`
}

// DoclingChunk is one element of the top-level output array.
type DoclingChunk struct {
	Text string  `json:"text"`
	Meta DocMeta `json:"meta"`
}

const (
	schemaName    = "docling_core.transforms.chunker.DocMeta"
	schemaVersion = "1.0.0"
	pdfMimetype   = "application/pdf"
)

// hashPath produces an implementation-defined but stable int64 hash of
// the source path, used as binary_hash (spec.md §6: "a simple hash of
// the file path suffices for compatibility").
func hashPath(path string) int64 {
	h := fnv.New64a()
	h.Write([]byte(path))
	return int64(h.Sum64())
}

// BuildDoclingOutput converts a ChunkingResult into the docling-schema
// array, one element per chunk, in source order.
func BuildDoclingOutput(result chunker.ChunkingResult, sourcePath, filename string) []DoclingChunk {
	hash := hashPath(sourcePath)
	out := make([]DoclingChunk, len(result.Chunks))

	for i, c := range result.Chunks {
		out[i] = DoclingChunk{
			Text: c.Text,
			Meta: DocMeta{
				SchemaName:      schemaName,
				Version:         schemaVersion,
				StartPage:       c.StartPage,
				EndPage:         c.EndPage,
				PageCount:       result.TotalPages,
				ChunkIndex:      i,
				TotalChunks:     result.TotalChunks,
				TokenCount:      c.TokenCount,
				HasMajorHeading: c.HasMajorHeading,
				MinHeadingLevel: c.MinHeadingLevel,
				Origin: Origin{
					Mimetype:   pdfMimetype,
					BinaryHash: hash,
					Filename:   filename,
					URI:        nil,
				},
				DocItems: []any{},
				Headings: []string{},
				Captions: nil,
			},
		}
	}
	return out
}

// Marshal encodes the docling output array with sonic, the fast JSON
// codec used elsewhere in the pack for high-throughput serialization.
func Marshal(chunks []DoclingChunk) ([]byte, error) {
	return sonic.Marshal(chunks)
}
