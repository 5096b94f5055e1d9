package output

import (
	"testing"

	"github.com/mboros1/fast-pdf-parser/internal/chunker"
)

func TestBuildDoclingOutput_FieldsAndOrder(t *testing.T) {
	result := chunker.ChunkingResult{
		TotalPages:  3,
		TotalChunks: 2,
		Chunks: []chunker.ChunkRecord{
			{Text: "first", TokenCount: 100, StartPage: 0, EndPage: 1, HasMajorHeading: true, MinHeadingLevel: 1},
			{Text: "second", TokenCount: 200, StartPage: 1, EndPage: 2},
		},
	}

	out := BuildDoclingOutput(result, "/tmp/doc.pdf", "doc.pdf")
	if len(out) != 2 {
		t.Fatalf("got %d chunks, want 2", len(out))
	}

	first := out[0]
	if first.Meta.SchemaName != "docling_core.transforms.chunker.DocMeta" {
		t.Errorf("SchemaName = %q", first.Meta.SchemaName)
	}
	if first.Meta.Version != "1.0.0" {
		t.Errorf("Version = %q", first.Meta.Version)
	}
	if first.Meta.ChunkIndex != 0 || out[1].Meta.ChunkIndex != 1 {
		t.Error("expected chunk_index to follow source order")
	}
	if first.Meta.Origin.Mimetype != "application/pdf" {
		t.Errorf("Mimetype = %q", first.Meta.Origin.Mimetype)
	}
	if first.Meta.Origin.Filename != "doc.pdf" {
		t.Errorf("Filename = %q", first.Meta.Origin.Filename)
	}
	if first.Meta.Origin.URI != nil {
		t.Error("expected nil URI")
	}
	if first.Meta.Captions != nil {
		t.Error("expected nil captions")
	}
	if first.Meta.DocItems == nil || len(first.Meta.DocItems) != 0 {
		t.Error("expected empty (non-nil) doc_items")
	}
}

func TestHashPath_Deterministic(t *testing.T) {
	a := hashPath("/tmp/doc.pdf")
	b := hashPath("/tmp/doc.pdf")
	if a != b {
		t.Errorf("hashPath not deterministic: %d vs %d", a, b)
	}
	if hashPath("/tmp/other.pdf") == a {
		t.Error("expected different paths to hash differently")
	}
}

func TestMarshal_ProducesJSONArray(t *testing.T) {
	out := BuildDoclingOutput(chunker.ChunkingResult{
		Chunks: []chunker.ChunkRecord{{Text: "x", TokenCount: 1}},
	}, "doc.pdf", "doc.pdf")

	data, err := Marshal(out)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if len(data) == 0 || data[0] != '[' {
		t.Errorf("expected a JSON array, got %s", data)
	}
}
