package analyze

import (
	"testing"

	"github.com/mboros1/fast-pdf-parser/internal/chunker"
)

func TestAnalyze_Empty(t *testing.T) {
	d := Analyze(nil)
	if d.TotalChunks != 0 {
		t.Errorf("expected zero chunks, got %d", d.TotalChunks)
	}
}

func TestAnalyze_Basic(t *testing.T) {
	records := []chunker.ChunkRecord{
		{TokenCount: 40},
		{TokenCount: 150},
		{TokenCount: 512},
		{TokenCount: 700},
	}
	d := Analyze(records)

	if d.TotalChunks != 4 {
		t.Errorf("TotalChunks = %d, want 4", d.TotalChunks)
	}
	if d.MinTokens != 40 || d.MaxTokens != 700 {
		t.Errorf("min/max = %d/%d, want 40/700", d.MinTokens, d.MaxTokens)
	}
	if d.RangeCounts["1-50"] != 1 {
		t.Errorf("bucket 1-50 = %d, want 1", d.RangeCounts["1-50"])
	}
	if d.RangeCounts["513+"] != 1 {
		t.Errorf("bucket 513+ = %d, want 1", d.RangeCounts["513+"])
	}
}

func TestReport_EmptyDistribution(t *testing.T) {
	got := Report(Distribution{})
	if got == "" {
		t.Error("expected a non-empty report even for an empty distribution")
	}
}
