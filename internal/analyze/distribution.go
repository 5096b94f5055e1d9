// Package analyze reports the token-count distribution of a chunking
// run, the quintile/range breakdown the original CLI printed after
// every run and the distillation dropped.
package analyze

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mboros1/fast-pdf-parser/internal/chunker"
)

// Distribution summarizes the token counts of a completed chunking
// run.
type Distribution struct {
	TotalChunks  int
	MinTokens    int
	MaxTokens    int
	AverageTokens float64
	Quintiles    map[int]int // percentile -> token count at that percentile
	RangeCounts  map[string]int
}

var rangeBuckets = []struct {
	label string
	upTo  int
}{
	{"1-50", 50},
	{"51-100", 100},
	{"101-200", 200},
	{"201-300", 300},
	{"301-400", 400},
	{"401-500", 500},
	{"501-512", 512},
}

const overflowBucket = "513+"

// Analyze computes a Distribution over a chunking result's records.
// An empty result yields a zero-value Distribution with TotalChunks
// 0.
func Analyze(chunks []chunker.ChunkRecord) Distribution {
	if len(chunks) == 0 {
		return Distribution{}
	}

	counts := make([]int, len(chunks))
	for i, c := range chunks {
		counts[i] = c.TokenCount
	}
	sort.Ints(counts)

	sum := 0
	for _, c := range counts {
		sum += c
	}

	dist := Distribution{
		TotalChunks:   len(counts),
		MinTokens:     counts[0],
		MaxTokens:     counts[len(counts)-1],
		AverageTokens: float64(sum) / float64(len(counts)),
		Quintiles:     make(map[int]int),
		RangeCounts:   make(map[string]int),
	}

	for p := 20; p <= 80; p += 20 {
		idx := (len(counts) - 1) * p / 100
		dist.Quintiles[p] = counts[idx]
	}

	for _, tokens := range counts {
		dist.RangeCounts[bucketFor(tokens)]++
	}

	return dist
}

func bucketFor(tokens int) string {
	for _, b := range rangeBuckets {
		if tokens <= b.upTo {
			return b.label
		}
	}
	return overflowBucket
}

// Report renders the distribution the way the CLI's non-quiet mode
// prints it.
func Report(d Distribution) string {
	if d.TotalChunks == 0 {
		return "\nNo chunks created\n"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "\n=== Final Chunk Distribution Analysis ===\n")
	fmt.Fprintf(&sb, "Total chunks: %d\n", d.TotalChunks)
	fmt.Fprintf(&sb, "Min tokens: %d\n", d.MinTokens)
	fmt.Fprintf(&sb, "Max tokens: %d\n", d.MaxTokens)
	fmt.Fprintf(&sb, "Average tokens: %d\n", int(d.AverageTokens))

	fmt.Fprintf(&sb, "\nQuintiles:\n")
	for p := 20; p <= 80; p += 20 {
		fmt.Fprintf(&sb, "  %dth percentile: %d tokens\n", p, d.Quintiles[p])
	}

	fmt.Fprintf(&sb, "\nToken range distribution:\n")
	labels := append([]string{}, "1-50", "51-100", "101-200", "201-300", "301-400", "401-500", "501-512", "513+")
	for _, l := range labels {
		if n, ok := d.RangeCounts[l]; ok {
			fmt.Fprintf(&sb, "  %s: %d\n", l, n)
		}
	}

	return sb.String()
}
