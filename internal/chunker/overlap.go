package chunker

import (
	"strings"

	"github.com/mboros1/fast-pdf-parser/internal/tokenizer"
)

const (
	overlapMarker    = "[...continued from previous chunk...]\n\n"
	overlapBytesPerToken = 4
	overlapTrimStep      = 10
)

// addOverlap implements pass 4: prepend a marked suffix of each
// chunk's predecessor. The suffix starts at a word boundary unless it
// is still over overlapTokens and has to be trimmed from the front in
// overlapTrimStep-byte steps, which can cut into a word. Overlap text does not affect
// start_page/end_page and is measured against the tokenizer
// authoritatively, independent of max_tokens enforcement elsewhere in
// the pipeline.
func addOverlap(chunks []*chunk, overlapTokens int, tok *tokenizer.Tokenizer) {
	if overlapTokens <= 0 {
		return
	}

	for i := 1; i < len(chunks); i++ {
		prevText := chunks[i-1].text

		maxBytes := overlapTokens * overlapBytesPerToken
		if maxBytes > len(prevText) {
			maxBytes = len(prevText)
		}
		start := len(prevText) - maxBytes
		start = extendLeftToSpace(prevText, start)
		suffix := prevText[start:]

		for tok.Count(suffix) > overlapTokens && len(suffix) > overlapTrimStep {
			suffix = suffix[overlapTrimStep:]
		}

		chunks[i].overlapText = overlapMarker + suffix
		chunks[i].overlapTokens = tok.Count(suffix)
	}
}

// extendLeftToSpace walks start backward until it lands just after a
// space (or hits the beginning of text), so the selected suffix never
// begins mid-word.
func extendLeftToSpace(text string, start int) int {
	if start <= 0 || start >= len(text) {
		if start < 0 {
			return 0
		}
		return start
	}
	for start > 0 && text[start-1] != ' ' && text[start-1] != '\n' {
		start--
	}
	return start
}

// withOverlap returns the text that should be measured/reported for a
// finalized chunk: the overlap marker and suffix (if any), followed by
// the chunk's own text.
func withOverlap(c *chunk) string {
	if c.overlapText == "" {
		return c.text
	}
	var sb strings.Builder
	sb.WriteString(c.overlapText)
	sb.WriteString("\n")
	sb.WriteString(c.text)
	return sb.String()
}
