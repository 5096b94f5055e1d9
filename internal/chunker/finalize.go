package chunker

import "github.com/mboros1/fast-pdf-parser/internal/tokenizer"

// finalMergePass implements pass 7: a strict merge, forward then
// backward, with no slack allowed, followed once by the chunker's own
// re-measurement of every chunk's authoritative token count.
func finalMergePass(chunks []*chunk, minTokens, maxTokens int) []*chunk {
	if len(chunks) == 0 {
		return chunks
	}

	var final []*chunk
	i := 0
	for i < len(chunks) {
		current := chunks[i]

		for current.tokens < minTokens && i+1 < len(chunks) {
			next := chunks[i+1]
			combined := current.tokens + next.tokens
			if combined > maxTokens {
				break
			}
			mergeInto(current, next)
			i++
		}

		if current.tokens < minTokens && len(final) > 0 {
			prev := final[len(final)-1]
			combined := prev.tokens + current.tokens
			if combined <= maxTokens {
				mergeInto(prev, current)
				i++
				continue
			}
		}

		final = append(final, current)
		i++
	}

	return final
}

// finalizeChunks re-measures every chunk's token count against the
// tokenizer, over its final text including any overlap prefix — the
// value callers receive as authoritative (spec.md §8 property 6).
func finalizeChunks(chunks []*chunk, tok *tokenizer.Tokenizer) []Chunk {
	result := make([]Chunk, 0, len(chunks))
	for _, c := range chunks {
		text := withOverlap(c)
		result = append(result, Chunk{
			Text:            text,
			TokenCount:      tok.Count(text),
			StartPage:       c.startPage,
			EndPage:         c.endPage,
			HasMajorHeading: c.hasMajorHeading,
			MinHeadingLevel: c.minHeadingLevel,
			OverlapText:     c.overlapText,
			OverlapTokens:   c.overlapTokens,
		})
	}
	return result
}
