package chunker

// packInitialChunks implements pass 3: greedily pack semantic units
// into chunks, flushing before a unit would overflow max_tokens. A
// unit that alone exceeds max_tokens is still placed (into its own
// fresh chunk) and left oversized for pass 6 to split.
func packInitialChunks(units []*SemanticUnit, maxTokens int) []*chunk {
	var chunks []*chunk
	current := newChunk()

	flush := func() {
		if !current.isEmpty() {
			chunks = append(chunks, current)
			current = newChunk()
		}
	}

	for _, unit := range units {
		if !current.isEmpty() && current.tokens+unit.TotalTokens > maxTokens {
			flush()
		}

		current.text += unit.text()
		current.tokens += unit.TotalTokens
		for _, l := range unit.Lines {
			current.linePages = append(current.linePages, linePage{text: l.Text, page: l.PageNumber})
		}

		if first := unit.firstPage(); first != -1 {
			if current.startPage == -1 {
				current.startPage = first
			}
			if last := unit.lastPage(); last != -1 {
				current.endPage = last
			}
		}

		if unit.HasMajorHeading {
			current.hasMajorHeading = true
			if unit.MaxHeadingLevel < current.minHeadingLevel {
				current.minHeadingLevel = unit.MaxHeadingLevel
			}
		}
	}
	flush()

	return chunks
}
