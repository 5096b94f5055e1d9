package chunker

// groupSemanticUnits implements pass 2: a new unit starts at every
// heading line, and also just before a heading when the immediately
// preceding line is blank (one-line lookahead). Leading blank lines of
// a fresh unit are dropped.
func groupSemanticUnits(lines []AnnotatedLine) []*SemanticUnit {
	var units []*SemanticUnit
	current := newSemanticUnit()

	flush := func() {
		if len(current.Lines) > 0 {
			units = append(units, current)
			current = newSemanticUnit()
		}
	}

	for i, line := range lines {
		shouldBreak := false
		if line.Type == MajorHeading || line.Type == MinorHeading {
			shouldBreak = true
		} else if line.Type == Blank && i+1 < len(lines) {
			next := lines[i+1]
			if next.Type == MajorHeading || next.Type == MinorHeading {
				shouldBreak = true
			}
		}

		if shouldBreak {
			flush()
		}

		if line.Type == Blank && len(current.Lines) == 0 {
			continue
		}
		current.addLine(line)
	}
	flush()

	return units
}
