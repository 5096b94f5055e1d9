package chunker

import (
	"regexp"
	"strings"

	"github.com/mboros1/fast-pdf-parser/internal/extractor"
	"github.com/mboros1/fast-pdf-parser/internal/tokenizer"
)

var (
	headingPattern     = regexp.MustCompile(`^(#+)\s+.+`)
	listPattern        = regexp.MustCompile(`^\s*[-*+•]\s+`)
	orderedListPattern = regexp.MustCompile(`^\s*\d+\.\s+`)
	// numberedHeadingPattern and allCapsRatio implement the secondary
	// classification spec.md §4.4 Pass 1 calls an acceptable extension,
	// grounded in hierarchical_enhanced.cpp.
	numberedHeadingPattern = regexp.MustCompile(`^\d+(\.\d+)*\s+[A-Z]`)
)

// detectLineType implements spec.md §4.4 Pass 1's classification rules
// in order: blank, markdown heading, secondary heading extensions,
// list item, code block, else normal.
func detectLineType(line string) (LineType, int) {
	if strings.TrimSpace(line) == "" {
		return Blank, 0
	}

	if m := headingPattern.FindStringSubmatch(line); m != nil {
		level := len(m[1])
		if level <= 2 {
			return MajorHeading, level
		}
		return MinorHeading, level
	}

	if numberedHeadingPattern.MatchString(line) {
		return MajorHeading, 2
	}
	if isAllCapsHeading(line) {
		return MajorHeading, 2
	}

	if listPattern.MatchString(line) || orderedListPattern.MatchString(line) {
		return ListItem, 0
	}

	if strings.Contains(line, "```") || strings.HasPrefix(line, "  ") {
		return CodeBlock, 0
	}

	return Normal, 0
}

// isAllCapsHeading flags short, mostly-uppercase lines as headings
// (>70% uppercase among letters, 3-100 characters total).
func isAllCapsHeading(line string) bool {
	trimmed := strings.TrimSpace(line)
	if len(trimmed) < 3 || len(trimmed) > 100 {
		return false
	}
	letters, upper := 0, 0
	for _, r := range trimmed {
		if r >= 'a' && r <= 'z' {
			letters++
		} else if r >= 'A' && r <= 'Z' {
			letters++
			upper++
		}
	}
	if letters == 0 {
		return false
	}
	return float64(upper)/float64(letters) > 0.7
}

// annotateLines runs pass 1 over the dispatcher's collected pages,
// dropping pages with empty text before annotation per spec.md §4.4.
func annotateLines(pages []extractor.PageText, tok *tokenizer.Tokenizer) []AnnotatedLine {
	var lines []AnnotatedLine
	for _, page := range pages {
		if page.Text == "" {
			continue
		}
		for _, raw := range strings.Split(page.Text, "\n") {
			lineType, level := detectLineType(raw)
			lines = append(lines, AnnotatedLine{
				Text:         raw,
				Type:         lineType,
				TokenCount:   tok.Count(raw),
				PageNumber:   page.PageNumber,
				HeadingLevel: level,
			})
		}
	}
	return lines
}
