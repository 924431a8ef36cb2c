// Package scope reconstructs the enclosing-scope lines shown above an excerpt.
//
// Scopes are chosen purely by indentation: for every indentation level below
// that of the first excerpted line, the nearest line above it that sits at
// that level is taken as the statement opening the level.
package scope

import (
	"github.com/temirov/snippets/internal/types"
	"github.com/temirov/snippets/internal/utils"
)

// IndentUnit is the number of spaces per indentation level.
const IndentUnit = 4

type candidate struct {
	indent     int
	lineNumber int
	text       string
}

// Reconstruct returns the enclosing-scope lines of the excerpt starting at
// firstLine (1-indexed) in ascending line order.
func Reconstruct(lines []string, firstLine int) []types.ScopeLine {
	if firstLine < 1 || firstLine > len(lines) {
		return nil
	}
	baselineIndent := utils.LeadingSpaces(lines[firstLine-1])

	var candidates []candidate
	capturedIndents := make(map[int]bool)
	for lineNumber := firstLine - 1; lineNumber >= 1; lineNumber-- {
		text := lines[lineNumber-1]
		if text == "" {
			continue
		}
		indent := utils.LeadingSpaces(text)
		if indent >= baselineIndent || indent%IndentUnit != 0 {
			continue
		}
		// Nearest line wins for each indentation level.
		if capturedIndents[indent] {
			continue
		}
		capturedIndents[indent] = true
		candidates = append(candidates, candidate{indent: indent, lineNumber: lineNumber, text: text})
	}

	for left, right := 0, len(candidates)-1; left < right; left, right = left+1, right-1 {
		candidates[left], candidates[right] = candidates[right], candidates[left]
	}

	// A leading indented line, such as one inside a module docstring, does not open a scope.
	startIndex := 0
	for startIndex < len(candidates) && candidates[startIndex].indent != 0 {
		startIndex++
	}

	scopeLines := make([]types.ScopeLine, 0, len(candidates)-startIndex)
	for _, selected := range candidates[startIndex:] {
		scopeLines = append(scopeLines, types.ScopeLine{LineNumber: selected.lineNumber, Text: selected.text})
	}
	return scopeLines
}
