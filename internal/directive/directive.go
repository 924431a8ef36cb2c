// Package directive finds and parses snippet directives embedded in TeX documents.
//
// A directive is two TeX comment lines with a ':' after the '%':
//
//	%: 29ec1fedbf307e3b7ca731c4a381535fec899b0b
//	%: src/lintrans/matrices/wrapper.py:11-22,30 noscopes
//
// The first line names the revision, the second the file path, an optional
// comma-separated line specification and an optional option string.
package directive

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/temirov/snippets/internal/types"
)

const (
	// Marker starts both lines of a directive.
	Marker = "%: "

	lineSpecSeparator  = ","
	lineRangeSeparator = "-"
)

var (
	directivePattern = regexp.MustCompile(`(?m)^%: ([0-9a-f]{40})\n%: ([^\s:]+)(?::((?:(?:\d+-\d+|\d+),?)+))?([^\n]*)$`)
	lineRangePattern = regexp.MustCompile(`^(\d+)(?:-(\d+))?$`)
)

const (
	revisionGroup = 1 + iota
	pathGroup
	lineSpecGroup
	optionsGroup
)

// Parse converts a directive header into a Directive.
//
// The boolean result is false when the text does not match the directive grammar.
func Parse(text string) (types.Directive, bool) {
	match := directivePattern.FindStringSubmatchIndex(text)
	if match == nil || match[0] != 0 || match[1] != len(text) {
		return types.Directive{}, false
	}
	return fromMatch(text, match)
}

// FindAll returns every well-formed directive in document order. Each
// directive records where its Source starts in document.
func FindAll(document string) []types.Directive {
	var directives []types.Directive
	for _, match := range directivePattern.FindAllStringSubmatchIndex(document, -1) {
		parsedDirective, ok := fromMatch(document, match)
		if !ok {
			continue
		}
		directives = append(directives, parsedDirective)
	}
	return directives
}

func fromMatch(text string, match []int) (types.Directive, bool) {
	group := func(index int) string {
		start, end := match[2*index], match[2*index+1]
		if start < 0 {
			return ""
		}
		return text[start:end]
	}

	parsedDirective := types.Directive{
		Source:     text[match[0]:match[1]],
		Offset:     match[0],
		Revision:   group(revisionGroup),
		FilePath:   group(pathGroup),
		RawOptions: group(optionsGroup),
	}
	if lineSpec := group(lineSpecGroup); lineSpec != "" {
		lineRanges, ok := ParseLineSpec(lineSpec)
		if !ok {
			return types.Directive{}, false
		}
		parsedDirective.LineRanges = lineRanges
	}
	return parsedDirective, true
}

// ParseLineSpec parses a comma-separated list of line numbers and inclusive ranges.
//
// Ranges are returned in the order written. A trailing comma is tolerated.
// Zero line numbers and reversed ranges are rejected.
func ParseLineSpec(lineSpec string) ([]types.LineRange, bool) {
	var lineRanges []types.LineRange
	for _, element := range strings.Split(lineSpec, lineSpecSeparator) {
		if element == "" {
			continue
		}
		elementMatch := lineRangePattern.FindStringSubmatch(element)
		if elementMatch == nil {
			return nil, false
		}
		first, firstError := strconv.Atoi(elementMatch[1])
		if firstError != nil {
			return nil, false
		}
		last := first
		if elementMatch[2] != "" {
			parsedLast, lastError := strconv.Atoi(elementMatch[2])
			if lastError != nil {
				return nil, false
			}
			last = parsedLast
		}
		if first < 1 || last < first {
			return nil, false
		}
		lineRanges = append(lineRanges, types.LineRange{First: first, Last: last})
	}
	if len(lineRanges) == 0 {
		return nil, false
	}
	return lineRanges, true
}

// FormatLineSpec renders line ranges back into line-spec form.
func FormatLineSpec(lineRanges []types.LineRange) string {
	elements := make([]string, 0, len(lineRanges))
	for _, lineRange := range lineRanges {
		if lineRange.First == lineRange.Last {
			elements = append(elements, strconv.Itoa(lineRange.First))
			continue
		}
		elements = append(elements, strconv.Itoa(lineRange.First)+lineRangeSeparator+strconv.Itoa(lineRange.Last))
	}
	return strings.Join(elements, lineSpecSeparator)
}

// Compose builds the document text of a directive from its parts.
func Compose(revision string, fileReference string) string {
	return Marker + revision + "\n" + Marker + fileReference
}
