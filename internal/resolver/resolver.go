// Package resolver retrieves the text a directive refers to and slices it into excerpt bodies.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/temirov/snippets/internal/types"
	"github.com/temirov/snippets/internal/utils"
)

// ErrLineOutOfRange reports a line range that extends past the end of the file.
var ErrLineOutOfRange = errors.New("line range outside file")

const (
	plainHeaderLength   = 6
	shebangHeaderLength = 8
)

// copyrightNotice matches the five comment lines of the project license notice
// followed by the newline of the blank line after it.
const copyrightNotice = `#\s+lintrans - The linear transformation visualizer\n` +
	`#\s+Copyright \(C\) (?:2021-)?2022 D\. Dyson \(DoctorDalek1963\)\n` +
	`#?\n` +
	`#\s+This program is licensed under GNU GPLv3, available here:\n` +
	`#\s+<https://www\.gnu\.org/licenses/gpl-3\.0\.html>\n`

// ContentProvider returns the full text of a file as of a revision.
type ContentProvider interface {
	FileText(ctx context.Context, revision string, filePath string) (string, error)
}

// CopyrightHeader recognizes the boilerplate notice at the top of a file.
type CopyrightHeader struct {
	// Plain matches the first six lines joined by newlines.
	Plain *regexp.Regexp
	// WithShebang matches the first eight lines joined by newlines.
	WithShebang *regexp.Regexp
}

// DefaultCopyrightHeader returns the header recognized by default.
func DefaultCopyrightHeader() CopyrightHeader {
	return CopyrightHeader{
		Plain:       regexp.MustCompile(`\A` + copyrightNotice + `\z`),
		WithShebang: regexp.MustCompile(`\A#!/usr/bin/env python\n\n` + copyrightNotice + `\z`),
	}
}

// Length returns how many leading lines form the header, or zero when the file
// does not start with it. The plain form is checked before the shebang form.
func (header CopyrightHeader) Length(lines []string) int {
	if header.Plain != nil && len(lines) >= plainHeaderLength {
		if header.Plain.MatchString(strings.Join(lines[:plainHeaderLength], "\n")) {
			return plainHeaderLength
		}
	}
	if header.WithShebang != nil && len(lines) >= shebangHeaderLength {
		if header.WithShebang.MatchString(strings.Join(lines[:shebangHeaderLength], "\n")) {
			return shebangHeaderLength
		}
	}
	return 0
}

// Resolution is the retrieved file split into lines together with the excerpt bodies.
type Resolution struct {
	Lines  []string
	Bodies []types.ResolvedBody
}

// FirstLine returns the smallest first line across all bodies, or zero when there are none.
func (resolution Resolution) FirstLine() int {
	firstLine := 0
	for _, body := range resolution.Bodies {
		if firstLine == 0 || body.FirstLine < firstLine {
			firstLine = body.FirstLine
		}
	}
	return firstLine
}

// Resolver turns directives into excerpt bodies using a content provider.
type Resolver struct {
	provider ContentProvider
	header   CopyrightHeader
}

// New constructs a Resolver reading from provider.
func New(provider ContentProvider) *Resolver {
	return &Resolver{provider: provider, header: DefaultCopyrightHeader()}
}

// WithCopyrightHeader replaces the header recognized in whole-file mode.
func (resolver *Resolver) WithCopyrightHeader(header CopyrightHeader) *Resolver {
	resolver.header = header
	return resolver
}

// Resolve retrieves the file named by the directive and extracts its bodies.
func (resolver *Resolver) Resolve(ctx context.Context, directive types.Directive, configuration types.Configuration) (Resolution, error) {
	fileText, retrievalError := resolver.provider.FileText(ctx, directive.Revision, directive.FilePath)
	if retrievalError != nil {
		return Resolution{}, retrievalError
	}
	lines := utils.SplitLines(fileText)

	lineRanges := directive.LineRanges
	if len(lineRanges) == 0 {
		firstLine := 1
		if !configuration.KeepCopyrightComment {
			firstLine += resolver.header.Length(lines)
		}
		lineRanges = []types.LineRange{{First: firstLine, Last: len(lines)}}
	}

	bodies, sliceError := SliceBodies(lines, lineRanges)
	if sliceError != nil {
		return Resolution{}, fmt.Errorf("%s: %w", directive.FilePath, sliceError)
	}
	return Resolution{Lines: lines, Bodies: bodies}, nil
}

// SliceBodies extracts one body per range, preserving the order of ranges.
func SliceBodies(lines []string, lineRanges []types.LineRange) ([]types.ResolvedBody, error) {
	bodies := make([]types.ResolvedBody, 0, len(lineRanges))
	for _, lineRange := range lineRanges {
		if lineRange.First < 1 || lineRange.Last > len(lines) || lineRange.First > lineRange.Last+1 {
			return nil, fmt.Errorf("%w: %d-%d of %d lines", ErrLineOutOfRange, lineRange.First, lineRange.Last, len(lines))
		}
		bodies = append(bodies, types.ResolvedBody{
			Text:      strings.Join(lines[lineRange.First-1:lineRange.Last], "\n"),
			FirstLine: lineRange.First,
			LastLine:  lineRange.Last,
		})
	}
	return bodies, nil
}
