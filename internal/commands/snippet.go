package commands

import (
	"context"
	"fmt"

	"github.com/temirov/snippets/internal/directive"
	"github.com/temirov/snippets/internal/options"
	"github.com/temirov/snippets/internal/resolver"
	"github.com/temirov/snippets/internal/scope"
	"github.com/temirov/snippets/internal/types"
)

// DirectiveError identifies the directive whose processing failed.
type DirectiveError struct {
	Revision string
	Path     string
	Err      error
}

func (directiveError *DirectiveError) Error() string {
	return fmt.Sprintf("snippet %s %s: %v", types.ShortenRevision(directiveError.Revision), directiveError.Path, directiveError.Err)
}

func (directiveError *DirectiveError) Unwrap() error {
	return directiveError.Err
}

// SnippetData is a resolved snippet together with diagnostics gathered while resolving it.
type SnippetData struct {
	Snippet types.ResolvedSnippet
	// DiscardedOption is the first unrecognized option token, if the option
	// string fell back to the defaults.
	DiscardedOption string
}

// GetSnippetData runs a directive through option parsing, content resolution and scope reconstruction.
func GetSnippetData(ctx context.Context, contentResolver *resolver.Resolver, parsedDirective types.Directive) (SnippetData, error) {
	wrap := func(err error) error {
		return &DirectiveError{Revision: parsedDirective.Revision, Path: parsedDirective.FilePath, Err: err}
	}

	optionResult, optionError := options.Parse(parsedDirective.RawOptions)
	if optionError != nil {
		return SnippetData{}, wrap(optionError)
	}
	configuration := optionResult.Configuration

	resolution, resolveError := contentResolver.Resolve(ctx, parsedDirective, configuration)
	if resolveError != nil {
		return SnippetData{}, wrap(resolveError)
	}

	var scopeLines []types.ScopeLine
	if !configuration.NoScopes {
		scopeLines = scope.Reconstruct(resolution.Lines, resolution.FirstLine())
	}

	return SnippetData{
		Snippet: types.ResolvedSnippet{
			Revision:      parsedDirective.Revision,
			FilePath:      parsedDirective.FilePath,
			Configuration: configuration,
			Scopes:        scopeLines,
			Bodies:        resolution.Bodies,
		},
		DiscardedOption: optionResult.Discarded,
	}, nil
}

// describedRevisionLength is the number of hex digits, four bytes, of the
// revision shown by DescribeDirective.
const describedRevisionLength = 8

// DescribeDirective returns the one-line description of a directive used in progress output.
func DescribeDirective(parsedDirective types.Directive, configuration types.Configuration) string {
	revision := parsedDirective.Revision
	if len(revision) > describedRevisionLength {
		revision = revision[:describedRevisionLength]
	}
	description := revision + " " + parsedDirective.FilePath
	if len(parsedDirective.LineRanges) > 0 {
		description += ":" + directive.FormatLineSpec(parsedDirective.LineRanges)
	}
	return description + options.Details(configuration)
}
