package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/temirov/snippets/internal/directive"
	"github.com/temirov/snippets/internal/output"
	"github.com/temirov/snippets/internal/resolver"
	"github.com/temirov/snippets/internal/types"
	"github.com/temirov/snippets/internal/utils"
)

// ErrNoDocuments reports an invocation without target documents.
var ErrNoDocuments = errors.New("please provide document paths as arguments")

// Log messages and fields shared with the render command.
const (
	ProcessingDirectiveMessage = "processing snippet"
	DiscardedOptionsMessage    = "unrecognized option, using defaults"
	LogFieldDirective          = "directive"
	LogFieldToken              = "token"
)

const (
	defaultConcurrency    = 4
	processedFilePerm     = 0o644
	logFieldPath          = "path"
	logFieldOutput        = "output"
	logFieldCount         = "directives"
	processingDocumentMsg = "processing document"
	processedDocumentMsg  = "wrote processed document"
	directiveFailedMsg    = "snippet failed"
)

// DocumentOptions configures document processing.
type DocumentOptions struct {
	Resolver     *resolver.Resolver
	Logger       *zap.Logger
	Concurrency  int
	OutputPrefix string
}

func (documentOptions DocumentOptions) logger() *zap.Logger {
	if documentOptions.Logger == nil {
		return zap.NewNop()
	}
	return documentOptions.Logger
}

type renderedDirective struct {
	block string
	err   error
}

// ProcessDocument replaces every directive in document with its rendered block.
//
// Directives are resolved concurrently. The output is rebuilt from the
// document spans between directive matches, so a directive whose text is a
// prefix of another one only replaces its own occurrences. A failed directive
// is left untouched and does not stop its siblings; the first failure is
// returned alongside the processed text.
func ProcessDocument(ctx context.Context, document string, documentOptions DocumentOptions) (string, error) {
	logger := documentOptions.logger()
	directives := directive.FindAll(document)
	results := make([]renderedDirective, len(directives))

	concurrency := documentOptions.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	var group errgroup.Group
	group.SetLimit(concurrency)
	for directiveIndex := range directives {
		group.Go(func() error {
			results[directiveIndex] = renderDirective(ctx, documentOptions.Resolver, directives[directiveIndex], logger)
			return nil
		})
	}
	_ = group.Wait()

	var firstError error
	var processed strings.Builder
	processed.Grow(len(document))
	copied := 0
	for directiveIndex, parsedDirective := range directives {
		result := results[directiveIndex]
		if result.err != nil {
			logger.Error(directiveFailedMsg, zap.Error(result.err))
			if firstError == nil {
				firstError = result.err
			}
			continue
		}
		processed.WriteString(document[copied:parsedDirective.Offset])
		processed.WriteString(result.block)
		copied = parsedDirective.Offset + len(parsedDirective.Source)
	}
	processed.WriteString(document[copied:])
	if contextError := ctx.Err(); contextError != nil && firstError == nil {
		firstError = contextError
	}
	return processed.String(), firstError
}

func renderDirective(ctx context.Context, contentResolver *resolver.Resolver, parsedDirective types.Directive, logger *zap.Logger) renderedDirective {
	snippetData, snippetError := GetSnippetData(ctx, contentResolver, parsedDirective)
	if snippetError != nil {
		return renderedDirective{err: snippetError}
	}
	logger.Debug(ProcessingDirectiveMessage, zap.String(LogFieldDirective, DescribeDirective(parsedDirective, snippetData.Snippet.Configuration)))
	if snippetData.DiscardedOption != "" {
		logger.Warn(DiscardedOptionsMessage,
			zap.String(LogFieldDirective, parsedDirective.ShortRevision()+" "+parsedDirective.FilePath),
			zap.String(LogFieldToken, snippetData.DiscardedOption),
		)
	}
	return renderedDirective{block: output.RenderLatex(snippetData.Snippet)}
}

// ProcessedPath returns the path a processed document is written to.
func ProcessedPath(documentPath string, prefix string) string {
	if prefix == "" {
		prefix = utils.DefaultOutputPrefix
	}
	return filepath.Join(filepath.Dir(documentPath), prefix+filepath.Base(documentPath))
}

// ProcessFile processes one document and writes the result next to it.
//
// Directive failures are returned after the output has been written. Read and
// write failures are returned immediately.
func ProcessFile(ctx context.Context, documentPath string, documentOptions DocumentOptions) (string, bool, error) {
	logger := documentOptions.logger()
	logger.Info(processingDocumentMsg, zap.String(logFieldPath, documentPath))

	// #nosec G304
	documentBytes, readError := os.ReadFile(documentPath)
	if readError != nil {
		return "", false, fmt.Errorf("read document %s: %w", documentPath, readError)
	}

	processed, directiveError := ProcessDocument(ctx, string(documentBytes), documentOptions)
	outputPath := ProcessedPath(documentPath, documentOptions.OutputPrefix)
	if writeError := os.WriteFile(outputPath, []byte(processed), processedFilePerm); writeError != nil {
		return "", false, fmt.Errorf("write processed document %s: %w", outputPath, writeError)
	}
	logger.Info(processedDocumentMsg,
		zap.String(logFieldOutput, outputPath),
		zap.Int(logFieldCount, len(directive.FindAll(string(documentBytes)))),
	)
	return outputPath, true, directiveError
}

// ProcessFiles processes every document in order.
//
// Directive failures do not stop later documents; the first one is returned at
// the end. Read and write failures abort the run.
func ProcessFiles(ctx context.Context, documentPaths []string, documentOptions DocumentOptions) ([]string, error) {
	if len(documentPaths) == 0 {
		return nil, ErrNoDocuments
	}
	var outputPaths []string
	var firstDirectiveError error
	for _, documentPath := range utils.DeduplicateStrings(documentPaths) {
		outputPath, written, processError := ProcessFile(ctx, documentPath, documentOptions)
		if !written {
			return outputPaths, processError
		}
		outputPaths = append(outputPaths, outputPath)
		if processError != nil && firstDirectiveError == nil {
			firstDirectiveError = processError
		}
	}
	return outputPaths, firstDirectiveError
}
