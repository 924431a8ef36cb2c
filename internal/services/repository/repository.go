// Package repository reads file contents from historical revisions of a git repository.
package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sync"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/temirov/snippets/internal/types"
	"github.com/temirov/snippets/internal/utils"
)

var (
	// ErrRevisionNotFound reports a revision that does not exist in the repository.
	ErrRevisionNotFound = errors.New("revision not found")
	// ErrPathNotFound reports a path missing from the revision's tree.
	ErrPathNotFound = errors.New("path not found in revision")
	// ErrNotTextBlob reports a path that names a binary blob.
	ErrNotTextBlob = errors.New("not a text blob")
	// ErrInvalidEncoding reports content that is not valid UTF-8 text.
	ErrInvalidEncoding = errors.New("content is not valid UTF-8")
)

var revisionPattern = regexp.MustCompile(`^[0-9a-f]{40}$`)

// RetrievalError describes a failure to read a file at a revision.
type RetrievalError struct {
	Revision string
	Path     string
	Err      error
}

func (retrievalError *RetrievalError) Error() string {
	return fmt.Sprintf("retrieve %s at %s: %v", retrievalError.Path, types.ShortenRevision(retrievalError.Revision), retrievalError.Err)
}

func (retrievalError *RetrievalError) Unwrap() error {
	return retrievalError.Err
}

// Provider reads file text from a go-git repository.
type Provider struct {
	mutex      sync.Mutex
	repository *git.Repository
}

// NewProvider wraps an already opened repository.
func NewProvider(repository *git.Repository) *Provider {
	return &Provider{repository: repository}
}

// Open opens the repository at path, searching parent directories for the .git directory.
func Open(path string) (*Provider, error) {
	repository, openError := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if openError != nil {
		return nil, fmt.Errorf("open repository %s: %w", path, openError)
	}
	return NewProvider(repository), nil
}

// FileText returns the full text of filePath as of revision.
func (provider *Provider) FileText(ctx context.Context, revision string, filePath string) (string, error) {
	if contextError := ctx.Err(); contextError != nil {
		return "", contextError
	}
	fail := func(err error) (string, error) {
		return "", &RetrievalError{Revision: revision, Path: filePath, Err: err}
	}
	if !revisionPattern.MatchString(revision) {
		return fail(fmt.Errorf("%w: malformed identifier %q", ErrRevisionNotFound, revision))
	}

	// Object storage caches are not safe for concurrent readers.
	provider.mutex.Lock()
	defer provider.mutex.Unlock()

	commit, commitError := provider.repository.CommitObject(plumbing.NewHash(revision))
	if commitError != nil {
		if errors.Is(commitError, plumbing.ErrObjectNotFound) {
			return fail(ErrRevisionNotFound)
		}
		return fail(commitError)
	}

	file, fileError := commit.File(filePath)
	if fileError != nil {
		if errors.Is(fileError, object.ErrFileNotFound) || errors.Is(fileError, object.ErrDirectoryNotFound) {
			return fail(ErrPathNotFound)
		}
		return fail(fileError)
	}

	isBinary, binaryError := file.IsBinary()
	if binaryError != nil {
		return fail(binaryError)
	}
	if isBinary {
		return fail(ErrNotTextBlob)
	}

	contents, contentsError := file.Contents()
	if contentsError != nil {
		return fail(contentsError)
	}
	if !utils.IsText([]byte(contents)) {
		return fail(ErrInvalidEncoding)
	}
	return contents, nil
}
