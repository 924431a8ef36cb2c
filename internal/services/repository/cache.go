package repository

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/temirov/snippets/internal/resolver"
)

// CachedProvider memoizes file text per revision and path for the lifetime of one run.
// Failed lookups are not cached.
type CachedProvider struct {
	next  resolver.ContentProvider
	cache *lru.Cache[string, string]
}

// NewCachedProvider wraps next with an LRU cache holding up to size files.
// A non-positive size returns next unchanged.
func NewCachedProvider(next resolver.ContentProvider, size int) (resolver.ContentProvider, error) {
	if size <= 0 {
		return next, nil
	}
	cache, cacheError := lru.New[string, string](size)
	if cacheError != nil {
		return nil, cacheError
	}
	return &CachedProvider{next: next, cache: cache}, nil
}

// FileText returns the cached text or reads it from the wrapped provider.
func (provider *CachedProvider) FileText(ctx context.Context, revision string, filePath string) (string, error) {
	key := revision + ":" + filePath
	if cached, found := provider.cache.Get(key); found {
		return cached, nil
	}
	text, retrievalError := provider.next.FileText(ctx, revision, filePath)
	if retrievalError != nil {
		return "", retrievalError
	}
	provider.cache.Add(key, text)
	return text, nil
}

var _ resolver.ContentProvider = (*CachedProvider)(nil)
var _ resolver.ContentProvider = (*Provider)(nil)
