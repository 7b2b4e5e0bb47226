// Package preview renders record documents as HTML.
package preview

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"vectoradmin/internal/contextutil"
)

const (
	DefaultCacheSize = 256
	DefaultCacheTTL  = 10 * time.Minute
)

// Renderer converts markdown documents to HTML. Raw HTML in documents
// is dropped. Results are cached per collection, record and content.
type Renderer struct {
	md    goldmark.Markdown
	cache *expirable.LRU[string, string]
}

// NewRenderer creates a Renderer. A size or ttl <= 0 disables the cache.
func NewRenderer(size int, ttl time.Duration) *Renderer {
	r := &Renderer{
		md: goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
	if size > 0 && ttl > 0 {
		r.cache = expirable.NewLRU[string, string](size, nil, ttl)
	}
	return r
}

// Render returns the HTML for document, which belongs to recordID in collectionID.
func (r *Renderer) Render(ctx context.Context, collectionID, recordID, document string) (string, error) {
	key := cacheKey(collectionID, recordID, document)
	if r.cache != nil {
		if cached, ok := r.cache.Get(key); ok {
			contextutil.LoggerFromContext(ctx).DebugContext(ctx, "preview cache hit", "collection", collectionID, "record", recordID)
			return cached, nil
		}
	}

	var buf bytes.Buffer
	if err := r.md.Convert([]byte(document), &buf); err != nil {
		return "", fmt.Errorf("render record %s: %w", recordID, err)
	}
	out := buf.String()
	if r.cache != nil {
		r.cache.Add(key, out)
	}
	return out, nil
}

// Len returns the number of cached previews.
func (r *Renderer) Len() int {
	if r.cache == nil {
		return 0
	}
	return r.cache.Len()
}

func cacheKey(collectionID, recordID, document string) string {
	sum := sha256.Sum256([]byte(document))
	return collectionID + "\x00" + recordID + "\x00" + hex.EncodeToString(sum[:])
}
