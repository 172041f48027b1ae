package lang

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"sync"

	"github.com/klauspost/readahead"
	"github.com/zeebo/xxh3"
)

// globalCache stores classified lines keyed by the xxh3 hash of their
// source. Entries are immutable once computed; documents built from them
// never share mutable state.
//
//nolint:gochecknoglobals
var globalCache sync.Map

// cacheEntry holds the classification of one source text.
type cacheEntry struct {
	once  sync.Once
	lines []Line
	err   error
}

// ParseReader reads all of r and parses it like [Parse].
func ParseReader(ctx context.Context, r io.Reader, opts ...Option) (*Document, error) {
	// Wrap reader with async read-ahead so reads overlap with buffering.
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).
			With(slog.String("source", "reader"))
	}

	return Parse(ctx, string(data), opts...)
}

// classifyCached returns the classified lines of source, computing them at
// most once per distinct source text.
func classifyCached(ctx context.Context, d *Document, source string) ([]Line, error) {
	hash := xxh3.HashString(source)

	value, hit := globalCache.LoadOrStore(hash, new(cacheEntry))
	entry, _ := value.(*cacheEntry)

	d.logger.TraceContext(ctx, "cache lookup",
		slog.String("source_hash", strconv.FormatUint(hash, 16)),
		slog.Int("source_bytes", len(source)),
		slog.Bool("cache_hit", hit),
	)

	entry.once.Do(func() {
		entry.lines, entry.err = classifyAll(source)
	})

	return entry.lines, entry.err
}

// ClearCache removes all cached classifications.
// This is primarily useful for testing or when memory needs to be reclaimed.
func ClearCache() {
	globalCache.Range(func(key, _ any) bool {
		globalCache.Delete(key)

		return true
	})
}
