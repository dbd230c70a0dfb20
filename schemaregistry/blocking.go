package schemaregistry

import (
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto"
)

// BlockingClient wraps an async Client and additionally caches errors,
// so that a caller integrating against a flaky registry does not hammer
// it between explicit retries. This is the behavior the Rust source's
// blocking Protobuf decoder exhibits (§9 design note) — the async Client
// above deliberately does NOT cache errors; replica racing substitutes
// for retry there instead.
//
// Error entries expire on their own after errTTL, and RemoveErrorsFromCache
// provides a manual escape hatch matching the source's
// remove_errors_from_cache.
type BlockingClient struct {
	inner    Client
	errCache *ristretto.Cache
	errTTL   time.Duration
}

var _ Client = (*BlockingClient)(nil)

// NewBlockingClient wraps inner with an error cache. errTTL controls how
// long a cached failure is replayed before the next call is allowed to
// hit the registry again; a zero value defaults to 30s.
func NewBlockingClient(inner Client, errTTL time.Duration) (*BlockingClient, error) {
	if errTTL <= 0 {
		errTTL = 30 * time.Second
	}

	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1e4,
		MaxCost:     1 << 20,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("schemaregistry: failed to build error cache: %w", err)
	}

	return &BlockingClient{inner: inner, errCache: cache, errTTL: errTTL}, nil
}

// RemoveErrorsFromCache purges every cached error, forcing the next call
// for any key to reach the registry regardless of errTTL.
func (b *BlockingClient) RemoveErrorsFromCache() {
	b.errCache.Clear()
}

func (b *BlockingClient) GetSchemaByID(ctx context.Context, id uint32) (Schema, error) {
	key := fmt.Sprintf("id:%d", id)
	if v, ok := b.errCache.Get(key); ok {
		return Schema{}, v.(error)
	}

	schema, err := b.inner.GetSchemaByID(ctx, id)
	if err != nil {
		b.errCache.SetWithTTL(key, err, 1, b.errTTL)
	}
	return schema, err
}

func (b *BlockingClient) GetSchemaBySubject(ctx context.Context, subject string, version Version) (Schema, error) {
	key := "subject:" + subject + "@" + version.String()
	if v, ok := b.errCache.Get(key); ok {
		return Schema{}, v.(error)
	}

	schema, err := b.inner.GetSchemaBySubject(ctx, subject, version)
	if err != nil {
		b.errCache.SetWithTTL(key, err, 1, b.errTTL)
	}
	return schema, err
}

func (b *BlockingClient) GetSubjectVersion(ctx context.Context, subject string, version Version) (Subject, error) {
	key := "subjectVersion:" + subject + "@" + version.String()
	if v, ok := b.errCache.Get(key); ok {
		return Subject{}, v.(error)
	}

	sub, err := b.inner.GetSubjectVersion(ctx, subject, version)
	if err != nil {
		b.errCache.SetWithTTL(key, err, 1, b.errTTL)
	}
	return sub, err
}

func (b *BlockingClient) RegisterSchema(ctx context.Context, subject string, unregistered UnregisteredSchema) (uint32, Schema, error) {
	// Registration is a write; never serve a cached error for it, or a
	// caller's retry-after-fixing-the-payload would be silently blocked.
	return b.inner.RegisterSchema(ctx, subject, unregistered)
}

func (b *BlockingClient) IsRegistered(ctx context.Context, subject string, unregistered UnregisteredSchema) (uint32, Schema, error) {
	return b.inner.IsRegistered(ctx, subject, unregistered)
}
