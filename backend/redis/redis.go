// Package redis persists documents in Redis, one value per key. A
// Redis SET replaces the whole value in one step, which is exactly the
// atomic-replacement contract; durability follows the server's
// persistence configuration.
package redis

import (
	"context"
	"errors"

	goredis "github.com/redis/go-redis/v9"

	be "github.com/LexiestLeszek/jasondb/backend"
)

var ErrNilClient = errors.New("redis backend: nil client")

// Backend stores document bytes under "<namespace>:<key>".
type Backend struct {
	rdb         goredis.UniversalClient
	ns          string
	closeClient bool
}

var _ be.Backend = (*Backend)(nil)

type Config struct {
	Client goredis.UniversalClient
	// Namespace prefixes every key so several stores can share one
	// Redis. Empty means no prefix.
	Namespace string
	// CloseClient: set true only if this backend exclusively owns the
	// client.
	CloseClient bool
}

func New(cfg Config) (*Backend, error) {
	if cfg.Client == nil {
		return nil, ErrNilClient
	}
	return &Backend{rdb: cfg.Client, ns: cfg.Namespace, closeClient: cfg.CloseClient}, nil
}

func (b *Backend) storageKey(key string) string {
	if b.ns == "" {
		return key
	}
	return b.ns + ":" + key
}

func (b *Backend) Read(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := b.rdb.Get(ctx, b.storageKey(key)).Bytes()
	if err == goredis.Nil {
		return nil, false, nil // miss
	}
	if err != nil {
		return nil, false, err // transport/server error
	}
	return data, true, nil
}

func (b *Backend) WriteAtomic(ctx context.Context, key string, data []byte) error {
	// No TTL: documents live until overwritten, like files in a root.
	return b.rdb.Set(ctx, b.storageKey(key), data, 0).Err()
}

// Close releases the underlying redis client only when this backend owns it.
// Safe to call multiple times; repeated calls become no-ops.
func (b *Backend) Close(context.Context) error {
	if b.closeClient {
		if err := b.rdb.Close(); err != nil && !errors.Is(err, goredis.ErrClosed) {
			return err
		}
	}
	return nil
}
