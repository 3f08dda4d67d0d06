// Package redis adapts a Redis client as a jasondb document cache,
// serialized through a codec. Useful when several processes read the
// same replicated storage root and should share cache warmth; the
// cache stays advisory either way.
package redis

import (
	"context"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/LexiestLeszek/jasondb/cache"
	"github.com/LexiestLeszek/jasondb/codec"
)

var ErrNilClient = errors.New("redis cache: nil client")

type Cache struct {
	rdb         goredis.UniversalClient
	codec       codec.Codec
	ns          string
	ttl         time.Duration
	closeClient bool
}

var _ cache.Cache = (*Cache)(nil)

type Config struct {
	Client goredis.UniversalClient
	// Codec serializes documents into Redis. Required.
	Codec codec.Codec
	// Namespace prefixes every cache key. Keep it distinct from any
	// backend/redis namespace sharing the same server.
	Namespace string
	// TTL bounds entry lifetime; 0 = no expiry.
	TTL time.Duration
	// CloseClient: set true only if this cache exclusively owns the client.
	CloseClient bool
}

func New(cfg Config) (*Cache, error) {
	if cfg.Client == nil {
		return nil, ErrNilClient
	}
	if cfg.Codec == nil {
		return nil, errors.New("redis cache: codec is required")
	}
	return &Cache{
		rdb:         cfg.Client,
		codec:       cfg.Codec,
		ns:          cfg.Namespace,
		ttl:         cfg.TTL,
		closeClient: cfg.CloseClient,
	}, nil
}

func (p *Cache) storageKey(key string) string {
	if p.ns == "" {
		return key
	}
	return p.ns + ":" + key
}

func (p *Cache) Get(ctx context.Context, key string) (cache.Document, bool, error) {
	b, err := p.rdb.Get(ctx, p.storageKey(key)).Bytes()
	if err == goredis.Nil {
		return nil, false, nil // miss
	}
	if err != nil {
		return nil, false, err // transport/server error
	}
	doc, err := p.codec.Decode(b)
	if err != nil {
		// self-heal: the entry no longer decodes, drop it
		_ = p.rdb.Del(ctx, p.storageKey(key)).Err()
		return nil, false, nil
	}
	return doc, true, nil
}

func (p *Cache) Set(ctx context.Context, key string, doc cache.Document) error {
	b, err := p.codec.Encode(doc)
	if err != nil {
		_ = p.rdb.Del(ctx, p.storageKey(key)).Err()
		return err
	}
	return p.rdb.Set(ctx, p.storageKey(key), b, p.ttl).Err()
}

func (p *Cache) Del(ctx context.Context, key string) error {
	return p.rdb.Del(ctx, p.storageKey(key)).Err()
}

// Close releases the underlying redis client only when this cache owns it.
// Safe to call multiple times; repeated calls become no-ops.
func (p *Cache) Close(context.Context) error {
	if p.closeClient {
		if err := p.rdb.Close(); err != nil && !errors.Is(err, goredis.ErrClosed) {
			return err
		}
	}
	return nil
}
