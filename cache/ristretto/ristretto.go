// Package ristretto adapts dgraph-io/ristretto as a jasondb document
// cache. Documents are held as live values (no serialization), with
// admission and eviction managed by ristretto's cost model.
package ristretto

import (
	"context"
	"errors"
	"time"

	rc "github.com/dgraph-io/ristretto"

	"github.com/LexiestLeszek/jasondb/cache"
)

type Cache struct {
	c   *rc.Cache
	ttl time.Duration
}

var _ cache.Cache = (*Cache)(nil)

type Config struct {
	NumCounters int64
	MaxCost     int64
	BufferItems int64
	Metrics     bool
	// TTL expires entries to bound staleness against out-of-band edits
	// of the storage root. 0 = no expiry.
	TTL time.Duration
}

func New(cfg Config) (*Cache, error) {
	if cfg.NumCounters <= 0 || cfg.MaxCost <= 0 || cfg.BufferItems <= 0 {
		return nil, errors.New("ristretto: invalid config")
	}
	c, err := rc.NewCache(&rc.Config{
		NumCounters: cfg.NumCounters,
		MaxCost:     cfg.MaxCost,
		BufferItems: cfg.BufferItems,
		Metrics:     cfg.Metrics,
	})
	if err != nil {
		return nil, err
	}
	return &Cache{c: c, ttl: cfg.TTL}, nil
}

func (p *Cache) Get(_ context.Context, key string) (cache.Document, bool, error) {
	v, ok := p.c.Get(key)
	if !ok {
		return nil, false, nil
	}
	doc, _ := v.(cache.Document)
	if doc == nil {
		// self-heal: drop unexpected entry shape
		p.c.Del(key)
		return nil, false, nil
	}
	return doc, true, nil
}

// Set stores doc at cost 1 per document. When admission rejects the
// write, the key is deleted so no older document lingers.
func (p *Cache) Set(_ context.Context, key string, doc cache.Document) error {
	if !p.c.SetWithTTL(key, doc, 1, p.ttl) {
		p.c.Del(key)
	}
	return nil
}

func (p *Cache) Del(_ context.Context, key string) error {
	p.c.Del(key)
	return nil
}

func (p *Cache) Close(_ context.Context) error {
	p.c.Wait()
	p.c.Close()
	return nil
}

// Metrics exposes ristretto's own metrics when enabled in Config.
func (p *Cache) Metrics() *rc.Metrics { return p.c.Metrics }
