// Package bigcache adapts allegro/bigcache as a jasondb document
// cache. BigCache stores bytes, so entries pass through a codec; pick
// a cheap one (compact JSON or Msgpack), since every hit decodes.
package bigcache

import (
	"context"
	"errors"
	"time"

	bc "github.com/allegro/bigcache/v3"

	"github.com/LexiestLeszek/jasondb/cache"
	"github.com/LexiestLeszek/jasondb/codec"
)

type Cache struct {
	c     *bc.BigCache
	codec codec.Codec
}

var _ cache.Cache = (*Cache)(nil)

type Config struct {
	// Codec serializes documents into bigcache. Required.
	Codec codec.Codec

	LifeWindow         time.Duration
	CleanWindow        time.Duration
	MaxEntriesInWindow int
	MaxEntrySize       int
	HardMaxCacheSizeMB int // ~ memory limit; 0 = unlimited
}

func New(cfg Config) (*Cache, error) {
	if cfg.Codec == nil {
		return nil, errors.New("bigcache: codec is required")
	}
	conf := bc.DefaultConfig(cfg.LifeWindow)
	if cfg.CleanWindow > 0 {
		conf.CleanWindow = cfg.CleanWindow
	}
	if cfg.MaxEntriesInWindow > 0 {
		conf.MaxEntriesInWindow = cfg.MaxEntriesInWindow
	}
	if cfg.MaxEntrySize > 0 {
		conf.MaxEntrySize = cfg.MaxEntrySize
	}
	if cfg.HardMaxCacheSizeMB > 0 {
		conf.HardMaxCacheSize = cfg.HardMaxCacheSizeMB
	}
	c, err := bc.NewBigCache(conf)
	if err != nil {
		return nil, err
	}
	return &Cache{c: c, codec: cfg.Codec}, nil
}

func (p *Cache) Get(_ context.Context, key string) (cache.Document, bool, error) {
	b, err := p.c.Get(key)
	if err == bc.ErrEntryNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	doc, err := p.codec.Decode(b)
	if err != nil {
		// self-heal: the entry no longer decodes, drop it
		_ = p.c.Delete(key)
		return nil, false, nil
	}
	return doc, true, nil
}

func (p *Cache) Set(_ context.Context, key string, doc cache.Document) error {
	b, err := p.codec.Encode(doc)
	if err != nil {
		// Leave no older entry behind an unencodable update.
		_ = p.c.Delete(key)
		return err
	}
	return p.c.Set(key, b)
}

func (p *Cache) Del(_ context.Context, key string) error {
	err := p.c.Delete(key)
	if err == bc.ErrEntryNotFound {
		return nil
	}
	return err
}

func (p *Cache) Close(_ context.Context) error {
	return p.c.Close()
}
