// Package gitdir stores documents exactly like fsdir and additionally
// records every effective change as a commit in a git repository
// rooted at the storage directory. History is browsable with plain git
// tooling or through History and ReadAt.
//
// A write whose bytes equal the stored document records nothing.
// A write whose commit fails is reported as a failed write even though
// the document bytes are already in place; retrying the save converges
// (the bytes are unchanged, the recording is retried).
package gitdir

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	be "github.com/LexiestLeszek/jasondb/backend"
	"github.com/LexiestLeszek/jasondb/backend/fsdir"
	"github.com/LexiestLeszek/jasondb/internal/storagekey"
)

// Backend is an fsdir with a commit per effective write.
type Backend struct {
	fs    *fsdir.Backend
	repo  *gogit.Repository
	name  string
	email string

	// Worktree add/commit is not safe across goroutines; per-key store
	// locks do not cover cross-key writes landing together.
	mu sync.Mutex
}

var _ be.Backend = (*Backend)(nil)

// Config sets the author identity recorded on commits.
type Config struct {
	Name  string // default "jasondb"
	Email string // default "jasondb@localhost"
}

// Commit describes one recorded change of a document.
type Commit struct {
	Hash    string
	Message string
	Author  string
	When    time.Time
}

// New opens (initializing if needed) a git repository over the storage
// root. An existing plain fsdir root can be adopted; its current files
// show up in history from their first rewrite on.
func New(root string, cfg Config) (*Backend, error) {
	fs, err := fsdir.New(root)
	if err != nil {
		return nil, err
	}
	repo, err := gogit.PlainOpen(root)
	if errors.Is(err, gogit.ErrRepositoryNotExists) {
		repo, err = gogit.PlainInit(root, false)
	}
	if err != nil {
		return nil, fmt.Errorf("gitdir: failed to open repository: %w", err)
	}

	b := &Backend{fs: fs, repo: repo, name: cfg.Name, email: cfg.Email}
	if b.name == "" {
		b.name = "jasondb"
	}
	if b.email == "" {
		b.email = "jasondb@localhost"
	}
	return b, nil
}

// Root returns the storage root directory.
func (b *Backend) Root() string { return b.fs.Root() }

func (b *Backend) Read(ctx context.Context, key string) ([]byte, bool, error) {
	return b.fs.Read(ctx, key)
}

func (b *Backend) WriteAtomic(ctx context.Context, key string, data []byte) error {
	if err := b.fs.WriteAtomic(ctx, key, data); err != nil {
		return err
	}
	if err := b.record(key); err != nil {
		return fmt.Errorf("gitdir: failed to record %q: %w", key, err)
	}
	return nil
}

func (b *Backend) Close(ctx context.Context) error { return b.fs.Close(ctx) }

func (b *Backend) record(key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	w, err := b.repo.Worktree()
	if err != nil {
		return err
	}
	name := storagekey.FileName(key)
	if _, err := w.Add(name); err != nil {
		return err
	}
	status, err := w.Status()
	if err != nil {
		return err
	}
	// Status lists only files with pending changes. Absent means the
	// rewrite carried identical bytes; nothing to record.
	if _, dirty := status[name]; !dirty {
		return nil
	}

	_, err = w.Commit("save "+key, &gogit.CommitOptions{
		Author: &object.Signature{Name: b.name, Email: b.email, When: time.Now()},
	})
	return err
}

// History returns the recorded changes of key, newest first. limit <= 0
// means all. A key never saved (or a root with no commits yet) yields
// an empty history, not an error.
func (b *Backend) History(_ context.Context, key string, limit int) ([]Commit, error) {
	name := storagekey.FileName(key)
	iter, err := b.repo.Log(&gogit.LogOptions{FileName: &name})
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return nil, nil // no commits at all yet
	}
	if err != nil {
		return nil, fmt.Errorf("gitdir: failed to read log for %q: %w", key, err)
	}
	defer iter.Close()

	var out []Commit
	for limit <= 0 || len(out) < limit {
		c, err := iter.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("gitdir: failed to walk log for %q: %w", key, err)
		}
		out = append(out, Commit{
			Hash:    c.Hash.String(),
			Message: strings.TrimSpace(c.Message),
			Author:  c.Author.Name,
			When:    c.Author.When,
		})
	}
	return out, nil
}

// ReadAt returns the document bytes for key as of revision. revision is
// anything git rev-parse accepts: a full or abbreviated commit hash,
// "HEAD~2", a branch name.
func (b *Backend) ReadAt(_ context.Context, key, revision string) ([]byte, error) {
	h, err := b.repo.ResolveRevision(plumbing.Revision(revision))
	if err != nil {
		return nil, fmt.Errorf("gitdir: failed to resolve revision %q: %w", revision, err)
	}
	c, err := b.repo.CommitObject(*h)
	if err != nil {
		return nil, fmt.Errorf("gitdir: failed to read commit %s: %w", h, err)
	}
	f, err := c.File(storagekey.FileName(key))
	if errors.Is(err, object.ErrFileNotFound) {
		return nil, fmt.Errorf("gitdir: no document %q at revision %q", key, revision)
	}
	if err != nil {
		return nil, fmt.Errorf("gitdir: failed to read %q at %q: %w", key, revision, err)
	}
	s, err := f.Contents()
	if err != nil {
		return nil, fmt.Errorf("gitdir: failed to read %q at %q: %w", key, revision, err)
	}
	return []byte(s), nil
}
