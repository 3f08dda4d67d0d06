package jasondb

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/LexiestLeszek/jasondb/internal/storagekey"
)

// rooted is satisfied by backends that keep documents as files under a
// local directory (fsdir, gitdir).
type rooted interface{ Root() string }

func (s *store) startWatch() error {
	rb, ok := s.backend.(rooted)
	if !ok {
		return fmt.Errorf("jasondb: WatchFS requires a directory-backed store")
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("jasondb: failed to start watcher: %w", err)
	}
	if err := w.Add(rb.Root()); err != nil {
		w.Close()
		return fmt.Errorf("jasondb: failed to watch %q: %w", rb.Root(), err)
	}

	s.watcher = w
	s.watchWg.Add(1)
	go s.watchLoop(w)
	return nil
}

func (s *store) stopWatch() {
	if s.watcher == nil {
		return
	}
	s.watcher.Close()
	s.watchWg.Wait()
	s.watcher = nil
}

func (s *store) watchLoop(w *fsnotify.Watcher) {
	defer s.watchWg.Done()
	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			s.handleFileEvent(ev)
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			s.log.Warn("watcher error", Fields{"err": err.Error()})
		}
	}
}

// handleFileEvent drops the cache entry of an externally touched
// document. Events from the store's own saves land here too; dropping
// a just-written entry only costs the next Load one backend read.
func (s *store) handleFileEvent(ev fsnotify.Event) {
	if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}
	key, ok := storagekey.Key(filepath.Base(ev.Name))
	if !ok {
		return // temp artifact, dotfile or foreign file
	}
	s.log.Debug("file changed on disk", Fields{"key": key, "op": ev.Op.String()})
	s.cacheDrop(context.Background(), key, "watch")
}
