package keymutex

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestGetReturnsSameHandle(t *testing.T) {
	r := NewRegistry()
	a := r.Get("k")
	b := r.Get("k")
	if a != b {
		t.Fatal("two Gets for one key returned distinct handles")
	}
	if r.Get("other") == a {
		t.Fatal("distinct keys share a handle")
	}
}

func TestConcurrentFirstAccess(t *testing.T) {
	r := NewRegistry()
	const n = 64

	var wg sync.WaitGroup
	handles := make([]*Mutex, n)
	start := make(chan struct{})
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			handles[i] = r.Get("fresh")
		}(i)
	}
	close(start)
	wg.Wait()

	for i := 1; i < n; i++ {
		if handles[i] != handles[0] {
			t.Fatal("concurrent first-accesses created distinct handles")
		}
	}
}

func TestLockExcludes(t *testing.T) {
	m := newMutex()
	ctx := context.Background()

	if err := m.Lock(ctx); err != nil {
		t.Fatal(err)
	}

	acquired := make(chan struct{})
	go func() {
		if err := m.Lock(ctx); err != nil {
			t.Error(err)
			return
		}
		close(acquired)
	}()

	select {
	case <-acquired:
		t.Fatal("second Lock succeeded while held")
	case <-time.After(50 * time.Millisecond):
	}

	m.Unlock()
	select {
	case <-acquired:
	case <-time.After(2 * time.Second):
		t.Fatal("waiter never acquired after Unlock")
	}
	m.Unlock()
}

func TestLockHonorsContext(t *testing.T) {
	m := newMutex()
	if err := m.Lock(context.Background()); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- m.Lock(ctx) }()

	cancel()
	select {
	case err := <-errc:
		if err != context.Canceled {
			t.Fatalf("Lock returned %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("cancelled waiter did not return")
	}

	// The holder is unaffected and the key is not wedged.
	m.Unlock()
	if err := m.Lock(context.Background()); err != nil {
		t.Fatal(err)
	}
	m.Unlock()
}

func TestDistinctKeysDoNotBlock(t *testing.T) {
	r := NewRegistry()
	ctx := context.Background()

	if err := r.Get("a").Lock(ctx); err != nil {
		t.Fatal(err)
	}
	defer r.Get("a").Unlock()

	done := make(chan struct{})
	go func() {
		b := r.Get("b")
		if err := b.Lock(ctx); err != nil {
			t.Error(err)
			return
		}
		b.Unlock()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("lock on key b blocked behind key a")
	}
}

func TestUnlockUnlockedPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("Unlock of unlocked mutex did not panic")
		}
	}()
	newMutex().Unlock()
}
