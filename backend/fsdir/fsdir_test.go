package fsdir

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func TestReadMissing(t *testing.T) {
	b, err := New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	data, ok, err := b.Read(context.Background(), "ghost")
	if err != nil {
		t.Fatalf("missing file reported as error: %v", err)
	}
	if ok || data != nil {
		t.Fatalf("Read(ghost) = %q, %v; want nil, false", data, ok)
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	b, err := New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	want := []byte(`{"a": 1}`)
	if err := b.WriteAtomic(ctx, "u1", want); err != nil {
		t.Fatal(err)
	}
	got, ok, err := b.Read(ctx, "u1")
	if err != nil || !ok {
		t.Fatalf("Read = _, %v, %v", ok, err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("Read = %q, want %q", got, want)
	}
}

func TestWriteReplacesWholeFile(t *testing.T) {
	b, err := New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	long := bytes.Repeat([]byte("long"), 256)
	if err := b.WriteAtomic(ctx, "u1", long); err != nil {
		t.Fatal(err)
	}
	if err := b.WriteAtomic(ctx, "u1", []byte("short")); err != nil {
		t.Fatal(err)
	}
	got, _, _ := b.Read(ctx, "u1")
	if string(got) != "short" {
		t.Fatalf("stale bytes after shorter rewrite: %q", got)
	}
}

func TestFileNameLayout(t *testing.T) {
	root := t.TempDir()
	b, err := New(root)
	if err != nil {
		t.Fatal(err)
	}
	if err := b.WriteAtomic(context.Background(), "u1", []byte("{}")); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(root, "u1.json")); err != nil {
		t.Fatalf("expected u1.json under root: %v", err)
	}
}

func TestNewSweepsStaleTemp(t *testing.T) {
	root := t.TempDir()
	stale := filepath.Join(root, "u1.123456.tmp")
	if err := os.WriteFile(stale, []byte("half-written"), 0o600); err != nil {
		t.Fatal(err)
	}
	keep := filepath.Join(root, "u1.json")
	if err := os.WriteFile(keep, []byte("{}"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := New(root); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Fatal("stale temp artifact survived New")
	}
	if _, err := os.Stat(keep); err != nil {
		t.Fatalf("document swept along with temp artifacts: %v", err)
	}
}

func TestFailedWriteKeepsPrior(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}
	root := t.TempDir()
	b, err := New(root)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	if err := b.WriteAtomic(ctx, "u1", []byte("prior")); err != nil {
		t.Fatal(err)
	}
	if err := os.Chmod(root, 0o500); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chmod(root, 0o700) })

	if err := b.WriteAtomic(ctx, "u1", []byte("next")); err == nil {
		t.Fatal("write succeeded in read-only root")
	}
	os.Chmod(root, 0o700)

	got, ok, err := b.Read(ctx, "u1")
	if err != nil || !ok {
		t.Fatalf("Read = _, %v, %v", ok, err)
	}
	if string(got) != "prior" {
		t.Fatalf("prior content lost: %q", got)
	}
}

func TestConcurrentDistinctKeys(t *testing.T) {
	b, err := New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	var wg sync.WaitGroup
	for _, key := range []string{"a", "b", "c", "d"} {
		wg.Add(1)
		go func(key string) {
			defer wg.Done()
			for i := 0; i < 20; i++ {
				if err := b.WriteAtomic(ctx, key, []byte(key)); err != nil {
					t.Error(err)
					return
				}
			}
		}(key)
	}
	wg.Wait()

	for _, key := range []string{"a", "b", "c", "d"} {
		got, ok, err := b.Read(ctx, key)
		if err != nil || !ok || string(got) != key {
			t.Fatalf("Read(%s) = %q, %v, %v", key, got, ok, err)
		}
	}
}
