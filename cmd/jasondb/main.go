// Package main is the entry point for the jasondb CLI.
//
// jasondb inspects and edits a directory of per-entity JSON documents:
// read or write single documents, list keys, export everything as JSON
// lines, and, for git-backed roots, walk a document's change history.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"golang.org/x/sync/errgroup"

	"github.com/LexiestLeszek/jasondb"
	"github.com/LexiestLeszek/jasondb/backend/gitdir"
	"github.com/LexiestLeszek/jasondb/internal/storagekey"
	slogadapter "github.com/LexiestLeszek/jasondb/log/slog"
)

const usageText = `Usage:
  jasondb [flags] get KEY [REVISION]
  jasondb [flags] set KEY (JSON|-)
  jasondb [flags] keys
  jasondb [flags] export
  jasondb [flags] history KEY [N]

get with a REVISION and history require -git.

Flags:
`

func main() {
	if err := mainImpl(); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "jasondb: %v\n", err)
		os.Exit(1)
	}
}

func mainImpl() error {
	dir := flag.String("dir", "./data", "Storage root directory")
	templatePath := flag.String("template", "", "JSON file with default document values")
	gitBacked := flag.Bool("git", false, "Record every save as a commit in a repository under the storage root")
	pretty := flag.Bool("pretty", true, "Indent stored JSON files")
	logLevel := flag.String("log-level", "warn", "Log level (debug, info, warn, error)")
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usageText)
		flag.PrintDefaults()
	}
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		return errors.New("missing command")
	}

	logger, err := newLogger(*logLevel)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	defaults, err := loadTemplate(*templatePath)
	if err != nil {
		return err
	}

	opts := jasondb.Options{
		Defaults:    defaults,
		PrettyPrint: *pretty,
		Logger:      slogadapter.Logger{L: logger},
	}
	var git *gitdir.Backend
	if *gitBacked {
		git, err = gitdir.New(*dir, gitdir.Config{})
		if err != nil {
			return fmt.Errorf("failed to open git storage: %w", err)
		}
		opts.Backend = git
	} else {
		opts.Dir = *dir
	}

	store, err := jasondb.New(opts)
	if err != nil {
		return err
	}
	defer store.Close(context.Background())

	switch cmd := args[0]; cmd {
	case "get":
		return runGet(ctx, store, git, args[1:])
	case "set":
		return runSet(ctx, store, args[1:])
	case "keys":
		return runKeys(*dir)
	case "export":
		return runExport(ctx, store, *dir)
	case "history":
		return runHistory(ctx, git, args[1:])
	default:
		flag.Usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func newLogger(level string) (*slog.Logger, error) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		return nil, fmt.Errorf("unknown log level: %q", level)
	}
	return slog.New(tint.NewHandler(colorable.NewColorable(os.Stderr), &tint.Options{
		Level:      lvl,
		TimeFormat: "15:04:05.000",
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
	})), nil
}

func loadTemplate(path string) (jasondb.Document, error) {
	if path == "" {
		return jasondb.Document{}, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read template: %w", err)
	}
	var doc jasondb.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("template must be a JSON object: %w", err)
	}
	if doc == nil {
		return nil, errors.New("template must be a JSON object, not null")
	}
	return doc, nil
}

func runGet(ctx context.Context, store jasondb.Store, git *gitdir.Backend, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return errors.New("usage: get KEY [REVISION]")
	}
	if len(args) == 2 {
		if git == nil {
			return errors.New("get at a revision requires -git")
		}
		raw, err := git.ReadAt(ctx, args[0], args[1])
		if err != nil {
			return err
		}
		// Historical bytes are printed as stored, not merged with the
		// current template.
		if _, err := os.Stdout.Write(raw); err != nil {
			return err
		}
		if len(raw) > 0 && raw[len(raw)-1] != '\n' {
			fmt.Println()
		}
		return nil
	}

	doc, err := store.Load(ctx, args[0])
	if err != nil {
		return err
	}
	return printDocument(doc)
}

func printDocument(doc jasondb.Document) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func runSet(ctx context.Context, store jasondb.Store, args []string) error {
	if len(args) != 2 {
		return errors.New("usage: set KEY (JSON|-)")
	}
	raw := []byte(args[1])
	if args[1] == "-" {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		raw = b
	}
	var doc jasondb.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("document must be a JSON object: %w", err)
	}
	if doc == nil {
		return errors.New("document must be a JSON object, not null")
	}
	return store.Save(ctx, args[0], doc)
}

func runKeys(dir string) error {
	keys, err := listKeys(dir)
	if err != nil {
		return err
	}
	for _, key := range keys {
		fmt.Println(key)
	}
	return nil
}

func runExport(ctx context.Context, store jasondb.Store, dir string) error {
	keys, err := listKeys(dir)
	if err != nil {
		return err
	}

	var mu sync.Mutex
	enc := json.NewEncoder(os.Stdout)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for _, key := range keys {
		g.Go(func() error {
			doc, err := store.Load(ctx, key)
			if err != nil {
				return fmt.Errorf("failed to load %q: %w", key, err)
			}
			mu.Lock()
			defer mu.Unlock()
			return enc.Encode(map[string]any{"key": key, "doc": doc})
		})
	}
	return g.Wait()
}

func runHistory(ctx context.Context, git *gitdir.Backend, args []string) error {
	if git == nil {
		return errors.New("history requires -git")
	}
	if len(args) < 1 || len(args) > 2 {
		return errors.New("usage: history KEY [N]")
	}
	limit := 0
	if len(args) == 2 {
		n, err := strconv.Atoi(args[1])
		if err != nil || n < 0 {
			return fmt.Errorf("bad history limit %q", args[1])
		}
		limit = n
	}

	commits, err := git.History(ctx, args[0], limit)
	if err != nil {
		return err
	}
	for _, c := range commits {
		hash := c.Hash
		if len(hash) > 12 {
			hash = hash[:12]
		}
		fmt.Printf("%s  %s  %s\n", hash, c.When.Format(time.RFC3339), c.Message)
	}
	return nil
}

// listKeys enumerates document files under the storage root. The store
// itself has no list operation; the CLI reads the directory directly.
func listKeys(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read storage root: %w", err)
	}
	var keys []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if key, ok := storagekey.Key(e.Name()); ok {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}
