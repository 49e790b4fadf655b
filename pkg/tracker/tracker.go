// Package tracker records which string keys have already been processed,
// across runs, in a line-oriented file: one raw key per line.
//
// The whole file is loaded at Open. Add appends one line under an
// exclusive file lock; other processes may read the file at any time
// under a shared lock.
package tracker

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rileyhilliard/cmdtree/internal/errors"
	"github.com/rileyhilliard/cmdtree/internal/lock"
	"golang.org/x/text/cases"
)

// lockTimeout bounds how long Open and Add wait for the file lock.
const lockTimeout = 5 * time.Second

// Tracker is an open tracking file. It is safe for concurrent use.
type Tracker struct {
	mu            sync.Mutex
	path          string
	file          *os.File
	caseSensitive bool
	fold          cases.Caser
	seen          map[string]struct{}
	items         []string
}

// Open loads path, creating it and its directory if needed, and keeps it
// open for appending. Case-insensitive trackers compare keys by Unicode
// case folding but store them as given.
func Open(ctx context.Context, path string, caseSensitive bool) (*Tracker, error) {
	if path == "" {
		return nil, errors.New(errors.ErrTracker,
			"Tracker file path is empty",
			"Set tracker.file in .cmdtree.yaml or pass --file")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrTracker,
			fmt.Sprintf("Cannot create directory for %s", path),
			"Check the directory's permissions")
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0o644)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrTracker,
			fmt.Sprintf("Cannot open tracker file %s", path),
			"Check the file's permissions")
	}

	t := &Tracker{
		path:          path,
		file:          f,
		caseSensitive: caseSensitive,
		fold:          cases.Fold(),
		seen:          make(map[string]struct{}),
	}
	if err := t.load(ctx); err != nil {
		f.Close()
		return nil, err
	}
	return t, nil
}

func (t *Tracker) load(ctx context.Context) error {
	l, err := lock.Acquire(ctx, t.file, lock.Shared, lockTimeout)
	if err != nil {
		return err
	}
	defer l.Release()

	if _, err := t.file.Seek(0, io.SeekStart); err != nil {
		return errors.WrapWithCode(err, errors.ErrTracker,
			fmt.Sprintf("Cannot read tracker file %s", t.path), "")
	}
	scanner := bufio.NewScanner(t.file)
	for scanner.Scan() {
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if line == "" {
			continue
		}
		t.remember(line)
	}
	if err := scanner.Err(); err != nil {
		return errors.WrapWithCode(err, errors.ErrTracker,
			fmt.Sprintf("Cannot read tracker file %s", t.path),
			"Lines longer than 64KiB are not supported")
	}
	return nil
}

func (t *Tracker) normalize(item string) string {
	if t.caseSensitive {
		return item
	}
	return t.fold.String(item)
}

// remember adds item to the in-memory set. Callers hold t.mu or own t.
func (t *Tracker) remember(item string) bool {
	key := t.normalize(item)
	if _, ok := t.seen[key]; ok {
		return false
	}
	t.seen[key] = struct{}{}
	t.items = append(t.items, item)
	return true
}

// Path returns the tracker file's path.
func (t *Tracker) Path() string {
	return t.path
}

// CaseSensitive reports how keys are compared.
func (t *Tracker) CaseSensitive() bool {
	return t.caseSensitive
}

// IsNew reports whether item has not been recorded yet.
func (t *Tracker) IsNew(item string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.seen[t.normalize(item)]
	return !ok
}

// Add records item. It returns false without touching the file when the
// item is already known.
func (t *Tracker) Add(ctx context.Context, item string) (bool, error) {
	if item == "" || strings.ContainsAny(item, "\r\n") {
		return false, errors.New(errors.ErrTracker,
			fmt.Sprintf("Cannot track %q", item),
			"Tracked keys must be non-empty and fit on one line")
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.file == nil {
		return false, errors.New(errors.ErrTracker,
			fmt.Sprintf("Tracker %s is closed", t.path), "")
	}
	if _, ok := t.seen[t.normalize(item)]; ok {
		return false, nil
	}

	l, err := lock.Acquire(ctx, t.file, lock.Exclusive, lockTimeout)
	if err != nil {
		return false, err
	}
	defer l.Release()

	if _, err := io.WriteString(t.file, item+"\n"); err != nil {
		return false, errors.WrapWithCode(err, errors.ErrTracker,
			fmt.Sprintf("Cannot append to tracker file %s", t.path),
			"Check free disk space")
	}
	t.remember(item)
	return true, nil
}

// Items returns the recorded keys in the order they were first seen.
func (t *Tracker) Items() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, len(t.items))
	copy(out, t.items)
	return out
}

// Len returns the number of recorded keys.
func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.items)
}

// Close releases the file. Closing twice is a no-op.
func (t *Tracker) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.file == nil {
		return nil
	}
	err := t.file.Close()
	t.file = nil
	return err
}
