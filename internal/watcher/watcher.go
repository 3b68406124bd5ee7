// Package watcher reports bursts of file changes below the include paths.
package watcher

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// EventType represents the type of file change
type EventType int

const (
	EventTypeCreated EventType = iota
	EventTypeModified
	EventTypeDeleted
	EventTypeRenamed
)

func (e EventType) String() string {
	switch e {
	case EventTypeCreated:
		return "created"
	case EventTypeModified:
		return "modified"
	case EventTypeDeleted:
		return "deleted"
	case EventTypeRenamed:
		return "renamed"
	default:
		return "unknown"
	}
}

// ChangeEvent represents a file change event
type ChangeEvent struct {
	Type EventType
	Path string
}

// FileFilter reports whether changes of path are of interest.
type FileFilter func(path string) bool

// ChangeHandler receives one debounced burst of changes, sorted by path.
type ChangeHandler func(ctx context.Context, events []ChangeEvent) error

// FileWatcher watches directories and hands debounced changes to its
// handlers.
type FileWatcher struct {
	watcher   *fsnotify.Watcher
	debouncer *Debouncer
	log       *slog.Logger

	mu       sync.RWMutex
	filters  []FileFilter
	handlers []ChangeHandler
	ignored  []string
}

// NewFileWatcher creates a watcher collecting changes for delay before
// handing them on.
func NewFileWatcher(delay time.Duration, logger *slog.Logger) (*FileWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &FileWatcher{
		watcher:   w,
		debouncer: NewDebouncer(delay),
		log:       logger,
		ignored:   []string{".git", "vendor", "node_modules"},
	}, nil
}

func (fw *FileWatcher) AddFilter(filter FileFilter) {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	fw.filters = append(fw.filters, filter)
}

func (fw *FileWatcher) AddHandler(handler ChangeHandler) {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	fw.handlers = append(fw.handlers, handler)
}

// Ignore skips directories with one of the given names.
func (fw *FileWatcher) Ignore(names ...string) {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	fw.ignored = append(fw.ignored, names...)
}

// AddRecursive watches root and all of its subdirectories. A root naming a
// file watches the directory holding it.
func (fw *FileWatcher) AddRecursive(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("watch %s: %w", root, err)
	}
	if !info.IsDir() {
		return fw.watcher.Add(filepath.Dir(filepath.Clean(root)))
	}
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && fw.isIgnored(d.Name()) {
			return filepath.SkipDir
		}
		return fw.watcher.Add(path)
	})
}

func (fw *FileWatcher) isIgnored(name string) bool {
	fw.mu.RLock()
	defer fw.mu.RUnlock()
	for _, ign := range fw.ignored {
		if name == ign {
			return true
		}
	}
	return false
}

// Run watches until ctx is done. Handler errors are logged and do not stop
// the watcher.
func (fw *FileWatcher) Run(ctx context.Context) error {
	go fw.debouncer.Run(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return nil
			}
			fw.handleFsnotifyEvent(event)
		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return nil
			}
			fw.log.Warn("file watcher error", "error", err)
		case events := <-fw.debouncer.Output():
			fw.dispatch(ctx, events)
		}
	}
}

// Close stops watching.
func (fw *FileWatcher) Close() error {
	fw.debouncer.Stop()
	return fw.watcher.Close()
}

func (fw *FileWatcher) handleFsnotifyEvent(event fsnotify.Event) {
	if event.Op == fsnotify.Chmod {
		return
	}

	// new directories are watched on the fly
	if event.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if !fw.isIgnored(info.Name()) {
				if err := fw.AddRecursive(event.Name); err != nil {
					fw.log.Warn("cannot watch directory", "path", event.Name, "error", err)
				}
			}
			return
		}
	}

	if !fw.accepts(event.Name) {
		return
	}

	var eventType EventType
	switch {
	case event.Op.Has(fsnotify.Create):
		eventType = EventTypeCreated
	case event.Op.Has(fsnotify.Write):
		eventType = EventTypeModified
	case event.Op.Has(fsnotify.Remove):
		eventType = EventTypeDeleted
	case event.Op.Has(fsnotify.Rename):
		eventType = EventTypeRenamed
	default:
		eventType = EventTypeModified
	}
	fw.debouncer.Add(ChangeEvent{Type: eventType, Path: event.Name})
}

func (fw *FileWatcher) accepts(path string) bool {
	fw.mu.RLock()
	defer fw.mu.RUnlock()
	for _, filter := range fw.filters {
		if !filter(path) {
			return false
		}
	}
	return true
}

func (fw *FileWatcher) dispatch(ctx context.Context, events []ChangeEvent) {
	fw.mu.RLock()
	handlers := fw.handlers
	fw.mu.RUnlock()
	for _, handler := range handlers {
		if err := handler(ctx, events); err != nil {
			fw.log.Error("file watcher handler failed", "error", err)
		}
	}
}

// Debouncer groups rapid file changes together. The latest event per path
// wins.
type Debouncer struct {
	delay  time.Duration
	output chan []ChangeEvent

	mu      sync.Mutex
	timer   *time.Timer
	pending map[string]ChangeEvent
}

func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{
		delay:   delay,
		output:  make(chan []ChangeEvent, 1),
		pending: make(map[string]ChangeEvent),
	}
}

// Output delivers the debounced bursts.
func (d *Debouncer) Output() <-chan []ChangeEvent { return d.output }

// Add records an event and restarts the quiet period.
func (d *Debouncer) Add(event ChangeEvent) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pending[event.Path] = event
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.flush)
}

// Run stops the debouncer when ctx is done.
func (d *Debouncer) Run(ctx context.Context) {
	<-ctx.Done()
	d.Stop()
}

// Stop drops pending events.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.pending = make(map[string]ChangeEvent)
}

func (d *Debouncer) flush() {
	d.mu.Lock()
	if len(d.pending) == 0 {
		d.mu.Unlock()
		return
	}
	events := make([]ChangeEvent, 0, len(d.pending))
	for _, e := range d.pending {
		events = append(events, e)
	}
	d.pending = make(map[string]ChangeEvent)
	d.mu.Unlock()

	sort.Slice(events, func(i, j int) bool { return events[i].Path < events[j].Path })

	// merge into a burst not yet taken
	for {
		select {
		case d.output <- events:
			return
		case prev := <-d.output:
			events = merge(prev, events)
		}
	}
}

func merge(prev, next []ChangeEvent) []ChangeEvent {
	byPath := make(map[string]ChangeEvent, len(prev)+len(next))
	for _, e := range prev {
		byPath[e.Path] = e
	}
	for _, e := range next {
		byPath[e.Path] = e
	}
	out := make([]ChangeEvent, 0, len(byPath))
	for _, e := range byPath {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// ExtensionFilter accepts files with one of the extensions. With none,
// every file is accepted.
func ExtensionFilter(extensions ...string) FileFilter {
	if len(extensions) == 0 {
		return func(string) bool { return true }
	}
	want := make(map[string]bool, len(extensions))
	for _, e := range extensions {
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		want[strings.ToLower(e)] = true
	}
	return func(path string) bool {
		return want[strings.ToLower(filepath.Ext(path))]
	}
}

// NoHiddenFilter rejects dotfiles such as editor swap files.
func NoHiddenFilter(path string) bool {
	return !strings.HasPrefix(filepath.Base(path), ".")
}

// OutsideFilter rejects paths below any of dirs. It keeps a build from
// triggering itself when outputs live inside an include path.
func OutsideFilter(dirs ...string) FileFilter {
	var abs []string
	for _, d := range dirs {
		if d == "" {
			continue
		}
		if a, err := filepath.Abs(d); err == nil {
			abs = append(abs, a)
		}
	}
	return func(path string) bool {
		p, err := filepath.Abs(path)
		if err != nil {
			return true
		}
		for _, d := range abs {
			if p == d || strings.HasPrefix(p, d+string(filepath.Separator)) {
				return false
			}
		}
		return true
	}
}
