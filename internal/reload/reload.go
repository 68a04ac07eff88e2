// Package reload keeps a fuzzy engine in sync with its rule base file. The
// file is watched with fsnotify and reloaded after a debounce window; a parse
// or validation failure keeps the last good engine, and every successful swap
// logs a diff of the ruleset text so operators can see what changed.
package reload

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/Dicklesworthstone/irrigo/internal/fuzzy"
	"github.com/Dicklesworthstone/irrigo/internal/ruleset"
)

// ErrClosed is returned when operations are called on a closed Reloader.
var ErrClosed = errors.New("reload: reloader is closed")

// DefaultDebounce coalesces editor write bursts into one reload.
const DefaultDebounce = 250 * time.Millisecond

// Reloader owns the current engine for a rule base file. Engine is safe to
// call from any goroutine; the returned engine is immutable and remains valid
// after a swap.
type Reloader struct {
	path     string
	log      *slog.Logger
	debounce time.Duration

	engine  atomic.Pointer[fuzzy.Engine]
	watcher *fsnotify.Watcher

	mu       sync.Mutex
	lastText []byte
	timer    *time.Timer
	closed   bool
}

// Option configures a Reloader.
type Option func(*Reloader)

// WithDebounce sets the debounce window for coalescing file events.
func WithDebounce(d time.Duration) Option {
	return func(r *Reloader) {
		if d > 0 {
			r.debounce = d
		}
	}
}

// New loads the rule base at path and starts watching it. The watch is on the
// parent directory so atomic save strategies (write temp file, rename over)
// are still observed.
func New(path string, log *slog.Logger, opts ...Option) (*Reloader, error) {
	if log == nil {
		log = slog.Default()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	r := &Reloader{
		path:     abs,
		log:      log,
		debounce: DefaultDebounce,
	}
	for _, opt := range opts {
		opt(r)
	}

	text, engine, err := load(abs)
	if err != nil {
		return nil, err
	}
	r.lastText = text
	r.engine.Store(engine)

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, err
	}
	r.watcher = w

	go r.run()
	return r, nil
}

// Engine returns the current engine.
func (r *Reloader) Engine() *fuzzy.Engine { return r.engine.Load() }

// Path returns the watched rule base path.
func (r *Reloader) Path() string { return r.path }

// Reload re-reads the rule base immediately, bypassing the debounce. On
// failure the previous engine stays in place and the error is returned.
func (r *Reloader) Reload() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}
	return r.reloadLocked()
}

// Close stops watching. The last engine remains readable.
func (r *Reloader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	if r.timer != nil {
		r.timer.Stop()
	}
	return r.watcher.Close()
}

func (r *Reloader) run() {
	for {
		select {
		case ev, ok := <-r.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != r.path {
				continue
			}
			if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Rename) {
				continue
			}
			r.schedule()
		case err, ok := <-r.watcher.Errors:
			if !ok {
				return
			}
			r.log.Warn("ruleset watch error", "error", err)
		}
	}
}

// schedule (re)arms the debounce timer.
func (r *Reloader) schedule() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	if r.timer != nil {
		r.timer.Stop()
	}
	r.timer = time.AfterFunc(r.debounce, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		if r.closed {
			return
		}
		if err := r.reloadLocked(); err != nil {
			r.log.Error("ruleset reload failed; keeping last good engine",
				"path", r.path, "error", err)
		}
	})
}

// reloadLocked swaps the engine. Must be called with r.mu held.
func (r *Reloader) reloadLocked() error {
	text, engine, err := load(r.path)
	if err != nil {
		return err
	}

	summary := diffSummary(r.lastText, text)
	r.lastText = text
	r.engine.Store(engine)

	r.log.Info("ruleset reloaded",
		"path", r.path,
		"rules", len(engine.Rules()),
		"changed", summary,
	)
	return nil
}

func load(path string) ([]byte, *fuzzy.Engine, error) {
	text, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading ruleset: %w", err)
	}
	doc, err := ruleset.Parse(text)
	if err != nil {
		return nil, nil, err
	}
	engine, err := doc.Build()
	if err != nil {
		return nil, nil, err
	}
	return text, engine, nil
}

// diffSummary condenses the textual change to "+ins/-del chars" for the log.
func diffSummary(before, after []byte) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(string(before), string(after), false)

	var ins, del int
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			ins += len(d.Text)
		case diffmatchpatch.DiffDelete:
			del += len(d.Text)
		}
	}
	if ins == 0 && del == 0 {
		return "none"
	}
	return fmt.Sprintf("+%d/-%d chars", ins, del)
}
