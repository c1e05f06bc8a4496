package passage

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"

	"github.com/verte-zerg/keyflow/internal/model"
)

// Watcher reloads a passage file when it changes on disk.
// It watches the parent directory so editors that replace the file by rename
// are picked up.
type Watcher struct {
	path       string
	parentPath string
	onChange   func(model.Passage)
	watcher    *fsnotify.Watcher
	debounce   time.Duration

	mu       sync.Mutex
	lastBody string
	timer    *time.Timer
	closed   bool
}

// Watch starts watching path. onChange receives the reloaded passage whenever
// its normalized text differs from the previous version; it is called from a
// background goroutine. Watching stops when ctx is done or Close is called.
func Watch(ctx context.Context, path string, current string, onChange func(model.Passage)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		path:       filepath.Clean(path),
		parentPath: filepath.Dir(filepath.Clean(path)),
		onChange:   onChange,
		watcher:    fsw,
		debounce:   100 * time.Millisecond,
		lastBody:   current,
	}
	if err := fsw.Add(w.parentPath); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	go w.loop(ctx)
	return w, nil
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	return w.watcher.Close()
}

func (w *Watcher) loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			_ = w.Close()
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			w.schedule()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Error().Err(err).Str("path", w.path).Msg("Passage watcher error")
		}
	}
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.reload)
}

func (w *Watcher) reload() {
	p, err := LoadFile(w.path)
	if err != nil {
		// A rename-based save briefly leaves no file behind.
		log.Debug().Err(err).Str("path", w.path).Msg("Passage file not readable yet")
		return
	}

	w.mu.Lock()
	if w.closed || p.Body == w.lastBody {
		w.mu.Unlock()
		return
	}
	w.lastBody = p.Body
	w.mu.Unlock()

	log.Info().Str("path", w.path).Int("chars", len([]rune(p.Body))).Msg("Passage file changed")
	w.onChange(p)
}
