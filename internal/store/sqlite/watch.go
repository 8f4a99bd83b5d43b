package sqlite

import (
	"fmt"

	"github.com/fsnotify/fsnotify"
)

// WatchExternalWrites starts an fsnotify watch on the backing database file
// and logs a Note through the configured Emitter whenever the file is
// written or created. It does not tell writes made through this Store apart
// from writes by another process: both produce the same "modified
// externally" note. Grounded on the teacher's daemon file watcher, which does
// the same for externally-edited JSONL files. It is a diagnostic aid, not a
// cache-invalidation mechanism: every Store call already reads the backend
// directly, so there is nothing to invalidate.
//
// The returned stop function closes the watcher; callers should defer it.
// WatchExternalWrites is a no-op (returning a no-op stop func) for an
// in-memory database or when no Emitter was configured via WithEmitter.
func (s *Store) WatchExternalWrites() (stop func(), err error) {
	if s.path == ":memory:" || s.emitter == nil {
		return func() {}, nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return func() {}, fmt.Errorf("store: starting file watcher: %w", err)
	}
	if err := watcher.Add(s.path); err != nil {
		_ = watcher.Close()
		return func() {}, fmt.Errorf("store: watching %s: %w", s.path, err)
	}

	done := make(chan struct{})
	go func() {
		for {
			select {
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create) != 0 {
					s.emitter.Note(fmt.Sprintf("store: %s modified externally", s.path), true)
				}
			case werr, ok := <-watcher.Errors:
				if !ok {
					return
				}
				s.emitter.Warning(fmt.Sprintf("store: file watcher error: %v", werr), true)
			case <-done:
				return
			}
		}
	}()

	return func() {
		close(done)
		_ = watcher.Close()
	}, nil
}
