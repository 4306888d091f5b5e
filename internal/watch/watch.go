// Package watch signals when the catalog documents change on disk.
//
// Directories are watched rather than the files themselves: the store replaces
// files by renaming a temp file over them, which drops a per-file inotify
// watch. Events are filtered down to the requested file names.
package watch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

type fileWatcher interface {
	Add(name string) error
	Close() error
	Events() <-chan fsnotify.Event
	Errors() <-chan error
}

type fsWatcher struct{ *fsnotify.Watcher }

func (w fsWatcher) Events() <-chan fsnotify.Event { return w.Watcher.Events }
func (w fsWatcher) Errors() <-chan error          { return w.Watcher.Errors }

var newWatcher = func() (fileWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return fsWatcher{w}, nil
}

const relevantOps = fsnotify.Write | fsnotify.Create | fsnotify.Rename | fsnotify.Remove

// Files blocks until ctx is done, sending on out whenever one of files is
// written, created, renamed or removed. Sends never block; a pending signal
// already covers later changes.
func Files(ctx context.Context, files []string, out chan<- struct{}, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	w, err := newWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	targets := make(map[string]struct{}, len(files))
	dirs := make(map[string]struct{}, len(files))
	for _, f := range files {
		clean := filepath.Clean(f)
		targets[clean] = struct{}{}
		dir := filepath.Dir(clean)
		if _, seen := dirs[dir]; seen {
			continue
		}
		dirs[dir] = struct{}{}
		if err := w.Add(dir); err != nil {
			logger.Error("watch add failed", "dir", dir, "error", err)
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events():
			if !ok {
				return nil
			}
			if _, match := targets[filepath.Clean(ev.Name)]; !match || ev.Op&relevantOps == 0 {
				continue
			}
			logger.Debug("catalog file changed", "file", ev.Name, "op", ev.Op.String())
			select {
			case out <- struct{}{}:
			default:
			}
		case err, ok := <-w.Errors():
			if !ok {
				return nil
			}
			logger.Error("watch error", "error", err)
		}
	}
}
