package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func startWatch(t *testing.T, files []string, out chan struct{}) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = Files(ctx, files, out, nil)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	// give watcher time to start
	time.Sleep(50 * time.Millisecond)
}

func waitSignal(t *testing.T, ch <-chan struct{}, what string) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatalf("timeout waiting for %s", what)
	}
}

func TestFiles_Write(t *testing.T) {
	name := filepath.Join(t.TempDir(), "formats.json")
	if err := os.WriteFile(name, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	ch := make(chan struct{}, 1)
	startWatch(t, []string{name}, ch)

	if err := os.WriteFile(name, []byte(`{"format":[]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	waitSignal(t, ch, "write event")
}

func TestFiles_RenameOverTargetKeepsWatching(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "params.json")
	if err := os.WriteFile(name, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	ch := make(chan struct{}, 1)
	startWatch(t, []string{name}, ch)

	for i, body := range []string{`{"a":{}}`, `{"b":{}}`} {
		tmp := filepath.Join(dir, ".params.json.tmp")
		if err := os.WriteFile(tmp, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
		if err := os.Rename(tmp, name); err != nil {
			t.Fatal(err)
		}
		waitSignal(t, ch, "replace event")
		if i == 0 {
			// drain anything queued by the first replace
			time.Sleep(50 * time.Millisecond)
			select {
			case <-ch:
			default:
			}
		}
	}
}

func TestFiles_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "formats.json")

	ch := make(chan struct{}, 1)
	startWatch(t, []string{name}, ch)

	if err := os.WriteFile(filepath.Join(dir, "other.json"), []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	select {
	case <-ch:
		t.Fatal("unexpected signal for unrelated file")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestFiles_CancelWithMissingDir(t *testing.T) {
	ch := make(chan struct{}, 1)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = Files(ctx, []string{"/path/does/not/exist/formats.json"}, ch, nil)
		close(done)
	}()
	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Files did not exit after cancel")
	}
}

type mockWatcher struct {
	events chan fsnotify.Event
	errors chan error
	added  []string
}

func (m *mockWatcher) Add(name string) error         { m.added = append(m.added, name); return nil }
func (m *mockWatcher) Close() error                  { return nil }
func (m *mockWatcher) Events() <-chan fsnotify.Event { return m.events }
func (m *mockWatcher) Errors() <-chan error          { return m.errors }

func withMock(t *testing.T, mw *mockWatcher) {
	t.Helper()
	old := newWatcher
	newWatcher = func() (fileWatcher, error) { return mw, nil }
	t.Cleanup(func() { newWatcher = old })
}

func TestFiles_SharedDirectoryAddedOnce(t *testing.T) {
	mw := &mockWatcher{events: make(chan fsnotify.Event), errors: make(chan error)}
	withMock(t, mw)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := Files(ctx, []string{"/cfg/formats.json", "/cfg/params.json", "/other/x.json"}, make(chan struct{}), nil); err != nil {
		t.Fatalf("Files returned error: %v", err)
	}
	if len(mw.added) != 2 || mw.added[0] != "/cfg" || mw.added[1] != "/other" {
		t.Fatalf("added = %v, want [/cfg /other]", mw.added)
	}
}

func TestFiles_ChmodIgnoredAndSendNeverBlocks(t *testing.T) {
	mw := &mockWatcher{events: make(chan fsnotify.Event), errors: make(chan error, 1)}
	withMock(t, mw)

	ch := make(chan struct{}, 1)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() { _ = Files(ctx, []string{"/cfg/formats.json"}, ch, nil); close(done) }()

	mw.events <- fsnotify.Event{Name: "/cfg/formats.json", Op: fsnotify.Chmod}
	mw.errors <- errors.New("boom")
	// Two relevant events with a one-slot channel; the second must not block.
	mw.events <- fsnotify.Event{Name: "/cfg/formats.json", Op: fsnotify.Write}
	mw.events <- fsnotify.Event{Name: "/cfg/formats.json", Op: fsnotify.Remove}
	cancel()
	<-done

	if len(ch) != 1 {
		t.Fatalf("pending signals = %d, want 1", len(ch))
	}
}

func TestFiles_WatcherCreateError(t *testing.T) {
	old := newWatcher
	newWatcher = func() (fileWatcher, error) { return nil, errors.New("no inotify") }
	t.Cleanup(func() { newWatcher = old })

	err := Files(context.Background(), []string{"x"}, make(chan struct{}), nil)
	if err == nil {
		t.Fatal("Files returned nil error, want create failure")
	}
}
