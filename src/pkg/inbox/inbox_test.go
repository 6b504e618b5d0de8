package inbox

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestIsImage(t *testing.T) {
	for name, want := range map[string]bool{
		"a.jpg": true, "b.JPEG": true, "c.png": true, "d.gif": false, "e": false,
	} {
		if got := IsImage(name); got != want {
			t.Fatalf("%s: got %v", name, got)
		}
	}
}

func TestResolveImages(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "b.png"))
	touch(t, filepath.Join(dir, "a.jpg"))
	touch(t, filepath.Join(dir, "notes.txt"))
	if err := os.Mkdir(filepath.Join(dir, "sub.png"), 0o755); err != nil {
		t.Fatal(err)
	}

	images, e := ResolveImages(dir)
	if e != nil {
		t.Fatalf("resolve dir: %v", e)
	}
	if len(images) != 2 || filepath.Base(images[0]) != "a.jpg" || filepath.Base(images[1]) != "b.png" {
		t.Fatalf("images = %v", images)
	}

	single, e := ResolveImages(filepath.Join(dir, "a.jpg"))
	if e != nil || len(single) != 1 {
		t.Fatalf("single = %v (%v)", single, e)
	}

	if _, e := ResolveImages(filepath.Join(dir, "notes.txt")); e == nil {
		t.Fatal("text file must be rejected")
	}
	if _, e := ResolveImages(" "); e == nil {
		t.Fatal("empty path must be rejected")
	}
	if _, e := ResolveImages(filepath.Join(dir, "missing.png")); e == nil {
		t.Fatal("missing path must be rejected")
	}
}

func TestWatchHandsOverNewImages(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var mu sync.Mutex
	var seen []string
	handled := make(chan struct{}, 4)

	done := make(chan struct{})
	go func() {
		defer close(done)
		e := Watch(ctx, dir, 50*time.Millisecond, func(path string) {
			mu.Lock()
			seen = append(seen, filepath.Base(path))
			mu.Unlock()
			handled <- struct{}{}
		})
		if e != nil {
			t.Errorf("watch: %v", e)
		}
	}()

	// Give the watcher time to register the directory.
	time.Sleep(200 * time.Millisecond)
	touch(t, filepath.Join(dir, "ignored.txt"))
	touch(t, filepath.Join(dir, "capture.jpg"))

	select {
	case <-handled:
	case <-ctx.Done():
		t.Fatal("image was never handled")
	}

	cancel()
	<-done

	mu.Lock()
	defer mu.Unlock()
	if len(seen) != 1 || seen[0] != "capture.jpg" {
		t.Fatalf("seen = %v", seen)
	}
}

func TestWatchMissingDirectory(t *testing.T) {
	e := Watch(context.Background(), filepath.Join(t.TempDir(), "missing"), 0, func(string) {})
	if e == nil {
		t.Fatal("missing directory must fail")
	}
}

func TestWatchTinySettle(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	e := Watch(ctx, t.TempDir(), time.Nanosecond, func(string) {})
	if e != nil {
		t.Fatalf("Watch returned error: %v", e)
	}
}
