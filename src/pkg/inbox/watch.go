package inbox

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"
)

// DefaultSettle is how long a new file must stay unchanged before handling.
const DefaultSettle = 300 * time.Millisecond

/*
Watch calls handle with the path of every image created in dir until ctx is
done.

Writers usually create a file and then fill it, so a path is handed over only
after it saw no Create or Write event for settle. handle runs on the watch
goroutine, one file at a time.
*/
func Watch(ctx context.Context, dir string, settle time.Duration, handle func(path string)) (e *xerr.Error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return xerr.NewError(err, "create fsnotify watcher", dir)
	}
	defer watcher.Close()

	err = watcher.Add(dir)
	if err != nil {
		return xerr.NewError(err, "watch directory", dir)
	}
	if settle <= 0 {
		settle = DefaultSettle
	}

	tl.Log(tl.Notice, palette.BlueBold, "%s '%s' for new images", "Watching", dir)

	pending := map[string]time.Time{}
	tick := settle / 2
	if tick < time.Millisecond {
		tick = time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			tl.Log(tl.Info, palette.Yellow, "%s watching '%s'", "Stopped", dir)
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !IsImage(event.Name) {
				continue
			}
			if event.Op&fsnotify.Create == fsnotify.Create {
				tl.Log(tl.Info1, palette.Cyan, "%s '%s'", "New image", filepath.Base(event.Name))
				pending[event.Name] = time.Now()
				continue
			}
			if _, seen := pending[event.Name]; seen && event.Op&fsnotify.Write == fsnotify.Write {
				pending[event.Name] = time.Now()
			}

		case now := <-ticker.C:
			for path, lastEvent := range pending {
				if now.Sub(lastEvent) < settle {
					continue
				}
				delete(pending, path)
				handle(path)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			tl.Log(tl.Warning, palette.Yellow, "Watch error on '%s': '%s'", dir, err)
		}
	}
}
