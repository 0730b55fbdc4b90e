package loader

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce groups the burst of events produced by a single save.
const DefaultDebounce = 300 * time.Millisecond

// Watch calls onChange after any local file in paths is written, created or
// renamed. HTTP locations are ignored. It blocks until ctx is done.
func Watch(
	ctx context.Context,
	log *slog.Logger,
	paths []string,
	debounce time.Duration,
	onChange func(context.Context),
) error {
	const opn = "loader.Watch"

	log = log.With("op", opn)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("%s: failed to create watcher: %w", opn, err)
	}
	defer watcher.Close()

	files := make(map[string]bool)

	for _, path := range paths {
		if isRemote(path) {
			continue
		}

		abs, absErr := filepath.Abs(path)
		if absErr != nil {
			continue
		}

		dir := filepath.Dir(abs)
		if _, statErr := os.Stat(dir); statErr != nil {
			continue
		}

		// Editors replace files on save, so the directory is watched instead of the file.
		if err = watcher.Add(dir); err != nil {
			log.WarnContext(ctx, "failed to watch directory", "dir", dir, "error", err)

			continue
		}

		files[abs] = true
	}

	if len(files) == 0 {
		log.InfoContext(ctx, "no local files to watch")
		<-ctx.Done()

		return nil
	}

	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if !files[filepath.Clean(event.Name)] || !event.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}

			log.DebugContext(ctx, "file changed", "file", event.Name, "event", event.Op.String())
			timer.Reset(debounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			log.ErrorContext(ctx, "watcher error", "error", err)
		case <-timer.C:
			onChange(ctx)
		}
	}
}
