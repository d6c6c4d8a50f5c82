package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

const watchDebounce = 100 * time.Millisecond

func runCompileWatch(cmd *cobra.Command, a *app, sources []string, opts *compileOptions) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	for _, source := range sources {
		if err := watchSource(watcher, source); err != nil {
			return fmt.Errorf("failed to watch %s: %w", source, err)
		}
	}

	recompile := func() {
		if _, err := compileOnce(ctx, cmd, a, sources, opts); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s✗ Error: %v%s\n", ErrorColor, err, ResetColor)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Watching for changes (Ctrl+C to stop)...\n")
	}
	recompile()

	return watchLoop(ctx, watcher, func(name string) {
		a.logger.Debug("file changed, recompiling", "file", name)
		recompile()
	})
}

// watchLoop calls onChange once a burst of writes to .sql files settles. It
// returns when ctx is done.
func watchLoop(ctx context.Context, watcher *fsnotify.Watcher, onChange func(name string)) error {
	changed := make(chan string, 1)
	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case name := <-changed:
			onChange(name)

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if !isSQLFile(event.Name) {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			name := event.Name
			debounceTimer = time.AfterFunc(watchDebounce, func() {
				select {
				case changed <- name:
				default:
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watcher error: %w", err)
		}
	}
}

// watchSource watches a local directory recursively, or the directory of a
// local file.
func watchSource(watcher *fsnotify.Watcher, source string) error {
	info, err := os.Stat(source)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return watcher.Add(filepath.Dir(source))
	}
	return watchDirRecursive(watcher, source)
}

// watchDirRecursive adds a directory and all subdirectories to the watcher.
func watchDirRecursive(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
}
