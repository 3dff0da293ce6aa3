package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/bep/debounce"
	"github.com/fsnotify/fsnotify"
)

// WatchDelay is the quiet period after the last change of the configuration
// file before it is reloaded. Editors tend to write a file in several steps.
var WatchDelay = 200 * time.Millisecond

// Watch reloads the configuration whenever its file changes, until ctx is
// done. Trace levels are applied right after a reload; onChange, if not
// nil, is called afterwards. A configuration without a file is not watched
// and Watch blocks until ctx is done.
func Watch(ctx context.Context, conf *Conf, onChange func(*Conf)) error {
	path := conf.Path()
	if path == "" {
		<-ctx.Done()
		return nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()
	// watch the directory, as editors replace files by renaming
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}
	debounced := debounce.New(WatchDelay)
	reload := func() {
		if err := conf.Reload(); err != nil {
			tracer().Errorf("reloading configuration: %v", err)
			return
		}
		ApplyTraceLevels(conf)
		tracer().Infof("configuration reloaded from %s", path)
		if onChange != nil {
			onChange(conf)
		}
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if name, _ := filepath.Abs(event.Name); name != abs {
				continue
			}
			debounced(reload)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			tracer().Errorf("configuration watcher: %v", err)
		}
	}
}
