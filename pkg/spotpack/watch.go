package spotpack

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"k8s.io/klog/v2"
)

// WatchDebounce is how long Watch waits for a burst of events to settle before rebuilding.
var WatchDebounce = 500 * time.Millisecond

// watchDirs returns the existing directories holding inputs for c.
func watchDirs(c *Config) []string {
	dirs := []string{}
	for _, s := range c.Sources {
		dirs = append(dirs, filepath.Dir(s.Path))
	}
	for _, d := range c.PhotoDirs {
		dirs = append(dirs, d.Path)
	}

	found := []string{}
	for _, d := range dirs {
		if ok, err := dirExists(d); ok && err == nil {
			found = append(found, filepath.Clean(d))
		}
	}
	slices.Sort(found)
	return slices.Compact(found)
}

// isOutput reports whether path is something Render writes.
func isOutput(c *Config, path string) bool {
	path = filepath.Clean(path)
	out := filepath.Clean(c.PhotosOutDir)
	if path == out || strings.HasPrefix(path, out+string(filepath.Separator)) {
		return true
	}
	if filepath.Dir(path) != filepath.Dir(filepath.Clean(c.OutputJSON)) {
		return false
	}
	base := filepath.Base(path)
	return base == filepath.Base(c.OutputJSON) || strings.HasPrefix(base, ".spots-")
}

// Watch calls rebuild whenever an input of c changes, until ctx is done.
func Watch(ctx context.Context, c *Config, rebuild func() error) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("new watcher: %w", err)
	}
	defer w.Close()

	dirs := watchDirs(c)
	for _, d := range dirs {
		if err := w.Add(d); err != nil {
			return fmt.Errorf("watch %s: %w", d, err)
		}
	}
	klog.Infof("watching %d dirs ...", len(dirs))

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
				continue
			}
			if isOutput(c, event.Name) {
				continue
			}
			klog.V(1).Infof("event: %s", event)
			if timer == nil {
				timer = time.NewTimer(WatchDebounce)
			} else {
				timer.Reset(WatchDebounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			klog.Infof("inputs changed, rebuilding ...")
			if err := rebuild(); err != nil {
				klog.Errorf("rebuild failed: %v", err)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			klog.Errorf("watch error: %v", err)
		}
	}
}
