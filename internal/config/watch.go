// Copyright (c) 2025 Hania Health
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// =============================================================================
// CONFIG FILE WATCHER
// =============================================================================

// watchDebounce absorbs editor save storms (write + chmod + rename)
// into a single reload.
const watchDebounce = 250 * time.Millisecond

// Watcher watches the config file and invokes a callback after each
// change settles. Editors replace files in odd ways, so the parent
// directory is watched rather than the file itself.
type Watcher struct {
	path     string
	onChange func()
	watcher  *fsnotify.Watcher
	mu       sync.Mutex
	pending  time.Time
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewWatcher creates a watcher for the given config file. onChange runs
// on the watcher goroutine; callers hand off to their own scheduler.
func NewWatcher(path string, onChange func()) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Watcher{
		path:     path,
		onChange: onChange,
		watcher:  fsw,
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

// Watch starts watching for config changes.
func (w *Watcher) Watch() error {
	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return err
	}

	go w.processEvents()
	go w.processPending()

	return nil
}

// processEvents filters directory events down to our file.
func (w *Watcher) processEvents() {
	defer func() {
		if r := recover(); r != nil {
			_ = r
		}
	}()

	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				w.mu.Lock()
				w.pending = time.Now()
				w.mu.Unlock()
			}

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

// processPending fires the callback once changes settle.
func (w *Watcher) processPending() {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return

		case <-ticker.C:
			w.mu.Lock()
			fire := !w.pending.IsZero() && time.Since(w.pending) >= watchDebounce
			if fire {
				w.pending = time.Time{}
			}
			w.mu.Unlock()

			if fire && w.onChange != nil {
				w.onChange()
			}
		}
	}
}

// Close stops watching and releases resources.
func (w *Watcher) Close() error {
	w.cancel()
	if w.watcher != nil {
		return w.watcher.Close()
	}
	return nil
}
