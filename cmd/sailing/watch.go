// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// watcher signals changes to a file. It watches the directory, so
// that editors replacing the file are seen too.
type watcher struct {
	*fsnotify.Watcher
	changed chan struct{}
}

func newWatcher(file string) (*watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(filepath.Dir(file)); err != nil {
		fw.Close()
		return nil, err
	}
	w := &watcher{Watcher: fw, changed: make(chan struct{}, 1)}
	name := filepath.Clean(file)
	go func() {
		for {
			select {
			case ev, ok := <-fw.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != name || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				select {
				case w.changed <- struct{}{}:
				default:
				}
			case err, ok := <-fw.Errors:
				if !ok {
					return
				}
				slog.Warn("sailing: watching config", "err", err)
			}
		}
	}()
	return w, nil
}
