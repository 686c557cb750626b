// Package watcher reports pattern files dropped into a directory.
package watcher

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// settleDelay is how long a file must go without writes before it is reported
const settleDelay = 250 * time.Millisecond

type pendingFile struct {
	timer *time.Timer
	seq   uint64
}

type settled struct {
	path string
	seq  uint64
}

// Watch calls fn with the path of every *.json file created or written in dir
// until ctx is done. A file is reported once it has gone settleDelay without
// further writes, so editors that save in several chunks produce one call.
// fn runs on the watcher goroutine; hosts forward the path to their own event
// loop rather than touching a session from it.
func Watch(ctx context.Context, dir string, logger *zap.Logger, fn func(path string)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "[Watch] failed to create file watcher")
	}
	if err = w.Add(dir); err != nil {
		w.Close()
		return errors.Wrapf(err, "[Watch] failed to watch directory: %+v", dir)
	}

	go func() {
		pending := map[string]pendingFile{}
		ready := make(chan settled)
		done := make(chan struct{})
		var seq uint64
		defer func() {
			close(done)
			for _, p := range pending {
				p.timer.Stop()
			}
			w.Close()
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if !strings.EqualFold(filepath.Ext(ev.Name), ".json") {
					continue
				}
				if ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
					if p, ok := pending[ev.Name]; ok {
						p.timer.Stop()
						delete(pending, ev.Name)
					}
					continue
				}
				if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
					continue
				}
				if p, ok := pending[ev.Name]; ok {
					p.timer.Stop()
				}
				seq++
				s := settled{path: ev.Name, seq: seq}
				pending[ev.Name] = pendingFile{
					seq: seq,
					timer: time.AfterFunc(settleDelay, func() {
						select {
						case ready <- s:
						case <-done:
						}
					}),
				}
			case s := <-ready:
				// a timer that fired just before being replaced is stale
				if p, ok := pending[s.path]; !ok || p.seq != s.seq {
					continue
				}
				delete(pending, s.path)
				fn(s.path)
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				logger.Warn("import watcher error", zap.String("dir", dir), zap.Error(err))
			}
		}
	}()
	return nil
}
