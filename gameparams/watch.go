package gameparams

import (
	"io"
	"sync"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
	"os"
)

// WatchFile watches path for writes and reloads them into p in place,
// calling onChange after each successful reload. The returned io.Closer
// stops the watch. Neither this nor Load is called by the simulation
// tick itself — only by a hosting process that wants hot-reloadable
// tuning (spec §6).
func WatchFile(path string, p *GameParameters, onChange func()) (io.Closer, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(path); err != nil {
		watcher.Close()
		return nil, err
	}

	var mu sync.Mutex
	done := make(chan struct{})
	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				data, err := os.ReadFile(path)
				if err != nil {
					continue
				}
				mu.Lock()
				if err := yaml.Unmarshal(data, p); err == nil {
					p.Bump()
					if onChange != nil {
						onChange()
					}
				}
				mu.Unlock()
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			case <-done:
				return
			}
		}
	}()

	return &watchCloser{watcher: watcher, done: done}, nil
}

type watchCloser struct {
	watcher *fsnotify.Watcher
	done    chan struct{}
}

func (c *watchCloser) Close() error {
	close(c.done)
	return c.watcher.Close()
}
