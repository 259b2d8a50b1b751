package plugin

import (
	"errors"

	"github.com/dshills/scripteditor/internal/watcher"
)

// startWatchLoop starts routing watcher events to entities.
// The caller holds lifecycle exclusively.
func (p *Plugin) startWatchLoop() {
	if p.watcher == nil {
		return
	}
	stop := make(chan struct{})
	done := make(chan struct{})

	p.mu.Lock()
	p.stopWatch, p.watchDone = stop, done
	p.mu.Unlock()

	go p.watchLoop(p.watcher.Events(), p.watcher.Errors(), stop, done)
}

// detachWatchLoop takes ownership of the running loop and returns a
// function that stops it and waits for it to exit. The caller holds
// lifecycle exclusively; the returned function must be called without it.
func (p *Plugin) detachWatchLoop() func() {
	p.mu.Lock()
	stop, done := p.stopWatch, p.watchDone
	p.stopWatch, p.watchDone = nil, nil
	p.mu.Unlock()

	return func() {
		if stop == nil {
			return
		}
		close(stop)
		<-done
	}
}

// watchLoop hands change events to a separate delivery goroutine, so a
// handler may call OnUnload, which waits for this loop to exit.
func (p *Plugin) watchLoop(events <-chan watcher.Event, errs <-chan error, stop <-chan struct{}, done chan<- struct{}) {
	changes := make(chan Event, 64)
	go p.deliver(changes)
	defer close(done)
	defer close(changes)

	for {
		select {
		case <-stop:
			return

		case ev, ok := <-events:
			if !ok {
				return
			}
			for _, change := range p.routeChange(ev) {
				select {
				case changes <- change:
				case <-stop:
					return
				}
			}

		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			p.logger().Warn("file watcher: %v", err)
		}
	}
}

func (p *Plugin) deliver(changes <-chan Event) {
	for ev := range changes {
		p.emitEvent(ev)
	}
}

// routeChange notifies every live instance open on the changed file and
// returns a change event for each one that reported a change.
func (p *Plugin) routeChange(ev watcher.Event) []Event {
	var changed []Event
	for _, e := range p.store.Snapshot() {
		w, ok := e.Record.Instance.(*Wrapper)
		if !ok || w.absPath != ev.Path {
			continue
		}
		n, ok := w.entity.(ChangeNotifier)
		if !ok {
			continue
		}

		if !p.notify(n, ev) {
			continue
		}
		p.logger().Info("instance %d: %s changed on disk (%s)", e.ID, w.path, ev.Op)
		changed = append(changed, Event{Type: EventInstanceChanged, Instance: e.ID, Path: w.path})
	}
	return changed
}

func (p *Plugin) notify(n ChangeNotifier, ev watcher.Event) (changed bool) {
	defer func() {
		if r := recover(); r != nil {
			p.logger().Error("change notification for %s panicked: %v", ev.Path, r)
			changed = false
		}
	}()
	return n.FileChanged(ev)
}

// watch adds a reference to path, registering it with the watcher on the
// first reference. Failures are logged only.
func (p *Plugin) watch(path string) {
	if p.watcher == nil {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.watched[path] == 0 {
		if err := p.watcher.Watch(path); err != nil && !errors.Is(err, watcher.ErrAlreadyWatching) {
			p.logger().Warn("not watching %s: %v", path, err)
			return
		}
	}
	p.watched[path]++
}

// unwatch drops a reference to path, unregistering it with the watcher
// when none remain.
func (p *Plugin) unwatch(path string) {
	if p.watcher == nil {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	n := p.watched[path]
	if n == 0 {
		return
	}
	if n > 1 {
		p.watched[path] = n - 1
		return
	}
	delete(p.watched, path)
	if err := p.watcher.Unwatch(path); err != nil && !errors.Is(err, watcher.ErrNotWatching) {
		p.logger().Warn("unwatching %s: %v", path, err)
	}
}

// WatchCount returns the number of files watched for open instances.
func (p *Plugin) WatchCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.watched)
}
