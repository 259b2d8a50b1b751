package plugin

import (
	"fmt"

	"github.com/dshills/scripteditor/internal/instance"
)

// EventHandler handles plugin events.
type EventHandler func(event Event)

type subscription struct {
	id     uint64
	handle EventHandler
}

// Event is a plugin lifecycle or instance event.
type Event struct {
	Type EventType

	// Instance is the affected instance, or 0 for plugin events.
	Instance instance.ID

	// Path is the affected file, if any.
	Path string

	// Count is the number of instances removed by an unload.
	Count int

	Error error
}

// EventType is the type of plugin event.
type EventType int

const (
	// EventPluginLoaded is emitted when OnLoad succeeds.
	EventPluginLoaded EventType = iota
	// EventPluginUnloaded is emitted when OnUnload completes.
	EventPluginUnloaded
	// EventInstanceCreated is emitted after an instance is stored.
	EventInstanceCreated
	// EventInstanceClosed is emitted after an instance is removed.
	EventInstanceClosed
	// EventInstanceChanged is emitted when an open file changes on disk.
	EventInstanceChanged
	// EventInstanceError is emitted when an instance fails to tear down.
	EventInstanceError
)

// String returns a string representation of the event type.
func (t EventType) String() string {
	switch t {
	case EventPluginLoaded:
		return "plugin-loaded"
	case EventPluginUnloaded:
		return "plugin-unloaded"
	case EventInstanceCreated:
		return "instance-created"
	case EventInstanceClosed:
		return "instance-closed"
	case EventInstanceChanged:
		return "instance-changed"
	case EventInstanceError:
		return "instance-error"
	default:
		return "unknown"
	}
}

func (e Event) String() string {
	s := e.Type.String()
	if e.Instance != 0 {
		s += fmt.Sprintf(" #%d", e.Instance)
	}
	if e.Path != "" {
		s += " " + e.Path
	}
	if e.Error != nil {
		s += ": " + e.Error.Error()
	}
	return s
}

// Subscribe registers a handler for plugin events and returns a function
// that unregisters it. Handlers run in subscription order outside the
// plugin's locks; a panicking handler is recovered and logged.
// EventInstanceChanged is delivered from its own goroutine, so a handler
// may react to it by calling OnUnload.
func (p *Plugin) Subscribe(handler EventHandler) func() {
	if handler == nil {
		return func() {}
	}

	p.mu.Lock()
	p.nextHandler++
	id := p.nextHandler
	p.handlers = append(p.handlers, subscription{id: id, handle: handler})
	p.mu.Unlock()

	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		for i, s := range p.handlers {
			if s.id == id {
				p.handlers = append(p.handlers[:i], p.handlers[i+1:]...)
				return
			}
		}
	}
}

// HandlerCount returns the number of subscribed handlers.
func (p *Plugin) HandlerCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.handlers)
}

func (p *Plugin) emitEvent(event Event) {
	p.mu.Lock()
	handlers := make([]EventHandler, len(p.handlers))
	for i, s := range p.handlers {
		handlers[i] = s.handle
	}
	p.mu.Unlock()

	for _, handler := range handlers {
		func() {
			defer func() {
				if r := recover(); r != nil {
					p.logger().Error("event handler panicked on %s: %v", event.Type, r)
				}
			}()
			handler(event)
		}()
	}
}
