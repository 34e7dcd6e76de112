// Package events implements the publish/subscribe bus exposed to front ends
// and the single-pass dispatch of authored event handlers.
package events

import (
	"log/slog"

	"github.com/nathoo/topdown/engine/rules"
	"github.com/nathoo/topdown/types"
)

// Event types published by the engine.
const (
	Tick           = "tick"
	MapLoaded      = "map:loaded"
	InteractBefore = "interact:before"
	InteractAfter  = "interact:after"
)

// Event is a bus message.
type Event struct {
	Type string
	Data map[string]any
}

// SpotID returns the "spot" field of the event data, if present.
func (e Event) SpotID() string {
	id, _ := e.Data["spot"].(string)
	return id
}

type subscriber struct {
	id int
	fn func(Event)
}

// Bus delivers events to subscribers in subscription order. A panicking
// subscriber is logged and skipped; the rest still run.
type Bus struct {
	subs   map[string][]subscriber
	nextID int
	logger *slog.Logger
}

// NewBus creates an empty bus.
func NewBus(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Bus{subs: map[string][]subscriber{}, logger: logger}
}

// Subscribe registers fn for an event type. The returned func removes it.
func (b *Bus) Subscribe(eventType string, fn func(Event)) func() {
	if eventType == "" || fn == nil {
		return func() {}
	}
	b.nextID++
	id := b.nextID
	b.subs[eventType] = append(b.subs[eventType], subscriber{id: id, fn: fn})
	return func() {
		list := b.subs[eventType]
		for i, s := range list {
			if s.id == id {
				b.subs[eventType] = append(list[:i:i], list[i+1:]...)
				return
			}
		}
	}
}

// Publish delivers e to a snapshot of the current subscribers.
func (b *Bus) Publish(e Event) {
	list := b.subs[e.Type]
	if len(list) == 0 {
		return
	}
	snapshot := append([]subscriber(nil), list...)
	for _, s := range snapshot {
		b.deliver(s, e)
	}
}

func (b *Bus) deliver(s subscriber, e Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event subscriber panicked", "event", e.Type, "panic", r)
		}
	}()
	s.fn(e)
}

// Count returns the number of subscribers for an event type.
func (b *Bus) Count(eventType string) int {
	return len(b.subs[eventType])
}

// Dispatch runs authored handlers against the emitted events. Single pass:
// effects produced here do not trigger further handlers. Returns the
// effects of every matching handler, in order.
func Dispatch(evs []Event, handlers []types.EventHandler, w rules.World) []types.Effect {
	var result []types.Effect

	for _, ev := range evs {
		ctx := rules.Context{SpotID: ev.SpotID()}
		for _, handler := range handlers {
			if handler.EventType != ev.Type {
				continue
			}
			if !rules.EvalAllConditions(handler.Conditions, w, ctx) {
				continue
			}
			result = append(result, handler.Effects...)
		}
	}

	return result
}
