// Package interact turns spot overlap into behavior: it classifies which
// spots trigger on their own and which wait for a confirm, and it maps each
// spot kind to a handler.
package interact

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/nathoo/topdown/audio"
	"github.com/nathoo/topdown/engine/catalog"
	"github.com/nathoo/topdown/engine/dialog"
	"github.com/nathoo/topdown/engine/events"
	"github.com/nathoo/topdown/types"
)

// Env is the read-only view handlers work against.
type Env interface {
	MapID() string
	Spent(s *types.Spot) bool
	Preset(id string) (types.DialogDef, bool)
	// Catalog returns nil until the catalog is ready.
	Catalog() *catalog.Catalog
}

// Outcome is what a handler asks the engine to do. The engine applies it
// in field order: flags, effects, notices, dialog, cue.
type Outcome struct {
	Collect bool // mark the spot collected; effects are dropped if it already was
	Award   bool // mark the score point awarded

	Effects []types.Effect
	Notices []types.Notice

	Dialog  dialog.Content
	Meta    dialog.Meta
	OnClose types.Hook

	Cue audio.Cue

	// Defer asks the engine to dispatch the spot again once the catalog
	// is ready.
	Defer bool
}

// Handler produces the outcome of interacting with a spot.
type Handler func(spot *types.Spot, env Env) Outcome

// Dispatcher maps spot kinds to handlers and publishes the interaction
// events around each dispatch.
type Dispatcher struct {
	handlers map[types.SpotKind]Handler
	fallback Handler
	bus      *events.Bus
	logger   *slog.Logger
}

// NewDispatcher creates a dispatcher with the default handler registry.
func NewDispatcher(bus *events.Bus, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	d := &Dispatcher{
		handlers: map[types.SpotKind]Handler{},
		fallback: Fallback,
		bus:      bus,
		logger:   logger,
	}
	for _, k := range types.SpotKinds {
		d.handlers[k] = DefaultHandler(k)
	}
	return d
}

// Register replaces the handler for a kind. A nil handler restores the
// fallback for that kind.
func (d *Dispatcher) Register(kind types.SpotKind, h Handler) {
	if h == nil {
		delete(d.handlers, kind)
		return
	}
	d.handlers[kind] = h
}

// Handler returns the handler for a kind, or the fallback.
func (d *Dispatcher) Handler(kind types.SpotKind) Handler {
	if h, ok := d.handlers[kind]; ok {
		return h
	}
	return d.fallback
}

// Interact publishes interact:before, runs the handler, hands its outcome
// to apply and publishes interact:after. A panic in the handler or in
// apply is logged and the after event still fires.
func (d *Dispatcher) Interact(spot *types.Spot, env Env, apply func(Outcome)) {
	if spot == nil {
		return
	}
	data := map[string]any{"spot": spot.ID, "kind": spot.Kind.String(), "map": env.MapID()}
	d.publish(events.InteractBefore, data)
	d.run(spot, env, apply)
	d.publish(events.InteractAfter, data)
}

func (d *Dispatcher) run(spot *types.Spot, env Env, apply func(Outcome)) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("interaction handler failed",
				"spot", spot.ID, "kind", spot.Kind.String(), "map", env.MapID(), "panic", r)
		}
	}()
	out := d.Handler(spot.Kind)(spot, env)
	if apply != nil {
		apply(out)
	}
}

func (d *Dispatcher) publish(eventType string, data map[string]any) {
	if d.bus == nil {
		return
	}
	d.bus.Publish(events.Event{Type: eventType, Data: data})
}

// Poll is the per-tick classification of the spots under the player.
type Poll struct {
	Auto  []*types.Spot // dispatch now, in authored order
	Hover *types.Spot   // first interactable spot waiting for confirm
}

// Classify splits overlapping spots into auto-triggered and hovered ones.
// Unspent pickups and score points trigger on overlap, as do gates that
// need no confirmation. Everything else interactable only hovers; the first
// in authored order wins.
func Classify(overlapping []*types.Spot, spent func(*types.Spot) bool) Poll {
	var p Poll
	for _, s := range overlapping {
		if Auto(s) && !spent(s) {
			p.Auto = append(p.Auto, s)
			continue
		}
		if p.Hover == nil && Hoverable(s, spent) {
			p.Hover = s
		}
	}
	return p
}

// Auto reports whether a spot fires on overlap.
func Auto(s *types.Spot) bool {
	switch s.Kind {
	case types.SpotCoin, types.SpotPart, types.SpotResource, types.SpotPoint:
		return true
	case types.SpotGate:
		return !s.Confirm
	default:
		return false
	}
}

// Hoverable reports whether a spot waits for an explicit confirm. Score
// points become hoverable once awarded.
func Hoverable(s *types.Spot, spent func(*types.Spot) bool) bool {
	switch s.Kind {
	case types.SpotDialog, types.SpotPreset, types.SpotBench, types.SpotShop:
		return true
	case types.SpotGate:
		return s.Confirm
	case types.SpotPoint:
		return spent(s)
	default:
		return false
	}
}

// Prompt returns the label shown while a spot is hovered.
func Prompt(s *types.Spot) string {
	if s.Prompt != "" {
		return s.Prompt
	}
	switch s.Kind {
	case types.SpotDialog, types.SpotPreset:
		return "Talk"
	case types.SpotBench:
		return "Craft"
	case types.SpotGate:
		return "Enter"
	case types.SpotShop:
		return "Shop"
	default:
		return "Interact"
	}
}

// Notice durations.
const (
	NoticeDefault = 1500 * time.Millisecond
	NoticeMin     = 500 * time.Millisecond
)

func notice(text string, d time.Duration) types.Notice {
	return types.Notice{Text: text, Duration: d}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}
