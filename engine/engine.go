// Package engine provides the Engine orchestrator that wires movement,
// world queries, interaction dispatch, dialogs, the ledger and effects into
// a single per-frame tick.
package engine

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/nathoo/topdown/audio"
	"github.com/nathoo/topdown/engine/catalog"
	"github.com/nathoo/topdown/engine/craft"
	"github.com/nathoo/topdown/engine/dialog"
	"github.com/nathoo/topdown/engine/effects"
	"github.com/nathoo/topdown/engine/events"
	"github.com/nathoo/topdown/engine/interact"
	"github.com/nathoo/topdown/engine/ledger"
	"github.com/nathoo/topdown/engine/movement"
	"github.com/nathoo/topdown/engine/state"
	"github.com/nathoo/topdown/engine/world"
	"github.com/nathoo/topdown/types"
)

// Timing constants, in milliseconds.
const (
	MaxDelta     = 32.0
	FadeDuration = 280.0
)

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. The engine adds the session ID to it.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithAudio sets the sound backend.
func WithAudio(b audio.Backend) Option {
	return func(e *Engine) { e.backend = b }
}

// WithCatalog sets the catalog source. Without one the catalog is empty
// and ready from the start.
func WithCatalog(src *catalog.Source) Option {
	return func(e *Engine) { e.source = src }
}

// LoadOptions control a map change.
type LoadOptions struct {
	Spawn     *types.Vec // overrides the map's start position
	Immediate bool       // skip the fade
}

type pendingLoad struct {
	m     *types.MapDef
	spawn *types.Vec
	left  float64
}

// Engine holds the game definitions and every piece of mutable session
// state. It is not safe for concurrent use; front ends drive it from one
// goroutine.
type Engine struct {
	Defs   *state.Defs
	State  *types.State
	Ledger *ledger.Ledger
	Wallet *ledger.Wallet
	World  *world.Overlay
	Bus    *events.Bus

	source   *catalog.Source
	dialogs  *dialog.Machine
	presets  *dialog.Library
	dispatch *interact.Dispatcher
	backend  audio.Backend
	sound    *audio.Player
	logger   *slog.Logger
	session  string

	current  *types.MapDef
	hover    *types.Spot
	fade     *pendingLoad
	notices  []types.Notice
	deferred map[string]bool
}

// New creates an engine and loads the start map without a fade.
func New(defs *state.Defs, opts ...Option) *Engine {
	e := &Engine{
		Defs:     defs,
		State:    state.NewState(defs),
		Ledger:   ledger.New(),
		Wallet:   &ledger.Wallet{},
		World:    world.NewOverlay(),
		presets:  dialog.NewLibrary(),
		logger:   slog.New(slog.DiscardHandler),
		session:  uuid.NewString(),
		deferred: map[string]bool{},
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.With("session", e.session)
	if e.source == nil {
		e.source = catalog.Static(catalog.Tables{})
	}

	e.Bus = events.NewBus(e.logger)
	e.sound = audio.NewPlayer(e.backend, e.logger)
	e.dialogs = dialog.NewMachine(e, e.logger)
	e.dispatch = interact.NewDispatcher(e.Bus, e.logger)
	e.Ledger.SetLookup(e.source.Item)

	e.registerPresets(nil)
	e.source.WhenReady(e.catalogReady)
	e.subscribeHandlers()

	e.LoadMap(defs.StartMap(), LoadOptions{Immediate: true})
	return e
}

// Dispatcher returns the interaction registry, for registering custom
// spot handlers.
func (e *Engine) Dispatcher() *interact.Dispatcher {
	return e.dispatch
}

// Tick advances the game by dt milliseconds. confirm is the just-pressed
// edge of the interact control.
func (e *Engine) Tick(dt float64, in movement.Intent, confirm bool) {
	// 1. Cap the frame delta and advance the clock.
	dt = min(max(dt, 0), MaxDelta)
	e.State.Clock += dt
	e.State.Ticks++
	e.Bus.Publish(events.Event{Type: events.Tick, Data: map[string]any{"dt": dt, "time": e.State.Clock}})

	p := &e.State.Player

	// 2. A pending map change suspends movement until the fade elapses.
	if e.fade != nil {
		e.fade.left -= dt
		if e.fade.left <= 0 {
			pending := e.fade
			e.fade = nil
			e.applyMap(pending.m, pending.spawn)
		}
		e.source.Poll()
		return
	}

	// 3. An open dialog suspends movement and interaction polling.
	if e.dialogs.IsOpen() {
		p.Moving = false
		movement.Animate(p)
		e.source.Poll()
		return
	}

	// 4. Integrate movement against the current map.
	movement.Step(p, movement.Desired(in), dt, e.current)
	if p.Moving {
		e.sound.Play(audio.Step, e.now())
	}
	movement.Animate(p)

	// 5. Poll overlaps: auto-triggers first, then the hovered spot.
	e.poll(confirm)

	// 6. Announce a catalog that finished loading.
	e.source.Poll()
}

func (e *Engine) poll(confirm bool) {
	if e.current == nil {
		e.setHover(nil)
		return
	}
	over := world.SpotsOverlapping(e.current, e.State.Player.Rect())
	p := interact.Classify(over, e.Spent)
	for _, s := range p.Auto {
		e.Interact(s)
	}
	if e.fade != nil || e.dialogs.IsOpen() {
		e.setHover(nil)
		return
	}
	e.setHover(p.Hover)
	if confirm && p.Hover != nil {
		e.Interact(p.Hover)
	}
}

func (e *Engine) setHover(s *types.Spot) {
	e.hover = s
	e.State.HoverID = ""
	if s != nil {
		e.State.HoverID = s.ID
	}
}

// Confirm dispatches the hovered spot, if any.
func (e *Engine) Confirm() {
	if e.hover == nil || e.dialogs.IsOpen() || e.fade != nil {
		return
	}
	e.Interact(e.hover)
}

// Interact dispatches spot through its kind's handler and applies the
// outcome.
func (e *Engine) Interact(spot *types.Spot) {
	if spot == nil {
		return
	}
	e.dispatch.Interact(spot, e, func(out interact.Outcome) {
		e.apply(spot, out)
	})
}

func (e *Engine) apply(spot *types.Spot, out interact.Outcome) {
	mapID := e.State.MapID
	if out.Defer {
		e.deferInteract(spot)
		return
	}
	if out.Collect && !e.World.MarkCollected(mapID, spot.ID) {
		return
	}
	if out.Award && !e.World.MarkAwarded(mapID, spot.ID) {
		return
	}

	ctx := effects.Context{SpotID: spot.ID, MapID: mapID}
	e.applyEffects(out.Effects, ctx, true)
	for _, n := range out.Notices {
		e.notify(n)
	}
	if out.Dialog != nil {
		meta := out.Meta
		meta.SpotID = spot.ID
		meta.MapID = mapID
		e.open(out.Dialog, meta, out.OnClose)
	}
	if out.Cue != "" {
		e.sound.Play(out.Cue, e.now())
	}
	if out.Collect {
		if removed := e.World.Sweep(e.current); len(removed) > 0 {
			e.logger.Debug("spots removed", "map", mapID, "spots", removed)
		}
	}
}

// deferInteract dispatches spot again once the catalog is ready, if the
// player is still on the same map.
func (e *Engine) deferInteract(spot *types.Spot) {
	mapID := e.State.MapID
	key := mapID + "/" + spot.ID
	if e.deferred[key] {
		return
	}
	e.deferred[key] = true
	e.logger.Debug("interaction waits for catalog", "map", mapID, "spot", spot.ID)
	e.source.WhenReady(func(*catalog.Catalog) {
		delete(e.deferred, key)
		if e.State.MapID != mapID {
			return
		}
		e.Interact(spot)
	})
}

// LoadMap switches to the map with the given ID. Without Immediate the map
// is applied when the fade elapses. Unknown IDs are logged and ignored.
func (e *Engine) LoadMap(id string, opts LoadOptions) bool {
	m, ok := e.Defs.Map(id)
	if !ok {
		e.logger.Warn("map not found", "map", id)
		return false
	}
	if opts.Immediate {
		e.fade = nil
		e.applyMap(m, opts.Spawn)
		return true
	}
	e.fade = &pendingLoad{m: m, spawn: opts.Spawn, left: FadeDuration}
	e.setHover(nil)
	return true
}

func (e *Engine) applyMap(m *types.MapDef, spawn *types.Vec) {
	e.finish(e.dialogs.Close(dialog.ReasonTravel))

	e.current = m
	e.State.MapID = m.ID
	e.setHover(nil)

	p := &e.State.Player
	p.Pos = m.Start
	if spawn != nil {
		p.Pos = *spawn
	}
	movement.ResetAnimation(p)

	e.sound.SetMap(m.Music, m.StepSound)
	e.World.Sweep(m)
	e.logger.Info("map loaded", "map", m.ID)
	e.Bus.Publish(events.Event{Type: events.MapLoaded, Data: map[string]any{"id": m.ID, "map": m.Name}})
}

// subscribeHandlers routes the engine's own bus events to authored
// handlers. Events emitted by effects are dispatched in applyEffects.
func (e *Engine) subscribeHandlers() {
	seen := map[string]bool{}
	for _, h := range e.Defs.Handlers {
		switch h.EventType {
		case events.MapLoaded, events.InteractBefore, events.InteractAfter:
		default:
			continue
		}
		if seen[h.EventType] {
			continue
		}
		seen[h.EventType] = true
		e.Bus.Subscribe(h.EventType, e.runHandlers)
	}
}

func (e *Engine) runHandlers(ev events.Event) {
	effs := events.Dispatch([]events.Event{ev}, e.Defs.Handlers, e)
	e.applyEffects(effs, effects.Context{SpotID: ev.SpotID(), MapID: e.State.MapID}, false)
}

// applyEffects applies effs and carries out what they request. With
// dispatch set, authored handlers run once against the emitted events;
// effects of those handlers are not dispatched again.
func (e *Engine) applyEffects(effs []types.Effect, ctx effects.Context, dispatch bool) {
	if len(effs) == 0 {
		return
	}
	res := effects.Apply(effects.Session{State: e.State, Ledger: e.Ledger, Wallet: e.Wallet}, effs, ctx)
	e.carry(res)
	if dispatch {
		e.emit(res.Events, ctx)
		return
	}
	for _, ev := range res.Events {
		e.Bus.Publish(ev)
	}
}

// emit publishes evs and runs authored handlers against them once.
func (e *Engine) emit(evs []events.Event, ctx effects.Context) {
	for _, ev := range evs {
		e.Bus.Publish(ev)
	}
	e.applyEffects(events.Dispatch(evs, e.Defs.Handlers, e), ctx, false)
}

func (e *Engine) carry(res effects.Result) {
	for _, n := range res.Notices {
		e.notify(n)
	}
	for _, cue := range res.Sounds {
		e.sound.Play(audio.Cue(cue), e.now())
	}
	if res.CloseDialog {
		e.finish(e.dialogs.Close(dialog.ReasonExternal))
	}
	if res.OpenPreset != "" {
		e.OpenPreset(res.OpenPreset)
	}
	if res.Travel != nil {
		e.LoadMap(res.Travel.MapID, LoadOptions{Spawn: res.Travel.Spawn})
	}
	e.dialogs.Rerender()
}

// notify queues a notice, clamping its duration.
func (e *Engine) notify(n types.Notice) {
	if n.Text == "" {
		return
	}
	switch {
	case n.Duration == 0:
		n.Duration = interact.NoticeDefault
	case n.Duration < interact.NoticeMin:
		n.Duration = interact.NoticeMin
	}
	e.notices = append(e.notices, n)
	e.logger.Debug("notice", "text", n.Text)
}

// TakeNotices returns and clears the queued notices.
func (e *Engine) TakeNotices() []types.Notice {
	n := e.notices
	e.notices = nil
	return n
}

func (e *Engine) now() time.Duration {
	return time.Duration(e.State.Clock * float64(time.Millisecond))
}

// catalogReady rebuilds catalog-priced presets and refreshes any open
// dialog.
func (e *Engine) catalogReady(c *catalog.Catalog) {
	e.registerPresets(c)
	e.dialogs.Rerender()
}

// Flag implements rules.World.
func (e *Engine) Flag(name string) bool { return state.GetFlag(e.State, name) }

// Quantity implements rules.World.
func (e *Engine) Quantity(itemID string) int { return e.Ledger.Quantity(itemID) }

// Balance implements rules.World.
func (e *Engine) Balance() int { return e.Wallet.Balance() }

// MapID returns the ID of the current map.
func (e *Engine) MapID() string { return e.State.MapID }

// CanAfford implements dialog.Env.
func (e *Engine) CanAfford(cost int) bool { return e.Wallet.Balance() >= cost }

// CanCraft implements dialog.Env.
func (e *Engine) CanCraft(r types.Recipe) bool { return craft.CanCraft(e.Ledger, r) }

// Describe implements dialog.Env.
func (e *Engine) Describe(r types.Recipe) string { return craft.Describe(r, e.Ledger, e.source) }

// Spent reports whether a one-shot spot on the current map already fired.
func (e *Engine) Spent(s *types.Spot) bool { return e.World.Spent(e.State.MapID, s) }

// Preset returns a copy of a named preset.
func (e *Engine) Preset(id string) (types.DialogDef, bool) { return e.presets.Get(id) }

// Catalog returns the loaded catalog, or nil before it is ready.
func (e *Engine) Catalog() *catalog.Catalog { return e.source.Catalog() }
