package engine

import (
	"fmt"
	"time"

	"github.com/nathoo/topdown/audio"
	"github.com/nathoo/topdown/engine/craft"
	"github.com/nathoo/topdown/engine/dialog"
	"github.com/nathoo/topdown/engine/effects"
	"github.com/nathoo/topdown/engine/events"
	"github.com/nathoo/topdown/engine/ledger"
	"github.com/nathoo/topdown/engine/rules"
	"github.com/nathoo/topdown/types"
)

// open starts a dialog session. The inventory panel and dialogs are
// mutually exclusive.
func (e *Engine) open(c dialog.Content, meta dialog.Meta, onClose types.Hook) {
	e.State.InventoryOpen = false
	e.State.Player.Moving = false
	e.dialogs.Open(c, meta, onClose)
	e.logger.Debug("dialog opened", "kind", c.Kind(), "spot", meta.SpotID, "title", meta.Title)
}

// OpenPreset opens a named preset. Unknown presets are logged and ignored.
func (e *Engine) OpenPreset(id string) bool {
	def, ok := e.presets.Get(id)
	if !ok {
		e.logger.Warn("preset not found", "preset", id)
		return false
	}
	meta := dialog.MergeMeta(def.Meta, dialog.Meta{MapID: e.State.MapID})
	e.open(dialog.FromDef(def), meta, types.Hook{})
	return true
}

// finish runs the close hooks of a finished session in order: content
// hook, then caller hook. A failing hook is logged and the next one runs.
func (e *Engine) finish(closed dialog.Closed, ok bool) {
	if !ok {
		return
	}
	e.logger.Debug("dialog closed", "kind", closed.Kind, "reason", closed.Reason, "spot", closed.Meta.SpotID)
	ctx := effects.Context{SpotID: closed.Meta.SpotID, MapID: closed.Meta.MapID}
	for _, h := range closed.Hooks {
		e.runHook(h, ctx, closed.Reason)
	}
}

func (e *Engine) runHook(h types.Hook, ctx effects.Context, reason string) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("dialog close hook failed", "spot", ctx.SpotID, "reason", reason, "panic", r)
		}
	}()
	if !rules.EvalAllConditions(h.Requires, e, rules.Context{SpotID: ctx.SpotID}) {
		return
	}
	e.applyEffects(h.Effects, ctx, true)
}

// Dialog returns the open session, or nil.
func (e *Engine) Dialog() *dialog.Session {
	return e.dialogs.Session()
}

// DialogNav returns the navigation available on the open session.
func (e *Engine) DialogNav() dialog.Nav {
	return e.dialogs.Nav()
}

// DialogRenders counts dialog renders, for front ends that redraw on change.
func (e *Engine) DialogRenders() uint64 {
	return e.dialogs.Renders()
}

// Forward advances a sequence, closing it past the last line.
func (e *Engine) Forward() {
	e.finish(e.dialogs.Forward())
}

// Back steps a sequence back or closes any other content.
func (e *Engine) Back() {
	e.finish(e.dialogs.Back())
}

// CloseDialog closes the open session, if any.
func (e *Engine) CloseDialog() {
	e.finish(e.dialogs.Close(dialog.ReasonExternal))
}

// SelectOption picks option i of an open choice. The option's effects run
// first; if they did not replace or close the session, the dialog chains to
// the option's follow-up or closes. Returns false for an invalid or
// unavailable option.
func (e *Engine) SelectOption(i int) bool {
	opt, ok := e.dialogs.Option(i)
	if !ok {
		return false
	}
	meta := e.dialogs.Session().Meta
	if !rules.EvalAllConditions(opt.Requires, e, rules.Context{SpotID: meta.SpotID}) {
		e.notify(types.Notice{Text: "You can't choose that yet."})
		return false
	}

	serial := e.dialogs.Serial()
	e.applyEffects(opt.Effects, effects.Context{SpotID: meta.SpotID, MapID: meta.MapID}, true)
	if e.dialogs.Serial() != serial {
		return true
	}

	var next dialog.Content
	switch {
	case opt.Next != nil:
		next = dialog.FromDef(dialog.Clone(*opt.Next))
	case opt.NextPreset != "":
		if def, ok := e.presets.Get(opt.NextPreset); ok {
			next = dialog.FromDef(def)
		} else {
			e.logger.Warn("preset not found", "preset", opt.NextPreset, "spot", meta.SpotID)
		}
	}
	e.finish(e.dialogs.Follow(opt, next))
	return true
}

// Buy purchases one unit of shop item i. The wallet is debited all or
// nothing; a short balance leaves both wallet and ledger untouched.
func (e *Engine) Buy(i int) bool {
	item, ok := e.dialogs.ShopItem(i)
	if !ok {
		return false
	}
	meta := e.dialogs.Session().Meta
	ctx := effects.Context{SpotID: meta.SpotID, MapID: meta.MapID}

	if !e.Wallet.Debit(float64(item.Cost)) {
		e.notify(types.Notice{
			Text:     fmt.Sprintf("Not enough coins to buy %s.", item.Name),
			Duration: 1600 * time.Millisecond,
		})
		return false
	}
	lm := ledger.Meta{Name: item.Name, Type: item.Type}
	if lm.Type == "" {
		lm.Type = "media"
	}
	if item.Description != "" {
		lm.Description = &item.Description
	}
	entry := e.Ledger.AddItem(item.ID, 1, lm)

	e.notify(types.Notice{Text: fmt.Sprintf("You bought %s!", item.Name), Duration: 1400 * time.Millisecond})
	e.sound.Play(audio.Pickup, e.now())
	e.emit([]events.Event{
		{Type: effects.CoinsSpent, Data: map[string]any{"amount": item.Cost, "balance": e.Wallet.Balance()}},
		{Type: effects.ItemGained, Data: map[string]any{"item": item.ID, "qty": 1, "total": entry.Qty}},
	}, ctx)
	e.dialogs.Rerender()
	return true
}

// CraftAt crafts recipe i of an open craft session and re-renders it in
// place, so several items can be crafted in one session.
func (e *Engine) CraftAt(i int) bool {
	r, ok := e.dialogs.Recipe(i)
	if !ok {
		return false
	}
	meta := e.dialogs.Session().Meta
	if err := craft.Craft(e.Ledger, r.Recipe); err != nil {
		e.logger.Debug("craft refused", "recipe", r.ID, "error", err)
		e.notify(types.Notice{Text: "Missing resources for this project.", Duration: 1600 * time.Millisecond})
		return false
	}

	qty := max(1, r.OutputQty)
	label := r.Name
	if qty > 1 {
		label = fmt.Sprintf("%dx %s", qty, r.Name)
	}
	e.notify(types.Notice{Text: fmt.Sprintf("You crafted %s!", label), Duration: 1600 * time.Millisecond})
	e.emit([]events.Event{
		{Type: effects.ItemGained, Data: map[string]any{"item": r.ID, "qty": qty, "total": e.Ledger.Quantity(r.ID)}},
	}, effects.Context{SpotID: meta.SpotID, MapID: meta.MapID})
	e.dialogs.Rerender()
	return true
}
