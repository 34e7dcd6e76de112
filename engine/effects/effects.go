// Package effects implements centralized state mutation via the Apply function.
// Every effect type is one atomic operation. Effects that need the engine
// (travel, dialogs) are returned in the Result for the caller to carry out.
package effects

import (
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/nathoo/topdown/engine/events"
	"github.com/nathoo/topdown/engine/ledger"
	"github.com/nathoo/topdown/types"
)

// Events emitted by effects. Authored handlers may listen for them.
const (
	CoinsGained = "coins:gained"
	CoinsSpent  = "coins:spent"
	ItemGained  = "item:gained"
	ItemLost    = "item:lost"
	FlagChanged = "flag:changed"
)

// Session is the mutable state effects operate on.
type Session struct {
	State  *types.State
	Ledger *ledger.Ledger
	Wallet *ledger.Wallet
}

// Context carries the origin of the effects for template interpolation.
type Context struct {
	SpotID string
	MapID  string
}

// Travel is a requested map change.
type Travel struct {
	MapID string
	Spawn *types.Vec
}

// Result is what Apply produced beyond direct state mutation.
type Result struct {
	Notices     []types.Notice
	Events      []events.Event
	Travel      *Travel
	CloseDialog bool
	OpenPreset  string
	Sounds      []string
}

// Merge appends other to r. A later travel or preset replaces an earlier one.
func (r *Result) Merge(other Result) {
	r.Notices = append(r.Notices, other.Notices...)
	r.Events = append(r.Events, other.Events...)
	if other.Travel != nil {
		r.Travel = other.Travel
	}
	if other.OpenPreset != "" {
		r.OpenPreset = other.OpenPreset
	}
	r.CloseDialog = r.CloseDialog || other.CloseDialog
	r.Sounds = append(r.Sounds, other.Sounds...)
}

// Apply applies a list of effects in order. Unknown effect types are ignored.
func Apply(s Session, effs []types.Effect, ctx Context) Result {
	var res Result

	for _, eff := range effs {
		switch eff.Type {
		case "notify":
			text, _ := eff.Params["text"].(string)
			res.Notices = append(res.Notices, types.Notice{
				Text:     interpolate(text, s, ctx),
				Duration: millis(eff.Params["duration"]),
			})

		case "give_coins":
			amount := ledger.Amount(eff.Params["amount"])
			before := s.Wallet.Balance()
			after := s.Wallet.Credit(amount)
			if after > before {
				res.Events = append(res.Events, events.Event{
					Type: CoinsGained,
					Data: map[string]any{"amount": after - before, "balance": after},
				})
			}
			if msg, ok := eff.Params["message"].(string); ok && msg != "" {
				res.Notices = append(res.Notices, types.Notice{Text: interpolate(msg, s, ctx)})
			}

		case "take_coins":
			amount := ledger.Amount(eff.Params["amount"])
			before := s.Wallet.Balance()
			if s.Wallet.Debit(amount) && s.Wallet.Balance() < before {
				res.Events = append(res.Events, events.Event{
					Type: CoinsSpent,
					Data: map[string]any{"amount": before - s.Wallet.Balance(), "balance": s.Wallet.Balance()},
				})
			}

		case "give_item":
			item, _ := eff.Params["item"].(string)
			if item == "" {
				continue
			}
			meta := ledger.Meta{}
			meta.Name, _ = eff.Params["name"].(string)
			meta.Type, _ = eff.Params["item_type"].(string)
			if d, ok := eff.Params["description"].(string); ok {
				meta.Description = &d
			}
			qty := ledger.Quantity(eff.Params["qty"])
			e := s.Ledger.AddItem(item, qty, meta)
			res.Events = append(res.Events, events.Event{
				Type: ItemGained,
				Data: map[string]any{"item": item, "qty": qty, "total": e.Qty},
			})

		case "remove_item":
			item, _ := eff.Params["item"].(string)
			if s.Ledger.RemoveItem(item, ledger.Quantity(eff.Params["qty"])) {
				res.Events = append(res.Events, events.Event{
					Type: ItemLost,
					Data: map[string]any{"item": item},
				})
			}

		case "set_flag":
			flag, _ := eff.Params["flag"].(string)
			value, ok := eff.Params["value"].(bool)
			if !ok {
				value = true
			}
			s.State.Flags[flag] = value
			res.Events = append(res.Events, events.Event{
				Type: FlagChanged,
				Data: map[string]any{"flag": flag, "value": value},
			})

		case "travel":
			id, _ := eff.Params["map"].(string)
			t := &Travel{MapID: id}
			x, okX := eff.Params["x"]
			y, okY := eff.Params["y"]
			if okX && okY {
				t.Spawn = &types.Vec{X: ledger.Amount(x), Y: ledger.Amount(y)}
			}
			res.Travel = t

		case "close_dialog":
			res.CloseDialog = true

		case "open_preset":
			res.OpenPreset, _ = eff.Params["preset"].(string)

		case "sound":
			if cue, ok := eff.Params["cue"].(string); ok && cue != "" {
				res.Sounds = append(res.Sounds, cue)
			}

		case "stop":
			return res

		}
	}

	return res
}

// Types lists the effect types understood by Apply.
var Types = []string{
	"notify", "give_coins", "take_coins", "give_item", "remove_item",
	"set_flag", "travel", "close_dialog", "open_preset", "sound", "stop",
}

// Known reports whether an effect type is understood by Apply.
func Known(effType string) bool {
	return slices.Contains(Types, effType)
}

// interpolate replaces template variables in text.
func interpolate(text string, s Session, ctx Context) string {
	if !strings.Contains(text, "{") {
		return text
	}
	r := strings.NewReplacer(
		"{coins}", strconv.Itoa(s.Wallet.Balance()),
		"{spot}", ctx.SpotID,
		"{map}", ctx.MapID,
	)
	return r.Replace(text)
}

func millis(v any) time.Duration {
	ms := ledger.Amount(v)
	if ms <= 0 {
		return 0
	}
	return time.Duration(ms * float64(time.Millisecond))
}
