package loader

import (
	"fmt"
	"slices"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/nathoo/topdown/engine/effects"
	"github.com/nathoo/topdown/engine/events"
	"github.com/nathoo/topdown/engine/rules"
	"github.com/nathoo/topdown/engine/state"
	"github.com/nathoo/topdown/types"
)

// ValidationError collects all validation errors and warnings.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s):\n  %s",
		len(e.Errors), strings.Join(e.Errors, "\n  "))
}

func (e *ValidationError) errorf(format string, args ...any) {
	e.Errors = append(e.Errors, fmt.Sprintf(format, args...))
}

func (e *ValidationError) warnf(format string, args ...any) {
	e.Warnings = append(e.Warnings, fmt.Sprintf(format, args...))
}

// builtinPresets are registered by the engine and may be referenced
// without being authored.
var builtinPresets = []string{"record_shop"}

// handlerEvents are the events authored handlers can listen for.
var handlerEvents = []string{
	events.Tick, events.MapLoaded, events.InteractBefore, events.InteractAfter,
	effects.CoinsGained, effects.CoinsSpent, effects.ItemGained, effects.ItemLost, effects.FlagChanged,
}

// validate checks the compiled defs for referential integrity. Warnings are
// returned even when validation passes.
func validate(defs *state.Defs) ([]string, error) {
	ve := &ValidationError{}
	mapIDs := defs.MapOrder
	presetIDs := presetNames(defs)

	if defs.Game.Title == "" {
		ve.errorf("Game.title is required")
	}
	if len(defs.Maps) == 0 {
		ve.errorf("no maps defined")
	}
	if start := defs.Game.Start; start != "" {
		if _, ok := defs.Maps[start]; !ok {
			ve.errorf("start map %q not found in defined maps%s", start, didYouMean(start, mapIDs))
		}
	}

	for _, id := range defs.MapOrder {
		validateMap(defs.Maps[id], defs, mapIDs, presetIDs, ve)
	}

	for id, preset := range defs.Presets {
		validateDialog("preset "+quote(id), preset, defs, mapIDs, presetIDs, ve)
	}

	for _, h := range defs.Handlers {
		if !slices.Contains(handlerEvents, h.EventType) {
			ve.warnf("handler listens for unknown event %q%s", h.EventType, didYouMean(h.EventType, handlerEvents))
		}
		validateConditions(h.Conditions, defs, mapIDs, ve)
		validateEffects(h.Effects, defs, mapIDs, presetIDs, ve)
	}

	if len(ve.Errors) > 0 {
		return ve.Warnings, ve
	}
	return ve.Warnings, nil
}

func validateMap(m *types.MapDef, defs *state.Defs, mapIDs, presetIDs []string, ve *ValidationError) {
	if m.Width <= 0 || m.Height <= 0 {
		ve.errorf("map %q needs a positive width and height", m.ID)
	}
	if m.Start.X < 0 || m.Start.Y < 0 || m.Start.X > m.Width || m.Start.Y > m.Height {
		ve.warnf("map %q start %v,%v lies outside the map", m.ID, m.Start.X, m.Start.Y)
	}
	for i, c := range m.Colliders {
		if c.W <= 0 || c.H <= 0 {
			ve.warnf("map %q collider %d has an empty area", m.ID, i+1)
		}
	}

	seen := map[string]bool{}
	for _, s := range m.Spots {
		where := fmt.Sprintf("spot %q on map %q", s.ID, m.ID)
		if seen[s.ID] {
			ve.errorf("duplicate %s", where)
		}
		seen[s.ID] = true

		if s.Rect.W <= 0 || s.Rect.H <= 0 {
			ve.errorf("%s has an empty area", where)
		}
		if s.Rect.X+s.Rect.W < 0 || s.Rect.Y+s.Rect.H < 0 || s.Rect.X > m.Width || s.Rect.Y > m.Height {
			ve.warnf("%s lies outside the map", where)
		}

		switch s.Kind {
		case types.SpotResource:
			if s.ResourceID == "" {
				ve.errorf("%s needs an item", where)
			}
		case types.SpotBench:
			if s.BenchID == "" {
				ve.errorf("%s needs a bench", where)
			}
		case types.SpotGate:
			if s.Destination == "" {
				ve.errorf("%s needs a destination", where)
			} else if _, ok := defs.Maps[s.Destination]; !ok {
				ve.errorf("%s leads to undefined map %q%s", where, s.Destination, didYouMean(s.Destination, mapIDs))
			}
		case types.SpotPreset:
			if s.Preset == "" {
				ve.errorf("%s needs a preset", where)
			}
		}
		if s.Preset != "" && !slices.Contains(presetIDs, s.Preset) {
			ve.warnf("%s uses undefined preset %q%s", where, s.Preset, didYouMean(s.Preset, presetIDs))
		}
		if s.Dialog != nil {
			validateDialog(where, *s.Dialog, defs, mapIDs, presetIDs, ve)
		}
		for _, it := range s.Items {
			validateShopItem(where, it, ve)
		}
	}
}

func validateDialog(where string, d types.DialogDef, defs *state.Defs, mapIDs, presetIDs []string, ve *ValidationError) {
	switch d.Kind {
	case types.DialogSequence:
		if len(d.Lines) == 0 {
			ve.warnf("%s has no lines", where)
		}
	case types.DialogChoice:
		if len(d.Options) == 0 {
			ve.errorf("%s is a choice without options", where)
		}
	case types.DialogShop:
		for _, it := range d.Items {
			validateShopItem(where, it, ve)
		}
	case types.DialogCraft:
		ve.errorf("%s: craft dialogs are built from the catalog and cannot be authored", where)
	default:
		kinds := []string{string(types.DialogSequence), string(types.DialogChoice), string(types.DialogShop)}
		ve.errorf("%s has unknown dialog kind %q%s", where, d.Kind, didYouMean(string(d.Kind), kinds))
	}

	validateConditions(d.OnClose.Requires, defs, mapIDs, ve)
	validateEffects(d.OnClose.Effects, defs, mapIDs, presetIDs, ve)

	for i, opt := range d.Options {
		label := fmt.Sprintf("%s option %d", where, i+1)
		if opt.Label == "" {
			ve.errorf("%s needs a label", label)
		}
		if opt.NextPreset != "" && !slices.Contains(presetIDs, opt.NextPreset) {
			ve.warnf("%s chains to undefined preset %q%s", label, opt.NextPreset, didYouMean(opt.NextPreset, presetIDs))
		}
		if opt.Next != nil {
			validateDialog(label, *opt.Next, defs, mapIDs, presetIDs, ve)
		}
		validateConditions(opt.Requires, defs, mapIDs, ve)
		validateEffects(opt.Effects, defs, mapIDs, presetIDs, ve)
	}
}

func validateShopItem(where string, it types.ShopItemDef, ve *ValidationError) {
	if it.ID == "" {
		ve.errorf("%s lists a shop item without id", where)
	}
	if it.Cost < 0 {
		ve.errorf("%s item %q has a negative cost", where, it.ID)
	}
}

func validateConditions(conditions []types.Condition, defs *state.Defs, mapIDs []string, ve *ValidationError) {
	for _, cond := range conditions {
		if !rules.Known(cond.Type) {
			ve.errorf("unknown condition type %q%s", cond.Type, didYouMean(cond.Type, rules.Types))
			continue
		}

		switch cond.Type {
		case "in_map":
			if id, ok := cond.Params["map"].(string); ok {
				if _, ok := defs.Maps[id]; !ok {
					ve.errorf("condition in_map references undefined map %q%s", id, didYouMean(id, mapIDs))
				}
			}
		case "not":
			if cond.Inner == nil {
				ve.errorf("condition not needs an inner condition")
			} else {
				validateConditions([]types.Condition{*cond.Inner}, defs, mapIDs, ve)
			}
		}
	}
}

func validateEffects(effs []types.Effect, defs *state.Defs, mapIDs, presetIDs []string, ve *ValidationError) {
	for _, eff := range effs {
		if !effects.Known(eff.Type) {
			ve.errorf("unknown effect type %q%s", eff.Type, didYouMean(eff.Type, effects.Types))
			continue
		}

		switch eff.Type {
		case "travel":
			if id, ok := eff.Params["map"].(string); ok {
				if _, ok := defs.Maps[id]; !ok {
					ve.errorf("effect travel references undefined map %q%s", id, didYouMean(id, mapIDs))
				}
			}
		case "open_preset":
			if id, ok := eff.Params["preset"].(string); ok && !slices.Contains(presetIDs, id) {
				ve.warnf("effect open_preset references undefined preset %q%s", id, didYouMean(id, presetIDs))
			}
		}
	}
}

// presetNames returns the authored and built-in preset IDs, sorted.
func presetNames(defs *state.Defs) []string {
	names := slices.Clone(builtinPresets)
	for id := range defs.Presets {
		if !slices.Contains(names, id) {
			names = append(names, id)
		}
	}
	slices.Sort(names)
	return names
}

func spotKindNames() []string {
	names := make([]string, 0, len(types.SpotKinds))
	for _, k := range types.SpotKinds {
		names = append(names, k.String())
	}
	return names
}

// didYouMean returns ` (did you mean "x"?)` for the closest candidate, or ""
// when nothing is close enough.
func didYouMean(name string, candidates []string) string {
	if s, ok := suggest(name, candidates); ok {
		return fmt.Sprintf(" (did you mean %q?)", s)
	}
	return ""
}

// suggest returns the candidate closest to name by edit distance. Names
// more than a third of their length away are not suggested.
func suggest(name string, candidates []string) (string, bool) {
	if name == "" {
		return "", false
	}
	best, bestDist := "", -1
	for _, c := range candidates {
		d := levenshtein.ComputeDistance(strings.ToLower(name), strings.ToLower(c))
		if bestDist < 0 || d < bestDist || (d == bestDist && c < best) {
			best, bestDist = c, d
		}
	}
	if bestDist < 0 || bestDist > max(2, len(name)/3) {
		return "", false
	}
	return best, true
}

func quote(s string) string {
	return fmt.Sprintf("%q", s)
}
