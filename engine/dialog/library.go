package dialog

import (
	"maps"
	"slices"

	"github.com/nathoo/topdown/types"
)

// Library holds named dialog presets. Stored and returned values are deep
// copies, so callers never share state with the library.
type Library struct {
	presets map[string]types.DialogDef
}

// NewLibrary creates an empty library.
func NewLibrary() *Library {
	return &Library{presets: map[string]types.DialogDef{}}
}

// Register stores a copy of d under id, replacing any previous preset.
func (l *Library) Register(id string, d types.DialogDef) {
	if id == "" {
		return
	}
	l.presets[id] = Clone(d)
}

// Get returns a copy of the preset.
func (l *Library) Get(id string) (types.DialogDef, bool) {
	d, ok := l.presets[id]
	if !ok {
		return types.DialogDef{}, false
	}
	return Clone(d), true
}

// Has reports whether a preset exists.
func (l *Library) Has(id string) bool {
	_, ok := l.presets[id]
	return ok
}

// IDs returns the registered preset IDs, sorted.
func (l *Library) IDs() []string {
	return slices.Sorted(maps.Keys(l.presets))
}

// Clone deep-copies a dialog definition.
func Clone(d types.DialogDef) types.DialogDef {
	d.Lines = slices.Clone(d.Lines)
	d.Items = slices.Clone(d.Items)
	d.OnClose = cloneHook(d.OnClose)
	if d.Options != nil {
		opts := make([]types.OptionDef, len(d.Options))
		for i, o := range d.Options {
			if o.Next != nil {
				next := Clone(*o.Next)
				o.Next = &next
			}
			o.Requires = cloneConditions(o.Requires)
			o.Effects = cloneEffects(o.Effects)
			opts[i] = o
		}
		d.Options = opts
	}
	return d
}

func cloneHook(h types.Hook) types.Hook {
	return types.Hook{Requires: cloneConditions(h.Requires), Effects: cloneEffects(h.Effects)}
}

func cloneEffects(effs []types.Effect) []types.Effect {
	if effs == nil {
		return nil
	}
	out := make([]types.Effect, len(effs))
	for i, e := range effs {
		out[i] = types.Effect{Type: e.Type, Params: maps.Clone(e.Params)}
	}
	return out
}

func cloneConditions(conds []types.Condition) []types.Condition {
	if conds == nil {
		return nil
	}
	out := make([]types.Condition, len(conds))
	for i, c := range conds {
		out[i] = cloneCondition(c)
	}
	return out
}

func cloneCondition(c types.Condition) types.Condition {
	c.Params = maps.Clone(c.Params)
	if c.Inner != nil {
		inner := cloneCondition(*c.Inner)
		c.Inner = &inner
	}
	return c
}
