// Package loader loads Lua game content into Go structs at startup.
// The Lua VM is discarded after loading, so no Lua runs during play.
package loader

import (
	"fmt"
	"sort"

	"github.com/nathoo/topdown/engine/state"
	"github.com/nathoo/topdown/types"
	lua "github.com/yuin/gopher-lua"
)

// rawMap holds a map table before compilation.
type rawMap struct {
	id    string
	table *lua.LTable
}

// rawPreset holds a preset dialog table before compilation.
type rawPreset struct {
	id    string
	table *lua.LTable
}

// rawHandler holds an event handler before compilation.
type rawHandler struct {
	eventType string
	table     *lua.LTable
}

// getString returns a string field from a Lua table, or "" if missing.
func getString(tbl *lua.LTable, key string) string {
	v := tbl.RawGetString(key)
	if s, ok := v.(lua.LString); ok {
		return string(s)
	}
	return ""
}

// getBool returns a bool field from a Lua table, or the default if missing.
func getBool(tbl *lua.LTable, key string, def bool) bool {
	v := tbl.RawGetString(key)
	if b, ok := v.(lua.LBool); ok {
		return bool(b)
	}
	return def
}

// getNumber returns a numeric field from a Lua table, or 0 if missing.
func getNumber(tbl *lua.LTable, key string) float64 {
	v := tbl.RawGetString(key)
	if n, ok := v.(lua.LNumber); ok {
		return float64(n)
	}
	return 0
}

// getInt returns an int field from a Lua table, or 0 if missing.
func getInt(tbl *lua.LTable, key string) int {
	return int(getNumber(tbl, key))
}

// getIntPtr returns an int field, or nil if it is missing.
func getIntPtr(tbl *lua.LTable, key string) *int {
	v, ok := tbl.RawGetString(key).(lua.LNumber)
	if !ok {
		return nil
	}
	n := int(v)
	return &n
}

// getTable returns a table field from a Lua table, or nil if missing.
func getTable(tbl *lua.LTable, key string) *lua.LTable {
	v := tbl.RawGetString(key)
	if t, ok := v.(*lua.LTable); ok {
		return t
	}
	return nil
}

// eachTable calls fn for every table element of the array part of tbl.
func eachTable(tbl *lua.LTable, fn func(*lua.LTable)) {
	if tbl == nil {
		return
	}
	for i := 1; i <= tbl.Len(); i++ {
		if t, ok := tbl.RawGetInt(i).(*lua.LTable); ok {
			fn(t)
		}
	}
}

// stringList returns the string elements of the array part of tbl.
func stringList(tbl *lua.LTable) []string {
	if tbl == nil {
		return nil
	}
	var out []string
	for i := 1; i <= tbl.Len(); i++ {
		if s, ok := tbl.RawGetInt(i).(lua.LString); ok {
			out = append(out, string(s))
		}
	}
	return out
}

// toGoValue converts a Lua value to a Go value recursively.
func toGoValue(v lua.LValue) any {
	switch val := v.(type) {
	case lua.LBool:
		return bool(val)
	case lua.LNumber:
		f := float64(val)
		if f == float64(int(f)) {
			return int(f)
		}
		return f
	case *lua.LNilType:
		return nil
	case lua.LString:
		return string(val)
	case *lua.LTable:
		maxN := val.MaxN()
		if maxN > 0 {
			arr := make([]any, 0, maxN)
			for i := 1; i <= maxN; i++ {
				arr = append(arr, toGoValue(val.RawGetInt(i)))
			}
			return arr
		}
		m := map[string]any{}
		val.ForEach(func(k, v lua.LValue) {
			if ks, ok := k.(lua.LString); ok {
				m[string(ks)] = toGoValue(v)
			}
		})
		return m
	default:
		return nil
	}
}

// compile converts all collected Lua data into a Defs struct.
func compile(coll *collector) (*state.Defs, error) {
	defs := &state.Defs{
		Maps:    map[string]*types.MapDef{},
		Presets: map[string]types.DialogDef{},
	}

	if coll.game == nil {
		return nil, fmt.Errorf("no Game{} definition found")
	}
	defs.Game = compileGame(coll.game)

	for _, raw := range coll.maps {
		if _, dup := defs.Maps[raw.id]; dup {
			return nil, fmt.Errorf("duplicate map %q", raw.id)
		}
		m, err := compileMap(raw)
		if err != nil {
			return nil, fmt.Errorf("compiling map %s: %w", raw.id, err)
		}
		defs.Maps[m.ID] = m
		defs.MapOrder = append(defs.MapOrder, m.ID)
	}

	for _, raw := range coll.presets {
		if _, dup := defs.Presets[raw.id]; dup {
			return nil, fmt.Errorf("duplicate preset %q", raw.id)
		}
		defs.Presets[raw.id] = compileDialog(raw.table)
	}

	for _, raw := range coll.handlers {
		defs.Handlers = append(defs.Handlers, compileHandler(raw))
	}

	return defs, nil
}

func compileGame(tbl *lua.LTable) types.GameDef {
	return types.GameDef{
		Title:   getString(tbl, "title"),
		Author:  getString(tbl, "author"),
		Version: getString(tbl, "version"),
		Start:   getString(tbl, "start"),
		Intro:   getString(tbl, "intro"),
	}
}

func compileMap(raw rawMap) (*types.MapDef, error) {
	tbl := raw.table
	m := &types.MapDef{
		ID:         raw.id,
		Name:       getString(tbl, "name"),
		Width:      getNumber(tbl, "width"),
		Height:     getNumber(tbl, "height"),
		Background: getString(tbl, "background"),
		BgColor:    getString(tbl, "bg_color"),
		Music:      getString(tbl, "music"),
		StepSound:  getString(tbl, "step"),
	}
	if m.Name == "" {
		m.Name = raw.id
	}
	if start := getTable(tbl, "start"); start != nil {
		m.Start = compileVec(start)
	}
	eachTable(getTable(tbl, "colliders"), func(c *lua.LTable) {
		m.Colliders = append(m.Colliders, compileRect(c))
	})

	var err error
	eachTable(getTable(tbl, "spots"), func(s *lua.LTable) {
		if err != nil {
			return
		}
		var spot types.Spot
		spot, err = compileSpot(s)
		if err == nil {
			m.Spots = append(m.Spots, spot)
		}
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

// compileVec reads { x = .., y = .. } or { x, y }.
func compileVec(tbl *lua.LTable) types.Vec {
	if tbl.Len() >= 2 {
		return types.Vec{X: index(tbl, 1), Y: index(tbl, 2)}
	}
	return types.Vec{X: getNumber(tbl, "x"), Y: getNumber(tbl, "y")}
}

// compileRect reads { x = .., y = .., w = .., h = .. } or { x, y, w, h }.
func compileRect(tbl *lua.LTable) types.Rect {
	if tbl.Len() >= 4 {
		return types.Rect{X: index(tbl, 1), Y: index(tbl, 2), W: index(tbl, 3), H: index(tbl, 4)}
	}
	return types.Rect{
		X: getNumber(tbl, "x"),
		Y: getNumber(tbl, "y"),
		W: getNumber(tbl, "w"),
		H: getNumber(tbl, "h"),
	}
}

func index(tbl *lua.LTable, i int) float64 {
	if n, ok := tbl.RawGetInt(i).(lua.LNumber); ok {
		return float64(n)
	}
	return 0
}

func compileSpot(tbl *lua.LTable) (types.Spot, error) {
	id := getString(tbl, "id")
	if id == "" {
		return types.Spot{}, fmt.Errorf("spot without id")
	}
	spot := types.Spot{
		ID:           id,
		Kind:         types.ParseSpotKind(getString(tbl, "kind")),
		Sprite:       getString(tbl, "sprite"),
		Color:        getString(tbl, "color"),
		Name:         getString(tbl, "name"),
		Title:        getString(tbl, "title"),
		Subtitle:     getString(tbl, "subtitle"),
		Prompt:       getString(tbl, "prompt"),
		Text:         getString(tbl, "text"),
		Value:        getInt(tbl, "value"),
		ResourceID:   getString(tbl, "item"),
		ResourceName: getString(tbl, "item_name"),
		ResourceDesc: getString(tbl, "item_description"),
		BenchID:      getString(tbl, "bench"),
		Destination:  getString(tbl, "to"),
		Confirm:      getBool(tbl, "confirm", true),
		Preset:       getString(tbl, "preset"),
	}
	if spot.Kind == types.SpotUnknown {
		kind := getString(tbl, "kind")
		return types.Spot{}, fmt.Errorf("spot %q has unknown kind %q%s", id, kind, didYouMean(kind, spotKindNames()))
	}
	if spot.Value == 0 {
		spot.Value = getInt(tbl, "qty")
	}
	if at := getTable(tbl, "at"); at != nil {
		spot.Rect = compileRect(at)
	} else {
		spot.Rect = compileRect(tbl)
	}
	if d := getTable(tbl, "dialog"); d != nil {
		def := compileDialog(d)
		spot.Dialog = &def
	}
	eachTable(getTable(tbl, "items"), func(it *lua.LTable) {
		spot.Items = append(spot.Items, compileShopItem(it))
	})
	return spot, nil
}

// compileDialog compiles a dialog table. Without an explicit kind, options
// make a choice, items make a shop and anything else is a sequence.
func compileDialog(tbl *lua.LTable) types.DialogDef {
	d := types.DialogDef{
		Kind:   types.DialogKind(getString(tbl, "kind")),
		Prompt: getString(tbl, "prompt"),
		Intro:  getString(tbl, "intro"),
		Meta: types.DialogMeta{
			Title:    getString(tbl, "title"),
			Subtitle: getString(tbl, "subtitle"),
			Speaker:  getString(tbl, "speaker"),
			Portrait: getString(tbl, "portrait"),
		},
	}

	// Lines may be listed under lines = {...} or directly in the table.
	if lines := getTable(tbl, "lines"); lines != nil {
		d.Lines = stringList(lines)
	} else {
		d.Lines = stringList(tbl)
	}
	eachTable(getTable(tbl, "options"), func(o *lua.LTable) {
		d.Options = append(d.Options, compileOption(o))
	})
	eachTable(getTable(tbl, "items"), func(it *lua.LTable) {
		d.Items = append(d.Items, compileShopItem(it))
	})
	if hook := getTable(tbl, "on_close"); hook != nil {
		d.OnClose = compileHook(hook)
	}

	if d.Kind == "" {
		switch {
		case len(d.Options) > 0:
			d.Kind = types.DialogChoice
		case len(d.Items) > 0:
			d.Kind = types.DialogShop
		default:
			d.Kind = types.DialogSequence
		}
	}
	return d
}

func compileOption(tbl *lua.LTable) types.OptionDef {
	opt := types.OptionDef{
		Label:       getString(tbl, "label"),
		Description: getString(tbl, "description"),
		NextPreset:  getString(tbl, "next_preset"),
		KeepOpen:    getBool(tbl, "keep_open", false),
	}
	if next := getTable(tbl, "next"); next != nil {
		def := compileDialog(next)
		opt.Next = &def
	}
	if reqTbl := getTable(tbl, "requires"); reqTbl != nil {
		opt.Requires = compileConditions(reqTbl)
	}
	if effTbl := getTable(tbl, "effects"); effTbl != nil {
		opt.Effects = compileEffects(effTbl)
	}
	return opt
}

func compileShopItem(tbl *lua.LTable) types.ShopItemDef {
	return types.ShopItemDef{
		ID:          getString(tbl, "id"),
		Name:        getString(tbl, "name"),
		Cost:        getInt(tbl, "cost"),
		Description: getString(tbl, "description"),
		ActionLabel: getString(tbl, "action"),
		Type:        getString(tbl, "type"),
	}
}

func compileHook(tbl *lua.LTable) types.Hook {
	var h types.Hook
	if reqTbl := getTable(tbl, "requires"); reqTbl != nil {
		h.Requires = compileConditions(reqTbl)
	}
	if effTbl := getTable(tbl, "effects"); effTbl != nil {
		h.Effects = compileEffects(effTbl)
	}
	return h
}

func compileConditions(tbl *lua.LTable) []types.Condition {
	var conditions []types.Condition
	eachTable(tbl, func(condTbl *lua.LTable) {
		conditions = append(conditions, compileCondition(condTbl))
	})
	return conditions
}

func compileCondition(tbl *lua.LTable) types.Condition {
	condType := getString(tbl, "type")

	if condType == "not" {
		if innerTbl := getTable(tbl, "inner"); innerTbl != nil {
			inner := compileCondition(innerTbl)
			return types.Condition{Type: "not", Inner: &inner}
		}
	}

	return types.Condition{
		Type:   condType,
		Params: params(tbl),
	}
}

func compileEffects(tbl *lua.LTable) []types.Effect {
	var effects []types.Effect
	eachTable(tbl, func(effTbl *lua.LTable) {
		effects = append(effects, types.Effect{
			Type:   getString(effTbl, "type"),
			Params: params(effTbl),
		})
	})
	return effects
}

// params returns every string-keyed field but "type".
func params(tbl *lua.LTable) map[string]any {
	m := map[string]any{}
	tbl.ForEach(func(k, v lua.LValue) {
		if ks, ok := k.(lua.LString); ok && ks != "type" {
			m[string(ks)] = toGoValue(v)
		}
	})
	return m
}

func compileHandler(raw rawHandler) types.EventHandler {
	handler := types.EventHandler{
		EventType: raw.eventType,
	}
	if condTbl := getTable(raw.table, "conditions"); condTbl != nil {
		handler.Conditions = compileConditions(condTbl)
	}
	if effTbl := getTable(raw.table, "effects"); effTbl != nil {
		handler.Effects = compileEffects(effTbl)
	}
	return handler
}

// sortedLuaFiles returns .lua files with game.lua first and the rest
// sorted alphabetically.
func sortedLuaFiles(files []string) []string {
	var gameFile string
	var others []string
	for _, f := range files {
		if f == "game.lua" {
			gameFile = f
		} else {
			others = append(others, f)
		}
	}
	sort.Strings(others)
	if gameFile != "" {
		return append([]string{gameFile}, others...)
	}
	return others
}
