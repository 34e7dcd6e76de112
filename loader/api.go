package loader

import (
	lua "github.com/yuin/gopher-lua"
)

// Spot constructors and the kind they produce.
var spotConstructors = map[string]string{
	"Coin":   "coin",
	"Part":   "part",
	"Pickup": "resource",
	"Point":  "point",
	"Talk":   "dialog",
	"Npc":    "preset",
	"Bench":  "bench",
	"Gate":   "gate",
	"Shop":   "shop",
}

// registerAPI registers all Lua constructors and helpers as globals.
func registerAPI(L *lua.LState, coll *collector) {
	registerConstructors(L, coll)
	registerSpotConstructors(L)
	registerDialogHelpers(L)
	registerConditionHelpers(L)
	registerEffectHelpers(L)
}

func registerConstructors(L *lua.LState, coll *collector) {
	// Game { title = "...", start = "..." }
	L.SetGlobal("Game", L.NewFunction(func(L *lua.LState) int {
		coll.game = L.CheckTable(1)
		return 0
	}))

	// Map "id" { ... } is curried: Map("id") returns a function that takes a table.
	L.SetGlobal("Map", curried(L, func(id string, tbl *lua.LTable) {
		coll.maps = append(coll.maps, rawMap{id: id, table: tbl})
	}))

	// Preset "id" { ... }
	L.SetGlobal("Preset", curried(L, func(id string, tbl *lua.LTable) {
		coll.presets = append(coll.presets, rawPreset{id: id, table: tbl})
	}))

	// On("event_type", { conditions = {...}, effects = {...} })
	L.SetGlobal("On", L.NewFunction(func(L *lua.LState) int {
		eventType := L.CheckString(1)
		tbl := L.CheckTable(2)
		coll.handlers = append(coll.handlers, rawHandler{eventType: eventType, table: tbl})
		return 0
	}))

	// Box(x, y, w, h) returns a rectangle table.
	L.SetGlobal("Box", L.NewFunction(func(L *lua.LState) int {
		tbl := L.NewTable()
		tbl.RawSetString("x", L.CheckNumber(1))
		tbl.RawSetString("y", L.CheckNumber(2))
		tbl.RawSetString("w", L.CheckNumber(3))
		tbl.RawSetString("h", L.CheckNumber(4))
		L.Push(tbl)
		return 1
	}))
}

// registerSpotConstructors registers Coin "id" { ... } and friends. Each
// returns the table tagged with its id and kind, to be listed in a map's
// spots.
func registerSpotConstructors(L *lua.LState) {
	for name, kind := range spotConstructors {
		L.SetGlobal(name, L.NewFunction(func(L *lua.LState) int {
			id := L.CheckString(1)
			L.Push(L.NewFunction(func(L *lua.LState) int {
				tbl := L.CheckTable(1)
				tbl.RawSetString("id", lua.LString(id))
				tbl.RawSetString("kind", lua.LString(kind))
				L.Push(tbl)
				return 1
			}))
			return 1
		}))
	}

	// Spot "id" { kind = "..." } leaves the kind to the table.
	L.SetGlobal("Spot", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			tbl.RawSetString("id", lua.LString(id))
			L.Push(tbl)
			return 1
		}))
		return 1
	}))
}

// registerDialogHelpers registers Sequence, Choice and Stock, which tag a
// dialog table with its kind.
func registerDialogHelpers(L *lua.LState) {
	kinds := map[string]string{
		"Sequence": "sequence",
		"Choice":   "choice",
		"Stock":    "shop",
	}
	for name, kind := range kinds {
		L.SetGlobal(name, L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			tbl.RawSetString("kind", lua.LString(kind))
			L.Push(tbl)
			return 1
		}))
	}
}

func registerConditionHelpers(L *lua.LState) {
	L.SetGlobal("HasItem", L.NewFunction(record("has_item",
		param{name: "item", kind: lua.LTString},
		param{name: "qty", kind: lua.LTNumber, optional: true})))
	L.SetGlobal("FlagSet", L.NewFunction(record("flag_set",
		param{name: "flag", kind: lua.LTString})))
	L.SetGlobal("FlagNot", L.NewFunction(record("flag_not",
		param{name: "flag", kind: lua.LTString})))
	L.SetGlobal("FlagIs", L.NewFunction(record("flag_is",
		param{name: "flag", kind: lua.LTString},
		param{name: "value", kind: lua.LTBool})))
	L.SetGlobal("CoinsAtLeast", L.NewFunction(record("coins_at_least",
		param{name: "amount", kind: lua.LTNumber})))
	L.SetGlobal("InMap", L.NewFunction(record("in_map",
		param{name: "map", kind: lua.LTString})))
	L.SetGlobal("SpotIs", L.NewFunction(record("spot_is",
		param{name: "spot", kind: lua.LTString})))
	L.SetGlobal("Not", L.NewFunction(record("not",
		param{name: "inner", kind: lua.LTTable})))
}

func registerEffectHelpers(L *lua.LState) {
	L.SetGlobal("Notify", L.NewFunction(record("notify",
		param{name: "text", kind: lua.LTString},
		param{name: "duration", kind: lua.LTNumber, optional: true})))
	L.SetGlobal("GiveCoins", L.NewFunction(record("give_coins",
		param{name: "amount", kind: lua.LTNumber},
		param{name: "message", kind: lua.LTString, optional: true})))
	L.SetGlobal("TakeCoins", L.NewFunction(record("take_coins",
		param{name: "amount", kind: lua.LTNumber})))
	// GiveItem("id", qty, { name = "...", type = "...", description = "..." }).
	// The item type reaches the effect as "item_type".
	L.SetGlobal("GiveItem", L.NewFunction(record("give_item",
		param{name: "item", kind: lua.LTString},
		param{name: "qty", kind: lua.LTNumber, optional: true},
		param{kind: lua.LTTable, optional: true})))
	L.SetGlobal("RemoveItem", L.NewFunction(record("remove_item",
		param{name: "item", kind: lua.LTString},
		param{name: "qty", kind: lua.LTNumber, optional: true})))
	L.SetGlobal("SetFlag", L.NewFunction(record("set_flag",
		param{name: "flag", kind: lua.LTString},
		param{name: "value", kind: lua.LTBool, optional: true})))
	L.SetGlobal("Travel", L.NewFunction(record("travel",
		param{name: "map", kind: lua.LTString},
		param{name: "x", kind: lua.LTNumber, optional: true},
		param{name: "y", kind: lua.LTNumber, optional: true})))
	L.SetGlobal("CloseDialog", L.NewFunction(record("close_dialog")))
	L.SetGlobal("OpenPreset", L.NewFunction(record("open_preset",
		param{name: "preset", kind: lua.LTString})))
	L.SetGlobal("Sound", L.NewFunction(record("sound",
		param{name: "cue", kind: lua.LTString})))
	L.SetGlobal("Stop", L.NewFunction(record("stop")))
}

// param is one positional argument of a record helper. A table param with
// no name has its fields merged into the record; its "type" field is stored
// as "item_type" so the record tag survives.
type param struct {
	name     string
	kind     lua.LValueType
	optional bool
}

// record returns a helper that builds a { type = typ, ... } table from its
// positional arguments.
func record(typ string, params ...param) lua.LGFunction {
	return func(L *lua.LState) int {
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString(typ))
		for i, p := range params {
			n := i + 1
			v := L.Get(n)
			if v == lua.LNil {
				if !p.optional {
					L.ArgError(n, p.kind.String()+" expected")
				}
				continue
			}
			if v.Type() != p.kind {
				L.TypeError(n, p.kind)
			}
			if p.name == "" {
				v.(*lua.LTable).ForEach(func(k, fv lua.LValue) {
					ks, ok := k.(lua.LString)
					switch {
					case !ok:
					case ks == "type":
						tbl.RawSetString("item_type", fv)
					default:
						tbl.RawSetString(string(ks), fv)
					}
				})
				continue
			}
			tbl.RawSetString(p.name, v)
		}
		L.Push(tbl)
		return 1
	}
}

// curried returns a Lua function f("id") that returns a function taking the
// definition table.
func curried(L *lua.LState, fn func(id string, tbl *lua.LTable)) *lua.LFunction {
	return L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			fn(id, L.CheckTable(1))
			return 0
		}))
		return 1
	})
}
