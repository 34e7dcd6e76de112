// Package rules evaluates the conditions that guard authored hooks, event
// handlers and choice options.
package rules

import (
	"slices"

	"github.com/nathoo/topdown/types"
)

// World is the read-only session state conditions are evaluated against.
type World interface {
	Flag(name string) bool
	Quantity(itemID string) int
	Balance() int
	MapID() string
}

// Context carries the event being handled, if any.
type Context struct {
	SpotID string
}

// EvalCondition evaluates a single condition. Unknown types are false.
func EvalCondition(c types.Condition, w World, ctx Context) bool {
	result := eval(c, w, ctx)
	if c.Negate {
		return !result
	}
	return result
}

func eval(c types.Condition, w World, ctx Context) bool {
	switch c.Type {
	case "has_item":
		item, _ := c.Params["item"].(string)
		qty := max(1, toInt(c.Params["qty"]))
		return w.Quantity(item) >= qty

	case "flag_set":
		flag, _ := c.Params["flag"].(string)
		return w.Flag(flag)

	case "flag_not":
		flag, _ := c.Params["flag"].(string)
		return !w.Flag(flag)

	case "flag_is":
		flag, _ := c.Params["flag"].(string)
		value, _ := c.Params["value"].(bool)
		return w.Flag(flag) == value

	case "coins_at_least":
		return w.Balance() >= toInt(c.Params["amount"])

	case "in_map":
		id, _ := c.Params["map"].(string)
		return w.MapID() == id

	case "spot_is":
		id, _ := c.Params["spot"].(string)
		return ctx.SpotID == id

	case "not":
		if c.Inner == nil {
			return true
		}
		return !EvalCondition(*c.Inner, w, ctx)

	default:
		return false
	}
}

// EvalAllConditions returns true if all conditions pass (AND logic).
// An empty condition list is vacuously true.
func EvalAllConditions(conditions []types.Condition, w World, ctx Context) bool {
	for _, c := range conditions {
		if !EvalCondition(c, w, ctx) {
			return false
		}
	}
	return true
}

// Types lists the condition types understood by EvalCondition.
var Types = []string{
	"has_item", "flag_set", "flag_not", "flag_is", "coins_at_least", "in_map", "spot_is", "not",
}

// Known reports whether a condition type is understood by EvalCondition.
func Known(condType string) bool {
	return slices.Contains(Types, condType)
}

// toInt converts an any value to int, handling float64 from Lua.
func toInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case float64:
		return int(n)
	case int64:
		return int(n)
	default:
		return 0
	}
}
