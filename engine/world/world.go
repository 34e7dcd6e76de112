// Package world implements the spatial queries over authored maps and the
// per-session overlay of one-shot spot flags.
package world

import "github.com/nathoo/topdown/types"

// Overlap reports whether two rectangles overlap. Intervals are half-open,
// so rectangles that only touch at an edge do not overlap.
func Overlap(a, b types.Rect) bool {
	return a.X < b.X+b.W && a.X+a.W > b.X && a.Y < b.Y+b.H && a.Y+a.H > b.Y
}

// Valid reports whether a rectangle has usable dimensions.
func Valid(r types.Rect) bool {
	return r.W > 0 && r.H > 0
}

// SpotsOverlapping returns the spots of m overlapping r, in authored order.
// The returned pointers alias the authored map and must be treated as read-only.
func SpotsOverlapping(m *types.MapDef, r types.Rect) []*types.Spot {
	if m == nil {
		return nil
	}
	var result []*types.Spot
	for i := range m.Spots {
		if Overlap(r, m.Spots[i].Rect) {
			result = append(result, &m.Spots[i])
		}
	}
	return result
}

// FindSpot returns the spot with the given ID on m.
func FindSpot(m *types.MapDef, id string) (*types.Spot, bool) {
	if m == nil {
		return nil, false
	}
	for i := range m.Spots {
		if m.Spots[i].ID == id {
			return &m.Spots[i], true
		}
	}
	return nil, false
}

// IsPickup reports whether a kind is collected on overlap and never again.
func IsPickup(kind types.SpotKind) bool {
	switch kind {
	case types.SpotCoin, types.SpotPart, types.SpotResource:
		return true
	default:
		return false
	}
}

// IsOneShot reports whether a kind's side effect fires at most once per session.
func IsOneShot(kind types.SpotKind) bool {
	return IsPickup(kind) || kind == types.SpotPoint
}

// Camera returns the top-left offset of a vw×vh viewport centered on the
// player and clamped to the map.
func Camera(player types.Rect, m *types.MapDef, vw, vh float64) types.Vec {
	if m == nil {
		return types.Vec{}
	}
	x := clamp(player.X+player.W/2-vw/2, 0, max(0, m.Width-vw))
	y := clamp(player.Y+player.H/2-vh/2, 0, max(0, m.Height-vh))
	return types.Vec{X: x, Y: y}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
