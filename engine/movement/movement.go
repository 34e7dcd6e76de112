// Package movement integrates the player against desired direction and
// static colliders, one tick at a time.
package movement

import (
	"math"

	"github.com/nathoo/topdown/engine/world"
	"github.com/nathoo/topdown/types"
)

// Intent is the discretized input for one tick: held direction keys plus
// an optional analog stick vector.
type Intent struct {
	Up, Down, Left, Right bool

	StickActive    bool
	StickX, StickY float64
}

// Desired merges the input sources into a unit direction vector, or the
// zero vector when there is no input.
func Desired(in Intent) types.Vec {
	var d types.Vec
	if in.Up {
		d.Y--
	}
	if in.Down {
		d.Y++
	}
	if in.Left {
		d.X--
	}
	if in.Right {
		d.X++
	}
	if in.StickActive {
		d.X += in.StickX
		d.Y += in.StickY
	}
	if d.X == 0 && d.Y == 0 {
		return types.Vec{}
	}
	l := math.Hypot(d.X, d.Y)
	return types.Vec{X: d.X / l, Y: d.Y / l}
}

// Step advances p by desired×speed×dt. Each axis that would end inside a
// collider is reverted independently, so the player slides along walls.
// The result is clamped to the map. Colliders without dimensions are
// skipped, and a map without dimensions is not clamped.
func Step(p *types.Player, desired types.Vec, dt float64, m *types.MapDef) {
	p.Moving = desired.X != 0 || desired.Y != 0
	if p.Moving {
		p.Facing = Facing(desired)
	}

	dist := p.Speed * dt
	nx := p.Pos.X + desired.X*dist
	ny := p.Pos.Y + desired.Y*dist

	if m == nil {
		p.Pos = types.Vec{X: nx, Y: ny}
		return
	}

	hitbox := types.Rect{X: nx, Y: ny, W: p.W, H: p.H}
	for _, col := range m.Colliders {
		if !world.Valid(col) || !world.Overlap(hitbox, col) {
			continue
		}
		xOnly := types.Rect{X: nx, Y: p.Pos.Y, W: p.W, H: p.H}
		yOnly := types.Rect{X: p.Pos.X, Y: ny, W: p.W, H: p.H}
		if world.Overlap(xOnly, col) {
			nx = p.Pos.X
		}
		if world.Overlap(yOnly, col) {
			ny = p.Pos.Y
		}
	}

	// A diagonal move can clip a corner that neither single-axis move touches.
	if blocked(m, types.Rect{X: nx, Y: ny, W: p.W, H: p.H}) {
		switch {
		case !blocked(m, types.Rect{X: p.Pos.X, Y: ny, W: p.W, H: p.H}):
			nx = p.Pos.X
		case !blocked(m, types.Rect{X: nx, Y: p.Pos.Y, W: p.W, H: p.H}):
			ny = p.Pos.Y
		default:
			nx, ny = p.Pos.X, p.Pos.Y
		}
	}

	if m.Width > 0 {
		nx = clamp(nx, 0, max(0, m.Width-p.W))
	}
	if m.Height > 0 {
		ny = clamp(ny, 0, max(0, m.Height-p.H))
	}
	p.Pos = types.Vec{X: nx, Y: ny}
}

func blocked(m *types.MapDef, r types.Rect) bool {
	for _, col := range m.Colliders {
		if world.Valid(col) && world.Overlap(r, col) {
			return true
		}
	}
	return false
}

// Facing returns the direction of the dominant axis of d. Ties face
// vertically.
func Facing(d types.Vec) types.Direction {
	if math.Abs(d.X) > math.Abs(d.Y) {
		if d.X > 0 {
			return types.Right
		}
		return types.Left
	}
	if d.Y > 0 {
		return types.Down
	}
	return types.Up
}

const (
	framesPerStep = 10
	frameCount    = 3
	idleFrame     = 1
)

// Animate advances the walk cycle by one tick. The frame steps every ten
// ticks while moving and rests on the middle frame when idle.
func Animate(p *types.Player) {
	p.FrameTick++
	if !p.Moving {
		p.Frame = idleFrame
		return
	}
	if p.FrameTick%framesPerStep == 0 {
		p.Frame = (p.Frame + 1) % frameCount
	}
}

// ResetAnimation stops the player and rewinds the walk cycle.
func ResetAnimation(p *types.Player) {
	p.Moving = false
	p.Frame = 0
	p.FrameTick = 0
}

// Row returns the sprite sheet row for a facing.
func Row(d types.Direction) int {
	switch d {
	case types.Left, types.Right:
		return 1
	case types.Up:
		return 2
	default:
		return 0
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
