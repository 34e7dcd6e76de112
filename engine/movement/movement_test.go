package movement

import (
	"math"
	"math/rand"
	"testing"

	"github.com/nathoo/topdown/engine/world"
	"github.com/nathoo/topdown/types"
)

func newPlayer(x, y float64) *types.Player {
	return &types.Player{Pos: types.Vec{X: x, Y: y}, W: 28, H: 28, Speed: 1}
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestDesired(t *testing.T) {
	tests := []struct {
		name string
		in   Intent
		want types.Vec
	}{
		{"none", Intent{}, types.Vec{}},
		{"right", Intent{Right: true}, types.Vec{X: 1}},
		{"up", Intent{Up: true}, types.Vec{Y: -1}},
		{"opposing keys cancel", Intent{Left: true, Right: true}, types.Vec{}},
		{"diagonal", Intent{Down: true, Right: true}, types.Vec{X: math.Sqrt2 / 2, Y: math.Sqrt2 / 2}},
		{"stick only", Intent{StickActive: true, StickX: 0, StickY: 0.5}, types.Vec{Y: 1}},
		{"inactive stick ignored", Intent{StickX: 1}, types.Vec{}},
		{"keys plus stick", Intent{Right: true, StickActive: true, StickX: 1}, types.Vec{X: 1}},
	}
	for _, tt := range tests {
		got := Desired(tt.in)
		if !approx(got.X, tt.want.X) || !approx(got.Y, tt.want.Y) {
			t.Errorf("%s: Desired = %+v, want %+v", tt.name, got, tt.want)
		}
	}
}

func TestDesired_DiagonalIsUnitLength(t *testing.T) {
	d := Desired(Intent{Up: true, Left: true})
	if l := math.Hypot(d.X, d.Y); !approx(l, 1) {
		t.Errorf("diagonal length = %v, want 1", l)
	}
}

func TestStep_RevertsXAgainstWall(t *testing.T) {
	m := &types.MapDef{Width: 800, Height: 600, Colliders: []types.Rect{{X: 120, Y: 100, W: 40, H: 40}}}

	p := newPlayer(100, 100)
	Step(p, types.Vec{X: 1}, 30, m)
	if p.Pos.X != 100 {
		t.Errorf("x = %v, want reverted to 100", p.Pos.X)
	}
	if p.Pos.Y != 100 {
		t.Errorf("y = %v, want unchanged 100", p.Pos.Y)
	}

	p = newPlayer(80, 100)
	Step(p, types.Vec{X: 1}, 30, m)
	if p.Pos.X > 92 {
		t.Errorf("x = %v, want <= 92", p.Pos.X)
	}
	if p.Pos.X != 80 || p.Pos.Y != 100 {
		t.Errorf("pos = %+v, want (80,100)", p.Pos)
	}
}

func TestStep_SlidesAlongWall(t *testing.T) {
	m := &types.MapDef{Width: 800, Height: 600, Colliders: []types.Rect{{X: 80, Y: 0, W: 40, H: 600}}}
	p := newPlayer(50, 100)
	d := Desired(Intent{Right: true, Down: true})

	Step(p, d, 30, m)
	if p.Pos.X != 50 {
		t.Errorf("x = %v, want 50", p.Pos.X)
	}
	if want := 100 + d.Y*30; !approx(p.Pos.Y, want) {
		t.Errorf("y = %v, want %v", p.Pos.Y, want)
	}
}

func TestStep_CornerClip(t *testing.T) {
	m := &types.MapDef{Width: 800, Height: 600, Colliders: []types.Rect{{X: 110, Y: 110, W: 40, H: 40}}}
	p := newPlayer(80, 80)
	d := Desired(Intent{Right: true, Down: true})

	Step(p, d, 10, m)
	if world.Overlap(p.Rect(), m.Colliders[0]) {
		t.Errorf("player %+v ended inside collider", p.Rect())
	}
}

func TestStep_Clamp(t *testing.T) {
	m := &types.MapDef{Width: 200, Height: 150}
	p := newPlayer(190, 5)
	Step(p, types.Vec{X: 1}, 30, m)
	if p.Pos.X != 172 {
		t.Errorf("x = %v, want 172", p.Pos.X)
	}

	p = newPlayer(5, 5)
	Step(p, types.Vec{Y: -1}, 30, m)
	if p.Pos.Y != 0 {
		t.Errorf("y = %v, want 0", p.Pos.Y)
	}

	small := &types.MapDef{Width: 10, Height: 10}
	p = newPlayer(0, 0)
	Step(p, types.Vec{X: 1}, 30, small)
	if p.Pos.X != 0 {
		t.Errorf("x on undersized map = %v, want 0", p.Pos.X)
	}
}

func TestStep_MalformedDataDegrades(t *testing.T) {
	m := &types.MapDef{Colliders: []types.Rect{{X: 110, Y: 100, W: 0, H: 40}}}
	p := newPlayer(100, 100)
	Step(p, types.Vec{X: 1}, 30, m)
	if p.Pos.X != 130 {
		t.Errorf("x = %v, want 130 (no clamp, zero-width collider skipped)", p.Pos.X)
	}

	p = newPlayer(0, 0)
	Step(p, types.Vec{X: -1}, 10, nil)
	if p.Pos.X != -10 {
		t.Errorf("x with nil map = %v, want -10", p.Pos.X)
	}
}

func TestStep_Facing(t *testing.T) {
	m := &types.MapDef{Width: 800, Height: 600}
	p := newPlayer(300, 300)

	Step(p, Desired(Intent{Left: true}), 16, m)
	if p.Facing != types.Left || !p.Moving {
		t.Errorf("facing = %v moving = %v, want left/true", p.Facing, p.Moving)
	}

	Step(p, types.Vec{}, 16, m)
	if p.Facing != types.Left {
		t.Errorf("idle facing = %v, want unchanged left", p.Facing)
	}
	if p.Moving {
		t.Error("moving should be false with no input")
	}

	Step(p, Desired(Intent{Up: true, Right: true}), 16, m)
	if p.Facing != types.Up {
		t.Errorf("diagonal tie facing = %v, want up", p.Facing)
	}

	// Facing follows the desired vector even when the move is blocked.
	blocked := &types.MapDef{Width: 800, Height: 600, Colliders: []types.Rect{{X: 328, Y: 0, W: 10, H: 600}}}
	p = newPlayer(300, 300)
	Step(p, types.Vec{X: 1}, 16, blocked)
	if p.Facing != types.Right || p.Pos.X != 300 {
		t.Errorf("blocked: facing = %v x = %v, want right/300", p.Facing, p.Pos.X)
	}
}

func TestFacing(t *testing.T) {
	tests := []struct {
		d    types.Vec
		want types.Direction
	}{
		{types.Vec{X: 1}, types.Right},
		{types.Vec{X: -1}, types.Left},
		{types.Vec{Y: 1}, types.Down},
		{types.Vec{Y: -1}, types.Up},
		{types.Vec{X: 0.8, Y: 0.6}, types.Right},
		{types.Vec{X: 0.6, Y: 0.8}, types.Down},
		{types.Vec{X: -0.5, Y: 0.5}, types.Down},
	}
	for _, tt := range tests {
		if got := Facing(tt.d); got != tt.want {
			t.Errorf("Facing(%+v) = %v, want %v", tt.d, got, tt.want)
		}
	}
}

// A step no longer than the collider's thinnest side never ends inside it
// when the player starts outside.
func TestStep_NoTunneling(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	col := types.Rect{X: 200, Y: 200, W: 30, H: 30}
	m := &types.MapDef{Width: 1000, Height: 1000, Colliders: []types.Rect{col}}

	for i := 0; i < 5000; i++ {
		p := newPlayer(150+rng.Float64()*100, 150+rng.Float64()*100)
		if world.Overlap(p.Rect(), col) {
			continue
		}
		d := Desired(Intent{StickActive: true, StickX: rng.Float64()*2 - 1, StickY: rng.Float64()*2 - 1})
		Step(p, d, rng.Float64()*30, m)
		if world.Overlap(p.Rect(), col) {
			t.Fatalf("iteration %d: player %+v inside collider", i, p.Rect())
		}
	}
}

func TestAnimate(t *testing.T) {
	p := &types.Player{Moving: true}
	for i := 0; i < 9; i++ {
		Animate(p)
	}
	if p.Frame != 0 {
		t.Errorf("frame after 9 ticks = %d, want 0", p.Frame)
	}
	Animate(p)
	if p.Frame != 1 {
		t.Errorf("frame after 10 ticks = %d, want 1", p.Frame)
	}
	for i := 0; i < 20; i++ {
		Animate(p)
	}
	if p.Frame != 0 {
		t.Errorf("frame after 30 ticks = %d, want wrap to 0", p.Frame)
	}

	p.Moving = false
	Animate(p)
	if p.Frame != 1 {
		t.Errorf("idle frame = %d, want 1", p.Frame)
	}

	ResetAnimation(p)
	if p.Frame != 0 || p.FrameTick != 0 || p.Moving {
		t.Errorf("reset = %+v", p)
	}
}

func TestRow(t *testing.T) {
	tests := map[types.Direction]int{types.Down: 0, types.Left: 1, types.Right: 1, types.Up: 2}
	for d, want := range tests {
		if got := Row(d); got != want {
			t.Errorf("Row(%v) = %d, want %d", d, got, want)
		}
	}
}
