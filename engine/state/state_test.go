package state

import (
	"testing"

	"github.com/nathoo/topdown/types"
)

func TestNewState(t *testing.T) {
	defs := &Defs{Game: types.GameDef{Start: "plaza"}}
	s := NewState(defs)

	if s.Player.W != PlayerSize || s.Player.H != PlayerSize {
		t.Errorf("player size = %vx%v, want %v", s.Player.W, s.Player.H, PlayerSize)
	}
	if s.Player.Speed != PlayerSpeed {
		t.Errorf("speed = %v, want %v", s.Player.Speed, PlayerSpeed)
	}
	if s.Flags == nil {
		t.Error("flags map should be initialized")
	}
	if !s.ShowSpots {
		t.Error("spot overlay starts visible")
	}
	if s.MapID != "" {
		t.Errorf("no map is loaded yet, got %q", s.MapID)
	}
}

func TestGetFlag(t *testing.T) {
	s := NewState(&Defs{})
	if GetFlag(s, "gift") {
		t.Error("unset flag should be false")
	}
	s.Flags["gift"] = true
	if !GetFlag(s, "gift") {
		t.Error("set flag should be true")
	}
}

func TestStartMap(t *testing.T) {
	tests := []struct {
		name string
		defs Defs
		want string
	}{
		{"explicit", Defs{Game: types.GameDef{Start: "b"}, MapOrder: []string{"a", "b"}}, "b"},
		{"first authored", Defs{MapOrder: []string{"a", "b"}}, "a"},
		{"none", Defs{}, ""},
	}
	for _, tt := range tests {
		if got := tt.defs.StartMap(); got != tt.want {
			t.Errorf("%s: StartMap = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestMap(t *testing.T) {
	d := &Defs{Maps: map[string]*types.MapDef{"a": {ID: "a"}, "nil": nil}}
	if m, ok := d.Map("a"); !ok || m.ID != "a" {
		t.Errorf("Map(a) = %v, %v", m, ok)
	}
	if _, ok := d.Map("nil"); ok {
		t.Error("nil map entries are not found")
	}
	if _, ok := d.Map("missing"); ok {
		t.Error("missing map should not be found")
	}
}
