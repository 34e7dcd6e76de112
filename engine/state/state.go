// Package state holds the immutable content definitions and builds the
// mutable session state that overlays them.
package state

import "github.com/nathoo/topdown/types"

// Player defaults.
const (
	PlayerSize  = 28
	PlayerSpeed = 0.2 // pixels per millisecond
	PlayerX     = 200
	PlayerY     = 200
)

// Defs holds the immutable game definitions loaded from Lua.
type Defs struct {
	Game     types.GameDef
	Maps     map[string]*types.MapDef
	MapOrder []string // authored order
	Presets  map[string]types.DialogDef
	Handlers []types.EventHandler
}

// Map returns the map with the given ID.
func (d *Defs) Map(id string) (*types.MapDef, bool) {
	m, ok := d.Maps[id]
	return m, ok && m != nil
}

// StartMap returns the configured start map, or the first authored map.
func (d *Defs) StartMap() string {
	if d.Game.Start != "" {
		return d.Game.Start
	}
	if len(d.MapOrder) > 0 {
		return d.MapOrder[0]
	}
	return ""
}

// NewState creates a fresh session state. The player is placed at the
// default position until a map is loaded.
func NewState(defs *Defs) *types.State {
	return &types.State{
		Player: types.Player{
			Pos:    types.Vec{X: PlayerX, Y: PlayerY},
			W:      PlayerSize,
			H:      PlayerSize,
			Speed:  PlayerSpeed,
			Facing: types.Down,
		},
		Flags:     map[string]bool{},
		ShowSpots: true,
	}
}

// GetFlag returns the value of a flag. Unset flags return false.
func GetFlag(s *types.State, name string) bool {
	return s.Flags[name]
}
