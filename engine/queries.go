package engine

import (
	"github.com/nathoo/topdown/engine/interact"
	"github.com/nathoo/topdown/engine/ledger"
	"github.com/nathoo/topdown/engine/world"
	"github.com/nathoo/topdown/types"
)

// SessionID identifies this play session in logs.
func (e *Engine) SessionID() string { return e.session }

// CurrentMap returns the loaded map, or nil.
func (e *Engine) CurrentMap() *types.MapDef { return e.current }

// Player returns a copy of the player.
func (e *Engine) Player() types.Player { return e.State.Player }

// PlayerRect returns the player's hitbox.
func (e *Engine) PlayerRect() types.Rect { return e.State.Player.Rect() }

// Hovered returns the spot waiting for a confirm, or nil.
func (e *Engine) Hovered() *types.Spot { return e.hover }

// HoverPrompt returns the label of the hovered spot's interaction, or "".
func (e *Engine) HoverPrompt() string {
	if e.hover == nil {
		return ""
	}
	return interact.Prompt(e.hover)
}

// Progress returns the pickup and score counters of the current map.
func (e *Engine) Progress() world.Progress {
	return e.World.Progress(e.current)
}

// ProgressOf returns the counters of any map.
func (e *Engine) ProgressOf(mapID string) world.Progress {
	m, ok := e.Defs.Map(mapID)
	if !ok {
		return world.Progress{}
	}
	return e.World.Progress(m)
}

// Visible reports whether a spot of the current map should still be drawn.
func (e *Engine) Visible(s *types.Spot) bool {
	return e.World.Visible(e.State.MapID, s)
}

// Fading reports whether a map change is pending.
func (e *Engine) Fading() bool { return e.fade != nil }

// Camera returns the top-left offset of a vw×vh viewport following the
// player.
func (e *Engine) Camera(vw, vh float64) types.Vec {
	return world.Camera(e.PlayerRect(), e.current, vw, vh)
}

// ShowSpots reports whether the debug overlay is visible.
func (e *Engine) ShowSpots() bool { return e.State.ShowSpots }

// SetDebugOverlayVisible shows or hides spot and collider outlines.
func (e *Engine) SetDebugOverlayVisible(v bool) { e.State.ShowSpots = v }

// Music returns the ambient music reference of the current map.
func (e *Engine) Music() string { return e.sound.Music() }

// ToggleInventory opens or closes the inventory panel.
func (e *Engine) ToggleInventory() { e.State.InventoryOpen = !e.State.InventoryOpen }

// SetInventoryOpen opens or closes the inventory panel.
func (e *Engine) SetInventoryOpen(open bool) { e.State.InventoryOpen = open }

// InventoryOpen reports whether the inventory panel is open.
func (e *Engine) InventoryOpen() bool { return e.State.InventoryOpen }

// Inventory returns the ledger entries sorted by display name.
func (e *Engine) Inventory() []ledger.Entry { return e.Ledger.List() }
