// Package types defines the shared data structures for the topdown engine.
// This package contains only type definitions and trivial accessors, no game logic.
package types

import "time"

// Rect is an axis-aligned rectangle in map pixels.
type Rect struct {
	X, Y, W, H float64
}

// Vec is a 2D vector or point in map pixels.
type Vec struct {
	X, Y float64
}

// Direction is the facing of the player avatar.
type Direction int

const (
	Down Direction = iota
	Up
	Left
	Right
)

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "down"
	}
}

// SpotKind is the discriminant of the Spot tagged union.
type SpotKind int

const (
	SpotUnknown  SpotKind = iota
	SpotCoin              // currency pickup
	SpotPart              // electronic part pickup
	SpotResource          // resource pickup
	SpotPoint             // score point
	SpotDialog            // inline dialog
	SpotPreset            // dialog from a named preset
	SpotBench             // craft bench
	SpotGate              // portal gate
	SpotShop              // shop listing
)

// SpotKinds lists every known kind in declaration order.
var SpotKinds = []SpotKind{
	SpotCoin, SpotPart, SpotResource, SpotPoint,
	SpotDialog, SpotPreset, SpotBench, SpotGate, SpotShop,
}

var spotKindNames = map[SpotKind]string{
	SpotUnknown:  "unknown",
	SpotCoin:     "coin",
	SpotPart:     "part",
	SpotResource: "resource",
	SpotPoint:    "point",
	SpotDialog:   "dialog",
	SpotPreset:   "preset",
	SpotBench:    "bench",
	SpotGate:     "gate",
	SpotShop:     "shop",
}

func (k SpotKind) String() string {
	if n, ok := spotKindNames[k]; ok {
		return n
	}
	return "unknown"
}

// ParseSpotKind maps a kind name to its SpotKind. Unknown names map to SpotUnknown.
func ParseSpotKind(name string) SpotKind {
	for k, n := range spotKindNames {
		if n == name {
			return k
		}
	}
	return SpotUnknown
}

// Spot is an authored interactive rectangle. Immutable during play; runtime
// flags live in the world overlay keyed by map and spot ID.
type Spot struct {
	ID     string
	Kind   SpotKind
	Rect   Rect
	Sprite string
	Color  string

	Name     string // speaker / bubble name
	Title    string
	Subtitle string
	Prompt   string // interaction button label
	Text     string // toast text or gate question

	// Pickups and score points.
	Value        int
	ResourceID   string
	ResourceName string
	ResourceDesc string

	// Craft benches.
	BenchID string

	// Portal gates.
	Destination string
	Confirm     bool

	// Dialog, preset and shop spots.
	Dialog *DialogDef
	Preset string
	Items  []ShopItemDef
}

// MapDef is an authored map. Referenced, never copied, during play.
type MapDef struct {
	ID         string
	Name       string
	Width      float64
	Height     float64
	Background string
	BgColor    string
	Start      Vec
	Music      string
	StepSound  string
	Colliders  []Rect
	Spots      []Spot
}

// Requirement is one resource line of a recipe.
type Requirement struct {
	ItemID      string
	Qty         int
	Name        string // resolved display name (decorated recipes only)
	Description string
}

// Recipe maps required item quantities to an output item sharing the recipe ID.
type Recipe struct {
	ID           string
	Name         string
	BenchID      string
	Requirements []Requirement
	OutputQty    int
	Description  string
	Type         string
}

// BenchDef is an authored crafting bench.
type BenchDef struct {
	ID          string
	Name        string
	Description string
}

// CatalogEntry is the merged display record for an item ID.
type CatalogEntry struct {
	ID          string
	Name        string
	Type        string
	Description string
	BenchID     string
	Price       *int
	Sale        *int
}

// DialogKind is the discriminant of authored dialog content.
type DialogKind string

const (
	DialogSequence DialogKind = "sequence"
	DialogChoice   DialogKind = "choice"
	DialogShop     DialogKind = "shop"
	DialogCraft    DialogKind = "craft"
)

// DialogMeta is the presentation header of a dialog.
type DialogMeta struct {
	Title    string
	Subtitle string
	Speaker  string
	Portrait string
}

// DialogDef is authored dialog content. Craft content is never authored; it
// is built from the catalog when a bench is used.
type DialogDef struct {
	Kind    DialogKind
	Lines   []string      // sequence
	Prompt  string        // choice
	Options []OptionDef   // choice
	Intro   string        // shop
	Items   []ShopItemDef // shop
	Meta    DialogMeta
	OnClose Hook
}

// OptionDef is one choice option.
type OptionDef struct {
	Label       string
	Description string
	Next        *DialogDef
	NextPreset  string
	KeepOpen    bool // close-on-select is the default
	Requires    []Condition
	Effects     []Effect
}

// ShopItemDef is one purchasable shop entry.
type ShopItemDef struct {
	ID          string
	Name        string
	Cost        int
	Description string
	ActionLabel string
	Type        string
}

// Hook is a guarded list of effects applied by the engine.
type Hook struct {
	Requires []Condition
	Effects  []Effect
}

// Effect is a single atomic state mutation instruction.
type Effect struct {
	Type   string
	Params map[string]any
}

// Condition is a predicate that must be true for a hook or handler to fire.
type Condition struct {
	Type   string
	Params map[string]any
	Negate bool
	Inner  *Condition
}

// EventHandler is authored content triggered by a bus event.
type EventHandler struct {
	EventType  string
	Conditions []Condition
	Effects    []Effect
}

// GameDef holds game metadata from Lua.
type GameDef struct {
	Title   string
	Author  string
	Version string
	Start   string // starting map ID
	Intro   string
}

// Player is the avatar. Singleton, mutated once per tick.
type Player struct {
	Pos    Vec
	W, H   float64
	Speed  float64 // pixels per millisecond
	Facing Direction
	Moving bool

	Frame     int
	FrameTick int
}

// Rect returns the player's hitbox.
func (p Player) Rect() Rect {
	return Rect{X: p.Pos.X, Y: p.Pos.Y, W: p.W, H: p.H}
}

// State is the mutable part of a play session that is not owned by a
// dedicated component (ledger, wallet, world overlay, dialog machine).
type State struct {
	MapID         string
	Player        Player
	Flags         map[string]bool
	ShowSpots     bool
	InventoryOpen bool
	HoverID       string
	Ticks         int
	Clock         float64 // accumulated milliseconds
}

// Notice is a transient message for the player.
type Notice struct {
	Text     string
	Duration time.Duration
}

// FirstNonEmpty returns the first non-empty value.
func FirstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
