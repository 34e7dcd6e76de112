package world

import "github.com/nathoo/topdown/types"

// SpotFlags are the runtime flags of one spot.
type SpotFlags struct {
	Collected bool // pickups
	Awarded   bool // score points
	Removed   bool // display cleanup done
}

type spotKey struct {
	mapID  string
	spotID string
}

// Overlay holds the runtime flags of every spot touched in a play session,
// separate from the immutable authored maps. Flags are stored in an arena
// indexed by map and spot ID.
type Overlay struct {
	arena []SpotFlags
	index map[spotKey]int
}

// NewOverlay creates an empty overlay.
func NewOverlay() *Overlay {
	return &Overlay{index: map[spotKey]int{}}
}

// Flags returns the flags of a spot. Untouched spots have zero flags.
func (o *Overlay) Flags(mapID, spotID string) SpotFlags {
	if i, ok := o.index[spotKey{mapID, spotID}]; ok {
		return o.arena[i]
	}
	return SpotFlags{}
}

func (o *Overlay) slot(mapID, spotID string) *SpotFlags {
	k := spotKey{mapID, spotID}
	i, ok := o.index[k]
	if !ok {
		o.arena = append(o.arena, SpotFlags{})
		i = len(o.arena) - 1
		o.index[k] = i
	}
	return &o.arena[i]
}

// MarkCollected sets the collected flag. Returns false if it was already set.
func (o *Overlay) MarkCollected(mapID, spotID string) bool {
	f := o.slot(mapID, spotID)
	if f.Collected {
		return false
	}
	f.Collected = true
	return true
}

// MarkAwarded sets the awarded flag. Returns false if it was already set.
func (o *Overlay) MarkAwarded(mapID, spotID string) bool {
	f := o.slot(mapID, spotID)
	if f.Awarded {
		return false
	}
	f.Awarded = true
	return true
}

// Spent reports whether a one-shot spot has already fired.
func (o *Overlay) Spent(mapID string, s *types.Spot) bool {
	f := o.Flags(mapID, s.ID)
	switch {
	case IsPickup(s.Kind):
		return f.Collected
	case s.Kind == types.SpotPoint:
		return f.Awarded
	default:
		return false
	}
}

// Visible reports whether a spot should still be drawn.
func (o *Overlay) Visible(mapID string, s *types.Spot) bool {
	return !(IsPickup(s.Kind) && o.Flags(mapID, s.ID).Collected)
}

// Sweep marks collected pickups of m as removed and returns the IDs that
// were newly removed.
func (o *Overlay) Sweep(m *types.MapDef) []string {
	if m == nil {
		return nil
	}
	var removed []string
	for i := range m.Spots {
		s := &m.Spots[i]
		if !IsPickup(s.Kind) {
			continue
		}
		k := spotKey{m.ID, s.ID}
		idx, ok := o.index[k]
		if !ok || !o.arena[idx].Collected || o.arena[idx].Removed {
			continue
		}
		o.arena[idx].Removed = true
		removed = append(removed, s.ID)
	}
	return removed
}

// Progress counts collected and awarded spots per category on one map.
type Progress struct {
	CoinsGot, CoinsTotal   int
	PartsGot, PartsTotal   int
	PointsGot, PointsTotal int
}

// Progress computes the per-map counters.
func (o *Overlay) Progress(m *types.MapDef) Progress {
	var p Progress
	if m == nil {
		return p
	}
	for i := range m.Spots {
		s := &m.Spots[i]
		f := o.Flags(m.ID, s.ID)
		switch s.Kind {
		case types.SpotCoin:
			p.CoinsTotal++
			if f.Collected {
				p.CoinsGot++
			}
		case types.SpotPart:
			p.PartsTotal++
			if f.Collected {
				p.PartsGot++
			}
		case types.SpotPoint:
			p.PointsTotal++
			if f.Awarded {
				p.PointsGot++
			}
		}
	}
	return p
}
