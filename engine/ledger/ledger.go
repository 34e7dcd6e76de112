// Package ledger tracks the player's item quantities and currency balance.
//
// Quantities are never negative. An entry whose quantity reaches zero is
// deleted, so absence and zero are the same thing to every caller.
package ledger

import (
	"sort"
	"strings"

	"github.com/nathoo/topdown/types"
)

// Meta is optional display metadata passed when adding an item.
// Name and Type only fill fields that are still empty. A non-nil
// Description always replaces the cached one.
type Meta struct {
	Name        string
	Type        string
	Description *string
}

// Entry is one owned item.
type Entry struct {
	ID          string
	Name        string
	Type        string
	Description string
	Qty         int
}

// Lookup resolves catalog metadata for an item ID.
type Lookup func(id string) (types.CatalogEntry, bool)

// Ledger is the quantity-tracked collection of owned items.
type Ledger struct {
	entries map[string]*Entry
	lookup  Lookup
}

// New creates an empty ledger.
func New() *Ledger {
	return &Ledger{entries: map[string]*Entry{}}
}

// SetLookup installs a catalog lookup used to fill metadata the caller
// did not provide.
func (l *Ledger) SetLookup(fn Lookup) {
	l.lookup = fn
}

// AddItem increments the quantity of id. Quantities below 1 count as 1.
func (l *Ledger) AddItem(id string, qty int, meta Meta) Entry {
	if id == "" {
		return Entry{}
	}
	if qty < 1 {
		qty = 1
	}
	e, ok := l.entries[id]
	if !ok {
		e = &Entry{ID: id}
		l.entries[id] = e
	}
	e.Qty += qty
	l.fill(e, meta)
	return *e
}

func (l *Ledger) fill(e *Entry, meta Meta) {
	if e.Name == "" {
		e.Name = meta.Name
	}
	if e.Type == "" {
		e.Type = meta.Type
	}
	if meta.Description != nil {
		e.Description = *meta.Description
	}
	if l.lookup == nil || (e.Name != "" && e.Type != "" && e.Description != "") {
		return
	}
	if c, ok := l.lookup(e.ID); ok {
		if e.Name == "" {
			e.Name = c.Name
		}
		if e.Type == "" {
			e.Type = c.Type
		}
		if e.Description == "" {
			e.Description = c.Description
		}
	}
}

// RemoveItem decrements the quantity of id, deleting the entry at zero.
// Returns false if the item is not owned.
func (l *Ledger) RemoveItem(id string, qty int) bool {
	e, ok := l.entries[id]
	if !ok {
		return false
	}
	if qty < 1 {
		qty = 1
	}
	e.Qty -= qty
	if e.Qty <= 0 {
		delete(l.entries, id)
	}
	return true
}

// Quantity returns the owned quantity of id, or 0.
func (l *Ledger) Quantity(id string) int {
	if e, ok := l.entries[id]; ok {
		return e.Qty
	}
	return 0
}

// Entry returns a copy of the entry for id.
func (l *Ledger) Entry(id string) (Entry, bool) {
	e, ok := l.entries[id]
	if !ok {
		return Entry{}, false
	}
	return *e, true
}

// HasItems reports whether every requirement is satisfied. Requirements
// naming the same item are summed. An empty list is always satisfied.
func (l *Ledger) HasItems(reqs []types.Requirement) bool {
	for id, qty := range totals(reqs) {
		if l.Quantity(id) < qty {
			return false
		}
	}
	return true
}

// ConsumeItems removes every requirement or nothing at all.
func (l *Ledger) ConsumeItems(reqs []types.Requirement) bool {
	if !l.HasItems(reqs) {
		return false
	}
	for id, qty := range totals(reqs) {
		l.RemoveItem(id, qty)
	}
	return true
}

// Exchange consumes reqs and adds qty units of out in one step. Nothing
// changes when the requirements are not met.
func (l *Ledger) Exchange(reqs []types.Requirement, out string, qty int, meta Meta) bool {
	if out == "" || !l.ConsumeItems(reqs) {
		return false
	}
	l.AddItem(out, qty, meta)
	return true
}

// List returns the owned entries sorted by display name, case-insensitive.
func (l *Ledger) List() []Entry {
	result := make([]Entry, 0, len(l.entries))
	for _, e := range l.entries {
		result = append(result, *e)
	}
	sort.Slice(result, func(i, j int) bool {
		a, b := strings.ToLower(result[i].DisplayName()), strings.ToLower(result[j].DisplayName())
		if a != b {
			return a < b
		}
		return result[i].ID < result[j].ID
	})
	return result
}

// Len returns the number of distinct owned items.
func (l *Ledger) Len() int {
	return len(l.entries)
}

// DisplayName returns the cached name, or the ID when none is known.
func (e Entry) DisplayName() string {
	if e.Name != "" {
		return e.Name
	}
	return e.ID
}

// totals sums requirement quantities per item. Non-positive quantities and
// empty IDs are ignored.
func totals(reqs []types.Requirement) map[string]int {
	m := make(map[string]int, len(reqs))
	for _, r := range reqs {
		if r.ItemID == "" || r.Qty <= 0 {
			continue
		}
		m[r.ItemID] += r.Qty
	}
	return m
}
