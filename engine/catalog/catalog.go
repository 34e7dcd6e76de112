// Package catalog merges the authoring tables (resources, benches, craftable
// media and the two price tables) into one lookup keyed by item ID.
package catalog

import (
	"fmt"
	"math"

	"github.com/nathoo/topdown/types"
)

// Resource is a raw craft resource row.
type Resource struct {
	ID          string
	Name        string
	Category    string
	Description string
}

// Media is a craftable item row. It defines both a recipe and a catalog entry.
type Media struct {
	ID           string
	Name         string
	Type         string
	BenchID      string
	Description  string
	Requirements []types.Requirement
	Price        *int
	Sale         *int
}

// PriceRow is one line of a price table.
type PriceRow struct {
	ID    string
	Name  string
	Price *int
	Sale  *int
}

// Tables are the normalized authoring tables, in merge order.
type Tables struct {
	Resources       []Resource
	Benches         []types.BenchDef
	Media           []Media
	MediaPrices     []PriceRow
	EquipmentPrices []PriceRow
}

// Catalog is the merged, read-only view of the authoring tables.
type Catalog struct {
	items   map[string]*types.CatalogEntry
	benches map[string]types.BenchDef
	recipes map[string][]types.Recipe
}

// Build merges tables into a catalog. Name and type keep the first value
// written for an ID. Price and sale take the last table that defines them.
func Build(t Tables) *Catalog {
	c := &Catalog{
		items:   map[string]*types.CatalogEntry{},
		benches: map[string]types.BenchDef{},
		recipes: map[string][]types.Recipe{},
	}

	for _, r := range t.Resources {
		if r.ID == "" {
			continue
		}
		c.items[r.ID] = &types.CatalogEntry{
			ID:          r.ID,
			Name:        or(r.Name, r.ID),
			Type:        or(r.Category, "resource"),
			Description: r.Description,
		}
	}

	for _, b := range t.Benches {
		if b.ID == "" {
			continue
		}
		b.Name = or(b.Name, b.ID)
		c.benches[b.ID] = b
	}

	for _, m := range t.Media {
		if m.ID == "" {
			continue
		}
		if m.BenchID != "" {
			c.recipes[m.BenchID] = append(c.recipes[m.BenchID], types.Recipe{
				ID:           m.ID,
				Name:         or(m.Name, m.ID),
				BenchID:      m.BenchID,
				Requirements: normalize(m.Requirements),
				OutputQty:    1,
				Description:  m.Description,
				Type:         or(m.Type, "item"),
			})
		}
		c.items[m.ID] = &types.CatalogEntry{
			ID:          m.ID,
			Name:        or(m.Name, m.ID),
			Type:        or(m.Type, "item"),
			Description: m.Description,
			BenchID:     m.BenchID,
			Price:       m.Price,
			Sale:        m.Sale,
		}
	}

	c.mergePrices(t.MediaPrices, "media")
	c.mergePrices(t.EquipmentPrices, "equipment")
	return c
}

func (c *Catalog) mergePrices(rows []PriceRow, defaultType string) {
	for _, row := range rows {
		if row.ID == "" {
			continue
		}
		e, ok := c.items[row.ID]
		if !ok {
			e = &types.CatalogEntry{ID: row.ID}
			c.items[row.ID] = e
		}
		if e.Name == "" {
			e.Name = or(row.Name, row.ID)
		}
		if e.Type == "" {
			e.Type = defaultType
		}
		if row.Price != nil {
			e.Price = row.Price
		}
		if row.Sale != nil {
			e.Sale = row.Sale
		}
	}
}

// Item returns the merged entry for id.
func (c *Catalog) Item(id string) (types.CatalogEntry, bool) {
	if c == nil || id == "" {
		return types.CatalogEntry{}, false
	}
	e, ok := c.items[id]
	if !ok {
		return types.CatalogEntry{}, false
	}
	return *e, true
}

// Bench returns the bench definition for id.
func (c *Catalog) Bench(id string) (types.BenchDef, bool) {
	if c == nil || id == "" {
		return types.BenchDef{}, false
	}
	b, ok := c.benches[id]
	return b, ok
}

// RecipesForBench returns copies of the recipes crafted at a bench, in
// authored order. Callers may modify the result freely.
func (c *Catalog) RecipesForBench(id string) []types.Recipe {
	if c == nil || id == "" {
		return nil
	}
	list := c.recipes[id]
	result := make([]types.Recipe, len(list))
	for i, r := range list {
		result[i] = clone(r)
	}
	return result
}

// Recipe returns a copy of the recipe with the given ID.
func (c *Catalog) Recipe(id string) (types.Recipe, bool) {
	if c == nil || id == "" {
		return types.Recipe{}, false
	}
	for _, list := range c.recipes {
		for _, r := range list {
			if r.ID == id {
				return clone(r), true
			}
		}
	}
	return types.Recipe{}, false
}

// Len returns the number of merged entries.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.items)
}

// FormatPrice renders a currency amount for display.
func FormatPrice(v float64) string {
	if math.IsNaN(v) {
		v = 0
	}
	n := max(0, int(math.Round(v)))
	switch n {
	case 0:
		return "Free"
	case 1:
		return "1 coin"
	default:
		return fmt.Sprintf("%d coins", n)
	}
}

func clone(r types.Recipe) types.Recipe {
	r.Requirements = append([]types.Requirement(nil), r.Requirements...)
	return r
}

func normalize(reqs []types.Requirement) []types.Requirement {
	result := make([]types.Requirement, 0, len(reqs))
	for _, r := range reqs {
		if r.ItemID == "" {
			continue
		}
		r.Qty = max(1, r.Qty)
		result = append(result, r)
	}
	return result
}

func or(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
