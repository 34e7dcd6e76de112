// Package craft evaluates recipes against the ledger and performs the
// consume-then-produce exchange as a single step.
package craft

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nathoo/topdown/engine/ledger"
	"github.com/nathoo/topdown/types"
)

// ErrMissingResources is returned when the ledger cannot cover a recipe.
var ErrMissingResources = errors.New("missing resources")

// ItemLookup resolves catalog entries. *catalog.Catalog and
// *catalog.Source both satisfy it.
type ItemLookup interface {
	Item(id string) (types.CatalogEntry, bool)
}

// CanCraft reports whether the ledger holds every requirement of r.
func CanCraft(l *ledger.Ledger, r types.Recipe) bool {
	return l.HasItems(r.Requirements)
}

// Craft consumes the requirements of r and adds its output to the ledger.
// On failure the ledger is untouched and the error wraps ErrMissingResources.
func Craft(l *ledger.Ledger, r types.Recipe) error {
	if r.ID == "" {
		return fmt.Errorf("crafting: recipe has no output id")
	}
	desc := r.Description
	meta := ledger.Meta{Name: r.Name, Type: r.Type}
	if desc != "" {
		meta.Description = &desc
	}
	if !l.Exchange(r.Requirements, r.ID, max(1, r.OutputQty), meta) {
		return fmt.Errorf("crafting %s: %w", r.ID, ErrMissingResources)
	}
	return nil
}

// Describe renders the requirements of r as "2x Plastic, 1x Board".
// Names come from the ledger, then the recipe's decorated requirement, then
// the catalog, then the raw ID.
func Describe(r types.Recipe, l *ledger.Ledger, items ItemLookup) string {
	parts := make([]string, 0, len(r.Requirements))
	for _, req := range r.Requirements {
		parts = append(parts, fmt.Sprintf("%dx %s", max(1, req.Qty), name(req, l, items)))
	}
	return strings.Join(parts, ", ")
}

func name(req types.Requirement, l *ledger.Ledger, items ItemLookup) string {
	if l != nil {
		if e, ok := l.Entry(req.ItemID); ok && e.Name != "" {
			return e.Name
		}
	}
	if req.Name != "" {
		return req.Name
	}
	if items != nil {
		if c, ok := items.Item(req.ItemID); ok && c.Name != "" {
			return c.Name
		}
	}
	return req.ItemID
}

// Decorate returns copies of recipes enriched with catalog display data:
// item name and type for the output, name and description per requirement.
func Decorate(recipes []types.Recipe, items ItemLookup) []types.Recipe {
	if items == nil {
		items = noItems{}
	}
	result := make([]types.Recipe, 0, len(recipes))
	for _, r := range recipes {
		info, _ := items.Item(r.ID)
		d := r
		d.Name = types.FirstNonEmpty(info.Name, r.Name, r.ID)
		d.Description = types.FirstNonEmpty(r.Description, info.Description)
		d.Type = types.FirstNonEmpty(info.Type, r.Type, "item")
		d.OutputQty = max(1, r.OutputQty)
		d.Requirements = make([]types.Requirement, len(r.Requirements))
		for i, req := range r.Requirements {
			res, _ := items.Item(req.ItemID)
			d.Requirements[i] = types.Requirement{
				ItemID:      req.ItemID,
				Qty:         max(1, req.Qty),
				Name:        types.FirstNonEmpty(res.Name, req.ItemID),
				Description: res.Description,
			}
		}
		result = append(result, d)
	}
	return result
}

type noItems struct{}

func (noItems) Item(string) (types.CatalogEntry, bool) { return types.CatalogEntry{}, false }
