package engine

import (
	"github.com/nathoo/topdown/engine/catalog"
	"github.com/nathoo/topdown/types"
)

// RecordShop is the built-in preset of the classic media store. Its
// listing is priced from the catalog once the catalog is ready.
const RecordShop = "record_shop"

var recordStock = []types.ShopItemDef{
	{ID: "vinyl_record", Name: "Vinyl record", Cost: 3, Description: "Warm sound and a collector's piece."},
	{ID: "cassette_tape", Name: "Cassette tape", Cost: 2, Description: "Tracks on side A and side B."},
	{ID: "microcassette", Name: "Microcassette", Cost: 1, Description: "Compact and handy."},
}

// registerPresets loads the authored presets and the built-in ones.
// Authored presets win over built-ins with the same ID.
func (e *Engine) registerPresets(c *catalog.Catalog) {
	if _, authored := e.Defs.Presets[RecordShop]; !authored {
		e.presets.Register(RecordShop, recordShop(c))
	}
	for id, d := range e.Defs.Presets {
		e.presets.Register(id, d)
	}
}

// recordShop builds the record store listing. Catalog names, descriptions
// and prices replace the stock defaults.
func recordShop(c *catalog.Catalog) types.DialogDef {
	items := make([]types.ShopItemDef, 0, len(recordStock))
	for _, it := range recordStock {
		it.ActionLabel = "Buy"
		it.Type = "media"
		if info, ok := c.Item(it.ID); ok {
			it.Name = types.FirstNonEmpty(info.Name, it.Name)
			it.Description = types.FirstNonEmpty(info.Description, it.Description)
			it.Type = types.FirstNonEmpty(info.Type, it.Type)
			if info.Price != nil {
				it.Cost = *info.Price
			}
		}
		items = append(items, it)
	}
	return types.DialogDef{
		Kind:  types.DialogShop,
		Intro: "Welcome to our classic media store! Here is what I set aside for you.",
		Items: items,
		Meta:  types.DialogMeta{Title: "Record Shop", Subtitle: "Classic media"},
	}
}
