package loader

import (
	"fmt"

	"github.com/nathoo/topdown/engine/catalog"
	"github.com/nathoo/topdown/types"
	lua "github.com/yuin/gopher-lua"
)

// rawRow holds one catalog row before compilation.
type rawRow struct {
	id    string
	table *lua.LTable
}

// tableCollector accumulates catalog rows in authored order.
type tableCollector struct {
	resources       []rawRow
	benches         []rawRow
	media           []rawRow
	mediaPrices     []rawRow
	equipmentPrices []rawRow
}

// registerCatalogAPI registers the catalog constructors:
//
//	Resource "id" { name, category, description }
//	CraftBench "id" { name, description }
//	Media "id" { name, type, bench, description, requires = { Needs("id", n) }, price, sale }
//	MediaPrice "id" { name, price, sale }
//	EquipmentPrice "id" { name, price, sale }
func registerCatalogAPI(L *lua.LState, tc *tableCollector) {
	rows := map[string]*[]rawRow{
		"Resource":       &tc.resources,
		"CraftBench":     &tc.benches,
		"Media":          &tc.media,
		"MediaPrice":     &tc.mediaPrices,
		"EquipmentPrice": &tc.equipmentPrices,
	}
	for name, list := range rows {
		L.SetGlobal(name, curried(L, func(id string, tbl *lua.LTable) {
			*list = append(*list, rawRow{id: id, table: tbl})
		}))
	}

	// Needs("id", qty) is one recipe requirement.
	L.SetGlobal("Needs", L.NewFunction(func(L *lua.LState) int {
		tbl := L.NewTable()
		tbl.RawSetString("item", lua.LString(L.CheckString(1)))
		tbl.RawSetString("qty", lua.LNumber(L.OptInt(2, 1)))
		L.Push(tbl)
		return 1
	}))
}

// compileTables converts the collected rows into catalog tables.
func compileTables(tc *tableCollector) (catalog.Tables, error) {
	var t catalog.Tables

	for _, r := range tc.resources {
		t.Resources = append(t.Resources, catalog.Resource{
			ID:          r.id,
			Name:        getString(r.table, "name"),
			Category:    getString(r.table, "category"),
			Description: getString(r.table, "description"),
		})
	}

	for _, r := range tc.benches {
		t.Benches = append(t.Benches, types.BenchDef{
			ID:          r.id,
			Name:        getString(r.table, "name"),
			Description: getString(r.table, "description"),
		})
	}

	for _, r := range tc.media {
		reqs, err := compileRequirements(getTable(r.table, "requires"))
		if err != nil {
			return catalog.Tables{}, fmt.Errorf("media %s: %w", r.id, err)
		}
		t.Media = append(t.Media, catalog.Media{
			ID:           r.id,
			Name:         getString(r.table, "name"),
			Type:         getString(r.table, "type"),
			BenchID:      getString(r.table, "bench"),
			Description:  getString(r.table, "description"),
			Requirements: reqs,
			Price:        getIntPtr(r.table, "price"),
			Sale:         getIntPtr(r.table, "sale"),
		})
	}

	t.MediaPrices = compilePrices(tc.mediaPrices)
	t.EquipmentPrices = compilePrices(tc.equipmentPrices)
	return t, nil
}

// compileRequirements reads Needs(...) records or { "id", qty } pairs.
func compileRequirements(tbl *lua.LTable) ([]types.Requirement, error) {
	var reqs []types.Requirement
	var err error
	eachTable(tbl, func(r *lua.LTable) {
		req := types.Requirement{ItemID: getString(r, "item"), Qty: getInt(r, "qty")}
		if req.ItemID == "" {
			if id, ok := r.RawGetInt(1).(lua.LString); ok {
				req.ItemID = string(id)
				req.Qty = int(index(r, 2))
			}
		}
		if req.ItemID == "" && err == nil {
			err = fmt.Errorf("requirement without item id")
		}
		reqs = append(reqs, req)
	})
	return reqs, err
}

func compilePrices(rows []rawRow) []catalog.PriceRow {
	var out []catalog.PriceRow
	for _, r := range rows {
		out = append(out, catalog.PriceRow{
			ID:    r.id,
			Name:  getString(r.table, "name"),
			Price: getIntPtr(r.table, "price"),
			Sale:  getIntPtr(r.table, "sale"),
		})
	}
	return out
}
