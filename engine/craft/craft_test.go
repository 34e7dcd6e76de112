package craft

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathoo/topdown/engine/ledger"
	"github.com/nathoo/topdown/types"
)

type items map[string]types.CatalogEntry

func (m items) Item(id string) (types.CatalogEntry, bool) {
	e, ok := m[id]
	return e, ok
}

func chairRecipe() types.Recipe {
	return types.Recipe{
		ID:           "chair",
		Name:         "Chair",
		Requirements: []types.Requirement{{ItemID: "wood", Qty: 2}},
		OutputQty:    1,
		Description:  "Sit on it.",
		Type:         "furniture",
	}
}

func TestCraft_ConsumesAllWood(t *testing.T) {
	l := ledger.New()
	l.AddItem("wood", 2, ledger.Meta{})

	require.True(t, CanCraft(l, chairRecipe()))
	require.NoError(t, Craft(l, chairRecipe()))

	assert.Equal(t, 0, l.Quantity("wood"))
	_, ok := l.Entry("wood")
	assert.False(t, ok, "wood entry should be removed entirely")

	chair, ok := l.Entry("chair")
	require.True(t, ok)
	assert.Equal(t, 1, chair.Qty)
	assert.Equal(t, "Chair", chair.Name)
	assert.Equal(t, "furniture", chair.Type)
	assert.Equal(t, "Sit on it.", chair.Description)
	assert.Equal(t, 1, l.Len())
}

func TestCraft_MissingResourcesLeavesLedger(t *testing.T) {
	l := ledger.New()
	l.AddItem("wood", 1, ledger.Meta{})

	assert.False(t, CanCraft(l, chairRecipe()))
	err := Craft(l, chairRecipe())
	assert.True(t, errors.Is(err, ErrMissingResources))
	assert.Equal(t, 1, l.Quantity("wood"))
	assert.Equal(t, 0, l.Quantity("chair"))
}

func TestCraft_OutputQty(t *testing.T) {
	l := ledger.New()
	l.AddItem("wood", 4, ledger.Meta{})
	r := chairRecipe()
	r.OutputQty = 3

	require.NoError(t, Craft(l, r))
	assert.Equal(t, 2, l.Quantity("wood"))
	assert.Equal(t, 3, l.Quantity("chair"))
}

func TestCraft_NoRequirements(t *testing.T) {
	l := ledger.New()
	r := types.Recipe{ID: "idea"}
	require.NoError(t, Craft(l, r))
	assert.Equal(t, 1, l.Quantity("idea"))
}

func TestCraft_RequiresOutputID(t *testing.T) {
	l := ledger.New()
	assert.Error(t, Craft(l, types.Recipe{}))
	assert.Equal(t, 0, l.Len())
}

func TestDescribe(t *testing.T) {
	l := ledger.New()
	l.AddItem("plastic", 1, ledger.Meta{Name: "Plastic (owned)"})
	cat := items{"board": {ID: "board", Name: "Silicon board"}}

	r := types.Recipe{Requirements: []types.Requirement{
		{ItemID: "plastic", Qty: 2},
		{ItemID: "board", Qty: 1},
		{ItemID: "glue", Qty: 0},
		{ItemID: "tape", Qty: 1, Name: "Tape"},
	}}
	assert.Equal(t, "2x Plastic (owned), 1x Silicon board, 1x glue, 1x Tape", Describe(r, l, cat))
	assert.Equal(t, "", Describe(types.Recipe{}, l, cat))
}

func TestDecorate(t *testing.T) {
	cat := items{
		"vinyl":   {ID: "vinyl", Name: "Vinyl LP", Type: "disc", Description: "Spins."},
		"plastic": {ID: "plastic", Name: "Plastic", Description: "Recycled."},
	}
	in := []types.Recipe{
		{ID: "vinyl", Name: "vinyl", Requirements: []types.Requirement{{ItemID: "plastic", Qty: 2}}},
		{ID: "mystery", Description: "Own text.", Requirements: []types.Requirement{{ItemID: "dust", Qty: 0}}},
	}

	out := Decorate(in, cat)
	require.Len(t, out, 2)

	assert.Equal(t, "Vinyl LP", out[0].Name)
	assert.Equal(t, "disc", out[0].Type)
	assert.Equal(t, "Spins.", out[0].Description)
	assert.Equal(t, 1, out[0].OutputQty)
	assert.Equal(t, types.Requirement{ItemID: "plastic", Qty: 2, Name: "Plastic", Description: "Recycled."}, out[0].Requirements[0])

	assert.Equal(t, "mystery", out[1].Name)
	assert.Equal(t, "item", out[1].Type)
	assert.Equal(t, "Own text.", out[1].Description)
	assert.Equal(t, types.Requirement{ItemID: "dust", Qty: 1, Name: "dust"}, out[1].Requirements[0])

	out[0].Requirements[0].Qty = 9
	assert.Equal(t, 2, in[0].Requirements[0].Qty, "decoration must not alias the input")
}
