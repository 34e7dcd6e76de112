package ledger

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathoo/topdown/types"
)

func strp(s string) *string { return &s }

func TestAddItem_Accumulates(t *testing.T) {
	l := New()
	l.AddItem("wood", 2, Meta{Name: "Wood"})
	e := l.AddItem("wood", 3, Meta{})

	assert.Equal(t, 5, e.Qty)
	assert.Equal(t, "Wood", e.Name)
	assert.Equal(t, 5, l.Quantity("wood"))
}

func TestAddItem_MinimumOne(t *testing.T) {
	l := New()
	l.AddItem("wood", 0, Meta{})
	l.AddItem("wood", -4, Meta{})
	assert.Equal(t, 2, l.Quantity("wood"))
}

func TestAddItem_EmptyID(t *testing.T) {
	l := New()
	e := l.AddItem("", 1, Meta{})
	assert.Equal(t, Entry{}, e)
	assert.Equal(t, 0, l.Len())
}

func TestAddItem_MetadataPrecedence(t *testing.T) {
	l := New()
	l.AddItem("chip", 1, Meta{Name: "Chip", Type: "part", Description: strp("first")})
	e := l.AddItem("chip", 1, Meta{Name: "Other", Type: "junk", Description: strp("second")})

	assert.Equal(t, "Chip", e.Name, "name keeps the first writer")
	assert.Equal(t, "part", e.Type, "type keeps the first writer")
	assert.Equal(t, "second", e.Description, "explicit description always wins")

	e = l.AddItem("chip", 1, Meta{})
	assert.Equal(t, "second", e.Description, "absent description keeps the cached one")
}

func TestAddItem_CatalogFallback(t *testing.T) {
	l := New()
	l.SetLookup(func(id string) (types.CatalogEntry, bool) {
		if id == "resistor" {
			return types.CatalogEntry{ID: id, Name: "Resistor", Type: "resource", Description: "Limits current."}, true
		}
		return types.CatalogEntry{}, false
	})

	e := l.AddItem("resistor", 1, Meta{Type: "part"})
	assert.Equal(t, "Resistor", e.Name)
	assert.Equal(t, "part", e.Type)
	assert.Equal(t, "Limits current.", e.Description)

	e = l.AddItem("unknown", 1, Meta{})
	assert.Equal(t, "unknown", e.DisplayName())
}

func TestRemoveItem(t *testing.T) {
	l := New()
	l.AddItem("wood", 3, Meta{})

	assert.True(t, l.RemoveItem("wood", 1))
	assert.Equal(t, 2, l.Quantity("wood"))

	assert.True(t, l.RemoveItem("wood", 10), "removal clamps at zero")
	assert.Equal(t, 0, l.Quantity("wood"))
	_, ok := l.Entry("wood")
	assert.False(t, ok, "zero entries are deleted")

	assert.False(t, l.RemoveItem("wood", 1), "absent item reports false")
	assert.False(t, l.RemoveItem("never", 1))
}

func TestHasItems(t *testing.T) {
	l := New()
	l.AddItem("wood", 2, Meta{})
	l.AddItem("nail", 5, Meta{})

	tests := []struct {
		name string
		reqs []types.Requirement
		want bool
	}{
		{"empty", nil, true},
		{"exact", []types.Requirement{{ItemID: "wood", Qty: 2}}, true},
		{"short", []types.Requirement{{ItemID: "wood", Qty: 3}}, false},
		{"missing", []types.Requirement{{ItemID: "glue", Qty: 1}}, false},
		{"several", []types.Requirement{{ItemID: "wood", Qty: 1}, {ItemID: "nail", Qty: 5}}, true},
		{"duplicate ids summed", []types.Requirement{{ItemID: "wood", Qty: 1}, {ItemID: "wood", Qty: 2}}, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, l.HasItems(tt.reqs), tt.name)
	}
}

func TestConsumeItems_Atomic(t *testing.T) {
	l := New()
	l.AddItem("wood", 2, Meta{})
	l.AddItem("nail", 1, Meta{})

	ok := l.ConsumeItems([]types.Requirement{{ItemID: "wood", Qty: 2}, {ItemID: "nail", Qty: 2}})
	require.False(t, ok)
	assert.Equal(t, 2, l.Quantity("wood"))
	assert.Equal(t, 1, l.Quantity("nail"))

	ok = l.ConsumeItems([]types.Requirement{{ItemID: "wood", Qty: 1}, {ItemID: "nail", Qty: 1}})
	require.True(t, ok)
	assert.Equal(t, 1, l.Quantity("wood"))
	assert.Equal(t, 0, l.Quantity("nail"))
}

func TestExchange(t *testing.T) {
	l := New()
	l.AddItem("wood", 2, Meta{})

	ok := l.Exchange([]types.Requirement{{ItemID: "wood", Qty: 3}}, "chair", 1, Meta{Name: "Chair"})
	assert.False(t, ok)
	assert.Equal(t, 2, l.Quantity("wood"))
	assert.Equal(t, 0, l.Quantity("chair"))

	ok = l.Exchange([]types.Requirement{{ItemID: "wood", Qty: 2}}, "chair", 2, Meta{Name: "Chair"})
	assert.True(t, ok)
	assert.Equal(t, 0, l.Quantity("wood"))
	assert.Equal(t, 2, l.Quantity("chair"))
}

func TestList_SortedByName(t *testing.T) {
	l := New()
	l.AddItem("b", 1, Meta{Name: "banana"})
	l.AddItem("a", 1, Meta{Name: "Cherry"})
	l.AddItem("c", 1, Meta{Name: "apple"})

	var names []string
	for _, e := range l.List() {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"apple", "banana", "Cherry"}, names)
}

// Random add/remove sequences never leave a negative or zero entry behind.
func TestLedger_NeverNegative(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	ids := []string{"a", "b", "c"}
	l := New()
	for i := 0; i < 2000; i++ {
		id := ids[rng.Intn(len(ids))]
		qty := rng.Intn(5) - 1
		if rng.Intn(2) == 0 {
			l.AddItem(id, qty, Meta{})
		} else {
			l.RemoveItem(id, qty)
		}
		for _, id := range ids {
			require.GreaterOrEqual(t, l.Quantity(id), 0)
		}
		for _, e := range l.List() {
			require.Positive(t, e.Qty, "entry %s listed at zero", e.ID)
		}
	}
}
