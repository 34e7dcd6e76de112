package dialog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathoo/topdown/types"
)

type fakeEnv struct {
	coins int
	have  map[string]int
}

func (f *fakeEnv) CanAfford(cost int) bool { return f.coins >= cost }

func (f *fakeEnv) CanCraft(r types.Recipe) bool {
	for _, req := range r.Requirements {
		if f.have[req.ItemID] < req.Qty {
			return false
		}
	}
	return true
}

func (f *fakeEnv) Describe(r types.Recipe) string { return r.ID + " needs stuff" }

func hook(msg string) types.Hook {
	return types.Hook{Effects: []types.Effect{{Type: "notify", Params: map[string]any{"text": msg}}}}
}

func TestClose_WhenClosedIsNoop(t *testing.T) {
	m := NewMachine(nil, nil)
	_, ok := m.Close("x")
	assert.False(t, ok)
	assert.False(t, m.IsOpen())
}

func TestOpenThenClose_HooksOnceInOrder(t *testing.T) {
	m := NewMachine(nil, nil)
	seq := NewSequence("hi")
	seq.OnClose = hook("content")
	m.Open(seq, Meta{SpotID: "npc"}, hook("caller"))

	closed, ok := m.Close("x")
	require.True(t, ok)
	assert.Equal(t, "x", closed.Reason)
	assert.Equal(t, "npc", closed.Meta.SpotID)
	require.Len(t, closed.Hooks, 2)
	assert.Equal(t, "content", closed.Hooks[0].Effects[0].Params["text"])
	assert.Equal(t, "caller", closed.Hooks[1].Effects[0].Params["text"])

	_, ok = m.Close("x")
	assert.False(t, ok, "hooks never fire twice")
}

func TestOpen_ReplacesSilently(t *testing.T) {
	m := NewMachine(nil, nil)
	first := NewSequence("a")
	first.OnClose = hook("first")
	m.Open(first, Meta{}, types.Hook{})
	serial := m.Serial()

	m.Open(NewChoice("pick"), Meta{}, types.Hook{})
	assert.Equal(t, types.DialogChoice, m.Kind())
	assert.NotEqual(t, serial, m.Serial())

	closed, ok := m.Close("done")
	require.True(t, ok)
	assert.Empty(t, closed.Hooks, "replaced content's hook must not fire")
}

func TestSequenceNavigation(t *testing.T) {
	m := NewMachine(nil, nil)
	m.Open(NewSequence("one", "two", "three"), Meta{}, types.Hook{})
	seq := m.Session().Content.(*Sequence)

	assert.Equal(t, Nav{Back: false, Forward: true}, m.Nav())
	_, closed := m.Back()
	assert.False(t, closed)
	assert.Equal(t, 0, seq.Index)

	m.Forward()
	m.Forward()
	assert.Equal(t, "three", seq.Current())
	assert.Equal(t, Nav{Back: true, Forward: true}, m.Nav())

	m.Back()
	assert.Equal(t, "two", seq.Current())

	m.Forward()
	c, closed := m.Forward()
	require.True(t, closed)
	assert.Equal(t, ReasonSequence, c.Reason)
	assert.False(t, m.IsOpen())
}

func TestEmptySequenceShowsPlaceholder(t *testing.T) {
	s := NewSequence()
	assert.Equal(t, []string{"..."}, s.Lines)
}

func TestBackCloseReasons(t *testing.T) {
	tests := []struct {
		content Content
		reason  string
	}{
		{NewChoice(""), ReasonChoiceCancel},
		{NewShop("", nil), ReasonShopClose},
		{NewCraft("", "bench", nil), ReasonCraftClose},
	}
	for _, tt := range tests {
		m := NewMachine(nil, nil)
		m.Open(tt.content, Meta{}, types.Hook{})
		assert.Equal(t, Nav{Back: true}, m.Nav(), "%s nav", tt.content.Kind())

		_, closed := m.Forward()
		assert.False(t, closed, "%s has no forward", tt.content.Kind())
		assert.True(t, m.IsOpen())

		c, closed := m.Back()
		require.True(t, closed)
		assert.Equal(t, tt.reason, c.Reason)
	}
}

func TestFollow(t *testing.T) {
	m := NewMachine(nil, nil)
	opts := []types.OptionDef{
		{Label: "bye"},
		{Label: "stay", KeepOpen: true},
		{Label: "more"},
	}
	m.Open(NewChoice("?", opts...), Meta{Title: "Talk"}, hook("caller"))

	opt, ok := m.Option(1)
	require.True(t, ok)
	_, closed := m.Follow(opt, nil)
	assert.False(t, closed)
	assert.True(t, m.IsOpen(), "keep-open option leaves the dialog open")

	opt, _ = m.Option(2)
	_, closed = m.Follow(opt, NewSequence("more text"))
	assert.False(t, closed)
	assert.Equal(t, types.DialogSequence, m.Kind())
	assert.Equal(t, "Talk", m.Session().Meta.Title, "chained dialog keeps the header")

	c, ok := m.Close("x")
	require.True(t, ok)
	require.Len(t, c.Hooks, 1, "chained dialog keeps the caller hook")

	m.Open(NewChoice("?", opts...), Meta{}, types.Hook{})
	opt, _ = m.Option(0)
	c, closed = m.Follow(opt, nil)
	require.True(t, closed)
	assert.Equal(t, ReasonChoice, c.Reason)

	_, ok = m.Option(0)
	assert.False(t, ok)
}

func TestRerender_RecomputesAffordances(t *testing.T) {
	env := &fakeEnv{coins: 2, have: map[string]int{}}
	m := NewMachine(env, nil)

	m.Open(NewShop("", []types.ShopItemDef{{ID: "cd", Cost: 2}, {ID: "lp", Cost: 3}}), Meta{}, types.Hook{})
	shop := m.Session().Content.(*Shop)
	assert.True(t, shop.Items[0].Affordable)
	assert.False(t, shop.Items[1].Affordable)
	assert.Equal(t, "2 coins", shop.Items[0].Price)
	assert.Equal(t, "Buy", shop.Items[0].ActionLabel)

	env.coins = 5
	before := m.Renders()
	m.Rerender()
	assert.True(t, shop.Items[1].Affordable)
	assert.Equal(t, before+1, m.Renders())

	recipe := types.Recipe{ID: "chair", Requirements: []types.Requirement{{ItemID: "wood", Qty: 2}}}
	m.Open(NewCraft("", "bench", []types.Recipe{recipe}), Meta{}, types.Hook{})
	r, ok := m.Recipe(0)
	require.True(t, ok)
	assert.False(t, r.Craftable)
	assert.Equal(t, "chair needs stuff", r.Summary)

	env.have["wood"] = 2
	m.Rerender()
	r, _ = m.Recipe(0)
	assert.True(t, r.Craftable)

	m.Close("x")
	renders := m.Renders()
	m.Rerender()
	assert.Equal(t, renders, m.Renders(), "rerender on a closed machine is a no-op")
}

func TestFromDef(t *testing.T) {
	c := FromDef(types.DialogDef{Kind: types.DialogChoice, Options: []types.OptionDef{{Label: "a"}}})
	ch, ok := c.(*Choice)
	require.True(t, ok)
	assert.Equal(t, "Choose an option:", ch.Prompt)

	c = FromDef(types.DialogDef{Kind: "weird", Lines: []string{"x"}})
	assert.Equal(t, types.DialogSequence, c.Kind())

	c = FromDef(types.DialogDef{Kind: types.DialogShop, Items: []types.ShopItemDef{{ID: "tape", Cost: 0}}})
	assert.Equal(t, "Free", c.(*Shop).Items[0].Price)
	assert.Equal(t, "tape", c.(*Shop).Items[0].Name)
}

func TestMergeMeta(t *testing.T) {
	got := MergeMeta(types.DialogMeta{Title: "Authored", Speaker: "Dad", Portrait: "dad.png"},
		Meta{Title: "Spot title", SpotID: "s1"})
	assert.Equal(t, Meta{Title: "Spot title", Speaker: "Dad", Portrait: "dad.png", SpotID: "s1"}, got)
}

func TestLibrary_DeepCopies(t *testing.T) {
	lib := NewLibrary()
	def := types.DialogDef{
		Kind:  types.DialogChoice,
		Lines: []string{"x"},
		Options: []types.OptionDef{{
			Label:   "go",
			Next:    &types.DialogDef{Lines: []string{"inner"}},
			Effects: []types.Effect{{Type: "set_flag", Params: map[string]any{"flag": "a"}}},
		}},
		OnClose: hook("bye"),
	}
	lib.Register("p", def)
	def.Options[0].Next.Lines[0] = "mutated"

	got, ok := lib.Get("p")
	require.True(t, ok)
	assert.Equal(t, "inner", got.Options[0].Next.Lines[0])

	got.Options[0].Effects[0].Params["flag"] = "b"
	got.OnClose.Effects[0].Params["text"] = "changed"
	again, _ := lib.Get("p")
	assert.Equal(t, "a", again.Options[0].Effects[0].Params["flag"])
	assert.Equal(t, "bye", again.OnClose.Effects[0].Params["text"])

	_, ok = lib.Get("missing")
	assert.False(t, ok)
	assert.True(t, lib.Has("p"))
	assert.Equal(t, []string{"p"}, lib.IDs())
}
