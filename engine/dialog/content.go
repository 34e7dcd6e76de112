// Package dialog implements the single modal dialog session: sequence,
// choice, shop and craft content, navigation, and the preset library.
package dialog

import (
	"github.com/nathoo/topdown/engine/catalog"
	"github.com/nathoo/topdown/types"
)

// Close reasons.
const (
	ReasonSequence     = "sequence"
	ReasonChoice       = "choice"
	ReasonChoiceCancel = "choice-cancel"
	ReasonShopClose    = "shop-close"
	ReasonCraftClose   = "craft-close"
	ReasonExternal     = "external"
	ReasonTravel       = "travel"
)

// Content is the body of a dialog session. The set of implementations is
// closed: *Sequence, *Choice, *Shop and *Craft.
type Content interface {
	Kind() types.DialogKind
	closeHook() types.Hook
}

// Sequence is an ordered list of lines with a cursor.
type Sequence struct {
	Lines   []string
	Index   int
	OnClose types.Hook
}

// Choice is a prompt with options.
type Choice struct {
	Prompt  string
	Options []types.OptionDef
	OnClose types.Hook
}

// ShopItem is one purchasable shop row.
type ShopItem struct {
	ID          string
	Name        string
	Description string
	Type        string
	Cost        int
	Price       string // formatted cost
	ActionLabel string
	Affordable  bool
}

// Shop is an intro plus purchasable items.
type Shop struct {
	Intro   string
	Items   []ShopItem
	OnClose types.Hook
}

// CraftRecipe is a decorated recipe with its current affordance.
type CraftRecipe struct {
	types.Recipe
	Summary     string
	Craftable   bool
	ActionLabel string
}

// Craft is a bench's recipe list.
type Craft struct {
	Intro   string
	BenchID string
	Recipes []CraftRecipe
	OnClose types.Hook
}

func (*Sequence) Kind() types.DialogKind { return types.DialogSequence }
func (*Choice) Kind() types.DialogKind   { return types.DialogChoice }
func (*Shop) Kind() types.DialogKind     { return types.DialogShop }
func (*Craft) Kind() types.DialogKind    { return types.DialogCraft }

func (c *Sequence) closeHook() types.Hook { return c.OnClose }
func (c *Choice) closeHook() types.Hook   { return c.OnClose }
func (c *Shop) closeHook() types.Hook     { return c.OnClose }
func (c *Craft) closeHook() types.Hook    { return c.OnClose }

// Current returns the line under the cursor.
func (c *Sequence) Current() string {
	if c.Index < 0 || c.Index >= len(c.Lines) {
		return ""
	}
	return c.Lines[c.Index]
}

// Last reports whether the cursor is on the final line.
func (c *Sequence) Last() bool {
	return c.Index >= len(c.Lines)-1
}

const (
	defaultLine   = "..."
	defaultPrompt = "Choose an option:"
	defaultShop   = "Take a look at what we have."
	defaultCraft  = "Choose a project to build."
)

// NewSequence builds sequence content. An empty list shows a placeholder line.
func NewSequence(lines ...string) *Sequence {
	if len(lines) == 0 {
		lines = []string{defaultLine}
	}
	return &Sequence{Lines: append([]string(nil), lines...)}
}

// NewChoice builds choice content.
func NewChoice(prompt string, options ...types.OptionDef) *Choice {
	if prompt == "" {
		prompt = defaultPrompt
	}
	return &Choice{Prompt: prompt, Options: append([]types.OptionDef(nil), options...)}
}

// NewShop builds shop content from authored items.
func NewShop(intro string, items []types.ShopItemDef) *Shop {
	if intro == "" {
		intro = defaultShop
	}
	s := &Shop{Intro: intro}
	for _, it := range items {
		s.Items = append(s.Items, ShopItem{
			ID:          it.ID,
			Name:        types.FirstNonEmpty(it.Name, it.ID),
			Description: it.Description,
			Type:        it.Type,
			Cost:        max(0, it.Cost),
			Price:       catalog.FormatPrice(float64(it.Cost)),
			ActionLabel: types.FirstNonEmpty(it.ActionLabel, "Buy"),
		})
	}
	return s
}

// NewCraft builds craft content from decorated recipes.
func NewCraft(intro, benchID string, recipes []types.Recipe) *Craft {
	if intro == "" {
		intro = defaultCraft
	}
	c := &Craft{Intro: intro, BenchID: benchID}
	for _, r := range recipes {
		r.Requirements = append([]types.Requirement(nil), r.Requirements...)
		c.Recipes = append(c.Recipes, CraftRecipe{Recipe: r, ActionLabel: "Craft"})
	}
	return c
}

// FromDef builds content from an authored definition. Craft content is
// never authored and unknown kinds fall back to a sequence.
func FromDef(d types.DialogDef) Content {
	var c Content
	switch d.Kind {
	case types.DialogChoice:
		ch := NewChoice(d.Prompt, d.Options...)
		ch.OnClose = d.OnClose
		c = ch
	case types.DialogShop:
		s := NewShop(d.Intro, d.Items)
		s.OnClose = d.OnClose
		c = s
	case types.DialogCraft:
		cr := NewCraft(d.Intro, "", nil)
		cr.OnClose = d.OnClose
		c = cr
	default:
		s := NewSequence(d.Lines...)
		s.OnClose = d.OnClose
		c = s
	}
	return c
}
