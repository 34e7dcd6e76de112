package interact

import (
	"fmt"
	"time"

	"github.com/nathoo/topdown/audio"
	"github.com/nathoo/topdown/engine/catalog"
	"github.com/nathoo/topdown/engine/craft"
	"github.com/nathoo/topdown/engine/dialog"
	"github.com/nathoo/topdown/types"
)

// PartItem is the ledger item granted by part pickups.
const PartItem = "electronic_part"

// DefaultHandler returns the built-in handler for a kind.
func DefaultHandler(kind types.SpotKind) Handler {
	switch kind {
	case types.SpotCoin:
		return coin
	case types.SpotPart:
		return part
	case types.SpotResource:
		return resource
	case types.SpotPoint:
		return point
	case types.SpotDialog:
		return talk
	case types.SpotPreset:
		return preset
	case types.SpotBench:
		return bench
	case types.SpotGate:
		return gate
	case types.SpotShop:
		return shop
	default:
		return Fallback
	}
}

// Fallback shows the spot's text, if any.
func Fallback(spot *types.Spot, _ Env) Outcome {
	if spot.Text == "" {
		return Outcome{}
	}
	return Outcome{Notices: []types.Notice{notice(spot.Text, NoticeDefault)}}
}

func coin(spot *types.Spot, _ Env) Outcome {
	value := max(1, spot.Value)
	msg := spot.Text
	if msg == "" {
		msg = "+" + plural(value, "coin!", "coins!")
	}
	return Outcome{
		Collect: true,
		Effects: []types.Effect{{
			Type:   "give_coins",
			Params: map[string]any{"amount": value, "message": msg},
		}},
		Cue: audio.Pickup,
	}
}

func part(spot *types.Spot, _ Env) Outcome {
	text := spot.Text
	if text == "" {
		text = "+1 electronic part!"
	}
	return Outcome{
		Collect: true,
		Effects: []types.Effect{{
			Type: "give_item",
			Params: map[string]any{
				"item":        PartItem,
				"qty":         max(1, spot.Value),
				"name":        "Electronic part",
				"description": "Salvaged components for future projects.",
				"item_type":   "resource",
			},
		}},
		Notices: []types.Notice{notice(text, 1400*time.Millisecond)},
		Cue:     audio.Pickup,
	}
}

func resource(spot *types.Spot, env Env) Outcome {
	out := Outcome{Collect: true, Cue: audio.Pickup}
	if spot.ResourceID != "" {
		var info types.CatalogEntry
		if c := env.Catalog(); c != nil {
			info, _ = c.Item(spot.ResourceID)
		}
		out.Effects = []types.Effect{{
			Type: "give_item",
			Params: map[string]any{
				"item":        spot.ResourceID,
				"qty":         max(1, spot.Value),
				"name":        types.FirstNonEmpty(spot.ResourceName, info.Name, spot.ResourceID),
				"description": types.FirstNonEmpty(spot.ResourceDesc, info.Description),
				"item_type":   "resource",
			},
		}}
	}
	if spot.Text != "" {
		out.Notices = []types.Notice{notice(spot.Text, 1300*time.Millisecond)}
	}
	return out
}

func point(spot *types.Spot, env Env) Outcome {
	if env.Spent(spot) {
		return Outcome{Notices: []types.Notice{notice("Nothing new here.", 1200*time.Millisecond)}}
	}
	return Outcome{
		Award:   true,
		Notices: []types.Notice{notice(types.FirstNonEmpty(spot.Text, "+1 point"), 1200*time.Millisecond)},
		Cue:     audio.NPC,
	}
}

// talk opens the spot's inline dialog, then its preset, then a one-line
// greeting built from its text.
func talk(spot *types.Spot, env Env) Outcome {
	var def types.DialogDef
	switch {
	case spot.Dialog != nil:
		def = dialog.Clone(*spot.Dialog)
	case spot.Preset != "":
		p, ok := env.Preset(spot.Preset)
		if !ok {
			def = greeting(spot)
			break
		}
		def = p
	default:
		def = greeting(spot)
	}
	meta := dialog.MergeMeta(def.Meta, dialog.Meta{
		Title:    types.FirstNonEmpty(spot.Title, spot.Name),
		Subtitle: spot.Subtitle,
		Speaker:  spot.Name,
	})
	meta.Title = types.FirstNonEmpty(meta.Title, "Dialog")
	return Outcome{Dialog: dialog.FromDef(def), Meta: meta, Cue: audio.NPC}
}

func greeting(spot *types.Spot) types.DialogDef {
	return types.DialogDef{Kind: types.DialogSequence, Lines: []string{types.FirstNonEmpty(spot.Text, "Hello!")}}
}

func preset(spot *types.Spot, env Env) Outcome {
	if spot.Preset == "" {
		return talk(spot, env)
	}
	def, ok := env.Preset(spot.Preset)
	if !ok {
		return talk(spot, env)
	}
	meta := dialog.MergeMeta(def.Meta, dialog.Meta{Title: spot.Title, Subtitle: spot.Subtitle})
	meta.Title = types.FirstNonEmpty(meta.Title, "Dialog")
	return Outcome{Dialog: dialog.FromDef(def), Meta: meta, Cue: audio.NPC}
}

// bench opens the bench's craft dialog. Before the catalog is ready it
// asks to be dispatched again once it is.
func bench(spot *types.Spot, env Env) Outcome {
	c := env.Catalog()
	if c == nil {
		return Outcome{Defer: true}
	}
	recipes := c.RecipesForBench(spot.BenchID)
	if len(recipes) == 0 {
		return Outcome{Notices: []types.Notice{
			notice("No projects are registered for this bench yet.", 1500*time.Millisecond),
		}}
	}
	info, known := c.Bench(spot.BenchID)
	intro := "Choose a project to build."
	if known && info.Name != "" {
		intro = fmt.Sprintf("Pick a project to assemble at the %s.", info.Name)
	}
	content := dialog.NewCraft(intro, spot.BenchID, craft.Decorate(recipes, c))
	meta := dialog.Meta{
		Title:    types.FirstNonEmpty(info.Name, spot.Title, "Bench"),
		Subtitle: types.FirstNonEmpty(info.Description, spot.Subtitle),
	}
	return Outcome{Dialog: content, Meta: meta, Cue: audio.NPC}
}

func gate(spot *types.Spot, _ Env) Outcome {
	travel := []types.Effect{
		{Type: "sound", Params: map[string]any{"cue": string(audio.Gate)}},
		{Type: "travel", Params: map[string]any{"map": spot.Destination}},
	}
	if !spot.Confirm {
		return Outcome{Effects: travel}
	}
	yes := types.OptionDef{
		Label:   "Yes",
		Effects: append(travel, types.Effect{Type: "close_dialog"}),
	}
	no := types.OptionDef{Label: "No"}
	title := types.FirstNonEmpty(spot.Title, "Portal")
	return Outcome{
		Dialog: dialog.NewChoice(types.FirstNonEmpty(spot.Text, "Enter?"), yes, no),
		Meta:   dialog.Meta{Title: title},
	}
}

// shop opens the spot's inline dialog, then its preset, then a shop built
// from its items priced against the catalog.
func shop(spot *types.Spot, env Env) Outcome {
	meta := dialog.Meta{Title: types.FirstNonEmpty(spot.Title, "Shop"), Subtitle: types.FirstNonEmpty(spot.Subtitle, spot.Name)}
	if spot.Dialog != nil {
		def := dialog.Clone(*spot.Dialog)
		return Outcome{Dialog: dialog.FromDef(def), Meta: dialog.MergeMeta(def.Meta, meta), Cue: audio.NPC}
	}
	if spot.Preset != "" {
		if def, ok := env.Preset(spot.Preset); ok {
			return Outcome{Dialog: dialog.FromDef(def), Meta: dialog.MergeMeta(def.Meta, meta), Cue: audio.NPC}
		}
	}
	items := PriceItems(spot.Items, env.Catalog())
	intro := types.FirstNonEmpty(spot.Text, "Take a look at what we have.")
	return Outcome{Dialog: dialog.NewShop(intro, items), Meta: meta, Cue: audio.NPC}
}

// PriceItems copies items, resolving names and costs from the catalog when
// it lists them. A catalog price replaces the authored cost.
func PriceItems(items []types.ShopItemDef, c *catalog.Catalog) []types.ShopItemDef {
	out := make([]types.ShopItemDef, 0, len(items))
	for _, it := range items {
		if info, ok := c.Item(it.ID); ok {
			it.Name = types.FirstNonEmpty(it.Name, info.Name)
			it.Description = types.FirstNonEmpty(it.Description, info.Description)
			it.Type = types.FirstNonEmpty(it.Type, info.Type)
			if info.Price != nil {
				it.Cost = *info.Price
			}
		}
		out = append(out, it)
	}
	return out
}
