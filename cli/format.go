package cli

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nathoo/topdown/engine"
	"github.com/nathoo/topdown/engine/dialog"
	"github.com/nathoo/topdown/engine/world"
	"github.com/nathoo/topdown/types"
)

var titleCaser = cases.Title(language.English)

// DisplayName derives a human-readable name from an ID.
// "raw_vinyl" -> "Raw Vinyl", "map-1" -> "Map 1".
func DisplayName(id string) string {
	return titleCaser.String(strings.NewReplacer("_", " ", "-", " ").Replace(id))
}

// MapTitle returns the authored map name, or a name derived from the ID.
func MapTitle(m *types.MapDef) string {
	if m == nil {
		return ""
	}
	if m.Name != "" && m.Name != m.ID {
		return m.Name
	}
	return DisplayName(m.ID)
}

// SpotLabel names a spot for the player.
func SpotLabel(s *types.Spot) string {
	switch {
	case s.Title != "":
		return s.Title
	case s.Name != "":
		return s.Name
	case s.Kind == types.SpotResource && s.ResourceName != "":
		return s.ResourceName
	default:
		return DisplayName(s.Kind.String())
	}
}

// ProgressLine summarizes the pickup and score counters of a map.
func ProgressLine(p world.Progress) string {
	return fmt.Sprintf("Coins %d/%d | Parts %d/%d | Points %d/%d",
		p.CoinsGot, p.CoinsTotal, p.PartsGot, p.PartsTotal, p.PointsGot, p.PointsTotal)
}

// Nearby is a visible spot with its distance and heading from the player.
type Nearby struct {
	Spot     *types.Spot
	Distance float64
	Heading  string
}

// NearbySpots lists the visible spots of the current map within radius
// pixels of the player, closest first.
func NearbySpots(eng *engine.Engine, radius float64) []Nearby {
	m := eng.CurrentMap()
	if m == nil {
		return nil
	}
	pc := center(eng.PlayerRect())
	var out []Nearby
	for i := range m.Spots {
		s := &m.Spots[i]
		if !eng.Visible(s) {
			continue
		}
		sc := center(s.Rect)
		d := math.Hypot(sc.X-pc.X, sc.Y-pc.Y)
		if d > radius {
			continue
		}
		out = append(out, Nearby{Spot: s, Distance: d, Heading: heading(sc.X-pc.X, sc.Y-pc.Y)})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Distance < out[j].Distance })
	return out
}

func center(r types.Rect) types.Vec {
	return types.Vec{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// heading names the screen direction of a vector. Y grows downwards.
func heading(dx, dy float64) string {
	if math.Abs(dx) < 8 && math.Abs(dy) < 8 {
		return "here"
	}
	var parts []string
	if math.Abs(dy) >= math.Abs(dx)/2 {
		if dy < 0 {
			parts = append(parts, "up")
		} else {
			parts = append(parts, "down")
		}
	}
	if math.Abs(dx) >= math.Abs(dy)/2 {
		if dx < 0 {
			parts = append(parts, "left")
		} else {
			parts = append(parts, "right")
		}
	}
	return strings.Join(parts, "-")
}

// DialogLines renders the open session as plain text lines.
func DialogLines(s *dialog.Session, nav dialog.Nav) []string {
	if s == nil {
		return nil
	}
	var lines []string
	header := s.Meta.Title
	if s.Meta.Subtitle != "" {
		header = strings.TrimSpace(header + " (" + s.Meta.Subtitle + ")")
	}
	if header != "" {
		lines = append(lines, "== "+header+" ==")
	}

	switch c := s.Content.(type) {
	case *dialog.Sequence:
		line := c.Current()
		if s.Meta.Speaker != "" {
			line = s.Meta.Speaker + ": " + line
		}
		lines = append(lines, line)
		hint := "next"
		if c.Last() {
			hint = "next to close"
		}
		if nav.Back {
			hint += ", back"
		}
		lines = append(lines, fmt.Sprintf("(line %d/%d: %s)", c.Index+1, len(c.Lines), hint))

	case *dialog.Choice:
		lines = append(lines, c.Prompt)
		for i, o := range c.Options {
			row := fmt.Sprintf("  %d) %s", i+1, o.Label)
			if o.Description != "" {
				row += " - " + o.Description
			}
			lines = append(lines, row)
		}
		lines = append(lines, "(choose <n>, close)")

	case *dialog.Shop:
		lines = append(lines, c.Intro)
		for i, it := range c.Items {
			row := fmt.Sprintf("  %d) %s  %s  [%s]", i+1, it.Name, it.Price, it.ActionLabel)
			if !it.Affordable {
				row += " (not enough coins)"
			}
			lines = append(lines, row)
			if it.Description != "" {
				lines = append(lines, "     "+it.Description)
			}
		}
		lines = append(lines, "(buy <n>, close)")

	case *dialog.Craft:
		lines = append(lines, c.Intro)
		for i, r := range c.Recipes {
			row := fmt.Sprintf("  %d) %s  needs %s  [%s]", i+1, r.Name, r.Summary, r.ActionLabel)
			if !r.Craftable {
				row += " (missing resources)"
			}
			lines = append(lines, row)
		}
		lines = append(lines, "(craft <n>, close)")
	}
	return lines
}

// parseMillis reads "300", "300ms" or "1.5s" as milliseconds.
func parseMillis(s string) (float64, bool) {
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		return n, n > 0
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, false
	}
	return float64(d) / float64(time.Millisecond), true
}
