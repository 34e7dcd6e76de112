package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nathoo/topdown/types"
)

// Styles used throughout the TUI.
var (
	styleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Bold(true)

	stylePrompt = lipgloss.NewStyle().
			Foreground(lipgloss.Color("34")).
			Bold(true)

	styleCard = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("228")).
			Padding(0, 1)

	styleCardTitle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("228")).
			Bold(true)

	styleHint = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleDisabled = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	stylePanel = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("243")).
			Padding(0, 1)

	styleToast = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220"))
)

// glyph identifies what occupies a map cell, for styling.
type glyph int

const (
	glyphVoid glyph = iota
	glyphFloor
	glyphWall
	glyphOutline
	glyphPickup
	glyphPoint
	glyphPerson
	glyphBench
	glyphGate
	glyphShop
	glyphHover
	glyphPlayer
)

var glyphStyles = map[glyph]lipgloss.Style{
	glyphVoid:    lipgloss.NewStyle(),
	glyphFloor:   lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
	glyphWall:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	glyphOutline: lipgloss.NewStyle().Foreground(lipgloss.Color("24")),
	glyphPickup:  lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true),
	glyphPoint:   lipgloss.NewStyle().Foreground(lipgloss.Color("213")),
	glyphPerson:  lipgloss.NewStyle().Foreground(lipgloss.Color("117")).Bold(true),
	glyphBench:   lipgloss.NewStyle().Foreground(lipgloss.Color("173")),
	glyphGate:    lipgloss.NewStyle().Foreground(lipgloss.Color("78")).Bold(true),
	glyphShop:    lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true),
	glyphHover:   lipgloss.NewStyle().Reverse(true).Bold(true),
	glyphPlayer:  lipgloss.NewStyle().Foreground(lipgloss.Color("34")).Bold(true),
}

// spotGlyph returns the rune and style class drawn for a spot kind.
func spotGlyph(k types.SpotKind) (rune, glyph) {
	switch k {
	case types.SpotCoin:
		return 'o', glyphPickup
	case types.SpotPart:
		return '%', glyphPickup
	case types.SpotResource:
		return '*', glyphPickup
	case types.SpotPoint:
		return '!', glyphPoint
	case types.SpotDialog, types.SpotPreset:
		return '&', glyphPerson
	case types.SpotBench:
		return 'B', glyphBench
	case types.SpotGate:
		return '>', glyphGate
	case types.SpotShop:
		return '$', glyphShop
	default:
		return '?', glyphOutline
	}
}
