package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nathoo/topdown/cli"
)

// renderStatusBar produces a full-width inverted status line showing the
// current map, coins, progress counters and the hover prompt.
func (m Model) renderStatusBar() string {
	eng := m.engine

	left := fmt.Sprintf(" %s | Coins: %d", cli.MapTitle(eng.CurrentMap()), eng.Balance())
	right := cli.ProgressLine(eng.Progress()) + " "
	if h := eng.Hovered(); h != nil && eng.Dialog() == nil {
		left += " | " + stylePrompt.Render(fmt.Sprintf("[e] %s %s", eng.HoverPrompt(), cli.SpotLabel(h)))
	}

	// Drop the counters when they do not fit.
	if lipgloss.Width(left)+lipgloss.Width(right)+2 > m.width {
		right = ""
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + strings.Repeat(" ", gap) + right
	return styleStatusBar.Width(m.width).Render(bar)
}
