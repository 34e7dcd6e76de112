// Package cli provides the line-driven front end for the topdown engine:
// command parsing, text formatting, and meta-command dispatch. It drives the
// real-time engine in fixed frames, so scripts replay deterministically.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/nathoo/topdown/engine"
	"github.com/nathoo/topdown/engine/effects"
	"github.com/nathoo/topdown/engine/events"
	"github.com/nathoo/topdown/engine/movement"
	"github.com/nathoo/topdown/engine/state"
	"github.com/nathoo/topdown/types"
)

// Defaults, in milliseconds.
const (
	Frame       = 16.0
	walkDefault = 250.0
	waitDefault = 500.0
	gotoLimit   = 8000.0
	lookRadius  = 240.0
)

// tracedEvents are printed when tracing. Ticks are left out.
var tracedEvents = []string{
	events.MapLoaded, events.InteractBefore, events.InteractAfter,
	effects.CoinsGained, effects.CoinsSpent, effects.ItemGained, effects.ItemLost, effects.FlagChanged,
}

// CLI handles line-based interaction with the player.
type CLI struct {
	Engine    *engine.Engine
	Defs      *state.Defs
	In        io.Reader
	Out       io.Writer
	Trace     bool
	EchoInput bool // echo each input line after the prompt (for script playback)

	lastCmd    string
	lastRender uint64
	lastHover  string
	lastMap    string
	untrace    []func()
}

// New creates a CLI wired to the given engine.
func New(eng *engine.Engine, defs *state.Defs) *CLI {
	return &CLI{
		Engine: eng,
		Defs:   defs,
		In:     os.Stdin,
		Out:    os.Stdout,
	}
}

// Run starts the loop: intro and first look, then prompt, input, dispatch
// and output until input ends or /quit.
func (c *CLI) Run() {
	if c.Defs.Game.Intro != "" {
		c.printLine(c.Defs.Game.Intro)
		c.printLine("")
	}
	c.setTrace(c.Trace)
	defer c.setTrace(false)

	c.lastMap = c.Engine.MapID()
	c.cmdLook()
	c.flush()

	scanner := bufio.NewScanner(c.In)
	for {
		c.print("> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" || strings.HasPrefix(input, "#") {
			continue
		}
		if c.EchoInput {
			c.printLine(input)
		}

		if strings.HasPrefix(input, "/") {
			if c.handleMeta(input) {
				return
			}
			continue
		}

		lower := strings.ToLower(input)
		if lower == "again" || lower == "g" {
			if c.lastCmd == "" {
				c.printLine("Nothing to repeat.")
				continue
			}
			input = c.lastCmd
		} else {
			c.lastCmd = input
		}

		c.Execute(Parse(input))
		c.flush()
	}
}

// Execute runs one game command.
func (c *CLI) Execute(cmd Command) {
	eng := c.Engine
	switch cmd.Verb {
	case "look":
		c.cmdLook()

	case "inventory":
		c.cmdInventory()

	case "progress":
		c.printLine(ProgressLine(eng.Progress()))

	case "walk":
		c.cmdWalk(cmd.Args)

	case "wait":
		ms := waitDefault
		if len(cmd.Args) > 0 {
			if n, ok := parseMillis(cmd.Args[0]); ok {
				ms = n
			}
		}
		c.run(ms, func() (movement.Intent, bool) { return movement.Intent{}, true })

	case "goto":
		c.cmdGoto(strings.Join(cmd.Args, " "))

	case "interact":
		if s := eng.Dialog(); s != nil {
			if eng.DialogNav().Forward {
				eng.Forward()
			} else {
				c.printLine("Choose from the dialog, or close it.")
			}
			return
		}
		if eng.Hovered() == nil {
			// Hover is recomputed on the next frame after a dialog closes.
			eng.Tick(Frame, movement.Intent{}, false)
		}
		if eng.Hovered() == nil {
			c.printLine("There is nothing here to interact with.")
			return
		}
		eng.Tick(Frame, movement.Intent{}, true)
		c.settle()

	case "next":
		if !eng.DialogNav().Forward {
			c.printLine("Nothing to advance.")
			return
		}
		eng.Forward()

	case "back":
		if !eng.DialogNav().Back {
			c.printLine("Nothing to go back to.")
			return
		}
		eng.Back()

	case "close":
		if eng.Dialog() == nil {
			if eng.InventoryOpen() {
				eng.SetInventoryOpen(false)
				return
			}
			c.printLine("No dialog is open.")
			return
		}
		eng.CloseDialog()

	case "choose", "buy", "craft":
		c.cmdPick(cmd)

	case "spots":
		eng.SetDebugOverlayVisible(!eng.ShowSpots())
		c.printSystem(fmt.Sprintf("Spot outlines %s.", onOff(eng.ShowSpots())))

	case "help":
		c.cmdHelp()

	default:
		msg := fmt.Sprintf("I don't know how to %q.", cmd.Verb)
		if s, ok := Suggest(cmd.Verb); ok {
			msg += fmt.Sprintf(" Did you mean %q?", s)
		}
		c.printLine(msg)
	}
}

// run ticks the engine in frames for ms milliseconds. It stops early when
// step reports false, a dialog opens, or the map changes.
func (c *CLI) run(ms float64, step func() (movement.Intent, bool)) {
	eng := c.Engine
	startMap := eng.MapID()
	for elapsed := 0.0; elapsed < ms; elapsed += Frame {
		in, ok := step()
		if !ok {
			break
		}
		eng.Tick(Frame, in, false)
		if eng.Dialog() != nil || eng.MapID() != startMap {
			break
		}
	}
	c.settle()
}

// settle lets a started fade finish so the new map is reported.
func (c *CLI) settle() {
	for i := 0; c.Engine.Fading() && i < 1000; i++ {
		c.Engine.Tick(Frame, movement.Intent{}, false)
	}
}

func (c *CLI) cmdWalk(args []string) {
	dirs, ms, unknown := walkArgs(args)
	if len(unknown) > 0 || len(dirs) == 0 {
		c.printLine("Walk where? Try: walk up 300, walk down left, or just: right")
		return
	}
	if c.Engine.Dialog() != nil {
		c.printLine("Close the dialog first.")
		return
	}
	if ms == 0 {
		ms = walkDefault
	}
	var in movement.Intent
	for _, d := range dirs {
		switch d {
		case "up":
			in.Up = true
		case "down":
			in.Down = true
		case "left":
			in.Left = true
		case "right":
			in.Right = true
		}
	}
	c.run(ms, func() (movement.Intent, bool) { return in, true })
}

// cmdGoto walks towards a spot of the current map until it is hovered,
// the player gets stuck, or the time limit runs out.
func (c *CLI) cmdGoto(name string) {
	eng := c.Engine
	if name == "" {
		c.printLine("Go to what?")
		return
	}
	if eng.Dialog() != nil {
		c.printLine("Close the dialog first.")
		return
	}
	target, ok := c.findSpot(name)
	if !ok {
		return
	}

	goal := center(target.Rect)
	stuck := 0
	last := eng.Player().Pos
	arrived := func() bool {
		if h := eng.Hovered(); h != nil && h.ID == target.ID {
			return true
		}
		return !eng.Visible(target)
	}
	c.run(gotoLimit, func() (movement.Intent, bool) {
		if arrived() || stuck > 10 {
			return movement.Intent{}, false
		}
		pc := center(eng.PlayerRect())
		dx, dy := goal.X-pc.X, goal.Y-pc.Y
		pos := eng.Player().Pos
		if pos == last {
			stuck++
		} else {
			stuck = 0
		}
		last = pos
		return movement.Intent{
			Up:    dy < -2,
			Down:  dy > 2,
			Left:  dx < -2,
			Right: dx > 2,
		}, true
	})
	if stuck > 10 {
		c.printLine(fmt.Sprintf("Something blocks the way to %s.", SpotLabel(target)))
	}
}

func (c *CLI) findSpot(name string) (*types.Spot, bool) {
	m := c.Engine.CurrentMap()
	if m == nil {
		c.printLine("There is no map loaded.")
		return nil, false
	}
	name = strings.ToLower(name)
	var ids []string
	for i := range m.Spots {
		s := &m.Spots[i]
		if !c.Engine.Visible(s) {
			continue
		}
		ids = append(ids, s.ID)
		if strings.ToLower(s.ID) == name || strings.ToLower(SpotLabel(s)) == name {
			return s, true
		}
	}
	msg := fmt.Sprintf("There is no %q here.", name)
	if s, ok := closest(name, ids); ok {
		msg += fmt.Sprintf(" Did you mean %q?", s)
	}
	c.printLine(msg)
	return nil, false
}

func (c *CLI) cmdPick(cmd Command) {
	eng := c.Engine
	if len(cmd.Args) == 0 {
		c.printLine(fmt.Sprintf("%s which one? Give a number.", DisplayName(cmd.Verb)))
		return
	}
	n, err := strconv.Atoi(cmd.Args[0])
	if err != nil || n < 1 {
		c.printLine("Give a number from the list.")
		return
	}
	var ok bool
	switch cmd.Verb {
	case "choose":
		ok = eng.SelectOption(n - 1)
	case "buy":
		ok = eng.Buy(n - 1)
	case "craft":
		ok = eng.CraftAt(n - 1)
	}
	if !ok && eng.Dialog() == nil {
		c.printLine("No dialog is open.")
	}
}

func (c *CLI) cmdLook() {
	eng := c.Engine
	m := eng.CurrentMap()
	if m == nil {
		c.printLine("You are nowhere.")
		return
	}
	p := eng.Player()
	c.printLine(fmt.Sprintf("%s. You stand at %.0f,%.0f facing %s.", MapTitle(m), p.Pos.X, p.Pos.Y, p.Facing))
	if h := eng.Hovered(); h != nil {
		c.printLine(fmt.Sprintf("Here: %s (%s)", SpotLabel(h), eng.HoverPrompt()))
	}
	nearby := NearbySpots(eng, lookRadius)
	if len(nearby) == 0 {
		c.printLine("Nothing of note nearby.")
		return
	}
	var parts []string
	for _, n := range nearby {
		parts = append(parts, fmt.Sprintf("%s [%s] %s %.0f", SpotLabel(n.Spot), n.Spot.ID, n.Heading, n.Distance))
	}
	c.printLine("Nearby: " + strings.Join(parts, "; "))
}

func (c *CLI) cmdInventory() {
	eng := c.Engine
	c.printLine(fmt.Sprintf("Coins: %d", eng.Balance()))
	entries := eng.Inventory()
	if len(entries) == 0 {
		c.printLine("Your pack is empty.")
		return
	}
	for _, e := range entries {
		c.printLine(fmt.Sprintf("  %dx %s", e.Qty, e.DisplayName()))
	}
}

// flush prints what changed since the last command: notices, map, hover
// and the dialog.
func (c *CLI) flush() {
	eng := c.Engine
	c.settle()
	for _, n := range eng.TakeNotices() {
		c.printLine("* " + n.Text)
	}

	if id := eng.MapID(); id != c.lastMap {
		c.lastMap = id
		c.lastHover = ""
		c.printLine("")
		c.cmdLook()
	}

	hover := ""
	if h := eng.Hovered(); h != nil {
		hover = h.ID
		if hover != c.lastHover && eng.Dialog() == nil {
			c.printLine(fmt.Sprintf("You are at %s. Type interact to %s.", SpotLabel(h), strings.ToLower(eng.HoverPrompt())))
		}
	}
	c.lastHover = hover

	if r := eng.DialogRenders(); r != c.lastRender {
		c.lastRender = r
		for _, line := range DialogLines(eng.Dialog(), eng.DialogNav()) {
			c.printLine(line)
		}
	}
}

// handleMeta dispatches meta-commands. Returns true if the game should exit.
func (c *CLI) handleMeta(input string) bool {
	parts := strings.Fields(input)
	cmd := parts[0]
	var arg string
	if len(parts) > 1 {
		arg = parts[1]
	}

	switch cmd {
	case "/quit", "/exit":
		c.printSystem("Goodbye.")
		return true

	case "/help":
		c.cmdHelp()

	case "/state":
		c.cmdState()

	case "/trace":
		c.setTrace(!c.Trace)
		c.printSystem(fmt.Sprintf("Trace output %s.", onOff(c.Trace)))

	case "/warp":
		c.cmdWarp(arg)
		c.flush()

	default:
		c.printSystem(fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd))
	}

	return false
}

func (c *CLI) cmdWarp(id string) {
	if id == "" {
		c.printSystem("Usage: /warp <map>")
		return
	}
	if !c.Engine.LoadMap(id, engine.LoadOptions{Immediate: true}) {
		msg := fmt.Sprintf("Unknown map: %s.", id)
		if s, ok := closest(id, c.Defs.MapOrder); ok {
			msg += fmt.Sprintf(" Did you mean %s?", s)
		}
		c.printSystem(msg)
	}
}

func (c *CLI) cmdHelp() {
	help := []string{
		"System:",
		"  /quit         Exit game",
		"  /help         Show this help",
		"  /state        Debug: dump session state",
		"  /trace        Toggle event trace output",
		"  /warp <map>   Debug: jump to a map",
		"",
		"Game commands:",
		"  look (l)                  Describe your surroundings",
		"  walk <dirs> [ms] (go)     Walk, e.g. walk up left 300 (or just: up)",
		"  goto <spot>               Walk to a nearby spot",
		"  wait [ms] (z)             Let time pass",
		"  interact (e)              Use the spot you are standing at",
		"  next / back / close       Navigate an open dialog",
		"  choose <n> / buy <n> / craft <n>",
		"  inventory (i)             Check your coins and items",
		"  progress (p)              Map counters",
		"  spots                     Toggle spot outlines",
		"  again (g)                 Repeat your last command",
	}
	for _, line := range help {
		c.printLine(line)
	}
}

func (c *CLI) cmdState() {
	eng := c.Engine
	s := eng.State
	c.printSystem(fmt.Sprintf("Session: %s", eng.SessionID()))
	c.printSystem(fmt.Sprintf("Map: %s  Ticks: %d  Clock: %.0fms", s.MapID, s.Ticks, s.Clock))
	c.printSystem(fmt.Sprintf("Player: %.1f,%.1f facing %s", s.Player.Pos.X, s.Player.Pos.Y, s.Player.Facing))
	c.printSystem(fmt.Sprintf("Coins: %d  Items: %d", eng.Balance(), eng.Ledger.Len()))
	if len(s.Flags) > 0 {
		names := make([]string, 0, len(s.Flags))
		for k, v := range s.Flags {
			names = append(names, fmt.Sprintf("%s=%t", k, v))
		}
		sort.Strings(names)
		c.printSystem("Flags: " + strings.Join(names, " "))
	}
}

// setTrace subscribes or unsubscribes the event trace.
func (c *CLI) setTrace(on bool) {
	for _, un := range c.untrace {
		un()
	}
	c.untrace = nil
	c.Trace = on
	if !on {
		return
	}
	for _, t := range tracedEvents {
		c.untrace = append(c.untrace, c.Engine.Bus.Subscribe(t, func(e events.Event) {
			c.printSystem(fmt.Sprintf("trace %s %s", e.Type, formatData(e.Data)))
		}))
	}
}

func formatData(data map[string]any) string {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, data[k]))
	}
	return strings.Join(parts, " ")
}

// closest returns the candidate nearest to name by edit distance.
func closest(name string, candidates []string) (string, bool) {
	best, bestDist := "", math.MaxInt
	for _, cand := range candidates {
		d := levenshtein.ComputeDistance(name, strings.ToLower(cand))
		if d < bestDist {
			best, bestDist = cand, d
		}
	}
	if best == "" || bestDist > max(2, len(name)/3) {
		return "", false
	}
	return best, true
}

func onOff(b bool) string {
	if b {
		return "enabled"
	}
	return "disabled"
}

func (c *CLI) printLine(text string) {
	fmt.Fprintln(c.Out, text)
}

func (c *CLI) print(text string) {
	fmt.Fprint(c.Out, text)
}

func (c *CLI) printSystem(text string) {
	fmt.Fprintf(c.Out, "[%s]\n", text)
}
