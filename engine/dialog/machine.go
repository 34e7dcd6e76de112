package dialog

import (
	"log/slog"

	"github.com/nathoo/topdown/types"
)

// Meta is the merged presentation header of a session plus its origin.
type Meta struct {
	Title    string
	Subtitle string
	Speaker  string
	Portrait string
	SpotID   string
	MapID    string
}

// MergeMeta overlays caller metadata onto authored metadata. Non-empty
// caller fields win.
func MergeMeta(authored types.DialogMeta, caller Meta) Meta {
	return Meta{
		Title:    types.FirstNonEmpty(caller.Title, authored.Title),
		Subtitle: types.FirstNonEmpty(caller.Subtitle, authored.Subtitle),
		Speaker:  types.FirstNonEmpty(caller.Speaker, authored.Speaker),
		Portrait: types.FirstNonEmpty(caller.Portrait, authored.Portrait),
		SpotID:   caller.SpotID,
		MapID:    caller.MapID,
	}
}

// Env supplies the affordances recomputed on every render.
type Env interface {
	CanAfford(cost int) bool
	CanCraft(r types.Recipe) bool
	Describe(r types.Recipe) string
}

// Session is the open dialog.
type Session struct {
	Content Content
	Meta    Meta
	OnClose types.Hook // caller-level hook, runs after the content hook
}

// Closed describes a finished session. Hooks lists the content hook then
// the caller hook; the caller applies them.
type Closed struct {
	Reason string
	Meta   Meta
	Kind   types.DialogKind
	Hooks  []types.Hook
}

// Nav is the navigation available on the current session.
type Nav struct {
	Back    bool
	Forward bool
}

// Machine holds at most one dialog session.
type Machine struct {
	env     Env
	logger  *slog.Logger
	session *Session
	serial  uint64
	renders uint64
}

// NewMachine creates a closed machine.
func NewMachine(env Env, logger *slog.Logger) *Machine {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Machine{env: env, logger: logger}
}

// Open starts a session. An open session is replaced without running its
// close hooks.
func (m *Machine) Open(c Content, meta Meta, onClose types.Hook) {
	if c == nil {
		return
	}
	if m.session != nil {
		m.logger.Debug("dialog replaced", "from", m.session.Content.Kind(), "to", c.Kind())
	}
	m.session = &Session{Content: c, Meta: meta, OnClose: onClose}
	m.serial++
	m.refresh()
}

// Close ends the session. Returns false if nothing was open.
func (m *Machine) Close(reason string) (Closed, bool) {
	s := m.session
	if s == nil {
		return Closed{}, false
	}
	m.session = nil
	m.serial++
	closed := Closed{Reason: reason, Meta: s.Meta, Kind: s.Content.Kind()}
	if h := s.Content.closeHook(); !empty(h) {
		closed.Hooks = append(closed.Hooks, h)
	}
	if !empty(s.OnClose) {
		closed.Hooks = append(closed.Hooks, s.OnClose)
	}
	return closed, true
}

func empty(h types.Hook) bool {
	return len(h.Effects) == 0
}

// IsOpen reports whether a session is open.
func (m *Machine) IsOpen() bool {
	return m.session != nil
}

// Session returns the open session, or nil.
func (m *Machine) Session() *Session {
	return m.session
}

// Kind returns the kind of the open session, or "".
func (m *Machine) Kind() types.DialogKind {
	if m.session == nil {
		return ""
	}
	return m.session.Content.Kind()
}

// Serial changes every time a session opens or closes.
func (m *Machine) Serial() uint64 {
	return m.serial
}

// Renders counts refreshes of the open session.
func (m *Machine) Renders() uint64 {
	return m.renders
}

// Nav returns the navigation the open session allows.
func (m *Machine) Nav() Nav {
	if m.session == nil {
		return Nav{}
	}
	switch c := m.session.Content.(type) {
	case *Sequence:
		return Nav{Back: c.Index > 0, Forward: true}
	case *Choice, *Shop, *Craft:
		return Nav{Back: true}
	default:
		return Nav{}
	}
}

// Forward advances a sequence, closing it past the last line. Other
// kinds have no forward action.
func (m *Machine) Forward() (Closed, bool) {
	if m.session == nil {
		return Closed{}, false
	}
	seq, ok := m.session.Content.(*Sequence)
	if !ok {
		return Closed{}, false
	}
	if seq.Last() {
		return m.Close(ReasonSequence)
	}
	seq.Index++
	m.refresh()
	return Closed{}, false
}

// Back steps a sequence back, or closes any other kind with its cancel
// reason.
func (m *Machine) Back() (Closed, bool) {
	if m.session == nil {
		return Closed{}, false
	}
	switch c := m.session.Content.(type) {
	case *Sequence:
		if c.Index > 0 {
			c.Index--
			m.refresh()
		}
		return Closed{}, false
	case *Choice:
		return m.Close(ReasonChoiceCancel)
	case *Shop:
		return m.Close(ReasonShopClose)
	case *Craft:
		return m.Close(ReasonCraftClose)
	default:
		return m.Close(ReasonExternal)
	}
}

// Option returns option i of an open choice.
func (m *Machine) Option(i int) (types.OptionDef, bool) {
	if m.session == nil {
		return types.OptionDef{}, false
	}
	c, ok := m.session.Content.(*Choice)
	if !ok || i < 0 || i >= len(c.Options) {
		return types.OptionDef{}, false
	}
	return c.Options[i], true
}

// Follow finishes an option selection once its effects have run: it chains
// to next, keeping the session's header and caller hook, or closes unless
// the option keeps the dialog open.
func (m *Machine) Follow(opt types.OptionDef, next Content) (Closed, bool) {
	if m.session == nil {
		return Closed{}, false
	}
	if next != nil {
		s := m.session
		m.Open(next, s.Meta, s.OnClose)
		return Closed{}, false
	}
	if opt.KeepOpen {
		m.refresh()
		return Closed{}, false
	}
	return m.Close(ReasonChoice)
}

// ShopItem returns item i of an open shop.
func (m *Machine) ShopItem(i int) (ShopItem, bool) {
	if m.session == nil {
		return ShopItem{}, false
	}
	c, ok := m.session.Content.(*Shop)
	if !ok || i < 0 || i >= len(c.Items) {
		return ShopItem{}, false
	}
	return c.Items[i], true
}

// Recipe returns recipe i of an open craft session.
func (m *Machine) Recipe(i int) (CraftRecipe, bool) {
	if m.session == nil {
		return CraftRecipe{}, false
	}
	c, ok := m.session.Content.(*Craft)
	if !ok || i < 0 || i >= len(c.Recipes) {
		return CraftRecipe{}, false
	}
	return c.Recipes[i], true
}

// Rerender recomputes affordances of the open session in place.
func (m *Machine) Rerender() {
	if m.session == nil {
		return
	}
	m.refresh()
}

func (m *Machine) refresh() {
	m.renders++
	if m.env == nil {
		return
	}
	switch c := m.session.Content.(type) {
	case *Shop:
		for i := range c.Items {
			c.Items[i].Affordable = m.env.CanAfford(c.Items[i].Cost)
		}
	case *Craft:
		for i := range c.Recipes {
			r := &c.Recipes[i]
			r.Craftable = m.env.CanCraft(r.Recipe)
			r.Summary = m.env.Describe(r.Recipe)
		}
	}
}
