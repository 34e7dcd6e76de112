package events

import (
	"testing"

	"github.com/nathoo/topdown/types"
)

type fakeWorld struct {
	flags map[string]bool
	mapID string
}

func (w fakeWorld) Flag(name string) bool { return w.flags[name] }
func (w fakeWorld) Quantity(string) int   { return 0 }
func (w fakeWorld) Balance() int          { return 0 }
func (w fakeWorld) MapID() string         { return w.mapID }

func testHandlers() []types.EventHandler {
	return []types.EventHandler{
		{
			EventType: MapLoaded,
			Effects: []types.Effect{
				{Type: "notify", Params: map[string]any{"text": "Welcome!"}},
			},
		},
		{
			EventType: InteractAfter,
			Conditions: []types.Condition{
				{Type: "spot_is", Params: map[string]any{"spot": "dad"}},
			},
			Effects: []types.Effect{
				{Type: "set_flag", Params: map[string]any{"flag": "talked_to_dad", "value": true}},
			},
		},
		{
			EventType: MapLoaded,
			Conditions: []types.Condition{
				{Type: "flag_set", Params: map[string]any{"flag": "visited"}},
			},
			Effects: []types.Effect{
				{Type: "notify", Params: map[string]any{"text": "Welcome back."}},
			},
		},
	}
}

func TestDispatch_MatchesEventType(t *testing.T) {
	w := fakeWorld{flags: map[string]bool{}}
	effs := Dispatch([]Event{{Type: MapLoaded, Data: map[string]any{"id": "plaza"}}}, testHandlers(), w)
	if len(effs) != 1 {
		t.Fatalf("expected 1 effect, got %d", len(effs))
	}
	if effs[0].Params["text"] != "Welcome!" {
		t.Errorf("unexpected effect %+v", effs[0])
	}
}

func TestDispatch_ConditionsGate(t *testing.T) {
	w := fakeWorld{flags: map[string]bool{"visited": true}}
	effs := Dispatch([]Event{{Type: MapLoaded}}, testHandlers(), w)
	if len(effs) != 2 {
		t.Fatalf("expected 2 effects, got %d", len(effs))
	}
}

func TestDispatch_SpotFromEventData(t *testing.T) {
	w := fakeWorld{flags: map[string]bool{}}
	effs := Dispatch([]Event{{Type: InteractAfter, Data: map[string]any{"spot": "shopkeeper"}}}, testHandlers(), w)
	if len(effs) != 0 {
		t.Fatalf("expected no effects for another spot, got %d", len(effs))
	}
	effs = Dispatch([]Event{{Type: InteractAfter, Data: map[string]any{"spot": "dad"}}}, testHandlers(), w)
	if len(effs) != 1 || effs[0].Type != "set_flag" {
		t.Fatalf("expected set_flag, got %+v", effs)
	}
}

func TestDispatch_NoEvents(t *testing.T) {
	if effs := Dispatch(nil, testHandlers(), fakeWorld{}); effs != nil {
		t.Errorf("expected nil, got %v", effs)
	}
}

func TestBus_PublishOrder(t *testing.T) {
	b := NewBus(nil)
	var got []string
	b.Subscribe(Tick, func(Event) { got = append(got, "a") })
	b.Subscribe(Tick, func(Event) { got = append(got, "b") })
	b.Subscribe(MapLoaded, func(Event) { got = append(got, "other") })

	b.Publish(Event{Type: Tick})
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("delivery = %v, want [a b]", got)
	}
}

func TestBus_PanicIsolated(t *testing.T) {
	b := NewBus(nil)
	var reached bool
	b.Subscribe(InteractBefore, func(Event) { panic("boom") })
	b.Subscribe(InteractBefore, func(Event) { reached = true })

	b.Publish(Event{Type: InteractBefore})
	if !reached {
		t.Error("second subscriber should still run")
	}
}

func TestBus_Unsubscribe(t *testing.T) {
	b := NewBus(nil)
	var calls int
	off := b.Subscribe(Tick, func(Event) { calls++ })
	keep := 0
	b.Subscribe(Tick, func(Event) { keep++ })

	b.Publish(Event{Type: Tick})
	off()
	off()
	b.Publish(Event{Type: Tick})

	if calls != 1 {
		t.Errorf("unsubscribed handler ran %d times, want 1", calls)
	}
	if keep != 2 {
		t.Errorf("remaining handler ran %d times, want 2", keep)
	}
	if b.Count(Tick) != 1 {
		t.Errorf("Count = %d, want 1", b.Count(Tick))
	}
}

func TestBus_UnsubscribeDuringPublish(t *testing.T) {
	b := NewBus(nil)
	var second int
	var off func()
	off = b.Subscribe(Tick, func(Event) { off() })
	b.Subscribe(Tick, func(Event) { second++ })

	b.Publish(Event{Type: Tick})
	if second != 1 {
		t.Errorf("second subscriber ran %d times, want 1", second)
	}
}
