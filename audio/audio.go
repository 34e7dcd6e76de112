// Package audio plays the game's sound cues. The engine decides when a cue
// fires; a Backend decides how it sounds.
package audio

import (
	"log/slog"
	"time"
)

// Cue names a sound effect.
type Cue string

const (
	Step   Cue = "step"
	Pickup Cue = "pickup"
	Gate   Cue = "gate"
	NPC    Cue = "npc"
)

// StepCooldown is the minimum gap between two step cues.
const StepCooldown = 230 * time.Millisecond

// Backend produces sound for a cue.
type Backend interface {
	Play(c Cue)
}

// Player filters cues before they reach the backend. Step cues are
// debounced against the game clock.
type Player struct {
	backend  Backend
	logger   *slog.Logger
	nextStep time.Duration
	music    string
	stepRef  string
}

// NewPlayer wraps a backend. A nil backend discards every cue.
func NewPlayer(b Backend, logger *slog.Logger) *Player {
	if b == nil {
		b = Nop{}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Player{backend: b, logger: logger}
}

// Play emits c at game time now. Returns false when a step cue is still
// cooling down.
func (p *Player) Play(c Cue, now time.Duration) bool {
	if c == Step {
		if now < p.nextStep {
			return false
		}
		p.nextStep = now + StepCooldown
	}
	p.backend.Play(c)
	return true
}

// SetMap records the ambient references of the loaded map.
func (p *Player) SetMap(music, step string) {
	if music != p.music {
		p.logger.Debug("map music", "music", music)
	}
	p.music = music
	p.stepRef = step
}

// Music returns the ambient music reference of the loaded map.
func (p *Player) Music() string {
	return p.music
}

// Nop discards cues.
type Nop struct{}

// Play does nothing.
func (Nop) Play(Cue) {}

// Recorder keeps every cue it receives, for tests and traces.
type Recorder struct {
	Cues []Cue
}

// Play records c.
func (r *Recorder) Play(c Cue) {
	r.Cues = append(r.Cues, c)
}

// Count returns how many times c was played.
func (r *Recorder) Count(c Cue) int {
	n := 0
	for _, got := range r.Cues {
		if got == c {
			n++
		}
	}
	return n
}
