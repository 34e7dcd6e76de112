// Package beep plays audio cues through the system speaker. It is kept apart
// from package audio so that only the binary links the speaker driver.
package beep

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"

	"github.com/nathoo/topdown/audio"
)

const sampleRate = beep.SampleRate(44100)

type note struct {
	freq float64
	dur  time.Duration
}

// Short synthesized stand-ins for the game's sound effects.
var cueNotes = map[audio.Cue][]note{
	audio.Step:   {{freq: 180, dur: 35 * time.Millisecond}},
	audio.Pickup: {{freq: 988, dur: 60 * time.Millisecond}, {freq: 1319, dur: 110 * time.Millisecond}},
	audio.Gate:   {{freq: 440, dur: 90 * time.Millisecond}, {freq: 660, dur: 90 * time.Millisecond}, {freq: 880, dur: 140 * time.Millisecond}},
	audio.NPC:    {{freq: 587, dur: 70 * time.Millisecond}},
}

var cueVolume = map[audio.Cue]float64{
	audio.Step:   0.48,
	audio.Pickup: 0.7,
	audio.Gate:   0.7,
	audio.NPC:    0.6,
}

// Speaker is an audio.Backend that synthesizes tones through the system
// speaker.
type Speaker struct {
	mu     sync.Mutex
	mixer  *beep.Mixer
	closed bool
}

// New initializes the speaker. Callers fall back to audio.Nop when it fails.
func New() (*Speaker, error) {
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return nil, fmt.Errorf("initializing speaker: %w", err)
	}
	b := &Speaker{mixer: &beep.Mixer{}}
	speaker.Play(b.mixer)
	return b, nil
}

// Play queues the tones for c.
func (b *Speaker) Play(c audio.Cue) {
	s := cueStreamer(c)
	if s == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	speaker.Lock()
	b.mixer.Add(s)
	speaker.Unlock()
}

// Close silences the mixer and releases the speaker.
func (b *Speaker) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	speaker.Lock()
	b.mixer.Clear()
	speaker.Unlock()
	speaker.Close()
}

func cueStreamer(c audio.Cue) beep.Streamer {
	notes, ok := cueNotes[c]
	if !ok {
		return nil
	}
	parts := make([]beep.Streamer, 0, len(notes))
	for _, n := range notes {
		parts = append(parts, tone(n.freq, n.dur))
	}
	return &effects.Volume{Streamer: beep.Seq(parts...), Base: 2, Volume: math.Log2(cueVolume[c])}
}

// tone is a square wave with a linear release over its last third.
func tone(freq float64, dur time.Duration) beep.Streamer {
	total := sampleRate.N(dur)
	release := total / 3
	pos := 0
	phase := 0.0
	return beep.Take(total, beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			v := 0.25
			if phase >= 0.5 {
				v = -0.25
			}
			if left := total - pos; left < release {
				v *= float64(left) / float64(release)
			}
			samples[i][0] = v
			samples[i][1] = v
			phase += freq / float64(sampleRate)
			phase -= math.Floor(phase)
			pos++
		}
		return len(samples), true
	}))
}
