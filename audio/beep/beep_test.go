package beep

import (
	"testing"
	"time"

	"github.com/nathoo/topdown/audio"
)

// drain counts the samples a streamer yields before it ends.
func drain(t *testing.T, c audio.Cue) int {
	t.Helper()
	s := cueStreamer(c)
	if s == nil {
		t.Fatalf("no streamer for %q", c)
	}
	buf := make([][2]float64, 512)
	total := 0
	for {
		n, ok := s.Stream(buf)
		total += n
		if !ok || n == 0 {
			return total
		}
	}
}

func TestCueStreamer_Length(t *testing.T) {
	for cue, notes := range cueNotes {
		want := 0
		for _, n := range notes {
			want += sampleRate.N(n.dur)
		}
		if got := drain(t, cue); got != want {
			t.Errorf("%s: %d samples, want %d", cue, got, want)
		}
	}
}

func TestCueStreamer_Unknown(t *testing.T) {
	if cueStreamer(audio.Cue("thunder")) != nil {
		t.Error("unknown cue should have no streamer")
	}
}

func TestTone_Release(t *testing.T) {
	d := 100 * time.Millisecond
	total := sampleRate.N(d)
	buf := make([][2]float64, total+16)
	n, _ := tone(440, d).Stream(buf)
	if n != total {
		t.Fatalf("streamed %d samples, want %d", n, total)
	}
	if v := buf[0][0]; v != 0.25 {
		t.Errorf("first sample = %v, want 0.25", v)
	}
	if v := buf[total-1][0]; v > 0.01 || v < -0.01 {
		t.Errorf("last sample = %v, want faded out", v)
	}
}
