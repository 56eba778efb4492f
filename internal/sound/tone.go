// Package sound turns game events into short synthesized tones.
package sound

import (
	"math"
	"time"

	"github.com/gopxl/beep"
)

// SampleRate is the rate all tones are generated at.
const SampleRate = beep.SampleRate(44100)

// Tone gain envelope: start at startGain and decay exponentially to endGain.
const (
	startGain = 0.1
	endGain   = 0.0001
)

// WaveType defines oscillator wave shapes
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveSaw
)

// oscillator generates a raw wave for a fixed number of samples.
type oscillator struct {
	freq     float64
	phase    float64
	duration int
	position int
	wave     WaveType
	rate     beep.SampleRate
}

// NewOscillator creates a unity-gain oscillator that stops after duration.
func NewOscillator(freq float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return &oscillator{
		freq:     freq,
		duration: rate.N(duration),
		wave:     wave,
		rate:     rate,
	}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	if o.position >= o.duration {
		return 0, false
	}
	for i := range samples {
		if o.position >= o.duration {
			return i, true
		}

		var val float64
		switch o.wave {
		case WaveSine:
			val = math.Sin(2 * math.Pi * o.phase)
		case WaveSquare:
			if o.phase < 0.5 {
				val = 1.0
			} else {
				val = -1.0
			}
		case WaveSaw:
			val = 2.0 * (o.phase - 0.5)
		}

		samples[i][0] = val
		samples[i][1] = val

		o.phase += o.freq / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// decay scales a stream from startGain down to endGain along an exponential curve
// spanning total samples.
type decay struct {
	streamer beep.Streamer
	position int
	total    int
}

// NewDecay wraps s with the tone gain envelope over duration.
func NewDecay(s beep.Streamer, duration time.Duration, rate beep.SampleRate) beep.Streamer {
	return &decay{streamer: s, total: rate.N(duration)}
}

func (d *decay) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = d.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		g := gainAt(d.position, d.total)
		samples[i][0] *= g
		samples[i][1] *= g
		d.position++
	}
	return n, ok
}

func (d *decay) Err() error { return d.streamer.Err() }

// gainAt follows startGain * (endGain/startGain)^(pos/total).
func gainAt(pos, total int) float64 {
	if total <= 0 || pos >= total {
		return endGain
	}
	t := float64(pos) / float64(total)
	return startGain * math.Pow(endGain/startGain, t)
}

// Tone is one decaying note.
func Tone(freq float64, wave WaveType, duration time.Duration) beep.Streamer {
	return NewDecay(NewOscillator(freq, duration, wave, SampleRate), duration, SampleRate)
}

// MoveSound is the short click played for a successful move or rotation.
func MoveSound() beep.Streamer {
	return Tone(150, WaveSquare, 100*time.Millisecond)
}

// ClearSound is the two-note chime for cleared rows.
func ClearSound() beep.Streamer {
	return beep.Take(SampleRate.N(300*time.Millisecond), beep.Mix(
		Tone(400, WaveSine, 200*time.Millisecond),
		Tone(600, WaveSine, 300*time.Millisecond),
	))
}

// GameOverSound is the low buzz played when the stack tops out.
func GameOverSound() beep.Streamer {
	return Tone(100, WaveSaw, 500*time.Millisecond)
}
