package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"

	"github.com/lixenwraith/ripple/parameter"
)

// pianoVoice is a decaying two-operator FM tone
// The modulation index follows the envelope so the tone mellows as it fades
type pianoVoice struct {
	freq     float64
	rate     beep.SampleRate
	phase    float64
	modPhase float64

	position int
	total    int
	attack   int
	decay    float64 // Per-sample decay constant
}

// NewVoice renders one note of length at freq
func NewVoice(freq float64, length time.Duration, rate beep.SampleRate) beep.Streamer {
	return &pianoVoice{
		freq:   freq,
		rate:   rate,
		total:  rate.N(length),
		attack: rate.N(parameter.NoteAttack),
		decay:  parameter.NoteDecay / float64(rate),
	}
}

func (v *pianoVoice) envelope() float64 {
	return envelopeAt(v.position, v.total, v.attack, v.decay)
}

// envelopeAt returns the gain at position: linear attack then exponential decay
// The last 5% of the note fades linearly to zero so the cut is click-free
func envelopeAt(position, total, attack int, decay float64) float64 {
	env := math.Exp(-float64(position) * decay)
	if attack > 0 && position < attack {
		env *= float64(position) / float64(attack)
	}
	tail := total / 20
	if remaining := total - position; tail > 0 && remaining < tail {
		env *= float64(remaining) / float64(tail)
	}
	return env
}

func (v *pianoVoice) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if v.position >= v.total {
			return i, i > 0
		}

		env := v.envelope()
		modIndex := 2.5 * env

		v.modPhase += 2 * v.freq / float64(v.rate)
		v.modPhase -= math.Floor(v.modPhase)
		mod := math.Sin(2 * math.Pi * v.modPhase)

		val := env * math.Sin(2*math.Pi*v.phase+modIndex*mod)

		v.phase += v.freq / float64(v.rate)
		v.phase -= math.Floor(v.phase)
		v.position++

		samples[i][0] = val
		samples[i][1] = val
	}
	return len(samples), true
}

func (v *pianoVoice) Err() error { return nil }

// shaped applies the note envelope to a source streamer
type shaped struct {
	src      beep.Streamer
	position int
	total    int
	attack   int
	decay    float64
}

// NewSineVoice renders one pure sine note of length at freq
// Fails for frequencies the sample rate cannot represent
func NewSineVoice(freq float64, length time.Duration, rate beep.SampleRate) (beep.Streamer, error) {
	sine, err := generators.SineTone(rate, freq)
	if err != nil {
		return nil, err
	}
	total := rate.N(length)
	return &shaped{
		src:    beep.Take(total, sine),
		total:  total,
		attack: rate.N(parameter.NoteAttack),
		decay:  parameter.NoteDecay / float64(rate),
	}, nil
}

func (s *shaped) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = s.src.Stream(samples)
	for i := 0; i < n; i++ {
		env := envelopeAt(s.position, s.total, s.attack, s.decay)
		samples[i][0] *= env
		samples[i][1] *= env
		s.position++
	}
	return n, ok
}

func (s *shaped) Err() error { return s.src.Err() }

// newVolume applies a linear gain; math.Log2(0) is -Inf so zero is mapped to silence
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}
