package audio

import (
	"math"
	"testing"
	"time"

	"github.com/gopxl/beep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/ripple/event"
	"github.com/lixenwraith/ripple/music"
	"github.com/lixenwraith/ripple/status"
	"github.com/lixenwraith/ripple/vmath"
)

func TestNoteFreq(t *testing.T) {
	assert.InDelta(t, 440.0, NoteFreq(69), 1e-9)
	assert.InDelta(t, 880.0, NoteFreq(81), 1e-9)
	assert.InDelta(t, 261.6256, NoteFreq(60), 1e-3)
	assert.Zero(t, NoteFreq(-1))
	assert.Zero(t, NoteFreq(128))
}

func TestLoadAudioConfig(t *testing.T) {
	t.Setenv("RIPPLE_AUDIO_ENABLED", "false")
	t.Setenv("RIPPLE_MASTER_VOLUME", "150")
	t.Setenv("RIPPLE_NOTE_LENGTH_MS", "250")
	t.Setenv("RIPPLE_SAMPLE_RATE", "nope")

	cfg := LoadAudioConfig()
	assert.False(t, cfg.Enabled)
	assert.Equal(t, 1.0, cfg.MasterVolume)
	assert.Equal(t, 250*time.Millisecond, cfg.NoteLength)
	assert.Equal(t, DefaultAudioConfig().SampleRate, cfg.SampleRate)
}

func TestLoadAudioConfigDefaults(t *testing.T) {
	for _, key := range []string{"RIPPLE_AUDIO_ENABLED", "RIPPLE_MASTER_VOLUME", "RIPPLE_NOTE_LENGTH_MS", "RIPPLE_SAMPLE_RATE", "RIPPLE_TIMBRE"} {
		t.Setenv(key, "")
	}
	assert.Equal(t, DefaultAudioConfig(), LoadAudioConfig())
}

func TestVoice_LengthAndRange(t *testing.T) {
	rate := beep.SampleRate(44100)
	v := NewVoice(440, 100*time.Millisecond, rate)

	buf := make([][2]float64, 512)
	total := 0
	peak := 0.0
	for {
		n, ok := v.Stream(buf)
		for i := 0; i < n; i++ {
			peak = math.Max(peak, math.Abs(buf[i][0]))
			require.Equal(t, buf[i][0], buf[i][1], "mono voice")
		}
		total += n
		if !ok {
			break
		}
	}
	assert.Equal(t, rate.N(100*time.Millisecond), total)
	assert.Greater(t, peak, 0.1)
	assert.LessOrEqual(t, peak, 1.0)
	assert.NoError(t, v.Err())
}

func TestSineVoice_EnvelopeAndLength(t *testing.T) {
	rate := beep.SampleRate(44100)
	v, err := NewSineVoice(440, 50*time.Millisecond, rate)
	require.NoError(t, err)

	buf := make([][2]float64, 256)
	total := 0
	peak := 0.0
	for {
		n, ok := v.Stream(buf)
		for i := 0; i < n; i++ {
			peak = math.Max(peak, math.Abs(buf[i][0]))
		}
		total += n
		if !ok {
			break
		}
	}
	assert.Equal(t, rate.N(50*time.Millisecond), total)
	assert.Greater(t, peak, 0.1)
	assert.LessOrEqual(t, peak, 1.0)

	// Above Nyquist is rejected
	_, err = NewSineVoice(30000, time.Second, rate)
	assert.Error(t, err)
}

func TestLoadAudioConfigTimbre(t *testing.T) {
	t.Setenv("RIPPLE_TIMBRE", "sine")
	assert.Equal(t, TimbreSine, LoadAudioConfig().Timbre)

	t.Setenv("RIPPLE_TIMBRE", "organ")
	assert.Equal(t, TimbrePiano, LoadAudioConfig().Timbre)
}

func TestNotePlayer_SineTimbre(t *testing.T) {
	cfg := DefaultAudioConfig()
	cfg.Timbre = TimbreSine
	p := NewNotePlayer(cfg, &SilentOutput{}, nil, nil, nil)

	p.HandleEvent(nil, notePayload(1, 0))
	assert.Equal(t, 1, p.ActiveVoices())

	buf := make([][2]float64, 128)
	n, ok := p.Mixer().Stream(buf)
	assert.True(t, ok)
	assert.Equal(t, len(buf), n)
}

func notePayload(x, y float64) event.GameEvent {
	return event.GameEvent{
		Type: event.EventNotePlayed,
		Payload: &event.NotePlayedPayload{
			Source:    1,
			Note:      2,
			SourcePos: vmath.V(0, 0),
			NotePos:   vmath.V(x, y),
		},
	}
}

func TestNotePlayer_PitchByAngle(t *testing.T) {
	p := NewNotePlayer(DefaultAudioConfig(), &SilentOutput{}, music.NaturalMinor(music.A), nil, nil)

	p.HandleEvent(nil, notePayload(1, 0))
	last, ok := p.Last()
	require.True(t, ok)
	assert.Equal(t, music.A, last.Note)
	assert.Equal(t, 69, last.MIDI)
	assert.InDelta(t, 440.0, last.Freq, 1e-9)

	p.HandleEvent(nil, notePayload(0, 1))
	last, _ = p.Last()
	assert.Equal(t, 2, last.Index)
	assert.Equal(t, music.C, last.Note)
	assert.Equal(t, 60, last.MIDI)

	p.SetScale(music.Major(music.C))
	assert.Equal(t, music.E, p.Resolve(notePayload(0, 1).Payload.(*event.NotePlayedPayload)).Note)
}

func TestNotePlayer_CutsSamePitch(t *testing.T) {
	reg := status.NewRegistry()
	p := NewNotePlayer(DefaultAudioConfig(), &SilentOutput{}, nil, nil, reg)

	p.HandleEvent(nil, notePayload(1, 0))
	p.HandleEvent(nil, notePayload(2, 0))
	p.HandleEvent(nil, notePayload(0, 1))

	assert.Equal(t, 2, p.ActiveVoices())
	assert.Equal(t, int64(3), reg.Ints.Get("audio.voices").Load())
	assert.Equal(t, int64(1), reg.Ints.Get("audio.voices_cut").Load())

	buf := make([][2]float64, 256)
	n, ok := p.Mixer().Stream(buf)
	assert.True(t, ok)
	assert.Equal(t, len(buf), n)

	p.HandleEvent(nil, event.GameEvent{Type: event.EventRoundExited})
	assert.Zero(t, p.ActiveVoices())
}

func TestNotePlayer_SilentMixerDropsCutVoices(t *testing.T) {
	p := NewNotePlayer(DefaultAudioConfig(), &SilentOutput{}, nil, nil, nil)

	for i := 0; i < 50; i++ {
		p.HandleEvent(nil, notePayload(1, 0))
	}
	p.HandleEvent(nil, notePayload(0, 1))

	assert.Equal(t, 2, p.ActiveVoices())
	assert.Equal(t, 2, p.mixer.Len())
}

func TestNotePlayer_LowerHalfNaturalMinor(t *testing.T) {
	p := NewNotePlayer(DefaultAudioConfig(), &SilentOutput{}, music.NaturalMinor(music.A), nil, nil)

	straightDown := p.Resolve(notePayload(0, -1).Payload.(*event.NotePlayedPayload))
	assert.Equal(t, 6, straightDown.Index)
	assert.Equal(t, music.G, straightDown.Note)

	belowRight := p.Resolve(notePayload(1, -1).Payload.(*event.NotePlayedPayload))
	assert.Equal(t, music.F, belowRight.Note)
}

func TestNotePlayer_IgnoresMalformedPayload(t *testing.T) {
	p := NewNotePlayer(nil, nil, nil, nil, nil)
	p.HandleEvent(nil, event.GameEvent{Type: event.EventNotePlayed, Payload: "bad"})

	_, ok := p.Last()
	assert.False(t, ok)
	assert.NoError(t, p.Start())
	p.Close()
}
