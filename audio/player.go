// Package audio voices played notes: it maps each NotePlayed event onto a scale degree by
// angle and renders a decaying FM tone into a beep mixer
package audio

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/gopxl/beep"

	"github.com/lixenwraith/ripple/engine"
	"github.com/lixenwraith/ripple/event"
	"github.com/lixenwraith/ripple/music"
	"github.com/lixenwraith/ripple/status"
)

// Played describes the pitch chosen for one note event
type Played struct {
	Note  music.Note
	Index int // Scale index before wrapping
	MIDI  int
	Freq  float64
}

// NotePlayer turns EventNotePlayed into sound
// Implements event.Handler[engine.Reader]
type NotePlayer struct {
	cfg    *AudioConfig
	out    Output
	mixer  *beep.Mixer
	rate   beep.SampleRate
	log    *slog.Logger
	mu     sync.Mutex // Guards scale and active
	scale  music.Scale
	active map[int]*beep.Ctrl // Sounding voice per MIDI pitch

	last atomic.Pointer[Played]

	statVoices *atomic.Int64
	statCut    *atomic.Int64
}

// NewNotePlayer creates a player over out; a nil out or a disabled config plays silently
func NewNotePlayer(cfg *AudioConfig, out Output, scale music.Scale, log *slog.Logger, reg *status.Registry) *NotePlayer {
	if cfg == nil {
		cfg = DefaultAudioConfig()
	}
	if out == nil || !cfg.Enabled {
		out = &SilentOutput{}
	}
	if scale == nil {
		scale = music.NaturalMinor(music.A)
	}
	if log == nil {
		log = slog.Default()
	}
	if reg == nil {
		reg = status.NewRegistry()
	}
	return &NotePlayer{
		cfg:        cfg,
		out:        out,
		mixer:      &beep.Mixer{},
		rate:       beep.SampleRate(cfg.SampleRate),
		log:        log,
		scale:      scale,
		active:     make(map[int]*beep.Ctrl),
		statVoices: reg.Ints.Get("audio.voices"),
		statCut:    reg.Ints.Get("audio.voices_cut"),
	}
}

// Start opens the output device
func (p *NotePlayer) Start() error {
	return p.out.Start(p.mixer)
}

// Close silences every voice and releases the output
func (p *NotePlayer) Close() {
	p.silenceAll()
	p.out.Close()
}

// SetOutput replaces the output device; call before any note is played
func (p *NotePlayer) SetOutput(out Output) {
	if out == nil {
		out = &SilentOutput{}
	}
	p.out = out
}

// SetScale changes the scale used for subsequent notes
func (p *NotePlayer) SetScale(s music.Scale) {
	if s == nil {
		return
	}
	p.mu.Lock()
	p.scale = s
	p.mu.Unlock()
}

// Last returns the most recently voiced pitch
func (p *NotePlayer) Last() (Played, bool) {
	if v := p.last.Load(); v != nil {
		return *v, true
	}
	return Played{}, false
}

// Resolve picks the pitch for a note event without playing it
func (p *NotePlayer) Resolve(payload *event.NotePlayedPayload) Played {
	p.mu.Lock()
	scale := p.scale
	p.mu.Unlock()

	index := music.IndexByAngle(payload.SourcePos, payload.NotePos, music.Size(scale))
	note := music.Degree(scale, index)
	midi := music.Pitch(note, p.cfg.Octave)
	return Played{Note: note, Index: index, MIDI: midi, Freq: NoteFreq(midi)}
}

// EventTypes implements event.Handler
func (p *NotePlayer) EventTypes() []event.EventType {
	return []event.EventType{event.EventNotePlayed, event.EventRoundExited}
}

// HandleEvent implements event.Handler
func (p *NotePlayer) HandleEvent(_ engine.Reader, ev event.GameEvent) {
	switch ev.Type {
	case event.EventNotePlayed:
		payload, ok := ev.Payload.(*event.NotePlayedPayload)
		if !ok {
			return
		}
		p.play(p.Resolve(payload))
	case event.EventRoundExited:
		p.silenceAll()
	}
}

// play starts a voice, cutting the previous voice of the same pitch
func (p *NotePlayer) play(pl Played) {
	voice := newVolume(p.newVoice(pl.Freq), p.cfg.MasterVolume)
	ctrl := &beep.Ctrl{Streamer: voice}

	p.out.Lock()
	p.mu.Lock()
	cut := false
	if prev, ok := p.active[pl.MIDI]; ok {
		// A nil streamer ends the Ctrl and a pulled mixer drops it
		prev.Streamer = nil
		p.statCut.Add(1)
		cut = true
	}
	p.active[pl.MIDI] = ctrl
	if _, silent := p.out.(*SilentOutput); silent && cut {
		p.compactLocked()
	} else {
		p.mixer.Add(ctrl)
	}
	p.mu.Unlock()
	p.out.Unlock()

	p.last.Store(&pl)
	p.statVoices.Add(1)
	p.log.Debug("note voiced", "note", pl.Note.String(), "midi", pl.MIDI, "index", pl.Index)
}

// newVoice renders the configured timbre, falling back to the FM voice
func (p *NotePlayer) newVoice(freq float64) beep.Streamer {
	if p.cfg.Timbre == TimbreSine {
		v, err := NewSineVoice(freq, p.cfg.NoteLength, p.rate)
		if err == nil {
			return v
		}
		p.log.Debug("sine voice unavailable", "freq", freq, "error", err)
	}
	return NewVoice(freq, p.cfg.NoteLength, p.rate)
}

// compactLocked rebuilds the mixer from live voices
// Nothing pulls a silent mixer, so cut voices would otherwise stay queued until round exit
func (p *NotePlayer) compactLocked() {
	p.mixer.Clear()
	for _, ctrl := range p.active {
		p.mixer.Add(ctrl)
	}
}

// silenceAll ends every sounding voice
func (p *NotePlayer) silenceAll() {
	p.out.Lock()
	p.mu.Lock()
	for midi, ctrl := range p.active {
		ctrl.Streamer = nil
		delete(p.active, midi)
	}
	p.mixer.Clear()
	p.mu.Unlock()
	p.out.Unlock()
}

// Mixer exposes the voice mixer for offline rendering
func (p *NotePlayer) Mixer() beep.Streamer {
	return p.mixer
}

// ActiveVoices returns how many pitches hold a voice, including voices that already faded out
func (p *NotePlayer) ActiveVoices() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.active)
}
