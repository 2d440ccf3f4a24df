package audio

import (
	"fmt"
	"sync"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/lixenwraith/ripple/parameter"
)

// Output drives a mixer on some device
// Lock/Unlock guard mutation of streamers the device goroutine is reading
type Output interface {
	Start(mixer *beep.Mixer) error
	Lock()
	Unlock()
	Close()
}

// SpeakerOutput plays through the system audio device via beep/speaker
type SpeakerOutput struct {
	rate    beep.SampleRate
	mu      sync.Mutex
	started bool
}

// NewSpeakerOutput creates a speaker output at sampleRate
func NewSpeakerOutput(sampleRate int) *SpeakerOutput {
	return &SpeakerOutput{rate: beep.SampleRate(sampleRate)}
}

// Start initializes the speaker and begins streaming mixer
func (o *SpeakerOutput) Start(mixer *beep.Mixer) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.started {
		return nil
	}
	if err := speaker.Init(o.rate, o.rate.N(parameter.AudioBufferDuration)); err != nil {
		return fmt.Errorf("speaker init: %w", err)
	}
	speaker.Play(mixer)
	o.started = true
	return nil
}

func (o *SpeakerOutput) Lock() {
	if o.isStarted() {
		speaker.Lock()
	}
}

func (o *SpeakerOutput) Unlock() {
	if o.isStarted() {
		speaker.Unlock()
	}
}

// Close drops queued streamers and releases the device
func (o *SpeakerOutput) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.started {
		speaker.Clear()
		speaker.Close()
		o.started = false
	}
}

func (o *SpeakerOutput) isStarted() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.started
}

// SilentOutput accepts voices without a device; the mixer is pulled by the caller if at all
type SilentOutput struct {
	mu sync.Mutex
}

func (o *SilentOutput) Start(*beep.Mixer) error { return nil }
func (o *SilentOutput) Lock()                  { o.mu.Lock() }
func (o *SilentOutput) Unlock()                { o.mu.Unlock() }
func (o *SilentOutput) Close()                 {}
