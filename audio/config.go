package audio

import (
	"os"
	"strconv"
	"time"

	"github.com/lixenwraith/ripple/parameter"
)

// Timbres accepted by AudioConfig.Timbre
const (
	TimbrePiano = "piano"
	TimbreSine  = "sine"
)

// AudioConfig holds playback settings
type AudioConfig struct {
	Enabled      bool
	MasterVolume float64 // 0.0-1.0
	SampleRate   int
	NoteLength   time.Duration
	Octave       int
	Timbre       string
}

// DefaultAudioConfig returns the built-in settings
func DefaultAudioConfig() *AudioConfig {
	return &AudioConfig{
		Enabled:      true,
		MasterVolume: parameter.AudioMasterVolume,
		SampleRate:   parameter.AudioSampleRate,
		NoteLength:   parameter.NoteLength,
		Octave:       parameter.NoteOctave,
		Timbre:       TimbrePiano,
	}
}

// LoadAudioConfig loads audio configuration from environment variables
// Malformed values are ignored and keep the default
func LoadAudioConfig() *AudioConfig {
	cfg := DefaultAudioConfig()

	if enabled := os.Getenv("RIPPLE_AUDIO_ENABLED"); enabled != "" {
		if val, err := strconv.ParseBool(enabled); err == nil {
			cfg.Enabled = val
		}
	}

	// Master volume 0-100 converted to 0.0-1.0
	if volume := os.Getenv("RIPPLE_MASTER_VOLUME"); volume != "" {
		if val, err := strconv.Atoi(volume); err == nil {
			cfg.MasterVolume = min(max(float64(val)/100.0, 0), 1)
		}
	}

	if length := os.Getenv("RIPPLE_NOTE_LENGTH_MS"); length != "" {
		if val, err := strconv.Atoi(length); err == nil && val > 0 {
			cfg.NoteLength = time.Duration(val) * time.Millisecond
		}
	}

	if rate := os.Getenv("RIPPLE_SAMPLE_RATE"); rate != "" {
		if val, err := strconv.Atoi(rate); err == nil && val > 0 {
			cfg.SampleRate = val
		}
	}

	switch timbre := os.Getenv("RIPPLE_TIMBRE"); timbre {
	case TimbrePiano, TimbreSine:
		cfg.Timbre = timbre
	}

	return cfg
}
