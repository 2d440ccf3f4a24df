package parameter

import "time"

// Audio Output
const (
	// AudioSampleRate is the output sample rate in Hz
	AudioSampleRate = 44100

	// AudioBufferDuration is the speaker buffer length (latency vs underrun trade)
	AudioBufferDuration = 100 * time.Millisecond

	// AudioMasterVolume is the default master gain (0.0-1.0)
	AudioMasterVolume = 0.5

	// NoteLength is the default duration of a played note
	NoteLength = 900 * time.Millisecond

	// NoteAttack is the fade-in time that prevents clicks at note start
	NoteAttack = 8 * time.Millisecond

	// NoteDecay is the exponential decay constant of the note envelope (per second)
	NoteDecay = 4.0

	// NoteOctave is the octave notes are voiced in (A4 = 440 Hz)
	NoteOctave = 4
)
