// Package music maps activator geometry onto notes of a scale
package music

import (
	"fmt"
	"strings"
)

// Note is one of the twelve pitch classes, starting from A
type Note uint8

const (
	A Note = iota
	As
	B
	C
	Cs
	D
	Ds
	E
	F
	Fs
	G
	Gs
	noteCount
)

var noteNames = [noteCount]string{"A", "A#", "B", "C", "C#", "D", "D#", "E", "F", "F#", "G", "G#"}

func (n Note) String() string {
	if n < noteCount {
		return noteNames[n]
	}
	return "?"
}

// Step is an interval between adjacent scale degrees, in semitones
type Step uint8

const (
	Half  Step = 1
	Whole Step = 2
)

// Next returns the note one step above n
func (n Note) Next(step Step) Note {
	return Note((uint8(n) + uint8(step)) % uint8(noteCount))
}

// semitonesFromC is the offset of n above C within its octave
func (n Note) semitonesFromC() int {
	return (int(n) + 9) % int(noteCount)
}

// Pitch returns the MIDI note number of n in octave, A4 = 69
// Octaves follow scientific pitch notation and change at C
func Pitch(n Note, octave int) int {
	return 12*(octave+1) + n.semitonesFromC()
}

// ParseNote accepts names like "A", "c#", "Fs" or "Gb"
func ParseNote(s string) (Note, error) {
	name := strings.TrimSpace(s)
	if name == "" {
		return 0, fmt.Errorf("parse note: empty name")
	}
	base := strings.ToUpper(name[:1])
	accidental := strings.ToLower(name[1:])

	var n Note
	found := false
	for i, candidate := range noteNames {
		if candidate == base {
			n, found = Note(i), true
			break
		}
	}
	if !found {
		return 0, fmt.Errorf("parse note %q: unknown pitch class", s)
	}

	switch accidental {
	case "":
	case "#", "s":
		n = n.Next(Half)
	case "b":
		n = Note((uint8(n) + uint8(noteCount) - 1) % uint8(noteCount))
	default:
		return 0, fmt.Errorf("parse note %q: unknown accidental %q", s, accidental)
	}
	return n, nil
}
