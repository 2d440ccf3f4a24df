package music

import (
	"fmt"
	"strings"
)

// Scale is a root note and the ordered steps between its degrees
type Scale interface {
	Root() Note
	Steps() []Step
}

// Size returns the number of degrees in s
func Size(s Scale) int {
	return len(s.Steps())
}

// Degree returns the note at index, walking steps up from the root
// index wraps modulo the scale size; negative indices wrap from the top
func Degree(s Scale, index int) Note {
	steps := s.Steps()
	size := len(steps)
	if size == 0 {
		return s.Root()
	}
	index %= size
	if index < 0 {
		index += size
	}

	n := s.Root()
	for _, step := range steps[:index] {
		n = n.Next(step)
	}
	return n
}

// stepScale is a scale defined by a fixed step pattern
type stepScale struct {
	name  string
	root  Note
	steps []Step
}

func (s stepScale) Root() Note    { return s.root }
func (s stepScale) Steps() []Step { return s.steps }
func (s stepScale) String() string {
	return s.root.String() + " " + s.name
}

// NaturalMinor returns the aeolian scale on root
func NaturalMinor(root Note) Scale {
	return stepScale{name: "natural_minor", root: root, steps: []Step{Whole, Half, Whole, Whole, Half, Whole, Whole}}
}

// Major returns the ionian scale on root
func Major(root Note) Scale {
	return stepScale{name: "major", root: root, steps: []Step{Whole, Whole, Half, Whole, Whole, Whole, Half}}
}

// Pentatonic returns the minor pentatonic scale on root
func Pentatonic(root Note) Scale {
	return stepScale{name: "pentatonic", root: root, steps: []Step{Whole + Half, Whole, Whole, Whole + Half, Whole}}
}

// Modes lists the names accepted by NewScale
var Modes = []string{"natural_minor", "major", "pentatonic"}

// NewScale builds a scale from a mode name
func NewScale(mode string, root Note) (Scale, error) {
	switch strings.ToLower(mode) {
	case "", "natural_minor", "minor":
		return NaturalMinor(root), nil
	case "major":
		return Major(root), nil
	case "pentatonic":
		return Pentatonic(root), nil
	default:
		return nil, fmt.Errorf("unknown scale mode %q", mode)
	}
}
