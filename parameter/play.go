package parameter

import "time"

// Terminal Front-End
const (
	// CellAspect is the world height of one terminal row relative to one column
	// Terminal cells are roughly twice as tall as wide
	CellAspect = 2.0

	// WorldUnitsPerColumn scales terminal columns to world units
	WorldUnitsPerColumn = 4.0

	// CircleSegmentsPerUnit controls how densely activator rings are sampled
	CircleSegmentsPerUnit = 0.5

	// MinCircleSegments is the lower bound for ring sampling on tiny radii
	MinCircleSegments = 16

	// InputEventBuffer is the capacity of the terminal event channel
	InputEventBuffer = 256

	// NoteFlashDuration is how long a played note stays highlighted
	NoteFlashDuration = 250 * time.Millisecond
)

// Logging
const (
	// LogDir is the directory debug logs are written to
	LogDir = "logs"

	// LogFileName is the active debug log file
	LogFileName = "ripple.log"

	// MaxLogSize triggers rotation of the debug log (10 MiB)
	MaxLogSize = 10 * 1024 * 1024
)
