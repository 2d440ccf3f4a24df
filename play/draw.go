package play

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/ripple/engine"
	"github.com/lixenwraith/ripple/parameter"
	"github.com/lixenwraith/ripple/vmath"
)

// hudRows is the number of terminal rows below the playfield
const hudRows = 2

// Glyphs
const (
	glyphNote      = '♪'
	glyphActivator = 'o'
	glyphEnabled   = 'O'
	glyphMain      = '@'
	glyphRing      = '·'
	glyphCursor    = '+'
)

var (
	styleDefault   = tcell.StyleDefault
	styleRing      = tcell.StyleDefault.Foreground(tcell.ColorTeal)
	styleNote      = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleNoteFlash = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorYellow).Bold(true)
	styleActivator = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleEnabled   = tcell.StyleDefault.Foreground(tcell.ColorLightGreen).Bold(true)
	styleMain      = tcell.StyleDefault.Foreground(tcell.ColorFuchsia).Bold(true)
	styleHUD       = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorNavy)
	styleHelp      = tcell.StyleDefault.Foreground(tcell.ColorSilver)
	styleError     = tcell.StyleDefault.Foreground(tcell.ColorRed)
)

// hud is the status line content
type hud struct {
	Phase    engine.Phase
	Paused   bool
	GrowRate float64
	Level    string
	Notes    int64
	Ticks    int64
	Last     string
	Message  string
	IsError  bool
	Watching bool
}

// frame is everything one redraw needs, captured under the scheduler lock
type frame struct {
	snap   engine.Snapshot
	cursor vmath.Vec2
	hud    hud
}

// drawFrame renders playfield and HUD; the bottom two rows are reserved for the HUD
func drawFrame(s tcell.Screen, vp Viewport, f frame, fl *flashes) {
	s.Clear()

	for _, a := range f.snap.Activators {
		if a.Enabled && a.Radius > 0 {
			drawRing(s, vp, a.Pos, a.Radius)
		}
	}

	for _, n := range f.snap.Notes {
		style := styleNote
		if fl != nil && fl.active(n.ID) {
			style = styleNoteFlash
		}
		setCell(s, vp, n.Pos, glyphNote, style)
	}

	for _, a := range f.snap.Activators {
		switch {
		case a.Main:
			setCell(s, vp, a.Pos, glyphMain, styleMain)
		case a.Enabled:
			setCell(s, vp, a.Pos, glyphEnabled, styleEnabled)
		default:
			setCell(s, vp, a.Pos, glyphActivator, styleActivator)
		}
	}

	drawCursor(s, vp, f.cursor)
	drawHUD(s, vp, f.hud)
	s.Show()
}

// drawRing samples the circle densely enough that adjacent samples share or touch cells
func drawRing(s tcell.Screen, vp Viewport, center vmath.Vec2, radius float64) {
	segments := max(parameter.MinCircleSegments, int(2*math.Pi*radius*parameter.CircleSegmentsPerUnit))
	for i := 0; i < segments; i++ {
		angle := 2 * math.Pi * float64(i) / float64(segments)
		p := center.Add(vmath.V(math.Cos(angle), math.Sin(angle)).Scale(radius))
		setCell(s, vp, p, glyphRing, styleRing)
	}
}

func setCell(s tcell.Screen, vp Viewport, p vmath.Vec2, r rune, style tcell.Style) {
	x, y := vp.ToScreen(p)
	if vp.Contains(x, y) {
		s.SetContent(x, y, r, nil, style)
	}
}

// drawCursor reverses whatever is under the cursor, or draws a crosshair on empty cells
func drawCursor(s tcell.Screen, vp Viewport, cursor vmath.Vec2) {
	x, y := vp.ToScreen(cursor)
	if !vp.Contains(x, y) {
		return
	}
	mainc, combc, style, _ := s.GetContent(x, y)
	if mainc == ' ' || mainc == 0 {
		mainc, combc, style = glyphCursor, nil, styleDefault
	}
	s.SetContent(x, y, mainc, combc, style.Reverse(true))
}

func drawHUD(s tcell.Screen, vp Viewport, h hud) {
	phase := "BUILD"
	if h.Phase == engine.PhaseExecute {
		phase = "EXECUTE"
	}
	if h.Paused {
		phase += " (paused)"
	}

	status := fmt.Sprintf(" %-17s rate %6.1f  notes %-5d ticks %-7d level %s", phase, h.GrowRate, h.Notes, h.Ticks, h.Level)
	if h.Last != "" {
		status += "  last " + h.Last
	}
	if h.Watching {
		status += "  [watch]"
	}

	y := vp.Height
	for x := 0; x < vp.Width; x++ {
		s.SetContent(x, y, ' ', nil, styleHUD)
	}
	drawText(s, 0, y, vp.Width, status, styleHUD)

	line := helpText
	style := styleHelp
	if h.Message != "" {
		line = h.Message
		if h.IsError {
			style = styleError
		}
	}
	drawText(s, 0, y+1, vp.Width, " "+line, style)
}

const helpText = "arrows move  n note  a activator  m main  x delete  space run/stop  p pause  +/- rate  q quit"

func drawText(s tcell.Screen, x, y, width int, text string, style tcell.Style) {
	col := x
	for _, r := range text {
		if col >= width {
			return
		}
		s.SetContent(col, y, r, nil, style)
		col++
	}
}
