package play

import (
	"errors"
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/ripple/engine"
	"github.com/lixenwraith/ripple/parameter"
	"github.com/lixenwraith/ripple/vmath"
)

// handleEvent applies one terminal event, returns false when the session should end
func (s *Session) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return s.handleKey(ev)

	case *tcell.EventMouse:
		s.handleMouse(ev)

	case *tcell.EventResize:
		s.resize()
		s.screen.Sync()
	}
	return true
}

func (s *Session) handleKey(ev *tcell.EventKey) bool {
	step := CellStep()

	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyUp:
		s.moveCursor(vmath.V(0, step.Y))
	case tcell.KeyDown:
		s.moveCursor(vmath.V(0, -step.Y))
	case tcell.KeyLeft:
		s.moveCursor(vmath.V(-step.X, 0))
	case tcell.KeyRight:
		s.moveCursor(vmath.V(step.X, 0))
	case tcell.KeyRune:
		return s.handleRune(ev.Rune())
	}
	return true
}

func (s *Session) handleRune(r rune) bool {
	switch r {
	case 'q':
		return false
	case 'n':
		s.place(engine.KindNote, s.cursor)
	case 'a':
		s.place(engine.KindActivator, s.cursor)
	case 'm':
		s.placeMain(s.cursor)
	case 'x':
		s.removeAtCursor()
	case ' ':
		s.togglePhase()
	case 'p':
		s.togglePause()
	case '+', '=':
		s.adjustGrowRate(parameter.GrowRateStep)
	case '-', '_':
		s.adjustGrowRate(-parameter.GrowRateStep)
	case 'c':
		s.cursor = s.vp.Center
	}
	return true
}

// handleMouse acts on the press edge only; held buttons repeat with the same mask
func (s *Session) handleMouse(ev *tcell.EventMouse) {
	buttons := ev.Buttons() & (tcell.Button1 | tcell.Button2 | tcell.Button3)
	pressed := buttons &^ s.lastButtons
	s.lastButtons = buttons

	x, y := ev.Position()
	if !s.vp.Contains(x, y) {
		return
	}
	s.cursor = s.vp.ToWorld(x, y)

	switch {
	case pressed&tcell.Button1 != 0:
		s.place(engine.KindNote, s.cursor)
	case pressed&tcell.Button2 != 0:
		s.place(engine.KindActivator, s.cursor)
	case pressed&tcell.Button3 != 0:
		s.placeMain(s.cursor)
	}
}

func (s *Session) moveCursor(d vmath.Vec2) {
	next := s.cursor.Add(d)
	if x, y := s.vp.ToScreen(next); s.vp.Contains(x, y) {
		s.cursor = next
	}
}

func (s *Session) place(kind engine.Kind, pos vmath.Vec2) {
	var err error
	s.sched.RunSafe(func(e *engine.Engine) {
		_, err = e.Place(kind, pos)
	})
	s.report(err, fmt.Sprintf("placed %s", kind))
}

func (s *Session) placeMain(pos vmath.Vec2) {
	var err error
	s.sched.RunSafe(func(e *engine.Engine) {
		_, err = e.PlaceMain(pos)
	})
	s.report(err, "main activator placed")
}

func (s *Session) removeAtCursor() {
	obj, ok := s.objectUnderCursor()
	if !ok {
		s.setNotice("nothing under cursor", false)
		return
	}
	var err error
	s.sched.RunSafe(func(e *engine.Engine) {
		err = e.Remove(obj.ID)
	})
	s.report(err, fmt.Sprintf("removed %s", obj.Kind))
}

// togglePhase starts a round from build, or exits the running round
func (s *Session) togglePhase() {
	var (
		err     error
		started bool
	)
	s.sched.RunSafe(func(e *engine.Engine) {
		if e.Phase() == engine.PhaseExecute {
			e.ExitExecution()
			return
		}
		err = e.EnterExecution()
		started = err == nil
	})
	if started {
		s.report(nil, "running")
		return
	}
	s.report(err, "stopped")
}

func (s *Session) togglePause() {
	if s.clock.IsPaused() {
		s.clock.Resume()
		s.setNotice("resumed", false)
		return
	}
	s.clock.Pause()
	s.setNotice("paused", false)
}

func (s *Session) adjustGrowRate(delta float64) {
	var (
		rate float64
		err  error
	)
	s.sched.RunSafe(func(e *engine.Engine) {
		rate = min(max(e.GrowRate()+delta, parameter.MinGrowRate), parameter.MaxGrowRate)
		err = e.SetGrowRate(rate)
	})
	s.report(err, fmt.Sprintf("grow rate %.1f", rate))
}

// report shows ok on success, or a short reason for a rejected edit
func (s *Session) report(err error, ok string) {
	switch {
	case err == nil:
		s.setNotice(ok, false)
	case errors.Is(err, engine.ErrExecutionActive):
		s.setNotice("stop the round to edit (space)", true)
	case errors.Is(err, engine.ErrNoMainActivator):
		s.setNotice("place a main activator first (m)", true)
	default:
		s.log.Debug("edit rejected", "error", err)
		s.setNotice(err.Error(), true)
	}
}
