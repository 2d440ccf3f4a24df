// Package play is the interactive terminal front-end: a build-phase editor for notes and
// activators, a renderer for growing activator rings and the round controls
package play

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/sync/errgroup"

	"github.com/lixenwraith/ripple/audio"
	"github.com/lixenwraith/ripple/engine"
	"github.com/lixenwraith/ripple/event"
	"github.com/lixenwraith/ripple/level"
	"github.com/lixenwraith/ripple/parameter"
	"github.com/lixenwraith/ripple/status"
	"github.com/lixenwraith/ripple/vmath"
)

// errQuit ends the session without reporting a failure
var errQuit = errors.New("quit")

// Config configures a play session
type Config struct {
	Level     *level.Config
	LevelPath string // Reloaded on change when Watch is set; empty for built-in levels
	Watch     bool
	Audio     *audio.AudioConfig
	Output    audio.Output // nil selects the speaker, or silence when audio is disabled
	Logger    *slog.Logger
	Status    *status.Registry
}

// Session ties the engine, scheduler, audio and screen together for one interactive run
type Session struct {
	screen tcell.Screen
	cfg    Config
	log    *slog.Logger
	stats  *status.Registry

	engine     *engine.Engine
	clock      *engine.PausableClock
	sched      *engine.ClockScheduler
	updateDone <-chan struct{}
	player     *audio.NotePlayer
	flash      *flashes
	watcher    *LevelWatcher

	vp        Viewport
	cursor    vmath.Vec2
	levelName string

	reloadPending bool

	lastButtons tcell.ButtonMask

	noticeMu sync.Mutex
	notice   string
	noticeEr bool

	statNotes *atomic.Int64
}

// NewSession builds the engine and its collaborators for cfg; nothing runs until Run
func NewSession(screen tcell.Screen, cfg Config) (*Session, error) {
	if cfg.Level == nil {
		return nil, fmt.Errorf("new session: no level")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.Status == nil {
		cfg.Status = status.NewRegistry()
	}
	if cfg.Audio == nil {
		cfg.Audio = audio.LoadAudioConfig()
	}

	s := &Session{
		screen:    screen,
		cfg:       cfg,
		log:       cfg.Logger.With("component", "play"),
		stats:     cfg.Status,
		flash:     newFlashes(parameter.NoteFlashDuration),
		levelName: cfg.Level.Name,
	}

	s.engine = engine.New(
		engine.WithLogger(cfg.Logger),
		engine.WithStatus(cfg.Status),
		engine.WithExitOnComplete(true),
	)
	if err := cfg.Level.Apply(s.engine); err != nil {
		return nil, fmt.Errorf("new session: %w", err)
	}

	scale, err := cfg.Level.MusicScale()
	if err != nil {
		return nil, fmt.Errorf("new session: %w", err)
	}
	out := cfg.Output
	if out == nil && cfg.Audio.Enabled {
		out = audio.NewSpeakerOutput(cfg.Audio.SampleRate)
	}
	s.player = audio.NewNotePlayer(cfg.Audio, out, scale, cfg.Logger, cfg.Status)

	s.engine.RegisterHandler(s.player)
	s.engine.RegisterHandler(s.flash)
	s.engine.RegisterHandler(event.HandlerFunc[engine.Reader]{
		Types: []event.EventType{event.EventRoundComplete, event.EventRoundExited},
		Fn:    s.onRoundEvent,
	})

	s.clock = engine.NewPausableClock(nil)
	s.sched, s.updateDone = engine.NewClockScheduler(s.engine, s.clock, parameter.TickInterval)
	s.statNotes = cfg.Status.Ints.Get("engine.notes_played")

	s.resize()
	return s, nil
}

// Run drives the session until the user quits, ctx is cancelled or the screen closes
func (s *Session) Run(ctx context.Context) error {
	if err := s.player.Start(); err != nil {
		s.log.Warn("audio unavailable, continuing silently", "error", err)
		s.setNotice("audio unavailable: "+err.Error(), true)
		s.player.Close()
		s.player.SetOutput(&audio.SilentOutput{})
	}
	defer s.player.Close()

	if s.cfg.Watch && s.cfg.LevelPath != "" {
		w, err := NewLevelWatcher(s.cfg.LevelPath, s.log)
		if err != nil {
			s.log.Warn("level watch disabled", "error", err)
			s.setNotice(err.Error(), true)
		} else {
			s.watcher = w
			defer s.watcher.Stop()
		}
	}

	s.sched.Start()
	defer s.sched.Stop()

	g, gctx := errgroup.WithContext(ctx)
	events := make(chan tcell.Event, parameter.InputEventBuffer)
	quit := make(chan struct{})

	g.Go(func() error {
		s.screen.ChannelEvents(events, quit)
		return nil
	})
	if s.watcher != nil {
		g.Go(func() error {
			return s.watcher.Start(gctx)
		})
	}
	g.Go(func() error {
		defer close(quit)
		return s.loop(gctx, events)
	})

	err := g.Wait()
	if errors.Is(err, errQuit) {
		return nil
	}
	return err
}

// loop is the render and input loop; it owns the cursor and viewport
func (s *Session) loop(ctx context.Context, events <-chan tcell.Event) error {
	frameTicker := time.NewTicker(parameter.FrameUpdateInterval)
	defer frameTicker.Stop()

	var reload <-chan struct{}
	if s.watcher != nil {
		reload = s.watcher.Reload
	}

	s.render()
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-events:
			if !ok {
				return errQuit
			}
			if !s.handleEvent(ev) {
				return errQuit
			}
			s.render()

		case <-reload:
			s.reloadPending = true
			s.applyPendingReload()

		case <-s.updateDone:
			// Tick finished; the next frame picks it up

		case <-frameTicker.C:
			s.applyPendingReload()
			s.render()
		}
	}
}

// render captures a frame under the scheduler lock and draws it
func (s *Session) render() {
	drawFrame(s.screen, s.vp, s.capture(), s.flash)
}

func (s *Session) capture() frame {
	var f frame
	s.sched.RunSafe(func(e *engine.Engine) {
		f.snap = e.Snapshot()
	})
	f.cursor = s.cursor
	f.hud = hud{
		Phase:    f.snap.Phase,
		Paused:   s.clock.IsPaused(),
		GrowRate: f.snap.GrowRate,
		Level:    s.levelName,
		Notes:    s.statNotes.Load(),
		Ticks:    f.snap.Tick,
		Watching: s.watcher != nil,
	}
	if p, ok := s.player.Last(); ok {
		f.hud.Last = fmt.Sprintf("%s (%d)", p.Note, p.MIDI)
	}
	f.hud.Message, f.hud.IsError = s.currentNotice()
	return f
}

// resize recomputes the playfield from the screen size, keeping the world center
func (s *Session) resize() {
	w, h := s.screen.Size()
	s.vp.Width = w
	s.vp.Height = max(h-hudRows, 0)
}

// applyPendingReload reloads the watched level once the engine is back in build
func (s *Session) applyPendingReload() {
	if !s.reloadPending {
		return
	}

	var phase engine.Phase
	s.sched.RunSafe(func(e *engine.Engine) { phase = e.Phase() })
	if phase != engine.PhaseBuild {
		return
	}
	s.reloadPending = false

	cfg, err := level.Load(s.cfg.LevelPath)
	if err != nil {
		s.log.Warn("level reload failed", "error", err)
		s.setNotice("reload failed: "+err.Error(), true)
		return
	}
	if err := s.applyLevel(cfg); err != nil {
		s.log.Warn("level reload failed", "error", err)
		s.setNotice("reload failed: "+err.Error(), true)
		return
	}
	s.log.Info("level reloaded", "level", cfg.Name, "objects", len(cfg.Objects))
	s.setNotice("reloaded "+cfg.Name, false)
}

// applyLevel replaces the layout, grow rate and scale with cfg
func (s *Session) applyLevel(cfg *level.Config) error {
	scale, err := cfg.MusicScale()
	if err != nil {
		return err
	}
	s.sched.RunSafe(func(e *engine.Engine) {
		err = cfg.Apply(e)
	})
	if err != nil {
		return err
	}
	s.player.SetScale(scale)
	s.levelName = cfg.Name
	return nil
}

// onRoundEvent runs on the scheduler goroutine
func (s *Session) onRoundEvent(_ engine.Reader, ev event.GameEvent) {
	switch ev.Type {
	case event.EventRoundComplete:
		s.setNotice("round complete", false)
	case event.EventRoundExited:
		if p, ok := ev.Payload.(*event.RoundPayload); ok {
			s.log.Debug("round exited", "round", p.RoundID, "ticks", p.Ticks)
		}
	}
}

func (s *Session) setNotice(msg string, isErr bool) {
	s.noticeMu.Lock()
	s.notice, s.noticeEr = msg, isErr
	s.noticeMu.Unlock()
}

func (s *Session) currentNotice() (string, bool) {
	s.noticeMu.Lock()
	defer s.noticeMu.Unlock()
	return s.notice, s.noticeEr
}

// Engine exposes the session engine through the scheduler lock
func (s *Session) Engine(fn func(e *engine.Engine)) {
	s.sched.RunSafe(fn)
}

// Cursor returns the world position of the cursor
func (s *Session) Cursor() vmath.Vec2 {
	return s.cursor
}

// objectUnderCursor returns the object nearest to the cursor within pick range
func (s *Session) objectUnderCursor() (engine.Object, bool) {
	var (
		obj engine.Object
		ok  bool
	)
	s.sched.RunSafe(func(e *engine.Engine) {
		obj, ok = e.ObjectAt(s.cursor, PickRadius())
	})
	return obj, ok
}
