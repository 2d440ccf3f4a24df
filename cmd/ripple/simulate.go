package main

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/ripple/audio"
	"github.com/lixenwraith/ripple/engine"
	"github.com/lixenwraith/ripple/event"
	"github.com/lixenwraith/ripple/level"
	"github.com/lixenwraith/ripple/parameter"
	"github.com/lixenwraith/ripple/status"
)

var (
	simStep  time.Duration
	simLimit time.Duration

	simulateCmd = &cobra.Command{
		Use:   "simulate <level>",
		Short: "Run one round headless with a fixed step and print every event",
		Args:  cobra.ExactArgs(1),
		RunE:  runSimulate,
	}
)

func init() {
	simulateCmd.Flags().DurationVar(&simStep, "step", parameter.SimulateStep, "simulated time per tick")
	simulateCmd.Flags().DurationVar(&simLimit, "limit", parameter.SimulateLimit, "stop after this much simulated time")
}

func runSimulate(cmd *cobra.Command, args []string) error {
	cfg, err := level.Resolve(args[0])
	if err != nil {
		return err
	}
	_, err = simulate(cmd.OutOrStdout(), cfg, simStep, simLimit)
	return err
}

// simulateResult summarizes a headless round
type simulateResult struct {
	Complete bool
	Ticks    int64
	Elapsed  time.Duration
	Notes    int64
}

// simulate runs cfg until RoundComplete or limit, writing one line per outbound event
func simulate(w io.Writer, cfg *level.Config, step, limit time.Duration) (simulateResult, error) {
	if step <= 0 {
		return simulateResult{}, fmt.Errorf("simulate: step must be positive, got %s", step)
	}

	stats := status.NewRegistry()
	e := engine.New(engine.WithLogger(slog.Default()), engine.WithStatus(stats))
	if err := cfg.Apply(e); err != nil {
		return simulateResult{}, err
	}
	scale, err := cfg.MusicScale()
	if err != nil {
		return simulateResult{}, err
	}

	acfg := audio.DefaultAudioConfig()
	acfg.Enabled = false
	player := audio.NewNotePlayer(acfg, nil, scale, slog.Default(), stats)
	e.RegisterHandler(player)
	e.RegisterHandler(event.HandlerFunc[engine.Reader]{
		Types: []event.EventType{
			event.EventRoundStarted,
			event.EventNotePlayed,
			event.EventActivatorEnabled,
			event.EventActivatorDisabled,
			event.EventRoundComplete,
			event.EventRoundExited,
		},
		Fn: func(_ engine.Reader, ev event.GameEvent) {
			fmt.Fprintln(w, formatEvent(e.Elapsed(), ev, player))
		},
	})

	fmt.Fprintf(w, "level %s: %d objects, grow rate %.1f, scale %v\n", cfg.Name, len(cfg.Objects), cfg.GrowRate, scale)
	if err := e.EnterExecution(); err != nil {
		return simulateResult{}, err
	}
	for !e.RoundComplete() && e.Elapsed() < limit {
		e.Tick(step)
	}

	res := simulateResult{
		Complete: e.RoundComplete(),
		Ticks:    e.Snapshot().Tick,
		Elapsed:  e.Elapsed(),
		Notes:    stats.Ints.Get("engine.notes_played").Load(),
	}
	e.ExitExecution()

	if res.Complete {
		fmt.Fprintf(w, "round complete after %s (%d ticks)\n", res.Elapsed, res.Ticks)
	} else {
		fmt.Fprintf(w, "time limit %s reached after %d ticks\n", limit, res.Ticks)
	}
	for _, m := range stats.Snapshot() {
		fmt.Fprintf(w, "  %-26s %s\n", m.Key, m.Value)
	}
	return res, nil
}

// formatEvent renders one event line: simulated time, tick, kind, then kind-specific fields
func formatEvent(at time.Duration, ev event.GameEvent, player *audio.NotePlayer) string {
	prefix := fmt.Sprintf("%9.3fs  tick %-6d %-19s", at.Seconds(), ev.Tick, ev.Type)
	switch p := ev.Payload.(type) {
	case *event.NotePlayedPayload:
		pl := player.Resolve(p)
		return fmt.Sprintf("%s source=%d note=%d pitch=%s midi=%d freq=%.2f", prefix, p.Source, p.Note, pl.Note, pl.MIDI, pl.Freq)
	case *event.ActivatorPayload:
		return fmt.Sprintf("%s activator=%d source=%d pending=%d", prefix, p.Activator, p.Source, p.Pending)
	case *event.RoundPayload:
		return fmt.Sprintf("%s round=%s ticks=%d", prefix, p.RoundID, p.Ticks)
	}
	return prefix
}
