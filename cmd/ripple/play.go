package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/lixenwraith/ripple/audio"
	"github.com/lixenwraith/ripple/core"
	"github.com/lixenwraith/ripple/level"
	"github.com/lixenwraith/ripple/play"
	"github.com/lixenwraith/ripple/status"
)

var (
	playWatch bool

	playCmd = &cobra.Command{
		Use:   "play [level]",
		Short: "Open the interactive editor on a built-in level or a level file",
		Long: `Open the interactive editor. The level is a built-in name (see 'ripple levels')
or a path to a YAML level file; the default is "demo".`,
		Args: cobra.MaximumNArgs(1),
		RunE: runPlay,
	}
)

func init() {
	playCmd.Flags().BoolVarP(&playWatch, "watch", "w", false, "reload the level file when it changes")
}

func runPlay(cmd *cobra.Command, args []string) error {
	ref := "demo"
	if len(args) > 0 {
		ref = args[0]
	}

	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return fmt.Errorf("play needs an interactive terminal, try 'ripple simulate %s'", ref)
	}

	cfg, err := level.Resolve(ref)
	if err != nil {
		return err
	}
	levelPath := ""
	if !slices.Contains(level.Names(), ref) {
		levelPath = ref
	} else if playWatch {
		slog.Warn("watch ignored for built-in level", "level", ref)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	core.SetResetHook(screen.Fini)
	defer func() {
		core.SetResetHook(nil)
		screen.Fini()
	}()
	screen.EnableMouse(tcell.MouseButtonEvents)
	screen.HideCursor()

	session, err := play.NewSession(screen, play.Config{
		Level:     cfg,
		LevelPath: levelPath,
		Watch:     playWatch,
		Audio:     audio.LoadAudioConfig(),
		Logger:    slog.Default(),
		Status:    status.NewRegistry(),
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return session.Run(ctx)
}
