package main

import (
	"errors"
	"flag"
	"fmt"
	stdlog "log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/flip-match/anim"
	"github.com/lixenwraith/flip-match/audio"
	"github.com/lixenwraith/flip-match/config"
	"github.com/lixenwraith/flip-match/core"
	"github.com/lixenwraith/flip-match/game"
	"github.com/lixenwraith/flip-match/log"
	"github.com/lixenwraith/flip-match/persist"
	"github.com/lixenwraith/flip-match/seed"
	"github.com/lixenwraith/flip-match/ui"
)

var (
	configFlag     = flag.String("config", "", "Config file (default: ./flip-match.toml if present)")
	difficultyFlag = flag.String("difficulty", "", "Board size: easy, medium, hard")
	seedFlag       = flag.String("seed", "", "Start with this seed id")
	colorFlag      = flag.String("color", "", "Color mode: auto, truecolor, 256")
	muteFlag       = flag.Bool("mute", false, "Disable sound")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	applyFlags(cfg)

	closer, err := log.Setup(log.Options{
		Enabled:    cfg.Log.Enabled,
		File:       cfg.Log.File,
		Level:      cfg.Log.Level,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log: %v\n", err)
		os.Exit(1)
	}
	if closer != nil {
		defer closer.Close()
	}
	stdlog.SetOutput(log.Writer())

	if err := run(cfg); err != nil {
		log.WithError(err).Error("exit")
		fmt.Fprintf(os.Stderr, "flip-match: %v\n", err)
		os.Exit(1)
	}
}

func applyFlags(cfg *config.Config) {
	if *difficultyFlag != "" {
		cfg.Game.Difficulty = *difficultyFlag
	}
	if *colorFlag != "" {
		cfg.UI.Color = *colorFlag
	}
	if *muteFlag {
		cfg.Audio.Enabled = false
	}
}

// openStore prefers the sqlite file and falls back to memory
func openStore(path string) persist.Store {
	store, err := persist.OpenSQLite(path)
	if err != nil {
		log.WithError(err).Warn("storage unavailable, progress will not persist")
		return persist.NewMemoryStore()
	}
	return store
}

func run(cfg *config.Config) error {
	difficulty, err := seed.ParseDifficulty(cfg.Game.Difficulty)
	if err != nil {
		return err
	}

	switch cfg.UI.Color {
	case "256":
		os.Setenv("TCELL_TRUECOLOR", "disable")
	case "truecolor", "true", "24bit":
		os.Setenv("COLORTERM", "truecolor")
	}

	store := openStore(cfg.Storage.Path)
	defer store.Close()
	mgr := persist.NewManager(persist.Options{
		Store:        store,
		MaxAge:       cfg.Storage.MaxAge,
		HistoryLimit: cfg.History.Limit,
	})

	sound := audio.NewSoundManager(audio.Config{
		Enabled:    cfg.Audio.Enabled,
		Volume:     cfg.Audio.Volume,
		SampleRate: cfg.Audio.SampleRate,
		AssetsDir:  cfg.Assets.Dir,
		Muted:      cfg.Audio.Muted,
	})
	if err := sound.Initialize(); err != nil && !errors.Is(err, audio.ErrDisabled) {
		log.WithError(err).Warn("audio unavailable, continuing without sound")
	}
	defer sound.Cleanup()

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()

	// Restore the terminal before a panic on this goroutine is printed
	defer func() {
		if r := recover(); r != nil {
			core.SetCrashCleanup(screen.Fini)
			core.HandleCrash(r)
		}
	}()

	screen.EnableMouse(tcell.MouseMotionEvents)
	screen.HideCursor()

	app, err := ui.NewApp(ui.Options{
		Screen: screen,
		Game: game.Options{
			Difficulty:       difficulty,
			TileSize:         cfg.Game.TileSize,
			Padding:          cfg.Game.Padding,
			Sound:            sound,
			Store:            mgr,
			FlipDuration:     cfg.Game.FlipDuration,
			FlipEase:         anim.EaseByName(cfg.Game.FlipEase),
			MismatchDelay:    cfg.Game.MismatchDelay,
			AutosaveInterval: cfg.Storage.AutosaveInterval,
		},
		AssetsDir: cfg.Assets.Dir,
	})
	if err != nil {
		return err
	}

	if *seedFlag != "" {
		app.LoadSeed(*seedFlag)
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(signals)
	core.Go(func() {
		<-signals
		app.RequestQuit()
	})

	log.Infof("flip-match started: %s board, storage %s", difficulty, cfg.Storage.Path)
	app.Run()
	return nil
}
