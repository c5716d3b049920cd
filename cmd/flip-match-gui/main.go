package main

import (
	"errors"
	"flag"
	"fmt"
	stdlog "log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/lixenwraith/flip-match/anim"
	"github.com/lixenwraith/flip-match/audio"
	"github.com/lixenwraith/flip-match/config"
	"github.com/lixenwraith/flip-match/game"
	"github.com/lixenwraith/flip-match/log"
	"github.com/lixenwraith/flip-match/persist"
	"github.com/lixenwraith/flip-match/seed"
)

var (
	configFlag     = flag.String("config", "", "Config file (default: ./flip-match.toml if present)")
	difficultyFlag = flag.String("difficulty", "", "Board size: easy, medium, hard")
	seedFlag       = flag.String("seed", "", "Start with this seed id")
	muteFlag       = flag.Bool("mute", false, "Disable sound")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *difficultyFlag != "" {
		cfg.Game.Difficulty = *difficultyFlag
	}
	if *muteFlag {
		cfg.Audio.Enabled = false
	}

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
		fmt.Fprintf(os.Stderr, "flip-match-gui: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	difficulty, err := seed.ParseDifficulty(cfg.Game.Difficulty)
	if err != nil {
		return err
	}

	var store persist.Store = persist.NewMemoryStore()
	if db, err := persist.OpenSQLite(cfg.Storage.Path); err != nil {
		log.WithError(err).Warn("storage unavailable, progress will not persist")
	} else {
		store = db
	}
	defer store.Close()

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

	g, err := newWindowGame(game.Options{
		Difficulty: difficulty,
		TileSize:   cfg.Game.TileSize,
		Padding:    cfg.Game.Padding,
		Sound:      sound,
		Store: persist.NewManager(persist.Options{
			Store:        store,
			MaxAge:       cfg.Storage.MaxAge,
			HistoryLimit: cfg.History.Limit,
		}),
		FlipDuration:     cfg.Game.FlipDuration,
		FlipEase:         anim.EaseByName(cfg.Game.FlipEase),
		MismatchDelay:    cfg.Game.MismatchDelay,
		AutosaveInterval: cfg.Storage.AutosaveInterval,
	}, cfg.Assets.Dir)
	if err != nil {
		return err
	}
	if *seedFlag != "" {
		g.loadSeed(*seedFlag)
	}

	ebiten.SetWindowTitle("Flip Match")
	ebiten.SetWindowClosingHandled(true)
	ebiten.SetScreenClearedEveryFrame(false)
	ebiten.SetTPS(60)

	log.Infof("flip-match-gui started: %s board", difficulty)
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}
