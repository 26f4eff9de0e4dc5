package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"terrain-arena/internal/arena"
	"terrain-arena/internal/audio"
	"terrain-arena/internal/config"
	"terrain-arena/internal/logging"
)

func main() {
	configDir := flag.String("config", ".", "Directory holding "+config.FileName)
	mode := flag.String("mode", "", "Round mode: hunt or capture (overrides round.mode)")
	adversaries := flag.Int("adversaries", -1, "Adversary count (overrides round.adversaries)")
	fire := flag.Bool("fire", false, "Adversaries shoot back")
	seed := flag.Uint64("seed", 0, "Round seed, 0 picks one from the clock")
	mute := flag.Bool("mute", false, "Disable sound")
	flag.Parse()

	if err := config.Load(*configDir); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	cfg := config.GetRoundConfig()
	if *mode != "" {
		cfg.Mode = arena.Mode(*mode)
	}
	if *adversaries >= 0 {
		cfg.Adversaries = *adversaries
	}
	if *fire {
		cfg.AdversariesFire = true
	}
	if *seed == 0 {
		*seed = uint64(time.Now().UnixNano())
	}

	// the terminal owns stdout, so logs only go to the file
	var logFile *os.File
	if path := config.GetString("logFile"); path != "" {
		if f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); err == nil {
			logFile = f
			defer f.Close()
		}
	}
	level := config.GetString("logLevel")
	log := logging.New(level, nil, nil)
	if logFile != nil {
		log = logging.New(level, nil, logFile)
	}

	sound := audio.NewSoundManager(log)
	audioCfg := config.GetAudioConfig()
	if audioCfg.Enabled && !*mute {
		if err := sound.Initialize(); err != nil {
			log.Warn().Err(err).Msg("audio unavailable, continuing without sound")
		}
		sound.SetVolume(audioCfg.Volume)
		sound.Play(arena.CueIntro)
	}
	defer sound.Cleanup()

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer screen.Fini()

	app, err := NewApp(screen, cfg, *seed, sound, log)
	if err != nil {
		screen.Fini()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log.Info().Uint64("seed", *seed).Str("mode", string(cfg.Mode)).Msg("terminal session started")
	app.Run()
}
