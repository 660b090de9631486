package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"chosenoffset.com/polylight/internal/config"
	"chosenoffset.com/polylight/internal/game"
	"chosenoffset.com/polylight/internal/logging"
	ebitenrender "chosenoffset.com/polylight/internal/render/ebiten"
	"chosenoffset.com/polylight/internal/world/level"
)

func main() {
	configPath := flag.String("config", "polylight.json", "path to the config file")
	levelPath := flag.String("level", "", "path to a level file (overrides the config)")
	listDir := flag.String("list", "", "list the level files in a directory and exit")
	debug := flag.Bool("debug", false, "log lighting diagnostics to stderr")
	flag.Parse()

	if *listDir != "" {
		levels, err := level.ScanDirectory(*listDir)
		if err != nil {
			log.Fatalf("Failed to scan levels: %v", err)
		}
		for _, l := range levels {
			fmt.Printf("%-24s %s\n", l.Name, l.Path)
		}
		return
	}

	if *debug {
		logging.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *levelPath != "" {
		cfg.Level = *levelPath
	}

	var lvl *level.Level
	if cfg.Level == "" {
		lvl, err = level.LoadDefault()
	} else {
		lvl, err = level.LoadLevel(cfg.Level)
	}
	if err != nil {
		log.Fatalf("Failed to load level: %v", err)
	}

	// Initialize the renderer backend (ebiten)
	renderer := ebitenrender.NewRenderer()
	inputMgr := ebitenrender.NewInputManager()
	engine := ebitenrender.NewEngine()

	g, err := game.New(cfg, lvl, renderer, inputMgr)
	if err != nil {
		log.Fatalf("Failed to create game: %v", err)
	}

	// Set up the window
	engine.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	engine.SetWindowTitle(cfg.Window.Title + " - " + lvl.Name)
	engine.SetWindowResizable(cfg.Window.Resizable)

	log.Println("Starting game...")
	err = engine.RunGame(g)
	g.Close()
	if err != nil {
		log.Fatal(err)
	}
}
