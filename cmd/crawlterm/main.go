package main

import (
	"flag"
	"io"
	"log"
	"os"

	"chosenoffset.com/crawler/internal/game"
	"chosenoffset.com/crawler/internal/render/terminal"
	"chosenoffset.com/crawler/internal/simulation"
)

var (
	configFlag = flag.String("config", "config.json", "path to the JSON config file")
	levelFlag  = flag.String("level", "", "level file or directory of levels (default: built-in demo)")
	debugFlag  = flag.Bool("debug", false, "show position, light and turn overlay")
	logFlag    = flag.String("log", "", "write log output to this file instead of discarding it")
)

func main() {
	flag.Parse()

	// The terminal belongs to the renderer; logs go to a file or nowhere.
	if *logFlag != "" {
		f, err := os.OpenFile(*logFlag, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			log.Fatalf("Failed to open log file: %v", err)
		}
		defer f.Close()
		log.SetOutput(f)
	} else {
		log.SetOutput(io.Discard)
	}

	cfg, err := simulation.LoadConfig(*configFlag)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	// Terminal cells are coarse; a small frame keeps the half-block sampling cheap.
	cfg.Render.ScreenWidth = min(cfg.Render.ScreenWidth, 160)
	cfg.Render.ScreenHeight = min(cfg.Render.ScreenHeight, 100)

	store, err := game.LoadTextures(cfg)
	if err != nil {
		log.Fatalf("Failed to load textures: %v", err)
	}
	level, err := game.LoadLevel(*levelFlag, cfg)
	if err != nil {
		log.Fatalf("Failed to load level: %v", err)
	}

	engine := terminal.NewEngine()
	g, err := game.New(cfg, level, store, engine.Input())
	if err != nil {
		log.Fatalf("Failed to create game: %v", err)
	}
	g.ShowDebug = *debugFlag

	if err := engine.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
