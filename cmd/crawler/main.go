package main

import (
	"flag"
	"log"

	"chosenoffset.com/crawler/internal/game"
	ebitenrender "chosenoffset.com/crawler/internal/render/ebiten"
	"chosenoffset.com/crawler/internal/simulation"
)

var (
	configFlag = flag.String("config", "config.json", "path to the JSON config file")
	levelFlag  = flag.String("level", "", "level file or directory of levels (default: built-in demo)")
	debugFlag  = flag.Bool("debug", false, "show position, light and turn overlay")
	scaleFlag  = flag.Int("scale", 0, "window pixels per rendered pixel (overrides config)")
)

func main() {
	flag.Parse()

	cfg, err := simulation.LoadConfig(*configFlag)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *scaleFlag > 0 {
		cfg.Render.WindowScale = *scaleFlag
	}

	store, err := game.LoadTextures(cfg)
	if err != nil {
		log.Fatalf("Failed to load textures: %v", err)
	}

	level, err := game.LoadLevel(*levelFlag, cfg)
	if err != nil {
		log.Fatalf("Failed to load level: %v", err)
	}

	// Initialize the renderer backend (ebiten)
	engine := ebitenrender.NewEngine()

	g, err := game.New(cfg, level, store, engine.Input())
	if err != nil {
		log.Fatalf("Failed to create game: %v", err)
	}
	g.ShowDebug = *debugFlag
	g.LightingManager.SetDebug(*debugFlag)

	// Set up the window
	scale := max(cfg.Render.WindowScale, 1)
	engine.SetWindowSize(cfg.Render.ScreenWidth*scale, cfg.Render.ScreenHeight*scale)
	engine.SetWindowTitle("Crawler - " + level.Name)
	engine.SetWindowResizable(true)

	log.Println("Starting game...")
	if err := engine.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
