package main

import (
	"errors"
	"flag"
	"log"
	"log/slog"

	"chosenoffset.com/light2d/internal/config"
	"chosenoffset.com/light2d/internal/light"
	ebitenrender "chosenoffset.com/light2d/internal/render/ebiten"
	"chosenoffset.com/light2d/internal/viewer"
)

func main() {
	scenePath := flag.String("scene", "scenes/demo.yaml", "scene file (.json, .yaml or .toml)")
	watch := flag.Bool("watch", true, "reload the scene when the file changes")
	save := flag.String("save", "", "write the scene to this file on exit")
	verbose := flag.Bool("v", false, "log light mesh regeneration")
	flag.Parse()

	// Route library logging through the default logger
	if *verbose {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}
	light.SetLogger(slog.Default())

	scene, err := config.LoadScene(*scenePath)
	if err != nil {
		log.Fatalf("Failed to load scene: %v", err)
	}

	// Initialize the renderer backend (ebiten)
	renderer := ebitenrender.NewRenderer()
	inputMgr := ebitenrender.NewInputManager()
	engine := ebitenrender.NewEngine()
	loader := ebitenrender.NewTextureLoader()

	v, err := viewer.New(renderer, inputMgr, loader, scene, *scenePath)
	if err != nil {
		log.Fatalf("Failed to create viewer: %v", err)
	}
	defer v.Close()

	if *watch {
		w, err := config.Watch(*scenePath)
		if err != nil {
			log.Printf("Warning: scene hot reload disabled: %v", err)
		} else {
			v.Watcher = w
		}
	}

	// Set up the window
	engine.SetWindowSize(v.ScreenWidth, v.ScreenHeight)
	engine.SetWindowTitle(scene.Window.Title)
	engine.SetWindowResizable(true)

	log.Println("Starting viewer...")
	if err := engine.RunGame(v); err != nil && !errors.Is(err, viewer.ErrQuit) {
		log.Fatal(err)
	}

	if *save != "" {
		if err := config.SaveScene(*save, v.Snapshot()); err != nil {
			log.Printf("Warning: %v", err)
		} else {
			log.Printf("Scene saved to %s", *save)
		}
	}
}
