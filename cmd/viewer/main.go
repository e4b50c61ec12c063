package main

import (
	"os"

	"dome-viewer/internal/assets/picker"
	"dome-viewer/internal/engineconfig"
	"dome-viewer/internal/env"
	"dome-viewer/internal/graphics"
	"dome-viewer/internal/logger"
	"dome-viewer/internal/viewer"
)

func main() {
	envN, envErr := env.Load(".env", engineconfig.EnvPrefix+"_")
	loader := engineconfig.NewLoader(engineconfig.ConfigDir)
	cfg, cfgErr := loader.Load()
	log := logger.New(logger.Options{
		Path:     cfg.Log.Path,
		Level:    logger.ParseLevel(cfg.Log.Level),
		Capacity: cfg.Log.Capacity,
	})
	if envErr != nil {
		log.Warnf(".env: %v", envErr)
	} else if envN > 0 {
		log.Infof(".env: %d variables", envN)
	}
	if cfgErr != nil {
		log.Errorf("%v; using defaults", cfgErr)
	}

	backend := graphics.New(cfg, log)
	app, err := viewer.New(cfg, backend, picker.New(cfg.Assets.ModelDir, cfg.Assets.MeshExtensions), log)
	if err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}
	app.WatchConfig(loader)
	backend.Run(app)
}
