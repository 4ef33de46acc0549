// Package main is the entry point for the interactive mesh viewer.
//
// Usage:
//
//	objviewer [flags] file.obj [file.gltf ...]
//
// Controls: WASD move, arrow keys or right-drag look, wheel zoom, Tab toggles
// wireframe, F frames the meshes, R reloads them, Esc quits.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/meshgraph/internal/config"
	"github.com/Faultbox/meshgraph/internal/logger"
	"github.com/Faultbox/meshgraph/internal/viewer"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== meshgraph viewer ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	if len(cfg.Meshes.Paths) == 0 {
		logger.Warn("no meshes given; pass files as arguments or list them under meshes.paths")
	}

	v, err := viewer.New(cfg)
	if err != nil {
		logger.Error("failed to create viewer", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
	defer v.Close()

	if err := v.Run(); err != nil {
		logger.Error("viewer error", zap.Error(err))
		v.Close()
		logger.Sync()
		os.Exit(1)
	}

	logger.Info("viewer closed normally")
}
