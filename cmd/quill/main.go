// cmd/quill/main.go
package main

import (
	"context"
	"fmt"
	stlog "log" // before the logger is ready
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/bethropolis/quill/internal/app"
	"github.com/bethropolis/quill/internal/config"
	"github.com/bethropolis/quill/internal/logger"
	"github.com/bethropolis/quill/internal/tui"
)

func main() {
	// --- Argument & Flag Parsing ---
	var flags config.Flags
	flags.DefineFlags(nil)
	files, err := flags.ParseFlags(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}
	if *flags.Version {
		fmt.Printf("%s %s\n", config.AppName, config.Version)
		return
	}

	// --- Configuration ---
	cfg, cfgErr := config.LoadConfig(*flags.ConfigFilePath, &flags)

	// stderr belongs to the screen in full-screen mode
	if *flags.Screen && (cfg.Logger.LogFilePath == "" || cfg.Logger.LogFilePath == "-") {
		cfg.Logger.LogFilePath = filepath.Join(os.TempDir(), config.AppName+".log")
	}

	// --- Logger Initialization ---
	closer, err := logger.InitFromConfig(cfg.Logger)
	if err != nil {
		stlog.Fatalf("Failed to initialize logger: %v", err)
	}
	defer closer.Close()

	if cfgErr != nil {
		logger.Warnf("Config: %v (continuing with defaults where needed)", cfgErr)
	}
	logger.Infof("Starting Quill %s", config.Version)
	logger.Debugf("Session file: %s", cfg.Editor.SessionFile)
	logger.Debugf("Run command: %s", cfg.Run.Command)

	// --- Create and Run App ---
	quill, err := app.NewApp(cfg, files)
	if err != nil {
		logger.Errorf("Error initializing application: %v", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *flags.Screen {
		err = runScreen(ctx, quill)
	} else {
		err = quill.Run(ctx, os.Stdin, os.Stdout)
	}
	if err != nil {
		logger.Errorf("Application exited with error: %v", err)
		os.Exit(1)
	}
	logger.Infof("Quill finished.")
}

// runScreen owns the terminal for the whole session.
func runScreen(ctx context.Context, quill *app.App) error {
	screen, err := tui.New()
	if err != nil {
		return err
	}
	defer screen.Close()
	return quill.RunScreen(ctx, screen)
}
