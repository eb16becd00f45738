package main

import (
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/lmittmann/tint"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/inference"
	"github.com/ayusman/mudra/internal/overlay"
	"github.com/ayusman/mudra/internal/server"
	"github.com/ayusman/mudra/internal/store"
	"github.com/ayusman/mudra/internal/track"
	"github.com/ayusman/mudra/internal/tray"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	verbose := flag.Bool("v", false, "enable debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      level,
			TimeFormat: "15:04:05",
		}),
	)
	slog.SetDefault(logger)

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			logger.Error("load config", "path", *configPath, "error", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		logger.Error("create data directory", "error", err)
		os.Exit(1)
	}
	st, err := store.New(cfg.DBPath)
	if err != nil {
		logger.Error("open store", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer st.Close()

	supported := capture.Probe()
	if !supported {
		logger.Warn("no capture device found, tracking disabled")
	}

	trayUI := tray.New()

	client := inference.NewHTTPClient(cfg.Inference.Endpoint, &http.Client{
		Timeout: cfg.InferenceTimeout(),
	})

	tracker := track.New(track.Config{
		Camera:      capture.NewCameraWithHint(cfg.Camera.DeviceID, cfg.Camera.Width, cfg.Camera.Height),
		Client:      client,
		Renderer:    overlay.NewRenderer(cfg.Style()),
		Store:       st,
		Logger:      logger,
		Controls:    trayUI,
		Status:      trayUI,
		Interval:    cfg.Interval(),
		JPEGQuality: cfg.Tracking.JPEGQuality,
		Supported:   supported,
	})
	defer tracker.Close()

	staticDir := cfg.Server.StaticDir
	if staticDir == "" {
		staticDir = findWebDir()
	}
	if staticDir != "" {
		logger.Info("serving static files", "dir", staticDir)
	}

	srv := server.New(server.Config{
		StaticDir: staticDir,
		Store:     st,
		Tracker:   tracker,
	})

	go func() {
		logger.Info("starting server", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(cfg.Server.Addr); err != nil {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	trayUI.OnStart(func() {
		if err := tracker.Start(); err != nil {
			logger.Error("start tracking", "error", err)
		}
	})
	trayUI.OnStop(tracker.Stop)
	trayUI.OnViewer(func() {
		if err := openBrowser("http://localhost" + cfg.Server.Addr); err != nil {
			logger.Warn("open viewer", "error", err)
		}
	})
	trayUI.OnQuit(func() {
		tracker.Close()
	})

	// Blocks until the quit menu item is clicked.
	trayUI.Run()
}

// openBrowser opens the given URL in the default browser.
func openBrowser(url string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", url).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	default:
		return exec.Command("xdg-open", url).Start()
	}
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.mudra/web.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, ".mudra", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}
