// Package config loads the application configuration from a YAML file,
// filling gaps from environment variables and built-in defaults.
package config

import (
	"fmt"
	"image/color"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ayusman/mudra/internal/overlay"
	"github.com/ayusman/mudra/internal/track"
)

// CameraConfig selects the capture device and the resolution hint sent to it.
// The device is free to negotiate a different resolution.
type CameraConfig struct {
	DeviceID int `yaml:"device_id"`
	Width    int `yaml:"width"`
	Height   int `yaml:"height"`
}

// InferenceConfig points at the remote landmark service.
type InferenceConfig struct {
	// Endpoint is the service base URL; the frame path is appended to it.
	Endpoint  string `yaml:"endpoint"`
	TimeoutMs int    `yaml:"timeout_ms"`
}

// TrackingConfig tunes the sampling loop.
type TrackingConfig struct {
	IntervalMs  int `yaml:"interval_ms"`
	JPEGQuality int `yaml:"jpeg_quality"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Addr      string `yaml:"addr"`
	StaticDir string `yaml:"static_dir"`
}

// OverlayConfig tunes the skeleton drawing style. Colors are "#RRGGBB";
// zero values fall back to the renderer defaults.
type OverlayConfig struct {
	LineColor    string `yaml:"line_color"`
	LineWidth    int    `yaml:"line_width"`
	MarkerColor  string `yaml:"marker_color"`
	MarkerRadius int    `yaml:"marker_radius"`
	WristRadius  int    `yaml:"wrist_radius"`
}

// Config aggregates all application configuration.
type Config struct {
	Camera    CameraConfig    `yaml:"camera"`
	Inference InferenceConfig `yaml:"inference"`
	Tracking  TrackingConfig  `yaml:"tracking"`
	Server    ServerConfig    `yaml:"server"`
	Overlay   OverlayConfig   `yaml:"overlay"`
	DBPath    string          `yaml:"db_path"`
}

// Default returns the configuration used when no file is given. Environment
// variables override the built-ins so containerized deployments need no file.
func Default() *Config {
	cfg := &Config{
		Camera: CameraConfig{
			DeviceID: getEnvAsIntOrDefault("MUDRA_CAMERA_ID", 0),
		},
		Inference: InferenceConfig{
			Endpoint:  getEnvOrDefault("MUDRA_INFERENCE_ENDPOINT", "http://127.0.0.1:8765"),
			TimeoutMs: 5000,
		},
		Server: ServerConfig{
			Addr:      getEnvOrDefault("MUDRA_ADDR", ":8080"),
			StaticDir: getEnvOrDefault("MUDRA_STATIC_DIR", ""),
		},
		DBPath: getEnvOrDefault("MUDRA_DB_PATH", ""),
	}
	cfg.applyDefaults()
	return cfg
}

// Load reads a YAML file and returns the configuration with defaults applied.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal yaml: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Inference.Endpoint == "" {
		c.Inference.Endpoint = "http://127.0.0.1:8765"
	}
	if c.Inference.TimeoutMs <= 0 {
		c.Inference.TimeoutMs = 5000
	}
	if c.Tracking.IntervalMs <= 0 {
		c.Tracking.IntervalMs = int(track.DefaultInterval / time.Millisecond)
	}
	if c.Tracking.JPEGQuality <= 0 {
		c.Tracking.JPEGQuality = track.DefaultJPEGQuality
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.DBPath == "" {
		home, err := os.UserHomeDir()
		if err == nil {
			c.DBPath = filepath.Join(home, ".mudra", "mudra.db")
		} else {
			c.DBPath = "mudra.db"
		}
	}
}

func (c *Config) validate() error {
	u, err := url.Parse(c.Inference.Endpoint)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("inference.endpoint %q is not a valid URL", c.Inference.Endpoint)
	}
	if c.Camera.DeviceID < 0 {
		return fmt.Errorf("camera.device_id must be >= 0, got %d", c.Camera.DeviceID)
	}
	if c.Tracking.JPEGQuality > 100 {
		return fmt.Errorf("tracking.jpeg_quality must be <= 100, got %d", c.Tracking.JPEGQuality)
	}
	for _, hex := range []string{c.Overlay.LineColor, c.Overlay.MarkerColor} {
		if hex == "" {
			continue
		}
		if _, err := parseHexColor(hex); err != nil {
			return fmt.Errorf("overlay color %q: %w", hex, err)
		}
	}
	return nil
}

// Style converts the overlay section to a renderer style. Unset fields stay
// zero so the renderer applies its own defaults.
func (c *Config) Style() overlay.Style {
	style := overlay.Style{
		LineWidth:    c.Overlay.LineWidth,
		MarkerRadius: c.Overlay.MarkerRadius,
		WristRadius:  c.Overlay.WristRadius,
	}
	if col, err := parseHexColor(c.Overlay.LineColor); err == nil {
		style.LineColor = col
	}
	if col, err := parseHexColor(c.Overlay.MarkerColor); err == nil {
		style.MarkerColor = col
	}
	return style
}

func parseHexColor(s string) (color.RGBA, error) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return color.RGBA{}, fmt.Errorf("want #RRGGBB")
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("want #RRGGBB")
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}

// Interval returns the sampling period.
func (c *Config) Interval() time.Duration {
	return time.Duration(c.Tracking.IntervalMs) * time.Millisecond
}

// InferenceTimeout returns the per-request inference deadline.
func (c *Config) InferenceTimeout() time.Duration {
	return time.Duration(c.Inference.TimeoutMs) * time.Millisecond
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
