// Package config holds pokedeck's persistent settings.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config is the persistent application configuration.
type Config struct {
	API       APIConfig       `json:"api"`
	Animation AnimationConfig `json:"animation"`
	Scene     SceneConfig     `json:"scene"`
	UI        UIConfig        `json:"ui"`
}

// APIConfig describes the remote catalog.
type APIConfig struct {
	BaseURL          string `json:"base_url"`
	PageSize         int    `json:"page_size"`
	RequestTimeoutMs int    `json:"request_timeout_ms"`
	// RequestsPerSecond paces outgoing requests. Zero disables pacing.
	RequestsPerSecond float64 `json:"requests_per_second"`
	UserAgent         string  `json:"user_agent"`
}

// RequestTimeout returns the transport timeout as a duration.
func (a APIConfig) RequestTimeout() time.Duration {
	return time.Duration(a.RequestTimeoutMs) * time.Millisecond
}

// AnimationConfig holds card animation rates.
type AnimationConfig struct {
	RotationSpeed  float64 `json:"rotation_speed"`  // radians per second
	ScaleSmooth    float64 `json:"scale_smooth"`    // lerp factor per frame
	PositionSmooth float64 `json:"position_smooth"` // lerp factor per frame
	HoverScale     float64 `json:"hover_scale"`
	HoverLift      float64 `json:"hover_lift"`
	SelectedLift   float64 `json:"selected_lift"`
	FrameMs        int     `json:"frame_ms"`
}

// FrameInterval returns the animation tick period.
func (a AnimationConfig) FrameInterval() time.Duration {
	return time.Duration(a.FrameMs) * time.Millisecond
}

// SceneConfig holds layout and camera settings.
type SceneConfig struct {
	Radius         float64 `json:"radius"`
	CameraDistance float64 `json:"camera_distance"`
}

// UIConfig holds UI preferences.
type UIConfig struct {
	ShowSprites    bool `json:"show_sprites"`
	NoticeMs       int  `json:"notice_ms"`
	AutoSelectLead bool `json:"auto_select_lead"` // load detail of the first entry on first landing
}

// DefaultConfig returns the stock settings.
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:           "https://pokeapi.co/api/v2",
			PageSize:          20,
			RequestTimeoutMs:  10000,
			RequestsPerSecond: 5,
			UserAgent:         "pokedeck/0.1 (+https://github.com/abelbrown/pokedeck)",
		},
		Animation: AnimationConfig{
			RotationSpeed:  0.3,
			ScaleSmooth:    0.1,
			PositionSmooth: 0.1,
			HoverScale:     1.2,
			HoverLift:      0.3,
			SelectedLift:   0.5,
			FrameMs:        33,
		},
		Scene: SceneConfig{
			Radius:         5,
			CameraDistance: 8,
		},
		UI: UIConfig{
			ShowSprites:    true,
			NoticeMs:       3000,
			AutoSelectLead: true,
		},
	}
}

// Dir returns the data directory, ~/.pokedeck.
func Dir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".pokedeck")
}

// Path returns the path to the config file.
func Path() string {
	return filepath.Join(Dir(), "config.json")
}

// Load reads the config file at path, falling back to defaults when it does
// not exist, then applies environment overrides. A .env file in the working
// directory is loaded first when present.
func Load(path string) (*Config, error) {
	// Missing .env is the common case.
	_ = godotenv.Load()

	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	cfg.normalize()
	return cfg, nil
}

// Save writes the config to path, creating the directory if needed.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ApplyEnv overrides settings from POKEDECK_* environment variables.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("POKEDECK_API_BASE"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("POKEDECK_PAGE_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("POKEDECK_PAGE_SIZE: %w", err)
		}
		c.API.PageSize = n
	}
	if v := os.Getenv("POKEDECK_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("POKEDECK_TIMEOUT: %w", err)
		}
		c.API.RequestTimeoutMs = int(d / time.Millisecond)
	}
	return nil
}

// normalize replaces unusable values with defaults.
func (c *Config) normalize() {
	def := DefaultConfig()
	if c.API.BaseURL == "" {
		c.API.BaseURL = def.API.BaseURL
	}
	if c.API.PageSize <= 0 {
		c.API.PageSize = def.API.PageSize
	}
	if c.API.RequestTimeoutMs <= 0 {
		c.API.RequestTimeoutMs = def.API.RequestTimeoutMs
	}
	if c.Scene.Radius <= 0 {
		c.Scene.Radius = def.Scene.Radius
	}
	if c.Scene.CameraDistance <= 0 {
		c.Scene.CameraDistance = def.Scene.CameraDistance
	}
	if c.Animation.FrameMs <= 0 {
		c.Animation.FrameMs = def.Animation.FrameMs
	}
	if c.UI.NoticeMs <= 0 {
		c.UI.NoticeMs = def.UI.NoticeMs
	}
}
