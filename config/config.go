// Package config loads settings from a YAML file with environment overrides.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v2"
)

// EnvPrefix prefixes every environment override, e.g. ALGOVIZ_SERVICE_URL.
const EnvPrefix = "ALGOVIZ_"

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

type Service struct {
	URL     string        `yaml:"url" env:"URL"`
	Timeout time.Duration `yaml:"timeout" env:"TIMEOUT"`
	Cache   bool          `yaml:"cache" env:"CACHE"`
}

type Playback struct {
	Speed      time.Duration `yaml:"speed" env:"SPEED"`
	ControlMin int           `yaml:"controlMin" env:"CONTROL_MIN"`
	ControlMax int           `yaml:"controlMax" env:"CONTROL_MAX"`
	Fastest    time.Duration `yaml:"fastest" env:"FASTEST"`
	Slowest    time.Duration `yaml:"slowest" env:"SLOWEST"`
}

type Render struct {
	Transition time.Duration     `yaml:"transition" env:"TRANSITION"`
	Easing     string            `yaml:"easing" env:"EASING"`
	CellWidth  float64           `yaml:"cellWidth" env:"CELL_WIDTH"`
	Gap        float64           `yaml:"gap" env:"GAP"`
	Lift       float64           `yaml:"lift" env:"LIFT"`
	Default    string            `yaml:"default" env:"DEFAULT"`
	Palette    map[string]string `yaml:"palette" env:"PALETTE"`
	Priority   []string          `yaml:"priority" env:"PRIORITY"`
}

type Topics struct {
	Stream  string `yaml:"stream" env:"STREAM"`
	Control string `yaml:"control" env:"CONTROL"`
}

type Mqtt struct {
	URL       string  `yaml:"url" env:"URL"`
	ClientID  string  `yaml:"clientId" env:"CLIENT_ID"`
	Username  string  `yaml:"username" env:"USERNAME"`
	Password  string  `yaml:"password" env:"PASSWORD"`
	FrameRate float64 `yaml:"frameRate" env:"FRAME_RATE"`
	Topics    Topics  `yaml:"topics" envPrefix:"TOPICS_"`
}

// Enabled reports whether a broker is configured.
func (m Mqtt) Enabled() bool {
	return m.URL != ""
}

type HTTP struct {
	Addr      string `yaml:"addr" env:"ADDR"`
	// StaticDir holds a built web client served at "/". Empty serves the
	// JSON API only.
	StaticDir string `yaml:"staticDir" env:"STATIC_DIR"`
}

type Log struct {
	Level  string `yaml:"level" env:"LEVEL"`
	Format string `yaml:"format" env:"FORMAT"`
}

// Config is the full application configuration.
type Config struct {
	Service  Service  `yaml:"service" envPrefix:"SERVICE_"`
	Playback Playback `yaml:"playback" envPrefix:"PLAYBACK_"`
	Render   Render   `yaml:"render" envPrefix:"RENDER_"`
	Mqtt     Mqtt     `yaml:"mqtt" envPrefix:"MQTT_"`
	HTTP     HTTP     `yaml:"http" envPrefix:"HTTP_"`
	Log      Log      `yaml:"log" envPrefix:"LOG_"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Service: Service{
			URL:     "http://127.0.0.1:8000",
			Timeout: 2 * time.Minute,
			Cache:   true,
		},
		Playback: Playback{
			Speed:      800 * time.Millisecond,
			ControlMin: 1,
			ControlMax: 10,
			Fastest:    100 * time.Millisecond,
			Slowest:    2 * time.Second,
		},
		Render: Render{
			Transition: 300 * time.Millisecond,
			Easing:     "in-out-quad",
			CellWidth:  56,
			Gap:        12,
			Lift:       8,
			Default:    "#6b7280",
			Palette: map[string]string{
				"swapping":  "#ef4444",
				"comparing": "#f59e0b",
				"sorted":    "#22c55e",
			},
			Priority: []string{"swapping", "comparing", "sorted"},
		},
		Mqtt: Mqtt{
			ClientID:  "algoviz",
			FrameRate: 30,
			Topics: Topics{
				Stream:  "algoviz/stream",
				Control: "algoviz/control",
			},
		},
		HTTP: HTTP{
			Addr: ":3000",
		},
		Log: Log{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads path over the defaults and then applies environment overrides.
// A missing file is only an error when required is set.
func Load(path string, required bool) (Config, error) {
	cfg := Default()

	if path != "" {
		f, err := os.Open(path)
		switch {
		case err == nil:
			defer f.Close()
			// An empty file decodes to io.EOF and overrides nothing.
			if err := yaml.NewDecoder(f).Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
				return Config{}, fmt.Errorf("decode %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist) && !required:
		default:
			return Config{}, err
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks ranges that would otherwise surface as odd runtime behaviour.
func (c Config) Validate() error {
	switch {
	case c.Service.URL == "":
		return fmt.Errorf("%w: service.url is empty", ErrInvalid)
	case c.Service.Timeout <= 0:
		return fmt.Errorf("%w: service.timeout must be positive", ErrInvalid)
	case c.Playback.Speed <= 0:
		return fmt.Errorf("%w: playback.speed must be positive", ErrInvalid)
	case c.Playback.ControlMax <= c.Playback.ControlMin:
		return fmt.Errorf("%w: playback.controlMax must exceed controlMin", ErrInvalid)
	case c.Playback.Fastest <= 0 || c.Playback.Slowest < c.Playback.Fastest:
		return fmt.Errorf("%w: playback.fastest must be positive and not above slowest", ErrInvalid)
	case c.Render.Transition < 0:
		return fmt.Errorf("%w: render.transition is negative", ErrInvalid)
	case c.Mqtt.Enabled() && c.Mqtt.FrameRate <= 0:
		return fmt.Errorf("%w: mqtt.frameRate must be positive", ErrInvalid)
	}
	return nil
}
