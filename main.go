package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/eclipse/paho.mqtt.golang"
	"golang.org/x/sync/errgroup"

	"github.com/matt-g-everett/algoviz/api"
	"github.com/matt-g-everett/algoviz/client"
	"github.com/matt-g-everett/algoviz/config"
	"github.com/matt-g-everett/algoviz/playback"
	"github.com/matt-g-everett/algoviz/scene"
	"github.com/matt-g-everett/algoviz/session"
	"github.com/matt-g-everett/algoviz/storyboard"
	"github.com/matt-g-everett/algoviz/stream"
	"github.com/matt-g-everett/algoviz/term"
	"github.com/matt-g-everett/algoviz/util"
)

type options struct {
	configPath     string
	codePath       string
	input          string
	storyboardPath string
	tui            bool
	autoplay       bool
}

type app struct {
	config  config.Config
	logger  *slog.Logger
	session *session.Session
	speed   playback.SpeedControl
	easing  util.Easing
}

func newLogger(levelStr, formatStr string, outW io.Writer) *slog.Logger {
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	if formatStr == "json" {
		return slog.New(slog.NewJSONHandler(outW, handlerOpts))
	}
	return slog.New(slog.NewTextHandler(outW, handlerOpts))
}

func newRenderer(cfg config.Render) (*scene.Renderer, error) {
	palette, err := scene.NewPalette(cfg.Default, cfg.Palette, cfg.Priority)
	if err != nil {
		return nil, fmt.Errorf("render palette: %w", err)
	}
	r := scene.NewRenderer()
	r.Palette = palette
	r.Layout = scene.Layout{CellWidth: cfg.CellWidth, Gap: cfg.Gap}
	r.Duration = cfg.Transition
	r.LiftHeight = cfg.Lift
	return r, nil
}

func newApp(cfg config.Config, logger *slog.Logger) (*app, error) {
	a := new(app)
	a.config = cfg
	a.logger = logger

	var ok bool
	a.easing, ok = util.LookupEasing(cfg.Render.Easing)
	if !ok {
		return nil, fmt.Errorf("%w: unknown easing %q", config.ErrInvalid, cfg.Render.Easing)
	}
	renderer, err := newRenderer(cfg.Render)
	if err != nil {
		return nil, err
	}

	var fetcher client.Fetcher = client.New(cfg.Service.URL, cfg.Service.Timeout)
	if cfg.Service.Cache {
		fetcher = client.NewCache(fetcher)
	}

	a.speed = playback.SpeedControl{
		Min:     cfg.Playback.ControlMin,
		Max:     cfg.Playback.ControlMax,
		Fastest: cfg.Playback.Fastest,
		Slowest: cfg.Playback.Slowest,
	}
	player := playback.NewPlayer(storyboard.NewStore(), playback.Clock(), cfg.Playback.Speed)
	a.session = session.New(fetcher, player, scene.NewTracker(renderer), logger)
	return a, nil
}

// load fetches or reads the initial storyboard named on the command line.
func (a *app) load(ctx context.Context, opts options) error {
	var code []byte
	if opts.codePath != "" {
		var err error
		if code, err = os.ReadFile(opts.codePath); err != nil {
			return err
		}
	}

	switch {
	case opts.storyboardPath != "":
		frames, err := storyboard.ReadFile(opts.storyboardPath)
		if err != nil {
			return err
		}
		a.session.Open(string(code), frames)
	case opts.codePath != "":
		err := a.session.Visualize(ctx, string(code), opts.input)
		if errors.Is(err, session.ErrSuperseded) {
			return nil
		}
		if err != nil {
			a.logger.Error("initial storyboard not loaded", "error", err)
			return nil
		}
	default:
		return nil
	}

	if opts.autoplay {
		a.session.Player().Play()
	}
	return nil
}

func (a *app) run(ctx context.Context, opts options) error {
	if opts.tui {
		a.session.Subscribe(func(v session.View) {
			fmt.Println(term.Render(v))
		})
	}

	g, ctx := errgroup.WithContext(ctx)

	server := api.NewApi(a.session, a.speed, a.config.HTTP.StaticDir, a.logger)
	g.Go(func() error {
		return server.Serve(ctx, a.config.HTTP.Addr)
	})

	if a.config.Mqtt.Enabled() {
		controller := stream.NewController(a.config.Mqtt, a.session, a.speed, a.easing, a.logger)
		g.Go(func() error {
			return controller.Run(ctx)
		})
	}

	g.Go(func() error {
		return a.load(ctx, opts)
	})

	return g.Wait()
}

func main() {
	// mqtt.DEBUG = log.New(os.Stdout, "", 0)
	mqtt.ERROR = log.New(os.Stdout, "", 0)

	// Parse command line parameters
	var opts options
	flag.StringVar(&opts.configPath, "config", "config.yaml", "YAML config file.")
	flag.StringVar(&opts.codePath, "code", "", "Source file to visualize.")
	flag.StringVar(&opts.input, "input", "", "Input expression passed with the source.")
	flag.StringVar(&opts.storyboardPath, "storyboard", "", "Storyboard file to play instead of calling the trace service.")
	flag.BoolVar(&opts.tui, "tui", false, "Print each step to the terminal.")
	flag.BoolVar(&opts.autoplay, "autoplay", false, "Start playing once the storyboard is loaded.")
	flag.Parse()

	// The default config file is optional, a named one is not.
	required := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "config" {
			required = true
		}
	})

	cfg, err := config.Load(opts.configPath, required)
	if err != nil {
		log.Fatal(err)
	}
	logger := newLogger(cfg.Log.Level, cfg.Log.Format, os.Stderr)

	a, err := newApp(cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.run(ctx, opts); err != nil {
		logger.Error("exited", "error", err)
		os.Exit(1)
	}
}
