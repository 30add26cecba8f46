package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rook-computer/fractaldraw/internal/app"
	"github.com/rook-computer/fractaldraw/internal/input"
	"github.com/rook-computer/fractaldraw/internal/render"
	"github.com/rook-computer/fractaldraw/internal/state"
	"github.com/rook-computer/fractaldraw/internal/system"
	"github.com/rook-computer/fractaldraw/internal/web"
)

func main() {
	os.Exit(run())
}

func run() int {
	fmt.Println("fractaldraw starting")

	defaults, err := web.DefaultServerConfigFromEnv(":80")
	if err != nil {
		fmt.Println("server config error:", err)
		return 2
	}
	cfg := app.DefaultConfig()

	// Flags
	debug := flag.Bool("debug", false, "enable debug logging to ./fractaldraw-debug.log")
	stdioLog := flag.String("stdio-log", "", "redirect stdout+stderr (including panics) to this file; also configurable via FRACTALDRAW_STDIO_LOG")
	fbDevice := flag.String("fb", render.DefaultFBDevice, "framebuffer device")
	noFB := flag.Bool("no-fb", false, "do not draw to the framebuffer (web clients only)")
	noHUD := flag.Bool("no-hud", false, "hide the share QR code and URL on the framebuffer")
	listenAddr := flag.String("listen", defaults.ListenAddr, "http listen address; also configurable via "+web.EnvListenAddr)
	devMode := flag.Bool("dev", defaults.DevMode, "enable dev mode (permissive CORS); also configurable via "+web.EnvDevMode)
	staticDir := flag.String("static-dir", "", "serve static UI from this directory (optional); when empty, embedded web UI assets are served")
	streamFPS := flag.Int("stream-fps", defaults.StreamFPS, "frames per second pushed to web clients; also configurable via "+web.EnvStreamFPS)
	flag.IntVar(&cfg.Width, "width", cfg.Width, "canvas width until a client reports its size")
	flag.IntVar(&cfg.Height, "height", cfg.Height, "canvas height until a client reports its size")
	flag.IntVar(&cfg.FPS, "fps", cfg.FPS, "frames rendered per second")
	flag.IntVar(&cfg.History, "history", cfg.History, "number of trail points kept")
	trailFade := flag.String("trail-fade", string(cfg.Render.TrailFade), "trail fade: cumulative | flat | age")
	advertise := flag.Bool("mdns", false, "advertise the web UI via mDNS as "+web.ServiceType)
	flag.Parse()

	// Best-effort: redirect all stdout/stderr output (including panic stack traces)
	// to a file so crashes are diagnosable even when the console is left in graphics mode.
	logPath := *stdioLog
	if logPath == "" {
		logPath = os.Getenv("FRACTALDRAW_STDIO_LOG")
	}
	if logPath != "" {
		if err := system.RedirectStdIO(logPath); err != nil {
			fmt.Println("stdio log redirect error:", err)
		}
	}

	// Local file logger when debug enabled
	var logger app.Logger = app.NoopLogger{}
	if *debug {
		f, err := os.OpenFile("./fractaldraw-debug.log", os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err == nil {
			logger = app.NewFileLogger(f)
			logger.Infof("main", "debug logging enabled")
		} else {
			fmt.Println("debug log open error:", err)
		}
	}

	fade, err := render.ParseTrailFade(*trailFade)
	if err != nil {
		fmt.Println("flag error:", err)
		return 2
	}
	cfg.Render.TrailFade = fade
	if cfg.History < 1 {
		fmt.Println("flag error: -history must be at least 1")
		return 2
	}

	page, err := web.IndexPage(*staticDir)
	if err == nil {
		err = app.CheckPage(page)
	}
	if err != nil {
		fmt.Println("warning:", err)
		logger.Errorf("main", "web UI unusable: %v", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := state.NewStore()
	queue := input.NewQueue(0)

	hub := web.NewHub(queue, store)
	hub.StreamFPS = *streamFPS
	hub.AllowAnyOrigin = *devMode
	hub.Logger = logger

	sinks := []render.Sink{hub}
	var fb *render.FBSink
	if !*noFB {
		fb = render.NewFBSink()
		fb.Device = *fbDevice
		fb.HUD = !*noHUD
		fb.Logger = logger
		sinks = append(sinks, fb)
	}

	a := app.New(store, queue, cfg, sinks...)
	a.Logger = logger
	a.Console = fb != nil

	server := web.NewHTTPServer(web.ServerConfig{ListenAddr: *listenAddr, DevMode: *devMode})
	server.Logger = logger
	server.Handler = web.NewDefaultMux(*staticDir, web.APIV1Config{
		Handlers: web.APIV1Handlers{ResetFunc: func(ctx context.Context) error { a.Reset(); return nil }},
		Deps:     web.APIV1Deps{Store: store, Frames: hub},
	}, hub)
	if err := server.Start(ctx); err != nil {
		fmt.Println("server start error:", err)
		return 1
	}
	defer func() { _ = server.Stop() }()

	ip, err := system.LANNetInfo{}.IP(ctx)
	if err != nil {
		logger.Errorf("main", "local ip: %v", err)
	}
	shareURL := system.ShareURL(ip, server.ListenAddr())
	if fb != nil {
		fb.SetShareURL(shareURL)
	}
	if shareURL != "" {
		fmt.Println("Draw at", shareURL)
	}

	if *advertise {
		port, err := web.PortOf(server.ListenAddr())
		if err == nil {
			err = web.Advertise(ctx, port, logger)
		}
		if err != nil {
			fmt.Println("mdns error:", err)
		}
	}

	system.WatchKeys(ctx, logger, system.KeyBindings{
		system.KeyF4: func() { a.Exit(nil) },
		system.KeyF5: a.Reset,
	})

	if err := a.Run(ctx); err != nil {
		if errors.Is(err, app.ErrNoContext) {
			fmt.Println("warning:", err)
		} else {
			fmt.Println("app error:", err)
		}
		return 1
	}
	fmt.Println("fractaldraw stopped")
	return 0
}
