package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rook-computer/fractaldraw/internal/app"
	"github.com/rook-computer/fractaldraw/internal/input"
	"github.com/rook-computer/fractaldraw/internal/render"
	"github.com/rook-computer/fractaldraw/internal/state"
	"github.com/rook-computer/fractaldraw/internal/web"
	"github.com/rook-computer/fractaldraw/internal/window"
)

func main() {
	os.Exit(run())
}

func run() int {
	defaults, err := web.DefaultServerConfigFromEnv(":8080")
	if err != nil {
		fmt.Println("server config error:", err)
		return 2
	}
	cfg := app.DefaultConfig()

	listenAddr := flag.String("listen", defaults.ListenAddr, "http listen address; also configurable via "+web.EnvListenAddr)
	devMode := flag.Bool("dev", defaults.DevMode, "enable dev mode; also configurable via "+web.EnvDevMode)
	staticDir := flag.String("static-dir", "", "serve static UI from this directory (optional); when empty, embedded web UI assets are served")
	streamFPS := flag.Int("stream-fps", defaults.StreamFPS, "frames per second pushed to web clients; also configurable via "+web.EnvStreamFPS)
	openWindow := flag.Bool("window", false, "also show the canvas in a desktop window and draw with the mouse there")
	debug := flag.Bool("debug", false, "log to stdout")
	discover := flag.Bool("discover", false, "list drawing hosts advertised on the LAN via mDNS and exit")
	scenario := flag.String("scenario", "", "inject a scripted scenario at startup: rectangle | reverse | trail | leave")
	flag.IntVar(&cfg.Width, "width", cfg.Width, "canvas width until a client reports its size")
	flag.IntVar(&cfg.Height, "height", cfg.Height, "canvas height until a client reports its size")
	flag.IntVar(&cfg.FPS, "fps", cfg.FPS, "frames rendered per second")
	flag.IntVar(&cfg.History, "history", cfg.History, "number of trail points kept")
	trailFade := flag.String("trail-fade", string(cfg.Render.TrailFade), "trail fade: cumulative | flat | age")
	flag.Parse()

	fade, err := render.ParseTrailFade(*trailFade)
	if err != nil {
		fmt.Println("flag error:", err)
		return 2
	}
	cfg.Render.TrailFade = fade

	if *discover {
		err := web.Browse(func(addr string) { fmt.Println("http://" + addr + "/") })
		if err != nil {
			fmt.Println("mdns lookup failed:", err)
			return 1
		}
		return 0
	}

	var logger app.Logger = app.NoopLogger{}
	if *debug {
		logger = app.NewFileLogger(os.Stdout)
	}

	processCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := state.NewStore()
	queue := input.NewQueue(0)
	hub := web.NewHub(queue, store)
	hub.StreamFPS = *streamFPS
	hub.AllowAnyOrigin = *devMode
	hub.Logger = logger

	sinks := []render.Sink{hub}
	var win *window.Window
	if *openWindow {
		win = window.New(queue, cfg.Width, cfg.Height)
		win.Title = "fractaldraw simulator"
		win.Logger = logger
		sinks = append(sinks, win)
	}

	a := app.New(store, queue, cfg, sinks...)
	a.Logger = logger
	control := NewSimControl(a, queue)
	control.Logger = logger

	mux := web.NewDefaultMux(*staticDir, web.APIV1Config{
		Handlers: web.APIV1Handlers{ResetFunc: func(ctx context.Context) error { a.Reset(); return nil }},
		Deps:     web.APIV1Deps{Store: store, Frames: hub},
	}, hub)
	registerSimEndpoints(mux, control)

	server := web.NewHTTPServer(web.ServerConfig{ListenAddr: *listenAddr, DevMode: *devMode})
	server.Handler = mux
	server.Logger = logger
	if err := server.Start(processCtx); err != nil {
		fmt.Println("server start error:", err)
		return 1
	}
	defer func() { _ = server.Stop() }()

	fmt.Println("fractaldraw simulator listening on", server.ListenAddr())
	fmt.Println("UI:  http://" + trimLeadingColon(*listenAddr) + "/")
	fmt.Println("API: http://" + trimLeadingColon(*listenAddr) + "/api/v1/")

	if *scenario != "" {
		events, err := Scenario(*scenario)
		if err != nil {
			fmt.Println("scenario error:", err)
			return 2
		}
		control.Inject(events)
	}

	ctx, cancel := context.WithCancel(processCtx)
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	if win != nil {
		// ebiten needs the main goroutine.
		if err := win.Run(ctx); err != nil {
			fmt.Println("window error:", err)
		}
		cancel()
	}

	if err := <-done; err != nil {
		fmt.Println("app error:", err)
		return 1
	}
	return 0
}

func trimLeadingColon(addr string) string {
	// Best-effort for display; don't attempt full URL parsing here.
	if len(addr) > 0 && addr[0] == ':' {
		return "127.0.0.1" + addr
	}
	if addr == "" {
		return "127.0.0.1:8080"
	}
	return addr
}
