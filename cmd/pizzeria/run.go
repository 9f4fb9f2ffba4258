package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	framerunner "github.com/Swind/go-frame-runner"
	"github.com/Swind/go-frame-runner/core"
	obs "github.com/Swind/go-frame-runner/observability/prometheus"
	"github.com/Swind/go-frame-runner/terminal"
	"github.com/gdamore/tcell/v2"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v2"
)

func runCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Show the page in the terminal (or drive it headless)",

		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "records",
				Value:   framerunner.DefaultDesiredRecordCount,
				Usage:   "Number of records the worker generates",
				EnvVars: []string{"PIZZERIA_RECORDS"},
			},
			&cli.IntFlag{
				Name:    "workers",
				Value:   framerunner.DefaultWorkers,
				Usage:   "Worker goroutines",
				EnvVars: []string{"PIZZERIA_WORKERS"},
			},
			&cli.IntFlag{
				Name:    "fps",
				Value:   60,
				Usage:   "Frame rate of the animation clock",
				EnvVars: []string{"PIZZERIA_FPS"},
			},
			&cli.Float64Flag{
				Name:    "viewport-height",
				Value:   framerunner.DefaultViewportHeight,
				Usage:   "Viewport height in pixels when headless",
				EnvVars: []string{"PIZZERIA_VIEWPORT_HEIGHT"},
			},
			&cli.StringFlag{
				Name:    "metrics-addr",
				Usage:   "Serve Prometheus metrics on this address (e.g. :2112)",
				EnvVars: []string{"PIZZERIA_METRICS_ADDR"},
			},
			&cli.StringFlag{
				Name:    "log-file",
				Usage:   "Write logs to this file (interactive mode logs nowhere otherwise)",
				EnvVars: []string{"PIZZERIA_LOG_FILE"},
			},
			&cli.BoolFlag{
				Name:  "headless",
				Usage: "Scroll through the page without a terminal and print stats",
			},
			&cli.IntFlag{
				Name:  "scroll-events",
				Value: 120,
				Usage: "Scroll events to send in headless mode",
			},
		},

		Action: runAction,
	}
}

func runAction(c *cli.Context) error {
	// 1. Get flags
	fps := c.Int("fps")
	headless := c.Bool("headless")

	// 2. Validate (format only)
	if fps < 1 {
		return cli.Exit("fps must be positive", 1)
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, closeLog, err := openLogger(c.String("log-file"), headless)
	if err != nil {
		return cli.Exit(fmt.Sprintf("Failed: %v", err), 1)
	}
	defer closeLog()

	cfg := framerunner.DefaultConfig()
	cfg.DesiredRecordCount = c.Int("records")
	cfg.Workers = c.Int("workers")
	cfg.FrameInterval = time.Second / time.Duration(fps)
	cfg.ViewportHeight = c.Float64("viewport-height")
	cfg.Logger = logger

	// 3. Wire metrics
	reg := prom.NewRegistry()
	exporter, err := obs.NewMetricsExporter("pizzeria", reg, obs.ExporterOptions{})
	if err != nil {
		return cli.Exit(fmt.Sprintf("Failed: %v", err), 1)
	}
	cfg.Metrics = exporter
	if addr := c.String("metrics-addr"); addr != "" {
		shutdown := serveMetrics(addr, reg, logger)
		defer shutdown()
	}

	if headless {
		return runHeadless(ctx, c, cfg, reg)
	}
	return runInteractive(ctx, cfg, reg)
}

func runInteractive(ctx context.Context, cfg framerunner.Config, reg prom.Registerer) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return cli.Exit(fmt.Sprintf("Failed: %v", err), 1)
	}
	if err := screen.Init(); err != nil {
		return cli.Exit(fmt.Sprintf("Failed: %v", err), 1)
	}
	defer screen.Fini()
	screen.EnableMouse()

	host := terminal.NewHost(screen, terminal.Options{
		SizeLabelID: cfg.SizeLabelID,
		Logger:      cfg.Logger,
	})
	cfg.ViewportHeight = host.ViewportHeight()
	cfg.Painter = host

	app, err := startApp(ctx, cfg, reg)
	if err != nil {
		return err
	}
	defer app.Stop()

	if err := host.Run(ctx, app); err != nil && !errors.Is(err, context.Canceled) {
		return cli.Exit(fmt.Sprintf("Failed: %v", err), 1)
	}
	return nil
}

func runHeadless(ctx context.Context, c *cli.Context, cfg framerunner.Config, reg prom.Registerer) error {
	app, err := startApp(ctx, cfg, reg)
	if err != nil {
		return err
	}
	defer app.Stop()

	nodes, err := app.Records().Wait(ctx)
	if err != nil {
		return cli.Exit(fmt.Sprintf("Failed: %v", err), 1)
	}

	for range c.Int("scroll-events") {
		if err := app.ScrollBy(terminal.DefaultScrollStep); err != nil {
			return cli.Exit(fmt.Sprintf("Failed: %v", err), 1)
		}
		time.Sleep(cfg.FrameInterval / 4)
	}
	for level := 1; level <= 3; level++ {
		_ = app.Resize(level)
	}
	// Let the last scheduled frame run.
	time.Sleep(2 * cfg.FrameInterval)
	if err := app.WaitIdle(ctx); err != nil {
		return cli.Exit(fmt.Sprintf("Failed: %v", err), 1)
	}

	stats := app.Stats()
	fmt.Fprintf(c.App.Writer, "movers:          %d\n", stats.Movers)
	fmt.Fprintf(c.App.Writer, "records:         %d (%d appended)\n", stats.Records, len(nodes))
	fmt.Fprintf(c.App.Writer, "scroll events:   %d\n", stats.Scroll.Events)
	fmt.Fprintf(c.App.Writer, "animation passes: %d (%d absorbed)\n", stats.Scroll.Frames, stats.Scroll.Absorbed)
	fmt.Fprintf(c.App.Writer, "frame average:   %v\n", stats.FrameAverage)
	return nil
}

func startApp(ctx context.Context, cfg framerunner.Config, reg prom.Registerer) (*framerunner.App, error) {
	app, err := framerunner.NewApp(cfg)
	if err != nil {
		return nil, cli.Exit(fmt.Sprintf("Failed: %v", err), 1)
	}
	if err := app.Start(ctx); err != nil {
		return nil, cli.Exit(fmt.Sprintf("Failed: %v", err), 1)
	}

	poller, err := obs.NewSnapshotPoller(reg, 250*time.Millisecond)
	if err != nil {
		app.Stop()
		return nil, cli.Exit(fmt.Sprintf("Failed: %v", err), 1)
	}
	poller.AddRunner("main", app.Main())
	poller.AddPool("worker", app.Worker())
	poller.AddScroll("page", app.Coalescer())
	poller.Start(ctx)
	go func() {
		<-ctx.Done()
		poller.Stop()
	}()
	return app, nil
}

func serveMetrics(addr string, reg *prom.Registry, logger core.Logger) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	server := &http.Server{Addr: addr, Handler: mux}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", core.F("addr", addr), core.F("error", err))
		}
	}()
	logger.Info("metrics endpoint up", core.F("url", "http://"+addr+"/metrics"))

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = server.Shutdown(ctx)
	}
}

// openLogger logs to path, to stderr when headless, and nowhere otherwise so
// the terminal stays clean.
func openLogger(path string, headless bool) (core.Logger, func(), error) {
	switch {
	case path != "":
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, err
		}
		log.SetOutput(f)
		return core.NewDefaultLogger(), func() { _ = f.Close() }, nil
	case headless:
		return core.NewDefaultLogger(), func() {}, nil
	default:
		return core.NewNoOpLogger(), func() {}, nil
	}
}
