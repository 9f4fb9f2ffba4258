// Package framerunner runs a scroll-driven page on a Chromium-style threading
// model: a main runner that owns the render tree and dispatches animation
// frames, and a worker pool that generates content off the main goroutine.
//
// # Quick Start
//
//	app, err := framerunner.NewApp(framerunner.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	if err := app.Start(ctx); err != nil {
//		return err
//	}
//	defer app.Stop()
//
//	app.Scroll(600) // input event; the movers update on the next frame
//	nodes, err := app.Records().Wait(ctx)
//
// # Key Concepts
//
// MainThreadRunner: a dedicated goroutine playing the page's main thread.
// Input events, worker replies and animation frame callbacks all run on it,
// one at a time, so the document needs no locks.
//
// Coalescer: collapses a burst of scroll events into one animation pass per
// frame. The pass reads the scroll offset once, evaluates sin(t+i) for each
// of the phase slots and moves every mover with a composited transform.
//
// WorkerPool: background goroutines. Work crosses the boundary as encoded
// messages, so nothing is shared by reference with the main runner.
//
// Pipeline: posts one generation request to the worker and delivers the
// whole record batch back to the main runner exactly once.
//
// # Example
//
//	cfg := framerunner.DefaultConfig()
//	cfg.Clock = core.NewManualFrameClock()
//	cfg.NewGenerator = func() *pizza.Generator { return pizza.NewSeededGenerator(1) }
//
//	app, _ := framerunner.NewApp(cfg)
//	_ = app.Start(context.Background())
//	defer app.Stop()
//
// For more details, see https://github.com/Swind/go-frame-runner
package framerunner
