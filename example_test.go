package framerunner_test

import (
	"context"
	"fmt"
	"time"

	framerunner "github.com/Swind/go-frame-runner"
	"github.com/Swind/go-frame-runner/core"
	"github.com/Swind/go-frame-runner/pizza"
)

// Example drives a page with a manual frame clock: the records arrive from
// the worker, then a burst of scroll events is folded into one frame.
func Example() {
	clock := core.NewManualFrameClock()

	cfg := framerunner.DefaultConfig()
	cfg.ViewportHeight = 600
	cfg.Clock = clock
	cfg.NewGenerator = func() *pizza.Generator { return pizza.NewSeededGenerator(1) }

	app, err := framerunner.NewApp(cfg)
	if err != nil {
		panic(err)
	}
	ctx := context.Background()
	if err := app.Start(ctx); err != nil {
		panic(err)
	}
	defer app.Stop()

	records, err := app.Records().Wait(ctx)
	if err != nil {
		panic(err)
	}

	for range 5 {
		app.ScrollBy(40)
	}
	app.WaitIdle(ctx)
	clock.Tick(time.Now())
	app.WaitIdle(ctx)

	stats := app.Stats()
	fmt.Println("movers:", stats.Movers)
	fmt.Println("records:", len(records))
	fmt.Println("scroll events:", stats.Scroll.Events)
	fmt.Println("animation frames:", stats.Scroll.Frames)

	// Output:
	// movers: 24
	// records: 98
	// scroll events: 5
	// animation frames: 1
}
