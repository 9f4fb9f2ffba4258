package framerunner

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Swind/go-frame-runner/core"
	"github.com/Swind/go-frame-runner/pizza"
	"github.com/Swind/go-frame-runner/render"
	"github.com/Swind/go-frame-runner/scroll"
)

type countingPainter struct {
	paints atomic.Int32
}

func (p *countingPainter) Paint(doc *render.Document) {
	p.paints.Add(1)
}

func newTestConfig(clock core.FrameClock) Config {
	cfg := DefaultConfig()
	cfg.ViewportHeight = 600
	cfg.Clock = clock
	cfg.NewGenerator = func() *pizza.Generator { return pizza.NewSeededGenerator(42) }
	return cfg
}

func startTestApp(t *testing.T, cfg Config) *App {
	t.Helper()
	app, err := NewApp(cfg)
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	if err := app.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	t.Cleanup(app.Stop)
	return app
}

func waitRecords(t *testing.T, app *App) []*render.Node {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	nodes, err := app.Records().Wait(ctx)
	if err != nil {
		t.Fatalf("records failed: %v", err)
	}
	return nodes
}

// TestApp_StartBuildsPage tests startup
// Main test items:
// 1. A 600px viewport yields 24 movers
// 2. The batch of 100 records materializes 98 nodes after the reserved slots
// 3. The painter sees the initial page and the delivery
func TestApp_StartBuildsPage(t *testing.T) {
	painter := &countingPainter{}
	cfg := newTestConfig(core.NewManualFrameClock())
	cfg.Painter = painter
	app := startTestApp(t, cfg)

	nodes := waitRecords(t, app)
	if len(nodes) != 98 {
		t.Fatalf("records = %d, want 98", len(nodes))
	}
	if nodes[0].ID != pizza.NodeID(2) {
		t.Fatalf("first generated node id = %q, want %q", nodes[0].ID, pizza.NodeID(2))
	}
	if err := app.WaitIdle(context.Background()); err != nil {
		t.Fatalf("WaitIdle failed: %v", err)
	}

	stats := app.Stats()
	if stats.Movers != 24 || stats.Records != 98 {
		t.Fatalf("stats = %+v, want 24 movers and 98 records", stats)
	}
	if painter.paints.Load() < 2 {
		t.Fatalf("paints = %d, want at least 2", painter.paints.Load())
	}

	err := app.Do(context.Background(), func(doc *render.Document) {
		if got := len(doc.GetElementsByClassName(pizza.ContainerClass)); got != 100 {
			t.Errorf("record containers = %d, want 100", got)
		}
	})
	if err != nil {
		t.Fatalf("Do failed: %v", err)
	}
}

// TestApp_ScrollBurstCoalesces tests scroll handling end to end
// Main test items:
// 1. A burst of scroll events before a tick yields one animation pass
// 2. Movers are translated by the offset for the final scroll position
// 3. The animation pass is recorded by the diagnostics
func TestApp_ScrollBurstCoalesces(t *testing.T) {
	clock := core.NewManualFrameClock()
	app := startTestApp(t, newTestConfig(clock))

	for range 10 {
		if err := app.ScrollBy(125); err != nil {
			t.Fatalf("ScrollBy failed: %v", err)
		}
	}
	if err := app.WaitIdle(context.Background()); err != nil {
		t.Fatalf("WaitIdle failed: %v", err)
	}
	if !clock.Tick(time.Now()) {
		t.Fatal("clock stopped")
	}
	if err := app.WaitIdle(context.Background()); err != nil {
		t.Fatalf("WaitIdle failed: %v", err)
	}

	stats := app.Stats()
	if want := (scroll.CoalescerStats{Events: 10, Frames: 1, Absorbed: 9}); stats.Scroll != want {
		t.Fatalf("scroll stats = %+v, want %+v", stats.Scroll, want)
	}
	if _, n, ok := app.Recorder().FrameAverage(); !ok || n != 1 {
		t.Fatalf("frame samples = %d, want 1", n)
	}

	err := app.Do(context.Background(), func(doc *render.Document) {
		if doc.ScrollTop() != 1250 {
			t.Errorf("ScrollTop = %v, want 1250", doc.ScrollTop())
		}
		mover := doc.GetElementsByClassName(scroll.MoverClass)[3]
		tr, _ := mover.Transform()
		phases := scroll.BuildPhaseTable(nil, 1, scroll.DefaultPhaseCount)
		if want := phases.Offset(3, scroll.DefaultAmplitude); tr.TranslateX != want {
			t.Errorf("mover 3 offset = %v, want %v", tr.TranslateX, want)
		}
	})
	if err != nil {
		t.Fatalf("Do failed: %v", err)
	}
}

// TestApp_Resize tests the size slider path
func TestApp_Resize(t *testing.T) {
	app := startTestApp(t, newTestConfig(core.NewManualFrameClock()))
	waitRecords(t, app)

	if err := app.Resize(3); err != nil {
		t.Fatalf("Resize failed: %v", err)
	}
	if err := app.Resize(7); err != nil {
		t.Fatalf("Resize failed: %v", err)
	}

	err := app.Do(context.Background(), func(doc *render.Document) {
		if got := doc.GetElementByID(SizeLabelID).Text(); got != "Large" {
			t.Errorf("label = %q, want Large", got)
		}
		for _, c := range doc.GetElementsByClassName(pizza.ContainerClass) {
			if c.Style("width") != "50%" {
				t.Errorf("container %s width = %q, want 50%%", c.ID, c.Style("width"))
				break
			}
		}
	})
	if err != nil {
		t.Fatalf("Do failed: %v", err)
	}
}

// TestApp_MissingInsertionPoint tests that startup fails before building anything
func TestApp_MissingInsertionPoint(t *testing.T) {
	cfg := newTestConfig(core.NewManualFrameClock())
	cfg.Document = render.NewDocument(600)

	app, err := NewApp(cfg)
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	err = app.Start(context.Background())
	if !errors.Is(err, render.ErrMissingInsertionPoint) {
		t.Fatalf("Start err = %v, want ErrMissingInsertionPoint", err)
	}
	if app.Main() != nil {
		t.Fatal("runner created despite missing markup")
	}
	if err := app.ScrollBy(10); !errors.Is(err, ErrNotStarted) {
		t.Fatalf("ScrollBy err = %v, want ErrNotStarted", err)
	}
}

// TestApp_Lifecycle tests start and stop guards
func TestApp_Lifecycle(t *testing.T) {
	app := startTestApp(t, newTestConfig(core.NewManualFrameClock()))

	if err := app.Start(context.Background()); !errors.Is(err, ErrAlreadyStarted) {
		t.Fatalf("second Start err = %v, want ErrAlreadyStarted", err)
	}
	if err := app.StartGeneration(); !errors.Is(err, ErrGenerationStarted) {
		t.Fatalf("StartGeneration err = %v, want ErrGenerationStarted", err)
	}

	app.Stop()
	app.Stop()
	if err := app.ScrollBy(10); !errors.Is(err, core.ErrRunnerClosed) {
		t.Fatalf("ScrollBy after Stop err = %v, want ErrRunnerClosed", err)
	}
	if app.Worker().IsRunning() {
		t.Fatal("worker still running after Stop")
	}
}

func TestConfig_Validate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}

	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"viewport", func(c *Config) { c.ViewportHeight = 0 }},
		{"columns", func(c *Config) { c.Columns = 0 }},
		{"row height", func(c *Config) { c.RowHeight = -1 }},
		{"phases", func(c *Config) { c.PhaseCount = 0 }},
		{"scroll scale", func(c *Config) { c.ScrollScale = 0 }},
		{"records", func(c *Config) { c.DesiredRecordCount = -1 }},
		{"reserved", func(c *Config) { c.ReservedSlots = -1 }},
		{"reserved below static records", func(c *Config) { c.ReservedSlots = 0 }},
		{"workers", func(c *Config) { c.Workers = 0 }},
		{"frame interval", func(c *Config) { c.FrameInterval = 0 }},
		{"insertion point", func(c *Config) { c.SizeLabelID = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("Validate err = %v, want ErrInvalidConfig", err)
			}
			if _, err := NewApp(cfg); !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("NewApp err = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

// TestApp_RecordIDsUnique tests that generated records never reuse the ids of
// the static entries
// Main test items:
// 1. The built-in page rejects fewer reserved slots than static records
// 2. With a custom document, reserved 0 is accepted
// 3. Every record container on the default page has a distinct id
func TestApp_RecordIDsUnique(t *testing.T) {
	cfg := newTestConfig(core.NewManualFrameClock())
	cfg.ReservedSlots = 1
	if _, err := NewApp(cfg); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("NewApp err = %v, want ErrInvalidConfig", err)
	}

	custom := render.NewDocument(600)
	for _, id := range []string{MoverContainerID, RecordContainerID, SizeLabelID} {
		n := render.NewNode("div")
		n.ID = id
		custom.Body().AppendChild(n)
	}
	cfg.ReservedSlots = 0
	cfg.Document = custom
	if err := cfg.Validate(); err != nil {
		t.Fatalf("custom document with no reserved slots rejected: %v", err)
	}

	app := startTestApp(t, newTestConfig(core.NewManualFrameClock()))
	waitRecords(t, app)
	err := app.Do(context.Background(), func(doc *render.Document) {
		seen := make(map[string]int)
		for _, c := range doc.GetElementsByClassName(pizza.ContainerClass) {
			seen[c.ID]++
		}
		if len(seen) != 100 {
			t.Errorf("distinct record ids = %d, want 100", len(seen))
		}
		for id, n := range seen {
			if n > 1 {
				t.Errorf("duplicate id %s x%d", id, n)
			}
		}
	})
	if err != nil {
		t.Fatalf("Do failed: %v", err)
	}
}
