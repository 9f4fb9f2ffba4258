package framerunner

import (
	"errors"
	"fmt"
	"time"

	"github.com/Swind/go-frame-runner/core"
	"github.com/Swind/go-frame-runner/diag"
	"github.com/Swind/go-frame-runner/pizza"
	"github.com/Swind/go-frame-runner/render"
	"github.com/Swind/go-frame-runner/scroll"
)

// ErrInvalidConfig is wrapped by every Config.Validate failure.
var ErrInvalidConfig = errors.New("invalid config")

const (
	DefaultViewportHeight     = 800.0
	DefaultDesiredRecordCount = 100
	DefaultReservedSlots      = 2
	DefaultWorkers            = 1
)

// Metrics is the union of the runner metrics and the page timings.
// observability/prometheus.MetricsExporter implements it.
type Metrics interface {
	core.Metrics
	diag.Metrics
}

// Painter draws the document onto a host surface. It is always called on
// the main goroutine.
type Painter interface {
	Paint(doc *render.Document)
}

// Config holds everything the App needs at startup.
type Config struct {
	// Geometry
	ViewportHeight float64
	Columns        int
	RowHeight      float64
	PhaseCount     int
	Amplitude      float64
	ScrollScale    float64
	MoverImage     string

	// Records
	DesiredRecordCount int
	ReservedSlots      int

	// Execution
	Workers       int
	FrameInterval time.Duration
	QueueSize     int

	// Diagnostics
	FrameWindow   int
	FrameLogEvery int

	// Insertion points
	MoverContainerID  string
	RecordContainerID string
	SizeLabelID       string

	// Optional collaborators. Nil values get defaults.
	Logger   core.Logger
	Metrics  Metrics
	Clock    core.FrameClock
	Document *render.Document
	Painter  Painter
	// NewGenerator builds the worker's generator for each request.
	NewGenerator func() *pizza.Generator
}

// DefaultConfig returns the page's stock configuration.
func DefaultConfig() Config {
	return Config{
		ViewportHeight:     DefaultViewportHeight,
		Columns:            scroll.DefaultColumns,
		RowHeight:          scroll.DefaultRowHeight,
		PhaseCount:         scroll.DefaultPhaseCount,
		Amplitude:          scroll.DefaultAmplitude,
		ScrollScale:        scroll.DefaultScrollScale,
		MoverImage:         "images/pizza_s.png",
		DesiredRecordCount: DefaultDesiredRecordCount,
		ReservedSlots:      DefaultReservedSlots,
		Workers:            DefaultWorkers,
		FrameInterval:      core.DefaultFrameInterval,
		FrameWindow:        diag.DefaultFrameWindow,
		FrameLogEvery:      diag.DefaultFrameLogEvery,
		MoverContainerID:   MoverContainerID,
		RecordContainerID:  RecordContainerID,
		SizeLabelID:        SizeLabelID,
	}
}

// Validate reports the first unusable setting.
func (c Config) Validate() error {
	switch {
	case c.ViewportHeight <= 0:
		return fmt.Errorf("%w: viewport height must be positive, got %v", ErrInvalidConfig, c.ViewportHeight)
	case c.Columns < 1:
		return fmt.Errorf("%w: columns must be positive, got %d", ErrInvalidConfig, c.Columns)
	case c.RowHeight <= 0:
		return fmt.Errorf("%w: row height must be positive, got %v", ErrInvalidConfig, c.RowHeight)
	case c.PhaseCount < 1:
		return fmt.Errorf("%w: phase count must be positive, got %d", ErrInvalidConfig, c.PhaseCount)
	case c.ScrollScale <= 0:
		return fmt.Errorf("%w: scroll scale must be positive, got %v", ErrInvalidConfig, c.ScrollScale)
	case c.DesiredRecordCount < 0:
		return fmt.Errorf("%w: record count must not be negative, got %d", ErrInvalidConfig, c.DesiredRecordCount)
	case c.ReservedSlots < 0:
		return fmt.Errorf("%w: reserved slots must not be negative, got %d", ErrInvalidConfig, c.ReservedSlots)
	case c.Document == nil && c.ReservedSlots < len(staticRecords):
		// The built-in page already shows pizza0..pizzaN-1.
		return fmt.Errorf("%w: reserved slots must cover the %d static records, got %d", ErrInvalidConfig, len(staticRecords), c.ReservedSlots)
	case c.Workers < 1:
		return fmt.Errorf("%w: workers must be positive, got %d", ErrInvalidConfig, c.Workers)
	case c.Clock == nil && c.FrameInterval <= 0:
		return fmt.Errorf("%w: frame interval must be positive, got %v", ErrInvalidConfig, c.FrameInterval)
	case c.MoverContainerID == "" || c.RecordContainerID == "" || c.SizeLabelID == "":
		return fmt.Errorf("%w: insertion point ids must not be empty", ErrInvalidConfig)
	}
	return nil
}

func (c Config) geometry() scroll.Geometry {
	return scroll.Geometry{
		Columns:    c.Columns,
		RowHeight:  c.RowHeight,
		PhaseCount: c.PhaseCount,
		Amplitude:  c.Amplitude,
		MoverImage: c.MoverImage,
	}
}

func (c Config) withDefaults() Config {
	if c.Logger == nil {
		c.Logger = core.NewNoOpLogger()
	}
	if c.Clock == nil {
		c.Clock = core.NewTickerFrameClock(c.FrameInterval)
	}
	if c.Document == nil {
		c.Document = NewPageDocument(c.ViewportHeight)
	}
	if c.NewGenerator == nil {
		c.NewGenerator = pizza.NewRandomGenerator
	}
	return c
}
