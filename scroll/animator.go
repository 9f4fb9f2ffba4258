package scroll

import (
	"context"
	"time"

	"github.com/Swind/go-frame-runner/render"
)

// ScrollReader exposes the current scroll offset. *render.Document implements it.
type ScrollReader interface {
	ScrollTop() float64
}

// FrameObserver receives the duration of every animation pass.
type FrameObserver interface {
	ObserveFrame(d time.Duration)
}

// AnimatorConfig tunes the drift.
type AnimatorConfig struct {
	ScrollScale float64
	Observer    FrameObserver
	// AfterFrame runs at the end of every pass, e.g. to repaint a host surface.
	AfterFrame func()
}

// Animator is the per-frame update of the mover grid.
type Animator struct {
	registry *Registry
	scroll   ScrollReader
	cfg      AnimatorConfig

	phases PhaseTable
	lastT  float64
}

// NewAnimator creates an animator over registry.
func NewAnimator(registry *Registry, scroll ScrollReader, cfg AnimatorConfig) *Animator {
	if cfg.ScrollScale == 0 {
		cfg.ScrollScale = DefaultScrollScale
	}
	return &Animator{registry: registry, scroll: scroll, cfg: cfg}
}

// UpdatePositions is the frame body: read the scroll offset once, build the
// phase table once, then translate every mover. It matches core.FrameCallback.
func (a *Animator) UpdatePositions(ctx context.Context, frameTime time.Time) {
	if a.registry.Len() == 0 {
		return
	}
	start := time.Now()

	g := a.registry.geometry
	a.lastT = ScrollScalar(a.scroll.ScrollTop(), a.cfg.ScrollScale)
	a.phases = BuildPhaseTable(a.phases, a.lastT, g.PhaseCount)

	phases := a.phases
	a.registry.each(func(e *AnimatedElement) {
		e.node.SetTransform(render.Transform{TranslateX: phases.Offset(e.PhaseSlot, g.Amplitude)})
	})

	if a.cfg.Observer != nil {
		a.cfg.Observer.ObserveFrame(time.Since(start))
	}
	if a.cfg.AfterFrame != nil {
		a.cfg.AfterFrame()
	}
}

// Phases returns a copy of the table built by the last pass.
func (a *Animator) Phases() PhaseTable {
	out := make(PhaseTable, len(a.phases))
	copy(out, a.phases)
	return out
}

// LastScalar is the t used by the last pass.
func (a *Animator) LastScalar() float64 {
	return a.lastT
}
