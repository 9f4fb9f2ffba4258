package scroll

import "math"

const (
	DefaultPhaseCount    = 5
	DefaultScrollScale   = 1250.0
	DefaultAmplitude     = 100.0
	DefaultColumns       = 8
	DefaultRowHeight     = 256.0
	DefaultMoverHeightPx = 100.0
	DefaultMoverWidthPx  = 73.333
)

// PhaseTable holds sin(t+i) for every phase slot i. Movers sharing a slot
// share one sine evaluation per frame.
type PhaseTable []float64

// BuildPhaseTable fills dst (reallocating only if it is too short) with
// sin(t + i) for i in [0, count).
func BuildPhaseTable(dst PhaseTable, t float64, count int) PhaseTable {
	if cap(dst) < count {
		dst = make(PhaseTable, count)
	}
	dst = dst[:count]
	for i := range dst {
		dst[i] = math.Sin(t + float64(i))
	}
	return dst
}

// ScrollScalar maps a scroll offset to the phase argument t.
func ScrollScalar(scrollTop, scale float64) float64 {
	if scale == 0 {
		scale = DefaultScrollScale
	}
	return scrollTop / scale
}

// Offset is the horizontal displacement of a mover in slot.
func (p PhaseTable) Offset(slot int, amplitude float64) float64 {
	return amplitude * p[slot]
}
