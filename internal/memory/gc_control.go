package memory

import (
	"math"
	"runtime"
	"runtime/debug"

	"github.com/rs/zerolog"
)

// GCMode controls the garbage collector while a test runs.
type GCMode string

const (
	GCModeAuto       GCMode = "auto"
	GCModeAggressive GCMode = "aggressive"
	GCModeDisabled   GCMode = "disabled"
)

// GCAutoThreshold is the smallest modulus, in bits, for which auto mode
// suspends the collector. Below it a test allocates too little to matter.
const GCAutoThreshold = 100_000

// ValidGCMode reports whether s names a GCMode.
func ValidGCMode(s string) bool {
	switch GCMode(s) {
	case GCModeAuto, GCModeAggressive, GCModeDisabled:
		return true
	}
	return false
}

// GCController suspends the collector during an exponentiation and
// restores it afterwards. The engine preallocates its workspace, so the
// loop itself produces little garbage.
type GCController struct {
	mode              GCMode
	originalGCPercent int
	active            bool
	logger            zerolog.Logger
	startStats        runtime.MemStats
	endStats          runtime.MemStats
}

// GCStats holds the collector activity between Begin and End.
type GCStats struct {
	HeapAlloc    uint64
	TotalAlloc   uint64
	NumGC        uint32
	PauseTotalNs uint64
}

// NewGCController creates a controller for a modulus of bits bits.
func NewGCController(mode string, bits int) *GCController {
	gc := &GCController{mode: GCMode(mode), logger: zerolog.Nop()}
	switch gc.mode {
	case GCModeAggressive:
		gc.active = true
	case GCModeAuto:
		gc.active = bits >= GCAutoThreshold
	default:
		gc.active = false
	}
	return gc
}

// SetLogger configures the logger for GC transitions.
func (gc *GCController) SetLogger(l zerolog.Logger) {
	gc.logger = l
}

// Active reports whether Begin will suspend the collector.
func (gc *GCController) Active() bool { return gc.active }

// Begin disables GC if the controller is active. A soft memory limit of
// three times the current footprint stays in place as an OOM guard.
func (gc *GCController) Begin() {
	if !gc.active {
		return
	}
	runtime.ReadMemStats(&gc.startStats)
	gc.originalGCPercent = debug.SetGCPercent(-1)
	if gc.startStats.Sys > 0 {
		limit := int64(float64(gc.startStats.Sys) * 3)
		if limit > 0 {
			debug.SetMemoryLimit(limit)
		}
	}
	gc.logger.Debug().
		Str("mode", string(gc.mode)).
		Uint64("heap_alloc_bytes", gc.startStats.HeapAlloc).
		Msg("gc disabled")
}

// End restores the original GC settings and triggers a collection.
func (gc *GCController) End() {
	if !gc.active {
		return
	}
	runtime.ReadMemStats(&gc.endStats)
	debug.SetGCPercent(gc.originalGCPercent)
	debug.SetMemoryLimit(math.MaxInt64)
	runtime.GC()
	gc.logger.Debug().
		Str("mode", string(gc.mode)).
		Uint64("heap_alloc_bytes", gc.endStats.HeapAlloc).
		Uint64("total_alloc_bytes", gc.endStats.TotalAlloc-gc.startStats.TotalAlloc).
		Uint32("gc_cycles", gc.endStats.NumGC-gc.startStats.NumGC).
		Msg("gc re-enabled")
}

// Stats returns the delta between Begin and End.
func (gc *GCController) Stats() GCStats {
	return GCStats{
		HeapAlloc:    gc.endStats.HeapAlloc,
		TotalAlloc:   gc.endStats.TotalAlloc - gc.startStats.TotalAlloc,
		NumGC:        gc.endStats.NumGC - gc.startStats.NumGC,
		PauseTotalNs: gc.endStats.PauseTotalNs - gc.startStats.PauseTotalNs,
	}
}
