package cli

import (
	"fmt"
	"io"
	"runtime"

	"github.com/agbru/prothcalc/internal/config"
	"github.com/agbru/prothcalc/internal/memory"
	"github.com/agbru/prothcalc/internal/metrics"
	"github.com/agbru/prothcalc/internal/proth"
	"github.com/agbru/prothcalc/internal/sysmon"
	"github.com/agbru/prothcalc/internal/ui"
)

// PrintExecutionConfig shows the number under test, the timeout, the host
// and the engine settings.
func PrintExecutionConfig(cfg config.AppConfig, n proth.Number, out io.Writer) {
	fmt.Fprintf(out, "--- Execution Configuration ---\n")
	fmt.Fprintf(out, "Testing %sN = %s%s (%d bits) with a timeout of %s%s%s.\n",
		ui.ColorMagenta(), n, ui.ColorReset(), n.Bits(), ui.ColorYellow(), cfg.Timeout, ui.ColorReset())
	fmt.Fprintf(out, "Environment: %s%d%s logical processors, Go %s%s%s, %s%s%s.\n",
		ui.ColorCyan(), runtime.NumCPU(), ui.ColorReset(),
		ui.ColorCyan(), runtime.Version(), ui.ColorReset(),
		ui.ColorCyan(), sysmon.FeatureLine(), ui.ColorReset())
	fmt.Fprintf(out, "Engine: schoolbook up to %s%d%s bits, modulus limit %s%d%s bits, GC %s%s%s.\n",
		ui.ColorCyan(), cfg.Threshold, ui.ColorReset(),
		ui.ColorCyan(), cfg.MaxEngineBits, ui.ColorReset(),
		ui.ColorCyan(), cfg.GCMode, ui.ColorReset())
}

// PrintExecutionMode announces a single run or a comparison.
func PrintExecutionMode(testers []proth.Tester, out io.Writer) {
	var modeDesc string
	if len(testers) > 1 {
		modeDesc = fmt.Sprintf("Parallel comparison of %d methods", len(testers))
	} else {
		modeDesc = fmt.Sprintf("Single test with the %s%s%s method",
			ui.ColorGreen(), testers[0].Name(), ui.ColorReset())
	}
	fmt.Fprintf(out, "Execution mode: %s.\n", modeDesc)
	fmt.Fprintf(out, "\n--- Starting Execution ---\n")
}

// PrintEnginePlan shows the estimated engine workspace and, once known,
// the multiplier chain.
func PrintEnginePlan(est memory.EngineEstimate, chain string, out io.Writer) {
	fmt.Fprintf(out, "Engine workspace: %s%s%s over %d levels",
		ui.ColorCyan(), memory.FormatBytes(est.TotalBytes()), ui.ColorReset(), est.Levels)
	if chain != "" {
		fmt.Fprintf(out, ": %s", chain)
	}
	fmt.Fprintln(out)
}

// DisplaySystemStats prints a system sample and the process memory
// statistics.
func DisplaySystemStats(s sysmon.Stats, m metrics.MemorySnapshot, out io.Writer) {
	fmt.Fprintf(out, "\nSystem:\n")
	fmt.Fprintf(out, "  CPU usage:       %.1f%%\n", s.CPUPercent)
	fmt.Fprintf(out, "  Memory usage:    %.1f%% of %s\n", s.MemPercent, memory.FormatBytes(s.MemTotal))
	fmt.Fprintf(out, "Process:\n")
	fmt.Fprintf(out, "  Heap in use:     %s\n", memory.FormatBytes(m.HeapAlloc))
	fmt.Fprintf(out, "  Obtained:        %s\n", memory.FormatBytes(m.Sys))
	fmt.Fprintf(out, "  GC cycles:       %d\n", m.NumGC)
	if m.PauseTotalNs > 0 {
		fmt.Fprintf(out, "  GC pause total:  %.2fms\n", float64(m.PauseTotalNs)/1e6)
	} else {
		fmt.Fprintf(out, "  GC pause total:  0ms\n")
	}
}
