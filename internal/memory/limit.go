package memory

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/agbru/prothcalc/internal/bignum"
	"github.com/agbru/prothcalc/internal/ssmul"
)

// ParseMemoryLimit parses sizes such as "512M", "2GB" or "1048576". Units
// are binary: K is 1024 bytes.
func ParseMemoryLimit(s string) (uint64, error) {
	v := strings.ToUpper(strings.TrimSpace(s))
	if v == "" {
		return 0, fmt.Errorf("empty memory limit")
	}
	v = strings.TrimSuffix(v, "B")
	mult := uint64(1)
	switch {
	case strings.HasSuffix(v, "K"):
		mult, v = 1<<10, strings.TrimSuffix(v, "K")
	case strings.HasSuffix(v, "M"):
		mult, v = 1<<20, strings.TrimSuffix(v, "M")
	case strings.HasSuffix(v, "G"):
		mult, v = 1<<30, strings.TrimSuffix(v, "G")
	case strings.HasSuffix(v, "T"):
		mult, v = 1<<40, strings.TrimSuffix(v, "T")
	}
	n, err := strconv.ParseUint(strings.TrimSpace(v), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid memory limit %q: %w", s, err)
	}
	if n > ^uint64(0)/mult {
		return 0, fmt.Errorf("memory limit %q overflows", s)
	}
	return n * mult, nil
}

// EngineEstimate breaks down the memory the engine tester needs.
type EngineEstimate struct {
	// ChainBytes is the multiplier workspace.
	ChainBytes uint64
	// BufferBytes covers the modulus, the Barrett constant, the
	// accumulator and the two double-width product buffers.
	BufferBytes uint64
	// Levels is the depth of the multiplier chain.
	Levels int
}

// TotalBytes returns the whole estimate.
func (e EngineEstimate) TotalBytes() uint64 {
	return e.ChainBytes + e.BufferBytes
}

// EstimateEngine plans, without allocating, the engine tester's memory for
// a modulus of bits bits.
func EstimateEngine(bits, threshold int) (EngineEstimate, error) {
	w := bignum.DivUp(bits, bignum.LimbSize)
	levels, limbs, err := ssmul.PlanChain(EngineProductBits(bits), ssmul.WithThreshold(threshold))
	if err != nil {
		return EngineEstimate{}, err
	}
	return EngineEstimate{
		ChainBytes:  uint64(limbs) * 8,
		BufferBytes: uint64(w+(w+1)+w+2*(2*w+2)) * 8,
		Levels:      len(levels),
	}, nil
}

// EngineProductBits is the widest product a Barrett step needs for a
// modulus of bits bits: the (w+1)-limb quotient estimate times the
// (w+1)-limb constant.
func EngineProductBits(bits int) int {
	w := bignum.DivUp(bits, bignum.LimbSize)
	return bignum.LimbSize * (2*w + 2)
}

// FormatBytes renders n with a binary unit.
func FormatBytes(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := uint64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
