package calibration

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"time"

	"github.com/agbru/prothcalc/internal/bignum"
	"github.com/agbru/prothcalc/internal/memory"
	"github.com/agbru/prothcalc/internal/ssmul"
)

// calibrationResult is the timing of one candidate threshold.
type calibrationResult struct {
	Threshold int
	Duration  time.Duration
	Levels    int
	Err       error
}

// DefaultRepetitions is how many squarings are timed per candidate.
const DefaultRepetitions = 32

// Calibrate times reps engine squarings of a bits-wide modulus under each
// candidate threshold and returns the results with the fastest threshold.
func Calibrate(ctx context.Context, bits int, candidates []int, reps int) ([]calibrationResult, int, error) {
	if len(candidates) == 0 {
		return nil, 0, fmt.Errorf("calibration: no candidate thresholds")
	}
	w := bignum.DivUp(bits, bignum.LimbSize)
	operand := bignum.NewBig(w)
	rng := rand.New(rand.NewPCG(uint64(bits), 0x9e3779b97f4a7c15))
	for i := range w {
		operand.SetLimb(i, rng.Uint64())
	}
	pBits := memory.EngineProductBits(bits)

	results := make([]calibrationResult, 0, len(candidates))
	best, bestDur := 0, time.Duration(0)
	for _, th := range candidates {
		if err := ctx.Err(); err != nil {
			return results, best, err
		}
		res := timeThreshold(operand, pBits, th, reps)
		results = append(results, res)
		if res.Err == nil && (best == 0 || res.Duration < bestDur) {
			best, bestDur = th, res.Duration
		}
	}
	if best == 0 {
		return results, 0, fmt.Errorf("calibration: every candidate failed")
	}
	return results, best, nil
}

func timeThreshold(operand bignum.Big, pBits, threshold, reps int) calibrationResult {
	chain, err := ssmul.RecursiveSetup(pBits, ssmul.WithThreshold(threshold))
	if err != nil {
		return calibrationResult{Threshold: threshold, Err: err}
	}
	defer chain.Close()

	x := bignum.NewBig(pBits / bignum.LimbSize)
	start := time.Now()
	for range reps {
		x.Zero()
		bignum.PodCopy(x, operand)
		chain.Square(x.VastMut())
	}
	return calibrationResult{Threshold: threshold, Duration: time.Since(start), Levels: chain.Levels()}
}

// RunCalibration calibrates for a bits-wide modulus, prints the table and
// saves the profile to profilePath when it is set. It returns the optimal
// threshold.
func RunCalibration(ctx context.Context, out io.Writer, bits int, profilePath string) (int, error) {
	if bits <= 0 {
		bits = DefaultCalibrationBits
	}
	fmt.Fprintf(out, "--- Calibration ---\nTiming %d squarings of a %d-bit modulus per threshold.\n", DefaultRepetitions, bits)

	start := time.Now()
	results, best, err := Calibrate(ctx, bits, GenerateThresholds(bits), DefaultRepetitions)
	printCalibrationResults(out, results, best)
	if err != nil {
		return 0, err
	}
	printCalibrationOutput(out, best, bits)

	if profilePath != "" {
		profile := NewProfile()
		profile.OptimalThreshold = best
		profile.CalibrationBits = bits
		profile.CalibrationTime = time.Since(start).Round(time.Millisecond).String()
		if err := profile.SaveProfile(profilePath); err != nil {
			return best, err
		}
		fmt.Fprintf(out, "Profile saved to %s\n", profilePath)
	}
	return best, nil
}
