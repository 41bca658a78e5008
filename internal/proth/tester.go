//go:generate mockgen -source=tester.go -destination=mocks/mock_tester.go -package=mocks

package proth

import (
	"context"
	"math/big"
	"time"
)

// Base is the witness used by every tester. Proth's theorem is conclusive
// with it whenever 3 is a quadratic non-residue modulo N.
const Base = 3

// Result is the outcome of one primality test.
type Result struct {
	// Prime reports whether Base^((N-1)/2) = -1 mod N.
	Prime bool
	// Residue is Base^((N-1)/2) mod N.
	Residue *big.Int
	// ResidueMinusN is Residue-N, which is -1 exactly when Prime is set.
	ResidueMinusN *big.Int
	// Duration is the wall time of the exponentiation.
	Duration time.Duration
}

// NewResult derives the verdict from a residue.
func NewResult(n Number, residue *big.Int, d time.Duration) Result {
	diff := new(big.Int).Sub(residue, n.Int())
	return Result{
		Prime:         diff.Cmp(big.NewInt(-1)) == 0,
		Residue:       residue,
		ResidueMinusN: diff,
		Duration:      d,
	}
}

// Tester runs Proth's test on a number. Implementations report progress
// in [0, 1] on the channel, tagged with idx, and stop early when ctx is
// done.
type Tester interface {
	// Name returns the method name used on the command line.
	Name() string
	// Test computes Base^((N-1)/2) mod N.
	Test(ctx context.Context, n Number, progress chan<- ProgressUpdate, idx int) (Result, error)
}
