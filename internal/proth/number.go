package proth

import (
	"fmt"
	"math/big"
	"math/bits"
	"regexp"
	"strconv"
	"strings"

	"fortio.org/safecast"

	apperrors "github.com/agbru/prothcalc/internal/errors"
)

// Number is the Proth candidate T*2^E+1.
type Number struct {
	T uint32
	E uint32
}

// prothPattern accepts "T*2^E+1" with "x" or "." as the multiplication sign
// and "e" as the exponent marker.
var prothPattern = regexp.MustCompile(`^(\d+)\s*[*x.]\s*2\s*[\^e]\s*(\d+)\s*\+\s*1$`)

// Parse reads a Proth number such as "943*2^3442990+1". Surrounding
// whitespace is ignored. T and E must fit in 32 bits, T must be positive
// and E at least 1.
func Parse(s string) (Number, error) {
	trimmed := strings.TrimSpace(s)
	m := prothPattern.FindStringSubmatch(trimmed)
	if m == nil {
		return Number{}, apperrors.ValidationError{Field: "number", Message: fmt.Sprintf("%q is not of the form T*2^E+1", s)}
	}
	t, err := parseUint32(m[1])
	if err != nil {
		return Number{}, apperrors.ValidationError{Field: "number", Message: fmt.Sprintf("multiplier %s: %v", m[1], err)}
	}
	e, err := parseUint32(m[2])
	if err != nil {
		return Number{}, apperrors.ValidationError{Field: "number", Message: fmt.Sprintf("exponent %s: %v", m[2], err)}
	}
	n := Number{T: t, E: e}
	if err := n.Validate(); err != nil {
		return Number{}, err
	}
	return n, nil
}

func parseUint32(s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, err
	}
	return safecast.Conv[uint32](v)
}

// Validate rejects numbers for which (N-1)/2 is not a positive integer.
func (n Number) Validate() error {
	if n.T == 0 {
		return apperrors.ValidationError{Field: "number", Message: "multiplier must be positive"}
	}
	if n.E == 0 {
		return apperrors.ValidationError{Field: "number", Message: "exponent must be at least 1"}
	}
	return nil
}

// String renders the number in the notation Parse accepts.
func (n Number) String() string {
	return fmt.Sprintf("%d*2^%d+1", n.T, n.E)
}

// Int returns N.
func (n Number) Int() *big.Int {
	v := new(big.Int).SetUint64(uint64(n.T))
	v.Lsh(v, uint(n.E))
	return v.Add(v, big.NewInt(1))
}

// HalfExponent returns (N-1)/2 = T*2^(E-1), the exponent of the test.
func (n Number) HalfExponent() *big.Int {
	v := new(big.Int).SetUint64(uint64(n.T))
	return v.Lsh(v, uint(n.E-1))
}

// Bits returns the bit length of N.
func (n Number) Bits() int {
	// The +1 lands in the zero low bits of T*2^E, so it never carries.
	return bits.Len32(n.T) + int(n.E)
}
