package bignum

import (
	"fmt"
	"strconv"
	"strings"

	apperrors "github.com/agbru/prothcalc/internal/errors"
)

const hexDigitsPerLimb = LimbSize / 4

// ToHex renders p in uppercase hexadecimal without a prefix. The most
// significant limb is unpadded, every lower limb takes exactly 16 digits,
// and zero renders as "0".
func ToHex(p Pod) string {
	m := MinLimbs(p)
	if m == 0 {
		return "0"
	}
	var sb strings.Builder
	sb.Grow(m * hexDigitsPerLimb)
	sb.WriteString(strings.ToUpper(strconv.FormatUint(p.GetLimb(m-1), 16)))
	for i := m - 2; i >= 0; i-- {
		fmt.Fprintf(&sb, "%016X", p.GetLimb(i))
	}
	return sb.String()
}

// PodAssignHex decodes s into dest, which is cleared first. Digits are
// consumed from the least significant end, 16 per limb; leading zeros never
// count against capacity.
func PodAssignHex(dest PodMut, s string) error {
	if s == "" {
		return apperrors.ParseBigError{Input: s, Pos: -1, Reason: "empty input"}
	}
	if s[0] == '-' {
		return apperrors.ParseBigError{Input: s, Pos: 0, Reason: "negative values are not representable"}
	}
	PodZero(dest)
	for k := 0; k < len(s); k++ {
		pos := len(s) - 1 - k
		d, ok := hexValue(s[pos])
		if !ok {
			return apperrors.ParseBigError{Input: s, Pos: pos, Reason: fmt.Sprintf("invalid hex digit %q", s[pos])}
		}
		if d == 0 {
			continue
		}
		li := k / hexDigitsPerLimb
		if li >= dest.Limbs() {
			return apperrors.ParseBigError{Input: s, Pos: -1, Reason: fmt.Sprintf("does not fit in %d limbs", dest.Limbs())}
		}
		dest.SetLimb(li, dest.GetLimb(li)|d<<(4*(k%hexDigitsPerLimb)))
	}
	return nil
}

func hexValue(c byte) (Limb, bool) {
	switch {
	case '0' <= c && c <= '9':
		return Limb(c - '0'), true
	case 'a' <= c && c <= 'f':
		return Limb(c-'a') + 10, true
	case 'A' <= c && c <= 'F':
		return Limb(c-'A') + 10, true
	}
	return 0, false
}
