package format

import (
	"fmt"
	"time"
)

// FormatTestDuration formats the wall time of a primality test or a
// calibration trial. Sub-millisecond runs, typical of small Proth numbers,
// print in microseconds; runs under a second print in milliseconds. Longer
// runs are rounded to the millisecond.
func FormatTestDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return fmt.Sprintf("%dµs", d.Microseconds())
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return d.Round(time.Millisecond).String()
}

// FormatPerSquaring spreads d over the modular squarings of an
// exponentiation and formats the mean cost of one. It returns "" when
// there were none.
func FormatPerSquaring(d time.Duration, squarings int) string {
	if squarings <= 0 {
		return ""
	}
	per := d / time.Duration(squarings)
	if per < time.Microsecond {
		return fmt.Sprintf("%dns/sq", per.Nanoseconds())
	}
	return FormatTestDuration(per) + "/sq"
}
