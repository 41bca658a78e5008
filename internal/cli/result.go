package cli

import (
	"fmt"
	"io"

	"github.com/agbru/prothcalc/internal/format"
	"github.com/agbru/prothcalc/internal/orchestration"
	"github.com/agbru/prothcalc/internal/ui"
)

// DisplayResult prints the verdict for opts.Number. Details or Verbose add
// the residue, in hex, and its distance from N.
func DisplayResult(res orchestration.TestResult, opts orchestration.PresentationOptions, out io.Writer) {
	n := opts.Number
	fmt.Fprintf(out, "\n--- Result ---\n")
	fmt.Fprintf(out, "N = %s%s%s (%d bits)\n", ui.ColorMagenta(), n, ui.ColorReset(), n.Bits())
	fmt.Fprintf(out, "Verdict: %s\n", ui.Badge(ui.VerdictFor(res.Result.Prime)))
	fmt.Fprintf(out, "Method: %s%s%s, test time %s%s%s",
		ui.ColorCyan(), res.Name, ui.ColorReset(),
		ui.ColorYellow(), format.FormatTestDuration(res.Result.Duration), ui.ColorReset())
	if per := format.FormatPerSquaring(res.Result.Duration, n.Bits()-1); per != "" && opts.Verbose {
		fmt.Fprintf(out, " (%s)", per)
	}
	fmt.Fprintln(out)

	if !opts.Details && !opts.Verbose {
		return
	}
	if res.Result.Residue == nil {
		return
	}
	hex := format.TruncateDigits(res.Result.Residue.Text(16), HexTruncationLimit, HexDisplayEdges)
	fmt.Fprintf(out, "Residue 3^((N-1)/2) mod N = 0x%s\n", hex)
	if res.Result.ResidueMinusN != nil {
		fmt.Fprintf(out, "Residue - N = %s\n", residueMinusN(res))
	}
}

// residueMinusN shows Residue-N in decimal when short, in hex otherwise.
func residueMinusN(res orchestration.TestResult) string {
	d := res.Result.ResidueMinusN
	if d.BitLen() <= 64 {
		return format.FormatNumberString(d.String())
	}
	sign := ""
	if d.Sign() < 0 {
		sign = "-"
	}
	mag := d.Text(16)
	if sign != "" {
		mag = mag[1:]
	}
	return sign + "0x" + format.TruncateDigits(mag, HexTruncationLimit, HexDisplayEdges)
}
