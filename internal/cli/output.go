package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/agbru/prothcalc/internal/orchestration"
	"github.com/agbru/prothcalc/internal/proth"
	"github.com/agbru/prothcalc/internal/ui"
)

// OutputConfig controls how the final result is emitted.
type OutputConfig struct {
	// OutputFile is the path to save the result to; empty disables it.
	OutputFile string
	// Quiet prints only the one-line verdict.
	Quiet bool
	// Verbose adds the residue to the on-screen output.
	Verbose bool
}

// WriteResultToFile writes the result with a commented header. Missing
// parent directories are created.
//
// Parameters:
//   - res: The tester result to save.
//   - n: The tested number.
//   - config: Output configuration; nothing is written if OutputFile is
//     empty.
//
// Returns:
//   - error: An error if the file cannot be written.
func WriteResultToFile(res orchestration.TestResult, n proth.Number, config OutputConfig) error {
	if config.OutputFile == "" {
		return nil
	}
	if dir := filepath.Dir(config.OutputFile); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(config.OutputFile)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	fmt.Fprintf(file, "# Proth Test Result\n")
	fmt.Fprintf(file, "# Generated: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(file, "# Method: %s\n", res.Name)
	fmt.Fprintf(file, "# Duration: %s\n", res.Duration)
	fmt.Fprintf(file, "# Number: %s\n", n)
	fmt.Fprintf(file, "# Bits: %d\n", n.Bits())
	fmt.Fprintf(file, "# Base: %d\n", proth.Base)
	fmt.Fprintf(file, "\n")
	fmt.Fprintf(file, "%s\n", FormatQuietResult(n, res.Result))
	if res.Result.Residue != nil {
		fmt.Fprintf(file, "residue = 0x%s\n", res.Result.Residue.Text(16))
	}
	return file.Close()
}

// FormatQuietResult formats the verdict on one line, for scripting.
func FormatQuietResult(n proth.Number, r proth.Result) string {
	if r.Prime {
		return fmt.Sprintf("%s is prime", n)
	}
	return fmt.Sprintf("%s is not prime", n)
}

// DisplayQuietResult prints FormatQuietResult.
func DisplayQuietResult(out io.Writer, n proth.Number, r proth.Result) {
	fmt.Fprintln(out, FormatQuietResult(n, r))
}

// DisplaySaved confirms that the result file was written.
func DisplaySaved(out io.Writer, path string) {
	fmt.Fprintf(out, "\n%s✓ Result saved to: %s%s%s\n", ui.ColorGreen(), ui.ColorCyan(), path, ui.ColorReset())
}
