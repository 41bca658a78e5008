package cli

import (
	"bytes"
	"context"
	"errors"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/briandowns/spinner"

	apperrors "github.com/agbru/prothcalc/internal/errors"
	"github.com/agbru/prothcalc/internal/orchestration"
	"github.com/agbru/prothcalc/internal/proth"
	"github.com/agbru/prothcalc/internal/ui"
)

func TestMain(m *testing.M) {
	ui.SetCurrentTheme(ui.NoColorTheme)
	os.Exit(m.Run())
}

// fakeSpinner records the calls DisplayProgress makes.
type fakeSpinner struct {
	mu       sync.Mutex
	started  bool
	stopped  bool
	suffixes []string
}

func (f *fakeSpinner) Start() {
	f.mu.Lock()
	f.started = true
	f.mu.Unlock()
}

func (f *fakeSpinner) Stop() {
	f.mu.Lock()
	f.stopped = true
	f.mu.Unlock()
}

func (f *fakeSpinner) UpdateSuffix(s string) {
	f.mu.Lock()
	f.suffixes = append(f.suffixes, s)
	f.mu.Unlock()
}

func withFakeSpinner(t *testing.T) *fakeSpinner {
	t.Helper()
	fake := &fakeSpinner{}
	orig := newSpinner
	newSpinner = func(...spinner.Option) Spinner { return fake }
	t.Cleanup(func() { newSpinner = orig })
	return fake
}

func resultFor(t *testing.T, n proth.Number) proth.Result {
	t.Helper()
	res, err := proth.SimpleTester{}.Test(context.Background(), n, nil, 0)
	if err != nil {
		t.Fatal(err)
	}
	return res
}

func TestDisplayProgress(t *testing.T) {
	fake := withFakeSpinner(t)

	ch := make(chan proth.ProgressUpdate, 4)
	ch <- proth.ProgressUpdate{TesterIndex: 0, Value: 0.5}
	ch <- proth.ProgressUpdate{TesterIndex: 1, Value: 1.0}
	ch <- proth.ProgressUpdate{TesterIndex: 0, Value: 1.0}
	close(ch)

	var out bytes.Buffer
	var wg sync.WaitGroup
	wg.Add(1)
	DisplayProgress(&wg, ch, 2, &out)
	wg.Wait()

	if !fake.started || !fake.stopped {
		t.Errorf("spinner started=%v stopped=%v, want both", fake.started, fake.stopped)
	}
	if len(fake.suffixes) == 0 || !strings.Contains(fake.suffixes[0], "Testing with 2 methods") {
		t.Errorf("unexpected suffixes %q", fake.suffixes)
	}
	if !strings.Contains(out.String(), "100.00%") {
		t.Errorf("final line should show completion, got %q", out.String())
	}
}

func TestDisplayProgressWithoutTesters(t *testing.T) {
	fake := withFakeSpinner(t)

	ch := make(chan proth.ProgressUpdate, 1)
	ch <- proth.ProgressUpdate{Value: 1}
	close(ch)

	var out bytes.Buffer
	var wg sync.WaitGroup
	wg.Add(1)
	DisplayProgress(&wg, ch, 0, &out)
	wg.Wait()

	if fake.started {
		t.Error("no spinner should be shown without testers")
	}
	if out.Len() != 0 {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestPresentComparisonTable(t *testing.T) {
	n := proth.Number{T: 1, E: 16}
	results := []orchestration.TestResult{
		{Name: "big_simple", Result: resultFor(t, n), Duration: 2 * time.Millisecond},
		{Name: "engine", Result: resultFor(t, proth.Number{T: 13, E: 5}), Duration: time.Second},
		{Name: "big_low", Err: errors.New("boom")},
	}

	var out bytes.Buffer
	CLIResultPresenter{}.PresentComparisonTable(results, &out)
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 5 {
		t.Fatalf("got %d lines, want 5:\n%s", len(lines), out.String())
	}
	if !strings.HasPrefix(lines[1], "Method") {
		t.Errorf("header = %q", lines[1])
	}
	checks := []struct {
		line int
		want string
	}{
		{2, "prime"},
		{3, "not prime"},
		{4, "Failure (boom)"},
	}
	for _, c := range checks {
		if !strings.Contains(lines[c.line], c.want) {
			t.Errorf("line %d = %q, want %q", c.line, lines[c.line], c.want)
		}
	}
	// Columns line up when colors are off.
	col := strings.Index(lines[1], "Duration")
	if strings.Index(lines[2], "2ms") != col {
		t.Errorf("duration column misaligned: %q", lines[2])
	}
}

func TestDisplayResult(t *testing.T) {
	n := proth.Number{T: 13, E: 5}
	res := orchestration.TestResult{Name: "engine", Result: resultFor(t, n)}

	tests := []struct {
		name    string
		opts    orchestration.PresentationOptions
		want    []string
		notWant []string
	}{
		{
			name:    "summary",
			opts:    orchestration.PresentationOptions{Number: n},
			want:    []string{"13*2^5+1", "(9 bits)", "NOT PRIME", "engine"},
			notWant: []string{"Residue"},
		},
		{
			name:    "details",
			opts:    orchestration.PresentationOptions{Number: n, Details: true},
			want:    []string{"0x19e", "Residue - N = -3"},
			notWant: []string{"/sq)"},
		},
		{
			name: "verbose shows cost per squaring",
			opts: orchestration.PresentationOptions{Number: n, Verbose: true},
			want: []string{"/sq)", "Residue - N = -3"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			DisplayResult(res, tt.opts, &out)
			for _, w := range tt.want {
				if !strings.Contains(out.String(), w) {
					t.Errorf("output missing %q:\n%s", w, out.String())
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(out.String(), w) {
					t.Errorf("output should not contain %q", w)
				}
			}
		})
	}
}

func TestResidueMinusNLarge(t *testing.T) {
	d := new(big.Int).Lsh(big.NewInt(1), 1000)
	d.Neg(d)
	got := residueMinusN(orchestration.TestResult{Result: proth.Result{ResidueMinusN: d}})
	if !strings.HasPrefix(got, "-0x1") || !strings.Contains(got, "...") {
		t.Errorf("residueMinusN = %q", got)
	}
}

func TestWriteResultToFile(t *testing.T) {
	t.Parallel()

	n := proth.Number{T: 5, E: 7}
	res := orchestration.TestResult{Name: "big_simple", Result: resultFor(t, n), Duration: time.Millisecond}

	path := filepath.Join(t.TempDir(), "nested", "result.txt")
	if err := WriteResultToFile(res, n, OutputConfig{OutputFile: path}); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)
	for _, want := range []string{"# Proth Test Result", "# Method: big_simple", "# Bits: 10", "5*2^7+1 is prime", "residue = 0x280"} {
		if !strings.Contains(text, want) {
			t.Errorf("file missing %q:\n%s", want, text)
		}
	}

	if err := WriteResultToFile(res, n, OutputConfig{}); err != nil {
		t.Errorf("empty path should be a no-op, got %v", err)
	}
}

func TestFormatQuietResult(t *testing.T) {
	t.Parallel()

	n := proth.Number{T: 3, E: 2}
	if got := FormatQuietResult(n, proth.Result{}); got != "3*2^2+1 is not prime" {
		t.Errorf("got %q", got)
	}
	if got := FormatQuietResult(n, proth.Result{Prime: true}); got != "3*2^2+1 is prime" {
		t.Errorf("got %q", got)
	}
}

func TestHandleError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
		want string
	}{
		{"timeout", context.DeadlineExceeded, apperrors.ExitErrorTimeout, "Timeout"},
		{"canceled", context.Canceled, apperrors.ExitErrorCanceled, "Canceled"},
		{"config", apperrors.NewConfigError("bad"), apperrors.ExitErrorConfig, "Invalid input"},
		{"generic", errors.New("disk"), apperrors.ExitErrorGeneric, "Failure"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			if code := (CLIResultPresenter{}).HandleError(tt.err, time.Second, &out); code != tt.code {
				t.Errorf("code = %d, want %d", code, tt.code)
			}
			if !strings.Contains(out.String(), tt.want) {
				t.Errorf("output %q missing %q", out.String(), tt.want)
			}
		})
	}
}
