package orchestration

import (
	"context"
	"fmt"
	"io"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/agbru/prothcalc/internal/proth"
)

// scriptedTester simulates tester behaviors for deadlock testing.
type scriptedTester struct {
	name     string
	behavior string // "instant", "slow", "error", "progress_flood"
	delay    time.Duration
}

func (s *scriptedTester) Name() string { return s.name }

func (s *scriptedTester) Test(ctx context.Context, n proth.Number, progressChan chan<- proth.ProgressUpdate, idx int) (proth.Result, error) {
	done := proth.NewResult(n, big.NewInt(1), 0)
	switch s.behavior {
	case "slow":
		for i := 0; i < 100; i++ {
			select {
			case <-ctx.Done():
				return proth.Result{}, ctx.Err()
			case progressChan <- proth.ProgressUpdate{TesterIndex: idx, Value: float64(i) / 100}:
			default:
			}
			time.Sleep(s.delay)
		}
	case "error":
		return proth.Result{}, fmt.Errorf("simulated error")
	case "progress_flood":
		for i := 0; i < 10000; i++ {
			select {
			case progressChan <- proth.ProgressUpdate{TesterIndex: idx, Value: float64(i) / 10000}:
			default:
			}
		}
	}
	return done, nil
}

// slowReporter drains the channel with a pause per update.
func slowReporter(wg *sync.WaitGroup, ch <-chan proth.ProgressUpdate, _ int, _ io.Writer) {
	defer wg.Done()
	for range ch {
		time.Sleep(10 * time.Microsecond)
	}
}

func TestOrchestrationNoDeadlock_MixedBehaviors(t *testing.T) {
	testCases := []struct {
		name    string
		testers []proth.Tester
	}{
		{"all_instant", []proth.Tester{
			&scriptedTester{name: "t1", behavior: "instant"},
			&scriptedTester{name: "t2", behavior: "instant"},
			&scriptedTester{name: "t3", behavior: "instant"},
		}},
		{"mixed_instant_and_slow", []proth.Tester{
			&scriptedTester{name: "fast", behavior: "instant"},
			&scriptedTester{name: "slow", behavior: "slow", delay: time.Millisecond},
		}},
		{"mixed_with_errors", []proth.Tester{
			&scriptedTester{name: "ok", behavior: "instant"},
			&scriptedTester{name: "err", behavior: "error"},
		}},
		{"progress_flood", []proth.Tester{
			&scriptedTester{name: "flood1", behavior: "progress_flood"},
			&scriptedTester{name: "flood2", behavior: "progress_flood"},
		}},
		{"single_tester", []proth.Tester{
			&scriptedTester{name: "solo", behavior: "instant"},
		}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			done := make(chan struct{})
			go func() {
				defer close(done)
				ExecuteTests(ctx, tc.testers, n641, ProgressReporterFunc(slowReporter), io.Discard)
			}()

			select {
			case <-done:
			case <-time.After(10 * time.Second):
				t.Fatal("DEADLOCK: ExecuteTests did not complete within timeout")
			}
		})
	}
}

func TestOrchestrationNoDeadlock_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	testers := []proth.Tester{
		&scriptedTester{name: "slow1", behavior: "slow", delay: 100 * time.Millisecond},
		&scriptedTester{name: "slow2", behavior: "slow", delay: 100 * time.Millisecond},
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		ExecuteTests(ctx, testers, n641, NullProgressReporter{}, io.Discard)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("DEADLOCK after context cancellation")
	}
}
