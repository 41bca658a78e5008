package orchestration

import (
	"strings"

	apperrors "github.com/agbru/prothcalc/internal/errors"
	"github.com/agbru/prothcalc/internal/proth"
)

// GetTestersToRun resolves a method selection against the factory:
// "all" for every registered tester in sorted order, otherwise a single
// name or a comma-separated list, kept in the order given with duplicates
// removed.
func GetTestersToRun(method string, factory proth.TesterFactory) ([]proth.Tester, error) {
	var names []string
	if method == "all" {
		names = factory.List()
	} else {
		for _, part := range strings.Split(method, ",") {
			if p := strings.TrimSpace(part); p != "" {
				names = append(names, p)
			}
		}
	}
	if len(names) == 0 {
		return nil, apperrors.NewConfigError("no method selected")
	}

	testers := make([]proth.Tester, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true
		t, err := factory.Get(name)
		if err != nil {
			return nil, apperrors.WrapError(err, "selecting testers")
		}
		testers = append(testers, t)
	}
	return testers, nil
}
