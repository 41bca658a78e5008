package proth

import (
	"sort"
	"strings"
	"sync"

	apperrors "github.com/agbru/prothcalc/internal/errors"
)

// TesterFactory creates and caches testers by method name.
type TesterFactory interface {
	// Register adds a constructor under name, replacing any previous one.
	Register(name string, create func() Tester)
	// Get returns the tester registered under name.
	Get(name string) (Tester, error)
	// List returns the registered names in sorted order.
	List() []string
	// GetAll returns every registered tester, keyed by name.
	GetAll() map[string]Tester
}

var (
	optionalMu      sync.Mutex
	optionalTesters = map[string]func() Tester{}
)

// RegisterTester makes a tester available to every default factory. Build
// tagged files call it from init.
func RegisterTester(name string, create func() Tester) {
	optionalMu.Lock()
	defer optionalMu.Unlock()
	optionalTesters[name] = create
}

// DefaultFactory is the TesterFactory used by the application.
type DefaultFactory struct {
	mu       sync.RWMutex
	creators map[string]func() Tester
	cache    map[string]Tester
}

// NewDefaultFactory registers the math/big testers, the engine tester
// built from engineOpts, and every tester added with RegisterTester.
func NewDefaultFactory(engineOpts ...EngineOption) *DefaultFactory {
	f := &DefaultFactory{creators: map[string]func() Tester{}, cache: map[string]Tester{}}
	f.Register("big_simple", func() Tester { return SimpleTester{} })
	f.Register("big_medium", func() Tester { return MediumTester{} })
	f.Register("big_low", func() Tester { return LowTester{} })
	f.Register("big_barrett", func() Tester { return BarrettTester{} })
	f.Register("engine", func() Tester { return NewEngineTester(engineOpts...) })

	optionalMu.Lock()
	defer optionalMu.Unlock()
	for name, create := range optionalTesters {
		f.Register(name, create)
	}
	return f
}

func (f *DefaultFactory) Register(name string, create func() Tester) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creators[name] = create
	delete(f.cache, name)
}

func (f *DefaultFactory) Get(name string) (Tester, error) {
	f.mu.RLock()
	if t, ok := f.cache[name]; ok {
		f.mu.RUnlock()
		return t, nil
	}
	f.mu.RUnlock()

	f.mu.Lock()
	defer f.mu.Unlock()
	if t, ok := f.cache[name]; ok {
		return t, nil
	}
	create, ok := f.creators[name]
	if !ok {
		return nil, apperrors.NewConfigError("unknown method %q (available: %s)", name, strings.Join(f.sortedNames(), ", "))
	}
	t := create()
	f.cache[name] = t
	return t, nil
}

func (f *DefaultFactory) List() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.sortedNames()
}

func (f *DefaultFactory) sortedNames() []string {
	names := make([]string, 0, len(f.creators))
	for name := range f.creators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (f *DefaultFactory) GetAll() map[string]Tester {
	all := make(map[string]Tester)
	for _, name := range f.List() {
		if t, err := f.Get(name); err == nil {
			all[name] = t
		}
	}
	return all
}
