// Package bot provides reference controllers that play the game over
// the control protocol. Strategies register themselves in init()
// functions, so the CLI can list and instantiate them without
// hardcoded dependencies.
package bot

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/mazebrawl/internal/core"
)

// Strategy turns the latest view of the world into the next command.
// Act is called once per received frame; implementations may keep
// state between calls (current heading, cooldowns).
type Strategy interface {
	// Name returns the identifier the strategy registered under.
	Name() string

	// Act decides the command to answer the current frame with.
	Act(v *View) core.Command
}

// Factory is a function that creates a fresh strategy instance.
type Factory func() Strategy

var (
	mu        sync.RWMutex
	factories = make(map[string]Factory)
)

// Register adds a strategy factory under its name. Typically called
// from a strategy's init() function. Panics on a duplicate name.
func Register(name string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	if _, exists := factories[name]; exists {
		panic(fmt.Sprintf("bot: strategy %q already registered", name))
	}
	factories[name] = f
}

// List returns all registered strategy names, sorted.
func List() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Create instantiates a strategy by name.
func Create(name string) (Strategy, error) {
	mu.RLock()
	defer mu.RUnlock()
	f, ok := factories[name]
	if !ok {
		return nil, fmt.Errorf("bot: unknown strategy %q", name)
	}
	return f(), nil
}

// Exists reports whether a strategy is registered under name.
func Exists(name string) bool {
	mu.RLock()
	defer mu.RUnlock()
	_, ok := factories[name]
	return ok
}
