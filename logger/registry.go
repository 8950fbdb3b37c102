package logger

import (
	"fmt"
	"sort"
	"sync"
)

// Component names used across mdpsolve. Only these may be registered.
const (
	ComponentCLI    = "cli"
	ComponentConfig = "config"
	ComponentMDP    = "mdp"
	ComponentServer = "server"
)

var knownComponents = map[string]struct{}{
	ComponentCLI:    {},
	ComponentConfig: {},
	ComponentMDP:    {},
	ComponentServer: {},
}

var components = &componentRegistry{loggers: make(map[string]*Logger)}

type componentRegistry struct {
	mu      sync.RWMutex
	loggers map[string]*Logger
}

// Components returns the known component names in sorted order.
func Components() []string {
	names := make([]string, 0, len(knownComponents))
	for name := range knownComponents {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Register stores the logger for a known component. Unknown names are
// rejected so typos do not silently produce untagged loggers.
func Register(name string, l *Logger) error {
	if _, ok := knownComponents[name]; !ok {
		return fmt.Errorf("logger: unknown component %q", name)
	}
	if l == nil {
		return fmt.Errorf("logger: nil logger for component %q", name)
	}
	components.mu.Lock()
	components.loggers[name] = l
	components.mu.Unlock()
	return nil
}

// Get returns the logger registered for name. Before RegisterDefaults has
// run it falls back to the global logger tagged with name.
func Get(name string) *Logger {
	components.mu.RLock()
	l, ok := components.loggers[name]
	components.mu.RUnlock()
	if ok {
		return l
	}
	return GetGlobalLogger().WithComponent(name)
}

// RegisterDefaults (re)binds every known component to the current global
// logger. Call it after Init or SetGlobalLogger.
func RegisterDefaults() {
	global := GetGlobalLogger()
	components.mu.Lock()
	defer components.mu.Unlock()
	for name := range knownComponents {
		components.loggers[name] = global.WithComponent(name)
	}
}
