package logger

import (
	"sync"

	"go.uber.org/zap"
)

type registryKey struct {
	category string
	network  string
}

// Registry hands out one named logger per (event category, network)
// Loggers are built on first use from the global logger and reused afterwards
type Registry struct {
	mu      sync.Mutex
	base    func() *zap.Logger
	loggers map[registryKey]*zap.Logger
}

// NewRegistry creates a registry deriving its loggers from the global logger
func NewRegistry() *Registry {
	return NewRegistryWithBase(Default)
}

// NewRegistryWithBase creates a registry deriving its loggers from base
func NewRegistryWithBase(base func() *zap.Logger) *Registry {
	return &Registry{
		base:    base,
		loggers: make(map[registryKey]*zap.Logger),
	}
}

// For returns the logger of an event category on a network
func (r *Registry) For(category, network string) *zap.Logger {
	key := registryKey{category: category, network: network}

	r.mu.Lock()
	defer r.mu.Unlock()

	if l, ok := r.loggers[key]; ok {
		return l
	}

	l := r.base().Named(category).With(
		zap.String("category", category),
		zap.String("network", network),
	)
	r.loggers[key] = l
	return l
}
