package engine

import (
	"fmt"
	"sort"
	"sync"

	"ocrgate/internal/config"
	"ocrgate/internal/domain"
	"ocrgate/internal/port"
)

// ProviderFactory is a function that creates an ExtractionEngine from the engine config.
type ProviderFactory func(cfg *config.EngineConfig) (port.ExtractionEngine, error)

var (
	mu sync.RWMutex
	// registry of engine factories, populated by init() in each provider package
	// or explicitly via RegisterProvider.
	providers = map[string]ProviderFactory{}
)

// RegisterProvider registers an engine factory by name.
func RegisterProvider(name string, factory ProviderFactory) {
	mu.Lock()
	defer mu.Unlock()
	providers[name] = factory
}

// Providers lists the registered provider names.
func Providers() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New creates an ExtractionEngine from cfg using the registered factory.
func New(cfg *config.EngineConfig) (port.ExtractionEngine, error) {
	mu.RLock()
	factory, ok := providers[cfg.Provider]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s (registered: %v)", domain.ErrUnknownProvider, cfg.Provider, Providers())
	}
	return factory(cfg)
}
