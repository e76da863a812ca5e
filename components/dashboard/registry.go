package dashboard

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/ettle/strcase"
)

// ChartHook lets packages register or adjust chart descriptors during init().
type ChartHook func(reg *Registry) error

var (
	globalHookMu sync.Mutex
	globalHooks  []ChartHook
)

// RegisterChartHook registers a hook executed against new registries.
func RegisterChartHook(h ChartHook) {
	globalHookMu.Lock()
	defer globalHookMu.Unlock()
	globalHooks = append(globalHooks, h)
}

// Registry stores chart descriptors in registration order. Registering an
// existing id replaces the descriptor in place.
type Registry struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]ChartDescriptor
}

// NewRegistry builds a registry seeded with the default charts and applies
// global hooks. Hook failures are logged; use NewRegistryE to handle them.
func NewRegistry() *Registry {
	reg, err := NewRegistryE()
	if err != nil {
		slog.Default().Error("dashboard: chart registry setup failed", slog.Any("error", err))
	}
	return reg
}

// NewRegistryE is NewRegistry returning the default-chart and hook errors.
// The registry is usable either way and holds whatever registered cleanly.
func NewRegistryE() (*Registry, error) {
	reg := NewEmptyRegistry()
	var errs []error
	for _, desc := range DefaultChartDescriptors() {
		if err := reg.Register(desc); err != nil {
			errs = append(errs, err)
		}
	}
	if err := reg.ApplyHooks(); err != nil {
		errs = append(errs, fmt.Errorf("dashboard: chart hook: %w", err))
	}
	return reg, errors.Join(errs...)
}

// NewEmptyRegistry builds a registry without defaults or hooks.
func NewEmptyRegistry() *Registry {
	return &Registry{byID: map[string]ChartDescriptor{}}
}

// ApplyHooks executes registered chart hooks.
func (r *Registry) ApplyHooks() error {
	globalHookMu.Lock()
	defer globalHookMu.Unlock()
	for _, hook := range globalHooks {
		if err := hook(r); err != nil {
			return err
		}
	}
	return nil
}

// Register validates and stores a descriptor.
func (r *Registry) Register(desc ChartDescriptor) error {
	desc = normalizeDescriptor(desc)
	if err := desc.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byID[desc.ID]; !exists {
		r.order = append(r.order, desc.ID)
	}
	r.byID[desc.ID] = desc
	if desc.Main {
		for id, other := range r.byID {
			if id != desc.ID && other.Main {
				other.Main = false
				r.byID[id] = other
			}
		}
	}
	return nil
}

// Descriptor returns the descriptor for id.
func (r *Registry) Descriptor(id string) (ChartDescriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	desc, ok := r.byID[normalizeChartID(id)]
	if !ok {
		return ChartDescriptor{}, false
	}
	return cloneDescriptor(desc), true
}

// Descriptors returns every descriptor in registration order.
func (r *Registry) Descriptors() []ChartDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]ChartDescriptor, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, cloneDescriptor(r.byID[id]))
	}
	return out
}

// Main returns the always-visible chart.
func (r *Registry) Main() (ChartDescriptor, bool) {
	for _, desc := range r.Descriptors() {
		if desc.Main {
			return desc, true
		}
	}
	return ChartDescriptor{}, false
}

// Secondary returns the toggleable charts in registration order.
func (r *Registry) Secondary() []ChartDescriptor {
	all := r.Descriptors()
	out := make([]ChartDescriptor, 0, len(all))
	for _, desc := range all {
		if !desc.Main {
			out = append(out, desc)
		}
	}
	return out
}

// Validate ensures the registry can drive a dashboard: exactly one main chart.
func (r *Registry) Validate() error {
	mains := 0
	for _, desc := range r.Descriptors() {
		if desc.Main {
			mains++
		}
	}
	if mains != 1 {
		return fmt.Errorf("dashboard: registry needs exactly one main chart, found %d", mains)
	}
	return nil
}

func normalizeDescriptor(desc ChartDescriptor) ChartDescriptor {
	desc.ID = normalizeChartID(desc.ID)
	desc.Metric = MetricName(strcase.ToSnake(string(desc.Metric)))
	desc.Kind = ChartKind(strings.ToLower(strings.TrimSpace(string(desc.Kind))))
	desc.TitleLocalized = normalizeLocaleMap(desc.TitleLocalized)
	if desc.Title == "" {
		desc.Title = titleFromID(desc.ID)
	}
	return desc
}

func normalizeChartID(id string) string {
	id = strings.TrimSpace(id)
	id = strings.TrimPrefix(id, surfacePrefix)
	return strcase.ToKebab(id)
}

func titleFromID(id string) string {
	words := strings.Split(id, "-")
	for i, word := range words {
		if word == "" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}
