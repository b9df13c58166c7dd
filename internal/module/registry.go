package module

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/atlaserp/atlas/internal/logger"
	"github.com/atlaserp/atlas/internal/telemetry"
)

// Registry holds the registered modules in registration order.
type Registry struct {
	mu      sync.RWMutex
	modules []Module
	byID    map[string]Module
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byID: make(map[string]Module)}
}

// Register adds m unless a module with the same ID is already present.
// It reports whether m was added; a duplicate is skipped, not an error,
// and the first registration wins. Initialize is not called.
func (r *Registry) Register(m Module) bool {
	if m == nil {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	id := m.ID()
	if _, exists := r.byID[id]; exists {
		return false
	}
	r.byID[id] = m
	r.modules = append(r.modules, m)
	// Process-wide gauge; last writer wins.
	telemetry.ModulesRegistered.Set(float64(len(r.modules)))
	return true
}

// List returns all modules sorted by DisplayOrder. Ties keep registration order.
func (r *Registry) List() []Module {
	r.mu.RLock()
	out := make([]Module, len(r.modules))
	copy(out, r.modules)
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DisplayOrder() < out[j].DisplayOrder()
	})
	return out
}

// Infos returns the descriptors of all modules in display order.
func (r *Registry) Infos() []Info {
	mods := r.List()
	infos := make([]Info, 0, len(mods))
	for _, m := range mods {
		infos = append(infos, Describe(m))
	}
	return infos
}

// Find returns the module registered under id. Matching is exact.
func (r *Registry) Find(id string) (Module, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.byID[id]
	return m, ok
}

// Get is Find with an error for callers that want one.
func (r *Registry) Get(id string) (Module, error) {
	m, ok := r.Find(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrModuleNotFound, id)
	}
	return m, nil
}

// Len returns the number of registered modules.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.modules)
}

// InitError records a failed initialization hook.
type InitError struct {
	ModuleID string
	Err      error
	Panicked bool
}

func (e *InitError) Error() string {
	if e.Panicked {
		return fmt.Sprintf("module %s: initialize panicked: %v", e.ModuleID, e.Err)
	}
	return fmt.Sprintf("module %s: initialize: %v", e.ModuleID, e.Err)
}

func (e *InitError) Unwrap() error { return e.Err }

// InitResult is the outcome of one module's initialization hook.
type InitResult struct {
	ModuleID string
	Duration time.Duration
	Err      *InitError
}

// OK reports whether the hook succeeded.
func (r InitResult) OK() bool { return r.Err == nil }

// InitReport lists the outcome of every hook in one InitializeAll pass.
type InitReport struct {
	Results []InitResult
}

// Failed returns the results whose hook failed.
func (r *InitReport) Failed() []InitResult {
	var out []InitResult
	for _, res := range r.Results {
		if !res.OK() {
			out = append(out, res)
		}
	}
	return out
}

// InitializeAll calls every module's Initialize exactly once, in registration
// order. A failing or panicking hook does not stop the pass; each failure is
// recorded in the report and the returned error joins all of them.
func (r *Registry) InitializeAll(ctx context.Context) (*InitReport, error) {
	r.mu.RLock()
	mods := make([]Module, len(r.modules))
	copy(mods, r.modules)
	r.mu.RUnlock()

	lggr := logger.FromContext(ctx)
	report := &InitReport{Results: make([]InitResult, 0, len(mods))}
	var errs []error

	for _, m := range mods {
		id := m.ID()
		start := time.Now()
		ierr := initialize(ctx, m)
		elapsed := time.Since(start)

		telemetry.ModuleInitDuration.WithLabelValues(id).Observe(elapsed.Seconds())
		res := InitResult{ModuleID: id, Duration: elapsed, Err: ierr}
		if ierr != nil {
			telemetry.ModuleInitTotal.WithLabelValues(id, telemetry.ResultFailure).Inc()
			lggr.Warnw("module initialization failed", "module", id, "error", ierr.Err, "panicked", ierr.Panicked)
			errs = append(errs, ierr)
		} else {
			telemetry.ModuleInitTotal.WithLabelValues(id, telemetry.ResultSuccess).Inc()
			lggr.Debugw("module initialized", "module", id, "duration", elapsed)
		}
		report.Results = append(report.Results, res)
	}

	return report, errors.Join(errs...)
}

// initialize runs one hook, converting a panic into an InitError.
func initialize(ctx context.Context, m Module) (ierr *InitError) {
	defer func() {
		if p := recover(); p != nil {
			err, ok := p.(error)
			if !ok {
				err = fmt.Errorf("%v", p)
			}
			ierr = &InitError{ModuleID: m.ID(), Err: err, Panicked: true}
		}
	}()

	if err := m.Initialize(ctx); err != nil {
		return &InitError{ModuleID: m.ID(), Err: err}
	}
	return nil
}
