// Package modules contains the built-in AtlasERP feature modules.
package modules

import (
	"context"
	"sync"
	"time"

	"github.com/atlaserp/atlas/internal/logger"
	"github.com/atlaserp/atlas/internal/module"
)

// feature carries the descriptor shared by every built-in module and
// records when the module was last initialized.
type feature struct {
	id          string
	name        string
	description string
	icon        string
	order       int
	view        string

	mu            sync.Mutex
	initializedAt time.Time
}

func (f *feature) ID() string          { return f.id }
func (f *feature) Name() string        { return f.name }
func (f *feature) Description() string { return f.description }
func (f *feature) Icon() string        { return f.icon }
func (f *feature) DisplayOrder() int   { return f.order }
func (f *feature) MainView() string    { return f.view }

// Initialize stamps the initialization time.
func (f *feature) Initialize(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f.mu.Lock()
	f.initializedAt = time.Now().UTC()
	f.mu.Unlock()

	logger.FromContext(ctx).Debugw("feature ready", "module", f.id, "view", f.view)
	return nil
}

// InitializedAt returns when Initialize last succeeded, or the zero time.
func (f *feature) InitializedAt() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.initializedAt
}

// Builtins returns fresh instances of every built-in module, in the order
// RegisterBuiltins registers them.
func Builtins() []module.Module {
	return []module.Module{
		NewAccounting(),
		NewHR(),
		NewInventory(),
		NewSales(),
	}
}

// RegisterBuiltins installs all built-in modules into reg and returns how
// many were newly added.
func RegisterBuiltins(reg *module.Registry) int {
	if reg == nil {
		return 0
	}
	added := 0
	for _, m := range Builtins() {
		if reg.Register(m) {
			added++
		}
	}
	return added
}
