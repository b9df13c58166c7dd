// Package module provides the pluggable feature module registry for AtlasERP.
// Feature areas (inventory, sales, ...) implement Module and are registered
// once at startup; the shell reads the registry to build its menus.
package module

import (
	"context"
	"errors"
)

// ErrModuleNotFound indicates no module is registered under the requested ID.
var ErrModuleNotFound = errors.New("module not found")

// Module is a named, orderable feature unit.
type Module interface {
	// ID returns the unique identifier (e.g., "inventory").
	ID() string

	// Name returns the display name.
	Name() string

	// Description returns a one-line summary of the feature area.
	Description() string

	// Icon returns the icon token shown next to the name.
	Icon() string

	// DisplayOrder is the menu sort key; lower values come first.
	DisplayOrder() int

	// MainView names the primary view for this module.
	MainView() string

	// Initialize runs the module's one-time setup.
	Initialize(ctx context.Context) error
}

// Info is a passive descriptor of a registered module.
type Info struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Icon         string `json:"icon"`
	DisplayOrder int    `json:"display_order"`
	MainView     string `json:"main_view"`

	// Enabled is presentation state only; the registry never consults it.
	Enabled bool `json:"enabled"`
}

// Describe builds the descriptor for m. Enabled defaults to true.
func Describe(m Module) Info {
	return Info{
		ID:           m.ID(),
		Name:         m.Name(),
		Description:  m.Description(),
		Icon:         m.Icon(),
		DisplayOrder: m.DisplayOrder(),
		MainView:     m.MainView(),
		Enabled:      true,
	}
}
