// Package org provides organization records for AtlasERP administration.
package org

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrOrgNotFound indicates the requested organization does not exist.
var ErrOrgNotFound = errors.New("organization not found")

// Organization is a tenant using a subset of the feature modules.
type Organization struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Address     string    `json:"address,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	Email       string    `json:"email,omitempty"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`

	// EnabledModules holds module names. They are not checked against the
	// module registry.
	EnabledModules []string `json:"enabled_modules,omitempty"`
}

// Directory is the in-memory list of organizations.
type Directory struct {
	mu   sync.Mutex
	orgs []Organization
}

// NewDirectory creates an empty directory.
func NewDirectory() *Directory {
	return &Directory{}
}

// NewSampleDirectory creates a directory with the placeholder organizations.
func NewSampleDirectory() *Directory {
	d := NewDirectory()
	d.Add(Organization{
		Name:           "Atlas Corporation",
		Description:    "Main organization",
		Address:        "123 Business St, City, State 12345",
		Phone:          "+1-555-0100",
		Email:          "contact@atlascorp.com",
		Active:         true,
		EnabledModules: []string{"Inventory", "Sales", "Accounting", "HR"},
	})
	d.Add(Organization{
		Name:           "Beta Industries",
		Description:    "Partner organization",
		Address:        "456 Commerce Ave, City, State 12346",
		Phone:          "+1-555-0200",
		Email:          "info@betaindustries.com",
		Active:         true,
		EnabledModules: []string{"Inventory", "Sales"},
	})
	return d
}

// Add stores o, filling in a missing ID and CreatedAt, and returns the
// stored copy.
func (d *Directory) Add(o Organization) Organization {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now().UTC()
	}
	o.EnabledModules = append([]string(nil), o.EnabledModules...)

	d.mu.Lock()
	d.orgs = append(d.orgs, o)
	d.mu.Unlock()
	return o
}

// NewPlaceholder adds an active "Organization <N>" entry.
func (d *Directory) NewPlaceholder() Organization {
	return d.Add(Organization{
		Name:        fmt.Sprintf("Organization %d", d.Len()+1),
		Description: "New organization",
		Active:      true,
	})
}

// Get returns the organization with the given ID.
func (d *Directory) Get(id string) (Organization, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, o := range d.orgs {
		if o.ID == id {
			return o, nil
		}
	}
	return Organization{}, fmt.Errorf("%w: %s", ErrOrgNotFound, id)
}

// List returns all organizations in insertion order.
func (d *Directory) List() []Organization {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]Organization, len(d.orgs))
	copy(out, d.orgs)
	return out
}

// Remove deletes the organization with the given ID.
func (d *Directory) Remove(id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	for i, o := range d.orgs {
		if o.ID == id {
			d.orgs = append(d.orgs[:i], d.orgs[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrOrgNotFound, id)
}

// Len returns the number of organizations.
func (d *Directory) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.orgs)
}

// ActiveCount returns the number of active organizations.
func (d *Directory) ActiveCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	n := 0
	for _, o := range d.orgs {
		if o.Active {
			n++
		}
	}
	return n
}
