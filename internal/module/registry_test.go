package module

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlaserp/atlas/internal/telemetry"
)

type stubModule struct {
	id    string
	name  string
	order int
	err   error
	panic any

	calls *[]string
}

func (s *stubModule) ID() string          { return s.id }
func (s *stubModule) Name() string        { return s.name }
func (s *stubModule) Description() string { return s.name + " module" }
func (s *stubModule) Icon() string        { return "*" }
func (s *stubModule) DisplayOrder() int   { return s.order }
func (s *stubModule) MainView() string    { return s.id + "View" }

func (s *stubModule) Initialize(context.Context) error {
	if s.calls != nil {
		*s.calls = append(*s.calls, s.id)
	}
	if s.panic != nil {
		panic(s.panic)
	}
	return s.err
}

func ids(mods []Module) []string {
	out := make([]string, 0, len(mods))
	for _, m := range mods {
		out = append(out, m.ID())
	}
	return out
}

func TestRegistry_RegisterDuplicate(t *testing.T) {
	r := NewRegistry()

	assert.True(t, r.Register(&stubModule{id: "sales", name: "Sales", order: 2}))
	assert.False(t, r.Register(&stubModule{id: "sales", name: "Other Sales", order: 9}))

	require.Equal(t, 1, r.Len())
	m, ok := r.Find("sales")
	require.True(t, ok)
	assert.Equal(t, "Sales", m.Name(), "first registration wins")
}

func TestRegistry_RegisterSetsGauge(t *testing.T) {
	r := NewRegistry()
	r.Register(&stubModule{id: "a", name: "A", order: 1})
	r.Register(&stubModule{id: "b", name: "B", order: 2})
	r.Register(&stubModule{id: "a", name: "A again", order: 3})

	assert.Equal(t, float64(r.Len()), testutil.ToFloat64(telemetry.ModulesRegistered))
}

func TestRegistry_RegisterNil(t *testing.T) {
	r := NewRegistry()
	assert.False(t, r.Register(nil))
	assert.Equal(t, 0, r.Len())
}

func TestRegistry_RegisterDoesNotInitialize(t *testing.T) {
	var calls []string
	r := NewRegistry()
	r.Register(&stubModule{id: "hr", calls: &calls})
	assert.Empty(t, calls)
}

func TestRegistry_ListOrder(t *testing.T) {
	tests := []struct {
		name   string
		ids    []string
		orders []int
		want   []string
	}{
		{
			name:   "sorted by display order",
			ids:    []string{"C", "A", "B"},
			orders: []int{3, 1, 2},
			want:   []string{"A", "B", "C"},
		},
		{
			name:   "ties keep registration order",
			ids:    []string{"x", "y", "z", "w"},
			orders: []int{2, 1, 2, 1},
			want:   []string{"y", "w", "x", "z"},
		},
		{
			name: "empty",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry()
			for i, id := range tt.ids {
				r.Register(&stubModule{id: id, order: tt.orders[i]})
			}

			got := r.List()
			assert.Equal(t, tt.want, ids(got))
			for i := 1; i < len(got); i++ {
				assert.LessOrEqual(t, got[i-1].DisplayOrder(), got[i].DisplayOrder())
			}
		})
	}
}

func TestRegistry_Find(t *testing.T) {
	r := NewRegistry()

	_, ok := r.Find("absent")
	assert.False(t, ok, "empty registry")

	r.Register(&stubModule{id: "inventory"})

	_, ok = r.Find("absent")
	assert.False(t, ok)
	_, ok = r.Find("Inventory")
	assert.False(t, ok, "lookup is case-sensitive")
	_, ok = r.Find("inv")
	assert.False(t, ok, "no partial matching")

	m, ok := r.Find("inventory")
	require.True(t, ok)
	assert.Equal(t, "inventory", m.ID())

	_, err := r.Get("absent")
	assert.ErrorIs(t, err, ErrModuleNotFound)
}

func TestRegistry_Infos(t *testing.T) {
	r := NewRegistry()
	r.Register(&stubModule{id: "b", name: "B", order: 2})
	r.Register(&stubModule{id: "a", name: "A", order: 1})

	infos := r.Infos()
	require.Len(t, infos, 2)
	assert.Equal(t, Info{ID: "a", Name: "A", Description: "A module", Icon: "*", DisplayOrder: 1, MainView: "aView", Enabled: true}, infos[0])
	assert.Equal(t, "b", infos[1].ID)
}

func TestRegistry_InitializeAllEmpty(t *testing.T) {
	report, err := NewRegistry().InitializeAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, report.Results)
}

func TestRegistry_InitializeAllRegistrationOrder(t *testing.T) {
	var calls []string
	r := NewRegistry()
	r.Register(&stubModule{id: "C", order: 3, calls: &calls})
	r.Register(&stubModule{id: "A", order: 1, calls: &calls})
	r.Register(&stubModule{id: "B", order: 2, calls: &calls})

	report, err := r.InitializeAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"C", "A", "B"}, calls, "each hook once, in registration order")
	assert.Len(t, report.Results, 3)
	assert.Empty(t, report.Failed())
}

func TestRegistry_InitializeAllIsolatesFailures(t *testing.T) {
	boom := errors.New("boom")
	var calls []string
	r := NewRegistry()
	r.Register(&stubModule{id: "ok1", calls: &calls})
	r.Register(&stubModule{id: "bad", err: boom, calls: &calls})
	r.Register(&stubModule{id: "panics", panic: "kaboom", calls: &calls})
	r.Register(&stubModule{id: "ok2", calls: &calls})

	report, err := r.InitializeAll(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"ok1", "bad", "panics", "ok2"}, calls)

	failed := report.Failed()
	require.Len(t, failed, 2)
	assert.Equal(t, "bad", failed[0].ModuleID)
	assert.False(t, failed[0].Err.Panicked)
	assert.Equal(t, "panics", failed[1].ModuleID)
	assert.True(t, failed[1].Err.Panicked)
	assert.Contains(t, failed[1].Err.Error(), "kaboom")

	var ierr *InitError
	require.ErrorAs(t, err, &ierr)
	assert.Equal(t, "bad", ierr.ModuleID)
}
