package shell

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/atlaserp/atlas/internal/module"
	"github.com/atlaserp/atlas/internal/modules"
)

func TestRenderModule(t *testing.T) {
	info := module.Describe(modules.NewHR())
	info.Enabled = false

	var buf bytes.Buffer
	RenderModule(&buf, info)

	out := buf.String()
	assert.Contains(t, out, "Human Resources")
	assert.Contains(t, out, "hr")
	assert.Contains(t, out, "HRView")
	assert.Contains(t, out, "disabled")
}

func TestRenderOrganizations_ListsModules(t *testing.T) {
	app := newTestApp(t, Options{})

	var buf bytes.Buffer
	RenderOrganizations(&buf, app.Orgs.List())
	assert.Contains(t, buf.String(), "Inventory, Sales")
}
