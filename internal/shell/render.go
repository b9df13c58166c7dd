package shell

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/atlaserp/atlas/internal/module"
	"github.com/atlaserp/atlas/internal/org"
	"github.com/atlaserp/atlas/internal/style"
	"github.com/atlaserp/atlas/internal/telemetry"
	"github.com/atlaserp/atlas/internal/user"
)

const timeLayout = "2006-01-02 15:04"

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(style.Dim).
		Headers(headers...)
}

// RenderMenu prints menu items grouped by section, numbered from 1.
func RenderMenu(w io.Writer, items []MenuItem) {
	section := ""
	for i, item := range items {
		if item.Section != section {
			if section != "" {
				fmt.Fprintln(w)
			}
			section = item.Section
			fmt.Fprintln(w, style.Section.Render(section))
		}
		fmt.Fprintf(w, "  %2d. %s %s %s\n", i+1, item.Icon, item.Title, style.Dim.Render("("+item.Page+")"))
	}
}

// RenderModules prints the module management table.
func RenderModules(w io.Writer, infos []module.Info) {
	t := newTable("", "ID", "NAME", "ORDER", "STATUS", "DESCRIPTION")
	for _, info := range infos {
		t.Row(info.Icon, info.ID, info.Name, strconv.Itoa(info.DisplayOrder), style.Enabled(info.Enabled), info.Description)
	}
	fmt.Fprintln(w, style.Title.Render("Module Management"))
	fmt.Fprintln(w, t.Render())
}

// RenderModule prints one module's details.
func RenderModule(w io.Writer, info module.Info) {
	fmt.Fprintf(w, "%s %s\n", info.Icon, style.Title.Render(info.Name))
	fmt.Fprintf(w, "  ID:          %s\n", info.ID)
	fmt.Fprintf(w, "  Description: %s\n", info.Description)
	fmt.Fprintf(w, "  Order:       %d\n", info.DisplayOrder)
	fmt.Fprintf(w, "  View:        %s\n", info.MainView)
	fmt.Fprintf(w, "  Status:      %s\n", style.Enabled(info.Enabled))
}

// RenderUsers prints the user management table.
func RenderUsers(w io.Writer, users []user.User) {
	t := newTable("USERNAME", "NAME", "EMAIL", "ROLE", "ACTIVE", "CREATED")
	for _, u := range users {
		t.Row(u.Username, u.FullName(), u.Email, style.Role(u.Role), yesNo(u.Active), u.CreatedAt.Format(timeLayout))
	}
	fmt.Fprintln(w, style.Title.Render("User Management"))
	fmt.Fprintln(w, t.Render())
}

// RenderOrganizations prints the organization management table.
func RenderOrganizations(w io.Writer, orgs []org.Organization) {
	t := newTable("ID", "NAME", "EMAIL", "PHONE", "ACTIVE", "MODULES")
	for _, o := range orgs {
		t.Row(o.ID, o.Name, o.Email, o.Phone, yesNo(o.Active), strings.Join(o.EnabledModules, ", "))
	}
	fmt.Fprintln(w, style.Title.Render("Organization Management"))
	fmt.Fprintln(w, t.Render())
}

// RenderDashboard prints the dashboard summary.
func RenderDashboard(w io.Writer, welcome string, d Dashboard) {
	if welcome != "" {
		fmt.Fprintln(w, style.Bold.Render(welcome))
	}
	fmt.Fprintln(w, style.Title.Render("Dashboard"))
	fmt.Fprintf(w, "  Users:         %d\n", d.Users)
	fmt.Fprintf(w, "  Organizations: %d (%d active)\n", d.Organizations, d.ActiveOrganizations)
	fmt.Fprintf(w, "  Modules:       %d (%d enabled)\n", d.Modules, d.EnabledModules)
}

// RenderStats prints the in-process metric samples.
func RenderStats(w io.Writer, samples []telemetry.Sample) {
	t := newTable("METRIC", "LABELS", "VALUE")
	for _, s := range samples {
		t.Row(s.Name, formatLabels(s.Labels), strconv.FormatFloat(s.Value, 'f', -1, 64))
	}
	fmt.Fprintln(w, t.Render())
}

func formatLabels(labels map[string]string) string {
	if len(labels) == 0 {
		return ""
	}
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	pairs := make([]string, len(keys))
	for i, k := range keys {
		pairs[i] = k + "=" + labels[k]
	}
	return strings.Join(pairs, ",")
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
