package shell

import (
	"context"
	"errors"
	"fmt"
)

// ErrUnknownPage is returned when navigating to a page that does not exist.
var ErrUnknownPage = errors.New("unknown page")

// Page names.
const (
	PageLogin         = "LoginPage"
	PageDashboard     = "DashboardPage"
	PageUsers         = "UserManagementPage"
	PageOrganizations = "OrganizationManagementPage"
	PageModules       = "ModuleManagementPage"
	PageSettings      = "SettingsPage"
)

// Menu sections.
const (
	SectionOverview       = "Overview"
	SectionAdministration = "Administration"
	SectionModules        = "Modules"
)

// MenuItem is one entry of the main menu.
type MenuItem struct {
	Title   string
	Icon    string
	Page    string
	Section string
}

var fixedMenu = []MenuItem{
	{Title: "Dashboard", Icon: "📊", Page: PageDashboard, Section: SectionOverview},
	{Title: "User Management", Icon: "👥", Page: PageUsers, Section: SectionAdministration},
	{Title: "Organization Management", Icon: "🏢", Page: PageOrganizations, Section: SectionAdministration},
	{Title: "Module Management", Icon: "⚙️", Page: PageModules, Section: SectionAdministration},
	{Title: "Settings", Icon: "🔧", Page: PageSettings, Section: SectionAdministration},
}

// Menu returns the fixed pages followed by one entry per registered module
// in display order.
func (a *App) Menu() []MenuItem {
	mods := a.Modules.List()
	items := make([]MenuItem, 0, len(fixedMenu)+len(mods))
	items = append(items, fixedMenu...)
	for _, m := range mods {
		items = append(items, MenuItem{
			Title:   m.Name(),
			Icon:    m.Icon(),
			Page:    m.MainView(),
			Section: SectionModules,
		})
	}
	return items
}

// Navigate resolves page to its menu item. Every page except the login
// page needs a signed-in user.
func (a *App) Navigate(ctx context.Context, page string) (MenuItem, error) {
	if page == PageLogin {
		return MenuItem{Title: "Login", Page: PageLogin}, nil
	}
	if err := a.RequireAuth(ctx); err != nil {
		return MenuItem{}, err
	}
	for _, item := range a.Menu() {
		if item.Page == page {
			return item, nil
		}
	}
	return MenuItem{}, fmt.Errorf("%w: %s", ErrUnknownPage, page)
}
