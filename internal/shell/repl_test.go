package shell

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlaserp/atlas/internal/config"
)

func runREPL(t *testing.T, app *App, input string, readPassword PasswordReader) string {
	t.Helper()
	var out bytes.Buffer
	r := NewREPL(app, strings.NewReader(input), &out, readPassword)
	require.NoError(t, r.Run(context.Background()))
	return out.String()
}

func TestREPL_Session(t *testing.T) {
	app := newTestApp(t, Options{})

	out := runREPL(t, app, strings.Join([]string{
		"dashboard",
		"login admin secret",
		"whoami",
		"menu",
		"dashboard",
		"modules",
		"module sales",
		"toggle hr",
		"users",
		"orgs",
		"logout",
		"quit",
		"menu",
	}, "\n"), nil)

	assert.Contains(t, out, "not signed in (use 'login')")
	assert.Contains(t, out, "Signed in as admin")
	assert.Contains(t, out, "Welcome, admin User!")
	assert.Contains(t, out, "admin@atlasrep.com")
	assert.Contains(t, out, "Organization Management")
	assert.Contains(t, out, "SalesView")
	assert.Contains(t, out, "Human Resources")
	assert.Contains(t, out, "john.doe")
	assert.Contains(t, out, "Atlas Corporation")
	assert.Contains(t, out, "Signed out")

	assert.False(t, app.Auth.IsAuthenticated())
	assert.False(t, app.Settings.ModuleEnabled("hr"))
}

func TestREPL_LoginPrompts(t *testing.T) {
	t.Run("password reader", func(t *testing.T) {
		app := newTestApp(t, Options{})
		var prompted string
		read := func(prompt string) (string, error) {
			prompted = prompt
			return "hunter2", nil
		}

		runREPL(t, app, "login jane\n", read)
		assert.Equal(t, "Password: ", prompted)
		u, ok := app.Auth.CurrentUser()
		require.True(t, ok)
		assert.Equal(t, "jane", u.Username)
	})

	t.Run("line input", func(t *testing.T) {
		app := newTestApp(t, Options{})
		out := runREPL(t, app, "login\nbob\npw\n", nil)
		assert.Contains(t, out, "Username: ")
		assert.Contains(t, out, "Password: ")
		u, ok := app.Auth.CurrentUser()
		require.True(t, ok)
		assert.Equal(t, "bob", u.Username)
	})

	t.Run("blank password", func(t *testing.T) {
		app := newTestApp(t, Options{})
		out := runREPL(t, app, "login bob\n\n", nil)
		assert.Contains(t, out, "invalid username or password")
		assert.False(t, app.Auth.IsAuthenticated())
	})
}

func TestREPL_Errors(t *testing.T) {
	app := newTestApp(t, Options{})
	out := runREPL(t, app, "frobnicate\nlogin admin pw\nmodule\nmodule nope\ntoggle\nexit\n", nil)

	assert.Contains(t, out, `unknown command "frobnicate"`)
	assert.Contains(t, out, "usage: module <id>")
	assert.Contains(t, out, "module not found")
	assert.Contains(t, out, "usage: toggle <id>")
}

func TestREPL_HelpAndStats(t *testing.T) {
	app := newTestApp(t, Options{})
	out := runREPL(t, app, "help\nlogin admin pw\nstats\n", nil)

	for _, c := range replCommands {
		assert.Contains(t, out, c.usage)
	}
	assert.Contains(t, out, "atlas_login_attempts_total")
}

func TestREPL_Prompt(t *testing.T) {
	app := newTestApp(t, Options{})
	out := runREPL(t, app, "login jane pw\n", nil)
	assert.Contains(t, out, "atlas> ")
	assert.Contains(t, out, "atlas(jane)> ")
}

func TestREPL_ContextCanceled(t *testing.T) {
	app := newTestApp(t, Options{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	err := NewREPL(app, strings.NewReader("login admin pw\n"), &out, nil).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, app.Auth.IsAuthenticated())
}

func TestREPL_UserAdministration(t *testing.T) {
	app := newTestApp(t, Options{})
	before := app.Users.Len()

	out := runREPL(t, app, strings.Join([]string{
		"users add",
		"login admin pw",
		"users add",
		"users remove john.doe",
		"users remove ghost",
		"users frobnicate",
	}, "\n"), nil)

	assert.Contains(t, out, "not signed in")
	assert.Contains(t, out, "Added user user4 <user4@atlasrep.com>")
	assert.Contains(t, out, "Removed user john.doe")
	assert.Contains(t, out, "user not found")
	assert.Contains(t, out, "usage: users [add | remove <username>]")

	assert.Equal(t, before, app.Users.Len())
	assert.True(t, app.Users.Exists("user4"))
	assert.False(t, app.Users.Exists("john.doe"))
}

func TestREPL_OrganizationAdministration(t *testing.T) {
	app := newTestApp(t, Options{})
	beta := app.Orgs.List()[1]

	out := runREPL(t, app, strings.Join([]string{
		"login admin pw",
		"orgs add",
		"orgs remove " + beta.ID,
		"orgs remove nope",
		"orgs",
	}, "\n"), nil)

	assert.Contains(t, out, `Added organization "Organization 3"`)
	assert.Contains(t, out, "Removed organization "+beta.ID)
	assert.Contains(t, out, "organization not found")

	names := make([]string, 0, app.Orgs.Len())
	for _, o := range app.Orgs.List() {
		names = append(names, o.Name)
	}
	assert.Equal(t, []string{"Atlas Corporation", "Organization 3"}, names)
}

func TestREPL_Open(t *testing.T) {
	app := newTestApp(t, Options{})

	out := runREPL(t, app, strings.Join([]string{
		"open DashboardPage",
		"open LoginPage",
		"jane",
		"pw",
		"open 1",
		"open SalesView",
		"open SettingsPage",
		"open NoSuchPage",
		"open 99",
	}, "\n"), nil)

	assert.Contains(t, out, "not signed in")
	assert.Contains(t, out, "Signed in as jane")
	assert.Contains(t, out, "Organizations: 2 (2 active)")
	assert.Contains(t, out, "View:        SalesView")
	assert.Contains(t, out, "Session TTL:")
	assert.Contains(t, out, "unknown page: NoSuchPage")
	assert.Contains(t, out, "no menu item 99")
}

func TestREPL_ExpiredSession(t *testing.T) {
	now := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	app := newTestApp(t, Options{Now: func() time.Time { return now }})

	var out bytes.Buffer
	r := NewREPL(app, strings.NewReader(""), &out, nil)
	ctx := context.Background()

	require.NoError(t, r.Exec(ctx, []string{"login", "jane", "pw"}))
	require.NoError(t, r.Exec(ctx, []string{"whoami"}))

	now = now.Add(config.DefaultSessionTTL + time.Minute)
	err := r.Exec(ctx, []string{"whoami"})
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	assert.False(t, app.Auth.IsAuthenticated())
}
