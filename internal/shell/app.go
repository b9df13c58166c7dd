// Package shell wires the AtlasERP components into one application session:
// module registry, sign-in service, administration directories and settings.
package shell

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/atlaserp/atlas/internal/auth"
	"github.com/atlaserp/atlas/internal/config"
	"github.com/atlaserp/atlas/internal/logger"
	"github.com/atlaserp/atlas/internal/module"
	"github.com/atlaserp/atlas/internal/modules"
	"github.com/atlaserp/atlas/internal/notify"
	"github.com/atlaserp/atlas/internal/org"
	"github.com/atlaserp/atlas/internal/user"
)

// ErrNotAuthenticated is returned when a page needs a signed-in user.
var ErrNotAuthenticated = errors.New("not signed in")

// App is one application session. It owns the current-user state through
// its auth.Service.
type App struct {
	Modules  *module.Registry
	Auth     *auth.Service
	Users    *user.Directory
	Orgs     *org.Directory
	Settings *config.Settings
	Notifier *notify.Client

	home string
	log  logger.Logger
}

// Options configures New.
type Options struct {
	// Home is where settings are saved. Empty keeps settings in memory.
	Home string

	// Settings defaults to config.Default().
	Settings *config.Settings

	// Logger defaults to a no-op logger.
	Logger logger.Logger

	// Modules are registered instead of the built-ins when non-nil.
	Modules []module.Module

	// Now overrides the session clock.
	Now func() time.Time
}

// New builds an App with sample administration data.
func New(opts Options) (*App, error) {
	settings := opts.Settings
	if settings == nil {
		settings = config.Default()
	}
	lggr := opts.Logger
	if lggr == nil {
		lggr = logger.Nop()
	}

	svc, err := auth.NewService(auth.Options{
		Secret: []byte(settings.Session.Secret),
		TTL:    settings.SessionTTL(),
		Now:    opts.Now,
	})
	if err != nil {
		return nil, err
	}

	reg := module.NewRegistry()
	if opts.Modules != nil {
		for _, m := range opts.Modules {
			if !reg.Register(m) {
				lggr.Debugw("skipping duplicate module", "module", m.ID())
			}
		}
	} else {
		modules.RegisterBuiltins(reg)
	}

	notifyCfg := settings.Notify
	return &App{
		Modules:  reg,
		Auth:     svc,
		Users:    user.NewSampleDirectory(),
		Orgs:     org.NewSampleDirectory(),
		Settings: settings,
		Notifier: notify.NewClient(&notifyCfg),
		home:     opts.Home,
		log:      lggr,
	}, nil
}

// Context attaches the app logger to ctx.
func (a *App) Context(ctx context.Context) context.Context {
	return logger.WithLogger(ctx, a.log)
}

// Start runs every module's initialization hook. Failed modules are
// reported and announced but do not stop the others.
func (a *App) Start(ctx context.Context) (*module.InitReport, error) {
	ctx = a.Context(ctx)
	report, err := a.Modules.InitializeAll(ctx)
	for _, res := range report.Failed() {
		a.Notifier.Notify(ctx, notify.EventModuleInitFailed, map[string]string{
			notify.FieldModule: res.ModuleID,
			notify.FieldError:  res.Err.Err.Error(),
		})
	}
	return report, err
}

// Login signs a user in.
func (a *App) Login(ctx context.Context, username, password string) (*user.User, error) {
	ctx = a.Context(ctx)
	u, err := a.Auth.Authenticate(ctx, username, password)
	if err != nil {
		return nil, err
	}
	a.Notifier.Notify(ctx, notify.EventLogin, map[string]string{
		notify.FieldUser: u.Username,
		notify.FieldRole: u.Role,
	})
	return u, nil
}

// Logout signs the current user out. Calling it while signed out is a no-op.
func (a *App) Logout(ctx context.Context) {
	ctx = a.Context(ctx)
	u, ok := a.Auth.CurrentUser()
	a.Auth.Logout(ctx)
	if ok {
		a.Notifier.Notify(ctx, notify.EventLogout, map[string]string{
			notify.FieldUser: u.Username,
			notify.FieldRole: u.Role,
		})
	}
}

// RequireAuth returns ErrNotAuthenticated unless a user is signed in with a
// session token that still verifies. An expired session is signed out.
func (a *App) RequireAuth(ctx context.Context) error {
	err := a.Auth.CheckSession(a.Context(ctx))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, auth.ErrNoSession):
		return ErrNotAuthenticated
	default:
		return fmt.Errorf("%w: %w", ErrNotAuthenticated, err)
	}
}

// Welcome returns the greeting for the signed-in user, or "".
func (a *App) Welcome() string {
	u, ok := a.Auth.CurrentUser()
	if !ok {
		return ""
	}
	return fmt.Sprintf("Welcome, %s!", u.FullName())
}

// Dashboard summarizes the administration data.
type Dashboard struct {
	Users               int
	Organizations       int
	ActiveOrganizations int
	Modules             int
	EnabledModules      int
}

// Dashboard returns the summary counts. Requires a signed-in user.
func (a *App) Dashboard(ctx context.Context) (Dashboard, error) {
	if err := a.RequireAuth(ctx); err != nil {
		return Dashboard{}, err
	}

	d := Dashboard{
		Users:               a.Users.Len(),
		Organizations:       a.Orgs.Len(),
		ActiveOrganizations: a.Orgs.ActiveCount(),
		Modules:             a.Modules.Len(),
	}
	for _, info := range a.ModuleStates() {
		if info.Enabled {
			d.EnabledModules++
		}
	}
	return d, nil
}

// ModuleStates returns module descriptors in display order with Enabled
// taken from settings.
func (a *App) ModuleStates() []module.Info {
	infos := a.Modules.Infos()
	for i := range infos {
		infos[i].Enabled = a.Settings.ModuleEnabled(infos[i].ID)
	}
	return infos
}

// ModuleState returns one module's descriptor with Enabled taken from
// settings.
func (a *App) ModuleState(id string) (module.Info, error) {
	m, err := a.Modules.Get(id)
	if err != nil {
		return module.Info{}, err
	}
	info := module.Describe(m)
	info.Enabled = a.Settings.ModuleEnabled(id)
	return info, nil
}

// ToggleModule flips a module's enabled flag, saves settings when the app
// has a home, and returns the new value.
func (a *App) ToggleModule(id string) (bool, error) {
	if _, err := a.Modules.Get(id); err != nil {
		return false, err
	}
	enabled := a.Settings.ToggleModule(id)
	if a.home != "" {
		if err := config.Save(a.home, a.Settings); err != nil {
			return enabled, fmt.Errorf("saving settings: %w", err)
		}
	}
	a.log.Infow("module toggled", "module", id, "enabled", enabled)
	return enabled, nil
}

// SetLanguage changes the UI language and saves settings when the app has
// a home.
func (a *App) SetLanguage(code string) error {
	if err := a.Settings.SetLanguage(code); err != nil {
		return err
	}
	if a.home != "" {
		if err := config.Save(a.home, a.Settings); err != nil {
			return fmt.Errorf("saving settings: %w", err)
		}
	}
	return nil
}
