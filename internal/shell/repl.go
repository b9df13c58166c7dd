package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/atlaserp/atlas/internal/style"
	"github.com/atlaserp/atlas/internal/telemetry"
)

// PasswordReader reads a password after printing prompt, without echo when
// the input is a terminal.
type PasswordReader func(prompt string) (string, error)

// errQuit ends the read loop.
var errQuit = errors.New("quit")

// REPL is a line-oriented session over an App. The signed-in user lives in
// the App for as long as the REPL runs.
type REPL struct {
	app          *App
	in           *bufio.Scanner
	out          io.Writer
	readPassword PasswordReader
}

// NewREPL creates a REPL reading commands from in. A nil readPassword reads
// the password as the next input line.
func NewREPL(app *App, in io.Reader, out io.Writer, readPassword PasswordReader) *REPL {
	return &REPL{
		app:          app,
		in:           bufio.NewScanner(in),
		out:          out,
		readPassword: readPassword,
	}
}

type replCommand struct {
	name  string
	usage string
	help  string
	auth  bool
	run   func(r *REPL, ctx context.Context, args []string) error
}

var replCommands []replCommand

func init() {
	replCommands = []replCommand{
		{"login", "login [username] [password]", "Sign in", false, (*REPL).login},
		{"logout", "logout", "Sign out", false, (*REPL).logout},
		{"whoami", "whoami", "Show the signed-in user", true, (*REPL).whoami},
		{"menu", "menu", "Show the main menu", true, (*REPL).menu},
		{"open", "open <page|number>", "Open a page from the menu", false, (*REPL).open},
		{"dashboard", "dashboard", "Show the dashboard", true, (*REPL).dashboard},
		{"modules", "modules", "List modules", true, (*REPL).modules},
		{"module", "module <id>", "Show one module", true, (*REPL).module},
		{"toggle", "toggle <id>", "Enable or disable a module", true, (*REPL).toggle},
		{"users", "users [add | remove <username>]", "List, add or remove users", true, (*REPL).users},
		{"orgs", "orgs [add | remove <id>]", "List, add or remove organizations", true, (*REPL).orgs},
		{"stats", "stats", "Show session metrics", false, (*REPL).stats},
		{"help", "help", "Show this help", false, (*REPL).help},
		{"quit", "quit", "Leave the shell", false, (*REPL).quit},
	}
}

// Run reads and executes commands until quit, end of input or ctx is done.
// Command errors are printed and do not end the session.
func (r *REPL) Run(ctx context.Context) error {
	fmt.Fprintln(r.out, style.Title.Render("AtlasERP"))
	fmt.Fprintln(r.out, style.Dim.Render("Type 'help' for commands, 'login' to sign in."))

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(r.out, r.prompt())
		if !r.in.Scan() {
			fmt.Fprintln(r.out)
			return r.in.Err()
		}

		err := r.Exec(ctx, strings.Fields(r.in.Text()))
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			fmt.Fprintf(r.out, "%s %v\n", style.ErrorPrefix, err)
		}
	}
}

// Exec runs one command.
func (r *REPL) Exec(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return nil
	}
	name := strings.ToLower(args[0])
	if name == "exit" {
		name = "quit"
	}
	for _, c := range replCommands {
		if c.name != name {
			continue
		}
		if c.auth {
			if err := r.app.RequireAuth(ctx); err != nil {
				return fmt.Errorf("%w (use 'login')", err)
			}
		}
		return c.run(r, ctx, args[1:])
	}
	return fmt.Errorf("unknown command %q (try 'help')", args[0])
}

func (r *REPL) prompt() string {
	if u, ok := r.app.Auth.CurrentUser(); ok {
		return fmt.Sprintf("atlas(%s)> ", u.Username)
	}
	return "atlas> "
}

func (r *REPL) readLine(prompt string) (string, error) {
	fmt.Fprint(r.out, prompt)
	if !r.in.Scan() {
		if err := r.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(r.in.Text()), nil
}

func (r *REPL) login(ctx context.Context, args []string) error {
	var username, password string
	var err error

	if len(args) > 0 {
		username = args[0]
	} else if username, err = r.readLine("Username: "); err != nil {
		return err
	}

	switch {
	case len(args) > 1:
		password = args[1]
	case r.readPassword != nil:
		if password, err = r.readPassword("Password: "); err != nil {
			return err
		}
	default:
		if password, err = r.readLine("Password: "); err != nil {
			return err
		}
	}

	u, err := r.app.Login(ctx, username, password)
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "%s Signed in as %s (%s)\n", style.SuccessPrefix, u.Username, style.Role(u.Role))
	fmt.Fprintln(r.out, style.Bold.Render(r.app.Welcome()))
	return nil
}

func (r *REPL) logout(ctx context.Context, _ []string) error {
	if !r.app.Auth.IsAuthenticated() {
		fmt.Fprintln(r.out, style.Dim.Render("Not signed in."))
		return nil
	}
	r.app.Logout(ctx)
	fmt.Fprintf(r.out, "%s Signed out\n", style.SuccessPrefix)
	return nil
}

func (r *REPL) whoami(_ context.Context, _ []string) error {
	u, _ := r.app.Auth.CurrentUser()
	sess, _ := r.app.Auth.Session()

	tw := tabwriter.NewWriter(r.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Username:\t%s\n", u.Username)
	fmt.Fprintf(tw, "Name:\t%s\n", u.FullName())
	fmt.Fprintf(tw, "Email:\t%s\n", u.Email)
	fmt.Fprintf(tw, "Role:\t%s\n", style.Role(u.Role))
	fmt.Fprintf(tw, "Session expires:\t%s\n", sess.ExpiresAt.Format(timeLayout))
	return tw.Flush()
}

func (r *REPL) menu(_ context.Context, _ []string) error {
	RenderMenu(r.out, r.app.Menu())
	return nil
}

// open resolves a page name or a 1-based menu position and shows the page.
func (r *REPL) open(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: open <page|number>")
	}
	page := args[0]
	if n, err := strconv.Atoi(page); err == nil {
		items := r.app.Menu()
		if n < 1 || n > len(items) {
			return fmt.Errorf("%w: no menu item %d", ErrUnknownPage, n)
		}
		page = items[n-1].Page
	}

	item, err := r.app.Navigate(ctx, page)
	if err != nil {
		return err
	}

	switch item.Page {
	case PageLogin:
		return r.login(ctx, nil)
	case PageDashboard:
		return r.dashboard(ctx, nil)
	case PageUsers:
		return r.users(ctx, nil)
	case PageOrganizations:
		return r.orgs(ctx, nil)
	case PageModules:
		return r.modules(ctx, nil)
	case PageSettings:
		return r.settings(ctx, nil)
	}
	for _, info := range r.app.ModuleStates() {
		if info.MainView == item.Page {
			RenderModule(r.out, info)
			return nil
		}
	}
	return nil
}

func (r *REPL) settings(_ context.Context, _ []string) error {
	fmt.Fprintln(r.out, style.Title.Render("Settings"))
	tw := tabwriter.NewWriter(r.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Language:\t%s\n", r.app.Settings.Language)
	fmt.Fprintf(tw, "Log level:\t%s\n", r.app.Settings.LogLevel)
	fmt.Fprintf(tw, "Session TTL:\t%s\n", r.app.Settings.SessionTTL())
	fmt.Fprintf(tw, "Notifications:\t%s\n", style.Enabled(r.app.Notifier.Enabled()))
	return tw.Flush()
}

func (r *REPL) dashboard(ctx context.Context, _ []string) error {
	d, err := r.app.Dashboard(ctx)
	if err != nil {
		return err
	}
	RenderDashboard(r.out, r.app.Welcome(), d)
	return nil
}

func (r *REPL) modules(_ context.Context, _ []string) error {
	RenderModules(r.out, r.app.ModuleStates())
	return nil
}

func (r *REPL) module(_ context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: module <id>")
	}
	info, err := r.app.ModuleState(args[0])
	if err != nil {
		return err
	}
	RenderModule(r.out, info)
	return nil
}

func (r *REPL) toggle(_ context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: toggle <id>")
	}
	enabled, err := r.app.ToggleModule(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "%s %s is now %s\n", style.SuccessPrefix, args[0], style.Enabled(enabled))
	return nil
}

func (r *REPL) users(_ context.Context, args []string) error {
	switch {
	case len(args) == 0 || (len(args) == 1 && args[0] == "list"):
		RenderUsers(r.out, r.app.Users.List())
		return nil
	case len(args) == 1 && args[0] == "add":
		u, err := r.app.Users.NewPlaceholder()
		if err != nil {
			return err
		}
		fmt.Fprintf(r.out, "%s Added user %s <%s>\n", style.SuccessPrefix, u.Username, u.Email)
		return nil
	case len(args) == 2 && args[0] == "remove":
		if err := r.app.Users.Remove(args[1]); err != nil {
			return err
		}
		fmt.Fprintf(r.out, "%s Removed user %s\n", style.SuccessPrefix, args[1])
		return nil
	}
	return errors.New("usage: users [add | remove <username>]")
}

func (r *REPL) orgs(_ context.Context, args []string) error {
	switch {
	case len(args) == 0 || (len(args) == 1 && args[0] == "list"):
		RenderOrganizations(r.out, r.app.Orgs.List())
		return nil
	case len(args) == 1 && args[0] == "add":
		o := r.app.Orgs.NewPlaceholder()
		fmt.Fprintf(r.out, "%s Added organization %q (%s)\n", style.SuccessPrefix, o.Name, o.ID)
		return nil
	case len(args) == 2 && args[0] == "remove":
		if err := r.app.Orgs.Remove(args[1]); err != nil {
			return err
		}
		fmt.Fprintf(r.out, "%s Removed organization %s\n", style.SuccessPrefix, args[1])
		return nil
	}
	return errors.New("usage: orgs [add | remove <id>]")
}

func (r *REPL) stats(_ context.Context, _ []string) error {
	samples, err := telemetry.Snapshot()
	if err != nil {
		return err
	}
	RenderStats(r.out, samples)
	return nil
}

func (r *REPL) help(_ context.Context, _ []string) error {
	tw := tabwriter.NewWriter(r.out, 0, 0, 2, ' ', 0)
	for _, c := range replCommands {
		fmt.Fprintf(tw, "  %s\t%s\n", c.usage, c.help)
	}
	return tw.Flush()
}

func (r *REPL) quit(_ context.Context, _ []string) error {
	return errQuit
}
