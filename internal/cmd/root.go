// Package cmd provides the atlas command tree.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/atlaserp/atlas/internal/config"
	"github.com/atlaserp/atlas/internal/logger"
	"github.com/atlaserp/atlas/internal/shell"
	"github.com/atlaserp/atlas/internal/style"
)

// Command groups.
const (
	GroupSession = "session"
	GroupAdmin   = "admin"
	GroupSystem  = "system"
)

var rootCmd = &cobra.Command{
	Use:   "atlas",
	Short: "AtlasERP application shell",
	Long: `AtlasERP is a modular business management shell.

Feature modules (Inventory, Sales, Accounting, Human Resources) plug into a
shared registry. Sign in to reach the dashboard, the administration pages and
the module views.

Examples:
  atlas shell                     # Interactive session
  atlas login --username admin    # One-shot sign-in, prints a session token
  atlas modules list -u admin     # Show registered modules`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

var (
	homeFlag     string // --home: application home directory
	logLevelFlag string // --log-level: overrides settings log_level

	authUsername string // --username on commands that open a page
	authPassword string // --password on commands that open a page
)

// env is the per-invocation state built by setup.
var env struct {
	home     string
	settings *config.Settings
	log      logger.Logger
}

func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: GroupSession, Title: "Session:"},
		&cobra.Group{ID: GroupAdmin, Title: "Administration:"},
		&cobra.Group{ID: GroupSystem, Title: "System:"},
	)
	rootCmd.SetHelpCommandGroupID(GroupSystem)
	rootCmd.SetCompletionCommandGroupID(GroupSystem)

	rootCmd.PersistentFlags().StringVar(&homeFlag, "home", "", "Application home (default $"+config.EnvHome+" or ~/.atlaserp)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level: debug, info, warn, error")
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	err := rootCmd.Execute()
	if env.log != nil {
		_ = env.log.Sync()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", style.ErrorPrefix, err)
		return 1
	}
	return 0
}

// setup resolves the home directory, loads settings and builds the logger.
func setup(cmd *cobra.Command, args []string) error {
	home, err := config.ResolveHome(homeFlag)
	if err != nil {
		return err
	}
	settings, err := config.Load(home)
	if err != nil {
		return err
	}

	level := settings.LogLevel
	if logLevelFlag != "" {
		level = logLevelFlag
	}
	lggr, err := logger.New(level)
	if err != nil {
		return err
	}

	env.home = home
	env.settings = settings
	env.log = lggr.With("cmd", cmd.CommandPath())
	cmd.SetContext(logger.WithLogger(cmd.Context(), env.log))
	return nil
}

func newApp() (*shell.App, error) {
	return shell.New(shell.Options{
		Home:     env.home,
		Settings: env.settings,
		Logger:   env.log,
	})
}

// withSignIn adds the credential flags used by signedInApp to c.
func withSignIn(c *cobra.Command) *cobra.Command {
	c.Flags().StringVarP(&authUsername, "username", "u", "", "Sign in as this user (required)")
	c.Flags().StringVarP(&authPassword, "password", "p", "", "Password (read from stdin when omitted)")
	return c
}

// signedInApp builds an App and signs in with the --username/--password
// flags. Every page except login needs a signed-in user.
func signedInApp(cmd *cobra.Command) (*shell.App, error) {
	if authUsername == "" {
		return nil, fmt.Errorf("%w: pass --username", shell.ErrNotAuthenticated)
	}
	password := authPassword
	if password == "" {
		var err error
		password, err = readPassword(cmd.InOrStdin(), cmd.ErrOrStderr(), "Password: ")
		if err != nil {
			return nil, fmt.Errorf("reading password: %w", err)
		}
	}

	app, err := newApp()
	if err != nil {
		return nil, err
	}
	if _, err := app.Login(cmd.Context(), authUsername, password); err != nil {
		return nil, err
	}
	if err := app.RequireAuth(cmd.Context()); err != nil {
		return nil, err
	}
	return app, nil
}

// requireSubcommand is the RunE of parent commands that do nothing alone.
func requireSubcommand(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("requires a subcommand\n\nRun '%s --help' for usage", cmd.CommandPath())
	}
	return fmt.Errorf("unknown command %q for %q\n\nRun '%s --help' for usage",
		args[0], cmd.CommandPath(), cmd.CommandPath())
}
