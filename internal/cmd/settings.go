package cmd

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/atlaserp/atlas/internal/config"
	"github.com/atlaserp/atlas/internal/style"
)

var settingsCmd = &cobra.Command{
	Use:     "settings",
	GroupID: GroupSystem,
	Short:   "Show or change settings",
	Long: `Show or change the AtlasERP settings file.

Settings live in settings.toml under the application home (--home,
$ATLAS_HOME or ~/.atlaserp).

Examples:
  atlas settings show -u admin          # Print effective settings
  atlas settings language ro -u admin   # Switch the UI language`,
	RunE: requireSubcommand,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print effective settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsShow,
}

var settingsLanguageCmd = &cobra.Command{
	Use:   "language <code>",
	Short: "Set the UI language (en, ro, es)",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsLanguage,
}

func init() {
	settingsCmd.AddCommand(withSignIn(settingsShowCmd))
	settingsCmd.AddCommand(withSignIn(settingsLanguageCmd))
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, args []string) error {
	app, err := signedInApp(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s %s\n\n", style.Dim.Render("#"), style.Dim.Render(config.Path(env.home)))

	shown := *app.Settings
	if shown.Session.Secret != "" {
		shown.Session.Secret = "********"
	}
	return toml.NewEncoder(out).Encode(shown)
}

func runSettingsLanguage(cmd *cobra.Command, args []string) error {
	app, err := signedInApp(cmd)
	if err != nil {
		return err
	}
	if err := app.SetLanguage(args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s Language set to %s\n", style.SuccessPrefix, app.Settings.Language)
	return nil
}
