package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/atlaserp/atlas/internal/shell"
	"github.com/atlaserp/atlas/internal/style"
)

var modulesCmd = &cobra.Command{
	Use:     "modules",
	Aliases: []string{"module"},
	GroupID: GroupAdmin,
	Short:   "Inspect and manage feature modules",
	Long: `Inspect and manage the feature modules registered with AtlasERP.

Viewing or changing modules needs a signed-in user: pass --username and
--password (or the password on stdin).

Examples:
  atlas modules list -u admin          # Modules in display order
  atlas modules show sales -u admin    # One module's details
  atlas modules init                   # Run every initialization hook
  atlas modules toggle hr -u admin     # Enable or disable a module`,
	RunE: requireSubcommand,
}

var modulesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List modules in display order",
	Args:  cobra.NoArgs,
	RunE:  runModulesList,
}

var modulesShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one module",
	Args:  cobra.ExactArgs(1),
	RunE:  runModulesShow,
}

var modulesInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Run every module's initialization hook",
	Long: `Run every module's initialization hook in registration order.

A failing hook is reported and does not stop the others. The command exits
non-zero when any hook failed.`,
	Args: cobra.NoArgs,
	RunE: runModulesInit,
}

var modulesToggleCmd = &cobra.Command{
	Use:   "toggle <id>",
	Short: "Enable or disable a module",
	Long: `Flip a module's enabled flag in settings.

The flag only affects module management views; the module stays registered.`,
	Args: cobra.ExactArgs(1),
	RunE: runModulesToggle,
}

var modulesJSON bool // --json

func init() {
	modulesListCmd.Flags().BoolVar(&modulesJSON, "json", false, "Output as JSON")

	modulesCmd.AddCommand(withSignIn(modulesListCmd))
	modulesCmd.AddCommand(withSignIn(modulesShowCmd))
	modulesCmd.AddCommand(modulesInitCmd)
	modulesCmd.AddCommand(withSignIn(modulesToggleCmd))
	rootCmd.AddCommand(modulesCmd)
}

func runModulesList(cmd *cobra.Command, args []string) error {
	app, err := signedInApp(cmd)
	if err != nil {
		return err
	}
	infos := app.ModuleStates()

	if modulesJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(infos)
	}
	shell.RenderModules(cmd.OutOrStdout(), infos)
	return nil
}

func runModulesShow(cmd *cobra.Command, args []string) error {
	app, err := signedInApp(cmd)
	if err != nil {
		return err
	}
	info, err := app.ModuleState(args[0])
	if err != nil {
		return err
	}
	shell.RenderModule(cmd.OutOrStdout(), info)
	return nil
}

func runModulesInit(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}

	report, err := app.Start(cmd.Context())
	out := cmd.OutOrStdout()
	for _, res := range report.Results {
		if res.OK() {
			fmt.Fprintf(out, "%s %s %s\n", style.SuccessPrefix, res.ModuleID, style.Dim.Render(res.Duration.String()))
			continue
		}
		fmt.Fprintf(out, "%s %s: %v\n", style.ErrorPrefix, res.ModuleID, res.Err.Err)
	}
	if err != nil {
		return fmt.Errorf("%d of %d modules failed to initialize", len(report.Failed()), len(report.Results))
	}
	return nil
}

func runModulesToggle(cmd *cobra.Command, args []string) error {
	app, err := signedInApp(cmd)
	if err != nil {
		return err
	}
	enabled, err := app.ToggleModule(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s is now %s\n", style.SuccessPrefix, args[0], style.Enabled(enabled))
	return nil
}
