package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/atlaserp/atlas/internal/shell"
)

var orgsCmd = &cobra.Command{
	Use:     "orgs",
	Aliases: []string{"org", "organizations"},
	GroupID: GroupAdmin,
	Short:   "Manage organizations",
	RunE:    requireSubcommand,
}

var orgsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show all organizations",
	Args:  cobra.NoArgs,
	RunE:  runOrgsList,
}

var orgsListJSON bool // --json

func init() {
	orgsListCmd.Flags().BoolVar(&orgsListJSON, "json", false, "Output as JSON")

	orgsCmd.AddCommand(withSignIn(orgsListCmd))
	rootCmd.AddCommand(orgsCmd)
}

func runOrgsList(cmd *cobra.Command, args []string) error {
	app, err := signedInApp(cmd)
	if err != nil {
		return err
	}
	orgs := app.Orgs.List()

	if orgsListJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(orgs)
	}
	shell.RenderOrganizations(cmd.OutOrStdout(), orgs)
	return nil
}
