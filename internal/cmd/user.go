package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/atlaserp/atlas/internal/shell"
)

var userCmd = &cobra.Command{
	Use:     "users",
	Aliases: []string{"user"},
	GroupID: GroupAdmin,
	Short:   "Manage users",
	Long: `Show the users known to AtlasERP.

Examples:
  atlas users list -u admin          # Show all users
  atlas users list -u admin --json   # Machine-readable output`,
	RunE: requireSubcommand,
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show all users",
	Args:  cobra.NoArgs,
	RunE:  runUserList,
}

var userListJSON bool // --json

func init() {
	userListCmd.Flags().BoolVar(&userListJSON, "json", false, "Output as JSON")

	userCmd.AddCommand(withSignIn(userListCmd))
	rootCmd.AddCommand(userCmd)
}

func runUserList(cmd *cobra.Command, args []string) error {
	app, err := signedInApp(cmd)
	if err != nil {
		return err
	}
	users := app.Users.List()

	if userListJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(users)
	}
	shell.RenderUsers(cmd.OutOrStdout(), users)
	return nil
}
