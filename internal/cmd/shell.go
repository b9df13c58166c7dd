package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/atlaserp/atlas/internal/shell"
	"github.com/atlaserp/atlas/internal/style"
)

var shellCmd = &cobra.Command{
	Use:     "shell",
	GroupID: GroupSession,
	Short:   "Start an interactive session",
	Long: `Start an interactive AtlasERP session.

All modules are initialized first; a failing module is reported and the
others stay available. The signed-in user is kept for the life of the
session. Type 'help' inside the shell for the command list.`,
	Args: cobra.NoArgs,
	RunE: runShell,
}

func init() {
	rootCmd.AddCommand(shellCmd)
}

func runShell(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}

	report, err := app.Start(cmd.Context())
	if err != nil {
		for _, res := range report.Failed() {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s %v\n", style.WarningPrefix, res.Err)
		}
	}

	readPassword := terminalPasswordReader(cmd.InOrStdin(), cmd.ErrOrStderr())
	return shell.NewREPL(app, cmd.InOrStdin(), cmd.OutOrStdout(), readPassword).Run(cmd.Context())
}
