package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/atlaserp/atlas/internal/shell"
	"github.com/atlaserp/atlas/internal/style"
)

var loginCmd = &cobra.Command{
	Use:     "login",
	GroupID: GroupSession,
	Short:   "Sign in and print a session token",
	Long: `Sign in once and print the signed-in user and a session token.

Any non-blank username and password are accepted. The username "admin"
(any case) gets the Admin role, every other name gets the User role.

When --password is omitted the password is read from the terminal without
echo, or from the first line of standard input when it is not a terminal.

The token is signed with the [session] secret from settings.toml. When no
secret is configured a random key is used for each run, so the printed
token only verifies within that run.

Examples:
  atlas login --username admin
  echo secret | atlas login --username jane`,
	Args: cobra.NoArgs,
	RunE: runLogin,
}

func init() {
	rootCmd.AddCommand(withSignIn(loginCmd))
}

func runLogin(cmd *cobra.Command, args []string) error {
	password := authPassword
	if password == "" {
		var err error
		password, err = readPassword(cmd.InOrStdin(), cmd.ErrOrStderr(), "Password: ")
		if err != nil {
			return fmt.Errorf("reading password: %w", err)
		}
	}

	app, err := newApp()
	if err != nil {
		return err
	}
	u, err := app.Login(cmd.Context(), authUsername, password)
	if err != nil {
		return err
	}
	sess, _ := app.Auth.Session()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s %s\n", style.SuccessPrefix, app.Welcome())
	fmt.Fprintf(out, "  Username: %s\n", u.Username)
	fmt.Fprintf(out, "  Email:    %s\n", u.Email)
	fmt.Fprintf(out, "  Role:     %s\n", style.Role(u.Role))
	fmt.Fprintf(out, "  Expires:  %s\n", sess.ExpiresAt.Format("2006-01-02 15:04 MST"))
	fmt.Fprintf(out, "  Token:    %s\n", sess.Token)
	return nil
}

// readPassword reads without echo when in is a terminal, otherwise it reads
// one line.
func readPassword(in io.Reader, prompt io.Writer, label string) (string, error) {
	if read := terminalPasswordReader(in, prompt); read != nil {
		return read(label)
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// terminalPasswordReader returns a no-echo password reader for the shell,
// or nil when stdin is not a terminal.
func terminalPasswordReader(in io.Reader, prompt io.Writer) shell.PasswordReader {
	f, ok := in.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return nil
	}
	return func(label string) (string, error) {
		fmt.Fprint(prompt, label)
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(prompt)
		return string(b), err
	}
}
