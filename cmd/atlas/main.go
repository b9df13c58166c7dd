// Atlas is the AtlasERP command-line shell.
package main

import (
	"os"

	"github.com/atlaserp/atlas/internal/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
