// Package version contains the version subcommand.
package version

import (
	"fmt"

	"github.com/alecthomas/kingpin/v2"
	"github.com/dockpick/dockpick/internal/cli/root"
)

// Version is the software version.
const Version = "0.2.0"

func init() {
	cmd := root.Command("version", "Print the dockpick version")

	cmd.Action(func(_ *kingpin.ParseContext) error {
		fmt.Println(Version)
		return nil
	})
}
