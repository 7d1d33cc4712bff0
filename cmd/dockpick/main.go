package main

import (
	"errors"
	"os"

	"github.com/apex/log"
	"github.com/dockpick/dockpick/internal/cli/root"
	"github.com/dockpick/dockpick/internal/cli/version"

	_ "github.com/dockpick/dockpick/internal/cli/dns"
	_ "github.com/dockpick/dockpick/internal/cli/mirror"
)

func main() {
	root.Cmd.Version(version.Version)
	if _, err := root.Cmd.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, root.ErrNoEligibleEndpoints) {
			log.WithError(err).Error("nothing to select")
			os.Exit(2)
		}
		log.WithError(err).Error("main exit")
		os.Exit(1)
	}
}
