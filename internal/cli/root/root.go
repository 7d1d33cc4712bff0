// Package root contains the root command.
package root

import (
	"context"
	"errors"

	"github.com/alecthomas/kingpin/v2"
	"github.com/apex/log"
	"github.com/apex/log/handlers/cli"
)

// Cmd is the root command.
var Cmd = kingpin.New("dockpick", "Probes DNS resolvers and Docker registry mirrors, ranks them by latency and reliability, and applies your pick to the system.")

// Command is syntax sugar for defining sub-commands.
var Command = Cmd.Command

// ErrNoEligibleEndpoints indicates that no endpoint passed the eligibility
// threshold. The process exits with an advisory nonzero status.
var ErrNoEligibleEndpoints = errors.New("no eligible endpoints found")

// Shared flags available to every subcommand.
var (
	// ConfigPath overrides the endpoint source path.
	ConfigPath = Cmd.Flag("config", "Set a custom endpoint config file path").Short('c').String()

	// Batch skips interaction and picks the top ranked endpoint.
	Batch = Cmd.Flag("batch", "Non-interactive mode: select the top ranked endpoint").Bool()

	// NoApply ranks and prints without touching system configuration.
	NoApply = Cmd.Flag("no-apply", "Rank and print results without applying anything").Bool()

	// Timeout bounds the whole scheduling run; zero means no bound.
	Timeout = Cmd.Flag("timeout", "Overall deadline for testing all endpoints").Duration()

	// Parallelism caps the number of endpoints tested concurrently.
	Parallelism = Cmd.Flag("parallelism", "Maximum number of endpoints tested concurrently").Default("5").Int()

	verbose = Cmd.Flag("verbose", "Enable verbose log output.").Short('v').Bool()
)

func init() {
	Cmd.PreAction(func(_ *kingpin.ParseContext) error {
		log.SetHandler(cli.Default)
		if *verbose {
			log.SetLevel(log.DebugLevel)
		}
		return nil
	})
}

// NewContext creates the context for a scheduling run, honoring the
// --timeout flag. The cancel function must always be called.
func NewContext() (context.Context, context.CancelFunc) {
	if *Timeout > 0 {
		return context.WithTimeout(context.Background(), *Timeout)
	}
	return context.WithCancel(context.Background())
}
