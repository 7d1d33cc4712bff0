// Package dns contains the dns subcommand.
package dns

import (
	"fmt"
	"os"

	"github.com/alecthomas/kingpin/v2"
	"github.com/apex/log"
	"github.com/dockpick/dockpick/internal/cli/root"
	"github.com/dockpick/dockpick/internal/endpointconf"
	"github.com/dockpick/dockpick/internal/model"
	"github.com/dockpick/dockpick/internal/output"
	"github.com/dockpick/dockpick/internal/ranker"
	"github.com/dockpick/dockpick/internal/scheduler"
	"github.com/dockpick/dockpick/internal/selector"
	"github.com/dockpick/dockpick/internal/sysapply"
	"github.com/dockpick/dockpick/internal/tester"
)

// defaultConfigPath is the default DNS endpoint source.
const defaultConfigPath = "conf/dns.json"

func init() {
	cmd := root.Command("dns", "Test DNS resolvers and configure the fastest one")

	cmd.Action(func(_ *kingpin.ParseContext) error {
		return run()
	})
}

func configPath() string {
	if *root.ConfigPath != "" {
		return *root.ConfigPath
	}
	return defaultConfigPath
}

func run() error {
	endpoints, err := endpointconf.LoadDNS(configPath())
	if err != nil {
		return err
	}
	log.Infof("testing %d DNS resolvers, %d general domains each",
		len(endpoints), len(tester.DefaultGeneralDomains))

	ctx, cancel := root.NewContext()
	defer cancel()

	bar := output.NewProgressBar(len(endpoints))
	sched := &scheduler.Scheduler{
		Tester:      &tester.DNSTester{},
		Parallelism: *root.Parallelism,
		Progress: func(o scheduler.Outcome) {
			bar.Describe(o.Endpoint.Name)
			_ = bar.Add(1)
			log.Debugf("%s: general %.0f%%, docker %.0f%%",
				o.Endpoint.Name, o.General.SuccessRate, o.Domain.SuccessRate)
		},
	}
	outcomes := sched.RunAll(ctx, endpoints)

	ranked := ranker.RankDNS(outcomes)
	log.WithFields(log.Fields{
		"tested":   len(outcomes),
		"eligible": len(ranked),
	}).Info("DNS testing complete")
	if len(ranked) == 0 {
		return root.ErrNoEligibleEndpoints
	}

	output.PrintDNSTable(os.Stdout, ranked)
	output.PrintDockerDetails(os.Stdout, ranked, 3)
	output.PrintDNSRecommendation(os.Stdout, ranked)

	sel := &selector.Selector{}
	selection := pick(sel, ranked)
	if selection.None() {
		log.Info("no resolver selected, keeping system defaults")
		return nil
	}
	chosen := selection.Endpoint
	log.Infof("selected %s (%s)", chosen.Endpoint.Name, chosen.Endpoint.Address)

	if *root.NoApply {
		return nil
	}
	if !*root.Batch {
		question := fmt.Sprintf("Apply %s (%s) to /etc/resolv.conf?",
			chosen.Endpoint.Name, chosen.Endpoint.Address)
		if !sel.Confirm(question) {
			log.Info("DNS settings not applied, keeping system defaults")
			return nil
		}
	}
	if err := sysapply.CheckRoot(); err != nil {
		return err
	}

	applier := &sysapply.DNSApplier{Logger: log.Log}
	if err := applier.Apply(chosen.Endpoint.Address, chosen.Endpoint.Secondary); err != nil {
		return err
	}
	log.Info("DNS settings applied and verified")
	return nil
}

// pick returns the operator's choice, or the top ranked endpoint when
// running in batch mode.
func pick(sel *selector.Selector, ranked []model.RankedEndpoint) model.Selection {
	if *root.Batch {
		return model.Selection{Endpoint: &ranked[0]}
	}
	return sel.Choose(ranked)
}
