// Package mirror contains the mirror subcommand.
package mirror

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

// defaultConfigPath is the default registry mirror source.
const defaultConfigPath = "conf/docker.json"

func init() {
	cmd := root.Command("mirror", "Test Docker registry mirrors and configure the fastest one")

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
	if !*root.NoApply {
		if err := sysapply.CheckRoot(); err != nil {
			return err
		}
	}
	if err := sysapply.CheckDockerRunning(); err != nil {
		return err
	}

	endpoints, err := endpointconf.LoadRegistry(configPath())
	if err != nil {
		return err
	}
	log.Infof("testing %d registry mirrors", len(endpoints))

	ctx, cancel := root.NewContext()
	defer cancel()

	bar := output.NewProgressBar(len(endpoints))
	sched := &scheduler.Scheduler{
		Tester:      &tester.RegistryTester{},
		Parallelism: *root.Parallelism,
		Progress: func(o scheduler.Outcome) {
			bar.Describe(o.Endpoint.Name)
			_ = bar.Add(1)
			log.Debugf("%s: connectivity %v, hub %v",
				o.Endpoint.Name, o.General.Working, o.Domain.Working)
		},
	}
	outcomes := sched.RunAll(ctx, endpoints)

	ranked, failed := ranker.RankRegistry(outcomes)
	log.WithFields(log.Fields{
		"tested":  len(outcomes),
		"working": len(ranked),
		"failed":  len(failed),
	}).Info("mirror testing complete")

	output.PrintRegistryTable(os.Stdout, ranked, failed)
	if len(ranked) == 0 {
		return root.ErrNoEligibleEndpoints
	}
	if current, err := sysapply.CurrentRegistryMirrors(); err != nil {
		log.Warnf("cannot read current docker configuration: %s", err)
	} else {
		output.PrintCurrentMirrors(os.Stdout, current)
	}
	output.PrintRegistryRecommendation(os.Stdout, ranked)

	sel := &selector.Selector{AllowSkip: true}
	selection := pick(sel, ranked)
	if selection.None() {
		log.Info("no mirror selected, keeping current configuration")
		return nil
	}
	chosen := selection.Endpoint
	log.Infof("selected %s (%s), score %.2fs",
		chosen.Endpoint.Name, chosen.Endpoint.Address, chosen.Score)

	if *root.NoApply {
		return nil
	}
	if !*root.Batch {
		question := fmt.Sprintf("Configure docker to use %s (%s)?",
			chosen.Endpoint.Name, chosen.Endpoint.Address)
		if !sel.Confirm(question) {
			log.Info("configuration cancelled, keeping current settings")
			return nil
		}
	}

	applier := &sysapply.RegistryApplier{Logger: log.Log}
	if err := applier.Apply(chosen.Endpoint.Address, chosen.Endpoint.Insecure); err != nil {
		return err
	}
	log.Info("docker daemon configured and restarted")
	return nil
}

// pick returns the operator's choice, or the top ranked mirror when
// running in batch mode.
func pick(sel *selector.Selector, ranked []model.RankedEndpoint) model.Selection {
	if *root.Batch {
		return model.Selection{Endpoint: &ranked[0]}
	}
	return sel.Choose(ranked)
}
