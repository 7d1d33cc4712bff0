// Package scheduler fans out endpoint tests under a concurrency cap.
//
// Each endpoint task owns its mutable statistics exclusively and publishes
// a single immutable [Outcome] when complete; a single collector merges the
// outcomes, so no locking is needed on the hot path. Completion order is
// unspecified: downstream consumers re-sort explicitly.
package scheduler

import (
	"context"
	"sync"

	"github.com/apex/log"
	"github.com/dockpick/dockpick/internal/model"
)

// DefaultParallelism is the default concurrency cap.
const DefaultParallelism = 5

// Tester tests a single endpoint with both batteries.
type Tester interface {
	Test(ctx context.Context, ep model.Endpoint) (general, domain model.EndpointStats)
}

// Outcome pairs an endpoint with its two battery statistics. Every endpoint
// that enters the scheduler produces exactly one outcome, even on total
// failure.
type Outcome struct {
	// Endpoint is the endpoint that was tested.
	Endpoint model.Endpoint

	// General contains the general-reachability battery.
	General model.EndpointStats

	// Domain contains the domain-specific battery.
	Domain model.EndpointStats
}

// Scheduler runs one tester invocation per endpoint with at most
// Parallelism invocations in flight.
type Scheduler struct {
	// Tester is the MANDATORY endpoint tester.
	Tester Tester

	// Parallelism OPTIONALLY overrides the concurrency cap.
	Parallelism int

	// Progress is OPTIONALLY called, from the collector goroutine, once
	// per completed endpoint.
	Progress func(Outcome)
}

func (s *Scheduler) parallelism() int {
	if s.Parallelism > 0 {
		return s.Parallelism
	}
	return DefaultParallelism
}

// RunAll tests every endpoint and blocks until each one has produced an
// outcome. Outcomes are collected as tasks complete, not in submission
// order. When ctx expires, endpoints whose task has not started yet yield
// zero-success outcomes without issuing probes.
func (s *Scheduler) RunAll(ctx context.Context, endpoints []model.Endpoint) []Outcome {
	inputs := make(chan model.Endpoint)
	go func() {
		defer close(inputs)
		for _, ep := range endpoints {
			inputs <- ep
		}
	}()

	outputs := make(chan Outcome)
	wg := &sync.WaitGroup{}
	for i := 0; i < s.parallelism(); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ep := range inputs {
				outputs <- s.testSingle(ctx, ep)
			}
		}()
	}

	go func() {
		defer close(outputs)
		wg.Wait()
	}()

	results := []Outcome{}
	for outcome := range outputs {
		if s.Progress != nil {
			s.Progress(outcome)
		}
		results = append(results, outcome)
	}
	return results
}

// testSingle tests one endpoint. A panic inside the tester is recovered
// into a zero-success outcome so that sibling endpoints are unaffected.
func (s *Scheduler) testSingle(ctx context.Context, ep model.Endpoint) (outcome Outcome) {
	defer func() {
		if r := recover(); r != nil {
			log.Warnf("%s: test crashed: %v", ep.Name, r)
			outcome = zeroOutcome(ep)
		}
	}()
	if ctx.Err() != nil {
		return zeroOutcome(ep)
	}
	general, domain := s.Tester.Test(ctx, ep)
	return Outcome{Endpoint: ep, General: general, Domain: domain}
}

// zeroOutcome represents total failure for an endpoint.
func zeroOutcome(ep model.Endpoint) Outcome {
	return Outcome{
		Endpoint: ep,
		General:  model.EndpointStats{AvgElapsed: model.Sentinel},
		Domain:   model.EndpointStats{AvgElapsed: model.Sentinel},
	}
}
