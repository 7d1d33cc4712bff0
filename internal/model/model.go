// Package model contains the shared data model.
package model

import (
	"math"
	"time"
)

// Sentinel is the designated "infinite" duration marking a failed or
// timed-out measurement. It is distinct from and greater than any real
// elapsed time.
const Sentinel = time.Duration(math.MaxInt64)

// Endpoint is a network service instance under evaluation: a DNS resolver
// or a Docker registry mirror. Immutable once loaded.
type Endpoint struct {
	// Name uniquely identifies the endpoint.
	Name string

	// Address is the primary address: an IP address for a DNS resolver
	// or a base URL for a registry mirror.
	Address string

	// Secondary is the OPTIONAL secondary address (DNS resolvers only).
	Secondary string

	// Insecure indicates the registry mirror should be contacted
	// without verifying its TLS certificate.
	Insecure bool
}

// ProbeResult is the outcome of a single probe. A result is exactly one of
// (Success=true, finite nonnegative Elapsed) or (Success=false, Sentinel).
// Use [NewProbeSuccess] and [NewProbeFailure] to preserve this invariant.
type ProbeResult struct {
	// Target is the lookup target: a domain name for DNS probes or
	// a URL for registry probes.
	Target string

	// Success indicates whether the probe succeeded.
	Success bool

	// Elapsed is the time the probe took, or [Sentinel] on failure.
	Elapsed time.Duration
}

// NewProbeSuccess creates a successful [ProbeResult]. A negative elapsed
// time (possible with clock adjustments) is clamped to zero.
func NewProbeSuccess(target string, elapsed time.Duration) ProbeResult {
	if elapsed < 0 {
		elapsed = 0
	}
	return ProbeResult{Target: target, Success: true, Elapsed: elapsed}
}

// NewProbeFailure creates a failed [ProbeResult] carrying [Sentinel].
func NewProbeFailure(target string) ProbeResult {
	return ProbeResult{Target: target, Success: false, Elapsed: Sentinel}
}

// EndpointStats aggregates one battery of probes against one endpoint. It is
// owned exclusively by the tester that produced it and published once,
// complete, to the scheduler.
type EndpointStats struct {
	// SuccessCount is the number of successful probes.
	SuccessCount int

	// AttemptedCount is the number of attempted probes.
	AttemptedCount int

	// TotalElapsed is the total elapsed time over successful probes.
	TotalElapsed time.Duration

	// AvgElapsed is the average elapsed time over successful probes,
	// or [Sentinel] when there were no successes.
	AvgElapsed time.Duration

	// SuccessRate is SuccessCount/AttemptedCount as a percentage. It is
	// zero when AttemptedCount is zero or there were no successes.
	SuccessRate float64

	// Working indicates whether this battery passed its eligibility
	// threshold.
	Working bool

	// Results contains the ordered sequence of probe results.
	Results []ProbeResult
}

// RankedEndpoint is an endpoint together with its per-battery statistics
// and the composite score computed by the ranker.
type RankedEndpoint struct {
	// Endpoint is the endpoint that was tested.
	Endpoint Endpoint

	// General contains the general-reachability battery.
	General EndpointStats

	// Domain contains the domain-specific battery (docker domains for
	// DNS resolvers, the hub manifest fetch for registry mirrors).
	Domain EndpointStats

	// Score is the composite score in seconds, lower is better. It is
	// +Inf when the endpoint fails the eligibility threshold.
	Score float64

	// Status is a human readable summary ("Working", "Connection
	// Failed", "Hub Access Failed").
	Status string
}

// Selection is the operator's choice: a single ranked endpoint or nothing.
type Selection struct {
	// Endpoint is the chosen endpoint, nil when the operator declined
	// or no endpoint was eligible.
	Endpoint *RankedEndpoint
}

// None returns whether no endpoint was selected.
func (s Selection) None() bool {
	return s.Endpoint == nil
}
