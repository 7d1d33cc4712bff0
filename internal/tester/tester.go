// Package tester runs fixed batteries of probes against single endpoints
// and aggregates the results into per-battery statistics.
//
// Each endpoint gets two independent batteries: a general reachability
// battery and a domain-specific battery (docker domains for DNS resolvers,
// the hub manifest fetch for registry mirrors). The two are never merged;
// the ranker and the output layer combine them at presentation time.
package tester

import (
	"time"

	"github.com/dockpick/dockpick/internal/model"
	"github.com/dockpick/dockpick/internal/runtimex"
	"github.com/montanaflynn/stats"
)

// Eligibility thresholds, in percent of successful probes.
const (
	// GeneralThreshold is the minimum general success rate for an
	// endpoint to be considered working at all.
	GeneralThreshold = 50.0

	// DockerThreshold is the minimum docker-domain success rate for an
	// endpoint to be considered docker-working (at least 2/3 domains).
	DockerThreshold = 66.0
)

// aggregate folds an ordered sequence of probe results into stats, marking
// the battery as working when the success rate meets threshold. With zero
// successes the average is the sentinel and the success rate is zero; there
// is never a division by zero.
func aggregate(results []model.ProbeResult, threshold float64) model.EndpointStats {
	st := model.EndpointStats{
		AttemptedCount: len(results),
		AvgElapsed:     model.Sentinel,
		Results:        results,
	}
	var latencies []float64
	for _, r := range results {
		if r.Success {
			st.SuccessCount++
			st.TotalElapsed += r.Elapsed
			latencies = append(latencies, r.Elapsed.Seconds())
		}
	}
	if st.SuccessCount > 0 {
		mean := runtimex.Try1(stats.Mean(latencies)) // nonempty by construction
		st.AvgElapsed = time.Duration(mean * float64(time.Second))
		st.SuccessRate = float64(st.SuccessCount) / float64(st.AttemptedCount) * 100
		st.Working = st.SuccessRate >= threshold
	}
	return st
}
