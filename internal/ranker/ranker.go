// Package ranker filters tested endpoints by eligibility and produces a
// deterministic total order. It performs no I/O: ranking is a pure function
// of its input, so ranking identical stats twice yields identical output.
package ranker

import (
	"math"
	"sort"

	"github.com/dockpick/dockpick/internal/model"
	"github.com/dockpick/dockpick/internal/scheduler"
)

// Statuses summarizing how an endpoint fared.
const (
	StatusWorking          = "Working"
	StatusConnectionFailed = "Connection Failed"
	StatusHubAccessFailed  = "Hub Access Failed"
)

// hubWeight weights hub access more than raw connectivity in the
// registry composite score.
const hubWeight = 1.5

// RankDNS filters out resolvers that fail the general eligibility threshold
// and orders the rest: docker-working resolvers first, then by docker
// average latency, then by general average latency, then by name. Sentinel
// averages sort last within their group.
func RankDNS(outcomes []scheduler.Outcome) []model.RankedEndpoint {
	ranked := []model.RankedEndpoint{}
	for _, o := range outcomes {
		if !o.General.Working {
			continue
		}
		ranked = append(ranked, model.RankedEndpoint{
			Endpoint: o.Endpoint,
			General:  o.General,
			Domain:   o.Domain,
			Score:    o.General.AvgElapsed.Seconds(),
			Status:   StatusWorking,
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return dnsLess(ranked[i], ranked[j])
	})
	return ranked
}

func dnsLess(a, b model.RankedEndpoint) bool {
	if a.Domain.Working != b.Domain.Working {
		return a.Domain.Working
	}
	if a.Domain.AvgElapsed != b.Domain.AvgElapsed {
		return a.Domain.AvgElapsed < b.Domain.AvgElapsed
	}
	if a.General.AvgElapsed != b.General.AvgElapsed {
		return a.General.AvgElapsed < b.General.AvgElapsed
	}
	return a.Endpoint.Name < b.Endpoint.Name
}

// RankRegistry splits mirrors into a numerically ranked list and a failed
// list. A mirror is ranked only when both the connectivity check and the
// hub manifest fetch succeeded; its score is connectivity latency plus 1.5
// times hub latency, ascending. Failed mirrors carry a status telling which
// check failed and a +Inf score.
func RankRegistry(outcomes []scheduler.Outcome) (ranked, failed []model.RankedEndpoint) {
	ranked, failed = []model.RankedEndpoint{}, []model.RankedEndpoint{}
	for _, o := range outcomes {
		re := model.RankedEndpoint{
			Endpoint: o.Endpoint,
			General:  o.General,
			Domain:   o.Domain,
			Score:    math.Inf(1),
		}
		switch {
		case !o.General.Working:
			re.Status = StatusConnectionFailed
			failed = append(failed, re)
		case !o.Domain.Working:
			re.Status = StatusHubAccessFailed
			failed = append(failed, re)
		default:
			re.Status = StatusWorking
			re.Score = o.General.AvgElapsed.Seconds() + hubWeight*o.Domain.AvgElapsed.Seconds()
			ranked = append(ranked, re)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score < ranked[j].Score
		}
		return ranked[i].Endpoint.Name < ranked[j].Endpoint.Name
	})
	sort.SliceStable(failed, func(i, j int) bool {
		return failed[i].Endpoint.Name < failed[j].Endpoint.Name
	})
	return
}
