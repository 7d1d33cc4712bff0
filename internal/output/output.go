// Package output renders ranked results for the operator.
package output

import (
	"fmt"
	"io"
	"time"

	"github.com/dockpick/dockpick/internal/model"
	"github.com/fatih/color"
	"github.com/mitchellh/go-wordwrap"
)

// advisoryWidth is the wrap width for advisory text.
const advisoryWidth = 70

var (
	okMark   = color.GreenString("✓")
	failMark = color.RedString("✗")
)

// FormatSeconds formats a measured duration in seconds, mapping the
// sentinel to "timeout".
func FormatSeconds(d time.Duration) string {
	if d == model.Sentinel {
		return "timeout"
	}
	return fmt.Sprintf("%.2fs", d.Seconds())
}

// PrintDNSTable prints the ranked resolver table.
func PrintDNSTable(w io.Writer, ranked []model.RankedEndpoint) {
	fmt.Fprintf(w, "\n%-3s %-14s %-16s %-22s %-15s\n", "#", "Name", "General", "Docker Connectivity", "IP Address")
	fmt.Fprintln(w, "-------------------------------------------------------------------------")
	for i, re := range ranked {
		general := fmt.Sprintf("%s (%.0f%%)", FormatSeconds(re.General.AvgElapsed), re.General.SuccessRate)
		docker := fmt.Sprintf("%s Failed", failMark)
		if re.Domain.Working {
			docker = fmt.Sprintf("%s %s (%.0f%%)", okMark, FormatSeconds(re.Domain.AvgElapsed), re.Domain.SuccessRate)
		}
		fmt.Fprintf(w, "%-3d %-14s %-16s %-22s %-15s\n", i+1, re.Endpoint.Name, general, docker, re.Endpoint.Address)
	}
}

// PrintDockerDetails prints the docker battery detail for the top resolvers.
func PrintDockerDetails(w io.Writer, ranked []model.RankedEndpoint, top int) {
	if top > len(ranked) {
		top = len(ranked)
	}
	if top == 0 {
		return
	}
	fmt.Fprintf(w, "\nDocker connectivity details:\n")
	for _, re := range ranked[:top] {
		fmt.Fprintf(w, "\n%s (%s):\n", re.Endpoint.Name, re.Endpoint.Address)
		for _, r := range re.Domain.Results {
			mark := failMark
			if r.Success {
				mark = okMark
			}
			fmt.Fprintf(w, "  %s %-25s %s\n", mark, r.Target, FormatSeconds(r.Elapsed))
		}
	}
}

// PrintDNSRecommendation prints the best docker-working resolver, if any,
// and a wrapped warning otherwise.
func PrintDNSRecommendation(w io.Writer, ranked []model.RankedEndpoint) {
	for _, re := range ranked {
		if !re.Domain.Working {
			continue
		}
		fmt.Fprintf(w, "\nRecommended for docker: %s (%s)\n", color.New(color.Bold).Sprint(re.Endpoint.Name), re.Endpoint.Address)
		fmt.Fprintf(w, "  docker connectivity: %.0f%% success, %s avg\n", re.Domain.SuccessRate, FormatSeconds(re.Domain.AvgElapsed))
		fmt.Fprintf(w, "  general performance: %.0f%% success, %s avg\n", re.General.SuccessRate, FormatSeconds(re.General.AvgElapsed))
		return
	}
	advisory := "No resolver passed the docker connectivity battery. You can still " +
		"pick one of the generally working resolvers below, but docker image " +
		"downloads may fail until connectivity improves."
	fmt.Fprintf(w, "\n%s\n", wordwrap.WrapString(advisory, advisoryWidth))
}

// PrintRegistryTable prints the ranked mirror table followed by the
// failed-mirror summary.
func PrintRegistryTable(w io.Writer, ranked, failed []model.RankedEndpoint) {
	fmt.Fprintf(w, "\n%-3s %-14s %-35s %-9s %-9s %-8s\n", "#", "Registry", "Mirror", "Conn(s)", "Hub(s)", "Score")
	fmt.Fprintln(w, "--------------------------------------------------------------------------------")
	for i, re := range ranked {
		fmt.Fprintf(w, "%-3d %-14s %-35s %-9s %-9s %-8.2f\n",
			i+1, re.Endpoint.Name, re.Endpoint.Address,
			FormatSeconds(re.General.AvgElapsed), FormatSeconds(re.Domain.AvgElapsed), re.Score)
	}
	if len(failed) > 0 {
		fmt.Fprintf(w, "\n%s Failed registry mirrors:\n", failMark)
		for _, re := range failed {
			fmt.Fprintf(w, "  %s: %s - %s\n", re.Endpoint.Name, re.Endpoint.Address, re.Status)
		}
	}
}

// PrintCurrentMirrors prints the registry mirrors the daemon currently
// uses, so the operator knows what a new selection would replace.
func PrintCurrentMirrors(w io.Writer, mirrors []string) {
	if len(mirrors) == 0 {
		fmt.Fprintf(w, "\nNo registry mirrors currently configured\n")
		return
	}
	fmt.Fprintf(w, "\nCurrent registry mirrors:\n")
	for _, mirror := range mirrors {
		fmt.Fprintf(w, "  %s\n", mirror)
	}
}

// PrintRegistryRecommendation prints the fastest working mirror.
func PrintRegistryRecommendation(w io.Writer, ranked []model.RankedEndpoint) {
	if len(ranked) == 0 {
		return
	}
	best := ranked[0]
	fmt.Fprintf(w, "\nFastest mirror: %s (%s)\n", color.New(color.Bold).Sprint(best.Endpoint.Name), best.Endpoint.Address)
	fmt.Fprintf(w, "  score %.2fs (conn %s + hub %s)\n", best.Score,
		FormatSeconds(best.General.AvgElapsed), FormatSeconds(best.Domain.AvgElapsed))
}
