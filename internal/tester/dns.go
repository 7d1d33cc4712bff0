package tester

import (
	"context"
	"time"

	"github.com/dockpick/dockpick/internal/model"
	"github.com/dockpick/dockpick/internal/probe"
)

// DefaultGeneralDomains are the well-known domains of the general battery.
var DefaultGeneralDomains = []string{
	"google.com",
	"github.com",
	"docker.com",
	"ubuntu.com",
}

// DefaultDockerDomains are the domains of the docker-specific battery.
var DefaultDockerDomains = []string{
	"download.docker.com",
	"registry-1.docker.io",
	"auth.docker.io",
}

// DNSTester tests a DNS resolver with the general and the docker battery.
//
// The zero value uses the default domain lists, the default timeouts, and
// a network-backed [probe.DNSProber].
type DNSTester struct {
	// Prober OPTIONALLY overrides the DNS prober.
	Prober *probe.DNSProber

	// GeneralDomains OPTIONALLY overrides the general battery targets.
	GeneralDomains []string

	// DockerDomains OPTIONALLY overrides the docker battery targets.
	DockerDomains []string

	// GeneralTimeout OPTIONALLY overrides the general probe timeout.
	GeneralTimeout time.Duration

	// DockerTimeout OPTIONALLY overrides the docker probe timeout.
	DockerTimeout time.Duration
}

func (t *DNSTester) prober() *probe.DNSProber {
	if t.Prober != nil {
		return t.Prober
	}
	return &probe.DNSProber{}
}

func (t *DNSTester) generalDomains() []string {
	if len(t.GeneralDomains) > 0 {
		return t.GeneralDomains
	}
	return DefaultGeneralDomains
}

func (t *DNSTester) dockerDomains() []string {
	if len(t.DockerDomains) > 0 {
		return t.DockerDomains
	}
	return DefaultDockerDomains
}

func (t *DNSTester) generalTimeout() time.Duration {
	if t.GeneralTimeout > 0 {
		return t.GeneralTimeout
	}
	return probe.DefaultDNSTimeout
}

func (t *DNSTester) dockerTimeout() time.Duration {
	if t.DockerTimeout > 0 {
		return t.DockerTimeout
	}
	return probe.DefaultDockerDNSTimeout
}

// Test probes the resolver's primary address with both batteries. Probes
// within a battery run sequentially; the dominant concurrency is across
// endpoints in the scheduler.
func (t *DNSTester) Test(ctx context.Context, ep model.Endpoint) (general, domain model.EndpointStats) {
	p := t.prober()

	var generalResults []model.ProbeResult
	for _, name := range t.generalDomains() {
		generalResults = append(generalResults, p.Probe(ctx, ep.Address, name, t.generalTimeout()))
	}
	general = aggregate(generalResults, GeneralThreshold)

	var dockerResults []model.ProbeResult
	for _, name := range t.dockerDomains() {
		dockerResults = append(dockerResults, p.Probe(ctx, ep.Address, name, t.dockerTimeout()))
	}
	domain = aggregate(dockerResults, DockerThreshold)
	return
}
