package tester

import (
	"context"
	"time"

	"github.com/dockpick/dockpick/internal/model"
	"github.com/dockpick/dockpick/internal/probe"
)

// Registry probe paths.
const (
	apiCheckPath = "/v2/"
	manifestPath = "/v2/library/hello-world/manifests/latest"
)

// RegistryTester tests a registry mirror with a connectivity check followed
// by a hub manifest fetch.
//
// The zero value uses default timeouts and network-backed probers; set
// NewProber to inject a prober factory in tests.
type RegistryTester struct {
	// NewProber OPTIONALLY overrides the prober factory.
	NewProber func(insecure bool) *probe.RegistryProber

	// APITimeout OPTIONALLY overrides the connectivity probe timeout.
	APITimeout time.Duration

	// ManifestTimeout OPTIONALLY overrides the manifest probe timeout.
	ManifestTimeout time.Duration
}

func (t *RegistryTester) newProber(insecure bool) *probe.RegistryProber {
	if t.NewProber != nil {
		return t.NewProber(insecure)
	}
	return probe.NewRegistryProber(insecure)
}

func (t *RegistryTester) apiTimeout() time.Duration {
	if t.APITimeout > 0 {
		return t.APITimeout
	}
	return probe.DefaultRegistryTimeout
}

func (t *RegistryTester) manifestTimeout() time.Duration {
	if t.ManifestTimeout > 0 {
		return t.ManifestTimeout
	}
	return probe.DefaultManifestTimeout
}

// Test checks the mirror's registry API and, when that succeeds, fetches a
// well-known manifest through it. The manifest probe is not attempted when
// connectivity already failed; the hub battery then records a single failed
// attempt so that downstream consumers always see both batteries.
func (t *RegistryTester) Test(ctx context.Context, ep model.Endpoint) (general, domain model.EndpointStats) {
	p := t.newProber(ep.Insecure)

	conn := p.Probe(ctx, ep.Address, apiCheckPath, "", t.apiTimeout())
	general = aggregate([]model.ProbeResult{conn}, GeneralThreshold)

	var hub model.ProbeResult
	if conn.Success {
		hub = p.Probe(ctx, ep.Address, manifestPath, probe.ManifestMediaType, t.manifestTimeout())
	} else {
		hub = model.NewProbeFailure(probe.NormalizeMirrorURL(ep.Address) + manifestPath)
	}
	domain = aggregate([]model.ProbeResult{hub}, GeneralThreshold)
	return
}
