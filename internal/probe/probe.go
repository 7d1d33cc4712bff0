// Package probe issues single bounded, timed checks against endpoints.
//
// A probe never returns an error to its caller: every failure mode, be it a
// timeout, a connection error, or a protocol error, is absorbed into a
// failed [model.ProbeResult] carrying the sentinel duration. A transient
// failure of one endpoint must never abort the batch.
//
// Probes never retry. Retrying, if any, is a policy decision made by the
// tester through multiple distinct targets.
package probe

import "time"

const (
	// DefaultDNSTimeout is the timeout for general DNS probes.
	DefaultDNSTimeout = 3 * time.Second

	// DefaultDockerDNSTimeout is the timeout for docker-domain DNS probes.
	DefaultDockerDNSTimeout = 5 * time.Second

	// DefaultRegistryTimeout is the timeout for registry API probes.
	DefaultRegistryTimeout = 10 * time.Second

	// DefaultManifestTimeout is the timeout for manifest-fetch probes.
	DefaultManifestTimeout = 15 * time.Second
)
