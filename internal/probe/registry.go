package probe

//
// Registry probing
//

import (
	"context"
	"crypto/tls"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dockpick/dockpick/internal/model"
)

// ManifestMediaType is the Accept header value for manifest fetches.
const ManifestMediaType = "application/vnd.docker.distribution.manifest.v2+json"

// RegistryProber probes Docker registry mirrors over HTTP.
//
// Construct with [NewRegistryProber] so that the insecure flag is honored
// by the underlying transport.
type RegistryProber struct {
	// Client is the HTTP client used for probing.
	Client *http.Client
}

// NewRegistryProber creates a RegistryProber. When insecure is true the
// prober skips TLS certificate verification, mirroring the insecure
// registry flag in the daemon configuration.
func NewRegistryProber(insecure bool) *RegistryProber {
	return &RegistryProber{
		Client: &http.Client{
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: insecure},
				Proxy:           http.ProxyFromEnvironment,
			},
		},
	}
}

// NormalizeMirrorURL trims trailing slashes and prepends https:// when the
// mirror address carries no scheme.
func NormalizeMirrorURL(mirror string) string {
	out := strings.TrimRight(strings.TrimSpace(mirror), "/")
	if !strings.HasPrefix(out, "http://") && !strings.HasPrefix(out, "https://") {
		out = "https://" + out
	}
	return out
}

// acceptableStatus tells whether an HTTP status indicates the server is
// reachable and speaking the registry protocol. 401 is normal for a
// registry requiring auth and 404 for a missing path.
func acceptableStatus(code int) bool {
	switch code {
	case http.StatusOK, http.StatusUnauthorized, http.StatusNotFound:
		return true
	default:
		return false
	}
}

// Probe issues exactly one GET for path below the mirror base URL. The
// optional accept value, when nonempty, is sent as the Accept header.
// Any status outside {200, 401, 404}, as well as any timeout, connection
// or protocol error, is a failure.
func (p *RegistryProber) Probe(ctx context.Context, mirror, path, accept string, timeout time.Duration) model.ProbeResult {
	target := NormalizeMirrorURL(mirror) + path

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return model.NewProbeFailure(target)
	}
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	start := time.Now()
	resp, err := p.Client.Do(req)
	if err != nil {
		return model.NewProbeFailure(target)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20))
	elapsed := time.Since(start)

	if !acceptableStatus(resp.StatusCode) {
		return model.NewProbeFailure(target)
	}
	return model.NewProbeSuccess(target, elapsed)
}
