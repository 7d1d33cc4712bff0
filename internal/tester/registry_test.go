package tester

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/dockpick/dockpick/internal/model"
	"github.com/dockpick/dockpick/internal/probe"
)

// roundTripperFunc adapts a function to http.RoundTripper.
type roundTripperFunc func(req *http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func response(status int) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader("")),
	}
}

// scriptedRegistryTester returns a tester whose probers answer apiStatus for
// /v2/ and hubStatus for manifest fetches, recording requested paths.
func scriptedRegistryTester(apiStatus, hubStatus int, paths *[]string) *RegistryTester {
	return &RegistryTester{
		NewProber: func(insecure bool) *probe.RegistryProber {
			return &probe.RegistryProber{
				Client: &http.Client{
					Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
						*paths = append(*paths, req.URL.Path)
						if strings.Contains(req.URL.Path, "/manifests/") {
							return response(hubStatus), nil
						}
						return response(apiStatus), nil
					}),
				},
			}
		},
	}
}

func TestRegistryTester(t *testing.T) {
	ep := model.Endpoint{Name: "Registry_1", Address: "https://mirror.example.com"}

	t.Run("working mirror", func(t *testing.T) {
		var paths []string
		tt := scriptedRegistryTester(200, 200, &paths)
		general, domain := tt.Test(context.Background(), ep)
		if !general.Working || !domain.Working {
			t.Fatal("expected both batteries working")
		}
		if len(paths) != 2 {
			t.Fatal("expected two probes, got", paths)
		}
	})

	t.Run("auth required still counts as reachable", func(t *testing.T) {
		var paths []string
		tt := scriptedRegistryTester(401, 401, &paths)
		general, domain := tt.Test(context.Background(), ep)
		if !general.Working || !domain.Working {
			t.Fatal("expected both batteries working")
		}
	})

	t.Run("manifest probe is skipped when connectivity fails", func(t *testing.T) {
		var paths []string
		tt := scriptedRegistryTester(500, 200, &paths)
		general, domain := tt.Test(context.Background(), ep)
		if general.Working {
			t.Fatal("expected failed connectivity")
		}
		if len(paths) != 1 {
			t.Fatal("manifest should not have been fetched, got", paths)
		}
		if domain.AttemptedCount != 1 || domain.SuccessCount != 0 {
			t.Fatal("hub battery must record a failed attempt", domain)
		}
		if domain.AvgElapsed != model.Sentinel {
			t.Fatal("expected sentinel hub average")
		}
	})

	t.Run("hub failure with good connectivity", func(t *testing.T) {
		var paths []string
		tt := scriptedRegistryTester(200, 503, &paths)
		general, domain := tt.Test(context.Background(), ep)
		if !general.Working {
			t.Fatal("expected working connectivity")
		}
		if domain.Working {
			t.Fatal("expected failed hub battery")
		}
	})

	t.Run("insecure flag reaches the prober factory", func(t *testing.T) {
		var got bool
		tt := &RegistryTester{
			NewProber: func(insecure bool) *probe.RegistryProber {
				got = insecure
				return &probe.RegistryProber{
					Client: &http.Client{
						Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
							return response(200), nil
						}),
					},
				}
			},
		}
		tt.Test(context.Background(), model.Endpoint{Name: "X", Address: "mirror.local", Insecure: true})
		if !got {
			t.Fatal("insecure flag not propagated")
		}
	})
}
