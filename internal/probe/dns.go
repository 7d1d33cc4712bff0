package probe

//
// DNS probing
//

import (
	"context"
	"net"
	"time"

	"github.com/dockpick/dockpick/internal/model"
	"github.com/miekg/dns"
)

// DNSExchangeFunc performs a single DNS round trip with the given resolver
// address and returns the reply along with the round-trip time.
type DNSExchangeFunc func(ctx context.Context, query *dns.Msg, address string) (*dns.Msg, time.Duration, error)

// DNSProber probes DNS resolvers by issuing A queries over UDP.
//
// The zero value is ready to use and exchanges queries over the network;
// set Exchange to override the round trip in tests.
type DNSProber struct {
	// Exchange OPTIONALLY overrides the DNS round trip.
	Exchange DNSExchangeFunc
}

func (p *DNSProber) exchange() DNSExchangeFunc {
	if p.Exchange != nil {
		return p.Exchange
	}
	return func(ctx context.Context, query *dns.Msg, address string) (*dns.Msg, time.Duration, error) {
		clnt := &dns.Client{Net: "udp"}
		return clnt.ExchangeContext(ctx, query, address)
	}
}

// Probe issues exactly one A query for domain to the resolver at address
// and classifies the reply. A reply is successful when the exchange
// completes within timeout with the success rcode; NXDOMAIN, any other
// rcode, and any transport error are failures.
func (p *DNSProber) Probe(ctx context.Context, address, domain string, timeout time.Duration) model.ProbeResult {
	query := new(dns.Msg)
	query.SetQuestion(dns.Fqdn(domain), dns.TypeA)
	query.RecursionDesired = true

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	reply, rtt, err := p.exchange()(ctx, query, net.JoinHostPort(address, "53"))
	if err != nil {
		return model.NewProbeFailure(domain)
	}
	if reply.Rcode != dns.RcodeSuccess {
		// includes NXDOMAIN (RcodeNameError), refused, servfail
		return model.NewProbeFailure(domain)
	}
	return model.NewProbeSuccess(domain, rtt)
}
