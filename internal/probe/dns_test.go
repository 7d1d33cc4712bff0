package probe

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dockpick/dockpick/internal/model"
	"github.com/miekg/dns"
)

// fakeExchange returns a DNSExchangeFunc replying with the given rcode.
func fakeExchange(rcode int, rtt time.Duration) DNSExchangeFunc {
	return func(ctx context.Context, query *dns.Msg, address string) (*dns.Msg, time.Duration, error) {
		reply := new(dns.Msg)
		reply.SetReply(query)
		reply.Rcode = rcode
		return reply, rtt, nil
	}
}

func TestDNSProber(t *testing.T) {
	t.Run("successful resolution", func(t *testing.T) {
		p := &DNSProber{Exchange: fakeExchange(dns.RcodeSuccess, 20*time.Millisecond)}
		r := p.Probe(context.Background(), "8.8.8.8", "google.com", time.Second)
		if !r.Success {
			t.Fatal("expected success")
		}
		if r.Elapsed != 20*time.Millisecond {
			t.Fatal("unexpected elapsed", r.Elapsed)
		}
		if r.Target != "google.com" {
			t.Fatal("unexpected target", r.Target)
		}
	})

	t.Run("NXDOMAIN is a failure", func(t *testing.T) {
		p := &DNSProber{Exchange: fakeExchange(dns.RcodeNameError, time.Millisecond)}
		r := p.Probe(context.Background(), "8.8.8.8", "nonexistent.invalid", time.Second)
		if r.Success {
			t.Fatal("expected failure")
		}
		if r.Elapsed != model.Sentinel {
			t.Fatal("expected sentinel elapsed")
		}
	})

	t.Run("servfail is a failure", func(t *testing.T) {
		p := &DNSProber{Exchange: fakeExchange(dns.RcodeServerFailure, time.Millisecond)}
		r := p.Probe(context.Background(), "8.8.8.8", "google.com", time.Second)
		if r.Success || r.Elapsed != model.Sentinel {
			t.Fatal("expected sentinel failure")
		}
	})

	t.Run("transport error is absorbed", func(t *testing.T) {
		p := &DNSProber{Exchange: func(ctx context.Context, query *dns.Msg, address string) (*dns.Msg, time.Duration, error) {
			return nil, 0, errors.New("mocked error")
		}}
		r := p.Probe(context.Background(), "8.8.8.8", "google.com", time.Second)
		if r.Success || r.Elapsed != model.Sentinel {
			t.Fatal("expected sentinel failure")
		}
	})

	t.Run("timeout is absorbed", func(t *testing.T) {
		p := &DNSProber{Exchange: func(ctx context.Context, query *dns.Msg, address string) (*dns.Msg, time.Duration, error) {
			<-ctx.Done()
			return nil, 0, ctx.Err()
		}}
		r := p.Probe(context.Background(), "8.8.8.8", "google.com", time.Millisecond)
		if r.Success || r.Elapsed != model.Sentinel {
			t.Fatal("expected sentinel failure")
		}
	})

	t.Run("queries use the standard DNS port", func(t *testing.T) {
		var seen string
		p := &DNSProber{Exchange: func(ctx context.Context, query *dns.Msg, address string) (*dns.Msg, time.Duration, error) {
			seen = address
			reply := new(dns.Msg)
			reply.SetReply(query)
			return reply, time.Millisecond, nil
		}}
		p.Probe(context.Background(), "1.1.1.1", "google.com", time.Second)
		if seen != "1.1.1.1:53" {
			t.Fatal("unexpected address", seen)
		}
	})
}
