package pages

import (
	"context"
	"fmt"
	"net"

	"github.com/miekg/dns"
)

// CNAMELookup resolves the canonical name of a host. An empty target with a nil
// error means the host has no CNAME record.
type CNAMELookup interface {
	LookupCNAME(ctx context.Context, host string) (string, error)
}

// DNSLookup queries CNAME records directly, without following the alias chain
// the way the system resolver does.
type DNSLookup struct {
	client  *dns.Client
	servers []string
}

var _ CNAMELookup = (*DNSLookup)(nil)

// NewDNSLookup queries servers, given as host:port. With no servers the ones in
// /etc/resolv.conf are used.
func NewDNSLookup(servers ...string) (*DNSLookup, error) {
	if len(servers) == 0 {
		conf, err := dns.ClientConfigFromFile("/etc/resolv.conf")
		if err != nil {
			return nil, fmt.Errorf("failed to read resolver configuration: %w", err)
		}
		for _, s := range conf.Servers {
			servers = append(servers, net.JoinHostPort(s, conf.Port))
		}
	}

	return &DNSLookup{
		client:  &dns.Client{},
		servers: servers,
	}, nil
}

// LookupCNAME implements CNAMELookup. Servers are tried in order until one
// answers.
func (l *DNSLookup) LookupCNAME(ctx context.Context, host string) (string, error) {
	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(host), dns.TypeCNAME)

	var lastErr error
	for _, server := range l.servers {
		in, _, err := l.client.ExchangeContext(ctx, msg, server)
		if err != nil {
			lastErr = err
			continue
		}

		switch in.Rcode {
		case dns.RcodeSuccess:
		case dns.RcodeNameError:
			return "", nil
		default:
			lastErr = fmt.Errorf("server %s answered %s", server, dns.RcodeToString[in.Rcode])
			continue
		}

		for _, rr := range in.Answer {
			if cname, ok := rr.(*dns.CNAME); ok {
				return cname.Target, nil
			}
		}
		return "", nil
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("no DNS servers configured")
	}
	return "", fmt.Errorf("CNAME lookup for %s failed: %w", host, lastErr)
}
