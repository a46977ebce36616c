package probe

import (
	"context"
	"errors"
	"net"
	"net/url"
	"strings"
	"time"
)

// DNS classes reported by Diagnose.
const (
	DNSResolves    = "RESOLVES"
	DNSNXDomain    = "NXDOMAIN"
	DNSNoARecord   = "NO_A_RECORD"
	DNSServfail    = "SERVFAIL_or_TIMEOUT"
	DNSInvalidName = "INVALID_NAME"
)

const defaultDNSLimit = 3 * time.Second

// Resolver is the subset of *net.Resolver used for diagnosis.
type Resolver interface {
	LookupIPAddr(ctx context.Context, host string) ([]net.IPAddr, error)
	LookupNS(ctx context.Context, name string) ([]*net.NS, error)
}

type DNSStatus struct {
	Host          string
	Class         string
	IPs           []string
	Nameservers   []string
	ResolverError string
}

// DNSDiagnoser explains why a check's host might be unreachable. It is only
// used to annotate failed probes for operators; the poller never calls it.
type DNSDiagnoser struct {
	Resolver Resolver
	Timeout  time.Duration
}

func NewDNSDiagnoser() *DNSDiagnoser {
	return &DNSDiagnoser{Resolver: net.DefaultResolver, Timeout: defaultDNSLimit}
}

// Diagnose classifies DNS resolution for the host of rawURL.
func (d *DNSDiagnoser) Diagnose(ctx context.Context, rawURL string) DNSStatus {
	s := DNSStatus{Host: hostOf(rawURL)}
	if s.Host == "" || strings.Contains(s.Host, "://") {
		s.Class = DNSInvalidName
		return s
	}
	if ip := net.ParseIP(s.Host); ip != nil {
		s.Class = DNSResolves
		s.IPs = []string{ip.String()}
		return s
	}

	timeout := d.Timeout
	if timeout <= 0 {
		timeout = defaultDNSLimit
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	addrs, err := d.Resolver.LookupIPAddr(ctx, s.Host)
	switch {
	case err == nil && len(addrs) > 0:
		s.Class = DNSResolves
		for _, a := range addrs {
			s.IPs = append(s.IPs, a.IP.String())
		}
		return s
	case err != nil:
		s.ResolverError = err.Error()
		var de *net.DNSError
		if errors.As(err, &de) {
			if de.IsNotFound {
				s.Class = DNSNXDomain
			} else if de.IsTemporary || de.Timeout() {
				s.Class = DNSServfail
			}
		}
	}

	// The name may exist without address records.
	if ns, err := d.Resolver.LookupNS(ctx, s.Host); err == nil && len(ns) > 0 {
		for _, n := range ns {
			s.Nameservers = append(s.Nameservers, strings.TrimSuffix(n.Host, "."))
		}
		s.Class = DNSNoARecord
	}

	if s.Class == "" {
		if s.ResolverError != "" {
			s.Class = DNSServfail
		} else {
			s.Class = DNSNXDomain
		}
	}
	return s
}

func hostOf(raw string) string {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		return raw
	}
	return u.Hostname()
}
