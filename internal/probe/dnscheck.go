package probe

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"
)

// DNSClass is a coarse outcome of resolving a status page host.
type DNSClass string

const (
	DNSResolves    DNSClass = "RESOLVES"
	DNSNoARecord   DNSClass = "NO_A_RECORD"
	DNSNXDomain    DNSClass = "NXDOMAIN"
	DNSTemporary   DNSClass = "SERVFAIL_or_TIMEOUT"
	DNSInvalidName DNSClass = "INVALID_NAME"
)

var dnsTimeout = 3 * time.Second

type DNSStatus struct {
	Host          string
	IPs           []net.IP
	Class         DNSClass
	ResolverError string
}

// Resolver is the subset of *net.Resolver used here.
type Resolver interface {
	LookupIP(ctx context.Context, network, host string) ([]net.IP, error)
	LookupNS(ctx context.Context, name string) ([]*net.NS, error)
}

func CheckDNS(ctx context.Context, r Resolver, host string) DNSStatus {
	s := DNSStatus{Host: strings.TrimSpace(host)}
	if s.Host == "" || strings.Contains(s.Host, "://") {
		s.Class = DNSInvalidName
		return s
	}
	if r == nil {
		r = net.DefaultResolver
	}
	ctx, cancel := context.WithTimeout(ctx, dnsTimeout)
	defer cancel()

	ips, err := r.LookupIP(ctx, "ip", s.Host)
	if err == nil && len(ips) > 0 {
		s.IPs = ips
		s.Class = DNSResolves
		return s
	}
	if err != nil {
		s.ResolverError = err.Error()
		var de *net.DNSError
		if errors.As(err, &de) {
			switch {
			case de.IsNotFound:
				s.Class = DNSNXDomain
			case de.IsTemporary || de.Timeout():
				s.Class = DNSTemporary
				return s
			}
		}
	}

	// the zone exists but has no address for this name
	if ns, err := r.LookupNS(ctx, s.Host); err == nil && len(ns) > 0 {
		s.Class = DNSNoARecord
		return s
	}
	if s.Class == "" {
		if s.ResolverError != "" {
			s.Class = DNSTemporary
		} else {
			s.Class = DNSNXDomain
		}
	}
	return s
}
