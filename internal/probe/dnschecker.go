package probe

import (
	"context"
	"net/url"
)

// CheckSource resolves the host of a line's source URL. Used by preflight to
// catch typos in the line file before the first scheduled run.
func CheckSource(ctx context.Context, r Resolver, source string) DNSStatus {
	return CheckDNS(ctx, r, extractHost(source))
}

func extractHost(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		return raw
	}
	return u.Hostname()
}
