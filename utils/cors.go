package utils

import (
	"net/netip"
	"net/url"
	"strings"
)

// privatePrefixes covers RFC1918, loopback and link-local ranges for both
// address families.
var privatePrefixes = func() []netip.Prefix {
	raw := []string{
		"10.0.0.0/8",
		"172.16.0.0/12",
		"192.168.0.0/16",
		"127.0.0.0/8",
		"169.254.0.0/16",
		"::1/128",
		"fe80::/10",
		"fc00::/7",
	}
	prefixes := make([]netip.Prefix, 0, len(raw))
	for _, s := range raw {
		prefixes = append(prefixes, netip.MustParsePrefix(s))
	}
	return prefixes
}()

// IsAllowedOrigin reports whether an Origin header value should be trusted.
// The app is meant to run on a home network, so localhost, private and
// link-local IPs, .local hostnames and single-label LAN names are allowed
// while public internet origins are not.
func IsAllowedOrigin(origin string) bool {
	if origin == "" {
		return false
	}

	parsed, err := url.Parse(origin)
	if err != nil || parsed.Host == "" {
		return false
	}

	hostname := parsed.Hostname()

	if hostname == "localhost" {
		return true
	}
	if strings.HasSuffix(hostname, ".local") {
		return true
	}
	if !strings.Contains(hostname, ".") && !strings.Contains(hostname, ":") {
		return true
	}

	addr, err := netip.ParseAddr(hostname)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, prefix := range privatePrefixes {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}
