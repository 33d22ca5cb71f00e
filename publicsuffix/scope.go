// Package publicsuffix decides same-site scope using the public suffix list.
package publicsuffix

import (
	"net"
	"net/url"
	"strings"

	"github.com/fwojciec/sitescribe"
	"golang.org/x/net/publicsuffix"
)

// RegistrableDomain returns the eTLD+1 of the URL's host, e.g.
// "example.co.uk" for "https://www.example.co.uk/about".
// IP literals and single-label hosts such as "localhost" are their own
// registrable domain.
func RegistrableDomain(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", sitescribe.Errorf(sitescribe.EINVALID, "malformed URL %q", rawURL)
	}
	host := strings.TrimSuffix(strings.ToLower(u.Hostname()), ".")
	if host == "" {
		return "", sitescribe.Errorf(sitescribe.EINVALID, "URL %q has no host", rawURL)
	}
	if net.ParseIP(host) != nil || !strings.Contains(host, ".") {
		return host, nil
	}

	domain, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return "", sitescribe.Errorf(sitescribe.EINVALID, "no registrable domain for %q: %v", host, err)
	}
	return domain, nil
}

// InScope reports whether the URL uses http or https and shares rootDomain as
// its registrable domain. Any failure to compute the domain yields false.
func InScope(rawURL, rootDomain string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	domain, err := RegistrableDomain(rawURL)
	if err != nil {
		return false
	}
	return domain == rootDomain
}
