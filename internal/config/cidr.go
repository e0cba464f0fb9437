package config

import (
	"fmt"
	"net/netip"
)

// ParseIPv4CIDR parses an IPv4 CIDR block and returns its masked prefix.
// Host bits must be zero.
func ParseIPv4CIDR(cidr string) (netip.Prefix, error) {
	p, err := netip.ParsePrefix(cidr)
	if err != nil {
		return netip.Prefix{}, fmt.Errorf("invalid CIDR %q: %w", cidr, err)
	}
	if !p.Addr().Is4() {
		return netip.Prefix{}, fmt.Errorf("only IPv4 addresses are supported, got %s", cidr)
	}
	if p.Masked() != p {
		return netip.Prefix{}, fmt.Errorf("invalid CIDR %q: host bits set (did you mean %s?)", cidr, p.Masked())
	}
	return p, nil
}

// CIDRContains reports whether inner lies entirely within outer.
func CIDRContains(outer, inner string) (bool, error) {
	o, err := ParseIPv4CIDR(outer)
	if err != nil {
		return false, err
	}
	i, err := ParseIPv4CIDR(inner)
	if err != nil {
		return false, err
	}
	return o.Bits() <= i.Bits() && o.Contains(i.Addr()), nil
}

// CIDROverlaps reports whether the two blocks share any address.
func CIDROverlaps(a, b string) (bool, error) {
	pa, err := ParseIPv4CIDR(a)
	if err != nil {
		return false, err
	}
	pb, err := ParseIPv4CIDR(b)
	if err != nil {
		return false, err
	}
	return pa.Overlaps(pb), nil
}
