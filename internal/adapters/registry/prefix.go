package registry

import (
	"fmt"
	"net/netip"
	"strconv"
	"strings"

	"github.com/poyrazK/dspilot/internal/core/domain"
)

// ReversePrefix maps a reverse-DNS owner name to the address block it
// delegates. Owners under in-addr.arpa carry one dotted octet per
// label, ip6.arpa one hex nibble per label, both in reversed order.
// Owners outside the two reverse trees return ok=false.
func ReversePrefix(owner string) (netip.Prefix, bool, error) {
	name := strings.TrimSuffix(strings.ToLower(owner), ".")

	switch {
	case strings.HasSuffix(name, ".in-addr.arpa"):
		p, err := parseV4Prefix(strings.TrimSuffix(name, ".in-addr.arpa"))
		return p, true, err
	case strings.HasSuffix(name, ".ip6.arpa"):
		p, err := parseV6Prefix(strings.TrimSuffix(name, ".ip6.arpa"))
		return p, true, err
	}
	return netip.Prefix{}, false, nil
}

func parseV4Prefix(labels string) (netip.Prefix, error) {
	parts := strings.Split(labels, ".")
	if len(parts) > 4 {
		return netip.Prefix{}, fmt.Errorf("%w: %d octets under in-addr.arpa, at most 4 allowed", domain.ErrFormat, len(parts))
	}

	var addr [4]byte
	for i, part := range parts {
		octet, err := strconv.ParseUint(part, 10, 8)
		if err != nil {
			return netip.Prefix{}, fmt.Errorf("%w: label %q is not an IPv4 octet", domain.ErrFormat, part)
		}
		// Labels run least-significant first, so the last label is the
		// first address byte.
		addr[len(parts)-1-i] = byte(octet)
	}

	return netip.PrefixFrom(netip.AddrFrom4(addr), len(parts)*8).Masked(), nil
}

func parseV6Prefix(labels string) (netip.Prefix, error) {
	parts := strings.Split(labels, ".")
	if len(parts) > 32 {
		return netip.Prefix{}, fmt.Errorf("%w: %d nibbles under ip6.arpa, at most 32 allowed", domain.ErrFormat, len(parts))
	}

	var addr [16]byte
	for i, part := range parts {
		if len(part) != 1 {
			return netip.Prefix{}, fmt.Errorf("%w: label %q is not a single hex nibble", domain.ErrFormat, part)
		}
		nibble, err := strconv.ParseUint(part, 16, 8)
		if err != nil {
			return netip.Prefix{}, fmt.Errorf("%w: label %q is not a single hex nibble", domain.ErrFormat, part)
		}
		// Reversed nibble order, two nibbles per address byte, high
		// nibble first.
		pos := len(parts) - 1 - i
		if pos%2 == 0 {
			addr[pos/2] |= byte(nibble) << 4
		} else {
			addr[pos/2] |= byte(nibble)
		}
	}

	return netip.PrefixFrom(netip.AddrFrom16(addr), len(parts)*4).Masked(), nil
}
