package record

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"github.com/poyrazK/dspilot/internal/core/domain"
	"github.com/poyrazK/dspilot/internal/dns/wire"
)

// ParseDNSKEY parses one DNSKEY record in single-line presentation
// format:
//
//	<owner> <ttl> IN DNSKEY <flags> <protocol> <algorithm> <base64-key>
//
// Comments after ';' are stripped, grouping parentheses are flattened
// and the key material may be split across whitespace, which is how
// dig and OpenDNSSEC emit it. All failures wrap domain.ErrFormat.
func ParseDNSKEY(line string) (DNSKEY, error) {
	// 1. Strip trailing comment and grouping parentheses.
	if idx := strings.IndexByte(line, ';'); idx >= 0 {
		line = line[:idx]
	}
	line = strings.ReplaceAll(line, "(", " ")
	line = strings.ReplaceAll(line, ")", " ")

	fields := strings.Fields(line)
	if len(fields) < 8 {
		return DNSKEY{}, fmt.Errorf("%w: DNSKEY record needs owner, TTL, class, type, flags, protocol, algorithm and key, got %d fields",
			domain.ErrFormat, len(fields))
	}

	// 2. Fixed-position header fields. The owner is normalized to a
	// lowercase FQDN so every derived identity (digest input, registry
	// path) agrees on one spelling.
	owner := strings.ToLower(fields[0])
	if !strings.HasSuffix(owner, ".") {
		owner += "."
	}

	ttl, err := strconv.ParseUint(fields[1], 10, 32)
	if err != nil {
		return DNSKEY{}, fmt.Errorf("%w: TTL %q is not a 32-bit unsigned integer", domain.ErrFormat, fields[1])
	}
	if !strings.EqualFold(fields[2], "IN") {
		return DNSKEY{}, fmt.Errorf("%w: class %q, only IN is supported", domain.ErrFormat, fields[2])
	}
	if !strings.EqualFold(fields[3], "DNSKEY") {
		return DNSKEY{}, fmt.Errorf("%w: record type %q is not DNSKEY", domain.ErrFormat, fields[3])
	}

	flags, err := strconv.ParseUint(fields[4], 10, 16)
	if err != nil {
		return DNSKEY{}, fmt.Errorf("%w: flags %q are not a 16-bit unsigned integer", domain.ErrFormat, fields[4])
	}
	protocol, err := strconv.ParseUint(fields[5], 10, 8)
	if err != nil {
		return DNSKEY{}, fmt.Errorf("%w: protocol %q is not an 8-bit unsigned integer", domain.ErrFormat, fields[5])
	}
	if protocol != 3 {
		return DNSKEY{}, fmt.Errorf("%w: protocol %d, RFC 4034 requires 3", domain.ErrFormat, protocol)
	}
	algorithm, err := strconv.ParseUint(fields[6], 10, 8)
	if err != nil {
		return DNSKEY{}, fmt.Errorf("%w: algorithm %q is not an 8-bit unsigned integer", domain.ErrFormat, fields[6])
	}

	// 3. Key material, possibly split across several fields.
	key, err := base64.StdEncoding.DecodeString(strings.Join(fields[7:], ""))
	if err != nil {
		return DNSKEY{}, fmt.Errorf("%w: public key is not valid base64: %v", domain.ErrFormat, err)
	}
	if len(key) == 0 {
		return DNSKEY{}, fmt.Errorf("%w: public key is empty", domain.ErrFormat)
	}
	if len(key) > wire.MaxRDataSize-4 {
		return DNSKEY{}, fmt.Errorf("%w: public key of %d octets cannot fit in RDATA", domain.ErrFormat, len(key))
	}

	return DNSKEY{
		Owner:     owner,
		TTL:       uint32(ttl),
		Flags:     uint16(flags),
		Protocol:  uint8(protocol),
		Algorithm: uint8(algorithm),
		PublicKey: key,
	}, nil
}

func encodeKey(key []byte) string {
	return base64.StdEncoding.EncodeToString(key)
}
