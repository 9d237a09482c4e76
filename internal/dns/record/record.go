// Package record implements the DNSKEY and DS resource records:
// presentation-format parsing, RFC 4034 Appendix B key tags and
// delegation signer digests.
package record

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/poyrazK/dspilot/internal/core/domain"
)

// DigestType identifies the DS digest algorithm (RFC 4034 Appendix A.2
// and the IANA DS RR type digest algorithms registry).
type DigestType uint8

const (
	DigestSHA1   DigestType = 1
	DigestSHA256 DigestType = 2
	DigestSHA384 DigestType = 4
)

var digestNames = map[DigestType]string{
	DigestSHA1:   "SHA-1",
	DigestSHA256: "SHA-256",
	DigestSHA384: "SHA-384",
}

func (d DigestType) String() string {
	if name, ok := digestNames[d]; ok {
		return name
	}
	return fmt.Sprintf("DIGEST%d", uint8(d))
}

// SupportedDigestTypes returns every digest type this tool can compute,
// in registry order.
func SupportedDigestTypes() []DigestType {
	return []DigestType{DigestSHA1, DigestSHA256, DigestSHA384}
}

// ParseDigestType accepts a digest type by number or name, as written
// in flags and config files.
func ParseDigestType(s string) (DigestType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "1", "SHA1", "SHA-1":
		return DigestSHA1, nil
	case "2", "SHA256", "SHA-256":
		return DigestSHA256, nil
	case "4", "SHA384", "SHA-384":
		return DigestSHA384, nil
	}
	return 0, fmt.Errorf("%w: digest type %q", domain.ErrUnsupportedAlgorithm, s)
}

// DNSKEY algorithm numbers accepted for DS derivation. Algorithm 1
// (RSAMD5) is excluded: RFC 4034 Appendix B.1 gives it a different key
// tag formula and RFC 8624 forbids signing with it.
var algorithmNames = map[uint8]string{
	3:  "DSA",
	5:  "RSASHA1",
	6:  "DSA-NSEC3-SHA1",
	7:  "RSASHA1-NSEC3-SHA1",
	8:  "RSASHA256",
	10: "RSASHA512",
	13: "ECDSAP256SHA256",
	14: "ECDSAP384SHA384",
	15: "ED25519",
	16: "ED448",
}

// AlgorithmName returns the IANA mnemonic for a DNSKEY algorithm
// number, or ALG<n> when unrecognized.
func AlgorithmName(code uint8) string {
	if name, ok := algorithmNames[code]; ok {
		return name
	}
	return fmt.Sprintf("ALG%d", code)
}

// AlgorithmSupported reports whether DS derivation is defined for the
// algorithm number.
func AlgorithmSupported(code uint8) bool {
	_, ok := algorithmNames[code]
	return ok
}

// DNSKEY is a parsed DNSKEY resource record. Flags are carried as the
// raw 16-bit field; the public key is the decoded key material.
type DNSKEY struct {
	Owner     string
	TTL       uint32
	Flags     uint16
	Protocol  uint8
	Algorithm uint8
	PublicKey []byte
}

// String renders the record in presentation format with the key
// material base64-encoded in a single field.
func (k DNSKEY) String() string {
	return fmt.Sprintf("%s %d IN DNSKEY %d %d %d %s",
		k.Owner, k.TTL, k.Flags, k.Protocol, k.Algorithm, encodeKey(k.PublicKey))
}

// DS is a derived delegation signer record.
type DS struct {
	Owner      string
	TTL        uint32
	KeyTag     uint16
	Algorithm  uint8
	DigestType DigestType
	Digest     []byte
}

// DigestHex returns the digest as lowercase hex, the form registry
// APIs and JSON reports carry.
func (d DS) DigestHex() string {
	return hex.EncodeToString(d.Digest)
}

// String renders the record in presentation format. RFC 4034 section
// 5.3 presents the digest in uppercase hex.
func (d DS) String() string {
	return fmt.Sprintf("%s %d IN DS %d %d %d %s",
		d.Owner, d.TTL, d.KeyTag, d.Algorithm, uint8(d.DigestType), strings.ToUpper(d.DigestHex()))
}
