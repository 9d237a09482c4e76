package record

import (
	"encoding/base64"
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/miekg/dns"
)

// Cross-checks against the miekg/dns implementation of parsing, key
// tags and DS digests.

func referenceKey(t *testing.T, line string) *dns.DNSKEY {
	t.Helper()
	rr, err := dns.NewRR(line)
	if err != nil {
		t.Fatalf("dns.NewRR failed: %v", err)
	}
	key, ok := rr.(*dns.DNSKEY)
	if !ok {
		t.Fatalf("dns.NewRR returned %T, expected *dns.DNSKEY", rr)
	}
	return key
}

func TestParseAgreesWithReference(t *testing.T) {
	for _, line := range []string{rsaKeyLine, p256KeyLine, p384KeyLine} {
		key := mustParse(t, line)
		ref := referenceKey(t, line)

		if key.Owner != strings.ToLower(ref.Hdr.Name) {
			t.Errorf("owner = %q, reference %q", key.Owner, ref.Hdr.Name)
		}
		if key.TTL != ref.Hdr.Ttl {
			t.Errorf("TTL = %d, reference %d", key.TTL, ref.Hdr.Ttl)
		}
		if key.Flags != ref.Flags {
			t.Errorf("flags = %d, reference %d", key.Flags, ref.Flags)
		}
		if key.Protocol != ref.Protocol {
			t.Errorf("protocol = %d, reference %d", key.Protocol, ref.Protocol)
		}
		if key.Algorithm != ref.Algorithm {
			t.Errorf("algorithm = %d, reference %d", key.Algorithm, ref.Algorithm)
		}
		if got := encodeKey(key.PublicKey); got != ref.PublicKey {
			t.Errorf("public key = %q, reference %q", got, ref.PublicKey)
		}
	}
}

func TestKeyTagAgreesWithReference(t *testing.T) {
	for _, line := range []string{rsaKeyLine, p256KeyLine, p384KeyLine} {
		key := mustParse(t, line)
		ref := referenceKey(t, line)

		if got, want := key.KeyTag(), ref.KeyTag(); got != want {
			t.Errorf("KeyTag() = %d, reference %d for %q", got, want, key.Owner)
		}
	}
}

func TestRandomizedKeysAgreeWithReference(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	flags := []uint16{256, 257}
	algorithms := []uint8{5, 8, 13, 15}

	for i := 0; i < 64; i++ {
		raw := make([]byte, 16+rng.Intn(176))
		rng.Read(raw)

		owner := mixCase(rng, fmt.Sprintf("key-%d.interop.example.", i))
		line := fmt.Sprintf("%s 3600 IN DNSKEY %d 3 %d %s",
			owner,
			flags[rng.Intn(len(flags))],
			algorithms[rng.Intn(len(algorithms))],
			base64.StdEncoding.EncodeToString(raw))

		key := mustParse(t, line)
		ref := referenceKey(t, line)

		if got, want := key.KeyTag(), ref.KeyTag(); got != want {
			t.Fatalf("KeyTag() = %d, reference %d for %q", got, want, line)
		}
		for _, dt := range SupportedDigestTypes() {
			ds, err := key.ToDS(dt)
			if err != nil {
				t.Fatalf("ToDS(%v) failed for %q: %v", dt, line, err)
			}
			refDS := ref.ToDS(uint8(dt))
			if refDS == nil {
				t.Fatalf("reference ToDS(%d) returned nil for %q", uint8(dt), line)
			}
			if got := ds.DigestHex(); got != refDS.Digest {
				t.Fatalf("digest type %d = %s, reference %s for %q", uint8(dt), got, refDS.Digest, line)
			}
		}
	}
}

// mixCase randomizes ASCII letter case so canonicalization, not the
// input spelling, determines key tags and digests.
func mixCase(rng *rand.Rand, s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'a' && c <= 'z' && rng.Intn(2) == 0 {
			b[i] = c - 'a' + 'A'
		}
	}
	return string(b)
}

func TestDigestAgreesWithReference(t *testing.T) {
	for _, line := range []string{rsaKeyLine, p256KeyLine, p384KeyLine} {
		key := mustParse(t, line)
		ref := referenceKey(t, line)

		for _, dt := range SupportedDigestTypes() {
			ds, err := key.ToDS(dt)
			if err != nil {
				t.Fatalf("ToDS(%v) failed: %v", dt, err)
			}
			refDS := ref.ToDS(uint8(dt))
			if refDS == nil {
				t.Fatalf("reference ToDS(%d) returned nil", uint8(dt))
			}
			if got := ds.DigestHex(); got != refDS.Digest {
				t.Errorf("digest type %d = %s, reference %s", uint8(dt), got, refDS.Digest)
			}
			if ds.KeyTag != refDS.KeyTag {
				t.Errorf("digest type %d key tag = %d, reference %d", uint8(dt), ds.KeyTag, refDS.KeyTag)
			}
		}
	}
}
