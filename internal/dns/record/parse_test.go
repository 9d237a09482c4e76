package record

import (
	"errors"
	"strings"
	"testing"

	"github.com/poyrazK/dspilot/internal/core/domain"
)

func TestParseDNSKEY(t *testing.T) {
	key, err := ParseDNSKEY(p256KeyLine)
	if err != nil {
		t.Fatalf("ParseDNSKEY failed: %v", err)
	}

	if key.Owner != "example.net." {
		t.Errorf("Owner = %q, expected example.net.", key.Owner)
	}
	if key.TTL != 3600 {
		t.Errorf("TTL = %d, expected 3600", key.TTL)
	}
	if key.Flags != 257 {
		t.Errorf("Flags = %d, expected 257", key.Flags)
	}
	if key.Protocol != 3 {
		t.Errorf("Protocol = %d, expected 3", key.Protocol)
	}
	if key.Algorithm != 13 {
		t.Errorf("Algorithm = %d, expected 13", key.Algorithm)
	}
	if len(key.PublicKey) != 64 {
		t.Errorf("decoded key is %d octets, expected 64", len(key.PublicKey))
	}
}

func TestParseDNSKEYNormalizesOwner(t *testing.T) {
	key, err := ParseDNSKEY("Example.NET 3600 in dnskey 257 3 13 GojIhhXUN/u4v54ZQqGSnyhWJwaubCvTmeexv7bR6edbkrSqQpF64cYbcB7wNcP+e+MAnLr+Wi9xMWyQLc8NAA==")
	if err != nil {
		t.Fatalf("ParseDNSKEY failed: %v", err)
	}
	if key.Owner != "example.net." {
		t.Errorf("Owner = %q, expected lowercase FQDN example.net.", key.Owner)
	}
}

func TestParseDNSKEYStripsCommentAndParens(t *testing.T) {
	bare := strings.ReplaceAll(strings.ReplaceAll(rsaKeyLine, "(", " "), ")", " ")
	plain, err := ParseDNSKEY(bare)
	if err != nil {
		t.Fatalf("ParseDNSKEY without parens failed: %v", err)
	}
	grouped := mustParse(t, rsaKeyLine)

	if plain.KeyTag() != grouped.KeyTag() {
		t.Errorf("paren handling changed the record: tags %d vs %d", plain.KeyTag(), grouped.KeyTag())
	}
	if grouped.KeyTag() != rsaKeyTag {
		t.Errorf("KeyTag = %d, expected %d", grouped.KeyTag(), rsaKeyTag)
	}
}

func TestParseDNSKEYErrors(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"empty line", ""},
		{"comment only", "; this line is all comment"},
		{"too few fields", "example.net. 3600 IN DNSKEY 257 3 13"},
		{"bad TTL", "example.net. soon IN DNSKEY 257 3 13 AA=="},
		{"negative TTL", "example.net. -1 IN DNSKEY 257 3 13 AA=="},
		{"TTL overflow", "example.net. 4294967296 IN DNSKEY 257 3 13 AA=="},
		{"wrong class", "example.net. 3600 CH DNSKEY 257 3 13 AA=="},
		{"wrong type", "example.net. 3600 IN DS 257 3 13 AA=="},
		{"flags overflow", "example.net. 3600 IN DNSKEY 65536 3 13 AA=="},
		{"bad protocol", "example.net. 3600 IN DNSKEY 257 2 13 AA=="},
		{"protocol overflow", "example.net. 3600 IN DNSKEY 257 256 13 AA=="},
		{"algorithm overflow", "example.net. 3600 IN DNSKEY 257 3 300 AA=="},
		{"bad base64", "example.net. 3600 IN DNSKEY 257 3 13 not-base64!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDNSKEY(tt.line)
			if err == nil {
				t.Fatalf("ParseDNSKEY(%q) succeeded, expected error", tt.line)
			}
			if !errors.Is(err, domain.ErrFormat) {
				t.Errorf("error %v does not wrap ErrFormat", err)
			}
		})
	}
}

func TestParseDNSKEYUnknownAlgorithmPasses(t *testing.T) {
	// The parser carries any 8-bit algorithm number; support is only
	// checked at conversion time.
	key, err := ParseDNSKEY("example.net. 3600 IN DNSKEY 257 3 200 AA==")
	if err != nil {
		t.Fatalf("ParseDNSKEY failed: %v", err)
	}
	if key.Algorithm != 200 {
		t.Errorf("Algorithm = %d, expected 200", key.Algorithm)
	}
	if _, err := key.ToDS(DigestSHA256); !errors.Is(err, domain.ErrUnsupportedAlgorithm) {
		t.Errorf("ToDS error = %v, expected ErrUnsupportedAlgorithm", err)
	}
}
