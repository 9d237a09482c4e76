package main

import (
	"encoding/base64"
	"fmt"
	"math/rand"
)

var tlds = []string{"com", "net", "org", "io", "dev", "ai", "cloud", "gov", "edu", "tr", "com.tr", "me", "info"}

// keyProfiles pairs each benchmark algorithm with a realistic public
// key length so the parse and hash costs match live traffic.
var keyProfiles = []struct {
	algorithm uint8
	keyLen    int
}{
	{8, 130},  // RSASHA256, 1024-bit modulus plus exponent
	{8, 260},  // RSASHA256, 2048-bit modulus
	{13, 64},  // ECDSAP256SHA256
	{14, 96},  // ECDSAP384SHA384
	{15, 32},  // ED25519
}

// generateKeyLines builds a deterministic synthetic DNSKEY corpus in
// presentation format. Every tenth key is a KSK (SEP bit set).
func generateKeyLines(n int, seed int64) []string {
	r := rand.New(rand.NewSource(seed))
	lines := make([]string, 0, n)

	for i := 0; i < n; i++ {
		profile := keyProfiles[i%len(keyProfiles)]
		key := make([]byte, profile.keyLen)
		r.Read(key)

		flags := 256
		if i%10 == 0 {
			flags = 257
		}
		owner := fmt.Sprintf("zone-%d.%s.", i, tlds[i%len(tlds)])
		lines = append(lines, fmt.Sprintf("%s 3600 IN DNSKEY %d 3 %d %s",
			owner, flags, profile.algorithm, base64.StdEncoding.EncodeToString(key)))
	}
	return lines
}
