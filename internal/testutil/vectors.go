package testutil

// DNSKEY records and derived DS digests published in RFC 4034 section
// 5.4, RFC 4509 section 2.3 and RFC 6605 section 6.1, usable as known
// answers anywhere in the test suites.
const (
	// RSAKeyLine is the RSASHA1 zone key for dskey.example.com.
	RSAKeyLine   = "dskey.example.com. 86400 IN DNSKEY 256 3 5 ( AQOeiiR0GOMYkDshWoSKz9Xz fwJr1AYtsmx3TGkJaNXVbfi/ 2pHm822aJ5iI9BMzNXxeYCmZ DRD99WYwYqUSdjMmmAphXdvx egXd/M5+X7OrzKBaMbCVdFLU Uh6DhweJBjEVv5f2wwjM9Xzc nOf+EPbtG9DMBmADjFDc2w/r ljwvFw== ) ; key id = 60485"
	RSAKeyTag    = 60485
	RSAKeySHA1   = "2bb183af5f22588179a53b0a98631fad1a292118"
	RSAKeySHA256 = "d4b7d520e7bb5f0f67674a0cceb1e3e0614b93c4f9e99b8383f6a1e4469da50a"

	// P256KeyLine is the ECDSA P-256 key signing key for example.net.
	P256KeyLine   = "example.net. 3600 IN DNSKEY 257 3 13 GojIhhXUN/u4v54ZQqGSnyhWJwaubCvTmeexv7bR6edbkrSqQpF64cYbcB7wNcP+e+MAnLr+Wi9xMWyQLc8NAA=="
	P256KeyTag    = 55648
	P256KeySHA256 = "b4c8c1fe2e7477127b27115656ad6256f424625bf5c1e2770ce6d6e37df61d17"
)
