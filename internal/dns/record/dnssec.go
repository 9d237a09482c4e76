package record

import (
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"

	"github.com/poyrazK/dspilot/internal/core/domain"
	"github.com/poyrazK/dspilot/internal/dns/wire"
)

// RData returns the DNSKEY RDATA in wire form: flags, protocol,
// algorithm, then the key material.
func (k DNSKEY) RData() []byte {
	out := make([]byte, 0, 4+len(k.PublicKey))
	out = append(out, byte(k.Flags>>8), byte(k.Flags&0xFF), k.Protocol, k.Algorithm)
	return append(out, k.PublicKey...)
}

// KeyTag computes the RFC 4034 Appendix B key tag: a ones-complement
// style checksum over the RDATA, folding the carry back in once.
func (k DNSKEY) KeyTag() uint16 {
	var ac uint32
	for i, b := range k.RData() {
		if i%2 == 0 {
			ac += uint32(b) << 8
		} else {
			ac += uint32(b)
		}
	}
	return uint16(((ac & 0xFFFF) + (ac >> 16)) & 0xFFFF)
}

// ToDS derives the delegation signer record per RFC 4034 section 5.1.4:
// the digest covers the canonical wire form of the owner name followed
// by the DNSKEY RDATA.
func (k DNSKEY) ToDS(digestType DigestType) (DS, error) {
	if !AlgorithmSupported(k.Algorithm) {
		return DS{}, fmt.Errorf("%w: DNSKEY algorithm %d (%s)",
			domain.ErrUnsupportedAlgorithm, k.Algorithm, AlgorithmName(k.Algorithm))
	}
	h, err := digestType.newHash()
	if err != nil {
		return DS{}, err
	}

	// 1. Canonical owner name | RDATA.
	buf := wire.NewBuffer()
	if err := buf.WriteName(k.Owner); err != nil {
		return DS{}, fmt.Errorf("%w: owner %q: %v", domain.ErrFormat, k.Owner, err)
	}
	if err := buf.WriteUint16(k.Flags); err != nil {
		return DS{}, fmt.Errorf("%w: %v", domain.ErrFormat, err)
	}
	if err := buf.Write(k.Protocol); err != nil {
		return DS{}, fmt.Errorf("%w: %v", domain.ErrFormat, err)
	}
	if err := buf.Write(k.Algorithm); err != nil {
		return DS{}, fmt.Errorf("%w: %v", domain.ErrFormat, err)
	}
	if err := buf.WriteBytes(k.PublicKey); err != nil {
		return DS{}, fmt.Errorf("%w: %v", domain.ErrFormat, err)
	}

	// 2. Hash it.
	h.Write(buf.Bytes())

	return DS{
		Owner:      k.Owner,
		TTL:        k.TTL,
		KeyTag:     k.KeyTag(),
		Algorithm:  k.Algorithm,
		DigestType: digestType,
		Digest:     h.Sum(nil),
	}, nil
}

// Convert derives one DS record per requested digest type, in the
// order given. No digest types means every supported type. Duplicates
// are dropped.
func Convert(k DNSKEY, digestTypes ...DigestType) ([]DS, error) {
	if len(digestTypes) == 0 {
		digestTypes = SupportedDigestTypes()
	}

	out := make([]DS, 0, len(digestTypes))
	seen := make(map[DigestType]bool, len(digestTypes))
	for _, dt := range digestTypes {
		if seen[dt] {
			continue
		}
		seen[dt] = true
		ds, err := k.ToDS(dt)
		if err != nil {
			return nil, err
		}
		out = append(out, ds)
	}
	return out, nil
}

func (d DigestType) newHash() (hash.Hash, error) {
	switch d {
	case DigestSHA1:
		return sha1.New(), nil
	case DigestSHA256:
		return sha256.New(), nil
	case DigestSHA384:
		return sha512.New384(), nil
	}
	return nil, fmt.Errorf("%w: DS digest type %d", domain.ErrUnsupportedAlgorithm, uint8(d))
}
