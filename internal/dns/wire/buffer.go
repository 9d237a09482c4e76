// Package wire assembles DNS wire-format data: RDATA fields and
// canonical owner names as defined by RFC 4034 section 6.
package wire

import (
	"errors"
	"strings"
)

// MaxRDataSize is the largest RDATA a resource record can carry.
const MaxRDataSize = 65535

// MaxNameSize is the largest wire-encoded domain name, including the
// root terminator.
const MaxNameSize = 255

// MaxLabelSize is the largest single label inside a domain name.
const MaxLabelSize = 63

var (
	ErrBufferFull   = errors.New("wire data exceeds maximum size")
	ErrLabelTooLong = errors.New("label exceeds 63 octets")
	ErrNameTooLong  = errors.New("name exceeds 255 octets")
	ErrEmptyLabel   = errors.New("empty label inside name")
)

// Buffer accumulates wire-format bytes. Integers are written big-endian;
// names are written as length-prefixed labels, lowercased and
// root-terminated, which is the canonical form digest computation
// requires.
type Buffer struct {
	buf []byte
}

func NewBuffer() *Buffer {
	return &Buffer{buf: make([]byte, 0, 512)}
}

// Bytes returns the accumulated wire data.
func (b *Buffer) Bytes() []byte {
	return b.buf
}

// Len returns the number of bytes written so far.
func (b *Buffer) Len() int {
	return len(b.buf)
}

// Write appends a single byte.
func (b *Buffer) Write(v byte) error {
	if len(b.buf)+1 > MaxRDataSize {
		return ErrBufferFull
	}
	b.buf = append(b.buf, v)
	return nil
}

// WriteBytes appends a byte slice.
func (b *Buffer) WriteBytes(p []byte) error {
	if len(b.buf)+len(p) > MaxRDataSize {
		return ErrBufferFull
	}
	b.buf = append(b.buf, p...)
	return nil
}

// WriteUint16 appends a uint16 (Big Endian).
func (b *Buffer) WriteUint16(v uint16) error {
	if err := b.Write(byte(v >> 8)); err != nil {
		return err
	}
	return b.Write(byte(v & 0xFF))
}

// WriteName appends a domain name in canonical wire form: each label
// length-prefixed and lowercased, terminated by the root label. The
// name may or may not carry a trailing dot; escapes are not supported.
func (b *Buffer) WriteName(name string) error {
	wireLen := 1 // root terminator
	parts := strings.Split(name, ".")
	for i, part := range parts {
		if part == "" {
			// A trailing dot yields one empty final part; anything
			// else is a malformed name such as "a..example.com."
			if i == len(parts)-1 {
				continue
			}
			if len(parts) == 2 && i == 0 && name == "." {
				continue
			}
			return ErrEmptyLabel
		}
		if len(part) > MaxLabelSize {
			return ErrLabelTooLong
		}
		wireLen += len(part) + 1
		if wireLen > MaxNameSize {
			return ErrNameTooLong
		}
		if err := b.Write(byte(len(part))); err != nil {
			return err
		}
		for j := 0; j < len(part); j++ {
			if err := b.Write(lowerASCII(part[j])); err != nil {
				return err
			}
		}
	}
	return b.Write(0)
}

// lowerASCII lowercases only the ASCII uppercase range. Canonical name
// form (RFC 4034 section 6.2) folds US-ASCII letters and nothing else,
// independent of locale.
func lowerASCII(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + 'a' - 'A'
	}
	return c
}
