// Package contentkey derives cache keys from raw content bytes.
package contentkey

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/zeebo/blake3"

	"ocrgate/internal/domain"
)

// DefaultPrefix namespaces extraction results in a shared store.
const DefaultPrefix = "ocr"

// digestSize is the length in bytes of every content digest.
const digestSize = 16

// Key identifies content in the result cache, formatted "<prefix>:<hex>".
type Key string

// Digest returns the hex digest part of k.
func (k Key) Digest() string {
	s := string(k)
	if i := strings.LastIndexByte(s, ':'); i >= 0 {
		return s[i+1:]
	}
	return s
}

func (k Key) String() string { return string(k) }

// Deriver maps content to keys. It is stateless and safe for concurrent use.
type Deriver struct {
	prefix    string
	algorithm domain.DigestAlgorithm
}

// New creates a Deriver. An empty algorithm selects MD5.
func New(prefix string, algorithm domain.DigestAlgorithm) (*Deriver, error) {
	if prefix == "" {
		return nil, fmt.Errorf("contentkey: empty prefix")
	}
	if algorithm == "" {
		algorithm = domain.DigestMD5
	}
	switch algorithm {
	case domain.DigestMD5, domain.DigestBLAKE3:
	default:
		return nil, fmt.Errorf("contentkey: %w: %q", domain.ErrUnsupportedDigest, algorithm)
	}
	return &Deriver{prefix: prefix, algorithm: algorithm}, nil
}

// Default returns the "ocr" + MD5 deriver, matching keys written by other
// instances sharing the same store.
func Default() *Deriver {
	return &Deriver{prefix: DefaultPrefix, algorithm: domain.DigestMD5}
}

// Derive returns the key for content. Empty content is a valid input.
func (d *Deriver) Derive(content []byte) Key {
	var sum [digestSize]byte
	switch d.algorithm {
	case domain.DigestBLAKE3:
		// BLAKE3 output is extendable; the first 16 bytes are a 128-bit digest.
		full := blake3.Sum256(content)
		copy(sum[:], full[:digestSize])
	default:
		sum = md5.Sum(content)
	}
	return Key(d.prefix + ":" + hex.EncodeToString(sum[:]))
}

// Algorithm reports the digest in use.
func (d *Deriver) Algorithm() domain.DigestAlgorithm {
	return d.algorithm
}

// Derive computes the key for content with the default deriver.
func Derive(content []byte) Key {
	return Default().Derive(content)
}
