package project

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
)

// Digest is a SHA-256 content fingerprint.
type Digest [32]byte

func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// IsZero reports whether the digest was never computed.
func (d Digest) IsZero() bool {
	var z Digest
	return d == z
}

// HashBytes fingerprints a byte slice.
func HashBytes(data []byte) Digest {
	return sha256.Sum256(data)
}

// HashFile fingerprints the content of a file on disk.
func HashFile(path string) (Digest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Digest{}, err
	}
	return HashBytes(data), nil
}
