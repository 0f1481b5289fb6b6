package snapshot

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// DomainSnapshot prefixes snapshot digests. The version suffix allows the
// encoding to change without colliding with older digests.
const DomainSnapshot = "corona/snapshot/v1"

// hashWithDomain computes SHA256(domain + 0x00 + data).
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Digest returns the content address of a snapshot.
func Digest(s Snapshot) (string, error) {
	canonical, err := s.Canonical()
	if err != nil {
		return "", fmt.Errorf("snapshot digest: %w", err)
	}
	return hashWithDomain(DomainSnapshot, canonical), nil
}
