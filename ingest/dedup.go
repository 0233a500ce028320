package ingest

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// hashText returns the hex SHA-256 digest of normalized (lowercased, trimmed)
// text. A cryptographic digest keeps accidental collisions negligible; two
// records hashing to the same key are treated as duplicates regardless of
// byte-identity.
func hashText(text string) string {
	normalized := strings.ToLower(strings.TrimSpace(text))
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])
}

// keySet tracks dedup keys seen within one ingestion run.
// Run-scoped: created at run start, discarded at run end. Grows with the
// number of distinct records in the source; for the catalog sizes SmartShop
// ingests (tens of thousands of rows) this stays in the low megabytes.
type keySet struct {
	seen map[string]struct{}
}

func newKeySet(seed []string) *keySet {
	ks := &keySet{seen: make(map[string]struct{}, len(seed))}
	for _, key := range seed {
		ks.seen[key] = struct{}{}
	}
	return ks
}

// Add records a key and reports whether it was already present.
// First writer wins: the first record with a given key is kept, all
// subsequent ones are duplicates.
func (ks *keySet) Add(key string) (duplicate bool) {
	if _, ok := ks.seen[key]; ok {
		return true
	}
	ks.seen[key] = struct{}{}
	return false
}

func (ks *keySet) Len() int { return len(ks.seen) }
