// Package signature provides signature evidence helpers for signed clinical
// documents: drawn-signature data URL validation and tamper-evidence hashes.
package signature

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
)

// dataURLPrefix is the required prefix for a drawn signature image.
const dataURLPrefix = "data:image"

// ValidDataURL reports whether s carries an inline signature image. Only the
// scheme and media-type prefix are checked; the image payload is stored as
// opaque evidence.
func ValidDataURL(s string) bool {
	return strings.HasPrefix(s, dataURLPrefix)
}

// ContentHash computes the hex SHA-256 of the canonical JSON encoding of the
// clinical payload. Keys are sorted and the encoding is compact, so the same
// content always yields the same hash regardless of field order.
func ContentHash(payload map[string]interface{}) (string, error) {
	// json.Marshal sorts map keys and emits compact output
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}

// Hash computes the hex SHA-256 binding a content hash to the signature image
// that attested it.
func Hash(contentHash, dataURL string) string {
	sum := sha256.Sum256([]byte(contentHash + "|" + dataURL))
	return hex.EncodeToString(sum[:])
}
