package pathutil

import (
	"crypto/sha256"
	"encoding/hex"
)

// ShortHashLength is the number of hex characters kept from a content hash
// when disambiguating symbol ids. Collisions beyond this length are
// acceptable because the full signature text is stored alongside the id.
const ShortHashLength = 8

// HashContent returns the full 256-bit content-addressed hash of s, hex
// encoded.
func HashContent(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// ShortHash returns the first ShortHashLength hex characters of s's content
// hash, used only for id disambiguation.
func ShortHash(s string) string {
	full := HashContent(s)
	if len(full) <= ShortHashLength {
		return full
	}
	return full[:ShortHashLength]
}
