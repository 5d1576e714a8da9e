package uri

import (
	"strings"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
)

// v1Prefixes are the multibase prefixes accepted for CIDv1 strings:
// base32, base58btc and base36. Other multibase alphabets are rejected so that
// arbitrary identifiers (Arweave transaction ids, names) are not mistaken for
// content identifiers.
const v1Prefixes = "bBzkK"

// IsCID reports whether hash is a valid content identifier, either a legacy
// base58 CIDv0 ("Qm...") or a multibase-encoded CIDv1 ("bafy...", "zdj7...").
// Malformed input yields false.
func IsCID(hash string) bool {
	if hash == "" {
		return false
	}
	c, err := cid.Decode(hash)
	if err != nil || !c.Defined() {
		return false
	}
	if c.Version() == 1 && !strings.ContainsRune(v1Prefixes, rune(hash[0])) {
		return false
	}
	if _, err := multihash.Decode(c.Hash()); err != nil {
		return false
	}
	return true
}
