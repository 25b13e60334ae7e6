package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// hashKey builds a namespaced cache key "prefix:hash(parts...)". Parts are
// JSON-encoded before hashing so structured option values (viewport sizes,
// format strings) key deterministically.
func hashKey(prefix string, parts ...interface{}) string {
	data, _ := json.Marshal(parts)
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(sum[:]))
}

// Hash returns the full 64-character hex SHA-256 of data. Snapshot content
// hashes and file cache paths both derive from it.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
