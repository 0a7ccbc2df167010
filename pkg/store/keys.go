package store

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// materialPrefix namespaces material documents in key-value stores.
const materialPrefix = "material:"

func materialKey(material string) string {
	return materialPrefix + material
}

// materialNames returns the sorted material names of the document keys
// among keys.
func materialNames(keys []string) []string {
	names := make([]string, 0, len(keys))
	for _, k := range keys {
		if name, ok := strings.CutPrefix(k, materialPrefix); ok && name != "" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Hash returns the hex SHA-256 digest of key. File stores shard their
// entries by its first two characters.
func Hash(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}
