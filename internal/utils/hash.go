package utils

import "hash/fnv"

// HashParts hashes parts with FNV-64a, separating them with a NUL byte so that
// ("ab", "c") and ("a", "bc") differ.
func HashParts(parts ...string) uint64 {
	h := fnv.New64a()
	for i, p := range parts {
		if i > 0 {
			_, _ = h.Write([]byte{0})
		}
		_, _ = h.Write([]byte(p))
	}
	return h.Sum64()
}
