package resource

import "hash/fnv"

// Key identifies a registered asset. Guests pick human-readable strings; the
// host collapses them to 64-bit FNV-1a. The hash is stable and
// order-sensitive. Collisions are not detected: two strings hashing alike
// alias the same registry slot, which is an accepted property of the wire
// contract rather than a defect to widen away.
type Key uint64

// KeyOf hashes guest-supplied key bytes.
func KeyOf(name []byte) Key {
	h := fnv.New64a()
	h.Write(name)
	return Key(h.Sum64())
}

// KeyOfString hashes a string key. Identical bytes produce identical keys
// through either entry point.
func KeyOfString(name string) Key {
	return KeyOf([]byte(name))
}
