package hasher

import (
	"encoding/hex"

	"github.com/cespare/xxhash/v2"
)

// ContentHash computes the xxHash64 of data and returns a hex string
// truncated to the given length. Manifest records use 16 hex chars
// (64 bits), which is collision-safe for practical variant counts.
func ContentHash(data []byte, hexLen int) string {
	h := xxhash.Sum64(data)
	full := hex.EncodeToString(uint64ToBytes(h))
	if hexLen > 0 && hexLen < len(full) {
		return full[:hexLen]
	}
	return full
}

func uint64ToBytes(v uint64) []byte {
	b := make([]byte, 8)
	b[0] = byte(v >> 56)
	b[1] = byte(v >> 48)
	b[2] = byte(v >> 40)
	b[3] = byte(v >> 32)
	b[4] = byte(v >> 24)
	b[5] = byte(v >> 16)
	b[6] = byte(v >> 8)
	b[7] = byte(v)
	return b
}
