package vpax

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// Fingerprint identifies an export by the xxhash of its raw bytes.
func Fingerprint(data []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(data))
}
