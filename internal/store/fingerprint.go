package store

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// Fingerprint derives the stable uid a sample is stored under. The payload is
// the sample's canonical JSON rendering, so it already covers the interval and
// every property; equal samples always map to the same uid, which is what
// makes re-imports idempotent.
func Fingerprint(typeName string, payload []byte) string {
	d := xxhash.New()
	_, _ = d.WriteString(typeName)
	_, _ = d.WriteString("|")
	_, _ = d.Write(payload)
	return fmt.Sprintf("%016x", d.Sum64())
}
