package util

import (
	"crypto/sha256"
	"math/big"

	"github.com/gofrs/uuid"
)

// uidRoot is the registered root under which all deterministic UIDs are
// issued. Derived UIDs stay within the 64-character DICOM limit.
const uidRoot = "1.2.826.0.1.3680043.8.498"

// GenerateDeterministicUID derives a dotted-numeric DICOM UID from an
// arbitrary seed string. The same seed always yields the same UID.
func GenerateDeterministicUID(seed string) string {
	sum := sha256.Sum256([]byte(seed))
	// 96 bits keep the suffix at 29 decimal digits or fewer.
	n := new(big.Int).SetBytes(sum[:12])
	return uidRoot + "." + n.String()
}

// GenerateUID returns a random DICOM UID in the UUID-derived "2.25." form.
func GenerateUID() string {
	u := uuid.Must(uuid.NewV4())
	n := new(big.Int).SetBytes(u.Bytes())
	return "2.25." + n.String()
}
