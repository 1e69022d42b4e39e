package auth

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/openpgp"
)

// MinPGPKeyLength matches the marketplace's register validation.
const MinPGPKeyLength = 100

var ErrInvalidPGPKey = errors.New("invalid PGP key")

// ValidatePGPKey checks that armored is an ASCII-armored OpenPGP key ring
// holding at least one key, and returns the primary key fingerprints.
func ValidatePGPKey(armored string) ([]string, error) {
	armored = strings.TrimSpace(armored)
	if len(armored) < MinPGPKeyLength {
		return nil, fmt.Errorf("%w: shorter than %d characters", ErrInvalidPGPKey, MinPGPKeyLength)
	}
	entities, err := openpgp.ReadArmoredKeyRing(strings.NewReader(armored))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPGPKey, err)
	}
	if len(entities) == 0 {
		return nil, fmt.Errorf("%w: no keys found", ErrInvalidPGPKey)
	}
	fingerprints := make([]string, 0, len(entities))
	for _, e := range entities {
		fingerprints = append(fingerprints, fmt.Sprintf("%X", e.PrimaryKey.Fingerprint))
	}
	return fingerprints, nil
}
