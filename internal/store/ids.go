package store

import (
	"encoding/base32"
	"strings"

	"github.com/google/uuid"
)

// newID returns prefix-<suffix> where suffix is 8 lowercase base32 chars taken from a
// random uuid.
func newID(prefix string) (string, error) {
	u, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	enc := base32.StdEncoding.WithPadding(base32.NoPadding)
	suffix := strings.ToLower(enc.EncodeToString(u[:5]))
	return prefix + "-" + suffix, nil
}
