// Package services contains domain business logic.
package services

import (
	"strings"

	"github.com/google/uuid"
)

// claimNamespace is the fixed UUID namespace for claim fingerprints.
// Changing it would orphan every stored record.
var claimNamespace = uuid.MustParse("8f3c1a6e-5b2d-4e9f-a1c7-d0b4e6f82a53")

// Fingerprint derives the stable cache key for a claim. The text is
// case-folded and trimmed first, so paraphrase-equal inputs like " Foo "
// and "foo" map to the same key; internal whitespace is preserved.
//
// The result is an MD5-based UUID (version 3) over the normalized text:
// deterministic across restarts and directly usable as a point id in the
// semantic index.
func Fingerprint(claimText string) string {
	normalized := strings.ToLower(strings.TrimSpace(claimText))
	return uuid.NewMD5(claimNamespace, []byte(normalized)).String()
}
