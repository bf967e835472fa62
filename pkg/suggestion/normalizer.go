package suggestion

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"

	"pantrywatch/entities"
)

// fingerprintDelimiter is not expected to appear in ingredient names.
const fingerprintDelimiter = "|"

// NormalizeIngredients builds the canonical ingredient set for a batch of
// items: trimmed, lowercased, deduplicated, sorted. Returns an empty slice
// when nothing usable remains; callers treat that as "nothing to suggest".
func NormalizeIngredients(items []*entities.PerishableItem) []string {
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		name := strings.ToLower(strings.TrimSpace(item.Name))
		if name == "" {
			continue
		}
		seen[name] = struct{}{}
	}

	ingredients := make([]string, 0, len(seen))
	for name := range seen {
		ingredients = append(ingredients, name)
	}
	sort.Strings(ingredients)
	return ingredients
}

// Fingerprint derives the stable identity key for an ingredient set. Two sets
// with the same members always hash identically regardless of the original
// casing, ordering or duplication of the input names.
func Fingerprint(ingredients []string) string {
	joined := strings.Join(ingredients, fingerprintDelimiter)
	hash := sha256.Sum256([]byte(joined))
	return hex.EncodeToString(hash[:])
}
