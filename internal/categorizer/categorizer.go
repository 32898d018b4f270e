// Package categorizer assigns category labels to transactions using keyword
// pattern matching against ordered category rules.
package categorizer

import (
	"strings"

	"fjacquet/budgify/internal/models"
)

// Categorize returns the first category whose keywords match the transaction.
//
// Matching is case-insensitive substring containment against the merchant
// name and, failing that, the description. Rules are tried in slice order so
// the caller controls precedence. The second return value is false when no
// rule matches; that is the normal terminal state for unknown merchants, not
// an error.
//
// The function is pure: no I/O, no side effects, deterministic for a given
// transaction and rule set.
func Categorize(tx models.Transaction, rules models.CategoryRules) (string, bool) {
	merchant := strings.ToLower(tx.Merchant)
	description := strings.ToLower(tx.Description)

	for _, rule := range rules {
		for _, keyword := range rule.Keywords {
			kw := strings.ToLower(keyword)
			if kw == "" {
				continue
			}
			if strings.Contains(merchant, kw) || strings.Contains(description, kw) {
				return rule.Name, true
			}
		}
	}
	return "", false
}
