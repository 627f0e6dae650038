// Package strings holds small helpers for claim and header values.
package strings

import "strings"

// FoldDedupe trims and lowercases each value, then drops empties and
// duplicates. First-seen order is kept.
//
//	FoldDedupe([]string{" Staff", "view", "STAFF", ""})
//	// []string{"staff", "view"}
func FoldDedupe(values []string) []string {
	if len(values) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		folded := strings.ToLower(strings.TrimSpace(v))
		if folded == "" {
			continue
		}
		if _, dup := seen[folded]; dup {
			continue
		}
		seen[folded] = struct{}{}
		out = append(out, folded)
	}
	return out
}
