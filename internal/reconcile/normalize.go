package reconcile

import "strings"

// normalizeKey canonicalizes external ids before joining the two sides.
func normalizeKey(id string) string {
	return strings.TrimSpace(id)
}

// normalizeName folds whitespace padding and letter case; provider feeds are
// inconsistent about both.
func normalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// normalizeResult canonicalizes score strings: "2-1", "2 : 1" and "2:1" all
// mean the same result. Separator becomes ":" and spaces around it are dropped.
func normalizeResult(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	s = strings.ReplaceAll(s, "-", ":")
	parts := strings.Split(s, ":")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return strings.Join(parts, ":")
}
