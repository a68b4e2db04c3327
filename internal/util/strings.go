package util

import "strings"

// NormalizeOptional trims s and substitutes fallback when nothing is left.
func NormalizeOptional(s, fallback string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback
	}
	return s
}

// DedupeStable drops repeated values and keeps the first occurrence order.
func DedupeStable(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
