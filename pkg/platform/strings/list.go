// Package strings parses the comma-separated lists used in configuration.
package strings

import (
	"strings"
)

// SplitList splits s on sep, trims each element and drops empty and repeated
// elements. Order of first occurrence is preserved; an empty input gives nil.
//
//	SplitList(" a:9092, b:9092,,a:9092 ", ",") // []string{"a:9092", "b:9092"}
func SplitList(s, sep string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return dedupeAndTrim(strings.Split(s, sep))
}

func dedupeAndTrim(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	var result []string
	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; !ok {
			seen[trimmed] = struct{}{}
			result = append(result, trimmed)
		}
	}
	return result
}
