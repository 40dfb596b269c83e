package app

import (
	"net/url"
	"strings"
)

// dbNameFromURL extracts the database name for the db.name span attribute.
// Accepts both postgres:// URLs and key=value DSN strings.
func dbNameFromURL(raw string) string {
	raw = strings.TrimSpace(raw)

	if parsed, err := url.Parse(raw); err == nil && parsed.Scheme != "" {
		if name := strings.Trim(parsed.Path, "/"); name != "" {
			return name
		}
	}

	for _, kv := range strings.Fields(raw) {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key != "dbname" {
			continue
		}
		if name := strings.Trim(value, `"'`); name != "" {
			return name
		}
	}

	return ""
}

// formatDBQueryForTrace collapses whitespace so multi-line SQL reads as a
// single line in span attributes, and truncates oversized statements.
func formatDBQueryForTrace(query string) string {
	const limit = 512

	flat := strings.Join(strings.Fields(query), " ")
	if len(flat) > limit {
		return flat[:limit] + "..."
	}
	return flat
}
