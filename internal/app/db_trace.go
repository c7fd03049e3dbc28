package app

import (
	"regexp"
	"strings"
)

const maxTracedQueryLength = 512

var (
	queryWhitespaceRegex = regexp.MustCompile(`\s+`)
	queryCommentRegex    = regexp.MustCompile(`--[^\n]*`)
)

// formatDBQueryForTrace renders the window-function queries on one line for
// span attributes, dropping line comments and capping the length.
func formatDBQueryForTrace(query string) string {
	query = queryCommentRegex.ReplaceAllString(query, " ")
	normalized := strings.TrimSpace(queryWhitespaceRegex.ReplaceAllString(query, " "))
	normalized = strings.TrimSuffix(normalized, ";")
	if len(normalized) <= maxTracedQueryLength {
		return normalized
	}

	return normalized[:maxTracedQueryLength] + "..."
}
