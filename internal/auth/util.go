package auth

import (
	"net/url"
	"strings"
)

// escapeQueryValue percent-encodes a value for use in a query string, encoding spaces
// as %20 rather than '+'
func escapeQueryValue(value string) string {
	return strings.ReplaceAll(url.QueryEscape(value), "+", "%20")
}
