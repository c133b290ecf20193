package utils

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strictPolicy = bluemonday.StrictPolicy()

// Sanitize strips markup from user supplied free text.
func Sanitize(s string) string {
	return strings.TrimSpace(strictPolicy.Sanitize(s))
}
