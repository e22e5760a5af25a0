package preview

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy
)

// sanitizeLine strips every element from a line of document text, leaving
// escaped plain text. Field values are author-controlled input; the preview
// page must treat them as text, never as markup.
func sanitizeLine(raw string) string {
	return strings.TrimRight(sanitizer().Sanitize(raw), "\r")
}

func sanitizer() *bluemonday.Policy {
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return textPolicy
}
