package mapping

import (
	"strings"

	"golang.org/x/net/html"
)

// StripHTML removes markup from vendor long-text fields, keeping only the
// text content. Non-breaking spaces become regular spaces and surrounding
// whitespace is trimmed.
func StripHTML(s string) string {
	if s == "" {
		return ""
	}

	var b strings.Builder
	tokenizer := html.NewTokenizer(strings.NewReader(s))
	for {
		tt := tokenizer.Next()
		if tt == html.ErrorToken {
			break
		}
		if tt == html.TextToken {
			b.Write(tokenizer.Text())
		}
	}

	out := b.String()
	out = strings.ReplaceAll(out, "\u00a0", " ")
	return strings.TrimSpace(out)
}
