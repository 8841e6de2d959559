package notion

import (
	"fmt"
	"net/url"
	"path"
	"strings"
)

const idLength = 32

// ParsePageID accepts a page identifier or a page URL as copied from the
// Notion app and returns the identifier. Values that are not URLs are
// returned trimmed and otherwise untouched.
func ParsePageID(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if !strings.Contains(raw, "://") {
		return raw, nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse page url: %w", err)
	}
	if id := u.Query().Get("p"); id != "" {
		return formatID(id)
	}
	return formatID(path.Base(u.Path))
}

// formatID extracts the trailing 32 hex digits of a URL segment such as
// "My-Page-0123456789abcdef0123456789abcdef" and writes them in the dashed
// 8-4-4-4-12 form.
func formatID(segment string) (string, error) {
	compact := strings.ReplaceAll(segment, "-", "")
	if len(compact) < idLength {
		return "", fmt.Errorf("no page id in %q", segment)
	}
	hex := strings.ToLower(compact[len(compact)-idLength:])
	for _, r := range hex {
		if (r < '0' || r > '9') && (r < 'a' || r > 'f') {
			return "", fmt.Errorf("no page id in %q", segment)
		}
	}
	return hex[0:8] + "-" + hex[8:12] + "-" + hex[12:16] + "-" + hex[16:20] + "-" + hex[20:], nil
}
