package pathkey

import (
	"regexp"
	"strings"
)

var markdownLink = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)

// IsInternal reports whether a link target points at another local document
// rather than an anchor or a web page.
func IsInternal(target string) bool {
	return !strings.HasPrefix(target, "#") &&
		!strings.HasPrefix(target, "http://") &&
		!strings.HasPrefix(target, "https://")
}

// ReplaceLinks rewrites internal links of the document at filePath to the
// URLs found in links. Links without a match are left untouched.
func ReplaceLinks(content string, links LinkMap, filePath string) string {
	return rewriteLinks(content, func(text, target, match string) string {
		if url, ok := links[Resolve(filePath, target)]; ok && url != "" {
			return "[" + text + "](" + url + ")"
		}
		return match
	})
}

// RemoveLinks replaces internal links with their text.
func RemoveLinks(content string) string {
	return rewriteLinks(content, func(text, _, _ string) string {
		return text
	})
}

// rewriteLinks calls fn for every internal, non-image link in content.
func rewriteLinks(content string, fn func(text, target, match string) string) string {
	matches := markdownLink.FindAllStringSubmatchIndex(content, -1)
	if len(matches) == 0 {
		return content
	}

	var b strings.Builder
	b.Grow(len(content))
	last := 0
	for _, m := range matches {
		start, end := m[0], m[1]
		text := content[m[2]:m[3]]
		target := content[m[4]:m[5]]

		b.WriteString(content[last:start])
		last = end

		match := content[start:end]
		if (start > 0 && content[start-1] == '!') || !IsInternal(target) {
			b.WriteString(match)
			continue
		}
		b.WriteString(fn(text, target, match))
	}
	b.WriteString(content[last:])
	return b.String()
}
