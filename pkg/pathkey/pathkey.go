// Package pathkey derives the keys that correlate local nodes with remote
// pages, and rewrites internal document links against them.
package pathkey

import (
	"path"
	"strings"
)

const (
	// Root is the key of the synchronization root.
	Root = "."

	// Separator joins a parent key and a node name.
	Separator = "/"

	// Extension is stripped from file names, since links address documents.
	Extension = ".md"
)

// LinkMap maps a document key to the URL of its remote page.
type LinkMap map[string]string

// Key returns the key of name under parent.
func Key(parent, name string) string {
	return parent + Separator + name
}

// Parent returns the key a key was derived from, or Root for top-level keys.
func Parent(key string) string {
	i := strings.LastIndex(key, Separator)
	if i <= 0 {
		return Root
	}
	return key[:i]
}

// Document strips the file extension from a key or file name.
func Document(name string) string {
	return strings.TrimSuffix(name, Extension)
}

// Depth returns how many names a key is made of. Root has depth zero.
func Depth(key string) int {
	if key == Root || key == "" {
		return 0
	}
	return strings.Count(key, Separator)
}

// Resolve turns a link target found in the file at filePath into a document
// key. filePath is relative to the synchronization root and may carry a
// leading "./". Percent escapes are kept verbatim.
func Resolve(filePath, target string) string {
	dir := path.Dir(strings.TrimPrefix(filePath, "./"))
	joined := path.Clean(path.Join(dir, target))
	for strings.HasPrefix(joined, "../") {
		joined = strings.TrimPrefix(joined, "../")
	}
	if joined == "." || joined == ".." {
		return Root
	}
	return Document(Key(Root, joined))
}
