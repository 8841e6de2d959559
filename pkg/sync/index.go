package sync

import "github.com/vrerv/md-to-notion/pkg/pathkey"

// RemoteNode is a page known to exist remotely.
type RemoteNode struct {
	ID    string
	Title string
	URL   string

	// Duplicates are later siblings whose title maps to the same key. They
	// are never reconciled and are archived by Prune.
	Duplicates []RemoteNode
}

// Index maps path keys to remote pages. It is rebuilt every run, grows as
// pages are created, and is discarded when the run ends.
type Index map[string]RemoteNode

// Links snapshots the index as a document key to URL table.
func (ix Index) Links() pathkey.LinkMap {
	links := make(pathkey.LinkMap, len(ix))
	for key, node := range ix {
		if node.URL != "" {
			links[pathkey.Document(key)] = node.URL
		}
	}
	return links
}
