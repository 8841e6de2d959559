package sync

import (
	"context"
	"errors"
	"fmt"

	"github.com/vrerv/md-to-notion/pkg/block"
	"github.com/vrerv/md-to-notion/pkg/notion"
	"github.com/vrerv/md-to-notion/pkg/pathkey"
	"go.uber.org/zap"
)

const (
	childPageType     = "child_page"
	childDatabaseType = "child_database"
)

// isSubPage reports whether a child block stands for a page rather than
// content. Deleting such a block would archive the page.
func isSubPage(b block.Block) bool {
	return b.Type == childPageType || b.Type == childDatabaseType
}

// CollectIndex walks the page tree below rootID breadth first and indexes
// every sub-page by its path key. The root itself is not indexed. A page
// without a title aborts the walk, since its key cannot be derived. When
// siblings share a key the first one wins and the others are recorded as its
// duplicates.
func CollectIndex(ctx context.Context, remote Remote, rootID string, log *zap.Logger) (Index, error) {
	if rootID == "" {
		return nil, ErrNoRoot
	}
	if log == nil {
		log = zap.NewNop()
	}

	if _, err := remote.RetrievePage(ctx, rootID); err != nil && !errors.Is(err, notion.ErrMissingTitle) {
		if notion.IsNotFound(err) {
			return nil, fmt.Errorf("root page not found or not shared with the integration: %w",
				remoteErr("retrieve page", rootID, err))
		}
		return nil, remoteErr("retrieve page", rootID, err)
	}

	type pending struct {
		id  string
		key string
	}

	index := Index{}
	queue := []pending{{id: rootID, key: pathkey.Root}}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		children, err := listAll(ctx, remote, cur.id)
		if err != nil {
			return nil, err
		}

		for _, child := range children {
			if child.Type != childPageType {
				continue
			}

			page, err := remote.RetrievePage(ctx, child.ID)
			if err != nil {
				log.Error("retrieve page failed", zap.String("id", child.ID), zap.String("parent", cur.key), zap.Error(err))
				return nil, fmt.Errorf("collect %s: %w", cur.key, remoteErr("retrieve page", child.ID, err))
			}

			key := pathkey.Key(cur.key, page.Title)
			node := RemoteNode{ID: page.ID, Title: page.Title, URL: page.URL}
			if first, ok := index[key]; ok {
				log.Warn("duplicate remote page", zap.String("key", key),
					zap.String("id", page.ID), zap.String("kept", first.ID))
				first.Duplicates = append(first.Duplicates, node)
				index[key] = first
				continue
			}
			index[key] = node
			log.Debug("indexed remote page", zap.String("key", key), zap.String("id", page.ID))

			queue = append(queue, pending{id: page.ID, key: key})
		}
	}

	return index, nil
}

// listAll returns every child of a block or page, following pagination.
func listAll(ctx context.Context, remote Remote, id string) ([]block.Block, error) {
	var (
		out    []block.Block
		cursor string
	)
	for {
		res, err := remote.ListChildren(ctx, id, cursor)
		if err != nil {
			return nil, remoteErr("list children", id, err)
		}
		out = append(out, res.Results...)
		if !res.HasMore || res.NextCursor == "" {
			return out, nil
		}
		cursor = res.NextCursor
	}
}

// fetchBlocks returns the content blocks of a page or block with their
// children loaded. Sub-page blocks are left out.
func fetchBlocks(ctx context.Context, remote Remote, id string) ([]block.Block, error) {
	children, err := listAll(ctx, remote, id)
	if err != nil {
		return nil, err
	}

	out := make([]block.Block, 0, len(children))
	for _, child := range children {
		if isSubPage(child) {
			continue
		}
		if child.HasChildren && len(child.Children) == 0 {
			nested, err := fetchBlocks(ctx, remote, child.ID)
			if err != nil {
				return nil, err
			}
			child.Children = nested
		}
		out = append(out, child)
	}
	return out, nil
}
