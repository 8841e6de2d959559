package sync

import (
	"context"
	"sort"

	"github.com/vrerv/md-to-notion/pkg/pathkey"
	"go.uber.org/zap"
)

// Prune archives the indexed pages that were not touched by the run, along
// with every duplicate recorded by CollectIndex. Keys are visited shallowest
// first and descendants of an archived page are skipped, so each stale
// subtree costs a single archive call. It returns the number of pages
// archived.
func Prune(ctx context.Context, remote Remote, index Index, touched map[string]bool, rootID string, log *zap.Logger) (int, error) {
	if log == nil {
		log = zap.NewNop()
	}

	keys := make([]string, 0, len(index))
	for key := range index {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		di, dj := pathkey.Depth(keys[i]), pathkey.Depth(keys[j])
		if di != dj {
			return di < dj
		}
		return keys[i] < keys[j]
	})

	archived := 0
	archive := func(key string, node RemoteNode) error {
		if err := remote.ArchivePage(ctx, node.ID); err != nil {
			log.Error("archive page failed", zap.String("key", key), zap.String("id", node.ID), zap.Error(err))
			return remoteErr("archive page", node.ID, err)
		}
		log.Info("archived stale page", zap.String("key", key), zap.String("id", node.ID))
		archived++
		return nil
	}

	covered := map[string]bool{}
	for _, key := range keys {
		node := index[key]
		if covered[pathkey.Parent(key)] {
			covered[key] = true
			continue
		}

		for _, dup := range node.Duplicates {
			if err := archive(key, dup); err != nil {
				return archived, err
			}
		}

		if node.ID == rootID || touched[node.ID] {
			continue
		}
		if err := archive(key, node); err != nil {
			return archived, err
		}
		covered[key] = true
	}

	return archived, nil
}
