package sync

import (
	"context"

	"github.com/vrerv/md-to-notion/pkg/block"
	"go.uber.org/zap"
)

const (
	DefaultBatchSize = 100
	DefaultMaxDepth  = 3

	tableType = "table"
)

// Writer appends blocks in requests that respect the remote limits on the
// number of blocks per request, descendants included, and on their nesting
// depth.
type Writer struct {
	remote    Remote
	batchSize int
	maxDepth  int
	log       *zap.Logger

	// Appended counts the blocks passed to append requests. Children sent
	// inline with their parent are not counted.
	Appended int
}

// NewWriter returns a writer. Non-positive limits fall back to the remote
// defaults.
func NewWriter(remote Remote, batchSize, maxDepth int, log *zap.Logger) *Writer {
	if log == nil {
		log = zap.NewNop()
	}
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Writer{
		remote:    remote,
		batchSize: batchSize,
		maxDepth:  maxDepth,
		log:       log,
	}
}

// Write appends blocks under parentID after the sibling with id after, or at
// the end when after is empty. It returns the ids of the created top-level
// blocks in order.
//
// A request never carries more than the batch size in blocks, descendants
// included, nor nesting deeper than the depth limit. A block that does not fit
// is written without its children first, and the children are then written
// under the created block. Tables keep as many rows inline as fit, since the
// remote only creates a table together with its rows.
func (w *Writer) Write(ctx context.Context, parentID string, blocks []block.Block, after string) ([]string, error) {
	if len(blocks) == 0 {
		return nil, nil
	}

	inline := make([]block.Block, len(blocks))
	deferred := map[int][]block.Block{}
	for i, b := range blocks {
		var rest []block.Block
		inline[i], rest = w.fit(b)
		if len(rest) > 0 {
			deferred[i] = rest
		}
	}

	ids := make([]string, 0, len(blocks))
	anchor := after
	for start := 0; start < len(inline); {
		end, size := start, 0
		for end < len(inline) && size+inline[end].Size() <= w.batchSize {
			size += inline[end].Size()
			end++
		}
		group := inline[start:end]
		start = end

		created, err := w.remote.AppendBlocks(ctx, parentID, group, anchor)
		if err != nil {
			w.log.Error("append blocks failed",
				zap.String("parent", parentID),
				zap.String("after", anchor),
				zap.Any("blocks", group),
				zap.Error(err),
			)
			return nil, remoteErr("append blocks", parentID, err)
		}
		w.Appended += len(group)

		for _, b := range created {
			ids = append(ids, b.ID)
		}
		if len(created) > 0 {
			anchor = created[len(created)-1].ID
		}
	}

	for i := range ids {
		children, ok := deferred[i]
		if !ok {
			continue
		}
		if _, err := w.Write(ctx, ids[i], children, ""); err != nil {
			return nil, err
		}
	}

	return ids, nil
}

// fit returns the form of b sent in an append request and the children left
// to write under the created block. The returned form never exceeds the
// batch size or the depth limit.
func (w *Writer) fit(b block.Block) (block.Block, []block.Block) {
	if b.Depth() <= w.maxDepth && b.Size() <= w.batchSize {
		return b, nil
	}

	if b.Type == tableType && b.Depth() <= w.maxDepth {
		budget, n := w.batchSize-1, 0
		for n < len(b.Children) && b.Children[n].Size() <= budget {
			budget -= b.Children[n].Size()
			n++
		}
		if n > 0 {
			head := b.Shallow()
			head.Children = b.Children[:n:n]
			head.HasChildren = true
			return head, b.Children[n:]
		}
	}

	return b.Shallow(), b.Children
}
