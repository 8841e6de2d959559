package sync

import (
	"context"
	"fmt"

	"github.com/vrerv/md-to-notion/pkg/block"
	"github.com/vrerv/md-to-notion/pkg/merge"
	"github.com/vrerv/md-to-notion/pkg/pathkey"
	"github.com/vrerv/md-to-notion/pkg/source"
	"go.uber.org/zap"
)

type Options struct {
	// DeleteStale archives remote pages without a local counterpart.
	DeleteStale bool

	// BatchSize and MaxDepth bound a single append request. Zero means the
	// remote defaults.
	BatchSize int
	MaxDepth  int

	Logger *zap.Logger
}

// Result counts the changes a run made.
type Result struct {
	PagesCreated         int
	BlocksAppended       int
	BlocksDeleted        int
	PagesArchived        int
	FirstBlocksRelocated int
}

// Changes returns the number of changes made.
func (r Result) Changes() int {
	return r.PagesCreated + r.BlocksAppended + r.BlocksDeleted + r.PagesArchived
}

// Synchronize mirrors tree below the page rootID. It is safe to call again
// after a failure: the next run reuses the pages created so far.
func Synchronize(ctx context.Context, remote Remote, rootID string, tree *source.Folder, opts Options) (Result, error) {
	if rootID == "" {
		return Result{}, ErrNoRoot
	}
	if tree == nil {
		return Result{}, ErrNoTree
	}

	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	index, err := CollectIndex(ctx, remote, rootID, log)
	if err != nil {
		return Result{}, err
	}
	log.Debug("collected remote index", zap.Int("pages", len(index)))

	r := &run{
		remote:  remote,
		rootID:  rootID,
		index:   index,
		touched: map[string]bool{rootID: true},
		moved:   map[string]string{},
		writer:  NewWriter(remote, opts.BatchSize, opts.MaxDepth, log),
		log:     log,
	}

	err = r.sync(ctx, tree)
	if err == nil && opts.DeleteStale {
		r.result.PagesArchived, err = Prune(ctx, remote, r.index, r.touched, rootID, log)
	}
	r.result.BlocksAppended = r.writer.Appended

	return r.result, err
}

// run holds the state of one synchronization.
type run struct {
	remote  Remote
	rootID  string
	index   Index
	touched map[string]bool

	// moved maps relocated first blocks to the id of their copy.
	moved map[string]string

	writer *Writer
	log    *zap.Logger
	result Result
}

type filePage struct {
	id   string
	file source.File
}

func (r *run) sync(ctx context.Context, tree *source.Folder) error {
	pages, err := r.ensurePages(ctx, tree)
	if err != nil {
		return err
	}

	links := r.index.Links()
	for _, page := range pages {
		if err := r.reconcilePage(ctx, page, links); err != nil {
			return err
		}
	}
	return nil
}

// ensurePages walks the local tree depth first and creates the pages missing
// remotely. It returns the file pages in walk order.
func (r *run) ensurePages(ctx context.Context, tree *source.Folder) ([]filePage, error) {
	type frame struct {
		folder    *source.Folder
		parentKey string
		parentID  string
		root      bool
	}

	var pages []filePage
	stack := []frame{{folder: tree, root: true}}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		key, id := pathkey.Root, r.rootID
		if !cur.root {
			node, err := r.ensurePage(ctx, cur.parentKey, cur.parentID, cur.folder.Name)
			if err != nil {
				return nil, err
			}
			key, id = pathkey.Key(cur.parentKey, cur.folder.Name), node.ID
		}

		for _, file := range cur.folder.Files {
			node, err := r.ensurePage(ctx, key, id, file.Name)
			if err != nil {
				return nil, err
			}
			pages = append(pages, filePage{id: node.ID, file: file})
		}

		for i := len(cur.folder.Subfolders) - 1; i >= 0; i-- {
			stack = append(stack, frame{folder: cur.folder.Subfolders[i], parentKey: key, parentID: id})
		}
	}
	return pages, nil
}

// ensurePage reuses the indexed page for name below parentKey, or creates it.
func (r *run) ensurePage(ctx context.Context, parentKey, parentID, name string) (RemoteNode, error) {
	key := pathkey.Key(parentKey, name)
	if node, ok := r.index[key]; ok {
		r.touched[node.ID] = true
		return node, nil
	}

	page, err := r.remote.CreatePage(ctx, parentID, name)
	if err != nil {
		r.log.Error("create page failed", zap.String("key", key), zap.String("parent", parentID), zap.Error(err))
		return RemoteNode{}, remoteErr("create page", key, err)
	}
	r.log.Info("created page", zap.String("key", key), zap.String("id", page.ID))

	node := RemoteNode{ID: page.ID, Title: name, URL: page.URL}
	r.index[key] = node
	r.touched[node.ID] = true
	r.result.PagesCreated++
	return node, nil
}

// pageState tracks the existing blocks of a page that are still live while
// the page is reconciled.
type pageState struct {
	id   string
	live []block.Block
}

func (p *pageState) first() (block.Block, bool) {
	if len(p.live) == 0 {
		return block.Block{}, false
	}
	return p.live[0], true
}

func (p *pageState) drop(id string) {
	for i, b := range p.live {
		if b.ID == id {
			p.live = append(p.live[:i], p.live[i+1:]...)
			return
		}
	}
}

func (r *run) reconcilePage(ctx context.Context, page filePage, links pathkey.LinkMap) error {
	desired, err := page.file.Content(links)
	if err != nil {
		return fmt.Errorf("render %s: %w", page.file.Path, err)
	}

	existing, err := fetchBlocks(ctx, r.remote, page.id)
	if err != nil {
		return err
	}

	state := &pageState{id: page.id, live: append([]block.Block(nil), existing...)}
	err = merge.Sequence(existing, desired, r.equivalent,
		func(blocks []block.Block, after *block.Block) error {
			return r.insert(ctx, state, blocks, after)
		},
		func(b block.Block) error {
			return r.delete(ctx, state, b)
		},
	)
	if err != nil {
		return fmt.Errorf("reconcile %s: %w", page.file.Path, err)
	}

	r.log.Debug("reconciled page",
		zap.String("path", page.file.Path),
		zap.Int("existing", len(existing)),
		zap.Int("desired", len(desired)),
	)
	return nil
}

// insert writes blocks after the anchor, or at the start of the page when the
// anchor is nil. The remote can only insert after a block, so a start insert
// on a non-empty page writes the blocks and a copy of the first block after
// the first block, then deletes the original.
func (r *run) insert(ctx context.Context, page *pageState, blocks []block.Block, after *block.Block) error {
	if after != nil {
		_, err := r.writer.Write(ctx, page.id, blocks, r.resolve(after.ID))
		return err
	}

	first, ok := page.first()
	if !ok {
		_, err := r.writer.Write(ctx, page.id, blocks, "")
		return err
	}

	batch := make([]block.Block, 0, len(blocks)+1)
	batch = append(batch, blocks...)
	batch = append(batch, first.Clone())

	ids, err := r.writer.Write(ctx, page.id, batch, first.ID)
	if err != nil {
		return err
	}
	if len(ids) != len(batch) {
		return remoteErr("append blocks", page.id, fmt.Errorf("created %d of %d blocks", len(ids), len(batch)))
	}
	r.moved[first.ID] = ids[len(ids)-1]

	if err := r.delete(ctx, page, first); err != nil {
		return err
	}
	r.result.FirstBlocksRelocated++
	r.log.Debug("relocated first block", zap.String("page", page.id), zap.String("from", first.ID), zap.String("to", ids[len(ids)-1]))
	return nil
}

func (r *run) delete(ctx context.Context, page *pageState, b block.Block) error {
	if err := r.remote.DeleteBlock(ctx, b.ID); err != nil {
		r.log.Error("delete block failed",
			zap.String("page", page.id),
			zap.String("id", b.ID),
			zap.Any("block", b),
			zap.Error(err),
		)
		return remoteErr("delete block", b.ID, err)
	}
	page.drop(b.ID)
	r.result.BlocksDeleted++
	return nil
}

func (r *run) equivalent(candidate, want block.Block) bool {
	same := block.Equivalent(candidate, want)
	r.log.Debug("compared block", zap.String("id", candidate.ID), zap.String("type", want.Type), zap.Bool("equal", same))
	return same
}

// resolve follows relocations so anchors keep pointing at live blocks.
func (r *run) resolve(id string) string {
	for {
		next, ok := r.moved[id]
		if !ok {
			return id
		}
		id = next
	}
}
