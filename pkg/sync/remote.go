// Package sync mirrors a local document tree onto a tree of Notion pages.
//
// A run rebuilds its view of the remote tree from scratch, creates or reuses
// one page per local folder and file, reconciles each file page's blocks with
// the minimal set of appends and deletes, and optionally archives pages that
// no longer have a local counterpart. Runs hold no state between invocations,
// so a failed run is recovered by running again.
//
// All remote calls are issued sequentially. Blocks are anchored by the id of
// their previous sibling and the remote index is updated in place as pages
// are created, so calls must not be reordered or run concurrently.
package sync

import (
	"context"
	"errors"
	"fmt"

	"github.com/vrerv/md-to-notion/pkg/block"
	"github.com/vrerv/md-to-notion/pkg/notion"
)

var (
	ErrNoRoot = errors.New("no root page id")
	ErrNoTree = errors.New("no local tree to synchronize")
)

// Remote is the subset of the Notion API a run needs.
type Remote interface {
	RetrievePage(ctx context.Context, id string) (notion.Page, error)
	ListChildren(ctx context.Context, id, cursor string) (notion.Children, error)
	CreatePage(ctx context.Context, parentID, title string) (notion.Page, error)
	AppendBlocks(ctx context.Context, parentID string, blocks []block.Block, after string) ([]block.Block, error)
	DeleteBlock(ctx context.Context, id string) error
	ArchivePage(ctx context.Context, id string) error
}

// RemoteError is a failed remote call. It aborts the run.
type RemoteError struct {
	Op  string
	ID  string
	Err error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.ID, e.Err)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

func remoteErr(op, id string, err error) error {
	if err == nil {
		return nil
	}
	return &RemoteError{Op: op, ID: id, Err: err}
}
