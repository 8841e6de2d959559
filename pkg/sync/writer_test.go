package sync

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/vrerv/md-to-notion/pkg/block"
	"github.com/vrerv/md-to-notion/pkg/markdown"
	"github.com/vrerv/md-to-notion/pkg/notion/notiontest"
)

func para(text string, children ...block.Block) block.Block {
	return block.New("paragraph", map[string]any{
		"rich_text": []any{map[string]any{"type": "text", "text": map[string]any{"content": text}}},
	}, children...)
}

func chain(depth int) block.Block {
	b := para(fmt.Sprintf("level %d", depth))
	for d := depth - 1; d >= 1; d-- {
		b = para(fmt.Sprintf("level %d", d), b)
	}
	return b
}

// requestLog records the shape of every append request.
type requestLog struct {
	*notiontest.Store
	sizes  []int
	widths []int
}

func (r *requestLog) AppendBlocks(ctx context.Context, parentID string, blocks []block.Block, after string) ([]block.Block, error) {
	r.sizes = append(r.sizes, block.Count(blocks))
	r.widths = append(r.widths, block.MaxWidth(blocks))
	return r.Store.AppendBlocks(ctx, parentID, blocks, after)
}

func (r *requestLog) checkBounds(t *testing.T, limit int) {
	t.Helper()
	for i := range r.sizes {
		if r.sizes[i] > limit || r.widths[i] > limit {
			t.Fatalf("request %d carried %d blocks, widest list %d, limit %d", i, r.sizes[i], r.widths[i], limit)
		}
	}
}

func wideTable(rows int) string {
	var sb strings.Builder
	sb.WriteString("| key | value |\n| --- | --- |\n")
	for i := 0; i < rows; i++ {
		fmt.Fprintf(&sb, "| k%d | v%d |\n", i, i)
	}
	return sb.String()
}

func TestWriterSplitsWideTable(t *testing.T) {
	t.Parallel()

	store, rootID := workspace(t)
	remote := &requestLog{Store: store}
	blocks := markdown.Convert([]byte(wideTable(150)))
	if len(blocks) != 1 || len(blocks[0].Children) != 151 {
		t.Fatalf("unexpected table conversion: %d blocks", len(blocks))
	}

	w := NewWriter(remote, 100, 3, nil)
	if _, err := w.Write(context.Background(), rootID, blocks, ""); err != nil {
		t.Fatalf("Write returned error: %v", err)
	}

	remote.checkBounds(t, 100)
	if len(remote.sizes) != 2 || remote.sizes[0] != 100 {
		t.Fatalf("request sizes = %v, want [100 52]", remote.sizes)
	}
	stored := store.Blocks(rootID)
	if len(stored) != 1 || !block.Equivalent(stored[0], blocks[0]) {
		t.Fatalf("stored table differs from the written one")
	}
}

func TestWriterDetachesWideChildren(t *testing.T) {
	t.Parallel()

	store, rootID := workspace(t)
	remote := &requestLog{Store: store}
	children := make([]block.Block, 150)
	for i := range children {
		children[i] = para(fmt.Sprintf("child %d", i))
	}
	parent := para("parent", children...)

	w := NewWriter(remote, 100, 3, nil)
	if _, err := w.Write(context.Background(), rootID, []block.Block{para("before"), parent}, ""); err != nil {
		t.Fatalf("Write returned error: %v", err)
	}

	remote.checkBounds(t, 100)
	if len(remote.sizes) != 3 {
		t.Fatalf("request sizes = %v, want three requests", remote.sizes)
	}
	stored := store.Blocks(rootID)
	if len(stored) != 2 || !block.Equivalent(stored[1], parent) {
		t.Fatalf("stored blocks differ from the written ones")
	}
}

func TestWriterSplitsLargeBatches(t *testing.T) {
	t.Parallel()

	store, rootID := workspace(t)
	blocks := make([]block.Block, 250)
	for i := range blocks {
		blocks[i] = para(fmt.Sprintf("p%d", i))
	}

	w := NewWriter(store, 100, 3, nil)
	ids, err := w.Write(context.Background(), rootID, blocks, "")
	if err != nil {
		t.Fatalf("Write returned error: %v", err)
	}
	if len(ids) != 250 || w.Appended != 250 {
		t.Fatalf("got %d ids and %d appended, want 250", len(ids), w.Appended)
	}
	if got := store.Calls("append_blocks"); got != 3 {
		t.Fatalf("append calls = %d, want 3", got)
	}

	stored := store.Blocks(rootID)
	for i, b := range stored {
		if b.ID != ids[i] || !block.Equivalent(b, blocks[i]) {
			t.Fatalf("block %d out of order: %#v", i, b)
		}
	}
}

func TestWriterDetachesDeepChildren(t *testing.T) {
	t.Parallel()

	store, rootID := workspace(t)
	deep := chain(5)
	shallow := chain(2)

	w := NewWriter(store, 100, 3, nil)
	if _, err := w.Write(context.Background(), rootID, []block.Block{shallow, deep}, ""); err != nil {
		t.Fatalf("Write returned error: %v", err)
	}

	// One call for the top level, then one per level that still exceeds
	// the limit.
	if got := store.Calls("append_blocks"); got != 3 {
		t.Fatalf("append calls = %d, want 3", got)
	}

	stored := store.Blocks(rootID)
	if len(stored) != 2 || block.MaxDepth(stored) != 5 {
		t.Fatalf("unexpected stored tree depth %d", block.MaxDepth(stored))
	}
	if !block.Equivalent(stored[0], shallow) || !block.Equivalent(stored[1], deep) {
		t.Fatalf("stored blocks differ from the written ones")
	}
}

func TestWriterContinuesAfterAnchor(t *testing.T) {
	t.Parallel()

	store, rootID := workspace(t)
	store.AddBlocks(rootID, para("first"), para("last"))
	anchor := store.Blocks(rootID)[0].ID

	blocks := make([]block.Block, 5)
	for i := range blocks {
		blocks[i] = para(fmt.Sprintf("mid%d", i))
	}

	w := NewWriter(store, 2, 3, nil)
	if _, err := w.Write(context.Background(), rootID, blocks, anchor); err != nil {
		t.Fatalf("Write returned error: %v", err)
	}

	got := texts(t, store.Blocks(rootID))
	want := []string{"first", "mid0", "mid1", "mid2", "mid3", "mid4", "last"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Fatalf("content = %v, want %v", got, want)
	}
}

func TestWriterReportsRemoteFailure(t *testing.T) {
	t.Parallel()

	store, rootID := workspace(t)
	w := NewWriter(store, 100, 3, nil)
	_, err := w.Write(context.Background(), "missing-"+rootID, []block.Block{para("x")}, "")

	var remoteErr *RemoteError
	if !errors.As(err, &remoteErr) || remoteErr.ID != "missing-"+rootID {
		t.Fatalf("expected RemoteError for the parent, got %v", err)
	}
	if w.Appended != 0 {
		t.Fatalf("failed writes must not count, got %d", w.Appended)
	}
}
