package sync

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/vrerv/md-to-notion/pkg/block"
	"github.com/vrerv/md-to-notion/pkg/notion"
)

func TestCollectIndexKeysByPath(t *testing.T) {
	t.Parallel()

	store, rootID := workspace(t)
	guide := store.AddPage(rootID, "guide")
	setup := store.AddPage(guide, "setup")
	intro := store.AddPage(rootID, "intro")
	store.AddBlocks(rootID, para("content is not traversed"))

	index, err := CollectIndex(context.Background(), store, rootID, nil)
	if err != nil {
		t.Fatalf("CollectIndex returned error: %v", err)
	}

	want := Index{
		"./guide":       {ID: guide, Title: "guide", URL: "https://www.notion.so/" + guide},
		"./guide/setup": {ID: setup, Title: "setup", URL: "https://www.notion.so/" + setup},
		"./intro":       {ID: intro, Title: "intro", URL: "https://www.notion.so/" + intro},
	}
	if diff := cmp.Diff(want, index); diff != "" {
		t.Fatalf("index mismatch (-want +got):\n%s", diff)
	}

	links := index.Links()
	if links["./guide/setup"] != "https://www.notion.so/"+setup {
		t.Fatalf("unexpected links: %v", links)
	}
}

func TestCollectIndexFollowsPagination(t *testing.T) {
	t.Parallel()

	store, rootID := workspace(t)
	store.PageSize = 2
	for _, title := range []string{"a", "b", "c", "d", "e"} {
		store.AddPage(rootID, title)
	}

	index, err := CollectIndex(context.Background(), store, rootID, nil)
	if err != nil {
		t.Fatalf("CollectIndex returned error: %v", err)
	}
	if len(index) != 5 {
		t.Fatalf("indexed %d pages, want 5", len(index))
	}
	if got := store.Calls("list_children"); got < 3 {
		t.Fatalf("list_children called %d times, expected pagination", got)
	}
}

func TestCollectIndexRequiresRoot(t *testing.T) {
	t.Parallel()

	store, _ := workspace(t)
	if _, err := CollectIndex(context.Background(), store, "", nil); err != ErrNoRoot {
		t.Fatalf("expected ErrNoRoot, got %v", err)
	}
}

func TestCollectIndexReportsMissingRoot(t *testing.T) {
	t.Parallel()

	store, _ := workspace(t)
	_, err := CollectIndex(context.Background(), store, "page-unknown", nil)
	if !errors.Is(err, notion.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if !strings.Contains(err.Error(), "root page") {
		t.Fatalf("error does not name the root page: %v", err)
	}
	if store.Calls("list_children") != 0 {
		t.Fatalf("walk started below a missing root")
	}
}

func TestCollectIndexKeepsFirstDuplicate(t *testing.T) {
	t.Parallel()

	store, rootID := workspace(t)
	first := store.AddPage(rootID, "a")
	second := store.AddPage(rootID, "a")
	store.AddPage(second, "nested")

	index, err := CollectIndex(context.Background(), store, rootID, nil)
	if err != nil {
		t.Fatalf("CollectIndex returned error: %v", err)
	}

	want := Index{
		"./a": {
			ID: first, Title: "a", URL: "https://www.notion.so/" + first,
			Duplicates: []RemoteNode{{ID: second, Title: "a", URL: "https://www.notion.so/" + second}},
		},
	}
	if diff := cmp.Diff(want, index); diff != "" {
		t.Fatalf("index mismatch (-want +got):\n%s", diff)
	}
}

func TestPruneArchivesDuplicates(t *testing.T) {
	t.Parallel()

	store, rootID := workspace(t)
	first := store.AddPage(rootID, "a")
	second := store.AddPage(rootID, "a")
	stale := store.AddPage(rootID, "b")
	third := store.AddPage(rootID, "b")

	index, err := CollectIndex(context.Background(), store, rootID, nil)
	if err != nil {
		t.Fatalf("CollectIndex returned error: %v", err)
	}

	touched := map[string]bool{rootID: true, first: true}
	archived, err := Prune(context.Background(), store, index, touched, rootID, nil)
	if err != nil {
		t.Fatalf("Prune returned error: %v", err)
	}
	if archived != 3 {
		t.Fatalf("archived %d pages, want 3", archived)
	}
	for _, id := range []string{second, stale, third} {
		if !store.Archived(id) {
			t.Fatalf("page %s not archived", id)
		}
	}
	if store.Archived(first) {
		t.Fatalf("kept page archived")
	}
}

func TestFetchBlocksLoadsChildrenAndSkipsSubPages(t *testing.T) {
	t.Parallel()

	store, rootID := workspace(t)
	store.PageSize = 1
	store.AddBlocks(rootID, para("parent", para("child", para("grandchild"))), para("sibling"))
	store.AddPage(rootID, "sub")

	blocks, err := fetchBlocks(context.Background(), store, rootID)
	if err != nil {
		t.Fatalf("fetchBlocks returned error: %v", err)
	}
	if len(blocks) != 2 {
		t.Fatalf("fetched %d blocks, want 2", len(blocks))
	}
	want := para("parent", para("child", para("grandchild")))
	if !block.Equivalent(blocks[0], want) {
		t.Fatalf("nested children not loaded: %#v", blocks[0])
	}
}

func TestPruneArchivesEachStaleSubtreeOnce(t *testing.T) {
	t.Parallel()

	store, rootID := workspace(t)
	index := Index{
		"./old":        {ID: store.AddPage(rootID, "old")},
		"./kept":       {ID: store.AddPage(rootID, "kept")},
		"./stale-file": {ID: store.AddPage(rootID, "stale-file")},
	}
	index["./old/page"] = RemoteNode{ID: store.AddPage(index["./old"].ID, "page")}
	index["./old/page/deeper"] = RemoteNode{ID: store.AddPage(index["./old/page"].ID, "deeper")}

	touched := map[string]bool{rootID: true, index["./kept"].ID: true}
	archived, err := Prune(context.Background(), store, index, touched, rootID, nil)
	if err != nil {
		t.Fatalf("Prune returned error: %v", err)
	}
	if archived != 2 || store.Calls("archive_page") != 2 {
		t.Fatalf("archived %d pages in %d calls, want 2", archived, store.Calls("archive_page"))
	}
	if !store.Archived(index["./old"].ID) || !store.Archived(index["./stale-file"].ID) {
		t.Fatalf("stale roots not archived")
	}
	if store.Archived(index["./kept"].ID) {
		t.Fatalf("touched page archived")
	}
}
