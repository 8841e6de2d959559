// Package notiontest provides an in-memory Notion workspace that enforces the
// same structural limits as the real API.
package notiontest

import (
	"context"
	"fmt"
	"strconv"

	"github.com/vrerv/md-to-notion/pkg/block"
	"github.com/vrerv/md-to-notion/pkg/notion"
)

const (
	MaxAppendBlocks = 100
	MaxAppendDepth  = 3
	childPage       = "child_page"
)

type node struct {
	id       string
	parent   string
	kind     string
	content  map[string]any
	children []string
	page     bool
	title    string
	archived bool
}

// Store is an in-memory workspace. It is not safe for concurrent use.
type Store struct {
	// PageSize bounds the results of one ListChildren call.
	PageSize int

	// Fail, when set, is consulted before every call; a non-nil error is
	// returned instead of performing the call.
	Fail func(op, id string) error

	nodes map[string]*node
	calls map[string]int
	next  int
}

func NewStore() *Store {
	return &Store{
		PageSize: notion.MaxPageSize,
		nodes:    map[string]*node{},
		calls:    map[string]int{},
	}
}

// AddPage creates a page directly, bypassing call accounting. An empty parent
// creates a workspace-level page.
func (s *Store) AddPage(parent, title string) string {
	id := s.newID("page")
	s.nodes[id] = &node{id: id, parent: parent, kind: childPage, page: true, title: title}
	if p, ok := s.nodes[parent]; ok {
		p.children = append(p.children, id)
	}
	return id
}

// AddBlocks appends blocks to a parent directly, bypassing call accounting.
func (s *Store) AddBlocks(parent string, blocks ...block.Block) {
	p := s.nodes[parent]
	for _, b := range blocks {
		p.children = append(p.children, s.insert(parent, b))
	}
}

// Calls returns how many times op was called.
func (s *Store) Calls(op string) int {
	return s.calls[op]
}

// Writes returns the number of calls that changed the workspace.
func (s *Store) Writes() int {
	return s.calls["create_page"] + s.calls["append_blocks"] + s.calls["delete_block"] + s.calls["archive_page"]
}

// ResetCalls clears call accounting.
func (s *Store) ResetCalls() {
	s.calls = map[string]int{}
}

// Archived reports whether a page was archived.
func (s *Store) Archived(id string) bool {
	n, ok := s.nodes[id]
	return ok && n.archived
}

// Blocks returns the live content blocks of a parent with their children.
func (s *Store) Blocks(parent string) []block.Block {
	p, ok := s.nodes[parent]
	if !ok {
		return nil
	}
	var out []block.Block
	for _, id := range p.children {
		n := s.nodes[id]
		if n.page {
			continue
		}
		out = append(out, s.export(n, true))
	}
	return out
}

// ChildPages returns the titles of the live sub-pages of a page.
func (s *Store) ChildPages(parent string) map[string]string {
	out := map[string]string{}
	p, ok := s.nodes[parent]
	if !ok {
		return out
	}
	for _, id := range p.children {
		if n := s.nodes[id]; n.page {
			out[n.title] = id
		}
	}
	return out
}

func (s *Store) RetrievePage(_ context.Context, id string) (notion.Page, error) {
	if err := s.enter("retrieve_page", id); err != nil {
		return notion.Page{}, err
	}
	n, ok := s.nodes[id]
	if !ok || !n.page {
		return notion.Page{}, notFound(id)
	}
	if n.title == "" {
		return notion.Page{}, &notion.MissingTitleError{PageID: id}
	}
	return notion.Page{ID: n.id, URL: pageURL(n.id), Title: n.title}, nil
}

func (s *Store) ListChildren(_ context.Context, id, cursor string) (notion.Children, error) {
	if err := s.enter("list_children", id); err != nil {
		return notion.Children{}, err
	}
	n, ok := s.nodes[id]
	if !ok || n.archived {
		return notion.Children{}, notFound(id)
	}

	start := 0
	if cursor != "" {
		v, err := strconv.Atoi(cursor)
		if err != nil || v < 0 || v > len(n.children) {
			return notion.Children{}, &notion.APIError{Status: 400, Code: "validation_error", Message: "bad cursor " + cursor}
		}
		start = v
	}
	size := s.PageSize
	if size <= 0 {
		size = notion.MaxPageSize
	}
	end := start + size
	if end > len(n.children) {
		end = len(n.children)
	}

	out := notion.Children{}
	for _, cid := range n.children[start:end] {
		out.Results = append(out.Results, s.export(s.nodes[cid], false))
	}
	if end < len(n.children) {
		out.HasMore = true
		out.NextCursor = strconv.Itoa(end)
	}
	return out, nil
}

func (s *Store) CreatePage(_ context.Context, parentID, title string) (notion.Page, error) {
	if err := s.enter("create_page", parentID); err != nil {
		return notion.Page{}, err
	}
	if p, ok := s.nodes[parentID]; !ok || !p.page || p.archived {
		return notion.Page{}, notFound(parentID)
	}
	id := s.AddPage(parentID, title)
	return notion.Page{ID: id, URL: pageURL(id), Title: title}, nil
}

func (s *Store) AppendBlocks(_ context.Context, parentID string, blocks []block.Block, after string) ([]block.Block, error) {
	if err := s.enter("append_blocks", parentID); err != nil {
		return nil, err
	}
	p, ok := s.nodes[parentID]
	if !ok || p.archived {
		return nil, notFound(parentID)
	}
	if len(blocks) == 0 {
		return nil, validation("children must not be empty")
	}
	if w := block.MaxWidth(blocks); w > MaxAppendBlocks {
		return nil, validation(fmt.Sprintf("children length %d exceeds %d", w, MaxAppendBlocks))
	}
	if n := block.Count(blocks); n > MaxAppendBlocks {
		return nil, validation(fmt.Sprintf("request holds %d blocks, more than %d", n, MaxAppendBlocks))
	}
	if d := block.MaxDepth(blocks); d > MaxAppendDepth {
		return nil, validation(fmt.Sprintf("children nesting depth %d exceeds %d", d, MaxAppendDepth))
	}

	at := len(p.children)
	if after != "" {
		at = -1
		for i, id := range p.children {
			if id == after {
				at = i + 1
				break
			}
		}
		if at < 0 {
			return nil, validation("after block " + after + " is not a child of " + parentID)
		}
	}

	ids := make([]string, len(blocks))
	created := make([]block.Block, len(blocks))
	for i, b := range blocks {
		ids[i] = s.insert(parentID, b)
		created[i] = s.export(s.nodes[ids[i]], false)
	}

	tail := append([]string(nil), p.children[at:]...)
	p.children = append(append(p.children[:at], ids...), tail...)
	return created, nil
}

func (s *Store) DeleteBlock(_ context.Context, id string) error {
	if err := s.enter("delete_block", id); err != nil {
		return err
	}
	n, ok := s.nodes[id]
	if !ok || n.archived {
		return notFound(id)
	}
	s.detach(n)
	return nil
}

func (s *Store) ArchivePage(_ context.Context, id string) error {
	if err := s.enter("archive_page", id); err != nil {
		return err
	}
	n, ok := s.nodes[id]
	if !ok || !n.page {
		return notFound(id)
	}
	if n.archived {
		return validation("page " + id + " is already archived")
	}
	s.detach(n)
	return nil
}

func (s *Store) enter(op, id string) error {
	s.calls[op]++
	if s.Fail != nil {
		return s.Fail(op, id)
	}
	return nil
}

func (s *Store) detach(n *node) {
	n.archived = true
	p, ok := s.nodes[n.parent]
	if !ok {
		return
	}
	for i, id := range p.children {
		if id == n.id {
			p.children = append(p.children[:i], p.children[i+1:]...)
			return
		}
	}
}

func (s *Store) insert(parent string, b block.Block) string {
	id := s.newID("blk")
	n := &node{id: id, parent: parent, kind: b.Type, content: b.Clone().Content}
	s.nodes[id] = n
	for _, child := range b.Children {
		n.children = append(n.children, s.insert(id, child))
	}
	return id
}

func (s *Store) export(n *node, deep bool) block.Block {
	if n.page {
		return block.Block{
			ID:          n.id,
			Type:        childPage,
			Content:     map[string]any{"title": n.title},
			HasChildren: len(n.children) > 0,
		}
	}

	b := block.Block{ID: n.id, Type: n.kind, Content: block.Block{Content: n.content}.Clone().Content}
	if b.Content == nil {
		b.Content = map[string]any{}
	}
	// Remote-only fields the local representation never produces.
	b.Content["color"] = "default"
	b.HasChildren = len(n.children) > 0
	if deep {
		for _, cid := range n.children {
			b.Children = append(b.Children, s.export(s.nodes[cid], true))
		}
	}
	return b
}

func (s *Store) newID(prefix string) string {
	s.next++
	return fmt.Sprintf("%s-%d", prefix, s.next)
}

func pageURL(id string) string {
	return "https://www.notion.so/" + id
}

func notFound(id string) error {
	return &notion.APIError{Status: 404, Code: "object_not_found", Message: "Could not find block with ID: " + id}
}

func validation(msg string) error {
	return &notion.APIError{Status: 400, Code: "validation_error", Message: msg}
}
