// Package markdown converts CommonMark with GitHub extensions into Notion
// blocks.
package markdown

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/vrerv/md-to-notion/pkg/block"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

const (
	// MaxHeadingLevel is the deepest heading the remote supports. Deeper
	// headings are clamped to it.
	MaxHeadingLevel = 3
)

var parser = goldmark.New(goldmark.WithExtensions(extension.GFM)).Parser()

// Convert parses src and returns the equivalent top-level blocks.
func Convert(src []byte) []block.Block {
	doc := parser.Parse(text.NewReader(src))
	c := converter{src: src}
	return c.blocks(doc)
}

type converter struct {
	src []byte
}

// blocks converts the block-level children of n.
func (c converter) blocks(n ast.Node) []block.Block {
	var out []block.Block
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		out = append(out, c.block(child)...)
	}
	return out
}

func (c converter) block(n ast.Node) []block.Block {
	switch n := n.(type) {
	case *ast.Heading:
		level := min(max(n.Level, 1), MaxHeadingLevel)
		kind := "heading_" + strconv.Itoa(level)
		return []block.Block{block.New(kind, map[string]any{"rich_text": c.richText(n)})}

	case *ast.Paragraph, *ast.TextBlock:
		if img, ok := c.soleImage(n); ok {
			return []block.Block{img}
		}
		rt := c.richText(n)
		if len(rt) == 0 {
			return nil
		}
		return []block.Block{block.New("paragraph", map[string]any{"rich_text": rt})}

	case *ast.List:
		kind := "bulleted_list_item"
		if n.IsOrdered() {
			kind = "numbered_list_item"
		}
		var out []block.Block
		for item := n.FirstChild(); item != nil; item = item.NextSibling() {
			out = append(out, c.listItem(kind, item))
		}
		return out

	case *ast.Blockquote:
		return []block.Block{c.quote(n)}

	case *ast.FencedCodeBlock:
		lang := Language(string(n.Language(c.src)))
		return []block.Block{codeBlock(c.lines(n), lang)}

	case *ast.CodeBlock:
		return []block.Block{codeBlock(c.lines(n), defaultLanguage)}

	case *ast.ThematicBreak:
		return []block.Block{block.New("divider", nil)}

	case *east.Table:
		return []block.Block{c.table(n)}

	default:
		// Raw HTML and link reference definitions have no block form.
		return nil
	}
}

// listItem converts a list item. The first paragraph becomes the item text,
// everything after it becomes nested blocks.
func (c converter) listItem(kind string, item ast.Node) block.Block {
	content := map[string]any{"rich_text": []any{}}
	first := item.FirstChild()
	rest := first

	if first != nil && isTextual(first) {
		if box, ok := first.FirstChild().(*east.TaskCheckBox); ok {
			kind = "to_do"
			content["checked"] = box.IsChecked
		}
		content["rich_text"] = trimLeft(c.richText(first))
		rest = first.NextSibling()
	}

	var children []block.Block
	for n := rest; n != nil; n = n.NextSibling() {
		children = append(children, c.block(n)...)
	}
	return block.New(kind, content, children...)
}

func (c converter) quote(n *ast.Blockquote) block.Block {
	content := map[string]any{"rich_text": []any{}}
	rest := n.FirstChild()
	if first := n.FirstChild(); first != nil && isTextual(first) {
		content["rich_text"] = c.richText(first)
		rest = first.NextSibling()
	}

	var children []block.Block
	for child := rest; child != nil; child = child.NextSibling() {
		children = append(children, c.block(child)...)
	}
	return block.New("quote", content, children...)
}

func (c converter) table(n *east.Table) block.Block {
	var rows []block.Block
	width := 0
	for row := n.FirstChild(); row != nil; row = row.NextSibling() {
		var cells []any
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			cells = append(cells, c.richText(cell))
		}
		width = max(width, len(cells))
		rows = append(rows, block.New("table_row", map[string]any{"cells": cells}))
	}

	// Every row must have the same width.
	for _, row := range rows {
		cells := row.Content["cells"].([]any)
		for len(cells) < width {
			cells = append(cells, []any{})
		}
		row.Content["cells"] = cells
	}

	return block.New("table", map[string]any{
		"table_width":       width,
		"has_column_header": true,
		"has_row_header":    false,
	}, rows...)
}

// soleImage returns an image block when a paragraph holds nothing but an
// image with an absolute URL.
func (c converter) soleImage(n ast.Node) (block.Block, bool) {
	var img *ast.Image
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		if t, ok := child.(*ast.Text); ok && len(bytes.TrimSpace(t.Segment.Value(c.src))) == 0 {
			continue
		}
		i, ok := child.(*ast.Image)
		if !ok || img != nil {
			return block.Block{}, false
		}
		img = i
	}
	if img == nil {
		return block.Block{}, false
	}

	dest := string(img.Destination)
	if !strings.HasPrefix(dest, "http://") && !strings.HasPrefix(dest, "https://") {
		return block.Block{}, false
	}
	return block.New("image", map[string]any{
		"type":     "external",
		"external": map[string]any{"url": dest},
	}), true
}

// lines returns the raw content of a code block without its final newline.
func (c converter) lines(n ast.Node) string {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(c.src))
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

func codeBlock(code, lang string) block.Block {
	return block.New("code", map[string]any{
		"rich_text": segments(code, style{}),
		"language":  lang,
	})
}

func isTextual(n ast.Node) bool {
	switch n.(type) {
	case *ast.Paragraph, *ast.TextBlock:
		return true
	}
	return false
}
