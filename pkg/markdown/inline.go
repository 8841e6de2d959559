package markdown

import (
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
)

// MaxTextLength is the longest content a single rich text item may carry.
const MaxTextLength = 2000

type style struct {
	bold   bool
	italic bool
	strike bool
	code   bool
	link   string
}

// richText converts the inline children of n into rich text items.
func (c converter) richText(n ast.Node) []any {
	var runs []run
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		runs = c.inline(child, style{}, runs)
	}

	// A trailing line break carries no content.
	if len(runs) > 0 {
		last := &runs[len(runs)-1]
		last.text = strings.TrimRight(last.text, "\n ")
		if last.text == "" {
			runs = runs[:len(runs)-1]
		}
	}

	out := []any{}
	for _, r := range runs {
		out = append(out, segments(r.text, r.style)...)
	}
	return out
}

type run struct {
	text  string
	style style
}

// push appends text, merging it into the previous run when styles match.
func push(runs []run, text string, st style) []run {
	if text == "" {
		return runs
	}
	if n := len(runs); n > 0 && runs[n-1].style == st {
		runs[n-1].text += text
		return runs
	}
	return append(runs, run{text: text, style: st})
}

func (c converter) inline(n ast.Node, st style, runs []run) []run {
	switch n := n.(type) {
	case *ast.Text:
		runs = push(runs, string(n.Segment.Value(c.src)), st)
		switch {
		case n.HardLineBreak():
			runs = push(runs, "\n", st)
		case n.SoftLineBreak():
			runs = push(runs, " ", st)
		}
		return runs

	case *ast.String:
		return push(runs, string(n.Value), st)

	case *ast.CodeSpan:
		st.code = true
		var b strings.Builder
		for child := n.FirstChild(); child != nil; child = child.NextSibling() {
			switch t := child.(type) {
			case *ast.Text:
				b.Write(t.Segment.Value(c.src))
			case *ast.String:
				b.Write(t.Value)
			}
		}
		return push(runs, b.String(), st)

	case *ast.Emphasis:
		if n.Level >= 2 {
			st.bold = true
		} else {
			st.italic = true
		}

	case *east.Strikethrough:
		st.strike = true

	case *ast.Link:
		st.link = string(n.Destination)

	case *ast.AutoLink:
		url := string(n.URL(c.src))
		if n.AutoLinkType == ast.AutoLinkEmail && !strings.HasPrefix(url, "mailto:") {
			url = "mailto:" + url
		}
		st.link = url
		return push(runs, string(n.Label(c.src)), st)

	case *ast.Image:
		// Inline images keep their alt text.

	case *ast.RawHTML:
		segs := n.Segments
		for i := 0; i < segs.Len(); i++ {
			seg := segs.At(i)
			runs = push(runs, string(seg.Value(c.src)), st)
		}
		return runs

	case *east.TaskCheckBox:
		return runs
	}

	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		runs = c.inline(child, st, runs)
	}
	return runs
}

// segments splits content into rich text items no longer than MaxTextLength.
func segments(content string, st style) []any {
	out := []any{}
	for content != "" {
		cut := len(content)
		if utf8.RuneCountInString(content) > MaxTextLength {
			cut = 0
			for i := 0; i < MaxTextLength; i++ {
				_, size := utf8.DecodeRuneInString(content[cut:])
				cut += size
			}
		}
		out = append(out, textItem(content[:cut], st))
		content = content[cut:]
	}
	return out
}

func textItem(content string, st style) map[string]any {
	txt := map[string]any{"content": content}
	if st.link != "" {
		txt["link"] = map[string]any{"type": "url", "url": st.link}
	}
	return map[string]any{
		"type": "text",
		"text": txt,
		"annotations": map[string]any{
			"bold":          st.bold,
			"italic":        st.italic,
			"strikethrough": st.strike,
			"underline":     false,
			"code":          st.code,
			"color":         "default",
		},
	}
}

// trimLeft drops leading spaces from the first item.
func trimLeft(items []any) []any {
	if len(items) == 0 {
		return items
	}
	first, ok := items[0].(map[string]any)
	if !ok {
		return items
	}
	txt := first["text"].(map[string]any)
	content := strings.TrimLeft(txt["content"].(string), " ")
	if content == "" {
		return items[1:]
	}
	txt["content"] = content
	return items
}
