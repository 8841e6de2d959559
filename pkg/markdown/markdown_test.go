package markdown

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/vrerv/md-to-notion/pkg/block"
)

func kinds(blocks []block.Block) []string {
	out := make([]string, len(blocks))
	for i, b := range blocks {
		out[i] = b.Type
	}
	return out
}

func items(t *testing.T, b block.Block) []map[string]any {
	t.Helper()
	raw, ok := b.Content["rich_text"].([]any)
	if !ok {
		t.Fatalf("block %s has no rich text: %#v", b.Type, b.Content)
	}
	out := make([]map[string]any, len(raw))
	for i, item := range raw {
		out[i] = item.(map[string]any)
	}
	return out
}

func plain(t *testing.T, b block.Block) string {
	t.Helper()
	var sb strings.Builder
	for _, item := range items(t, b) {
		sb.WriteString(item["text"].(map[string]any)["content"].(string))
	}
	return sb.String()
}

func TestConvertBlockKinds(t *testing.T) {
	t.Parallel()

	src := "# One\n\n## Two\n\n#### Four\n\nText\n\n> Quoted\n\n***\n\n1. first\n2. second\n"
	got := kinds(Convert([]byte(src)))
	want := []string{
		"heading_1", "heading_2", "heading_3",
		"paragraph", "quote", "divider",
		"numbered_list_item", "numbered_list_item",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("block kinds mismatch (-want +got):\n%s", diff)
	}
}

func TestConvertInlineAnnotations(t *testing.T) {
	t.Parallel()

	blocks := Convert([]byte("Hello **bold** and [link](https://example.com) `code`\n"))
	if len(blocks) != 1 {
		t.Fatalf("expected 1 block, got %d", len(blocks))
	}

	rt := items(t, blocks[0])
	var texts []string
	for _, item := range rt {
		texts = append(texts, item["text"].(map[string]any)["content"].(string))
	}
	if diff := cmp.Diff([]string{"Hello ", "bold", " and ", "link", " ", "code"}, texts); diff != "" {
		t.Fatalf("segments mismatch (-want +got):\n%s", diff)
	}

	if rt[1]["annotations"].(map[string]any)["bold"] != true {
		t.Fatalf("expected bold annotation: %#v", rt[1])
	}
	link := rt[3]["text"].(map[string]any)["link"].(map[string]any)
	if link["type"] != "url" || link["url"] != "https://example.com" {
		t.Fatalf("unexpected link: %#v", link)
	}
	if rt[5]["annotations"].(map[string]any)["code"] != true {
		t.Fatalf("expected code annotation: %#v", rt[5])
	}
}

func TestConvertNestedListsAndTasks(t *testing.T) {
	t.Parallel()

	blocks := Convert([]byte("- a\n  - b\n    - c\n- [x] done\n- [ ] todo\n"))
	if diff := cmp.Diff([]string{"bulleted_list_item", "to_do", "to_do"}, kinds(blocks)); diff != "" {
		t.Fatalf("block kinds mismatch (-want +got):\n%s", diff)
	}

	if got := block.MaxDepth(blocks); got != 3 {
		t.Fatalf("MaxDepth = %d, want 3", got)
	}
	b := blocks[0].Children[0]
	if plain(t, b) != "b" || plain(t, b.Children[0]) != "c" {
		t.Fatalf("unexpected nesting: %#v", blocks[0])
	}

	if blocks[1].Content["checked"] != true || plain(t, blocks[1]) != "done" {
		t.Fatalf("unexpected checked task: %#v", blocks[1])
	}
	if blocks[2].Content["checked"] != false || plain(t, blocks[2]) != "todo" {
		t.Fatalf("unexpected open task: %#v", blocks[2])
	}
}

func TestConvertCodeBlocks(t *testing.T) {
	t.Parallel()

	blocks := Convert([]byte("```go\nfmt.Println(1)\nfmt.Println(2)\n```\n\n```brainfuck\n+\n```\n"))
	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(blocks))
	}
	if blocks[0].Content["language"] != "go" || plain(t, blocks[0]) != "fmt.Println(1)\nfmt.Println(2)" {
		t.Fatalf("unexpected code block: %#v", blocks[0].Content)
	}
	if blocks[1].Content["language"] != defaultLanguage {
		t.Fatalf("unknown languages must fall back, got %v", blocks[1].Content["language"])
	}
}

func TestConvertTable(t *testing.T) {
	t.Parallel()

	blocks := Convert([]byte("| a | b |\n| --- | --- |\n| 1 | 2 |\n"))
	if len(blocks) != 1 || blocks[0].Type != "table" {
		t.Fatalf("expected one table, got %v", kinds(blocks))
	}
	table := blocks[0]
	if table.Content["table_width"] != 2 || table.Content["has_column_header"] != true {
		t.Fatalf("unexpected table content: %#v", table.Content)
	}
	if len(table.Children) != 2 || table.Children[1].Type != "table_row" {
		t.Fatalf("unexpected rows: %#v", table.Children)
	}
	cells := table.Children[1].Content["cells"].([]any)
	first := cells[0].([]any)[0].(map[string]any)
	if first["text"].(map[string]any)["content"] != "1" {
		t.Fatalf("unexpected first cell: %#v", first)
	}
}

func TestConvertImage(t *testing.T) {
	t.Parallel()

	blocks := Convert([]byte("![diagram](https://example.com/d.png)\n\n![local](./d.png)\n"))
	if diff := cmp.Diff([]string{"image", "paragraph"}, kinds(blocks)); diff != "" {
		t.Fatalf("block kinds mismatch (-want +got):\n%s", diff)
	}
	ext := blocks[0].Content["external"].(map[string]any)
	if ext["url"] != "https://example.com/d.png" {
		t.Fatalf("unexpected image: %#v", blocks[0].Content)
	}
	if plain(t, blocks[1]) != "local" {
		t.Fatalf("relative images keep their alt text, got %q", plain(t, blocks[1]))
	}
}

func TestConvertSplitsLongText(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("é", 2*MaxTextLength+500)
	blocks := Convert([]byte(long + "\n"))
	rt := items(t, blocks[0])
	if len(rt) != 3 {
		t.Fatalf("expected 3 rich text items, got %d", len(rt))
	}
	for i, want := range []int{MaxTextLength, MaxTextLength, 500} {
		content := rt[i]["text"].(map[string]any)["content"].(string)
		if n := len([]rune(content)); n != want {
			t.Fatalf("item %d has %d runes, want %d", i, n, want)
		}
	}
}

func TestConvertIsStable(t *testing.T) {
	t.Parallel()

	src := []byte("# Doc\n\n- one\n- two\n\nText with *emphasis*.\n")
	first := Convert(src)
	second := Convert(src)
	for i := range first {
		if !block.Equivalent(second[i], first[i]) {
			t.Fatalf("block %d differs between conversions", i)
		}
	}
}

func TestLanguage(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"Go":       "go",
		"js":       "javascript",
		" python ": "python",
		"c++":      "c++",
		"":         defaultLanguage,
		"klingon":  defaultLanguage,
	}
	for in, want := range tests {
		if got := Language(in); got != want {
			t.Fatalf("Language(%q) = %q, want %q", in, got, want)
		}
	}
}
