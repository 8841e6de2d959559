package block

import (
	"encoding/json"
	"fmt"
)

const childrenKey = "children"

// Block is a content unit identified by its type discriminator.
// Content holds the value stored under the type key, without its children.
type Block struct {
	ID          string         // assigned by the remote store, empty for local blocks
	Type        string         // discriminator, e.g. "paragraph"
	Content     map[string]any // value under Type, children excluded
	Children    []Block        // nested blocks
	HasChildren bool           // remote flag, children may not be fetched yet
}

// New returns a block of the given type with content and optional children.
func New(kind string, content map[string]any, children ...Block) Block {
	if content == nil {
		content = map[string]any{}
	}
	return Block{
		Type:        kind,
		Content:     content,
		Children:    children,
		HasChildren: len(children) > 0,
	}
}

// Clone returns a deep copy without the remote identifier, suitable for
// writing the same content again.
func (b Block) Clone() Block {
	out := Block{
		Type:        b.Type,
		Content:     cloneMap(b.Content),
		HasChildren: len(b.Children) > 0,
	}
	if len(b.Children) > 0 {
		out.Children = make([]Block, len(b.Children))
		for i, child := range b.Children {
			out.Children[i] = child.Clone()
		}
	}
	return out
}

// Shallow returns the block with its children detached.
func (b Block) Shallow() Block {
	out := b
	out.Children = nil
	out.HasChildren = false
	return out
}

// Value returns the block in its generic map form, the way the remote store
// represents it.
func (b Block) Value() map[string]any {
	inner := cloneMap(b.Content)
	if inner == nil {
		inner = map[string]any{}
	}
	if len(b.Children) > 0 {
		children := make([]any, len(b.Children))
		for i, child := range b.Children {
			children[i] = child.Value()
		}
		inner[childrenKey] = children
	}
	return map[string]any{
		"object": "block",
		"type":   b.Type,
		b.Type:   inner,
	}
}

func (b Block) MarshalJSON() ([]byte, error) {
	if b.Type == "" {
		return nil, fmt.Errorf("block has no type")
	}
	return json.Marshal(b.Value())
}

func (b *Block) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var out Block
	if v, ok := raw["id"]; ok {
		if err := json.Unmarshal(v, &out.ID); err != nil {
			return fmt.Errorf("decode block id: %w", err)
		}
	}
	if v, ok := raw["type"]; ok {
		if err := json.Unmarshal(v, &out.Type); err != nil {
			return fmt.Errorf("decode block type: %w", err)
		}
	}
	if out.Type == "" {
		return fmt.Errorf("block has no type")
	}
	if v, ok := raw["has_children"]; ok {
		if err := json.Unmarshal(v, &out.HasChildren); err != nil {
			return fmt.Errorf("decode has_children of %s: %w", out.ID, err)
		}
	}

	out.Content = map[string]any{}
	if v, ok := raw[out.Type]; ok && string(v) != "null" {
		if err := json.Unmarshal(v, &out.Content); err != nil {
			return fmt.Errorf("decode %s content of %s: %w", out.Type, out.ID, err)
		}
	}
	if rawChildren, ok := out.Content[childrenKey]; ok {
		delete(out.Content, childrenKey)
		children, err := fromValue(rawChildren)
		if err != nil {
			return fmt.Errorf("decode children of %s: %w", out.ID, err)
		}
		out.Children = children
		if len(children) > 0 {
			out.HasChildren = true
		}
	}

	*b = out
	return nil
}

func fromValue(v any) ([]Block, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out []Block
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MaxDepth returns the nesting depth of a block list: zero for an empty list,
// one for a list of leaves.
func MaxDepth(blocks []Block) int {
	if len(blocks) == 0 {
		return 0
	}
	deepest := 0
	for _, b := range blocks {
		if d := MaxDepth(b.Children); d > deepest {
			deepest = d
		}
	}
	return deepest + 1
}

// Depth returns the nesting depth of a single block, counting itself.
func (b Block) Depth() int {
	return MaxDepth(b.Children) + 1
}

// Count returns the number of blocks in a list, descendants included.
func Count(blocks []Block) int {
	n := 0
	for _, b := range blocks {
		n += b.Size()
	}
	return n
}

// Size returns the number of blocks in the tree rooted at b, b included.
func (b Block) Size() int {
	return 1 + Count(b.Children)
}

// MaxWidth returns the length of the longest child list in the tree of a
// block list, the list itself included.
func MaxWidth(blocks []Block) int {
	widest := len(blocks)
	for _, b := range blocks {
		if w := MaxWidth(b.Children); w > widest {
			widest = w
		}
	}
	return widest
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneMap(t)
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = cloneValue(item)
		}
		return out
	case []map[string]any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = cloneMap(item)
		}
		return out
	default:
		return v
	}
}
