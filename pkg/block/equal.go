package block

// linkType marks a link target. The remote store returns link targets without
// the discriminator the local representation carries, so an object whose
// desired type is "url" matches whatever the remote holds at that position.
const linkType = "url"

// Equivalent reports whether the existing block matches the desired one.
// Only keys present in desired are compared; anything the remote store adds is
// ignored. Lists and children are the exception: they must have the same
// length, so trailing elements the remote holds beyond the desired ones count
// as a difference. The relation is not symmetric: pass the remote block first.
func Equivalent(candidate, desired Block) bool {
	if desired.Type == linkType {
		return true
	}
	if candidate.Type != desired.Type {
		return false
	}
	if !mapEquivalent(candidate.Content, desired.Content) {
		return false
	}
	if len(candidate.Children) != len(desired.Children) {
		return false
	}
	for i := range desired.Children {
		if !Equivalent(candidate.Children[i], desired.Children[i]) {
			return false
		}
	}
	return true
}

// ValueEquivalent compares generic JSON-like values with the same rules as
// Equivalent. A missing candidate value is nil.
func ValueEquivalent(candidate, desired any) bool {
	if desired == nil {
		return candidate == nil
	}

	switch want := desired.(type) {
	case map[string]any:
		got, ok := candidate.(map[string]any)
		if !ok {
			return false
		}
		return mapEquivalent(got, want)
	case Block:
		got, ok := candidate.(Block)
		return ok && Equivalent(got, want)
	}

	if want, ok := asList(desired); ok {
		got, ok := asList(candidate)
		if !ok || len(got) != len(want) {
			return false
		}
		for i := range want {
			if !ValueEquivalent(got[i], want[i]) {
				return false
			}
		}
		return true
	}

	return scalarEqual(candidate, desired)
}

func mapEquivalent(candidate, desired map[string]any) bool {
	if t, ok := desired["type"].(string); ok && t == linkType {
		return true
	}
	for key, want := range desired {
		if !ValueEquivalent(candidate[key], want) {
			return false
		}
	}
	return true
}

func asList(v any) ([]any, bool) {
	switch t := v.(type) {
	case []any:
		return t, true
	case []map[string]any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = item
		}
		return out, true
	case []string:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = item
		}
		return out, true
	case []Block:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = item
		}
		return out, true
	default:
		return nil, false
	}
}

func scalarEqual(candidate, desired any) bool {
	if a, ok := toFloat(candidate); ok {
		b, ok := toFloat(desired)
		return ok && a == b
	}
	switch want := desired.(type) {
	case string:
		got, ok := candidate.(string)
		return ok && got == want
	case bool:
		got, ok := candidate.(bool)
		return ok && got == want
	}
	return false
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}
