package source

import (
	"bytes"

	"gopkg.in/yaml.v3"
)

var (
	fence    = []byte("---")
	fenceEnd = []byte("...")
)

// StripFrontMatter removes a leading YAML front matter block. Content whose
// leading block does not decode as a YAML mapping is returned unchanged.
func StripFrontMatter(data []byte) []byte {
	body := bytes.TrimPrefix(data, []byte("\ufeff"))
	first, rest, ok := cutLine(body)
	if !ok || !bytes.Equal(bytes.TrimRight(first, " \t"), fence) {
		return data
	}

	var meta bytes.Buffer
	for {
		line, next, ok := cutLine(rest)
		if !ok {
			return data
		}
		trimmed := bytes.TrimRight(line, " \t")
		if bytes.Equal(trimmed, fence) || bytes.Equal(trimmed, fenceEnd) {
			var v map[string]any
			if err := yaml.Unmarshal(meta.Bytes(), &v); err != nil {
				return data
			}
			return next
		}
		meta.Write(line)
		meta.WriteByte('\n')
		rest = next
	}
}

// cutLine splits off the first line without its line ending. ok is false
// when data is empty.
func cutLine(data []byte) (line, rest []byte, ok bool) {
	if len(data) == 0 {
		return nil, nil, false
	}
	line, rest, found := bytes.Cut(data, []byte("\n"))
	if !found {
		rest = nil
	}
	return bytes.TrimSuffix(line, []byte("\r")), rest, true
}
