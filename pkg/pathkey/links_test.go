package pathkey

import "testing"

var testLinks = LinkMap{
	"./docs/intro":       "https://example.com/docs/intro",
	"./docs/setup/index": "https://example.com/docs/setup/index",
	"./src/test":         "https://example.com/src/test",
	"./root":             "https://example.com/root",
}

func TestReplaceLinks(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		content string
		file    string
		want    string
	}{
		{
			name:    "relative to root",
			content: "This is an [introduction](docs/intro) and [setup guide](./docs/setup/index).",
			file:    "./README.md",
			want:    "This is an [introduction](https://example.com/docs/intro) and [setup guide](https://example.com/docs/setup/index).",
		},
		{
			name:    "unknown link kept",
			content: "This is an [unknown link](docs/unknown).",
			file:    "src/README.md",
			want:    "This is an [unknown link](docs/unknown).",
		},
		{
			name:    "external link kept",
			content: "This is an [VReRV](https://github.com/vrerv).",
			file:    "src/README.md",
			want:    "This is an [VReRV](https://github.com/vrerv).",
		},
		{
			name:    "parent directory",
			content: "This is a [relative link](../docs/intro.md).",
			file:    "src/README.md",
			want:    "This is a [relative link](https://example.com/docs/intro).",
		},
		{
			name:    "current directory",
			content: "This is a [relative link](./test) and [another](test).",
			file:    "src/README.md",
			want:    "This is a [relative link](https://example.com/src/test) and [another](https://example.com/src/test).",
		},
		{
			name:    "image untouched",
			content: "![diagram](docs/intro)",
			file:    "./README.md",
			want:    "![diagram](docs/intro)",
		},
	}

	for _, tc := range cases {
		if got := ReplaceLinks(tc.content, testLinks, tc.file); got != tc.want {
			t.Fatalf("%s: got %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestRemoveLinks(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"This is a [link](./section) in markdown.":                      "This is a link in markdown.",
		"Here is a [link1](./section1) and another [link2](./section2).": "Here is a link1 and another link2.",
		"This content has no links.":                                     "This content has no links.",
		"":                                                               "",
		"Keep [anchors](#top) and [sites](https://example.com).":        "Keep [anchors](#top) and [sites](https://example.com).",
	}

	for in, want := range cases {
		if got := RemoveLinks(in); got != want {
			t.Fatalf("RemoveLinks(%q) = %q, want %q", in, got, want)
		}
	}
}
