package pathkey

import "testing"

func TestKeyIsStable(t *testing.T) {
	t.Parallel()

	folder := Key(Root, "docs")
	file := Key(folder, Document("intro.md"))

	if folder != "./docs" {
		t.Fatalf("folder key = %q, want ./docs", folder)
	}
	if file != "./docs/intro" {
		t.Fatalf("file key = %q, want ./docs/intro", file)
	}
	if Key(Root, "docs") != folder {
		t.Fatal("keys must be identical across derivations")
	}
}

func TestParentAndDepth(t *testing.T) {
	t.Parallel()

	cases := []struct {
		key    string
		parent string
		depth  int
	}{
		{key: ".", parent: ".", depth: 0},
		{key: "./a", parent: ".", depth: 1},
		{key: "./a/b", parent: "./a", depth: 2},
		{key: "./a/b/c", parent: "./a/b", depth: 3},
	}

	for _, tc := range cases {
		if got := Parent(tc.key); got != tc.parent {
			t.Fatalf("Parent(%q) = %q, want %q", tc.key, got, tc.parent)
		}
		if got := Depth(tc.key); got != tc.depth {
			t.Fatalf("Depth(%q) = %d, want %d", tc.key, got, tc.depth)
		}
	}
}

func TestResolve(t *testing.T) {
	t.Parallel()

	cases := []struct {
		file   string
		target string
		want   string
	}{
		{file: "./README.md", target: "docs/intro", want: "./docs/intro"},
		{file: "./README.md", target: "./docs/setup/index.md", want: "./docs/setup/index"},
		{file: "src/README.md", target: "../docs/intro", want: "./docs/intro"},
		{file: "src/README.md", target: "../root", want: "./root"},
		{file: "src/README.md", target: "./test", want: "./src/test"},
		{file: "src/README.md", target: "test", want: "./src/test"},
		{file: "src/README.md", target: "docs/special%20chars", want: "./src/docs/special%20chars"},
		{file: "README.md", target: "../../outside", want: "./outside"},
	}

	for _, tc := range cases {
		if got := Resolve(tc.file, tc.target); got != tc.want {
			t.Fatalf("Resolve(%q, %q) = %q, want %q", tc.file, tc.target, got, tc.want)
		}
	}
}
