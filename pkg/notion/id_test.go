package notion

import "testing"

func TestParsePageID(t *testing.T) {
	t.Parallel()

	const want = "0123abcd-4567-89ef-0123-456789abcdef"
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "plain", raw: "  0123abcd456789ef0123456789abcdef ", want: "0123abcd456789ef0123456789abcdef"},
		{name: "titled url", raw: "https://www.notion.so/team/Docs-0123abcd456789ef0123456789abcdef", want: want},
		{name: "bare url", raw: "https://www.notion.so/0123ABCD456789EF0123456789ABCDEF?v=1", want: want},
		{name: "dashed url", raw: "https://notion.so/" + want, want: want},
		{name: "peek url", raw: "https://www.notion.so/team/db?p=0123abcd456789ef0123456789abcdef", want: want},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParsePageID(tt.raw)
			if err != nil {
				t.Fatalf("ParsePageID(%q) returned error: %v", tt.raw, err)
			}
			if got != tt.want {
				t.Fatalf("ParsePageID(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestParsePageIDRejectsURLWithoutID(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"https://www.notion.so/team/Docs", "https://www.notion.so/Docs-0123abcd456789ef0123456789abcdeg"} {
		if _, err := ParsePageID(raw); err == nil {
			t.Fatalf("ParsePageID(%q) succeeded, want error", raw)
		}
	}
}
