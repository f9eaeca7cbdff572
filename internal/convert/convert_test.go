package convert

import (
	"errors"
	"strings"
	"testing"
)

func TestMarkdownConvert(t *testing.T) {
	t.Parallel()

	md, err := NewMarkdown().Convert(`<h1>Install</h1><p>Run <code>go install</code>.</p>`)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}

	if !strings.Contains(md, "# Install") {
		t.Errorf("heading not converted: %q", md)
	}
	if !strings.Contains(md, "`go install`") {
		t.Errorf("inline code not converted: %q", md)
	}
}

func TestCollapseBlankLines(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "three newlines collapse to two",
			in:   "a\n\n\nb",
			want: "a\n\nb",
		},
		{
			name: "long runs collapse to two",
			in:   "a\n\n\n\n\n\nb",
			want: "a\n\nb",
		},
		{
			name: "single blank line untouched",
			in:   "a\n\nb",
			want: "a\n\nb",
		},
		{
			name: "no blank lines untouched",
			in:   "a\nb",
			want: "a\nb",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := CollapseBlankLines(tt.in); got != tt.want {
				t.Errorf("CollapseBlankLines(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestPlaceholder(t *testing.T) {
	t.Parallel()

	body := Placeholder("https://docs.example.com/broken", errors.New("bad input"))
	if !strings.Contains(body, "bad input") {
		t.Errorf("placeholder missing error: %q", body)
	}
	if !strings.Contains(body, "https://docs.example.com/broken") {
		t.Errorf("placeholder missing source URL: %q", body)
	}
}
