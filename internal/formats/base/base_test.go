package base

import "testing"

func TestCollapseEmptyLines(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"a\n\n\n\nb", "a\n\nb"},
		{"a\n\nb", "a\n\nb"},
		{"a\nb", "a\nb"},
		{"\n\n\n", "\n\n"},
	}
	for _, tt := range tests {
		if got := CollapseEmptyLines(tt.in); got != tt.want {
			t.Errorf("CollapseEmptyLines(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIndent(t *testing.T) {
	got := Indent("one\n\ntwo", "    ")
	want := "    one\n\n    two"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestDedent(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"common margin", "    a\n    b", "a\nb"},
		{"mixed depth", "    a\n        b", "a\n    b"},
		{"blank lines ignored", "    a\n\n    b", "a\n\nb"},
		{"no margin", "a\n    b", "a\n    b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Dedent(tt.in); got != tt.want {
				t.Errorf("Dedent(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
