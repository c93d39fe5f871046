package skills

import (
	"reflect"
	"strings"
	"testing"
)

func TestCatalog_Canonical(t *testing.T) {
	c := NewCatalog(DefaultCatalog)

	tests := []struct {
		in   string
		want string
	}{
		{"python", "Python"},
		{"  RUST ", "Rust"},
		{"pythn", "Python"},
		{"typescrpt", "TypeScript"},
		{"Haskell", "Haskell"},
		{"R", "R"},
		{"C", "C"},
		{"Ja", "Ja"},
		{"Ru", "Ru"},
		{"r", "r"},
		{"go", "Go"},
		{"", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := c.Canonical(tt.in); got != tt.want {
				t.Errorf("Canonical(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCatalog_Normalize(t *testing.T) {
	c := NewCatalog([]string{"Rust", "Go", "Python"})

	got := c.Normalize([]string{"rust", "Rust", "go", "", "Zig", "python"})
	want := []string{"Go", "Python", "Rust", "Zig"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Normalize = %v, want %v", got, want)
	}
}

func TestCatalog_NormalizeSplitsSeparators(t *testing.T) {
	c := NewCatalog(DefaultCatalog)

	got := c.Normalize([]string{"Zig; Odin", "Go,rust", "C\nR"})
	want := []string{"C", "Go", "Odin", "R", "Rust", "Zig"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Normalize = %v, want %v", got, want)
	}
	for _, s := range got {
		if strings.ContainsAny(s, ",;\n") {
			t.Errorf("normalized tag %q still contains a separator", s)
		}
	}
}

func TestNewCatalog_DropsBlanksAndRepeats(t *testing.T) {
	c := NewCatalog([]string{"Go", " ", "go", "Rust"})
	want := []string{"Go", "Rust"}
	if got := c.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names = %v, want %v", got, want)
	}
}

func TestParse(t *testing.T) {
	got := Parse("Go, Rust;  ROS\nC++ ,,")
	want := []string{"Go", "Rust", "ROS", "C++"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Parse = %v, want %v", got, want)
	}
	if got := Parse("   "); got != nil {
		t.Errorf("Parse(blank) = %v, want nil", got)
	}
}
