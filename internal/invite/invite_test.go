package invite

import (
	"regexp"
	"testing"
)

var codeFormat = regexp.MustCompile(`^[0-9A-F]{8}$`)

func TestGenerateFormat(t *testing.T) {
	for i := 0; i < 100; i++ {
		code, err := Generate()
		if err != nil {
			t.Fatalf("Generate() error = %v", err)
		}
		if !codeFormat.MatchString(code) {
			t.Errorf("Generate() = %q, want 8 uppercase hex characters", code)
		}
	}
}

func TestGenerateUniqueness(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		code, err := Generate()
		if err != nil {
			t.Fatalf("Generate() error = %v", err)
		}
		if seen[code] {
			t.Fatalf("Generate() produced duplicate code %q within 1000 draws", code)
		}
		seen[code] = true
	}
}

func TestEnsure(t *testing.T) {
	tests := []struct {
		name     string
		existing string
		keep     bool
	}{
		{name: "existing code is kept", existing: "ABCD1234", keep: true},
		{name: "empty code is generated", existing: "", keep: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, err := Ensure(tt.existing)
			if err != nil {
				t.Fatalf("Ensure() error = %v", err)
			}
			if tt.keep && code != tt.existing {
				t.Errorf("Ensure(%q) = %q, want existing code preserved", tt.existing, code)
			}
			if !tt.keep && !codeFormat.MatchString(code) {
				t.Errorf("Ensure(%q) = %q, want a fresh valid code", tt.existing, code)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "lowercase", input: "abcd1234", want: "ABCD1234"},
		{name: "mixed case", input: "aBcD1234", want: "ABCD1234"},
		{name: "surrounding whitespace", input: "  ABCD1234 ", want: "ABCD1234"},
		{name: "already normalized", input: "ABCD1234", want: "ABCD1234"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.input); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
