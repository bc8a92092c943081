package errors

import (
	"strings"
	"testing"
)

func TestValidateCrateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "serde", false},
		{"valid with hyphen", "serde-json", false},
		{"valid with underscore", "proc_macro2", false},
		{"empty", "", true},
		{"too long", strings.Repeat("a", 65), true},
		{"path traversal", "../etc", true},
		{"contains slash", "foo/bar", true},
		{"contains backslash", `foo\bar`, true},
		{"control character", "foo\x01bar", true},
		{"null byte", "foo\x00bar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCrateName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCrateName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && GetCode(err) != ErrCodeInvalidCrate {
				t.Errorf("code = %v, want %v", GetCode(err), ErrCodeInvalidCrate)
			}
		})
	}
}

func TestValidateCratePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid relative", "crates/fj-math", false},
		{"valid dot", ".", false},
		{"empty", "", true},
		{"too long", strings.Repeat("a/", 300), true},
		{"control character", "crates/\x07bell", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCratePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCratePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
