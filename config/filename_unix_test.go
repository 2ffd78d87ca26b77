//go:build !windows

package config

import "testing"

func TestCleanFileName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"page", "page"},
		{"a/b:c", "abc"},
		{".hidden", "hidden"},
		{"tab\there\x00", "tabhere"},
		{"...", badFileName},
		{"", badFileName},
		{"Страница 1", "Страница 1"},
	}
	for _, tt := range tests {
		if got := CleanFileName(tt.in); got != tt.want {
			t.Errorf("CleanFileName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
