// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "testing"

func TestScore(t *testing.T) {
	var p Paper
	if p.Score() != 0 {
		t.Errorf("unscored Score() = %v, want 0", p.Score())
	}
	p.SetScore(4.5)
	if p.Score() != 4.5 {
		t.Errorf("Score() = %v, want 4.5", p.Score())
	}
	// The sentinel 0 is a real score, distinguishable from unscored.
	p.SetScore(0)
	if p.RelevanceScore == nil || p.Score() != 0 {
		t.Error("SetScore(0) should record an explicit zero")
	}
}

func TestAuthorLine(t *testing.T) {
	tests := []struct {
		name    string
		authors []string
		want    string
	}{
		{"no authors", nil, "Unknown"},
		{"one author", []string{"Ada"}, "Ada"},
		{"three authors", []string{"Ada", "Ben", "Cy"}, "Ada, Ben, Cy"},
		{"four authors truncated", []string{"Ada", "Ben", "Cy", "Dee"}, "Ada, Ben, Cy et al."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Paper{Authors: tt.authors}
			if got := p.AuthorLine(); got != tt.want {
				t.Errorf("AuthorLine() = %q, want %q", got, tt.want)
			}
		})
	}
}
