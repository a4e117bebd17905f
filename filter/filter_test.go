package filter

import (
	"testing"

	"github.com/s0up4200/sentinelarr/qbittorrent"
)

func TestCompile(t *testing.T) {
	tests := []struct {
		name       string
		expression string
		wantErr    bool
	}{
		{
			name:       "valid expression",
			expression: `hasTag("keep")`,
		},
		{
			name:       "complex expression",
			expression: `Category == "managed" and Ratio > 1.5 and not hasTag("keep")`,
		},
		{
			name:       "empty expression",
			expression: "",
			wantErr:    true,
		},
		{
			name:       "whitespace only",
			expression: "   ",
			wantErr:    true,
		},
		{
			name:       "invalid syntax",
			expression: `hasTag("unclosed`,
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Compile(tt.expression)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if f == nil {
				t.Fatal("expected filter but got nil")
			}
		})
	}
}

func TestMatch(t *testing.T) {
	snap := qbittorrent.TorrentSnapshot{
		Hash:        "abc123",
		Name:        "linux-iso",
		Category:    "managed",
		Tags:        []string{"keep", "cross-seed"},
		State:       "uploading",
		Ratio:       2.5,
		SeedingTime: 7200,
		Uploaded:    1 << 30,
		UpSpeed:     1024,
	}

	tests := []struct {
		name       string
		expression string
		want       bool
	}{
		{
			name:       "has tag",
			expression: `hasTag("keep")`,
			want:       true,
		},
		{
			name:       "has tag is case-insensitive",
			expression: `hasTag("KEEP")`,
			want:       true,
		},
		{
			name:       "missing tag",
			expression: `hasTag("archive")`,
			want:       false,
		},
		{
			name:       "category match",
			expression: `Category == "managed"`,
			want:       true,
		},
		{
			name:       "ratio comparison",
			expression: `Ratio > 2.0`,
			want:       true,
		},
		{
			name:       "seeding minutes derived field",
			expression: `SeedingMinutes >= 120`,
			want:       true,
		},
		{
			name:       "combined",
			expression: `Category == "managed" and not hasTag("archive") and UpSpeed > 0`,
			want:       true,
		},
		{
			name:       "name contains",
			expression: `Name contains "linux"`,
			want:       true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Compile(tt.expression)
			if err != nil {
				t.Fatalf("compile: %v", err)
			}

			got, err := f.Match(snap)
			if err != nil {
				t.Fatalf("match: %v", err)
			}
			if got != tt.want {
				t.Errorf("Match(%q) = %v, want %v", tt.expression, got, tt.want)
			}
		})
	}
}
