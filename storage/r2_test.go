package storage

import (
	"context"
	"testing"
)

func TestObjectKey(t *testing.T) {
	tests := []struct {
		folder, name, want string
	}{
		{"team_images", "1_logo.png", "team_images/1_logo.png"},
		{"/player_images/", "2_me.jpg", "player_images/2_me.jpg"},
		{"", "3_x.png", "3_x.png"},
	}
	for _, tt := range tests {
		if got := ObjectKey(tt.folder, tt.name); got != tt.want {
			t.Errorf("ObjectKey(%q, %q) = %q, want %q", tt.folder, tt.name, got, tt.want)
		}
	}
}

func TestNameFromKey(t *testing.T) {
	if got := NameFromKey("team_images/1_logo.png"); got != "1_logo.png" {
		t.Errorf("unexpected name %q", got)
	}
}

func TestKeyMatches(t *testing.T) {
	tests := []struct {
		key, folder, name string
		want              bool
	}{
		{"team_images/image.png", "team_images", "image.png", true},
		{"player_images/image.png", "team_images", "image.png", false},
		{"team_images/image.png.bak", "team_images", "image.png", false},
		{"player_images/image.png", "", "image.png", true},
		{"team_images/image.png", "/team_images/", "image.png", true},
	}
	for _, tt := range tests {
		if got := KeyMatches(tt.key, tt.folder, tt.name); got != tt.want {
			t.Errorf("KeyMatches(%q, %q, %q) = %v, want %v", tt.key, tt.folder, tt.name, got, tt.want)
		}
	}
}

func TestJoinPublicURL(t *testing.T) {
	tests := []struct {
		base, key, want string
	}{
		{"https://cdn.example.com/hoops", "team_images/1_logo.png", "https://cdn.example.com/hoops/team_images/1_logo.png"},
		{"https://cdn.example.com/hoops/", "/team_images/1_logo.png", "https://cdn.example.com/hoops/team_images/1_logo.png"},
		{"https://cdn.example.com", "a.png", "https://cdn.example.com/a.png"},
		{"", "a.png", ""},
	}
	for _, tt := range tests {
		if got := joinPublicURL(tt.base, tt.key); got != tt.want {
			t.Errorf("joinPublicURL(%q, %q) = %q, want %q", tt.base, tt.key, got, tt.want)
		}
	}
}

func TestNewR2Store_RequiresConfig(t *testing.T) {
	if _, err := NewR2Store(context.Background(), R2Config{AccountID: "acct"}); err == nil {
		t.Fatal("expected error for incomplete configuration")
	}
}
