package util

import (
	"errors"
	"testing"

	"ytd/internal/model"
)

func TestParseYouTubeURL(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{name: "watch url", raw: "https://www.youtube.com/watch?v=dQw4w9WgXcQ"},
		{name: "short url", raw: "https://youtu.be/dQw4w9WgXcQ"},
		{name: "missing scheme", raw: "youtube.com/playlist?list=PL590L5WQmH8fJ54F369BLDSqIwcs-TCfs"},
		{name: "other host", raw: "https://vimeo.com/123", wantErr: true},
		{name: "garbage", raw: "::not a url", wantErr: true},
		{name: "empty", raw: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseYouTubeURL(tt.raw)
			if tt.wantErr {
				if !errors.Is(err, model.ErrInvalidReference) {
					t.Errorf("expected ErrInvalidReference, got %v", err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestPlaylistID(t *testing.T) {
	id, err := PlaylistID("https://www.youtube.com/playlist?list=PL590L5WQmH8fJ54F369BLDSqIwcs-TCfs")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "PL590L5WQmH8fJ54F369BLDSqIwcs-TCfs" {
		t.Errorf("id = %q", id)
	}

	for _, raw := range []string{
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		"https://www.youtube.com/playlist?list=",
		"https://www.youtube.com/playlist?list=bad id!",
		"https://example.com/playlist?list=PL590L5WQmH8fJ54F369BLDSqIwcs-TCfs",
	} {
		if _, err := PlaylistID(raw); !errors.Is(err, model.ErrInvalidReference) {
			t.Errorf("PlaylistID(%q) err = %v, want ErrInvalidReference", raw, err)
		}
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		raw  string
		want Kind
	}{
		{raw: "https://www.youtube.com/playlist?list=PL590L5WQmH8fJ54F369BLDSqIwcs-TCfs", want: KindPlaylist},
		{raw: "https://www.youtube.com/watch?v=dQw4w9WgXcQ", want: KindVideo},
		{raw: "https://www.youtube.com/watch?v=dQw4w9WgXcQ&list=PL590L5WQmH8fJ54F369BLDSqIwcs-TCfs", want: KindVideo},
		{raw: "https://youtu.be/dQw4w9WgXcQ", want: KindVideo},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := Classify(tt.raw)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Classify() = %q, want %q", got, tt.want)
			}
		})
	}
}
