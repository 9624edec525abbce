package util

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: "Never Gonna Give You Up", want: "Never Gonna Give You Up"},
		{name: "pipes and question marks", in: "Song | Live? 2020", want: "Song Live 2020"},
		{name: "slashes", in: "AC/DC: Thunderstruck", want: "ACDC Thunderstruck"},
		{name: "control chars", in: "a\tb\nc", want: "a b c"},
		{name: "empty", in: "", want: "untitled"},
		{name: "only forbidden", in: "???", want: "untitled"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeFilename(tt.in); got != tt.want {
				t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSanitizeFilename_Truncates(t *testing.T) {
	got := SanitizeFilename(strings.Repeat("é", 300))
	if n := utf8.RuneCountInString(got); n != 200 {
		t.Errorf("rune count = %d, want 200", n)
	}
}

func TestDefaultFilename(t *testing.T) {
	tests := []struct {
		title, mime, want string
	}{
		{title: "Intro", mime: `video/mp4; codecs="avc1.42001E, mp4a.40.2"`, want: "Intro.mp4"},
		{title: "Intro", mime: "video/webm", want: "Intro.webm"},
		{title: "Intro", mime: "", want: "Intro.mp4"},
	}
	for _, tt := range tests {
		t.Run(tt.mime, func(t *testing.T) {
			if got := DefaultFilename(tt.title, tt.mime); got != tt.want {
				t.Errorf("DefaultFilename() = %q, want %q", got, tt.want)
			}
		})
	}
}
