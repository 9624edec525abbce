package util

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"ytd/internal/model"
)

// Kind classifies what a URL points at.
type Kind string

const (
	KindVideo    Kind = "video"
	KindPlaylist Kind = "playlist"
)

var playlistIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{10,}$`)

// ParseYouTubeURL parses a raw URL string and checks that it targets a YouTube
// host. A missing scheme is tolerated. Errors wrap model.ErrInvalidReference.
func ParseYouTubeURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err == nil && (u.Scheme == "" || u.Host == "") {
		if u2, e2 := url.Parse("https://" + raw); e2 == nil {
			u = u2
		}
	}
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: %q is not a URL", model.ErrInvalidReference, raw)
	}

	host := strings.ToLower(u.Hostname())
	host = strings.TrimPrefix(host, "www.")
	switch host {
	case "youtube.com", "m.youtube.com", "music.youtube.com", "youtu.be":
		return u, nil
	default:
		return nil, fmt.Errorf("%w: %q is not a YouTube URL (youtube.com, youtu.be)", model.ErrInvalidReference, raw)
	}
}

// PlaylistID extracts the `list` parameter of a playlist URL.
func PlaylistID(raw string) (string, error) {
	u, err := ParseYouTubeURL(raw)
	if err != nil {
		return "", err
	}
	id := u.Query().Get("list")
	if !playlistIDPattern.MatchString(id) {
		return "", fmt.Errorf("%w: %q has no playlist id", model.ErrInvalidReference, raw)
	}
	return id, nil
}

// Classify reports whether raw addresses a playlist or a single video.
func Classify(raw string) (Kind, error) {
	u, err := ParseYouTubeURL(raw)
	if err != nil {
		return "", err
	}
	if u.Query().Get("list") != "" && (u.Path == "/playlist" || u.Query().Get("v") == "") {
		return KindPlaylist, nil
	}
	return KindVideo, nil
}
