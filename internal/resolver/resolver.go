// Package resolver turns video and playlist URLs into model references and
// downloadable stream variants.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/kkdai/youtube/v2"

	"ytd/internal/model"
	"ytd/internal/util"
)

// Resolver looks up remote videos and playlists.
type Resolver interface {
	ResolveVideo(ctx context.Context, url string) (model.VideoRef, []model.StreamVariant, error)
	ResolvePlaylist(ctx context.Context, url string) (model.PlaylistRef, error)
}

// client is the subset of *youtube.Client used here.
type client interface {
	GetVideoContext(ctx context.Context, url string) (*youtube.Video, error)
	GetPlaylistContext(ctx context.Context, url string) (*youtube.Playlist, error)
	GetStreamContext(ctx context.Context, video *youtube.Video, format *youtube.Format) (io.ReadCloser, int64, error)
}

// YouTube resolves references against youtube.com.
type YouTube struct {
	client client
}

// DefaultTimeout bounds metadata requests. Stream bodies are governed by the
// caller's context instead.
const DefaultTimeout = 30 * time.Second

// NewYouTube creates a resolver backed by github.com/kkdai/youtube/v2.
func NewYouTube(httpClient *http.Client) *YouTube {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &YouTube{client: &youtube.Client{HTTPClient: httpClient}}
}

// ResolveVideo fetches metadata for one video and lists its progressive
// (audio and video) variants in source order.
func (y *YouTube) ResolveVideo(ctx context.Context, url string) (model.VideoRef, []model.StreamVariant, error) {
	if _, err := util.ParseYouTubeURL(url); err != nil {
		// bare video ids are accepted as well
		if _, idErr := youtube.ExtractVideoID(url); idErr != nil {
			return model.VideoRef{}, nil, err
		}
	}

	video, err := y.client.GetVideoContext(ctx, url)
	if err != nil {
		return model.VideoRef{}, nil, mapLookupError(err, "video")
	}

	ref := model.VideoRef{
		ID:          video.ID,
		URL:         WatchURL(video.ID),
		Title:       video.Title,
		Author:      video.Author,
		PublishDate: video.PublishDate,
		Duration:    video.Duration,
	}
	return ref, y.variants(video), nil
}

// ResolvePlaylist fetches a playlist and its ordered entries. The URL must
// carry a playlist id; this is checked before any request is made.
func (y *YouTube) ResolvePlaylist(ctx context.Context, url string) (model.PlaylistRef, error) {
	id, err := util.PlaylistID(url)
	if err != nil {
		return model.PlaylistRef{}, err
	}

	pl, err := y.client.GetPlaylistContext(ctx, url)
	if err != nil {
		return model.PlaylistRef{}, mapLookupError(err, "playlist")
	}

	ref := model.PlaylistRef{
		ID:      id,
		URL:     url,
		Title:   pl.Title,
		Author:  pl.Author,
		Entries: make([]model.VideoRef, 0, len(pl.Videos)),
	}
	if pl.ID != "" {
		ref.ID = pl.ID
	}
	for _, e := range pl.Videos {
		if e == nil || e.ID == "" {
			continue
		}
		ref.Entries = append(ref.Entries, model.VideoRef{
			ID:       e.ID,
			URL:      WatchURL(e.ID),
			Title:    entryTitle(e),
			Author:   e.Author,
			Duration: e.Duration,
		})
	}
	return ref, nil
}

func (y *YouTube) variants(video *youtube.Video) []model.StreamVariant {
	formats := video.Formats.WithAudioChannels()
	out := make([]model.StreamVariant, 0, len(formats))
	for i := range formats {
		f := &formats[i]
		if f.QualityLabel == "" || !strings.HasPrefix(f.MimeType, "video/") {
			continue
		}
		out = append(out, model.StreamVariant{
			Quality:         f.QualityLabel,
			FPS:             f.FPS,
			MimeType:        f.MimeType,
			Size:            f.ContentLength,
			DefaultFilename: util.DefaultFilename(video.Title, f.MimeType),
			Source:          &streamSource{client: y.client, video: video, format: f},
		})
	}
	return out
}

type streamSource struct {
	client client
	video  *youtube.Video
	format *youtube.Format
}

func (s *streamSource) Open(ctx context.Context) (io.ReadCloser, int64, error) {
	return s.client.GetStreamContext(ctx, s.video, s.format)
}

// WatchURL returns the canonical watch URL for a video id.
func WatchURL(id string) string {
	if id == "" {
		return ""
	}
	return "https://www.youtube.com/watch?v=" + id
}

func entryTitle(e *youtube.PlaylistEntry) string {
	if e.Title != "" {
		return e.Title
	}
	return e.ID
}

func mapLookupError(err error, what string) error {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	case errors.Is(err, youtube.ErrInvalidPlaylist),
		errors.Is(err, youtube.ErrInvalidCharactersInVideoID),
		errors.Is(err, youtube.ErrVideoIDMinLength):
		return fmt.Errorf("%w: %s: %v", model.ErrInvalidReference, what, err)
	default:
		return fmt.Errorf("%w: %s unavailable: %v", model.ErrNotFound, what, err)
	}
}
