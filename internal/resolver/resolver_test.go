package resolver

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/kkdai/youtube/v2"

	"ytd/internal/model"
)

type fakeClient struct {
	video     *youtube.Video
	playlist  *youtube.Playlist
	err       error
	calls     int
	streamFor string
}

func (f *fakeClient) GetVideoContext(ctx context.Context, url string) (*youtube.Video, error) {
	f.calls++
	return f.video, f.err
}

func (f *fakeClient) GetPlaylistContext(ctx context.Context, url string) (*youtube.Playlist, error) {
	f.calls++
	return f.playlist, f.err
}

func (f *fakeClient) GetStreamContext(ctx context.Context, video *youtube.Video, format *youtube.Format) (io.ReadCloser, int64, error) {
	f.streamFor = format.QualityLabel
	return io.NopCloser(strings.NewReader("data")), 4, nil
}

func TestResolveVideoVariants(t *testing.T) {
	fc := &fakeClient{video: &youtube.Video{
		ID:          "dQw4w9WgXcQ",
		Title:       "Song: Live?",
		Author:      "Band",
		Duration:    187 * time.Second,
		PublishDate: time.Date(2020, 5, 1, 0, 0, 0, 0, time.UTC),
		Formats: youtube.FormatList{
			{QualityLabel: "720p", FPS: 30, MimeType: `video/mp4; codecs="avc1.64001F, mp4a.40.2"`, AudioChannels: 2, ContentLength: 1000},
			{QualityLabel: "1080p", FPS: 60, MimeType: `video/mp4; codecs="avc1.640028"`},
			{MimeType: `audio/mp4; codecs="mp4a.40.2"`, AudioChannels: 2},
			{QualityLabel: "360p", FPS: 30, MimeType: `video/webm; codecs="vp8, vorbis"`, AudioChannels: 2},
		},
	}}
	r := &YouTube{client: fc}

	ref, variants, err := r.ResolveVideo(context.Background(), "https://www.youtube.com/watch?v=dQw4w9WgXcQ")
	if err != nil {
		t.Fatalf("ResolveVideo: %v", err)
	}
	if ref.Title != "Song: Live?" || ref.Author != "Band" || ref.Duration != 187*time.Second {
		t.Errorf("unexpected ref %+v", ref)
	}
	if ref.URL != "https://www.youtube.com/watch?v=dQw4w9WgXcQ" {
		t.Errorf("URL = %q", ref.URL)
	}

	if len(variants) != 2 {
		t.Fatalf("got %d variants, want 2", len(variants))
	}
	if variants[0].Quality != "720p" || variants[0].Size != 1000 || variants[0].DefaultFilename != "Song Live.mp4" {
		t.Errorf("variant[0] = %+v", variants[0])
	}
	if variants[1].Quality != "360p" || variants[1].DefaultFilename != "Song Live.webm" {
		t.Errorf("variant[1] = %+v", variants[1])
	}

	rc, n, err := variants[1].Source.Open(context.Background())
	if err != nil || n != 4 {
		t.Fatalf("Open: %d %v", n, err)
	}
	rc.Close()
	if fc.streamFor != "360p" {
		t.Errorf("stream opened for %q", fc.streamFor)
	}
}

func TestResolvePlaylist(t *testing.T) {
	fc := &fakeClient{playlist: &youtube.Playlist{
		ID:    "PLabcdefghij",
		Title: "Test Mix",
		Videos: []*youtube.PlaylistEntry{
			{ID: "aaaaaaaaaaa", Title: "A"},
			nil,
			{ID: "bbbbbbbbbbb"},
		},
	}}
	r := &YouTube{client: fc}

	pl, err := r.ResolvePlaylist(context.Background(), "https://www.youtube.com/playlist?list=PLabcdefghij")
	if err != nil {
		t.Fatalf("ResolvePlaylist: %v", err)
	}
	if pl.Title != "Test Mix" || len(pl.Entries) != 2 {
		t.Fatalf("unexpected playlist %+v", pl)
	}
	if pl.Entries[1].Title != "bbbbbbbbbbb" {
		t.Errorf("entry title fallback = %q", pl.Entries[1].Title)
	}
}

func TestMalformedURLMakesNoCalls(t *testing.T) {
	fc := &fakeClient{}
	r := &YouTube{client: fc}

	if _, err := r.ResolvePlaylist(context.Background(), "https://www.youtube.com/watch?v=dQw4w9WgXcQ"); !errors.Is(err, model.ErrInvalidReference) {
		t.Errorf("playlist err = %v", err)
	}
	if _, _, err := r.ResolveVideo(context.Background(), "https://example.com/x"); !errors.Is(err, model.ErrInvalidReference) {
		t.Errorf("video err = %v", err)
	}
	if fc.calls != 0 {
		t.Errorf("client called %d times", fc.calls)
	}
}

func TestLookupErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "private", err: youtube.ErrVideoPrivate, want: model.ErrNotFound},
		{name: "bad playlist", err: youtube.ErrInvalidPlaylist, want: model.ErrInvalidReference},
		{name: "other", err: errors.New("status 404"), want: model.ErrNotFound},
		{name: "canceled", err: context.Canceled, want: context.Canceled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &YouTube{client: &fakeClient{err: tt.err}}
			_, _, err := r.ResolveVideo(context.Background(), "https://youtu.be/dQw4w9WgXcQ")
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}
