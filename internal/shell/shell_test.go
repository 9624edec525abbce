package shell

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"

	"ytd/internal/config"
	"ytd/internal/model"
	"ytd/internal/pipeline"
	"ytd/internal/progress"
	"ytd/internal/storage"
	"ytd/internal/util"
)

type fakeResolver struct {
	playlist model.PlaylistRef
	videos   map[string]model.StreamVariant
}

func (f *fakeResolver) ResolveVideo(ctx context.Context, url string) (model.VideoRef, []model.StreamVariant, error) {
	id := strings.TrimPrefix(url, "https://youtu.be/")
	v, ok := f.videos[id]
	if !ok {
		return model.VideoRef{}, nil, model.ErrNotFound
	}
	ref := model.VideoRef{ID: id, URL: url, Title: id, Author: "Channel", Duration: 187 * time.Second}
	return ref, []model.StreamVariant{v}, nil
}

func (f *fakeResolver) ResolvePlaylist(ctx context.Context, url string) (model.PlaylistRef, error) {
	return f.playlist, nil
}

type stringSource string

func (s stringSource) Open(context.Context) (io.ReadCloser, int64, error) {
	return io.NopCloser(strings.NewReader(string(s))), int64(len(s)), nil
}

func newFixture(t *testing.T, input string, withRoot bool) (*Shell, *bytes.Buffer, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	_ = fs.MkdirAll("/dl", 0o755)
	cfg := config.New(config.WithFs(fs), config.WithDir("/cfg"), config.WithEnvFile(""))
	if withRoot {
		if err := cfg.SetDownloadRoot("/dl"); err != nil {
			t.Fatal(err)
		}
	}

	res := &fakeResolver{
		playlist: model.PlaylistRef{ID: "PLshelltest01", Title: "Mix", Entries: []model.VideoRef{
			{ID: "a", URL: "https://youtu.be/a", Title: "a"},
			{ID: "b", URL: "https://youtu.be/b", Title: "b"},
		}},
		videos: map[string]model.StreamVariant{},
	}
	for _, id := range []string{"a", "b", "song"} {
		res.videos[id] = model.StreamVariant{
			Quality:         "720p",
			FPS:             30,
			MimeType:        "video/mp4",
			DefaultFilename: util.DefaultFilename(id, "video/mp4"),
			Source:          stringSource(id + "-bytes"),
		}
	}

	var out bytes.Buffer
	sh := New(strings.NewReader(input), &out, cfg,
		WithPipelineOptions(pipeline.WithResolver(res), pipeline.WithStore(storage.New(fs))))
	return sh, &out, fs
}

func TestExit(t *testing.T) {
	sh, out, _ := newFixture(t, "5\n", true)
	if err := sh.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(out.String(), "Closing") {
		t.Errorf("output:\n%s", out)
	}
}

func TestEOFEndsSession(t *testing.T) {
	sh, _, _ := newFixture(t, "1\n", true)
	if err := sh.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func TestFirstRunAsksForPath(t *testing.T) {
	sh, out, _ := newFixture(t, "/missing\n/dl\n5\n", false)
	if err := sh.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	s := out.String()
	if !strings.Contains(s, "Not a Valid Path!") || !strings.Contains(s, "Download path updated successfully") {
		t.Errorf("output:\n%s", s)
	}
}

func TestInvalidOption(t *testing.T) {
	sh, out, _ := newFixture(t, "9\n5\n", true)
	if err := sh.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(out.String(), "Not a Valid Option") {
		t.Errorf("output:\n%s", out)
	}
}

func TestDownloadVideo(t *testing.T) {
	sh, out, fs := newFixture(t, "1\nhttps://youtu.be/song\ny\n1\n5\n", true)
	if err := sh.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	data, err := afero.ReadFile(fs, "/dl/song.mp4")
	if err != nil || string(data) != "song-bytes" {
		t.Fatalf("file = %q, %v", data, err)
	}
	s := out.String()
	for _, want := range []string{
		"Channel: Channel | Publish Date: unknown | Length: 3:07",
		"1. 720p at 30 fps",
		"2. Exit",
		"Downloaded successfully and saved to: /dl/song.mp4",
		"Finished in 0:00",
	} {
		if !strings.Contains(s, want) {
			t.Errorf("output missing %q:\n%s", want, s)
		}
	}
}

func TestDownloadVideoConflictRename(t *testing.T) {
	sh, _, fs := newFixture(t, "1\nhttps://youtu.be/song\ny\n1\n2\nalt.mp4\n5\n", true)
	_ = afero.WriteFile(fs, "/dl/song.mp4", []byte("original"), 0o644)
	if err := sh.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	orig, _ := afero.ReadFile(fs, "/dl/song.mp4")
	alt, _ := afero.ReadFile(fs, "/dl/alt.mp4")
	if string(orig) != "original" || string(alt) != "song-bytes" {
		t.Errorf("orig = %q, alt = %q", orig, alt)
	}
}

func TestDownloadPlaylist(t *testing.T) {
	for _, menu := range []string{"2", "3"} {
		sh, out, fs := newFixture(t, menu+"\nhttps://www.youtube.com/playlist?list=PLshelltest01\nyes\n1\n5\n", true)
		if err := sh.Run(context.Background()); err != nil {
			t.Fatalf("Run: %v", err)
		}
		for _, name := range []string{"/dl/Mix/0. a.mp4", "/dl/Mix/1. b.mp4"} {
			if ok, _ := afero.Exists(fs, name); !ok {
				t.Errorf("menu %s: %s missing", menu, name)
			}
		}
		s := out.String()
		if !strings.Contains(s, "Number of Videos: 2") || !strings.Contains(s, "Downloaded 2 of 2, skipped 0, failed 0") {
			t.Errorf("menu %s output:\n%s", menu, s)
		}
	}
}

func TestPlaylistInvalidURLReturnsToMenu(t *testing.T) {
	sh, out, _ := newFixture(t, "2\nhttps://www.youtube.com/watch?v=abc\n5\n", true)
	if err := sh.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	s := out.String()
	if !strings.Contains(s, "Not a Valid URL!") || strings.Count(s, "Choose your options") != 2 {
		t.Errorf("output:\n%s", s)
	}
}

func TestStaleRootIsReprompted(t *testing.T) {
	sh, out, fs := newFixture(t, "1\n/dl2\nhttps://youtu.be/song\nn\n5\n", true)
	_ = fs.RemoveAll("/dl")
	_ = fs.MkdirAll("/dl2", 0o755)
	if err := sh.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(out.String(), "Download Path might have been modified or changed") {
		t.Errorf("output:\n%s", out)
	}
}

func TestDispatcherIsUsedForPlaylists(t *testing.T) {
	sh, _, _ := newFixture(t, "3\nhttps://www.youtube.com/playlist?list=PLshelltest01\ny\n1\n5\n", true)
	var titles []string
	sh.dispatch = func(ctx context.Context, title string, exec func(context.Context, progress.Reporter) (model.Report, error)) (model.Report, error) {
		titles = append(titles, title)
		return exec(ctx, progress.Nop{})
	}
	if err := sh.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(titles) != 1 || titles[0] != "Mix" {
		t.Errorf("titles = %v", titles)
	}
}

func TestWriteSummary(t *testing.T) {
	var buf bytes.Buffer
	WriteSummary(&buf, model.Report{
		Planned:   3,
		Completed: 1,
		Cancelled: 1,
		Failed: []model.UnitFailure{{
			Unit: model.DownloadUnit{Prefix: "1. ", Filename: "b.mp4"},
			Err:  errors.New("reset"),
		}},
		Elapsed: 65 * time.Second,
	})
	want := "Downloaded 1 of 3, skipped 0, failed 1, cancelled 1\n  1. b.mp4: reset\nFinished in 1:05\n"
	if buf.String() != want {
		t.Errorf("summary = %q, want %q", buf.String(), want)
	}
}
