package media

import (
	"strings"
	"testing"
	"time"

	"ytd/internal/model"
)

func TestItemPrefix(t *testing.T) {
	for i, want := range []string{"0. ", "1. ", "2. "} {
		if got := ItemPrefix(i); got != want {
			t.Errorf("ItemPrefix(%d) = %q, want %q", i, got, want)
		}
	}
	if ItemPrefix(12) != "12. " {
		t.Errorf("ItemPrefix(12) = %q", ItemPrefix(12))
	}
}

func TestSummary(t *testing.T) {
	v := model.VideoRef{
		ID:          "dQw4w9WgXcQ",
		Title:       "Never Gonna Give You Up",
		Author:      "Rick Astley",
		PublishDate: time.Date(2009, 10, 25, 0, 0, 0, 0, time.UTC),
		Duration:    3*time.Minute + 33*time.Second,
	}
	got := Summary(v)
	want := "Never Gonna Give You Up\nChannel: Rick Astley | Publish Date: 2009-10-25 | Length: 3:33"
	if got != want {
		t.Errorf("Summary() =\n%s\nwant\n%s", got, want)
	}
}

func TestSummary_UnknownFields(t *testing.T) {
	got := Summary(model.VideoRef{ID: "abc"})
	if !strings.HasPrefix(got, "abc\n") {
		t.Errorf("expected ID as title fallback, got %q", got)
	}
	if !strings.Contains(got, "Channel: unknown") || !strings.Contains(got, "Publish Date: unknown") {
		t.Errorf("expected unknown placeholders, got %q", got)
	}
}
