package media

import (
	"strconv"
	"strings"

	"ytd/internal/model"
	"ytd/internal/util/format"
)

// ItemPrefix returns the filename prefix for the playlist entry at index i.
// Prefixes keep the playlist order when the directory is sorted by name.
func ItemPrefix(i int) string {
	return strconv.Itoa(i) + ". "
}

// Summary renders the metadata block shown before a video is downloaded:
//
//	Title
//	Channel: Author | Publish Date: 2006-01-02 | Length: m:ss
func Summary(v model.VideoRef) string {
	var b strings.Builder
	title := strings.TrimSpace(v.Title)
	if title == "" {
		title = v.ID
	}
	b.WriteString(title)
	b.WriteString("\n")
	b.WriteString("Channel: ")
	b.WriteString(valueOr(strings.TrimSpace(v.Author), "unknown"))
	b.WriteString(" | Publish Date: ")
	if v.PublishDate.IsZero() {
		b.WriteString("unknown")
	} else {
		b.WriteString(v.PublishDate.Format("2006-01-02"))
	}
	b.WriteString(" | Length: ")
	b.WriteString(format.MinutesSeconds(v.Duration))
	return b.String()
}

func valueOr(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
