package model

// QualityTier is an ordered preference list of quality labels, best first.
type QualityTier []string

// DefaultTier mirrors the two choices offered by the playlist menu.
var DefaultTier = QualityTier{"720p", "360p"}

// Label returns the label at index i, or "" if out of range.
func (t QualityTier) Label(i int) string {
	if i < 0 || i >= len(t) {
		return ""
	}
	return t[i]
}

// Next returns the next-lower index after i and whether one exists.
func (t QualityTier) Next(i int) (int, bool) {
	if i+1 < len(t) {
		return i + 1, true
	}
	return 0, false
}

// IndexOf returns the index of label, or -1.
func (t QualityTier) IndexOf(label string) int {
	for i, l := range t {
		if l == label {
			return i
		}
	}
	return -1
}
