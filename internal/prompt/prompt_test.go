package prompt

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestLine(t *testing.T) {
	var out bytes.Buffer
	p := New(strings.NewReader("first\r\nlast"), &out)

	got, err := p.Line("Enter: ")
	if err != nil || got != "first" {
		t.Fatalf("Line = %q, %v", got, err)
	}
	got, err = p.Line("")
	if err != nil || got != "last" {
		t.Fatalf("unterminated line = %q, %v", got, err)
	}
	if _, err := p.Line(""); !errors.Is(err, io.EOF) {
		t.Errorf("err = %v, want EOF", err)
	}
	if out.String() != "Enter: " {
		t.Errorf("out = %q", out.String())
	}
}

func TestInt(t *testing.T) {
	p := New(strings.NewReader(" 2 \nabc\n"), io.Discard)
	if n, err := p.Int(""); err != nil || n != 2 {
		t.Errorf("Int = %d, %v", n, err)
	}
	if _, err := p.Int(""); !errors.Is(err, ErrNotANumber) {
		t.Errorf("err = %v", err)
	}
}

func TestYesNo(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{in: "y\n", want: true},
		{in: "YES\n", want: true},
		{in: " yes \n", want: true},
		{in: "n\n", want: false},
		{in: "yep\n", want: false},
		{in: "\n", want: false},
	}
	for _, tt := range tests {
		got, err := New(strings.NewReader(tt.in), io.Discard).YesNo("")
		if err != nil || got != tt.want {
			t.Errorf("YesNo(%q) = %v, %v", tt.in, got, err)
		}
	}
}
