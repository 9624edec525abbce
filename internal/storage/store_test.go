package storage

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
)

func TestExists(t *testing.T) {
	fs := afero.NewMemMapFs()
	dir := "/downloads/Test Mix"
	if err := afero.WriteFile(fs, filepath.Join(dir, "0. a.mp4"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	s := New(fs)

	if !s.Exists(dir, "0. a.mp4") {
		t.Error("expected existing file")
	}
	if s.Exists(dir, "1. b.mp4") {
		t.Error("unexpected file")
	}
	if s.Exists("/nowhere", "0. a.mp4") {
		t.Error("missing dir should report false")
	}
}

func TestEnsureDir(t *testing.T) {
	s := New(afero.NewMemMapFs())
	if err := s.EnsureDir(""); err == nil {
		t.Error("expected error for empty path")
	}
	if err := s.EnsureDir("/a/b/c"); err != nil {
		t.Fatalf("EnsureDir: %v", err)
	}
	if !s.IsDir("/a/b/c") {
		t.Error("directory not created")
	}
	// second call is a no-op
	if err := s.EnsureDir("/a/b/c"); err != nil {
		t.Fatalf("EnsureDir again: %v", err)
	}
}

func TestRemove(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := New(fs)
	if err := s.Remove("/missing.mp4"); err != nil {
		t.Errorf("missing file should not error: %v", err)
	}
	_ = afero.WriteFile(fs, "/x.mp4", []byte("x"), 0o644)
	if err := s.Remove("/x.mp4"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if s.Exists("/", "x.mp4") {
		t.Error("file still present")
	}
}
