package fileutil

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func writeTarget(t *testing.T, content string, mode os.FileMode) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "holiday clip.mp4")
	if err := os.WriteFile(path, []byte(content), mode); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReplacementCreatesSiblingWithExtension(t *testing.T) {
	target := writeTarget(t, "original", 0o644)

	r, err := NewReplacement(target)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Abandon()

	if filepath.Dir(r.Path()) != filepath.Dir(target) {
		t.Fatalf("temp file %s not beside %s", r.Path(), target)
	}
	if filepath.Ext(r.Path()) != ".mp4" {
		t.Fatalf("expected .mp4 extension, got %s", r.Path())
	}
	if !strings.HasPrefix(filepath.Base(r.Path()), ".holiday clip.squeeze-") {
		t.Fatalf("unexpected temp name: %s", filepath.Base(r.Path()))
	}
	if _, err := os.Stat(r.Path()); err != nil {
		t.Fatalf("expected temp file to exist: %v", err)
	}
}

func TestReplacementCommit(t *testing.T) {
	target := writeTarget(t, "original", 0o640)

	r, err := NewReplacement(target)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Abandon()

	if err := os.WriteFile(r.Path(), []byte("encoded"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := r.Commit(); err != nil {
		t.Fatal(err)
	}

	got, err := os.ReadFile(target)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "encoded" {
		t.Fatalf("content mismatch: got %q", got)
	}
	if _, err := os.Stat(r.Path()); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected temp file gone after commit, got %v", err)
	}
	if runtime.GOOS != "windows" {
		info, err := os.Stat(target)
		if err != nil {
			t.Fatal(err)
		}
		if info.Mode().Perm() != 0o640 {
			t.Fatalf("expected original permissions 0640, got %o", info.Mode().Perm())
		}
	}
	if err := r.Abandon(); err != nil {
		t.Fatalf("Abandon after Commit should be a no-op: %v", err)
	}
	if err := r.Commit(); err == nil {
		t.Fatal("expected second Commit to fail")
	}
}

func TestReplacementAbandonRemovesTemp(t *testing.T) {
	target := writeTarget(t, "original", 0o644)

	r, err := NewReplacement(target)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(r.Path(), []byte("partial"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := r.Abandon(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(r.Path()); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected temp file removed, got %v", err)
	}
	got, err := os.ReadFile(target)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "original" {
		t.Fatalf("target modified: %q", got)
	}
}

func TestReplacementKeepPreservesTemp(t *testing.T) {
	target := writeTarget(t, "original", 0o644)

	r, err := NewReplacement(target)
	if err != nil {
		t.Fatal(err)
	}
	r.Keep()
	if err := r.Abandon(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(r.Path()); err != nil {
		t.Fatalf("expected temp file kept: %v", err)
	}
}

func TestNewReplacementRejectsMissingAndDirectories(t *testing.T) {
	dir := t.TempDir()
	if _, err := NewReplacement(filepath.Join(dir, "nope.mp4")); err == nil {
		t.Fatal("expected error for missing target")
	}
	if _, err := NewReplacement(dir); err == nil {
		t.Fatal("expected error for directory target")
	}
}
