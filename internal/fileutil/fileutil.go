// Package fileutil replaces files atomically through a temporary sibling.
package fileutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Replacement stages new contents for target in a temp file created in the
// same directory, so the final rename never crosses filesystems. Callers
// defer Abandon immediately after NewReplacement; it is a no-op once Commit
// or Keep has run.
type Replacement struct {
	target string
	temp   string
	mode   fs.FileMode
	done   bool
}

// NewReplacement creates an empty temp file next to target carrying the same
// extension. Target must be an existing regular file.
func NewReplacement(target string) (*Replacement, error) {
	info, err := os.Stat(target)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", target, err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%s is not a regular file", target)
	}

	dir := filepath.Dir(target)
	base := filepath.Base(target)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	file, err := os.CreateTemp(dir, "."+stem+".squeeze-*"+ext)
	if err != nil {
		return nil, fmt.Errorf("create temp file in %s: %w", dir, err)
	}
	if err := file.Close(); err != nil {
		_ = os.Remove(file.Name())
		return nil, fmt.Errorf("close temp file: %w", err)
	}

	return &Replacement{
		target: target,
		temp:   file.Name(),
		mode:   info.Mode().Perm(),
	}, nil
}

// Path returns the temp file the new contents should be written to.
func (r *Replacement) Path() string {
	return r.temp
}

// Target returns the file that Commit replaces.
func (r *Replacement) Target() string {
	return r.target
}

// Commit gives the temp file the target's permissions and renames it over
// the target.
func (r *Replacement) Commit() error {
	if r.done {
		return errors.New("replacement already finished")
	}
	if err := os.Chmod(r.temp, r.mode); err != nil {
		return fmt.Errorf("chmod %s: %w", r.temp, err)
	}
	if err := os.Rename(r.temp, r.target); err != nil {
		return fmt.Errorf("replace %s: %w", r.target, err)
	}
	r.done = true
	return nil
}

// Keep leaves the temp file on disk and disarms Abandon.
func (r *Replacement) Keep() {
	r.done = true
}

// Abandon removes the temp file unless the replacement was committed or kept.
func (r *Replacement) Abandon() error {
	if r.done {
		return nil
	}
	r.done = true
	if err := os.Remove(r.temp); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove temp file %s: %w", r.temp, err)
	}
	return nil
}
