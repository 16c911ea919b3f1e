package compress

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// LockPath returns the advisory lock file guarding an in-place replacement
// of input.
func LockPath(input string) string {
	dir := filepath.Dir(input)
	return filepath.Join(dir, "."+filepath.Base(input)+".squeeze.lock")
}

type inputLock struct {
	path string
	lock *flock.Flock
}

func acquireLock(input string) (*inputLock, error) {
	path := LockPath(input)
	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLocked, path)
	}
	return &inputLock{path: path, lock: lock}, nil
}

func (l *inputLock) release() error {
	if l == nil {
		return nil
	}
	unlockErr := l.lock.Unlock()
	removeErr := os.Remove(l.path)
	if errors.Is(removeErr, fs.ErrNotExist) {
		removeErr = nil
	}
	return errors.Join(unlockErr, removeErr)
}
