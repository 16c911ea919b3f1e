package compress

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Mode selects where the encoded file ends up.
type Mode int

const (
	// ModeOutput writes the encode to Request.Output.
	ModeOutput Mode = iota
	// ModeInPlace replaces Request.Input with the encode.
	ModeInPlace
)

func (m Mode) String() string {
	switch m {
	case ModeOutput:
		return "output"
	case ModeInPlace:
		return "in-place"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Request describes one compression.
type Request struct {
	Input string
	// Output is ignored in ModeInPlace.
	Output    string
	Mode      Mode
	TargetMB  int
	AudioKbps int
	// KeepTemp preserves the in-place temp file when the encode fails.
	KeepTemp bool
}

// Validate reports the first problem with the request.
func (r Request) Validate() error {
	if strings.TrimSpace(r.Input) == "" {
		return errors.New("input path required")
	}
	if r.TargetMB <= 0 {
		return fmt.Errorf("target size must be positive (got %d MB)", r.TargetMB)
	}
	if r.AudioKbps <= 0 {
		return fmt.Errorf("audio bitrate must be positive (got %d kbps)", r.AudioKbps)
	}
	switch r.Mode {
	case ModeOutput:
		if strings.TrimSpace(r.Output) == "" {
			return errors.New("output path required")
		}
		if samePath(r.Input, r.Output) {
			return errors.New("output path equals input path; use in-place mode to replace the input")
		}
	case ModeInPlace:
	default:
		return fmt.Errorf("unknown mode %s", r.Mode)
	}
	return nil
}

// Destination returns the path the finished encode will occupy.
func (r Request) Destination() string {
	if r.Mode == ModeInPlace {
		return r.Input
	}
	return r.Output
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}
