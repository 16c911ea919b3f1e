// Package bitrate splits a target file size between a fixed-rate audio track
// and whatever video rate the remaining bytes allow.
package bitrate

import (
	"errors"
	"fmt"
	"math"
)

// BytesPerMegabyte converts user-facing megabytes into bytes.
const BytesPerMegabyte = 1024 * 1024

var (
	// ErrInvalidDuration guards the division by duration.
	ErrInvalidDuration = errors.New("duration must be a positive number of seconds")
	// ErrInvalidBudget rejects negative sizes or bitrates.
	ErrInvalidBudget = errors.New("target size and audio bitrate must not be negative")
)

// Budget holds the intermediate quantities of one calculation.
type Budget struct {
	DurationSeconds float64
	TargetBytes     int64
	AudioKbps       int
	AudioBytes      float64
	VideoBytes      float64
	VideoKbps       int
}

// AudioExceedsTarget reports whether the audio track alone uses up the budget.
func (b Budget) AudioExceedsTarget() bool {
	return b.AudioBytes >= float64(b.TargetBytes)
}

// TargetBytes converts a megabyte target into bytes.
func TargetBytes(megabytes int) int64 {
	return int64(megabytes) * BytesPerMegabyte
}

// Plan computes the video bitrate for the given duration, total byte target
// and audio bitrate. Audio is sized at audioKbps*1024 bits per second; the
// video track receives the remaining bytes, never less than zero, and the
// resulting kbps is truncated once at the end.
func Plan(durationSeconds float64, targetBytes int64, audioKbps int) (Budget, error) {
	if math.IsNaN(durationSeconds) || math.IsInf(durationSeconds, 0) || durationSeconds <= 0 {
		return Budget{}, fmt.Errorf("%w: got %v", ErrInvalidDuration, durationSeconds)
	}
	if targetBytes < 0 || audioKbps < 0 {
		return Budget{}, ErrInvalidBudget
	}

	audioBytes := float64(audioKbps) * 1024 * durationSeconds / 8
	videoBytes := math.Max(0, float64(targetBytes)-audioBytes)
	videoKbps := int(math.Floor(videoBytes * 8 / durationSeconds / 1000))

	return Budget{
		DurationSeconds: durationSeconds,
		TargetBytes:     targetBytes,
		AudioKbps:       audioKbps,
		AudioBytes:      audioBytes,
		VideoBytes:      videoBytes,
		VideoKbps:       videoKbps,
	}, nil
}

// VideoKbps is the scalar form of Plan.
func VideoKbps(durationSeconds float64, targetBytes int64, audioKbps int) (int, error) {
	budget, err := Plan(durationSeconds, targetBytes, audioKbps)
	if err != nil {
		return 0, err
	}
	return budget.VideoKbps, nil
}
