package encoding

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	"squeeze/internal/command"
)

const (
	// DefaultBinary is used when no ffmpeg binary is configured.
	DefaultBinary = "ffmpeg"
	// DefaultVideoCodec is the video encoder selected for every job.
	DefaultVideoCodec = "libx264"
	// DefaultAudioCodec is the audio encoder selected for every job.
	DefaultAudioCodec = "aac"
)

// Job describes one encode.
type Job struct {
	Input     string
	Output    string
	VideoKbps int
	AudioKbps int
}

func (j Job) validate() error {
	if strings.TrimSpace(j.Input) == "" {
		return errors.New("input path required")
	}
	if strings.TrimSpace(j.Output) == "" {
		return errors.New("output path required")
	}
	if j.VideoKbps < 0 || j.AudioKbps < 0 {
		return fmt.Errorf("bitrates must not be negative (video %dk, audio %dk)", j.VideoKbps, j.AudioKbps)
	}
	return nil
}

// EncodeError reports that ffmpeg failed to start or exited non-zero.
type EncodeError struct {
	Output   string
	ExitCode int
	Err      error
}

func (e *EncodeError) Error() string {
	if e.ExitCode > 0 {
		return fmt.Sprintf("ffmpeg encode to %s failed with exit status %d", e.Output, e.ExitCode)
	}
	return fmt.Sprintf("ffmpeg encode to %s failed: %v", e.Output, e.Err)
}

func (e *EncodeError) Unwrap() error { return e.Err }

// Option configures an Encoder.
type Option func(*Encoder)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec command.Executor) Option {
	return func(e *Encoder) {
		if exec != nil {
			e.exec = exec
		}
	}
}

// WithCodecs overrides the video and audio codec selectors. Blank values keep
// the defaults.
func WithCodecs(video, audio string) Option {
	return func(e *Encoder) {
		if v := strings.TrimSpace(video); v != "" {
			e.videoCodec = v
		}
		if a := strings.TrimSpace(audio); a != "" {
			e.audioCodec = a
		}
	}
}

// WithOutput routes ffmpeg's stdout and stderr to the given writers.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(e *Encoder) {
		e.stdout = stdout
		e.stderr = stderr
	}
}

// Encoder wraps the ffmpeg command-line encoder.
type Encoder struct {
	binary     string
	videoCodec string
	audioCodec string
	exec       command.Executor
	stdout     io.Writer
	stderr     io.Writer
}

// New constructs an Encoder. An empty binary falls back to DefaultBinary.
func New(binary string, opts ...Option) *Encoder {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = DefaultBinary
	}
	e := &Encoder{
		binary:     binary,
		videoCodec: DefaultVideoCodec,
		audioCodec: DefaultAudioCodec,
		exec:       command.OS{},
		stdout:     io.Discard,
		stderr:     io.Discard,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Binary returns the ffmpeg executable the encoder invokes.
func (e *Encoder) Binary() string {
	return e.binary
}

// Codecs returns the configured video and audio codec selectors.
func (e *Encoder) Codecs() (video, audio string) {
	return e.videoCodec, e.audioCodec
}

// Args returns the ffmpeg argument list for job. Existing output is
// overwritten.
func (e *Encoder) Args(job Job) []string {
	return ffmpeg.Input(job.Input).
		Output(job.Output, ffmpeg.KwArgs{
			"c:v": e.videoCodec,
			"b:v": kbps(job.VideoKbps),
			"c:a": e.audioCodec,
			"b:a": kbps(job.AudioKbps),
		}).
		OverWriteOutput().
		GetArgs()
}

// Spec returns the full invocation for job.
func (e *Encoder) Spec(job Job) command.Spec {
	return command.Spec{
		Binary: e.binary,
		Args:   e.Args(job),
		Stdout: e.stdout,
		Stderr: e.stderr,
	}
}

// Encode runs ffmpeg for job and blocks until it exits.
func (e *Encoder) Encode(ctx context.Context, job Job) error {
	if err := job.validate(); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	result, err := e.exec.Run(ctx, e.Spec(job))
	if err != nil {
		return &EncodeError{Output: job.Output, ExitCode: result.ExitCode, Err: err}
	}
	return nil
}

func kbps(value int) string {
	return fmt.Sprintf("%dk", value)
}
