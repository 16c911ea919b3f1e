package compress

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"squeeze/internal/bitrate"
	"squeeze/internal/encoding"
	"squeeze/internal/fileutil"
	"squeeze/internal/logging"
	"squeeze/internal/preflight"
)

var (
	// ErrBudgetExhausted means the audio track alone consumes the size
	// budget, leaving a video bitrate of zero.
	ErrBudgetExhausted = errors.New("audio bitrate leaves no budget for video")
	// ErrLocked means another process holds the in-place lock for the input.
	ErrLocked = errors.New("input is locked by another squeeze process")
)

// Prober reports the duration of a media file in seconds.
type Prober interface {
	Duration(ctx context.Context, path string) (float64, error)
}

// Encoder runs one encode job to completion.
type Encoder interface {
	Encode(ctx context.Context, job encoding.Job) error
}

// Result summarizes a finished compression.
type Result struct {
	RunID       string
	Mode        Mode
	Input       string
	Output      string
	Budget      bitrate.Budget
	InputBytes  int64
	OutputBytes int64
	Elapsed     time.Duration
}

// Option configures a Service.
type Option func(*Service)

// WithLock toggles the advisory lock taken in ModeInPlace.
func WithLock(enabled bool) Option {
	return func(s *Service) {
		s.lock = enabled
	}
}

// WithPreflight toggles the output directory checks logged before encoding.
func WithPreflight(enabled bool) Option {
	return func(s *Service) {
		s.preflight = enabled
	}
}

// Service coordinates probing, budgeting and encoding.
type Service struct {
	prober    Prober
	encoder   Encoder
	logger    *slog.Logger
	lock      bool
	preflight bool
	now       func() time.Time
}

// New constructs a Service. A nil logger discards output.
func New(prober Prober, encoder Encoder, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		prober:    prober,
		encoder:   encoder,
		logger:    logging.NewComponentLogger(logger, "compress"),
		lock:      true,
		preflight: true,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Plan probes the input and computes the bitrate budget without encoding.
func (s *Service) Plan(ctx context.Context, req Request) (bitrate.Budget, error) {
	if err := req.Validate(); err != nil {
		return bitrate.Budget{}, err
	}
	duration, err := s.prober.Duration(ctx, req.Input)
	if err != nil {
		return bitrate.Budget{}, fmt.Errorf("probe duration: %w", err)
	}
	budget, err := bitrate.Plan(duration, bitrate.TargetBytes(req.TargetMB), req.AudioKbps)
	if err != nil {
		return bitrate.Budget{}, fmt.Errorf("compute bitrate: %w", err)
	}
	return budget, nil
}

// Job returns the encode job a request runs with the given budget. In
// ModeInPlace the output is the input path; Run substitutes its temp file.
func Job(req Request, budget bitrate.Budget) encoding.Job {
	return encoding.Job{
		Input:     req.Input,
		Output:    req.Destination(),
		VideoKbps: budget.VideoKbps,
		AudioKbps: req.AudioKbps,
	}
}

// Run performs the compression described by req.
func (s *Service) Run(ctx context.Context, req Request) (Result, error) {
	started := s.now()
	runID := uuid.NewString()
	logger := s.logger.With(
		slog.String(logging.FieldRunID, runID),
		slog.String("mode", req.Mode.String()),
		slog.String("input", req.Input),
	)

	budget, err := s.Plan(ctx, req)
	if err != nil {
		logger.Error("compression plan failed", logging.Error(err))
		return Result{}, err
	}
	logger.Info("bitrate budget computed",
		slog.Float64("duration_seconds", budget.DurationSeconds),
		slog.Int64("target_bytes", budget.TargetBytes),
		slog.Int("audio_kbps", budget.AudioKbps),
		slog.Int("video_kbps", budget.VideoKbps),
	)
	if budget.VideoKbps <= 0 {
		err := fmt.Errorf("%w (target %d MB, audio %d kbps, duration %.2fs)", ErrBudgetExhausted, req.TargetMB, req.AudioKbps, budget.DurationSeconds)
		logger.Error("compression aborted", logging.Error(err))
		return Result{}, err
	}

	inputBytes := fileSize(req.Input)
	if s.preflight {
		s.logPreflight(logger, filepath.Dir(req.Destination()), budget.TargetBytes)
	}

	job := Job(req, budget)
	switch req.Mode {
	case ModeInPlace:
		err = s.replace(ctx, logger, req, job)
	default:
		err = s.encoder.Encode(ctx, job)
	}
	if err != nil {
		logger.Error("compression failed", logging.Error(err))
		return Result{}, err
	}

	result := Result{
		RunID:       runID,
		Mode:        req.Mode,
		Input:       req.Input,
		Output:      req.Destination(),
		Budget:      budget,
		InputBytes:  inputBytes,
		OutputBytes: fileSize(req.Destination()),
		Elapsed:     s.now().Sub(started),
	}
	logger.Info("compression complete",
		slog.String("output", result.Output),
		slog.Int64("input_bytes", result.InputBytes),
		slog.Int64("output_bytes", result.OutputBytes),
		slog.Duration("elapsed", result.Elapsed),
	)
	return result, nil
}

func (s *Service) replace(ctx context.Context, logger *slog.Logger, req Request, job encoding.Job) (err error) {
	if s.lock {
		lock, lockErr := acquireLock(req.Input)
		if lockErr != nil {
			return lockErr
		}
		defer func() {
			if releaseErr := lock.release(); releaseErr != nil {
				logger.Warn("failed to release input lock", logging.Error(releaseErr))
			}
		}()
	}

	repl, err := fileutil.NewReplacement(req.Input)
	if err != nil {
		return fmt.Errorf("stage replacement: %w", err)
	}
	defer func() {
		if err != nil && req.KeepTemp {
			repl.Keep()
			logger.Warn("temp file kept after failure", slog.String("temp", repl.Path()))
			return
		}
		if abandonErr := repl.Abandon(); abandonErr != nil {
			logger.Warn("failed to remove temp file", logging.Error(abandonErr))
		}
	}()

	job.Output = repl.Path()
	logger.Debug("encoding to temp file", slog.String("temp", repl.Path()))
	if err = s.encoder.Encode(ctx, job); err != nil {
		return err
	}
	if err = repl.Commit(); err != nil {
		return err
	}
	return nil
}

func (s *Service) logPreflight(logger *slog.Logger, dir string, needBytes int64) {
	for _, check := range preflight.ForRun(dir, needBytes) {
		if check.Passed {
			logger.Debug("preflight check passed", slog.String("check", check.Name), slog.String("detail", check.Detail))
			continue
		}
		logger.Warn("preflight check failed", slog.String("check", check.Name), slog.String("detail", check.Detail))
	}
}

func fileSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}
