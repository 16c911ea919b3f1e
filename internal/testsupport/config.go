package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"squeeze/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a default config whose log file lives in a per-test
// temp directory. Options are applied in order.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Logging.File = filepath.Join(base, "logs", "squeeze.log")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithStubbedBinaries writes stub ffprobe and ffmpeg scripts, points the
// config's tool paths at them and prepends their directory to PATH.
// durationOutput is what the ffprobe stub prints.
func WithStubbedBinaries(durationOutput string) ConfigOption {
	return func(b *configBuilder) {
		binDir := StubMediaTools(b.t, filepath.Join(b.baseDir, "bin"), durationOutput)
		b.cfg.Tools.FFprobe = filepath.Join(binDir, "ffprobe")
		b.cfg.Tools.FFmpeg = filepath.Join(binDir, "ffmpeg")
		b.t.Setenv("PATH", binDir+string(os.PathListSeparator)+os.Getenv("PATH"))
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(filepath.Dir(cfg.Logging.File))
}
