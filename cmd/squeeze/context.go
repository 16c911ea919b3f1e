package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"squeeze/internal/compress"
	"squeeze/internal/config"
	"squeeze/internal/encoding"
	"squeeze/internal/logging"
	"squeeze/internal/media/ffprobe"
)

type commandContext struct {
	configFlag    *string
	logLevelFlag  *string
	logFormatFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag, logLevelFlag, logFormatFlag *string) *commandContext {
	return &commandContext{
		configFlag:    configFlag,
		logLevelFlag:  logLevelFlag,
		logFormatFlag: logFormatFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, _, _, err := config.Load(c.configPath())
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) configPath() string {
	if c.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.configFlag)
}

// newLogger builds a logger writing to the command's stderr, with the
// --log-level and --log-format flags taking precedence over the config.
func (c *commandContext) newLogger(cmd *cobra.Command) (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	effective := *cfg
	if level := flagValue(c.logLevelFlag); level != "" {
		effective.Logging.Level = level
	}
	if format := flagValue(c.logFormatFlag); format != "" {
		effective.Logging.Format = format
	}
	logger, err := logging.NewFromConfig(&effective, cmd.ErrOrStderr())
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return logger, nil
}

// toolchain holds the collaborators one command run needs.
type toolchain struct {
	cfg     *config.Config
	logger  *slog.Logger
	prober  *ffprobe.Prober
	encoder *encoding.Encoder
	service *compress.Service
}

func (c *commandContext) newToolchain(cmd *cobra.Command) (*toolchain, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.newLogger(cmd)
	if err != nil {
		return nil, err
	}
	prober := ffprobe.New(cfg.FFprobeBinary())
	encoder := encoding.New(cfg.FFmpegBinary(),
		encoding.WithCodecs(cfg.Encoding.VideoCodec, cfg.Encoding.AudioCodec),
		encoding.WithOutput(cmd.OutOrStdout(), cmd.ErrOrStderr()),
	)
	service := compress.New(prober, encoder, logger, compress.WithLock(cfg.InPlace.Lock))
	return &toolchain{
		cfg:     cfg,
		logger:  logger,
		prober:  prober,
		encoder: encoder,
		service: service,
	}, nil
}

// sizingFlags holds --target and --audio; unset flags fall back to config.
type sizingFlags struct {
	targetMB  int
	audioKbps int
}

func (s *sizingFlags) register(cmd *cobra.Command, targetDefault string) {
	cmd.Flags().IntVarP(&s.targetMB, "target", "t", 0, "Target output size in MB (default from config, "+targetDefault+")")
	cmd.Flags().IntVarP(&s.audioKbps, "audio", "a", 0, "Audio bitrate in kbps (default from config, 128)")
}

func (s *sizingFlags) resolve(cmd *cobra.Command, cfg *config.Config, inPlace bool) (int, int, error) {
	target := cfg.TargetMB(inPlace)
	if cmd.Flags().Changed("target") {
		target = s.targetMB
	}
	audio := cfg.Encoding.AudioKbps
	if cmd.Flags().Changed("audio") {
		audio = s.audioKbps
	}
	if target <= 0 {
		return 0, 0, fmt.Errorf("--target must be a positive number of megabytes (got %d)", target)
	}
	if audio <= 0 {
		return 0, 0, fmt.Errorf("--audio must be a positive bitrate in kbps (got %d)", audio)
	}
	return target, audio, nil
}

func flagValue(flag *string) string {
	if flag == nil {
		return ""
	}
	return strings.TrimSpace(*flag)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
