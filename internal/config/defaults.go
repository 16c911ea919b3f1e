package config

const (
	defaultConfigPath      = "~/.config/squeeze/config.toml"
	projectConfigName      = "squeeze.toml"
	defaultFFmpegBinary    = "ffmpeg"
	defaultFFprobeBinary   = "ffprobe"
	defaultVideoCodec      = "libx264"
	defaultAudioCodec      = "aac"
	defaultTargetMB        = 100
	defaultInPlaceTargetMB = 99
	defaultAudioKbps       = 128
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
	defaultLogMaxSizeMB    = 10
	defaultLogMaxBackups   = 3
	defaultLogMaxAgeDays   = 28
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Tools: Tools{
			FFmpeg:  defaultFFmpegBinary,
			FFprobe: defaultFFprobeBinary,
		},
		Encoding: Encoding{
			VideoCodec:      defaultVideoCodec,
			AudioCodec:      defaultAudioCodec,
			TargetMB:        defaultTargetMB,
			InPlaceTargetMB: defaultInPlaceTargetMB,
			AudioKbps:       defaultAudioKbps,
		},
		InPlace: InPlace{
			Lock: true,
		},
		Logging: Logging{
			Format:     defaultLogFormat,
			Level:      defaultLogLevel,
			MaxSizeMB:  defaultLogMaxSizeMB,
			MaxBackups: defaultLogMaxBackups,
			MaxAgeDays: defaultLogMaxAgeDays,
			Compress:   true,
		},
	}
}
