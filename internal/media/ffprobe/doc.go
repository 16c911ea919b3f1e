// Package ffprobe wraps the ffprobe binary.
//
// Key types:
//   - Prober: runs ffprobe through a command.Executor
//   - Result: parsed JSON output containing streams and format metadata
//   - ProbeError / ParseError: failures of the duration query
//
// Primary entry points:
//   - Prober.Duration: container duration in seconds as plain decimal text
//   - Prober.Inspect: full stream and format summary
package ffprobe
