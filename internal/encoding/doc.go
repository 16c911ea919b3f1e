// Package encoding drives ffmpeg to re-encode a source at explicit video and
// audio bitrates.
//
// The argument list is assembled with ffmpeg-go and executed through a
// command.Executor so the child's own output streams straight to the caller's
// terminal. A non-zero exit surfaces as an *EncodeError; nothing is retried.
package encoding
