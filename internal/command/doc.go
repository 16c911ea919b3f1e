// Package command runs external tools behind a narrow Executor interface.
//
// Callers describe an invocation with a Spec. Output is captured into the
// returned Result unless the Spec supplies writers, in which case the child's
// stdout/stderr stream straight through. Tests substitute their own Executor
// so probe and encoder logic never needs the real ffprobe or ffmpeg.
package command
