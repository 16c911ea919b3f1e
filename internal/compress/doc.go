// Package compress drives a single size-targeted compression: probe the
// input duration, derive a video bitrate from the size budget, and run the
// encoder.
//
// Two modes exist. ModeOutput writes to a caller-chosen path. ModeInPlace
// encodes into a temp file beside the input and renames it over the input
// only after the encoder succeeds, holding an advisory lock for the duration
// so two squeeze processes cannot replace the same file at once. On any
// failure in ModeInPlace the input is left byte-for-byte untouched.
package compress
