// Package main hosts the squeeze CLI entrypoint and command graph.
//
// Each subcommand resolves configuration once, builds a logger that writes
// to stderr, and hands the work to internal/compress. Output meant for the
// user (summaries, plan tables, doctor reports) goes to stdout.
package main
