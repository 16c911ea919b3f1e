package command

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// Spec describes a single external process invocation.
type Spec struct {
	Binary string
	Args   []string
	// Stdout and Stderr, when set, receive the child's output directly and
	// the corresponding Result field stays empty.
	Stdout io.Writer
	Stderr io.Writer
}

// String renders the invocation for logs.
func (s Spec) String() string {
	parts := make([]string, 0, len(s.Args)+1)
	parts = append(parts, s.Binary)
	for _, arg := range s.Args {
		if arg == "" || strings.ContainsAny(arg, " \t\"'") {
			parts = append(parts, fmt.Sprintf("%q", arg))
			continue
		}
		parts = append(parts, arg)
	}
	return strings.Join(parts, " ")
}

// Result holds captured output and the exit status of a finished process.
type Result struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, spec Spec) (Result, error)
}

// ExecutorFunc adapts a function to the Executor interface.
type ExecutorFunc func(ctx context.Context, spec Spec) (Result, error)

// Run calls f.
func (f ExecutorFunc) Run(ctx context.Context, spec Spec) (Result, error) {
	return f(ctx, spec)
}

// OS runs commands with os/exec.
type OS struct{}

// Run starts the process, waits for it and reports its exit status. A
// non-zero exit returns the *exec.ExitError together with the populated
// Result.
func (OS) Run(ctx context.Context, spec Spec) (Result, error) {
	binary := strings.TrimSpace(spec.Binary)
	if binary == "" {
		return Result{ExitCode: -1}, errors.New("command: empty binary")
	}

	cmd := exec.CommandContext(ctx, binary, spec.Args...) //nolint:gosec
	var stdout, stderr bytes.Buffer
	if spec.Stdout != nil {
		cmd.Stdout = spec.Stdout
	} else {
		cmd.Stdout = &stdout
	}
	if spec.Stderr != nil {
		cmd.Stderr = spec.Stderr
	} else {
		cmd.Stderr = &stderr
	}

	err := cmd.Run()
	result := Result{
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		ExitCode: exitCode(cmd, err),
	}
	if err != nil {
		return result, err
	}
	return result, nil
}

func exitCode(cmd *exec.Cmd, err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	if err != nil {
		return -1
	}
	if cmd.ProcessState != nil {
		return cmd.ProcessState.ExitCode()
	}
	return 0
}

var _ Executor = OS{}
