package encoding_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"squeeze/internal/command"
	"squeeze/internal/encoding"
)

type stubExecutor struct {
	result command.Result
	err    error
	specs  []command.Spec
}

func (s *stubExecutor) Run(_ context.Context, spec command.Spec) (command.Result, error) {
	s.specs = append(s.specs, spec)
	return s.result, s.err
}

func flagValue(t *testing.T, args []string, flag string) string {
	t.Helper()
	for i, arg := range args {
		if arg == flag && i+1 < len(args) {
			return args[i+1]
		}
	}
	t.Fatalf("flag %s missing from %v", flag, args)
	return ""
}

func TestArgsCarryCodecsAndBitrates(t *testing.T) {
	enc := encoding.New("")
	args := enc.Args(encoding.Job{Input: "in.mp4", Output: "out.mp4", VideoKbps: 8257, AudioKbps: 128})

	if got := flagValue(t, args, "-i"); got != "in.mp4" {
		t.Fatalf("unexpected input: %q", got)
	}
	checks := map[string]string{
		"-c:v": "libx264",
		"-b:v": "8257k",
		"-c:a": "aac",
		"-b:a": "128k",
	}
	for flag, want := range checks {
		if got := flagValue(t, args, flag); got != want {
			t.Fatalf("%s = %q, want %q", flag, got, want)
		}
	}

	outIdx, yIdx := -1, -1
	for i, arg := range args {
		switch arg {
		case "out.mp4":
			outIdx = i
		case "-y":
			yIdx = i
		}
	}
	if outIdx < 0 || yIdx < 0 {
		t.Fatalf("expected output path and -y in %v", args)
	}
	if outIdx < len(args)-2 {
		t.Fatalf("expected output path near the end of %v", args)
	}
}

func TestWithCodecsOverridesSelectors(t *testing.T) {
	enc := encoding.New("ffmpeg", encoding.WithCodecs("libx265", " "))
	video, audio := enc.Codecs()
	if video != "libx265" || audio != "aac" {
		t.Fatalf("unexpected codecs: %s %s", video, audio)
	}
	args := enc.Args(encoding.Job{Input: "a.mkv", Output: "b.mkv", VideoKbps: 1, AudioKbps: 2})
	if got := flagValue(t, args, "-c:v"); got != "libx265" {
		t.Fatalf("unexpected video codec flag: %q", got)
	}
}

func TestEncodePassesOutputThrough(t *testing.T) {
	stub := &stubExecutor{}
	var stdout, stderr bytes.Buffer
	enc := encoding.New("/usr/bin/ffmpeg", encoding.WithExecutor(stub), encoding.WithOutput(&stdout, &stderr))

	job := encoding.Job{Input: "in.mov", Output: "out.mov", VideoKbps: 707, AudioKbps: 128}
	if err := enc.Encode(context.Background(), job); err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}
	if len(stub.specs) != 1 {
		t.Fatalf("expected one invocation, got %d", len(stub.specs))
	}
	spec := stub.specs[0]
	if spec.Binary != "/usr/bin/ffmpeg" {
		t.Fatalf("unexpected binary: %q", spec.Binary)
	}
	if spec.Stdout != &stdout || spec.Stderr != &stderr {
		t.Fatal("expected ffmpeg output to be passed through")
	}
	if got := flagValue(t, spec.Args, "-b:v"); got != "707k" {
		t.Fatalf("unexpected video bitrate: %q", got)
	}
}

func TestEncodeFailureIsEncodeError(t *testing.T) {
	stub := &stubExecutor{result: command.Result{ExitCode: 1}, err: errors.New("exit status 1")}
	enc := encoding.New("ffmpeg", encoding.WithExecutor(stub))

	err := enc.Encode(context.Background(), encoding.Job{Input: "in.mp4", Output: "out.mp4", VideoKbps: 10, AudioKbps: 10})
	var encErr *encoding.EncodeError
	if !errors.As(err, &encErr) {
		t.Fatalf("expected EncodeError, got %v", err)
	}
	if encErr.ExitCode != 1 {
		t.Fatalf("unexpected exit code: %d", encErr.ExitCode)
	}
	if !strings.Contains(err.Error(), "exit status 1") {
		t.Fatalf("unexpected message: %q", err.Error())
	}
	if len(stub.specs) != 1 {
		t.Fatalf("expected no retry, got %d invocations", len(stub.specs))
	}
}

func TestEncodeValidatesJob(t *testing.T) {
	stub := &stubExecutor{}
	enc := encoding.New("ffmpeg", encoding.WithExecutor(stub))

	bad := []encoding.Job{
		{Output: "out.mp4"},
		{Input: "in.mp4"},
		{Input: "in.mp4", Output: "out.mp4", VideoKbps: -1},
	}
	for _, job := range bad {
		if err := enc.Encode(context.Background(), job); err == nil {
			t.Fatalf("expected validation error for %#v", job)
		}
	}
	if len(stub.specs) != 0 {
		t.Fatalf("expected no invocations, got %d", len(stub.specs))
	}
}
