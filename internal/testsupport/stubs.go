package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// EncodedPayload is what the stub ffmpeg writes to its output path.
const EncodedPayload = "encoded-by-stub"

// StubMediaTools writes ffprobe and ffmpeg shell stubs into dir and returns
// dir. The ffprobe stub prints durationOutput and exits 0, or prints to
// stderr and exits 1 when durationOutput is empty. The ffmpeg stub writes
// EncodedPayload to its final non "-y" argument, or exits 1 when the
// environment variable SQUEEZE_STUB_FFMPEG_FAIL is set.
func StubMediaTools(t testing.TB, dir, durationOutput string) string {
	t.Helper()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir bin dir: %v", err)
	}

	probe := "#!/bin/sh\necho 'stub: no such file' >&2\nexit 1\n"
	if durationOutput != "" {
		probe = fmt.Sprintf("#!/bin/sh\nprintf '%%s\\n' '%s'\n", durationOutput)
	}
	WriteScript(t, filepath.Join(dir, "ffprobe"), probe)

	encode := `#!/bin/sh
if [ -n "$SQUEEZE_STUB_FFMPEG_FAIL" ]; then
  echo "stub: encode failed" >&2
  exit 1
fi
if [ "$1" = "-version" ]; then
  echo "ffmpeg version stub"
  exit 0
fi
out=""
for arg in "$@"; do
  case "$arg" in
    -y) ;;
    *) out="$arg" ;;
  esac
done
printf '` + EncodedPayload + `' > "$out"
`
	WriteScript(t, filepath.Join(dir, "ffmpeg"), encode)
	return dir
}

// WriteScript writes an executable script to path.
func WriteScript(t testing.TB, path, body string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(body), 0o755); err != nil {
		t.Fatalf("write stub %s: %v", path, err)
	}
}
