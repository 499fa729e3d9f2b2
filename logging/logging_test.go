package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWarningsFallBackToConsole(t *testing.T) {
	CloseLogger()
	var buf bytes.Buffer
	SetConsole(&buf)
	t.Cleanup(func() { SetConsole(os.Stderr) })

	LogWarning("could not process %s", "a.png")
	DebugLog("not shown")

	out := buf.String()
	if !strings.Contains(out, "WARNING: could not process a.png") {
		t.Errorf("console output = %q", out)
	}
	if strings.Contains(out, "not shown") {
		t.Error("debug output should be dropped without a debug logger")
	}
}

func TestSetupLoggerWritesFile(t *testing.T) {
	CloseLogger()
	path := filepath.Join(t.TempDir(), "debug.log")
	if err := SetupLogger(path); err != nil {
		t.Fatalf("SetupLogger: %v", err)
	}
	DebugLog("indexed %d images", 3)
	LogImageProcessed("b.png", false, "corrupt")
	CloseLogger()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	text := string(data)
	for _, want := range []string{"indexed 3 images", "FAILED: b.png - Error: corrupt", "Debug Log Closed"} {
		if !strings.Contains(text, want) {
			t.Errorf("log missing %q:\n%s", want, text)
		}
	}
}
