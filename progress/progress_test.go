package progress

import (
	"bytes"
	"strings"
	"testing"
)

func TestReporterPrintsEveryN(t *testing.T) {
	var buf bytes.Buffer
	off := false
	r := New(Options{
		Verb:        "scanned",
		Total:       5,
		Every:       2,
		Out:         &buf,
		Interactive: &off,
		Detail:      func() string { return "Found matches." },
	})

	for i := 0; i < 5; i++ {
		r.Increment()
	}
	r.Finish()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 progress lines, got %d: %q", len(lines), buf.String())
	}
	if lines[0] != "  ...scanned 2 images. Found matches." {
		t.Errorf("first line = %q", lines[0])
	}
	if r.Count() != 5 {
		t.Errorf("Count() = %d, want 5", r.Count())
	}
}

func TestReporterDefaultsInterval(t *testing.T) {
	var buf bytes.Buffer
	r := New(Options{Verb: "indexed", Out: &buf})
	for i := 0; i < DefaultEvery-1; i++ {
		r.Increment()
	}
	if buf.Len() != 0 {
		t.Fatalf("unexpected output before interval: %q", buf.String())
	}
	r.Increment()
	if !strings.Contains(buf.String(), "indexed 500 images.") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestReporterBarMode(t *testing.T) {
	var buf bytes.Buffer
	on := true
	r := New(Options{Verb: "indexed", Total: 3, Out: &buf, Interactive: &on})
	if r.bar == nil {
		t.Fatal("expected a progress bar in interactive mode")
	}
	for i := 0; i < 3; i++ {
		r.Increment()
	}
	r.Finish()
	if r.Count() != 3 {
		t.Errorf("Count() = %d", r.Count())
	}
}
