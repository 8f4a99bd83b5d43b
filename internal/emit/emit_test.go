package emit

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDebugSuppressedWhenNotVerbose(t *testing.T) {
	var buf strings.Builder
	e := New(&buf, false)
	e.Note("quiet", true)
	if buf.Len() != 0 {
		t.Fatalf("expected debug note suppressed, got %q", buf.String())
	}
	e.Note("loud", false)
	if !strings.Contains(buf.String(), "loud") {
		t.Fatalf("expected non-debug note to print, got %q", buf.String())
	}
}

func TestDebugPrintedWhenVerbose(t *testing.T) {
	var buf strings.Builder
	e := New(&buf, true)
	e.Warning("underflow clamped", true)
	if !strings.Contains(buf.String(), "underflow clamped") {
		t.Fatalf("expected debug warning to print in verbose mode, got %q", buf.String())
	}
}

func TestWithCorrelationIDTagsEveryLine(t *testing.T) {
	var buf strings.Builder
	base := New(&buf, false)
	tagged := base.WithCorrelationID()
	tagged.Note("first", false)
	tagged.Warning("second", false)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %v", len(lines), lines)
	}
	prefix := lines[0][:strings.Index(lines[0], "][note]")]
	if prefix == "" || prefix == "[" {
		t.Fatalf("expected a non-empty correlation id prefix, got line %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], prefix) {
		t.Fatalf("expected both lines to share a correlation id, got %q and %q", lines[0], lines[1])
	}
}

func TestNewRotatingFileWritesToDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "databayes.log")
	e := NewRotatingFile(path, false)
	e.Note("rotated note", false)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), "rotated note") {
		t.Fatalf("expected log file to contain note, got %q", string(data))
	}
}

func TestBaseEmitterUntouchedByCorrelatedCopy(t *testing.T) {
	var buf strings.Builder
	base := New(&buf, false)
	_ = base.WithCorrelationID()
	base.Note("plain", false)
	if strings.Contains(buf.String(), "][note]") {
		t.Fatalf("base emitter should not gain a correlation id prefix, got %q", buf.String())
	}
}
