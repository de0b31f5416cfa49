package logging

import (
	"bytes"
	"io"
	"strings"
	"testing"
)

func TestLevels(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, false)
	defer SetOutput(io.Discard, false)

	Debugf("hidden %d", 1)
	Infof("shown %d", 2)
	if strings.Contains(buf.String(), "hidden") {
		t.Fatalf("debug line written outside debug mode: %q", buf.String())
	}
	if !strings.Contains(buf.String(), "INFO shown 2") {
		t.Fatalf("missing info line: %q", buf.String())
	}
	if !strings.Contains(buf.String(), "logging_test.go") {
		t.Fatalf("caller file not reported: %q", buf.String())
	}

	buf.Reset()
	SetOutput(&buf, true)
	if !IsDebugMode() {
		t.Fatalf("debug mode not set")
	}
	Debug("now", " visible")
	Warnf("careful")
	if !strings.Contains(buf.String(), "DEBUG now visible") || !strings.Contains(buf.String(), "WARN careful") {
		t.Fatalf("unexpected output: %q", buf.String())
	}
}

func TestSetupLoggingEmptyDiscards(t *testing.T) {
	cleanup, err := SetupLogging("")
	if err != nil {
		t.Fatal(err)
	}
	defer cleanup()
	if IsDebugMode() {
		t.Fatalf("debug mode on without a log file")
	}
}
