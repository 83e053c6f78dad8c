package cli

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, LogInfo).Logger

	prog := newProgress(logger)
	time.Sleep(10 * time.Millisecond)
	prog.done("rendered %d tracks", 4)

	out := buf.String()
	if out == "" {
		t.Fatal("progress.done() should produce output")
	}
	if !bytes.Contains(buf.Bytes(), []byte("rendered 4 tracks")) {
		t.Errorf("output missing message: %q", out)
	}
}

func TestWithLogger(t *testing.T) {
	logger := log.Default()
	ctx := withLogger(context.Background(), logger)

	if got := loggerFromContext(ctx); got != logger {
		t.Error("loggerFromContext should return the attached logger")
	}
}

func TestLoggerFromContextDefault(t *testing.T) {
	if loggerFromContext(context.Background()) == nil {
		t.Error("loggerFromContext should fall back to a default logger")
	}
}
