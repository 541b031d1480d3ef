package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestConfigureJSON(t *testing.T) {
	var buf bytes.Buffer
	l := logrus.New()
	Configure(l, "debug", "JSON", &buf)

	if l.GetLevel() != logrus.DebugLevel {
		t.Errorf("expected debug level, got %v", l.GetLevel())
	}

	l.WithField("seed", 42).Debug("floor generated")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if entry["msg"] != "floor generated" {
		t.Errorf("unexpected msg field: %v", entry["msg"])
	}
}

func TestConfigureFallsBackToInfoText(t *testing.T) {
	var buf bytes.Buffer
	l := logrus.New()
	Configure(l, "not-a-level", "", &buf)

	if l.GetLevel() != logrus.InfoLevel {
		t.Errorf("expected info level fallback, got %v", l.GetLevel())
	}

	l.Debug("hidden")
	l.Info("shown")
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("debug entry written at info level")
	}
	if !strings.Contains(out, "shown") {
		t.Error("info entry missing")
	}
}
