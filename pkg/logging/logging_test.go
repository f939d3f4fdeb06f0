package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNewWithOutput_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewWithOutput(&buf, "debug", "json")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	logger.WithField("scenario", "moderate").Debug("scenario calculated")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Expected JSON log line, got %q: %v", buf.String(), err)
	}
	if entry["scenario"] != "moderate" || entry["msg"] != "scenario calculated" {
		t.Errorf("Unexpected entry: %v", entry)
	}
}

func TestNewWithOutput_Level(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewWithOutput(&buf, "warn", "text")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if logger.GetLevel() != logrus.WarnLevel {
		t.Errorf("Expected warn level, got %v", logger.GetLevel())
	}

	logger.Info("hidden")
	if buf.Len() != 0 {
		t.Errorf("Expected info to be filtered, got %q", buf.String())
	}
}

func TestNewWithOutput_Invalid(t *testing.T) {
	if _, err := New("loud", "text"); err == nil {
		t.Error("Expected error for invalid level")
	}
	if _, err := New("info", "xml"); err == nil {
		t.Error("Expected error for invalid format")
	}
}
