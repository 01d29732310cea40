package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewMultiCoreWithWriters_Development(t *testing.T) {
	var consoleBuf, fileBuf bytes.Buffer

	core := NewMultiCoreWithWriters(
		zapcore.InfoLevel,
		zapcore.AddSync(&consoleBuf),
		zapcore.AddSync(&fileBuf),
		true,
	)

	logger := zap.New(core)
	logger.Info("test message", zap.String("key", "value"))
	logger.Sync()

	consoleOutput := consoleBuf.String()
	if consoleOutput == "" {
		t.Fatal("expected console output, got empty string")
	}

	// File output is always JSON regardless of mode
	fileOutput := fileBuf.String()
	if fileOutput == "" {
		t.Fatal("expected file output, got empty string")
	}

	var jsonData map[string]interface{}
	if err := json.Unmarshal([]byte(strings.TrimSpace(fileOutput)), &jsonData); err != nil {
		t.Fatalf("expected file output to be JSON, got: %s, error: %v", fileOutput, err)
	}

	if _, ok := jsonData[FieldMessage]; !ok {
		t.Errorf("expected JSON to have %q field", FieldMessage)
	}
	if jsonData[FieldMessage] != "test message" {
		t.Errorf("message = %v, want %q", jsonData[FieldMessage], "test message")
	}
	if jsonData["key"] != "value" {
		t.Errorf("field key = %v, want %q", jsonData["key"], "value")
	}
}

func TestNewMultiCoreWithWriters_Production(t *testing.T) {
	var consoleBuf, fileBuf bytes.Buffer

	core := NewMultiCoreWithWriters(
		zapcore.InfoLevel,
		zapcore.AddSync(&consoleBuf),
		zapcore.AddSync(&fileBuf),
		false,
	)

	logger := zap.New(core)
	logger.Info("prod message")
	logger.Sync()

	// Production console output is JSON too
	var jsonData map[string]interface{}
	if err := json.Unmarshal([]byte(strings.TrimSpace(consoleBuf.String())), &jsonData); err != nil {
		t.Fatalf("expected console output to be JSON in production, got: %s", consoleBuf.String())
	}
	if jsonData[FieldLevel] != "info" {
		t.Errorf("level = %v, want %q", jsonData[FieldLevel], "info")
	}
}

func TestNewMultiCoreWithWriters_LevelFiltering(t *testing.T) {
	var consoleBuf, fileBuf bytes.Buffer

	core := NewMultiCoreWithWriters(
		zapcore.WarnLevel,
		zapcore.AddSync(&consoleBuf),
		zapcore.AddSync(&fileBuf),
		false,
	)

	logger := zap.New(core)
	logger.Info("filtered out")
	logger.Warn("kept")
	logger.Sync()

	output := fileBuf.String()
	if strings.Contains(output, "filtered out") {
		t.Error("info entry written despite warn level")
	}
	if !strings.Contains(output, "kept") {
		t.Error("warn entry missing from output")
	}
}

func TestEncoderConfigFieldNames(t *testing.T) {
	config := NewEncoderConfig()

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"TimeKey", config.TimeKey, FieldTimestamp},
		{"LevelKey", config.LevelKey, FieldLevel},
		{"NameKey", config.NameKey, FieldSource},
		{"MessageKey", config.MessageKey, FieldMessage},
		{"StacktraceKey", config.StacktraceKey, FieldStacktrace},
		{"CallerKey", config.CallerKey, FieldCaller},
	}

	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %q, want %q", tt.name, tt.got, tt.want)
		}
	}
}
