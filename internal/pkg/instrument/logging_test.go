package instrument

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()

	var out map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &out); err != nil {
		t.Fatalf("invalid log line %q: %v", buf.String(), err)
	}
	return out
}

func TestHandler_MasksSensitiveFields(t *testing.T) {
	// Arrange
	var buf bytes.Buffer
	logger := slog.New(newHandler(&buf, Config{ServiceName: "goverify", MaskFields: []string{"code", " Authorization "}}, nil))

	// Act
	logger.Info("code dispatched",
		"identifier", "user@example.com",
		"code", "123456",
		"headers", map[string]string{"authorization": "Bearer abc"},
		"body", `{"identifier":"+15551234567","code":"654321"}`,
	)

	// Assert
	line := decodeLine(t, &buf)
	if line["code"] != masked {
		t.Fatalf("code = %v, want masked", line["code"])
	}
	if line["identifier"] != "user@example.com" {
		t.Fatalf("identifier must not be masked, got %v", line["identifier"])
	}
	headers, _ := line["headers"].(map[string]any)
	if headers["authorization"] != masked {
		t.Fatalf("headers = %v", line["headers"])
	}
	if body, _ := line["body"].(string); strings.Contains(body, "654321") {
		t.Fatalf("json body leaked code: %s", body)
	}
	if line["service"] != "goverify" {
		t.Fatalf("service = %v", line["service"])
	}
	if _, ok := line["ts"]; !ok {
		t.Fatal("missing ts key")
	}
	if line["severity"] != "INFO" {
		t.Fatalf("severity = %v", line["severity"])
	}
}

func TestHandler_CorrelationID(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newHandler(&buf, Config{}, nil))

	ctx := SetCorrelationID(context.Background(), "cid-1")
	logger.InfoContext(ctx, "hello")

	line := decodeLine(t, &buf)
	if line["_cID"] != "cid-1" {
		t.Fatalf("_cID = %v", line["_cID"])
	}
	if _, ok := line["service"]; ok {
		t.Fatal("service must be omitted when empty")
	}
}

func TestHandler_Level(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newHandler(&buf, Config{LogLevel: "warn"}, nil))

	logger.Info("dropped")
	if buf.Len() != 0 {
		t.Fatalf("info must be filtered at warn level, got %q", buf.String())
	}

	logger.Warn("kept")
	if buf.Len() == 0 {
		t.Fatal("warn must be written")
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARNING": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := parseLevel(in); got != want {
			t.Fatalf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestCorrelationID_Absent(t *testing.T) {
	if got := GetCorrelationID(context.Background()); got != "" {
		t.Fatalf("GetCorrelationID() = %q, want empty", got)
	}
}

func TestNew_Disabled(t *testing.T) {
	inst, err := New(context.Background(), Config{ServiceName: "goverify"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if inst.Tracer("x") == nil || inst.Meter("x") == nil {
		t.Fatal("noop providers must not be nil")
	}
	if err := inst.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
}
