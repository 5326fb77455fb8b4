package observe

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
)

func decodeLines(t *testing.T, out string) []map[string]any {
	t.Helper()
	var entries []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("failed to parse log output as JSON: %v\nOutput: %s", err, line)
		}
		entries = append(entries, entry)
	}
	return entries
}

// TestLogger_IncludesOperationFields verifies operation fields are present in log output.
func TestLogger_IncludesOperationFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("info", &buf)

	logger.WithOperation(Operation{Namespace: "payments", Name: "charge"}).
		Info(context.Background(), "test message")

	entry := decodeLines(t, buf.String())[0]
	if v, ok := entry["retry.operation"].(string); !ok || v != "payments.charge" {
		t.Errorf("expected retry.operation='payments.charge', got %v", entry["retry.operation"])
	}
	if v, ok := entry["retry.namespace"].(string); !ok || v != "payments" {
		t.Errorf("expected retry.namespace='payments', got %v", entry["retry.namespace"])
	}
	if v, ok := entry["retry.name"].(string); !ok || v != "charge" {
		t.Errorf("expected retry.name='charge', got %v", entry["retry.name"])
	}
	if v, ok := entry["msg"].(string); !ok || v != "test message" {
		t.Errorf("expected msg='test message', got %v", entry["msg"])
	}
}

// TestLogger_WithOperationDoesNotLeak verifies derived loggers do not share attributes.
func TestLogger_WithOperationDoesNotLeak(t *testing.T) {
	var buf bytes.Buffer
	base := NewLoggerWithWriter("info", &buf)

	base.WithOperation(Operation{Namespace: "a", Name: "one"})
	base.Info(context.Background(), "plain")

	entry := decodeLines(t, buf.String())[0]
	if _, ok := entry["retry.operation"]; ok {
		t.Error("base logger should not carry operation fields")
	}
}

// TestLogger_Levels verifies each level is written with its name.
func TestLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("debug", &buf)
	ctx := context.Background()

	logger.Debug(ctx, "d")
	logger.Info(ctx, "i")
	logger.Warn(ctx, "w")
	logger.Error(ctx, "e", Field{Key: "error", Value: "connection timeout"})

	entries := decodeLines(t, buf.String())
	want := []string{"debug", "info", "warn", "error"}
	if len(entries) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(entries))
	}
	for i, level := range want {
		if entries[i]["level"] != level {
			t.Errorf("entry %d: expected level %q, got %v", i, level, entries[i]["level"])
		}
	}
	if entries[3]["error"] != "connection timeout" {
		t.Errorf("expected error field, got %v", entries[3]["error"])
	}
}

// TestLogger_LevelFiltering verifies log level filtering.
func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("warn", &buf)

	logger.Info(context.Background(), "info message")
	if strings.Contains(buf.String(), "info message") {
		t.Error("info message should be filtered when level is warn")
	}

	logger.Warn(context.Background(), "warn message")
	if !strings.Contains(buf.String(), "warn message") {
		t.Error("warn message should pass through when level is warn")
	}
}

// TestLogger_SecretsRedacted verifies sensitive fields are not logged.
func TestLogger_SecretsRedacted(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("info", &buf)

	logger.Info(context.Background(), "refreshed",
		Field{Key: "token", Value: "eyJhbGciOi.secret"},
		Field{Key: "authorization", Value: "Bearer abc"},
		Field{Key: "attempts", Value: 2},
	)

	output := buf.String()
	if strings.Contains(output, "eyJhbGciOi.secret") || strings.Contains(output, "Bearer abc") {
		t.Errorf("secret values should be redacted, got: %s", output)
	}
	entry := decodeLines(t, output)[0]
	if entry["token"] != "[REDACTED]" {
		t.Errorf("expected token='[REDACTED]', got %v", entry["token"])
	}
	if entry["attempts"] != float64(2) {
		t.Errorf("expected attempts=2, got %v", entry["attempts"])
	}
}

// TestLogger_ConcurrentDerivedLoggers verifies derived loggers serialize writes.
func TestLogger_ConcurrentDerivedLoggers(t *testing.T) {
	var buf bytes.Buffer
	base := NewLoggerWithWriter("info", &buf)

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l := base.WithOperation(Operation{Name: "op"})
			for range 20 {
				l.Info(context.Background(), "line", Field{Key: "worker", Value: i})
			}
		}()
	}
	wg.Wait()

	if got := len(decodeLines(t, buf.String())); got != 160 {
		t.Errorf("expected 160 intact lines, got %d", got)
	}
}

// TestParseLogLevel verifies parsing and the info fallback.
func TestParseLogLevel(t *testing.T) {
	tests := map[string]LogLevel{
		"debug": LevelDebug,
		"info":  LevelInfo,
		"warn":  LevelWarn,
		"error": LevelError,
		"":      LevelInfo,
		"loud":  LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLogLevel(in); got != want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

// TestLogger_RefreshCredentialsRedacted verifies the keys remedies log credentials under.
func TestLogger_RefreshCredentialsRedacted(t *testing.T) {
	for _, key := range []string{"access_token", "refresh_token", "api_key"} {
		var buf bytes.Buffer
		NewLoggerWithWriter("info", &buf).Info(context.Background(), "token refreshed",
			Field{Key: key, Value: "s3cr3t"})

		if strings.Contains(buf.String(), "s3cr3t") {
			t.Errorf("%s should be redacted, got: %s", key, buf.String())
		}
	}
}
