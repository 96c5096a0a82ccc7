package api

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
)

func TestChatRequestMetricsLog(t *testing.T) {
	logger, hook := test.NewNullLogger()

	metrics := newChatRequestMetrics(logger)
	metrics.start = metrics.start.Add(-50 * time.Millisecond)
	metrics.ObserveDecode(2 * time.Millisecond)
	metrics.ObserveInterpret(30 * time.Millisecond)
	metrics.SetMessageChars(24)
	metrics.SetReplyChars(120)

	metrics.Log(http.StatusOK, nil)

	entry := hook.LastEntry()
	if entry == nil {
		t.Fatal("expected a log entry")
	}
	if entry.Message != "chat.request.metrics" {
		t.Fatalf("unexpected message: %s", entry.Message)
	}
	if entry.Data["route"] != "/chat" {
		t.Fatalf("unexpected route: %v", entry.Data["route"])
	}
	if entry.Data["status"] != http.StatusOK {
		t.Fatalf("unexpected status: %v", entry.Data["status"])
	}
	if entry.Data["message_chars"] != 24 || entry.Data["reply_chars"] != 120 {
		t.Fatalf("unexpected char counts: %v / %v", entry.Data["message_chars"], entry.Data["reply_chars"])
	}
	if total, ok := entry.Data["total_ms"].(float64); !ok || total <= 0 {
		t.Fatalf("expected positive total_ms, got %#v", entry.Data["total_ms"])
	}
	if _, ok := entry.Data["interpret_ms"]; !ok {
		t.Fatal("expected interpret_ms to be logged")
	}
	if _, exists := entry.Data["error_stage"]; exists {
		t.Fatalf("unexpected error_stage: %v", entry.Data["error_stage"])
	}
}

func TestChatRequestMetricsLogWithError(t *testing.T) {
	logger, hook := test.NewNullLogger()

	metrics := newChatRequestMetrics(logger)
	metrics.SetErrorStage("decode")

	metrics.Log(http.StatusBadRequest, errors.New("invalid body"))

	entry := hook.LastEntry()
	if entry == nil {
		t.Fatal("expected a log entry")
	}
	if entry.Data["error_stage"] != "decode" {
		t.Fatalf("unexpected error stage: %v", entry.Data["error_stage"])
	}
	if entry.Data["error"] != "invalid body" {
		t.Fatalf("unexpected error field: %v", entry.Data["error"])
	}
}

func TestDurationToMillis(t *testing.T) {
	if got := durationToMillis(0); got != 0 {
		t.Fatalf("durationToMillis(0) = %v", got)
	}
	if got := durationToMillis(-time.Second); got != 0 {
		t.Fatalf("durationToMillis(-1s) = %v", got)
	}
	if got := durationToMillis(1500 * time.Microsecond); got != 1.5 {
		t.Fatalf("durationToMillis(1.5ms) = %v", got)
	}
}
