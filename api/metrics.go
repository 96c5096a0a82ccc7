package api

import (
	"time"

	log "github.com/sirupsen/logrus"
)

type chatRequestMetrics struct {
	logger            *log.Logger
	start             time.Time
	decodeDuration    time.Duration
	interpretDuration time.Duration
	messageChars      int
	replyChars        int
	errorStage        string
}

func newChatRequestMetrics(logger *log.Logger) *chatRequestMetrics {
	return &chatRequestMetrics{
		logger: logger,
		start:  time.Now(),
	}
}

func (m *chatRequestMetrics) ObserveDecode(duration time.Duration) {
	if duration <= 0 {
		return
	}
	m.decodeDuration = duration
}

func (m *chatRequestMetrics) ObserveInterpret(duration time.Duration) {
	if duration <= 0 {
		return
	}
	m.interpretDuration = duration
}

func (m *chatRequestMetrics) SetMessageChars(count int) {
	if count < 0 {
		count = 0
	}
	m.messageChars = count
}

func (m *chatRequestMetrics) SetReplyChars(count int) {
	if count < 0 {
		count = 0
	}
	m.replyChars = count
}

func (m *chatRequestMetrics) SetErrorStage(stage string) {
	if stage == "" {
		return
	}
	m.errorStage = stage
}

func (m *chatRequestMetrics) Log(status int, err error) {
	if m == nil || m.logger == nil {
		return
	}

	fields := log.Fields{
		"route":         "/chat",
		"status":        status,
		"total_ms":      durationToMillis(time.Since(m.start)),
		"message_chars": m.messageChars,
		"reply_chars":   m.replyChars,
	}

	if m.decodeDuration > 0 {
		fields["decode_ms"] = durationToMillis(m.decodeDuration)
	}
	if m.interpretDuration > 0 {
		fields["interpret_ms"] = durationToMillis(m.interpretDuration)
	}
	if m.errorStage != "" {
		fields["error_stage"] = m.errorStage
	}
	if err != nil {
		fields["error"] = err.Error()
	}

	m.logger.WithFields(fields).Info("chat.request.metrics")
}

func durationToMillis(d time.Duration) float64 {
	if d <= 0 {
		return 0
	}
	return float64(d) / float64(time.Millisecond)
}
