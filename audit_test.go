package goGuard

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
	"time"
)

type gateSink struct {
	gate chan struct{}
}

func newGateSink() *gateSink {
	return &gateSink{gate: make(chan struct{})}
}

func (s *gateSink) Emit(context.Context, AuditEvent) {
	<-s.gate
}

func quietTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func TestAuditDisabledReturnsNilDispatcher(t *testing.T) {
	d := newAuditDispatcher(AuditConfig{Enabled: false}, NoOpSink{}, nil)
	if d != nil {
		t.Fatal("expected nil dispatcher when audit is disabled")
	}
	// A nil dispatcher is inert.
	d.Emit(context.Background(), AuditEvent{EventType: AuditLogin})
	d.Close()
	if d.Dropped() != 0 {
		t.Fatal("expected zero drops on nil dispatcher")
	}
}

func TestAuditBufferFullDropIfFullTrueDoesNotBlock(t *testing.T) {
	var logs bytes.Buffer
	sink := newGateSink()
	dispatcher := newAuditDispatcher(AuditConfig{
		Enabled:    true,
		BufferSize: 1,
		DropIfFull: true,
	}, sink, slog.New(slog.NewTextHandler(&logs, nil)))
	defer func() {
		close(sink.gate)
		dispatcher.Close()
	}()

	dispatcher.Emit(context.Background(), AuditEvent{EventType: "e1"})
	dispatcher.Emit(context.Background(), AuditEvent{EventType: "e2"})

	start := time.Now()
	dispatcher.Emit(context.Background(), AuditEvent{EventType: "e3"})
	if time.Since(start) > 100*time.Millisecond {
		t.Fatal("expected non-blocking emit when DropIfFull is true")
	}
	if dispatcher.Dropped() == 0 {
		t.Fatal("expected dropped counter to increment when queue is full")
	}
	if !strings.Contains(logs.String(), "audit buffer full") {
		t.Fatalf("expected drop warning, got %q", logs.String())
	}
}

func TestAuditBufferFullDropIfFullFalseBlocksUntilSpace(t *testing.T) {
	sink := newGateSink()
	dispatcher := newAuditDispatcher(AuditConfig{
		Enabled:    true,
		BufferSize: 1,
		DropIfFull: false,
	}, sink, quietTestLogger())

	dispatcher.Emit(context.Background(), AuditEvent{EventType: "e1"})
	dispatcher.Emit(context.Background(), AuditEvent{EventType: "e2"})

	done := make(chan struct{})
	go func() {
		dispatcher.Emit(context.Background(), AuditEvent{EventType: "e3"})
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("expected emit to block while the buffer is full")
	case <-time.After(50 * time.Millisecond):
	}

	close(sink.gate)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("expected emit to complete once the sink drains")
	}
	dispatcher.Close()
}

func TestAuditEmitHonoursContextWhenBlocking(t *testing.T) {
	sink := newGateSink()
	dispatcher := newAuditDispatcher(AuditConfig{Enabled: true, BufferSize: 1}, sink, quietTestLogger())
	defer func() {
		close(sink.gate)
		dispatcher.Close()
	}()

	dispatcher.Emit(context.Background(), AuditEvent{EventType: "e1"})
	dispatcher.Emit(context.Background(), AuditEvent{EventType: "e2"})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	start := time.Now()
	dispatcher.Emit(ctx, AuditEvent{EventType: "e3"})
	if time.Since(start) > time.Second {
		t.Fatal("expected emit to give up when ctx is done")
	}
}

func TestAuditCloseDrainsBufferedEvents(t *testing.T) {
	sink := NewChannelSink(8)
	dispatcher := newAuditDispatcher(AuditConfig{Enabled: true, BufferSize: 8}, sink, quietTestLogger())

	for i := 0; i < 5; i++ {
		dispatcher.Emit(context.Background(), AuditEvent{EventType: AuditLogin})
	}
	dispatcher.Close()
	dispatcher.Close()

	if got := len(sink.Events()); got != 5 {
		t.Fatalf("expected 5 drained events, got %d", got)
	}
	dispatcher.Emit(context.Background(), AuditEvent{EventType: AuditLogout})
	if got := len(sink.Events()); got != 5 {
		t.Fatalf("expected emit after close to be ignored, got %d events", got)
	}
}

func TestJSONWriterSinkWritesOneLinePerEvent(t *testing.T) {
	var buf bytes.Buffer
	sink := NewJSONWriterSink(&buf)
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	sink.Emit(context.Background(), AuditEvent{Timestamp: at, EventType: AuditLogin, UserID: "u-1", Success: true})
	sink.Emit(context.Background(), AuditEvent{Timestamp: at, EventType: AuditAccessDenied, Error: "denied"})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}

	var first map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if first["event_type"] != AuditLogin || first["user_id"] != "u-1" || first["success"] != true {
		t.Fatalf("unexpected event %v", first)
	}
	if _, ok := first["error"]; ok {
		t.Fatal("empty error must be omitted")
	}
}
