package realtime

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/work-platform-backend/internal/platform/logger"
)

func mustTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	t.Cleanup(log.Sync)
	return log
}

func recvMessage(t *testing.T, ch <-chan SSEMessage, timeout time.Duration) SSEMessage {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(timeout):
		t.Fatalf("timed out waiting for SSE message")
	}
	return SSEMessage{}
}

func TestSSEHubDeliversInOrderAndClosesClients(t *testing.T) {
	hub := NewSSEHub(mustTestLogger(t))
	basketID := uuid.New()
	channel := BasketChannel(basketID)

	clientA := hub.NewSSEClient(uuid.New())
	hub.AddChannel(clientA, channel)

	hub.Broadcast(RowChangeMessage(RowChange{Table: "blocks", Type: ChangeUpdate, BasketID: basketID, Count: 3}))
	hub.Broadcast(RowChangeMessage(RowChange{Table: "raw_dumps", Type: ChangeDelete, BasketID: basketID, Count: 2}))

	first := recvMessage(t, clientA.Outbound, time.Second)
	second := recvMessage(t, clientA.Outbound, time.Second)
	if first.Data.(RowChange).Table != "blocks" || second.Data.(RowChange).Table != "raw_dumps" {
		t.Fatalf("unexpected order: %v then %v", first.Data, second.Data)
	}

	hub.CloseClient(clientA)
	if _, ok := <-clientA.Outbound; ok {
		t.Fatalf("outbound should be closed after CloseClient")
	}
	if n := hub.Subscribers(channel); n != 0 {
		t.Fatalf("expected no subscribers after close, got %d", n)
	}

	clientB := hub.NewSSEClient(uuid.New())
	hub.AddChannel(clientB, channel)
	hub.Broadcast(SSEMessage{Channel: channel, Event: SSEEventPurgeCompleted})
	if got := recvMessage(t, clientB.Outbound, time.Second); got.Event != SSEEventPurgeCompleted {
		t.Fatalf("reconnect event: want=%s got=%s", SSEEventPurgeCompleted, got.Event)
	}
}

func TestSSEHubScopesByChannel(t *testing.T) {
	hub := NewSSEHub(mustTestLogger(t))
	mine := hub.NewSSEClient(uuid.New())
	other := hub.NewSSEClient(uuid.New())
	a, b := uuid.New(), uuid.New()
	hub.AddChannel(mine, BasketChannel(a))
	hub.AddChannel(other, BasketChannel(b))
	hub.AddChannel(other, "   ")

	hub.Broadcast(RowChangeMessage(RowChange{Table: "blocks", BasketID: a}))
	recvMessage(t, mine.Outbound, time.Second)
	select {
	case msg := <-other.Outbound:
		t.Fatalf("other basket received %v", msg)
	default:
	}

	hub.RemoveChannel(mine, BasketChannel(a))
	hub.Broadcast(RowChangeMessage(RowChange{Table: "blocks", BasketID: a}))
	select {
	case msg := <-mine.Outbound:
		t.Fatalf("unsubscribed client received %v", msg)
	default:
	}
}

func TestSSEHubDropsWhenBufferFull(t *testing.T) {
	hub := NewSSEHub(mustTestLogger(t))
	client := hub.NewSSEClient(uuid.New())
	hub.AddChannel(client, "c")
	for i := 0; i < outboundBuffer+5; i++ {
		hub.Broadcast(SSEMessage{Channel: "c", Event: SSEEventRowChange})
	}
	if len(client.Outbound) != outboundBuffer {
		t.Fatalf("expected buffer to cap at %d, got %d", outboundBuffer, len(client.Outbound))
	}
}

func TestSSEHubServeHTTPWritesEvents(t *testing.T) {
	hub := NewSSEHub(mustTestLogger(t))
	client := hub.NewSSEClient(uuid.New())
	hub.AddChannel(client, "c")

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/stream", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		hub.ServeHTTP(rec, req, client)
		close(done)
	}()
	hub.Broadcast(SSEMessage{Channel: "c", Event: SSEEventPurgeCompleted, Data: map[string]any{"ok": true}})

	deadline := time.After(2 * time.Second)
	for len(client.Outbound) > 0 {
		select {
		case <-deadline:
			t.Fatalf("message never drained")
		case <-time.After(10 * time.Millisecond):
		}
	}
	// let the writer finish the frame it just dequeued
	time.Sleep(50 * time.Millisecond)
	cancel()
	<-done

	body := rec.Body.String()
	if !strings.Contains(body, "event: PurgeCompleted") || !strings.Contains(body, `"ok":true`) {
		t.Fatalf("unexpected stream body: %q", body)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("content type: %q", ct)
	}
}
