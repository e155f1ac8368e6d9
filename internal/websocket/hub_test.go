package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/brunocorregedoria/reforma2/internal/models"
)

func TestHubBroadcastsToSubscribers(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := &Client{hub: hub, send: make(chan []byte, 8)}
	hub.register <- client

	entry := &models.Log{ID: 1, Entity: "Project", EntityID: 7, Action: models.ActionCreate}
	hub.BroadcastLog(entry)

	select {
	case raw := <-client.send:
		var event activityEvent
		if err := json.Unmarshal(raw, &event); err != nil {
			t.Fatalf("unmarshal event: %v", err)
		}
		if event.Type != "AUDIT_LOG" {
			t.Errorf("expected type AUDIT_LOG, got %s", event.Type)
		}
		if event.Log == nil || event.Log.EntityID != 7 {
			t.Errorf("unexpected log payload: %+v", event.Log)
		}
	case <-time.After(time.Second):
		t.Fatal("no event delivered to subscriber")
	}

	hub.unregister <- client
	select {
	case _, open := <-client.send:
		if open {
			t.Error("expected send channel closed after unregister")
		}
	case <-time.After(time.Second):
		t.Fatal("send channel not closed after unregister")
	}
}

func TestBroadcastLogDoesNotBlockWithoutRun(t *testing.T) {
	hub := NewHub()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			hub.BroadcastLog(&models.Log{ID: uint(i)})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("BroadcastLog blocked with no hub loop running")
	}
}
