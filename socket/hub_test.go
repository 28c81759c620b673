package socket

import (
	"encoding/json"
	"testing"
)

func TestBroadcastDeliversToAllClients(t *testing.T) {
	hub := NewHub()
	a := &Client{send: make(chan []byte, 1)}
	b := &Client{send: make(chan []byte, 1)}
	hub.addClient(a)
	hub.addClient(b)

	hub.Broadcast(map[string]string{"message": "hello"})

	for _, c := range []*Client{a, b} {
		select {
		case payload := <-c.send:
			var decoded map[string]string
			if err := json.Unmarshal(payload, &decoded); err != nil {
				t.Fatalf("Broadcast payload is not JSON: %v", err)
			}
			if decoded["message"] != "hello" {
				t.Errorf("Expected message to round-trip, got %q", decoded["message"])
			}
		default:
			t.Fatal("Expected a payload on the client send channel")
		}
	}
}

func TestBroadcastDropsSlowClients(t *testing.T) {
	hub := NewHub()
	slow := &Client{send: make(chan []byte)}
	hub.addClient(slow)

	hub.Broadcast("first")

	if hub.ClientCount() != 0 {
		t.Errorf("Expected slow client to be dropped, %d clients remain", hub.ClientCount())
	}
}

func TestRemoveClientIsIdempotent(t *testing.T) {
	hub := NewHub()
	c := &Client{send: make(chan []byte, 1)}
	hub.addClient(c)

	hub.removeClient(c)
	hub.removeClient(c)

	if hub.ClientCount() != 0 {
		t.Errorf("Expected zero clients, got %d", hub.ClientCount())
	}
}
