package handlers

import (
	"testing"
	"time"
)

func TestPingLoopStopsWhenConnectionCloses(t *testing.T) {
	done := make(chan struct{})
	finished := make(chan struct{})

	go func() {
		pingLoop(nil, "user:1", done)
		close(finished)
	}()

	close(done)

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("ping loop kept running after the connection closed")
	}
}
