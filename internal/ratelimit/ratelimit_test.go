package ratelimit

import (
	"sync"
	"testing"
	"time"
)

func TestPerClientAllowsBurst(t *testing.T) {
	pc := NewPerClient(1.0, 5, time.Minute)
	defer pc.Close()

	for i := 0; i < 5; i++ {
		if !pc.Allow("client-a") {
			t.Fatalf("request %d should be allowed (burst)", i)
		}
	}
	if pc.Allow("client-a") {
		t.Fatal("6th request should be rejected")
	}
}

func TestPerClientRefills(t *testing.T) {
	pc := NewPerClient(10.0, 2, time.Minute)
	defer pc.Close()

	pc.Allow("client-a")
	pc.Allow("client-a")
	if pc.Allow("client-a") {
		t.Fatal("bucket should be empty")
	}

	// At 10/sec a token returns within 100ms.
	time.Sleep(150 * time.Millisecond)

	if !pc.Allow("client-a") {
		t.Fatal("should have refilled at least 1 token")
	}
}

func TestPerClientIsolatesClients(t *testing.T) {
	pc := NewPerClient(1.0, 1, time.Minute)
	defer pc.Close()

	if !pc.Allow("client-a") {
		t.Fatal("client-a first request should pass")
	}
	if pc.Allow("client-a") {
		t.Fatal("client-a second request should be limited")
	}

	// A different client has its own bucket.
	if !pc.Allow("client-b") {
		t.Fatal("client-b should not share client-a's bucket")
	}
}

func TestPerClientConcurrent(t *testing.T) {
	pc := NewPerClient(1000, 1000, time.Minute)
	defer pc.Close()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				pc.Allow("shared")
			}
		}(i)
	}
	wg.Wait()
}

func TestPerClientGCRemovesStale(t *testing.T) {
	pc := NewPerClient(1.0, 1, 50*time.Millisecond)
	defer pc.Close()

	pc.Allow("short-lived")
	pc.mu.Lock()
	if len(pc.clients) != 1 {
		pc.mu.Unlock()
		t.Fatal("expected 1 client entry")
	}
	pc.mu.Unlock()

	time.Sleep(200 * time.Millisecond)

	pc.mu.Lock()
	defer pc.mu.Unlock()
	if len(pc.clients) != 0 {
		t.Fatal("stale entry should have been collected")
	}
}
