package toggle

import (
	"net"
	"testing"
	"time"
)

func TestRateRegistry_Disabled(t *testing.T) {
	r := newRateRegistry(0)
	if r != nil {
		t.Fatal("expected nil registry when rate limit is 0")
	}
	for range 100 {
		if !r.Allow("10.0.0.1:1234") {
			t.Fatal("nil registry must allow every connection")
		}
	}
}

func TestRateRegistry_PerIP(t *testing.T) {
	r := newRateRegistry(2)

	if !r.Allow("10.0.0.1:1000") || !r.Allow("10.0.0.1:1001") {
		t.Fatal("burst of 2 should be allowed")
	}
	if r.Allow("10.0.0.1:1002") {
		t.Error("third connection within the same second should be limited")
	}
	if !r.Allow("10.0.0.2:1000") {
		t.Error("a different IP has its own budget")
	}
	if got := r.size(); got != 2 {
		t.Errorf("size() = %d, want 2", got)
	}
}

func TestRateRegistry_Prune(t *testing.T) {
	r := newRateRegistry(1)
	r.Allow("10.0.0.1:1")
	r.limiters["10.0.0.1"].lastSeen = time.Now().Add(-2 * limiterIdle)
	r.Allow("10.0.0.2:1")

	r.mu.Lock()
	r.prune(time.Now())
	r.mu.Unlock()

	if _, ok := r.limiters["10.0.0.1"]; ok {
		t.Error("idle limiter should be pruned")
	}
	if _, ok := r.limiters["10.0.0.2"]; !ok {
		t.Error("recent limiter should be kept")
	}
}

func TestHostOf(t *testing.T) {
	tests := map[string]string{
		"10.0.0.1:8888": "10.0.0.1",
		"[::1]:8888":    "::1",
		"pipe":          "pipe",
	}
	for in, want := range tests {
		if got := hostOf(in); got != want {
			t.Errorf("hostOf(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFirstIPv4(t *testing.T) {
	ips := []net.IP{net.ParseIP("::1"), net.ParseIP("192.168.1.169"), net.ParseIP("10.0.0.1")}
	if got := firstIPv4(ips); got != "192.168.1.169" {
		t.Errorf("firstIPv4() = %q", got)
	}
	if got := firstIPv4([]net.IP{net.ParseIP("fe80::1")}); got != "unknown" {
		t.Errorf("firstIPv4(v6 only) = %q, want unknown", got)
	}
	if got := firstIPv4(nil); got != "unknown" {
		t.Errorf("firstIPv4(nil) = %q, want unknown", got)
	}
}

func TestLocalIPv4(t *testing.T) {
	if got := LocalIPv4(); got == "" {
		t.Error("LocalIPv4() returned empty string")
	}
}
