package ratelimit

import "testing"

func TestAllowWithinBurst(t *testing.T) {
	l := New(10, 5)
	for i := 0; i < 5; i++ {
		if !l.Allow("1.2.3.4") {
			t.Fatalf("request %d within burst should pass", i)
		}
	}
	if l.Allow("1.2.3.4") {
		t.Error("request past the burst should be rejected")
	}
}

func TestKeysAreIndependent(t *testing.T) {
	l := New(10, 1)
	if !l.Allow("1.2.3.4") {
		t.Fatal("first request should pass")
	}
	if l.Allow("1.2.3.4") {
		t.Error("second request from the same key should be rejected")
	}
	if !l.Allow("5.6.7.8") {
		t.Error("a different key gets its own bucket")
	}
	if l.Len() != 2 {
		t.Errorf("Len = %d, want 2", l.Len())
	}
}

func TestPruneDropsIdleEntries(t *testing.T) {
	l := New(10, 5)
	l.Allow("1.2.3.4")
	l.Allow("5.6.7.8")

	l.Prune()
	if l.Len() != 2 {
		t.Errorf("fresh entries must survive a prune, Len = %d", l.Len())
	}

	l.pruneAfter = 0
	l.Prune()
	if l.Len() != 0 {
		t.Errorf("idle entries should be dropped, Len = %d", l.Len())
	}
}
