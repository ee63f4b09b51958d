package ratelimit

import (
	"context"
	"testing"
	"time"
)

// newTestMemory returns a limiter with a controllable clock and no running
// sweeper interference (the sweep interval is long enough to never fire).
func newTestMemory() (*Memory, *time.Time) {
	m := NewMemory(time.Hour)
	now := time.Now()
	m.now = func() time.Time { return now }
	return m, &now
}

func TestMemoryCheckDeniesAtMax(t *testing.T) {
	m, _ := newTestMemory()
	defer m.Close()
	ctx := context.Background()

	const max = 3
	for i := 1; i <= max; i++ {
		res, err := m.Check(ctx, "ip:1.2.3.4", max, time.Minute)
		if err != nil {
			t.Fatalf("Check %d: %v", i, err)
		}
		if !res.Allowed {
			t.Fatalf("attempt %d denied, want allowed", i)
		}
		if want := max - i; res.Remaining != want {
			t.Errorf("attempt %d remaining: got %d, want %d", i, res.Remaining, want)
		}
	}

	res, err := m.Check(ctx, "ip:1.2.3.4", max, time.Minute)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if res.Allowed {
		t.Error("attempt past max allowed, want denied")
	}
	if res.Remaining != 0 {
		t.Errorf("denied remaining: got %d, want 0", res.Remaining)
	}
	if res.ResetAt.IsZero() {
		t.Error("denied result has zero ResetAt")
	}
}

func TestMemoryWindowExpiryResets(t *testing.T) {
	m, now := newTestMemory()
	defer m.Close()
	ctx := context.Background()

	const max = 2
	for i := 0; i < max; i++ {
		if _, err := m.Check(ctx, "k", max, time.Minute); err != nil {
			t.Fatalf("Check: %v", err)
		}
	}
	res, _ := m.Check(ctx, "k", max, time.Minute)
	if res.Allowed {
		t.Fatal("expected denial inside window")
	}

	*now = now.Add(time.Minute + time.Second)
	res, err := m.Check(ctx, "k", max, time.Minute)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if !res.Allowed {
		t.Error("first attempt of a fresh window denied")
	}
	if res.Remaining != max-1 {
		t.Errorf("fresh window remaining: got %d, want %d", res.Remaining, max-1)
	}
}

func TestMemoryReset(t *testing.T) {
	m, _ := newTestMemory()
	defer m.Close()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, _ = m.Check(ctx, "k", 5, time.Minute)
	}
	if res, _ := m.Check(ctx, "k", 5, time.Minute); res.Allowed {
		t.Fatal("expected denial before reset")
	}
	if err := m.Reset(ctx, "k"); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if res, _ := m.Check(ctx, "k", 5, time.Minute); !res.Allowed {
		t.Error("attempt after reset denied")
	}
}

func TestMemoryIdentifiersAreIndependent(t *testing.T) {
	m, _ := newTestMemory()
	defer m.Close()
	ctx := context.Background()

	_, _ = m.Check(ctx, "a", 1, time.Minute)
	if res, _ := m.Check(ctx, "a", 1, time.Minute); res.Allowed {
		t.Fatal("second attempt for a allowed, want denied")
	}
	if res, _ := m.Check(ctx, "b", 1, time.Minute); !res.Allowed {
		t.Error("first attempt for b denied")
	}
}

func TestMemorySweepEvictsExpired(t *testing.T) {
	m := NewMemory(10 * time.Millisecond)
	defer m.Close()
	ctx := context.Background()

	if _, err := m.Check(ctx, "stale", 5, 5*time.Millisecond); err != nil {
		t.Fatalf("Check: %v", err)
	}
	if m.size() != 1 {
		t.Fatalf("size after check: got %d, want 1", m.size())
	}

	deadline := time.Now().Add(time.Second)
	for m.size() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("expired entry never swept")
		}
		time.Sleep(5 * time.Millisecond)
	}
}
