package utils

import (
	"regexp"
	"testing"
)

var uidShape = regexp.MustCompile(`^T-[0-9A-Za-z]{8}$`)

func TestNewTicketUIDShape(t *testing.T) {
	for i := 0; i < 100; i++ {
		uid, err := NewTicketUID()
		if err != nil {
			t.Fatalf("NewTicketUID: %v", err)
		}
		if !uidShape.MatchString(uid) {
			t.Fatalf("uid %q does not match T-XXXXXXXX", uid)
		}
	}
}

func TestNewTicketUIDUniqueness(t *testing.T) {
	const n = 10000
	seen := make(map[string]bool, n)
	for i := 0; i < n; i++ {
		uid, err := NewTicketUID()
		if err != nil {
			t.Fatalf("NewTicketUID: %v", err)
		}
		if seen[uid] {
			t.Fatalf("duplicate uid %q after %d generations", uid, i)
		}
		seen[uid] = true
	}
}

func TestNewVerificationCode(t *testing.T) {
	for i := 0; i < 100; i++ {
		code, err := NewVerificationCode()
		if err != nil {
			t.Fatalf("NewVerificationCode: %v", err)
		}
		if len(code) != 6 {
			t.Fatalf("code %q: got length %d, want 6", code, len(code))
		}
		for _, r := range code {
			if r < '0' || r > '9' {
				t.Fatalf("code %q contains non-digit %q", code, r)
			}
		}
	}
}
