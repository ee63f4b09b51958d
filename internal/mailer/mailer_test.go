package mailer

import "testing"

func TestUnconfiguredMailerLogsInsteadOfFailing(t *testing.T) {
	m := &Mailer{}
	if m.Configured() {
		t.Fatal("zero mailer reports configured")
	}
	// Registration must succeed with no SMTP server anywhere near.
	if err := m.SendVerificationCode("a@b.com", "123456"); err != nil {
		t.Errorf("unconfigured send returned error: %v", err)
	}
	if err := m.SendTicketCreated("ops@b.com", "T-abc12345", "a@b.com", "High", "note"); err != nil {
		t.Errorf("unconfigured notification returned error: %v", err)
	}
}

func TestConfigured(t *testing.T) {
	cases := []struct {
		name string
		m    Mailer
		want bool
	}{
		{"full", Mailer{Host: "smtp.example.com", Port: "587", From: "no-reply@example.com"}, true},
		{"missing host", Mailer{Port: "587", From: "no-reply@example.com"}, false},
		{"missing port", Mailer{Host: "smtp.example.com", From: "no-reply@example.com"}, false},
		{"missing from", Mailer{Host: "smtp.example.com", Port: "587"}, false},
	}
	for _, tc := range cases {
		if got := tc.m.Configured(); got != tc.want {
			t.Errorf("%s: Configured() = %v, want %v", tc.name, got, tc.want)
		}
	}
}
