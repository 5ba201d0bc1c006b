package service

import (
	"strings"
	"testing"
	"time"
)

func TestParsePriority(t *testing.T) {
	if p, err := ParsePriority(" HIGH "); err != nil || p != PriorityHigh {
		t.Errorf("expected high, got %q (%v)", p, err)
	}
	if _, err := ParsePriority("urgent"); err == nil {
		t.Error("expected error for unknown priority")
	}
}

func TestParseCategory(t *testing.T) {
	if c, err := ParseCategory("Sport"); err != nil || c != CategorySport {
		t.Errorf("expected sport, got %q (%v)", c, err)
	}
	if _, err := ParseCategory(""); err == nil {
		t.Error("expected error for empty category")
	}
}

func TestParseDeadline(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2026-04-05T21:00", time.Date(2026, 4, 5, 18, 0, 0, 0, time.UTC)},
		{"2026-04-05 21:00", time.Date(2026, 4, 5, 18, 0, 0, 0, time.UTC)},
		{"2026-04-05", time.Date(2026, 4, 4, 21, 0, 0, 0, time.UTC)},
		{"2026-04-05T18:00:00Z", time.Date(2026, 4, 5, 18, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		got, err := ParseDeadline(tt.in, loc)
		if err != nil {
			t.Errorf("%q: unexpected error: %v", tt.in, err)
			continue
		}
		if !got.Equal(tt.want) || got.Location() != time.UTC {
			t.Errorf("%q: expected %v, got %v", tt.in, tt.want, got)
		}
	}

	if _, err := ParseDeadline("next friday", loc); err == nil {
		t.Error("expected error for unparseable deadline")
	}
}

func TestValidateTitle(t *testing.T) {
	got, err := ValidateTitle("  Buy milk  ")
	if err != nil || got != "Buy milk" {
		t.Errorf("expected trimmed title, got %q (%v)", got, err)
	}
	if _, err := ValidateTitle("   "); err == nil {
		t.Error("expected error for blank title")
	}
	if _, err := ValidateTitle(strings.Repeat("ж", MaxTitleLen)); err != nil {
		t.Errorf("expected %d runes to be accepted: %v", MaxTitleLen, err)
	}
	if _, err := ValidateTitle(strings.Repeat("a", MaxTitleLen+1)); err == nil {
		t.Error("expected error for long title")
	}
}

func TestValidateRegistration(t *testing.T) {
	valid := func() Registration {
		return Registration{Username: " alice ", Email: " alice@example.com ", Password: "secret"}
	}

	r := valid()
	if err := ValidateRegistration(&r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Username != "alice" || r.Email != "alice@example.com" {
		t.Errorf("expected trimmed fields, got %+v", r)
	}

	r = valid()
	r.Password = "éééééé"
	if err := ValidateRegistration(&r); err != nil {
		t.Errorf("expected six characters to be enough, got %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Registration)
	}{
		{"missing username", func(r *Registration) { r.Username = "" }},
		{"short username", func(r *Registration) { r.Username = "al" }},
		{"long username", func(r *Registration) { r.Username = strings.Repeat("a", MaxUsernameLen+1) }},
		{"short password", func(r *Registration) { r.Password = "12345" }},
		{"short multibyte password", func(r *Registration) { r.Password = "ééé" }},
		{"bad email", func(r *Registration) { r.Email = "not-an-email" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := valid()
			tt.mutate(&r)
			if err := ValidateRegistration(&r); err == nil {
				t.Error("expected error")
			}
		})
	}
}
