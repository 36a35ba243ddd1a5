package redact

import (
	"strings"
	"testing"
)

func TestRedactDisabled(t *testing.T) {
	SetEnabled(false)
	in := "email a@b.com and phone +62 812 3456 7890"
	if got := Text(in); got != in {
		t.Fatalf("expected no redaction, got %q", got)
	}
}

func TestRedactEnabled(t *testing.T) {
	SetEnabled(true)
	defer SetEnabled(false)
	in := "email a@b.com and phone +62 812 3456 7890"
	got := Text(in)
	if got == in {
		t.Fatalf("expected redaction")
	}
	if want := "[REDACTED_EMAIL]"; !strings.Contains(got, want) {
		t.Fatalf("expected %q in output", want)
	}
	if want := "[REDACTED_PHONE]"; !strings.Contains(got, want) {
		t.Fatalf("expected %q in output", want)
	}
}

func TestRedactCoordinates(t *testing.T) {
	SetEnabled(true)
	defer SetEnabled(false)
	got := Coordinates("fly to -122.419416, 37.774929 please")
	if strings.Contains(got, "-122.419416") || strings.Contains(got, "37.774929") {
		t.Fatalf("expected coordinates masked, got %q", got)
	}
	if !strings.Contains(got, "[REDACTED_COORD]") {
		t.Fatalf("expected coordinate marker, got %q", got)
	}
}
