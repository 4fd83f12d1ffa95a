package utils

import "testing"

func TestAtoiDefault(t *testing.T) {
	if got := AtoiDefault("42", 0); got != 42 {
		t.Fatalf("expected 42, got %d", got)
	}
	if got := AtoiDefault("", 10); got != 10 {
		t.Fatalf("expected default 10, got %d", got)
	}
	if got := AtoiDefault("x", 5); got != 5 {
		t.Fatalf("expected default 5, got %d", got)
	}
	if got := AtoiDefault("-3", 0); got != -3 {
		t.Fatalf("expected -3, got %d", got)
	}
}

func TestAtoiPtr(t *testing.T) {
	if got := AtoiPtr(""); got != nil {
		t.Fatalf("expected nil for empty input, got %v", *got)
	}
	if got := AtoiPtr("abc"); got != nil {
		t.Fatalf("expected nil for junk input, got %v", *got)
	}
	got := AtoiPtr("0")
	if got == nil || *got != 0 {
		t.Fatalf("expected pointer to 0, got %v", got)
	}
	got = AtoiPtr("-7")
	if got == nil || *got != -7 {
		t.Fatalf("expected pointer to -7, got %v", got)
	}
}
