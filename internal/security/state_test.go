package security

import "testing"

func TestSignVerifyState(t *testing.T) {
	signed := SignState("abc123", "secret")
	state, ok := VerifySignedState(signed, "secret")
	if !ok || state != "abc123" {
		t.Fatalf("expected verified state abc123, got %q ok=%v", state, ok)
	}
	if _, ok := VerifySignedState(signed, "other-secret"); ok {
		t.Fatal("expected verification with wrong secret to fail")
	}
	if _, ok := VerifySignedState("tampered."+signed, "secret"); ok {
		t.Fatal("expected tampered state to fail")
	}
	if _, ok := VerifySignedState("no-dot", "secret"); ok {
		t.Fatal("expected malformed state to fail")
	}
}

func TestNewRandomStringLengthAndUniqueness(t *testing.T) {
	a, err := NewRandomString(32)
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewRandomString(32)
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Fatal("expected distinct random strings")
	}
	if len(a) < 32 {
		t.Fatalf("expected at least 32 chars, got %d", len(a))
	}
}
