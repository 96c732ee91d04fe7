package secrets

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"
)

func testBox(t *testing.T, seed byte) *Box {
	t.Helper()
	key := make([]byte, 32)
	for i := range key {
		key[i] = seed
	}
	box, err := NewBox(base64.StdEncoding.EncodeToString(key))
	if err != nil {
		t.Fatalf("NewBox: %v", err)
	}
	return box
}

func TestNewBoxRejectsBadKeys(t *testing.T) {
	if _, err := NewBox("not base64!!"); err == nil {
		t.Error("expected error for non-base64 key")
	}
	short := base64.StdEncoding.EncodeToString([]byte("too short"))
	if _, err := NewBox(short); err == nil {
		t.Error("expected error for short key")
	}
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	box := testBox(t, 1)

	stored, err := box.Encrypt("whsec_example")
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if strings.Contains(stored, "whsec_example") {
		t.Error("stored form contains the plaintext")
	}

	got, err := box.Decrypt(stored)
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if got != "whsec_example" {
		t.Errorf("Decrypt = %q, want %q", got, "whsec_example")
	}
}

func TestEncryptIsNotDeterministic(t *testing.T) {
	box := testBox(t, 2)

	a, _ := box.Encrypt("same secret")
	b, _ := box.Encrypt("same secret")
	if a == b {
		t.Error("two encryptions of the same secret produced identical ciphertexts")
	}
}

func TestDecryptRejectsTamperedInput(t *testing.T) {
	box := testBox(t, 3)
	other := testBox(t, 4)

	stored, _ := box.Encrypt("whsec_example")

	if _, err := other.Decrypt(stored); !errors.Is(err, ErrMalformedCiphertext) {
		t.Errorf("decrypt with wrong key = %v, want ErrMalformedCiphertext", err)
	}
	if _, err := box.Decrypt("%%%"); !errors.Is(err, ErrMalformedCiphertext) {
		t.Errorf("decrypt of garbage = %v, want ErrMalformedCiphertext", err)
	}
	if _, err := box.Decrypt(base64.StdEncoding.EncodeToString([]byte("x"))); !errors.Is(err, ErrMalformedCiphertext) {
		t.Errorf("decrypt of truncated input = %v, want ErrMalformedCiphertext", err)
	}
}
