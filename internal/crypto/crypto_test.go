package crypto

import (
	"encoding/base64"
	"testing"
)

func testKey() string {
	return base64.StdEncoding.EncodeToString(make([]byte, 32))
}

func TestNewSecretBoxInvalidKey(t *testing.T) {
	cases := []struct {
		name string
		key  string
	}{
		{"empty", ""},
		{"not base64", "!!!not-base64!!!"},
		{"wrong length", base64.StdEncoding.EncodeToString([]byte("short"))},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewSecretBox(tc.key); err == nil {
				t.Errorf("expected error for key %q", tc.key)
			}
		})
	}
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	box, err := NewSecretBox(testKey())
	if err != nil {
		t.Fatal(err)
	}

	plaintext := "super-secret-webhook-token"
	ciphertext, err := box.Encrypt(plaintext)
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	if ciphertext == plaintext {
		t.Error("ciphertext must not equal plaintext")
	}

	got, err := box.Decrypt(ciphertext)
	if err != nil {
		t.Fatalf("Decrypt failed: %v", err)
	}
	if got != plaintext {
		t.Errorf("round trip got %q, want %q", got, plaintext)
	}
}

func TestEncryptEmptyString(t *testing.T) {
	box, err := NewSecretBox(testKey())
	if err != nil {
		t.Fatal(err)
	}

	ciphertext, err := box.Encrypt("")
	if err != nil {
		t.Fatal(err)
	}
	if ciphertext != "" {
		t.Errorf("empty plaintext should stay empty, got %q", ciphertext)
	}
	plaintext, err := box.Decrypt("")
	if err != nil {
		t.Fatal(err)
	}
	if plaintext != "" {
		t.Errorf("empty ciphertext should stay empty, got %q", plaintext)
	}
}

func TestEncryptNonDeterministic(t *testing.T) {
	box, err := NewSecretBox(testKey())
	if err != nil {
		t.Fatal(err)
	}

	a, err := box.Encrypt("same input")
	if err != nil {
		t.Fatal(err)
	}
	b, err := box.Encrypt("same input")
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Error("ciphertexts should differ between calls")
	}
}

func TestDecryptGarbage(t *testing.T) {
	box, err := NewSecretBox(testKey())
	if err != nil {
		t.Fatal(err)
	}

	if _, err := box.Decrypt("not base64 at all!"); err == nil {
		t.Error("expected error for non-base64 input")
	}
	if _, err := box.Decrypt(base64.StdEncoding.EncodeToString([]byte("xx"))); err == nil {
		t.Error("expected error for truncated ciphertext")
	}
	if _, err := box.Decrypt(base64.StdEncoding.EncodeToString(make([]byte, 40))); err == nil {
		t.Error("expected error for tampered ciphertext")
	}
}
