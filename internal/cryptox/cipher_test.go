package cryptox

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
	"testing"
)

func testKey(t *testing.T) []byte {
	t.Helper()
	key := make([]byte, MasterKeySize)
	if _, err := rand.Read(key); err != nil {
		t.Fatalf("rand.Read error: %v", err)
	}
	return key
}

func TestNewContentCipher_KeyLength(t *testing.T) {
	t.Parallel()

	for _, size := range []int{0, 16, 31, 33, 64} {
		if _, err := NewContentCipher(make([]byte, size)); !errors.Is(err, ErrInvalidMasterKey) {
			t.Fatalf("key size %d: want ErrInvalidMasterKey, got %v", size, err)
		}
	}

	if _, err := NewContentCipher(make([]byte, MasterKeySize)); err != nil {
		t.Fatalf("valid key rejected: %v", err)
	}
}

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	t.Parallel()

	c, err := NewContentCipher(testKey(t))
	if err != nil {
		t.Fatalf("NewContentCipher error: %v", err)
	}

	plaintexts := []string{
		"",
		"hello",
		"exactly sixteen!",
		strings.Repeat("long secret payload ", 100),
		"unicode: пароль 密码 🔑",
	}

	for _, p := range plaintexts {
		ct, iv, err := c.Encrypt(p)
		if err != nil {
			t.Fatalf("Encrypt(%q) error: %v", p, err)
		}
		got, err := c.Decrypt(ct, iv)
		if err != nil {
			t.Fatalf("Decrypt error: %v", err)
		}
		if got != p {
			t.Fatalf("round trip mismatch: got %q want %q", got, p)
		}
	}
}

func TestEncrypt_FreshIVPerCall(t *testing.T) {
	t.Parallel()

	c, _ := NewContentCipher(testKey(t))

	ct1, iv1, err := c.Encrypt("same plaintext")
	if err != nil {
		t.Fatalf("Encrypt error: %v", err)
	}
	ct2, iv2, err := c.Encrypt("same plaintext")
	if err != nil {
		t.Fatalf("Encrypt error: %v", err)
	}

	if iv1 == iv2 {
		t.Fatalf("IV reused across calls: %s", iv1)
	}
	if ct1 == ct2 {
		t.Fatalf("identical ciphertexts for distinct IVs")
	}

	raw, err := hex.DecodeString(iv1)
	if err != nil {
		t.Fatalf("IV is not hex: %v", err)
	}
	if len(raw) != 16 {
		t.Fatalf("IV length: got %d want 16", len(raw))
	}
}

func TestDecrypt_Malformed(t *testing.T) {
	t.Parallel()

	c, _ := NewContentCipher(testKey(t))
	ct, iv, err := c.Encrypt("payload")
	if err != nil {
		t.Fatalf("Encrypt error: %v", err)
	}

	cases := []struct {
		name string
		ct   string
		iv   string
	}{
		{"non-hex ciphertext", "zz", iv},
		{"non-hex iv", ct, "zz"},
		{"short iv", ct, "00ff"},
		{"empty ciphertext", "", iv},
		{"non-block ciphertext", ct[:2], iv},
	}

	for _, tc := range cases {
		if _, err := c.Decrypt(tc.ct, tc.iv); !errors.Is(err, ErrDecryptionFailed) {
			t.Fatalf("%s: want ErrDecryptionFailed, got %v", tc.name, err)
		}
	}
}

func TestDecrypt_WrongKey(t *testing.T) {
	t.Parallel()

	c1, _ := NewContentCipher(testKey(t))
	c2, _ := NewContentCipher(testKey(t))

	ct, iv, err := c1.Encrypt("secret body")
	if err != nil {
		t.Fatalf("Encrypt error: %v", err)
	}

	got, err := c2.Decrypt(ct, iv)
	if err == nil && got == "secret body" {
		t.Fatalf("decryption with a different key recovered the plaintext")
	}
}

func TestPKCS7_Unpad(t *testing.T) {
	t.Parallel()

	if _, ok := pkcs7Unpad(bytes.Repeat([]byte{0}, 16), 16); ok {
		t.Fatalf("zero padding byte accepted")
	}
	if _, ok := pkcs7Unpad(append(bytes.Repeat([]byte{1}, 15), 17), 16); ok {
		t.Fatalf("padding byte larger than block accepted")
	}
	got, ok := pkcs7Unpad(pkcs7Pad([]byte("abc"), 16), 16)
	if !ok || string(got) != "abc" {
		t.Fatalf("pad/unpad mismatch: %q ok=%v", got, ok)
	}
}
