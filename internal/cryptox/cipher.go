// Package cryptox implements the two cryptographic primitives the secret
// engine relies on: symmetric encryption of secret bodies with a process-wide
// master key, and one-way hashing of optional secret passwords.
package cryptox

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
)

const (
	// MasterKeySize is the required master key length (AES-256).
	MasterKeySize = 32

	// ivSize is the AES block size; one fresh IV is drawn per encryption.
	ivSize = aes.BlockSize
)

var (
	// ErrInvalidMasterKey indicates a missing or wrong-length master key.
	// App treats this as a fatal configuration error at startup.
	ErrInvalidMasterKey = fmt.Errorf("master key must be exactly %d bytes", MasterKeySize)

	// ErrDecryptionFailed indicates malformed ciphertext/IV or a key mismatch.
	ErrDecryptionFailed = errors.New("decryption failed")
)

// ContentCipher encrypts and decrypts secret bodies with AES-256-CBC.
// Ciphertext and IV travel as hex strings, which is also how they are
// persisted. The cipher is stateless and safe for concurrent use.
type ContentCipher struct {
	key []byte
}

// NewContentCipher validates the master key length and returns a cipher.
func NewContentCipher(key []byte) (*ContentCipher, error) {
	if len(key) != MasterKeySize {
		return nil, ErrInvalidMasterKey
	}
	k := make([]byte, MasterKeySize)
	copy(k, key)
	return &ContentCipher{key: k}, nil
}

// Encrypt encrypts plaintext under a fresh random 16-byte IV and returns the
// hex-encoded ciphertext and IV. An IV is never reused with the same key.
func (c *ContentCipher) Encrypt(plaintext string) (ciphertextHex string, ivHex string, err error) {
	iv := make([]byte, ivSize)
	if _, err := rand.Read(iv); err != nil {
		return "", "", fmt.Errorf("iv generation: %w", err)
	}

	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", "", err
	}

	padded := pkcs7Pad([]byte(plaintext), aes.BlockSize)
	out := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out, padded)

	return hex.EncodeToString(out), hex.EncodeToString(iv), nil
}

// Decrypt reverses Encrypt. It returns ErrDecryptionFailed for malformed
// input or a padding violation (the symptom of a wrong key).
func (c *ContentCipher) Decrypt(ciphertextHex string, ivHex string) (string, error) {
	ciphertext, err := hex.DecodeString(ciphertextHex)
	if err != nil {
		return "", ErrDecryptionFailed
	}
	iv, err := hex.DecodeString(ivHex)
	if err != nil {
		return "", ErrDecryptionFailed
	}
	if len(iv) != ivSize || len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return "", ErrDecryptionFailed
	}

	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", err
	}

	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, ciphertext)

	unpadded, ok := pkcs7Unpad(plaintext, aes.BlockSize)
	if !ok {
		return "", ErrDecryptionFailed
	}
	return string(unpadded), nil
}

func pkcs7Pad(b []byte, blockSize int) []byte {
	n := blockSize - len(b)%blockSize
	return append(b, bytes.Repeat([]byte{byte(n)}, n)...)
}

func pkcs7Unpad(b []byte, blockSize int) ([]byte, bool) {
	if len(b) == 0 || len(b)%blockSize != 0 {
		return nil, false
	}
	n := int(b[len(b)-1])
	if n == 0 || n > blockSize {
		return nil, false
	}
	for _, p := range b[len(b)-n:] {
		if int(p) != n {
			return nil, false
		}
	}
	return b[:len(b)-n], true
}
