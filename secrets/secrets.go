// Package secrets provides symmetric encryption for credentials that
// are persisted into the preference store.
package secrets

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

type Crypter interface {
	Encrypt(value []byte) ([]byte, error)
	Decrypt(value []byte) ([]byte, error)
}

// ParseKey decodes a hex encoded 32 byte AES key.
func ParseKey(hexKey string) ([]byte, error) {
	key, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("invalid encryption key: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("invalid encryption key: expected 32 bytes, got %d", len(key))
	}
	return key, nil
}

// EncryptString encrypts a value and encodes it for storage as a
// preference entry.
func EncryptString(c Crypter, value string) (string, error) {
	encrypted, err := c.Encrypt([]byte(value))
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(encrypted), nil
}

// DecryptString reverses EncryptString.
func DecryptString(c Crypter, value string) (string, error) {
	encrypted, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return "", err
	}
	decrypted, err := c.Decrypt(encrypted)
	if err != nil {
		return "", err
	}
	return string(decrypted), nil
}
