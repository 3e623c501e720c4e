package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"io"
)

// AESCrypter encrypts values with AES-GCM. The nonce is prepended to
// the ciphertext.
type AESCrypter struct {
	key []byte
}

func NewAESCrypter(key []byte) *AESCrypter {
	return &AESCrypter{key}
}

func (s *AESCrypter) Encrypt(value []byte) ([]byte, error) {
	c, err := aes.NewCipher(s.key)
	if err != nil {
		return []byte(""), err
	}

	gcm, err := cipher.NewGCM(c)
	if err != nil {
		return []byte(""), err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return []byte(""), err
	}

	return gcm.Seal(nonce, nonce, value, nil), nil
}

func (s *AESCrypter) Decrypt(value []byte) ([]byte, error) {
	c, err := aes.NewCipher(s.key)
	if err != nil {
		return []byte(""), err
	}

	gcm, err := cipher.NewGCM(c)
	if err != nil {
		return []byte(""), err
	}

	nonceSize := gcm.NonceSize()
	if len(value) < nonceSize {
		return []byte(""), fmt.Errorf("message too short")
	}

	nonce, ciphertext := value[:nonceSize], value[nonceSize:]

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return []byte(""), err
	}

	return plaintext, nil
}
