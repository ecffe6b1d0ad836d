package encryption

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/viper"
)

// Service seals small sensitive payloads (patient signatures, consent
// scans) with AES-256-GCM before they leave the process.
type Service interface {
	Encrypt(plaintext []byte) (string, error)
	Decrypt(ciphertext string) ([]byte, error)
}

type service struct {
	gcm cipher.AEAD
}

// NewService builds a Service from the ENCRYPTION_KEY environment
// variable (64 hex characters) or, failing that, the security.encryption.key
// config entry. Without either a random key is generated, which is only
// acceptable for throwaway environments: nothing sealed with it survives a
// restart.
func NewService() (Service, error) {
	key, err := loadKey()
	if err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	return &service{gcm: gcm}, nil
}

func (s *service) Encrypt(plaintext []byte) (string, error) {
	nonce := make([]byte, s.gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}
	ciphertext := s.gcm.Seal(nonce, nonce, plaintext, nil)
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

func (s *service) Decrypt(encodedCiphertext string) ([]byte, error) {
	ciphertext, err := base64.StdEncoding.DecodeString(encodedCiphertext)
	if err != nil {
		return nil, err
	}
	if len(ciphertext) < s.gcm.NonceSize() {
		return nil, errors.New("ciphertext too short")
	}
	nonce := ciphertext[:s.gcm.NonceSize()]
	return s.gcm.Open(nil, nonce, ciphertext[s.gcm.NonceSize():], nil)
}

func loadKey() ([]byte, error) {
	encoded := os.Getenv("ENCRYPTION_KEY")
	if encoded == "" {
		encoded = viper.GetString("security.encryption.key")
	}
	if encoded == "" {
		key := make([]byte, 32)
		if _, err := io.ReadFull(rand.Reader, key); err != nil {
			return nil, err
		}
		return key, nil
	}

	key, err := hex.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("ENCRYPTION_KEY must be a valid hex string: %v", err)
	}
	if len(key) != 32 {
		return nil, errors.New("ENCRYPTION_KEY must be exactly 32 bytes (64 hex characters)")
	}
	return key, nil
}
