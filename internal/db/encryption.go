package db

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"

	"github.com/phil-crm/phil-console/internal/models"
)

// GCMEncryptor seals values with AES-GCM. The random nonce is stored in front of the ciphertext and
// the result is base64 encoded so it can live in text formats.
type GCMEncryptor struct {
	cipher cipher.AEAD
}

func (g GCMEncryptor) nonce() ([]byte, error) {
	nonce := make([]byte, g.cipher.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return []byte{}, err
	}
	return nonce, nil
}

func (g GCMEncryptor) Encrypt(val string) (string, error) {
	nonce, err := g.nonce()
	if err != nil {
		return "", err
	}
	res := g.cipher.Seal(nonce, nonce, []byte(val), nil)
	return base64.StdEncoding.EncodeToString(res), nil
}

func (g GCMEncryptor) Decrypt(val string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(val)
	if err != nil {
		return "", err
	}
	nonceSize := g.cipher.NonceSize()
	if len(raw) < nonceSize {
		return "", fmt.Errorf("the encrypted value is too short")
	}
	res, err := g.cipher.Open(nil, raw[:nonceSize], raw[nonceSize:], nil)
	if err != nil {
		return "", err
	}
	return string(res), nil
}

func NewGCMEncryptor(secret string) (GCMEncryptor, error) {
	if len(secret) != 32 {
		return GCMEncryptor{}, fmt.Errorf("the encryption key has to be 32 bytes long, got %d", len(secret))
	}
	block, err := aes.NewCipher([]byte(secret))
	if err != nil {
		return GCMEncryptor{}, err
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return GCMEncryptor{}, err
	}
	return GCMEncryptor{aesgcm}, nil
}

func sealSession(enc models.Encryptor, session models.Session) (models.Session, error) {
	if enc == nil {
		return session, nil
	}
	var err error
	session.AccessToken, err = enc.Encrypt(session.AccessToken)
	if err != nil {
		return models.Session{}, err
	}
	session.RefreshToken, err = enc.Encrypt(session.RefreshToken)
	if err != nil {
		return models.Session{}, err
	}
	return session, nil
}

func openSession(enc models.Encryptor, session models.Session) (models.Session, error) {
	if enc == nil {
		return session, nil
	}
	var err error
	session.AccessToken, err = enc.Decrypt(session.AccessToken)
	if err != nil {
		return models.Session{}, fmt.Errorf("cannot decrypt the access token: %w", err)
	}
	session.RefreshToken, err = enc.Decrypt(session.RefreshToken)
	if err != nil {
		return models.Session{}, fmt.Errorf("cannot decrypt the refresh token: %w", err)
	}
	return session, nil
}
