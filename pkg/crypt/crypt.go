package crypt

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"io"

	"cardmarket/core"
)

const ivSize = 16

// Cipher aes gcm cipher with a single process wide key
type Cipher struct {
	aead cipher.AEAD
}

// New build a cipher from a hex encoded 32 byte key
func New(hexKey string) (*Cipher, error) {
	key, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	aead, err := cipher.NewGCMWithNonceSize(block, ivSize)
	if err != nil {
		return nil, err
	}

	return &Cipher{aead: aead}, nil
}

// Encrypt seal plaintext with a fresh random iv
func (c *Cipher) Encrypt(plaintext []byte) (core.EncryptedBlob, error) {
	iv := make([]byte, ivSize)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return core.EncryptedBlob{}, err
	}

	sealed := c.aead.Seal(nil, iv, plaintext, nil)

	return core.EncryptedBlob{
		IV:      hex.EncodeToString(iv),
		Content: hex.EncodeToString(sealed),
	}, nil
}

// Decrypt open a blob. Any tamper of content or iv fails the gcm tag
// check and returns an error; callers treat that as an authentication
// failure, not a data error.
func (c *Cipher) Decrypt(blob core.EncryptedBlob) ([]byte, error) {
	iv, err := hex.DecodeString(blob.IV)
	if err != nil {
		return nil, err
	}

	if len(iv) != ivSize {
		return nil, errors.New("crypt: bad iv size")
	}

	sealed, err := hex.DecodeString(blob.Content)
	if err != nil {
		return nil, err
	}

	return c.aead.Open(nil, iv, sealed, nil)
}
