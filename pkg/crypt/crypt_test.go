package crypt

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "603deb1015ca71be2b73aef0857d77811f352c073b6108d72d9810a30914dff4"

func TestRoundTrip(t *testing.T) {
	c, err := New(testKey)
	require.Nil(t, err)

	for _, plaintext := range []string{"", "x", "pending signature payload", strings.Repeat("a", 4096)} {
		blob, err := c.Encrypt([]byte(plaintext))
		require.Nil(t, err)
		assert.Len(t, blob.IV, 32)

		got, err := c.Decrypt(blob)
		require.Nil(t, err)
		assert.Equal(t, plaintext, string(got))
	}
}

func TestFreshIVPerCall(t *testing.T) {
	c, err := New(testKey)
	require.Nil(t, err)

	first, err := c.Encrypt([]byte("secret"))
	require.Nil(t, err)
	second, err := c.Encrypt([]byte("secret"))
	require.Nil(t, err)

	assert.NotEqual(t, first.IV, second.IV)
	assert.NotEqual(t, first.Content, second.Content)
}

func TestDecryptTamperedContent(t *testing.T) {
	c, err := New(testKey)
	require.Nil(t, err)

	blob, err := c.Encrypt([]byte("secret"))
	require.Nil(t, err)

	raw, err := hex.DecodeString(blob.Content)
	require.Nil(t, err)
	raw[0] ^= 0xff
	blob.Content = hex.EncodeToString(raw)

	_, err = c.Decrypt(blob)
	assert.NotNil(t, err)
}

func TestDecryptMismatchedIV(t *testing.T) {
	c, err := New(testKey)
	require.Nil(t, err)

	blob, err := c.Encrypt([]byte("secret"))
	require.Nil(t, err)
	other, err := c.Encrypt([]byte("secret"))
	require.Nil(t, err)

	blob.IV = other.IV

	_, err = c.Decrypt(blob)
	assert.NotNil(t, err)
}

func TestDecryptWrongKey(t *testing.T) {
	c, err := New(testKey)
	require.Nil(t, err)

	wrong, err := New("000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f")
	require.Nil(t, err)

	blob, err := c.Encrypt([]byte("secret"))
	require.Nil(t, err)

	_, err = wrong.Decrypt(blob)
	assert.NotNil(t, err)
}
