package security

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"strconv"
)

// RandomToken random hex token of l bytes entropy
func RandomToken(l int) (string, error) {
	key := make([]byte, l)

	if _, err := rand.Read(key); err != nil {
		return "", err
	}

	return hex.EncodeToString(key), nil
}

// RandomSalt random decimal salt for order tuples
func RandomSalt() (string, error) {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}

	return strconv.FormatUint(binary.BigEndian.Uint64(b[:]), 10), nil
}
