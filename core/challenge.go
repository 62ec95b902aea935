package core

import (
	"context"
	"time"
)

// WalletType which wallet ui requested the challenge
type WalletType string

const (
	// WalletTypePrimary primary wallet
	WalletTypePrimary WalletType = "primary"
	// WalletTypeAlternate alternate wallet
	WalletTypeAlternate WalletType = "alternate"
)

// IsValid report whether the wallet type is a known one
func (t WalletType) IsValid() bool {
	switch t {
	case WalletTypePrimary, WalletTypeAlternate:
		return true
	}
	return false
}

// SignatureChallenge single use login challenge. The typed data document
// handed to the wallet is persisted encrypted; the record is never
// deleted, expiry is enforced by the time bound on Find.
type SignatureChallenge struct {
	ID               int64         `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id,omitempty"`
	CreatedAt        time.Time     `sql:"default:CURRENT_TIMESTAMP" json:"created_at,omitempty"`
	RequestID        string        `sql:"size:36;UNIQUE_INDEX:idx_challenges_request" json:"request_id"`
	WalletType       WalletType    `sql:"size:16" json:"wallet_type"`
	EncryptedMessage EncryptedBlob `sql:"EMBEDDED;EMBEDDED_PREFIX:message_" json:"-"`
	ExpireAt         time.Time     `json:"expire_at"`
}

// ChallengeStore challenge store interface
type ChallengeStore interface {
	Create(ctx context.Context, challenge *SignatureChallenge) error
	// Find returns the challenge for requestID only while it has not
	// expired relative to now, nil otherwise.
	Find(ctx context.Context, requestID string, now time.Time) (*SignatureChallenge, error)
}

// ChallengeService issues and consumes login challenges
type ChallengeService interface {
	// Issue creates a fresh challenge for the wallet type and returns
	// the typed data document the wallet should sign.
	Issue(ctx context.Context, walletType WalletType) (requestID string, document []byte, err error)
	// Consume loads a live challenge and returns the decrypted document.
	// Returns nil document when the challenge is unknown or expired.
	Consume(ctx context.Context, requestID string) ([]byte, error)
}
