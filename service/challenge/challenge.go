package challenge

import (
	"context"
	"encoding/json"
	"time"

	"cardmarket/core"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/uuid"
)

type challengeService struct {
	challenges core.ChallengeStore
	cipher     core.Cipher
	chainID    int64
	ttl        time.Duration
}

// New new challenge service
func New(challenges core.ChallengeStore, cipher core.Cipher, chainID int64, ttl time.Duration) core.ChallengeService {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}

	return &challengeService{
		challenges: challenges,
		cipher:     cipher,
		chainID:    chainID,
		ttl:        ttl,
	}
}

func (s *challengeService) Issue(ctx context.Context, walletType core.WalletType) (string, []byte, error) {
	requestID := uuid.New()

	document, err := loginDocument(requestID, walletType, s.chainID, time.Now())
	if err != nil {
		return "", nil, err
	}

	encrypted, err := s.cipher.Encrypt(document)
	if err != nil {
		return "", nil, err
	}

	challenge := &core.SignatureChallenge{
		RequestID:        requestID,
		WalletType:       walletType,
		EncryptedMessage: encrypted,
		ExpireAt:         time.Now().Add(s.ttl),
	}

	if err := s.challenges.Create(ctx, challenge); err != nil {
		return "", nil, err
	}

	return requestID, document, nil
}

func (s *challengeService) Consume(ctx context.Context, requestID string) ([]byte, error) {
	challenge, err := s.challenges.Find(ctx, requestID, time.Now())
	if err != nil {
		return nil, err
	}

	if challenge == nil {
		return nil, nil
	}

	document, err := s.cipher.Decrypt(challenge.EncryptedMessage)
	if err != nil {
		// an undecipherable challenge is indistinguishable from an
		// unknown one to the caller
		logger.FromContext(ctx).WithError(err).Errorln("decrypt challenge", requestID)
		return nil, nil
	}

	return document, nil
}

// loginDocument renders the eip-712 typed data document the wallet is
// asked to sign. The request id binds the signature to exactly one
// issued challenge.
func loginDocument(requestID string, walletType core.WalletType, chainID int64, issuedAt time.Time) ([]byte, error) {
	return json.Marshal(map[string]interface{}{
		"types": map[string]interface{}{
			"EIP712Domain": []map[string]string{
				{"name": "name", "type": "string"},
				{"name": "version", "type": "string"},
				{"name": "chainId", "type": "uint256"},
			},
			"Login": []map[string]string{
				{"name": "requestId", "type": "string"},
				{"name": "walletType", "type": "string"},
				{"name": "issuedAt", "type": "string"},
			},
		},
		"primaryType": "Login",
		"domain": map[string]interface{}{
			"name":    "Cardmarket",
			"version": "1",
			"chainId": chainID,
		},
		"message": map[string]interface{}{
			"requestId":  requestID,
			"walletType": string(walletType),
			"issuedAt":   issuedAt.UTC().Format(time.RFC3339),
		},
	})
}
