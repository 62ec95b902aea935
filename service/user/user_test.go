package user

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"cardmarket/core"
	"cardmarket/pkg/crypt"
	"cardmarket/service/challenge"
	"cardmarket/service/signature"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memChallenges struct {
	rows map[string]*core.SignatureChallenge
}

func (s *memChallenges) Create(ctx context.Context, c *core.SignatureChallenge) error {
	if s.rows == nil {
		s.rows = map[string]*core.SignatureChallenge{}
	}
	s.rows[c.RequestID] = c
	return nil
}

func (s *memChallenges) Find(ctx context.Context, requestID string, now time.Time) (*core.SignatureChallenge, error) {
	c, ok := s.rows[requestID]
	if !ok || c.ExpireAt.Before(now) {
		return nil, nil
	}
	return c, nil
}

type memUsers struct {
	rows []*core.User
}

func (s *memUsers) Create(ctx context.Context, user *core.User) error {
	user.ID = int64(len(s.rows) + 1)
	s.rows = append(s.rows, user)
	return nil
}

func (s *memUsers) Find(ctx context.Context, id int64) (*core.User, error) {
	for _, u := range s.rows {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (s *memUsers) FindByAddress(ctx context.Context, address string) (*core.User, error) {
	for _, u := range s.rows {
		if u.Address == address {
			return u, nil
		}
	}
	return nil, nil
}

func (s *memUsers) FindByToken(ctx context.Context, token string) (*core.User, error) {
	for _, u := range s.rows {
		if u.AccessToken == token {
			return u, nil
		}
	}
	return nil, nil
}

func (s *memUsers) UpdateToken(ctx context.Context, user *core.User, token string) error {
	user.AccessToken = token
	return nil
}

const testKey = "603deb1015ca71be2b73aef0857d77811f352c073b6108d72d9810a30914dff4"

func newServices(t *testing.T, ttl time.Duration) (core.ChallengeService, core.UserService, *memUsers) {
	cipher, err := crypt.New(testKey)
	require.Nil(t, err)

	challenges := challenge.New(&memChallenges{}, cipher, 1, ttl)
	users := &memUsers{}

	return challenges, New(users, challenges, signature.New()), users
}

func TestLoginCreatesUser(t *testing.T) {
	challenges, svc, users := newServices(t, 10*time.Minute)
	ctx := context.Background()

	requestID, document, err := challenges.Issue(ctx, core.WalletTypePrimary)
	require.Nil(t, err)
	require.NotEmpty(t, requestID)

	key, err := crypto.GenerateKey()
	require.Nil(t, err)
	address := crypto.PubkeyToAddress(key.PublicKey).Hex()

	var typedData apitypes.TypedData
	require.Nil(t, json.Unmarshal(document, &typedData))
	digest, _, err := apitypes.TypedDataAndHash(typedData)
	require.Nil(t, err)

	sig, err := crypto.Sign(digest, key)
	require.Nil(t, err)
	sig[crypto.RecoveryIDOffset] += 27

	user, err := svc.Login(ctx, requestID, hexutil.Encode(sig), address)
	require.Nil(t, err)

	assert.Equal(t, address, user.Address)
	assert.NotEmpty(t, user.AccessToken)
	assert.Len(t, users.rows, 1)

	// the credential resolves back to the same user
	got, err := svc.Auth(ctx, user.AccessToken)
	require.Nil(t, err)
	assert.Equal(t, user.ID, got.ID)

	// second login for the same address reuses the user row
	requestID2, document2, err := challenges.Issue(ctx, core.WalletTypePrimary)
	require.Nil(t, err)

	require.Nil(t, json.Unmarshal(document2, &typedData))
	digest2, _, err := apitypes.TypedDataAndHash(typedData)
	require.Nil(t, err)
	sig2, err := crypto.Sign(digest2, key)
	require.Nil(t, err)
	sig2[crypto.RecoveryIDOffset] += 27

	_, err = svc.Login(ctx, requestID2, hexutil.Encode(sig2), address)
	require.Nil(t, err)
	assert.Len(t, users.rows, 1)
}

func TestLoginExpiredChallenge(t *testing.T) {
	challenges, svc, _ := newServices(t, -time.Minute)
	ctx := context.Background()

	requestID, document, err := challenges.Issue(ctx, core.WalletTypePrimary)
	require.Nil(t, err)

	key, err := crypto.GenerateKey()
	require.Nil(t, err)

	var typedData apitypes.TypedData
	require.Nil(t, json.Unmarshal(document, &typedData))
	digest, _, err := apitypes.TypedDataAndHash(typedData)
	require.Nil(t, err)
	sig, err := crypto.Sign(digest, key)
	require.Nil(t, err)
	sig[crypto.RecoveryIDOffset] += 27

	_, err = svc.Login(ctx, requestID, hexutil.Encode(sig), crypto.PubkeyToAddress(key.PublicKey).Hex())
	assert.Equal(t, core.ErrUnauthorized, err)
}

func TestLoginSignatureMismatch(t *testing.T) {
	challenges, svc, _ := newServices(t, 10*time.Minute)
	ctx := context.Background()

	requestID, document, err := challenges.Issue(ctx, core.WalletTypeAlternate)
	require.Nil(t, err)

	key, err := crypto.GenerateKey()
	require.Nil(t, err)
	claimed, err := crypto.GenerateKey()
	require.Nil(t, err)

	var typedData apitypes.TypedData
	require.Nil(t, json.Unmarshal(document, &typedData))
	digest, _, err := apitypes.TypedDataAndHash(typedData)
	require.Nil(t, err)
	sig, err := crypto.Sign(digest, key)
	require.Nil(t, err)
	sig[crypto.RecoveryIDOffset] += 27

	// claimed address is not the signer
	_, err = svc.Login(ctx, requestID, hexutil.Encode(sig), crypto.PubkeyToAddress(claimed.PublicKey).Hex())
	assert.Equal(t, core.ErrUnauthorized, err)
}

func TestLoginMalformedInput(t *testing.T) {
	_, svc, _ := newServices(t, 10*time.Minute)
	ctx := context.Background()

	_, err := svc.Login(ctx, "not-a-uuid", "0x00", "0x0000000000000000000000000000000000000001")
	assert.Equal(t, core.ErrInvalidArguments, err)

	_, err = svc.Login(ctx, "9d9c86e3-07ce-44c7-b8e7-a29e88ec7863", "0x00", "not an address")
	assert.Equal(t, core.ErrInvalidArguments, err)
}

func TestLoginCorruptedChallenge(t *testing.T) {
	cipher, err := crypt.New(testKey)
	require.Nil(t, err)

	store := &memChallenges{}
	challenges := challenge.New(store, cipher, 1, 10*time.Minute)
	svc := New(&memUsers{}, challenges, signature.New())
	ctx := context.Background()

	requestID, document, err := challenges.Issue(ctx, core.WalletTypePrimary)
	require.Nil(t, err)

	key, err := crypto.GenerateKey()
	require.Nil(t, err)

	var typedData apitypes.TypedData
	require.Nil(t, json.Unmarshal(document, &typedData))
	digest, _, err := apitypes.TypedDataAndHash(typedData)
	require.Nil(t, err)
	sig, err := crypto.Sign(digest, key)
	require.Nil(t, err)
	sig[crypto.RecoveryIDOffset] += 27

	// flip one ciphertext nibble; the row still exists but the gcm tag
	// check fails, and the caller just sees unauthorized
	blob := &store.rows[requestID].EncryptedMessage
	if blob.Content[0] == 'a' {
		blob.Content = "b" + blob.Content[1:]
	} else {
		blob.Content = "a" + blob.Content[1:]
	}

	_, err = svc.Login(ctx, requestID, hexutil.Encode(sig), crypto.PubkeyToAddress(key.PublicKey).Hex())
	assert.Equal(t, core.ErrUnauthorized, err)
}

func TestLoginUnknownChallenge(t *testing.T) {
	_, svc, _ := newServices(t, 10*time.Minute)

	_, err := svc.Login(context.Background(), "9d9c86e3-07ce-44c7-b8e7-a29e88ec7863", "0x00", "0x0000000000000000000000000000000000000001")
	assert.Equal(t, core.ErrUnauthorized, err)
}
