package user

import (
	"context"

	"cardmarket/core"
	"cardmarket/pkg/security"

	"github.com/asaskevich/govalidator"
	"github.com/ethereum/go-ethereum/common"
)

type userService struct {
	users      core.UserStore
	challenges core.ChallengeService
	verifier   core.SignatureVerifier
}

// New new user service
func New(users core.UserStore, challenges core.ChallengeService, verifier core.SignatureVerifier) core.UserService {
	return &userService{
		users:      users,
		challenges: challenges,
		verifier:   verifier,
	}
}

// Login authenticates a signed challenge. All authentication failures
// collapse to ErrUnauthorized so callers cannot tell which check
// rejected them.
func (s *userService) Login(ctx context.Context, requestID, signature, address string) (*core.User, error) {
	if !govalidator.IsUUID(requestID) || !common.IsHexAddress(address) {
		return nil, core.ErrInvalidArguments
	}

	document, err := s.challenges.Consume(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if document == nil {
		// unknown, expired, or undecipherable challenge
		return nil, core.ErrUnauthorized
	}

	if !s.verifier.VerifyTypedData(document, signature, address) {
		return nil, core.ErrUnauthorized
	}

	checksum := common.HexToAddress(address).Hex()

	user, err := s.users.FindByAddress(ctx, checksum)
	if err != nil {
		return nil, err
	}

	if user == nil {
		user = &core.User{Address: checksum}
		if err := s.users.Create(ctx, user); err != nil {
			return nil, err
		}
	}

	token, err := security.RandomToken(32)
	if err != nil {
		return nil, err
	}

	if err := s.users.UpdateToken(ctx, user, token); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *userService) Auth(ctx context.Context, accessToken string) (*core.User, error) {
	if accessToken == "" {
		return nil, core.ErrUnauthorized
	}

	user, err := s.users.FindByToken(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	if user == nil {
		return nil, core.ErrUnauthorized
	}

	return user, nil
}
