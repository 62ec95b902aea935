package signature

import (
	"encoding/json"

	"cardmarket/core"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
)

type signatureVerifier struct{}

// New new signature verifier
func New() core.SignatureVerifier {
	return &signatureVerifier{}
}

func (s *signatureVerifier) VerifyTypedData(document []byte, signature, address string) bool {
	var typedData apitypes.TypedData
	if err := json.Unmarshal(document, &typedData); err != nil {
		return false
	}

	digest, _, err := apitypes.TypedDataAndHash(typedData)
	if err != nil {
		return false
	}

	return recoverMatches(digest, signature, address)
}

func (s *signatureVerifier) VerifyPersonal(message []byte, signature, address string) bool {
	return recoverMatches(accounts.TextHash(message), signature, address)
}

// recoverMatches recovers the signer of digest and compares checksum
// cased addresses. Every malformed input path returns false.
func recoverMatches(digest []byte, signature, address string) bool {
	if !common.IsHexAddress(address) {
		return false
	}

	sig, err := hexutil.Decode(signature)
	if err != nil || len(sig) != crypto.SignatureLength {
		return false
	}

	// wallets emit v as 27/28, go-ethereum expects 0/1
	v := sig[crypto.RecoveryIDOffset]
	if v >= 27 {
		sig = append([]byte(nil), sig...)
		sig[crypto.RecoveryIDOffset] = v - 27
	}

	pub, err := crypto.SigToPub(digest, sig)
	if err != nil {
		return false
	}

	recovered := crypto.PubkeyToAddress(*pub)
	return recovered.Hex() == common.HexToAddress(address).Hex()
}
