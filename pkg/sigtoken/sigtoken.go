// Package sigtoken computes and validates hmac request tokens for
// external api clients. The token covers a canonical rendering of the
// whole request, so changing any part of it invalidates the token.
package sigtoken

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/url"
)

// Compute derive the token for a request. Query keys are flattened to
// their first value and serialized with lexicographically sorted keys.
func Compute(secret, method, path string, query url.Values, body []byte) (string, error) {
	canonical, err := canonicalize(method, path, query, body)
	if err != nil {
		return "", err
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(append(canonical, []byte("-"+secret)...))
	return hex.EncodeToString(mac.Sum(nil)), nil
}

// Validate recompute and compare. Any internal failure (missing
// secret, broken query) degrades to false, never an error: token
// validity is a predicate on the authentication hot path.
func Validate(token, secret, method, path string, query url.Values, body []byte) bool {
	if secret == "" || token == "" {
		return false
	}

	want, err := Compute(secret, method, path, query, body)
	if err != nil {
		return false
	}

	return hmac.Equal([]byte(token), []byte(want))
}

func canonicalize(method, path string, query url.Values, body []byte) ([]byte, error) {
	flat := make(map[string]string, len(query))
	for key := range query {
		flat[key] = query.Get(key)
	}

	// json object keys are emitted in sorted order
	queryJSON, err := json.Marshal(flat)
	if err != nil {
		return nil, err
	}

	if len(body) == 0 {
		body = []byte("{}")
	}

	return []byte(fmt.Sprintf("%s-%s-%s-%s", method, path, queryJSON, body)), nil
}
