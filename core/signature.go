package core

// SignatureVerifier recovers signing addresses from signatures and
// compares them against a claimed address. Both modes are pure
// predicates: malformed input yields false, never a panic or error.
type SignatureVerifier interface {
	// VerifyTypedData checks a signature over an eip-712 typed data
	// document (json encoded).
	VerifyTypedData(document []byte, signature, address string) bool
	// VerifyPersonal checks a signature over a raw message hashed with
	// the personal sign prefix.
	VerifyPersonal(message []byte, signature, address string) bool
}
