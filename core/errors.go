package core

import "strconv"

// ErrorCode int
type ErrorCode int

const (
	// ErrUnknown unknown
	ErrUnknown ErrorCode = 100000
	// ErrOperationForbidden operation forbidden
	ErrOperationForbidden ErrorCode = 100001

	// ErrUnauthorized generic authentication failure. Every auth check
	// collapses to this code so callers cannot tell which one failed.
	ErrUnauthorized ErrorCode = 100100

	// ErrInvalidArguments bad input shape
	ErrInvalidArguments ErrorCode = 100200
	// ErrInvalidTokensCount non positive token count
	ErrInvalidTokensCount ErrorCode = 100201
	// ErrInsufficientBalance not enough tokens owned
	ErrInsufficientBalance ErrorCode = 100202
	// ErrCurrencyNotAllowed currency not in the allow list
	ErrCurrencyNotAllowed ErrorCode = 100203
	// ErrStalePublishFrom publish window starts in the past
	ErrStalePublishFrom ErrorCode = 100204
	// ErrInvalidPublishWindow publish_to not after publish_from
	ErrInvalidPublishWindow ErrorCode = 100205
	// ErrCardNotFound no card
	ErrCardNotFound ErrorCode = 100206
	// ErrSaleNotFound no sale
	ErrSaleNotFound ErrorCode = 100207

	// ErrOrderHash the exchange contract could not hash the order
	ErrOrderHash ErrorCode = 100300
	// ErrBlockSource block source unavailable
	ErrBlockSource ErrorCode = 100301

	// ErrJobNotProvisioned cursor row missing, a provisioning bug
	ErrJobNotProvisioned ErrorCode = 100400
	// ErrClientNotProvisioned client secret record missing
	ErrClientNotProvisioned ErrorCode = 100401
)

func (e ErrorCode) String() string {
	return strconv.Itoa(int(e))
}

func (e ErrorCode) Error() string {
	switch e {
	case ErrUnauthorized:
		return "unauthorized"
	case ErrInvalidArguments:
		return "invalid arguments"
	case ErrInvalidTokensCount:
		return "tokens count must be positive"
	case ErrInsufficientBalance:
		return "insufficient token balance"
	case ErrCurrencyNotAllowed:
		return "currency not allowed"
	case ErrStalePublishFrom:
		return "publish_from is in the past"
	case ErrInvalidPublishWindow:
		return "publish_to must be after publish_from"
	case ErrCardNotFound:
		return "card not found"
	case ErrSaleNotFound:
		return "sale not found"
	case ErrOrderHash:
		return "cannot construct signable order"
	case ErrBlockSource:
		return "block source unavailable"
	case ErrJobNotProvisioned:
		return "sync job not provisioned"
	case ErrClientNotProvisioned:
		return "client not provisioned"
	}
	return e.String()
}
