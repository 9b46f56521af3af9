package domain

import "errors"

var ErrAuthFailed = errors.New("Invalid card number or PIN")
var ErrInvalidAmount = errors.New("Invalid amount")
var ErrPolicyViolation = errors.New("Amount violates transaction policy")
var ErrInvalidPinFormat = errors.New("PIN must be exactly 4 digits")
var ErrSessionClosed = errors.New("Session is closed")
var ErrRecordNotFound = errors.New("Record not found")

// Error codes carried in response envelopes so callers can branch
// without string-matching messages.
const (
	CodeAuthFailed       = "AUTH_FAILED"
	CodeInvalidAmount    = "INVALID_AMOUNT"
	CodePolicyViolation  = "POLICY_VIOLATION"
	CodeInvalidPinFormat = "INVALID_PIN_FORMAT"
	CodeSessionClosed    = "SESSION_CLOSED"
	CodeNotFound         = "NOT_FOUND"
	CodeValidationFailed = "VALIDATION_FAILED"
	CodeInternal         = "INTERNAL"
)

// ErrorCode classifies err into one of the codes above.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrAuthFailed):
		return CodeAuthFailed
	case errors.Is(err, ErrInvalidAmount):
		return CodeInvalidAmount
	case errors.Is(err, ErrPolicyViolation):
		return CodePolicyViolation
	case errors.Is(err, ErrInvalidPinFormat):
		return CodeInvalidPinFormat
	case errors.Is(err, ErrSessionClosed):
		return CodeSessionClosed
	case errors.Is(err, ErrRecordNotFound):
		return CodeNotFound
	default:
		return CodeInternal
	}
}
