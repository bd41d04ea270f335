// Error codes of the API envelope. Generic codes mirror HTTP status
// semantics; the domain-specific ones carry business outcomes the status
// alone cannot, like a wallet that cannot cover a submission.
package handlers

const (
	ErrCodeBadRequest   = "bad_request"
	ErrCodeUnauthorized = "unauthorized"
	ErrCodeForbidden    = "forbidden"
	ErrCodeNotFound     = "not_found"
	ErrCodeConflict     = "conflict"
	ErrCodeRateLimited  = "too_many_requests"
	ErrCodeInternal     = "internal_error"

	// Domain-specific:
	ErrCodeInsufficientBalance = "insufficient_balance"
	ErrCodeAccountInactive     = "account_inactive"
	ErrCodeSyncFailed          = "sync_failed"
	ErrCodeMethodNotAllowed    = "method_not_allowed"
)
