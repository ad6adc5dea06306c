package domain

import "fmt"

// Code is a machine-readable error code. Codes are stable: callers and tests
// match on them, never on message text.
type Code string

const (
	// CodeUnknown represents an unclassified error.
	CodeUnknown Code = "UNKNOWN"

	// Input validation errors
	CodeInvalidSupply   Code = "INVALID_SUPPLY"
	CodeInvalidPrice    Code = "INVALID_PRICE"
	CodeInvalidAmount   Code = "INVALID_AMOUNT"
	CodeInvalidPeriod   Code = "INVALID_VOTING_PERIOD"
	CodeInvalidBps      Code = "INVALID_BASIS_POINTS"
	CodeInvalidIdentity Code = "INVALID_IDENTITY"
	CodeInvalidCategory Code = "INVALID_CATEGORY"
	CodeMissingField    Code = "MISSING_FIELD"
	CodeFieldTooLong    Code = "FIELD_TOO_LONG"
	CodeBatchTooLarge   Code = "BATCH_TOO_LARGE"
	CodeEmptyBatch      Code = "EMPTY_BATCH"

	// Authorization errors
	CodeUnauthorized   Code = "UNAUTHORIZED"
	CodeKycNotVerified Code = "KYC_NOT_VERIFIED"

	// State conflict errors
	CodeAlreadyInitialized   Code = "ALREADY_INITIALIZED"
	CodeAlreadyExists        Code = "ALREADY_EXISTS"
	CodePropertyNotActive    Code = "PROPERTY_NOT_ACTIVE"
	CodePropertySold         Code = "PROPERTY_SOLD"
	CodeAlreadyListedForSale Code = "ALREADY_LISTED_FOR_SALE"
	CodeNotListedForSale     Code = "NOT_LISTED_FOR_SALE"
	CodeNoSharesIssued       Code = "NO_SHARES_ISSUED"
	CodeVotingClosed         Code = "VOTING_CLOSED"
	CodeVotingStillOpen      Code = "VOTING_STILL_OPEN"
	CodeAlreadyVoted         Code = "ALREADY_VOTED"
	CodeAlreadyExecuted      Code = "ALREADY_EXECUTED"
	CodeListingInactive      Code = "LISTING_INACTIVE"

	// Balance errors
	CodeInsufficientSupply Code = "INSUFFICIENT_SUPPLY"
	CodeInsufficientShares Code = "INSUFFICIENT_SHARES"
	CodeNoSharesOwned      Code = "NO_SHARES_OWNED"
	CodeNothingToClaim     Code = "NOTHING_TO_CLAIM"

	// Arithmetic errors
	CodeMathOverflow Code = "MATH_OVERFLOW"

	// Lookup errors
	CodeNotFound Code = "NOT_FOUND"
)

// Kind groups error codes into the coarse categories callers branch on.
type Kind string

// Error kinds.
const (
	KindInvalidInput        Kind = "invalid_input"
	KindUnauthorized        Kind = "unauthorized"
	KindStateConflict       Kind = "state_conflict"
	KindInsufficientBalance Kind = "insufficient_balance"
	KindMathOverflow        Kind = "math_overflow"
	KindNotFound            Kind = "not_found"
	KindUnknown             Kind = "unknown"
)

// Kind maps the code to its error category.
func (c Code) Kind() Kind {
	switch c {
	case CodeInvalidSupply, CodeInvalidPrice, CodeInvalidAmount, CodeInvalidPeriod,
		CodeInvalidBps, CodeInvalidIdentity, CodeInvalidCategory, CodeMissingField,
		CodeFieldTooLong, CodeBatchTooLarge, CodeEmptyBatch:
		return KindInvalidInput
	case CodeUnauthorized, CodeKycNotVerified:
		return KindUnauthorized
	case CodeAlreadyInitialized, CodeAlreadyExists, CodePropertyNotActive,
		CodePropertySold, CodeAlreadyListedForSale, CodeNotListedForSale,
		CodeNoSharesIssued, CodeVotingClosed, CodeVotingStillOpen, CodeAlreadyVoted,
		CodeAlreadyExecuted, CodeListingInactive:
		return KindStateConflict
	case CodeInsufficientSupply, CodeInsufficientShares, CodeNoSharesOwned,
		CodeNothingToClaim:
		return KindInsufficientBalance
	case CodeMathOverflow:
		return KindMathOverflow
	case CodeNotFound:
		return KindNotFound
	}
	return KindUnknown
}

// Error is the ledger error type with a stable code and optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// NewError creates a ledger error with a code and message.
func NewError(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// NewErrorf creates a ledger error with a formatted message.
func NewErrorf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WrapError creates a ledger error that wraps an underlying cause.
func WrapError(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// CodeOf extracts the machine-readable code from err, walking the wrap chain.
// Non-ledger errors report CodeUnknown.
func CodeOf(err error) Code {
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e.Code
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return CodeUnknown
		}
		err = u.Unwrap()
	}
	return CodeUnknown
}

// KindOf extracts the error kind from err. Non-ledger errors report KindUnknown.
func KindOf(err error) Kind {
	return CodeOf(err).Kind()
}

// IsCode reports whether err carries the given code anywhere in its chain.
func IsCode(err error, code Code) bool {
	return CodeOf(err) == code
}
