package entity

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	KindValidation   ErrorKind = "VALIDATION"
	KindNotFound     ErrorKind = "NOT_FOUND"
	KindConflict     ErrorKind = "CONFLICT"
	KindBusinessRule ErrorKind = "BUSINESS_RULE"
	KindInternal     ErrorKind = "INTERNAL"
)

// Error is a domain failure the caller can act on. Two errors are the same
// failure when their codes match, so errors.Is works against the sentinels
// below even after WithMessage/WithDetail copies.
type Error struct {
	Kind    ErrorKind   `json:"kind"`
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Detail  interface{} `json:"detail,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

func (e *Error) WithMessage(format string, args ...interface{}) *Error {
	cp := *e
	cp.Message = fmt.Sprintf(format, args...)
	return &cp
}

func (e *Error) WithDetail(detail interface{}) *Error {
	cp := *e
	cp.Detail = detail
	return &cp
}

var (
	ErrInvalidRequest            = &Error{Kind: KindValidation, Code: "INVALID_REQUEST", Message: "invalid request"}
	ErrDuplicatePeriod           = &Error{Kind: KindValidation, Code: "DUPLICATE_PERIOD", Message: "an active statement already exists for this account and period"}
	ErrEmptyImport               = &Error{Kind: KindValidation, Code: "EMPTY_IMPORT", Message: "statement has no items"}
	ErrDuplicateLine             = &Error{Kind: KindValidation, Code: "DUPLICATE_LINE", Message: "line number repeated in import"}
	ErrRunningBalanceMismatch    = &Error{Kind: KindValidation, Code: "RUNNING_BALANCE_MISMATCH", Message: "running balance does not follow from previous line"}
	ErrInvalidJustificationTotal = &Error{Kind: KindValidation, Code: "INVALID_JUSTIFICATION_TOTAL", Message: "justifications do not cover the unexplained amount"}
	ErrClosingBalanceMismatch    = &Error{Kind: KindValidation, Code: "CLOSING_BALANCE_MISMATCH", Message: "statement lines do not add up to the asserted closing balance"}
	ErrMovementAccountMismatch   = &Error{Kind: KindValidation, Code: "MOVEMENT_ACCOUNT_MISMATCH", Message: "movement belongs to another bank account"}

	ErrNotFound = &Error{Kind: KindNotFound, Code: "NOT_FOUND", Message: "not found"}

	ErrAlreadyMatched         = &Error{Kind: KindConflict, Code: "ALREADY_MATCHED", Message: "statement item is already matched"}
	ErrMovementAlreadyClaimed = &Error{Kind: KindConflict, Code: "MOVEMENT_ALREADY_CLAIMED", Message: "movement is linked to another statement item"}
	ErrNotMatched             = &Error{Kind: KindConflict, Code: "NOT_MATCHED", Message: "statement item is not matched"}
	ErrNotSuspense            = &Error{Kind: KindConflict, Code: "NOT_SUSPENSE", Message: "statement item is not in suspense"}
	ErrStatementClosed        = &Error{Kind: KindConflict, Code: "STATEMENT_CLOSED", Message: "statement is closed"}
	ErrAutoMatchInProgress    = &Error{Kind: KindConflict, Code: "AUTO_MATCH_IN_PROGRESS", Message: "auto-match already running for this statement"}

	ErrUnresolvedDifferences = &Error{Kind: KindBusinessRule, Code: "UNRESOLVED_DIFFERENCES", Message: "statement has unresolved differences"}
)

// KindOf reports the kind of a domain error, or KindInternal for anything else.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// ClaimConflict names the current holder of a movement claim.
type ClaimConflict struct {
	MovementID    int64  `json:"movement_id"`
	ClaimedItemID *int64 `json:"claimed_item_id,omitempty"`
}

// StatementStateDetail reports where a statement stood when an operation was refused.
type StatementStateDetail struct {
	StatementID int64  `json:"statement_id"`
	State       string `json:"state"`
}

// JustificationMismatch is attached to INVALID_JUSTIFICATION_TOTAL.
type JustificationMismatch struct {
	Expected  string `json:"expected"`
	Got       string `json:"got"`
	Tolerance string `json:"tolerance"`
}

// NotFound builds a NOT_FOUND error for the given resource.
func NotFound(resource string, id int64) *Error {
	return ErrNotFound.WithMessage("%s %d not found", resource, id)
}

// Invalid builds an INVALID_REQUEST error.
func Invalid(format string, args ...interface{}) *Error {
	return ErrInvalidRequest.WithMessage(format, args...)
}
