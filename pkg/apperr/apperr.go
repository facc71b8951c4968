package apperr

import "errors"

// Error kinds shared by every domain service. Domain packages declare their own
// errors bound to one of these kinds, so transports can classify an error without
// knowing which package produced it.
var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidState     = errors.New("invalid state")
	ErrSignatureInvalid = errors.New("signature invalid")
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrLimitExceeded    = errors.New("limit exceeded")
)

var kinds = []error{
	ErrNotFound,
	ErrInvalidState,
	ErrSignatureInvalid,
	ErrInvalidArgument,
	ErrLimitExceeded,
}

// Error is a domain error with a human readable message and a kind.
type Error struct {
	Kind    error
	Message string
}

// New returns a domain error of the given kind.
//
// Example:
//
//	var ErrPlanNotFound = apperr.New(apperr.ErrNotFound, "billing: plan not found")
//
//	errors.Is(ErrPlanNotFound, apperr.ErrNotFound) // true
func New(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// KindOf returns the kind of err, or nil when err does not belong to the taxonomy.
func KindOf(err error) error {
	if err == nil {
		return nil
	}
	for _, kind := range kinds {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsInvalidState(err error) bool {
	return errors.Is(err, ErrInvalidState)
}

func IsSignatureInvalid(err error) bool {
	return errors.Is(err, ErrSignatureInvalid)
}

func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}

func IsLimitExceeded(err error) bool {
	return errors.Is(err, ErrLimitExceeded)
}
