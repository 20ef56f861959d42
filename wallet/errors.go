package wallet

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// Error kinds. Every error returned by Service wraps exactly one of them.
var (
	// ErrNotFound means the referenced user row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrMissingWallet means the user exists but has no usable wallet address.
	ErrMissingWallet = errors.New("missing wallet")
	// ErrNoWalletLinked is returned by UnlinkWallet when there is nothing to unlink.
	ErrNoWalletLinked = errors.New("no wallet linked")
	// ErrStorage wraps transport and constraint failures from the database.
	ErrStorage = errors.New("storage failure")
	// ErrInvariant signals corrupted data and is never retried.
	ErrInvariant = errors.New("invariant violated")
	// ErrInvalidInput is returned for arguments that cannot be acted on, such as an empty address.
	ErrInvalidInput = errors.New("invalid input")
)

// Error carries a human readable message next to its kind and the underlying cause.
type Error struct {
	Kind    error
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Kind, e.Cause}
	}
	return []error{e.Kind}
}

func newError(kind error, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// fail logs message on the event logger and returns it as an *Error.
func fail(ctx context.Context, kind error, message string, cause error) error {
	err := newError(kind, message, cause)
	logFailure(ctx, err)
	return err
}

func logFailure(ctx context.Context, err error) {
	var e *Error
	if !errors.As(err, &e) {
		zerolog.Ctx(ctx).Error().Err(err).Send()
		return
	}

	ev := zerolog.Ctx(ctx).Error().Str("kind", e.Kind.Error())
	if e.Cause != nil {
		ev = ev.Err(e.Cause)
	}
	ev.Msg(e.Message)
}

// Message returns the user facing text of err.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
