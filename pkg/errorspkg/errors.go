// Package errorspkg provides common app errors.
package errorspkg

import "errors"

var (
	// ErrInternal is reported to clients instead of a recovered panic.
	ErrInternal = errors.New("internal server error")

	// ErrUnknownStoreDriver indicates a STORE_DRIVER value no account store exists for.
	ErrUnknownStoreDriver = errors.New("unknown store driver")

	// ErrUnknownTokenType indicates a TOKEN_TYPE value no token maker exists for.
	ErrUnknownTokenType = errors.New("unknown token type")
)
