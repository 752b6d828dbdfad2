package quote

import "errors"

var (
	ErrSessionNotFound = errors.New("quote session not found")
	ErrUnknownOp       = errors.New("unknown quote operation")
)
