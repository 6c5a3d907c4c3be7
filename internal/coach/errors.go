package coach

import "errors"

var (
	ErrMemberNotFound     = errors.New("member not found")
	ErrUnknownCategory    = errors.New("unknown notification category")
	ErrUnknownLimitKind   = errors.New("unknown usage limit kind")
	ErrMemberTypeNotFound = errors.New("member type not found")
)
