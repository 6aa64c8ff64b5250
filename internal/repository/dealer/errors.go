package dealer

import "errors"

var (
	ErrDealerNotFound = errors.New("dealer not found")
	ErrDuplicateKey   = errors.New("duplicate key violation")
	ErrStageNotFound  = errors.New("outfit stage not found")
	ErrCorruptCache   = errors.New("local cache holds malformed data")
)
