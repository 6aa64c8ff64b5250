package dealer

import "errors"

var (
	ErrDealerNotFound    = errors.New("dealer not found")
	ErrValidation        = errors.New("validation failed")
	ErrCapacityExceeded  = errors.New("carousel is full")
	ErrDuplicateEntry    = errors.New("dealer already in carousel")
	ErrImmutableID       = errors.New("dealer id cannot be changed")
	ErrInvalidSlot       = errors.New("invalid image slot")
	ErrQueueUnavailable  = errors.New("image task queue is not configured")
	ErrIDExhausted       = errors.New("could not allocate a unique dealer id")
	ErrUnsupportedExport = errors.New("unsupported snapshot version")
	ErrUploadExpired     = errors.New("staged upload is gone")
)

const (
	ReasonNameRequired  = "Dealer name is required"
	ReasonIDRequired    = "Dealer ID is required"
	ReasonImageRequired = "At least one image is required (Avatar or any outfit image)"
)

// ValidationError reports the first rule a dealer breaks.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
