package dealer

import "errors"

var ErrInvalidSlot = errors.New("slot must be \"avatar\" or a stage index")
