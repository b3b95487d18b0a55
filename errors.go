package sx1255

import "errors"

var (
	// ErrOutOfRange reports a physical value that does not map to any code
	// the chip can represent for that field.
	ErrOutOfRange = errors.New("value out of representable range")

	// ErrInvalidConfiguration reports two fields that are individually valid
	// but mutually inconsistent per the datasheet.
	ErrInvalidConfiguration = errors.New("inconsistent configuration")

	// ErrBus reports a transport failure from the bus adapter. The library
	// never retries; retry policy belongs to the adapter or the caller.
	ErrBus = errors.New("register bus failure")
)
