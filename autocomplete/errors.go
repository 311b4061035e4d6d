package autocomplete

import "errors"

var (
	// ErrSuperseded is returned when newer input arrived during the debounce
	// window. No lookup was made.
	ErrSuperseded = errors.New("autocomplete input superseded")

	// ErrStale is returned when newer input was dispatched or answered from
	// cache while this lookup was in flight. Its results are dropped.
	ErrStale = errors.New("autocomplete response stale")
)
