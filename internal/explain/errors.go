package explain

import "errors"

// ErrEmpty is returned when a backend produced no explanation text.
var ErrEmpty = errors.New("empty explanation")
