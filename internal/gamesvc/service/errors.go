package service

import "errors"

// ErrValidation is returned for malformed input such as an empty player name.
var ErrValidation = errors.New("validation failed")
