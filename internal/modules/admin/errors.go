package admin

import "errors"

var ErrFlightNotFound = errors.New("flight not found")
