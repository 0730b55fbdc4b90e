package repository

import "errors"

// ErrStateNotFound is returned when no feed snapshot has been stored yet.
var ErrStateNotFound = errors.New("state not found")
