package services

import "errors"

// ErrDuplicateIdentity is returned when a username or email is already
// registered, whether caught by the pre-insert check or by the unique
// index on insert.
var ErrDuplicateIdentity = errors.New("username or email already registered")
