package storage

import "errors"

// ErrSessionNotFound indicates that no stored session exists
var ErrSessionNotFound = errors.New("session not found")
