// Package errors holds sentinel errors shared across layers.
package errors

import "errors"

// ErrKeyNotFound is returned by key/value backends for a missing key.
var ErrKeyNotFound = errors.New("key not found")
