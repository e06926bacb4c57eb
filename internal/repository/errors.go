// Package repository implements the durable stores on top of MySQL.
// Sentinel values defined here let the handler layer distinguish
// failure scenarios without string matching. Stores return raw driver
// errors otherwise; the booking engine wraps those into its own
// taxonomy before they reach a handler.
package repository

import "errors"

// ErrEmailExists is returned by the user store when registration hits
// the unique email constraint. Handlers translate this into HTTP 409.
var ErrEmailExists = errors.New("email already exists")
