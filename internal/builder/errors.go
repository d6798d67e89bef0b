// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package builder

import (
	"context"
	"errors"
	"fmt"
)

// Failure classes surfaced by the controller. Handlers match these with
// errors.Is to pick the user-facing notice; the underlying cause stays
// wrapped for logging.
var (
	// ErrValidation means a required field was missing or malformed.
	// Raised before any store call is made.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound means the id (or id+owner pair) did not resolve.
	ErrNotFound = errors.New("not found")

	// ErrTimeout means a store call exceeded its deadline.
	ErrTimeout = errors.New("store call timed out")

	// ErrStore wraps any other transport or database failure.
	ErrStore = errors.New("store failure")
)

// classify maps a raw store error onto the taxonomy above.
func classify(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w: %v", op, ErrTimeout, err)
	}
	return fmt.Errorf("%s: %w: %v", op, ErrStore, err)
}
