// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios without
// inspecting driver-specific errors. For example, ErrConflict signals a
// duplicate unique key (registering an existing e-mail, creating a
// category whose (type, value) pair already exists), while ErrWrongType
// reports a reorder request that references rows outside the targeted
// taxonomy.
package repository

import (
	"errors"
	"strings"
)

// ErrConflict is returned when an insert or update collides with an
// existing unique key. Handlers translate it into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// ErrUserNotFound is returned when a user row cannot be found.
var ErrUserNotFound = errors.New("user not found")

// ErrTicketNotFound is returned when no ticket exists for a uid.
var ErrTicketNotFound = errors.New("ticket not found")

// ErrCategoryNotFound is returned when no category exists for an id.
var ErrCategoryNotFound = errors.New("category not found")

// ErrWrongType is returned by Reorder when one of the submitted ids does
// not belong to the targeted taxonomy. Handlers translate it into 400 and
// the transaction guarantees that no row was touched.
var ErrWrongType = errors.New("id does not belong to category type")

// isDuplicateKey detects the MySQL duplicate-entry error (1062).
func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}
