// Package repository holds the user store backends.  Both backends return the
// sentinel values below so callers can tell a lookup miss or an unresolvable
// unique-key conflict from an ordinary driver failure.
package repository

import "errors"

// ErrUserNotFound is returned when no record matches the external id.
var ErrUserNotFound = errors.New("user not found")

// ErrEmailTaken is returned when the email of an upsert already belongs to a
// record with a different external id.  Retrying the same write cannot fix it.
var ErrEmailTaken = errors.New("email already belongs to another user")

// errDuplicateExternalID marks a lost insert race on the external id key.  The
// backends retry such writes as updates and never return it.
var errDuplicateExternalID = errors.New("duplicate external id")
