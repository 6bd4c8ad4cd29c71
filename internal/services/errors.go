// internal/services/errors.go
package services

import "errors"

// Error kinds returned by the registry services. Every operation fails
// with exactly one of these (wrapped with context where useful), so
// handlers can map them to precise HTTP responses with errors.Is.
var (
	// ErrNotAuthorized: the caller lacks the required relationship
	// (licensor, licensee, or tester) to the target entity.
	ErrNotAuthorized = errors.New("not authorized")

	// ErrNotFound: the referenced license, payment, or trial id does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidArgument: out-of-range royalty rate or score, non-positive
	// duration or amount, or a malformed variety reference.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrLicenseInactive: a payment was attempted against a terminated or
	// expired license.
	ErrLicenseInactive = errors.New("license is not active")

	// ErrAlreadyTerminated: terminate was attempted on a license that is
	// no longer stored-active.
	ErrAlreadyTerminated = errors.New("license already terminated")

	// ErrAlreadyCompleted: complete was attempted on a field trial that
	// already has results.
	ErrAlreadyCompleted = errors.New("field trial already completed")
)
