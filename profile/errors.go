package profile

import "errors"

var (
	// ErrUnknownProfile indicates a caller asked for a profile name that was
	// never registered. This is a caller bug: the call is not retried and
	// the operation is never invoked.
	ErrUnknownProfile = errors.New("profile: unknown profile")

	// ErrDuplicateProfile indicates a configuration declared the same
	// profile name twice.
	ErrDuplicateProfile = errors.New("profile: duplicate profile")

	// ErrNoProfiles indicates a configuration with no profiles at all.
	ErrNoProfiles = errors.New("profile: no profiles configured")

	// ErrMissingName indicates a profile definition without a name.
	ErrMissingName = errors.New("profile: profile name is required")
)
