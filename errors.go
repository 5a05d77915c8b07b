package registration

import (
	"errors"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
)

const (
	// TextCodeUserNotFound identifies lookups for missing users
	TextCodeUserNotFound = "USER_NOT_FOUND"
	// TextCodeProfileNotFound identifies lookups for missing profiles
	TextCodeProfileNotFound = "REGISTRATION_PROFILE_NOT_FOUND"
	// TextCodeKeyMalformed identifies keys failing the shape check
	TextCodeKeyMalformed = "ACTIVATION_KEY_MALFORMED"
	// TextCodeKeyExpired identifies keys outside the activation window
	TextCodeKeyExpired = "ACTIVATION_KEY_EXPIRED"
	// TextCodeKeyConsumed identifies reuse of an already consumed key
	TextCodeKeyConsumed = "ACTIVATION_KEY_CONSUMED"
	// TextCodeDuplicateProfile identifies one-profile-per-user violations
	TextCodeDuplicateProfile = "DUPLICATE_REGISTRATION_PROFILE"
	// TextCodeProfileNotActivated identifies approval of a pending profile
	TextCodeProfileNotActivated = "REGISTRATION_PROFILE_NOT_ACTIVATED"
)

// ErrUserNotFound is returned when no user matches the given identifier
var ErrUserNotFound = goerrors.New("user not found", goerrors.CategoryNotFound).
	WithTextCode(TextCodeUserNotFound)

// ErrProfileNotFound is returned when no profile matches the given key or id
var ErrProfileNotFound = goerrors.New("registration profile not found", goerrors.CategoryNotFound).
	WithTextCode(TextCodeProfileNotFound)

// ErrKeyMalformed is returned before any lookup when the key fails the
// lowercase hex-40 shape check
var ErrKeyMalformed = goerrors.New("activation key is malformed", goerrors.CategoryValidation).
	WithTextCode(TextCodeKeyMalformed)

// ErrKeyExpired is returned when the activation window has elapsed
var ErrKeyExpired = goerrors.New("activation key has expired", goerrors.CategoryConflict).
	WithTextCode(TextCodeKeyExpired)

// ErrKeyConsumed is returned when a sentinel key is presented again
var ErrKeyConsumed = goerrors.New("activation key already consumed", goerrors.CategoryConflict).
	WithTextCode(TextCodeKeyConsumed)

// ErrDuplicateProfile is returned when a user already has a profile
var ErrDuplicateProfile = goerrors.New("registration profile already exists for user", goerrors.CategoryConflict).
	WithTextCode(TextCodeDuplicateProfile)

// ErrProfileNotActivated is returned when approving a profile that never
// completed the activation step
var ErrProfileNotActivated = goerrors.New("registration profile has not been activated", goerrors.CategoryConflict).
	WithTextCode(TextCodeProfileNotActivated)

// ErrNoEmptyString rejects empty passwords before hashing
var ErrNoEmptyString = goerrors.New("value should not be an empty string", goerrors.CategoryValidation).
	WithTextCode("NO_EMPTY_STRING")

// ErrMismatchedHashAndPassword is returned when a cleartext password does
// not match its stored hash
var ErrMismatchedHashAndPassword = goerrors.New("the credentials provided are invalid", goerrors.CategoryAuth).
	WithTextCode("INVALID_CREDENTIALS")

// IsActivationFailure collapses the lifecycle error taxonomy into the
// boolean convention exposed at adapter boundaries: "the operation did not
// succeed" without distinguishing why. Storage and mailer faults are NOT
// activation failures and keep propagating.
func IsActivationFailure(err error) bool {
	if err == nil {
		return false
	}

	for _, target := range []error{
		ErrUserNotFound,
		ErrProfileNotFound,
		ErrKeyMalformed,
		ErrKeyExpired,
		ErrKeyConsumed,
		ErrProfileNotActivated,
	} {
		if errors.Is(err, target) {
			return true
		}
	}

	return repository.IsRecordNotFound(err)
}
