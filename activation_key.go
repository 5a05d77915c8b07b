package registration

import (
	"crypto/rand"
	"crypto/sha1"
	"encoding/binary"
	"encoding/hex"
	"regexp"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

var activationKeyPattern = regexp.MustCompile(`^[a-f0-9]{40}$`)

// GenerateActivationKey produces a 40 character lowercase hex token by
// hashing fresh randomness, the current time, and the owning user's id.
// Keys are not reproducible; uniqueness rests on the hash space.
func GenerateActivationKey(userID uuid.UUID) (string, error) {
	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to read activation key entropy")
	}

	var now [8]byte
	binary.BigEndian.PutUint64(now[:], uint64(time.Now().UnixNano()))

	h := sha1.New()
	h.Write(salt)
	h.Write(now[:])
	h.Write(userID[:])

	return hex.EncodeToString(h.Sum(nil)), nil
}

// ValidActivationKey reports whether key has the required hex-40 shape.
// Malformed keys are rejected before any storage lookup happens.
func ValidActivationKey(key string) bool {
	return activationKeyPattern.MatchString(key)
}
