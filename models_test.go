package registration_test

import (
	"testing"

	"github.com/goliatone/go-registration"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestRegistrationProfileKeyConsumed(t *testing.T) {
	profile := &registration.RegistrationProfile{ActivationKey: "a1b2"}
	assert.False(t, profile.KeyConsumed())

	profile.ActivationKey = registration.ActivatedSentinel
	assert.True(t, profile.KeyConsumed())
}

func TestRegistrationProfileString(t *testing.T) {
	userID := uuid.New()

	profile := &registration.RegistrationProfile{
		UserID: userID,
		User:   &registration.User{ID: userID, Username: "alice"},
	}
	assert.Equal(t, "Registration information for alice", profile.String())

	orphan := &registration.RegistrationProfile{UserID: userID}
	assert.Equal(t, "Registration information for "+userID.String(), orphan.String())
}
