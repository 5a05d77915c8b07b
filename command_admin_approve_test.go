package registration_test

import (
	"context"
	"testing"

	"github.com/goliatone/go-registration"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAdminApproveHandler(t *testing.T) {
	ctx := context.Background()

	cfg := testConfig()
	cfg.SupervisedApproval = true
	cfg.Admins = []registration.Admin{{Name: "Root", Email: "root@example.com"}}

	t.Run("approves an activated profile", func(t *testing.T) {
		f := newStoreFixture(t, cfg)

		userID := uuid.New()
		profileID := uuid.New()
		profile := &registration.RegistrationProfile{
			ID:        profileID,
			UserID:    userID,
			User:      &registration.User{ID: userID, Email: "carol@example.com"},
			Activated: true,
		}

		f.profiles.On("GetByID", mock.Anything, profileID.String(), mock.Anything).
			Return(profile, nil).Once()
		f.users.On("SetActiveTx", mock.Anything, mock.Anything, userID, true).
			Return(nil).Once()

		var resp *registration.AdminApproveResponse
		handler := registration.NewAdminApproveHandler(f.store)
		err := handler.Execute(ctx, registration.AdminApproveMessage{
			ProfileID: profileID.String(),
			OnResponse: func(r *registration.AdminApproveResponse) {
				resp = r
			},
		})
		require.NoError(t, err)
		require.NotNil(t, resp)
		assert.True(t, resp.Approved)
		require.NotNil(t, resp.User)
		assert.True(t, resp.User.IsActive)
	})

	t.Run("rejects malformed profile ids", func(t *testing.T) {
		f := newStoreFixture(t, cfg)

		handler := registration.NewAdminApproveHandler(f.store)
		err := handler.Execute(ctx, registration.AdminApproveMessage{ProfileID: "not-a-uuid"})
		require.Error(t, err)
		assert.Empty(t, f.repo.Calls)
	})

	t.Run("pending profile reports not approved", func(t *testing.T) {
		f := newStoreFixture(t, cfg)

		profileID := uuid.New()
		profile := &registration.RegistrationProfile{
			ID:        profileID,
			UserID:    uuid.New(),
			User:      &registration.User{ID: uuid.New(), Email: "early@example.com"},
			Activated: false,
		}

		f.profiles.On("GetByID", mock.Anything, profileID.String(), mock.Anything).
			Return(profile, nil).Once()

		var resp *registration.AdminApproveResponse
		handler := registration.NewAdminApproveHandler(f.store)
		err := handler.Execute(ctx, registration.AdminApproveMessage{
			ProfileID: profileID.String(),
			OnResponse: func(r *registration.AdminApproveResponse) {
				resp = r
			},
		})
		require.NoError(t, err)
		require.NotNil(t, resp)
		assert.False(t, resp.Approved)
		assert.Nil(t, resp.User)
	})
}
