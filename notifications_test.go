package registration_test

import (
	"context"
	"testing"
	"time"

	"github.com/goliatone/go-registration"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pendingProfile(t *testing.T) *registration.RegistrationProfile {
	t.Helper()

	userID := uuid.New()
	key, err := registration.GenerateActivationKey(userID)
	require.NoError(t, err)

	return &registration.RegistrationProfile{
		ID:     uuid.New(),
		UserID: userID,
		User: &registration.User{
			ID:         userID,
			Username:   "alice",
			Email:      "alice@example.com",
			DateJoined: time.Now(),
		},
		ActivationKey: key,
	}
}

func notificationStore(cfg registration.Config, mailer registration.Mailer) *registration.Store {
	return registration.New(&MockRepositoryManager{}, cfg).
		WithMailer(mailer).
		WithLogger(testLogger{}).
		WithSiteProvider(registration.StaticSite(registration.Site{
			Name:   "Example News",
			Domain: "news.example.com",
		}))
}

func TestSendActivationEmail(t *testing.T) {
	ctx := context.Background()

	t.Run("renders key, site and window into the body", func(t *testing.T) {
		mailer := &capturingMailer{}
		store := notificationStore(testConfig(), mailer)
		profile := pendingProfile(t)

		err := store.SendActivationEmail(ctx, profile)
		require.NoError(t, err)

		require.Len(t, mailer.sent, 1)
		msg := mailer.last()
		assert.Equal(t, []string{"alice@example.com"}, msg.To)
		assert.Equal(t, "noreply@example.com", msg.From)
		assert.NotContains(t, msg.Subject, "\n")
		assert.Contains(t, msg.TextBody, profile.ActivationKey)
		assert.Contains(t, msg.TextBody, "news.example.com")
		assert.Contains(t, msg.TextBody, "3")
		assert.Empty(t, msg.HTMLBody)
	})

	t.Run("registration from address wins over the default", func(t *testing.T) {
		cfg := testConfig()
		cfg.RegistrationFromEmail = "accounts@example.com"

		mailer := &capturingMailer{}
		store := notificationStore(cfg, mailer)

		err := store.SendActivationEmail(ctx, pendingProfile(t))
		require.NoError(t, err)
		assert.Equal(t, "accounts@example.com", mailer.last().From)
	})

	t.Run("attaches the html alternative when enabled", func(t *testing.T) {
		cfg := testConfig()
		cfg.EmailHTML = true

		mailer := &capturingMailer{}
		store := notificationStore(cfg, mailer)
		profile := pendingProfile(t)

		err := store.SendActivationEmail(ctx, profile)
		require.NoError(t, err)

		msg := mailer.last()
		assert.Contains(t, msg.HTMLBody, profile.ActivationKey)
		assert.Contains(t, msg.TextBody, profile.ActivationKey)
	})

	t.Run("nil profile reports user not found", func(t *testing.T) {
		store := notificationStore(testConfig(), &capturingMailer{})
		err := store.SendActivationEmail(ctx, nil)
		require.ErrorIs(t, err, registration.ErrUserNotFound)
	})

	t.Run("mailer failures propagate", func(t *testing.T) {
		boom := registration.MailerFunc(func(context.Context, registration.Message) error {
			return assert.AnError
		})
		store := notificationStore(testConfig(), boom)

		err := store.SendActivationEmail(ctx, pendingProfile(t))
		require.Error(t, err)
	})
}

func TestSendAdminApproveEmail(t *testing.T) {
	ctx := context.Background()

	t.Run("notifies every configured admin", func(t *testing.T) {
		cfg := testConfig()
		cfg.SupervisedApproval = true
		cfg.Admins = []registration.Admin{
			{Name: "Root", Email: "root@example.com"},
			{Name: "Ops", Email: "ops@example.com"},
		}

		mailer := &capturingMailer{}
		store := notificationStore(cfg, mailer)
		profile := pendingProfile(t)

		err := store.SendAdminApproveEmail(ctx, profile)
		require.NoError(t, err)

		require.Len(t, mailer.sent, 1)
		msg := mailer.last()
		assert.Equal(t, []string{"root@example.com", "ops@example.com"}, msg.To)
		assert.Contains(t, msg.TextBody, profile.ID.String())
	})

	t.Run("no admins configured is a quiet no-op", func(t *testing.T) {
		cfg := testConfig()
		cfg.SupervisedApproval = true

		mailer := &capturingMailer{}
		store := notificationStore(cfg, mailer)

		err := store.SendAdminApproveEmail(ctx, pendingProfile(t))
		require.NoError(t, err)
		assert.Empty(t, mailer.sent)
	})
}

func TestSendAdminApproveCompleteEmail(t *testing.T) {
	ctx := context.Background()

	mailer := &capturingMailer{}
	store := notificationStore(testConfig(), mailer)

	user := &registration.User{
		ID:       uuid.New(),
		Username: "carol",
		Email:    "carol@example.com",
		IsActive: true,
	}

	err := store.SendAdminApproveCompleteEmail(ctx, user)
	require.NoError(t, err)

	require.Len(t, mailer.sent, 1)
	msg := mailer.last()
	assert.Equal(t, []string{"carol@example.com"}, msg.To)
	assert.Contains(t, msg.TextBody, "carol")

	err = store.SendAdminApproveCompleteEmail(ctx, nil)
	require.ErrorIs(t, err, registration.ErrUserNotFound)
}
