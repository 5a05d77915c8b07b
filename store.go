package registration

import (
	"context"
	"sync"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// RegisterUser carries the fields needed to create an inactive account.
type RegisterUser struct {
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	Password   string    `json:"password"`
	DateJoined time.Time `json:"date_joined,omitempty"`
	UseHashid  bool      `json:"-"`
}

// Store drives the registration lifecycle: token issuance, activation,
// optional admin approval, resends, and the expiry sweep. All state lives in
// the repositories; the store holds configuration and collaborators only.
type Store struct {
	repo         RepositoryManager
	config       Config
	mailer       Mailer
	sites        SiteProvider
	logger       Logger
	activitySink ActivitySink
	now          func() time.Time

	renderOnce sync.Once
	render     *emailRenderer
	renderErr  error
}

// New returns a Store wired with a dev mailer and empty site context.
// Production callers should provide their own Mailer and SiteProvider.
func New(repo RepositoryManager, config Config) *Store {
	return &Store{
		repo:         repo,
		config:       config,
		mailer:       devMailer{logger: defLogger{}},
		sites:        StaticSite(Site{Name: "example.com", Domain: "example.com"}),
		logger:       defLogger{},
		activitySink: noopActivitySink{},
		now:          time.Now,
	}
}

func (s *Store) WithMailer(mailer Mailer) *Store {
	if mailer != nil {
		s.mailer = mailer
	}
	return s
}

func (s *Store) WithSiteProvider(sites SiteProvider) *Store {
	if sites != nil {
		s.sites = sites
	}
	return s
}

func (s *Store) WithLogger(logger Logger) *Store {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// WithActivitySink configures an ActivitySink for emitting lifecycle events.
func (s *Store) WithActivitySink(sink ActivitySink) *Store {
	s.activitySink = normalizeActivitySink(sink)
	return s
}

// WithClock injects a custom clock (useful for tests).
func (s *Store) WithClock(clock func() time.Time) *Store {
	if clock != nil {
		s.now = clock
	}
	return s
}

// CreateProfile issues a fresh activation key and persists a profile for
// user. Returns ErrDuplicateProfile when the user already has one.
func (s *Store) CreateProfile(ctx context.Context, tx bun.IDB, user *User) (*RegistrationProfile, error) {
	if tx == nil {
		return nil, goerrors.New("create profile requires a transaction or db handle", goerrors.CategoryBadInput)
	}

	if _, err := s.repo.Profiles().GetByUserTx(ctx, tx, user.ID); err == nil {
		return nil, ErrDuplicateProfile.WithMetadata(map[string]any{
			"user_id": user.ID.String(),
		})
	} else if !repository.IsRecordNotFound(err) {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to check for existing profile")
	}

	key, err := GenerateActivationKey(user.ID)
	if err != nil {
		return nil, err
	}

	profile := &RegistrationProfile{
		ID:            uuid.New(),
		UserID:        user.ID,
		User:          user,
		ActivationKey: key,
	}

	profile, err = s.repo.Profiles().CreateTx(ctx, tx, profile)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryConflict, "could not create registration profile")
	}

	profile.User = user
	return profile, nil
}

// CreateInactiveUser creates the user and its profile atomically; either
// both rows exist afterwards or neither does. When sendEmail is set the
// activation email goes out before the transaction commits, so a failed
// send rolls the registration back.
func (s *Store) CreateInactiveUser(ctx context.Context, reg RegisterUser, sendEmail bool) (*User, error) {
	user := &User{}
	var profile *RegistrationProfile

	err := s.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		hash, err := HashPassword(reg.Password)
		if err != nil {
			var richErr *goerrors.Error
			if goerrors.As(err, &richErr) {
				return goerrors.Wrap(richErr, goerrors.CategoryValidation, "invalid password provided")
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
		}

		user.Username = reg.Username
		user.Email = reg.Email
		user.PasswordHash = hash
		user.IsActive = false
		user.DateJoined = s.clampDateJoined(reg.DateJoined)

		if reg.UseHashid {
			if id, err := hashid.NewUUID(reg.Email); err == nil {
				user.ID = id
			}
		}

		if user, err = s.repo.Users().RegisterTx(ctx, tx, user); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryConflict, "could not create user")
		}

		if profile, err = s.CreateProfile(ctx, tx, user); err != nil {
			return err
		}

		if sendEmail {
			return s.SendActivationEmail(ctx, profile)
		}

		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return nil, richErr
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "user registration transaction failed")
	}

	s.recordActivity(ctx, ActivityEvent{
		EventType: ActivityEventUserRegistered,
		UserID:    user.ID.String(),
		ProfileID: profile.ID.String(),
		Email:     user.Email,
	})

	return user, nil
}

// clampDateJoined resets join dates pre-aged past the activation window, so
// a crafted registration can not be born expired.
func (s *Store) clampDateJoined(joined time.Time) time.Time {
	now := s.now()
	if joined.IsZero() {
		return now
	}
	if OutsideActivationWindow(joined, s.config.GetActivationWindow(), now) {
		return now
	}
	return joined
}

// ActivateUser consumes an activation key. Standard flow: the account goes
// active, the profile is marked activated, and the key is overwritten with
// the sentinel. Supervised flow: only the profile flips to activated and
// administrators are notified; the account stays inactive until approval.
func (s *Store) ActivateUser(ctx context.Context, key string) (*User, error) {
	// fail closed before touching storage; this also rejects the sentinel
	if !ValidActivationKey(key) {
		return nil, ErrKeyMalformed
	}

	var user *User
	var profile *RegistrationProfile

	err := s.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var err error
		profile, err = s.repo.Profiles().GetByActivationKeyTx(ctx, tx, key)
		if err != nil {
			if repository.IsRecordNotFound(err) {
				return ErrProfileNotFound.WithMetadata(map[string]any{
					"activation_key": key,
				})
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve profile for activation")
		}

		if s.ActivationKeyExpired(profile) {
			// leave the row untouched; the sweep reaps it later
			return ErrKeyExpired
		}

		user = profile.User

		if s.config.GetSupervisedApproval() {
			profile.Activated = true
			if err := s.updateProfileTx(ctx, tx, profile); err != nil {
				return err
			}
			return s.SendAdminApproveEmail(ctx, profile)
		}

		profile.Activated = true
		profile.ActivationKey = ActivatedSentinel
		if err := s.updateProfileTx(ctx, tx, profile); err != nil {
			return err
		}

		if err := s.repo.Users().SetActiveTx(ctx, tx, user.ID, true); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to activate user")
		}
		user.IsActive = true

		return nil
	})

	if err != nil {
		return nil, err
	}

	s.recordActivity(ctx, ActivityEvent{
		EventType: ActivityEventAccountActivated,
		UserID:    user.ID.String(),
		ProfileID: profile.ID.String(),
		Email:     user.Email,
		Metadata: map[string]any{
			"supervised": s.config.GetSupervisedApproval(),
		},
	})

	return user, nil
}

// ActivateUserProfile behaves like ActivateUser but returns the profile,
// with the owning user loaded, instead of the bare user.
func (s *Store) ActivateUserProfile(ctx context.Context, key string) (*RegistrationProfile, error) {
	user, err := s.ActivateUser(ctx, key)
	if err != nil {
		return nil, err
	}

	profile, err := s.repo.Profiles().GetByUser(ctx, user.ID)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to reload activated profile")
	}

	return profile, nil
}

// AdminApproveUser flips an activated-but-pending account to active and
// notifies the user. Idempotent: approving twice re-activates and succeeds.
func (s *Store) AdminApproveUser(ctx context.Context, profileID uuid.UUID) (*User, error) {
	var user *User
	var profile *RegistrationProfile

	err := s.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var err error
		profile, err = s.repo.Profiles().GetByID(ctx, profileID.String(), withUserRelation)
		if err != nil {
			if repository.IsRecordNotFound(err) {
				return ErrProfileNotFound.WithMetadata(map[string]any{
					"profile_id": profileID.String(),
				})
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve profile for approval")
		}

		if !profile.Activated {
			return ErrProfileNotActivated
		}

		user = profile.User
		if user == nil {
			return ErrUserNotFound.WithMetadata(map[string]any{
				"profile_id": profileID.String(),
			})
		}

		if err := s.repo.Users().SetActiveTx(ctx, tx, user.ID, true); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to approve user")
		}
		user.IsActive = true

		return s.SendAdminApproveCompleteEmail(ctx, user)
	})

	if err != nil {
		return nil, err
	}

	s.recordActivity(ctx, ActivityEvent{
		EventType: ActivityEventAccountApproved,
		UserID:    user.ID.String(),
		ProfileID: profile.ID.String(),
		Email:     user.Email,
	})

	return user, nil
}

// ActivationKeyExpired reports whether the profile can no longer be
// activated: the key was consumed, the owning user is gone, or the
// activation window has fully elapsed. The window boundary itself counts as
// expired.
func (s *Store) ActivationKeyExpired(profile *RegistrationProfile) bool {
	if profile == nil || profile.KeyConsumed() {
		return true
	}

	if profile.User == nil {
		return true
	}

	return OutsideActivationWindow(profile.User.DateJoined, s.config.GetActivationWindow(), s.now())
}

// ResendActivationMail regenerates the key and re-sends the activation
// email for a pending account. Returns false without sending for unknown
// addresses, consumed or expired profiles. Supervised accounts awaiting
// approval get the admin notice re-sent, yet the caller is still told false:
// there is nothing left for the end user to do.
func (s *Store) ResendActivationMail(ctx context.Context, email string) (bool, error) {
	resent := false

	err := s.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		user, err := s.repo.Users().GetByEmailTx(ctx, tx, email)
		if err != nil {
			if repository.IsRecordNotFound(err) {
				return nil
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve user for resend")
		}

		profile, err := s.repo.Profiles().GetByUserTx(ctx, tx, user.ID)
		if err != nil {
			if repository.IsRecordNotFound(err) {
				return nil
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve profile for resend")
		}

		if profile.Activated {
			if s.config.GetSupervisedApproval() && !user.IsActive {
				return s.SendAdminApproveEmail(ctx, profile)
			}
			return nil
		}

		if s.ActivationKeyExpired(profile) {
			return nil
		}

		key, err := GenerateActivationKey(user.ID)
		if err != nil {
			return err
		}

		profile.ActivationKey = key
		if err := s.updateProfileTx(ctx, tx, profile); err != nil {
			return err
		}

		if err := s.SendActivationEmail(ctx, profile); err != nil {
			return err
		}

		resent = true
		return nil
	})

	if err != nil {
		return false, err
	}

	if resent {
		s.recordActivity(ctx, ActivityEvent{
			EventType: ActivityEventActivationResent,
			Email:     email,
		})
	}

	return resent, nil
}

// DeleteExpiredUsers reaps inactive accounts whose activation window has
// elapsed, cascading their profiles. Orphaned profiles are removed directly.
// Each row is re-checked and deleted in its own transaction, so an account
// activating mid-sweep survives. No email is sent.
func (s *Store) DeleteExpiredUsers(ctx context.Context) error {
	candidates, err := s.repo.Profiles().ListWithUsers(ctx)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to list profiles for cleanup")
	}

	for _, candidate := range candidates {
		if candidate.User == nil {
			if err := s.repo.Profiles().DeleteByID(ctx, candidate.ID); err != nil {
				return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to delete orphaned profile")
			}
			s.recordActivity(ctx, ActivityEvent{
				EventType: ActivityEventAccountPurged,
				ProfileID: candidate.ID.String(),
			})
			continue
		}

		if candidate.User.IsActive || !s.ActivationKeyExpired(candidate) {
			continue
		}

		purged := false
		err := s.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			profile, err := s.repo.Profiles().GetByUserTx(ctx, tx, candidate.UserID)
			if err != nil {
				if repository.IsRecordNotFound(err) {
					return nil
				}
				return err
			}

			// the account may have activated since the scan
			if profile.User == nil || profile.User.IsActive || !s.ActivationKeyExpired(profile) {
				return nil
			}

			if err := s.repo.Profiles().DeleteByIDTx(ctx, tx, profile.ID); err != nil {
				return err
			}

			if err := s.repo.Users().DeleteByIDTx(ctx, tx, profile.UserID); err != nil {
				return err
			}

			purged = true
			return nil
		})

		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to delete expired user")
		}

		if purged {
			s.recordActivity(ctx, ActivityEvent{
				EventType: ActivityEventAccountPurged,
				UserID:    candidate.UserID.String(),
				ProfileID: candidate.ID.String(),
				Email:     candidate.User.Email,
			})
		}
	}

	return nil
}

func (s *Store) updateProfileTx(ctx context.Context, tx bun.IDB, profile *RegistrationProfile) error {
	if err := s.repo.Profiles().UpdateKeyStateTx(ctx, tx, profile); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to update registration profile")
	}
	return nil
}

func (s *Store) recordActivity(ctx context.Context, event ActivityEvent) {
	event.OccurredAt = s.now()
	if err := s.activitySink.Record(ctx, event); err != nil {
		s.logger.Error("failed to record activity event %s: %v", event.EventType, err)
	}
}

func withUserRelation(q *bun.SelectQuery) *bun.SelectQuery {
	return q.Relation("User")
}
