package registration_test

import (
	"context"
	"database/sql"

	"github.com/goliatone/go-registration"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/uptrace/bun"
)

// MockRepositoryManager implements registration.RepositoryManager. RunInTx
// invokes the given function with a zero transaction so store logic runs
// against the repository mocks.
type MockRepositoryManager struct {
	mock.Mock
}

func (m *MockRepositoryManager) Validate() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockRepositoryManager) MustValidate() {
	m.Called()
}

func (m *MockRepositoryManager) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	args := m.Called(ctx, opts, f)
	if err := args.Error(0); err != nil {
		return err
	}
	var tx bun.Tx
	return f(ctx, tx)
}

func (m *MockRepositoryManager) Users() registration.Users {
	args := m.Called()
	return args.Get(0).(registration.Users)
}

func (m *MockRepositoryManager) Profiles() registration.Profiles {
	args := m.Called()
	return args.Get(0).(registration.Profiles)
}

// MockUsers embeds the interface so only the methods the store exercises
// need explicit implementations.
type MockUsers struct {
	mock.Mock
	registration.Users
}

// RegisterTx echoes the given user back when no explicit return is set up,
// mirroring the real repository which persists and returns its argument.
func (m *MockUsers) RegisterTx(ctx context.Context, tx bun.IDB, user *registration.User) (*registration.User, error) {
	args := m.Called(ctx, tx, user)
	if rec := args.Get(0); rec != nil {
		return rec.(*registration.User), args.Error(1)
	}
	if args.Error(1) == nil {
		return user, nil
	}
	return nil, args.Error(1)
}

func (m *MockUsers) GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*registration.User, error) {
	args := m.Called(ctx, tx, email)
	if rec := args.Get(0); rec != nil {
		return rec.(*registration.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUsers) SetActiveTx(ctx context.Context, tx bun.IDB, id uuid.UUID, active bool) error {
	args := m.Called(ctx, tx, id, active)
	return args.Error(0)
}

func (m *MockUsers) DeleteByIDTx(ctx context.Context, tx bun.IDB, id uuid.UUID) error {
	args := m.Called(ctx, tx, id)
	return args.Error(0)
}

type MockProfiles struct {
	mock.Mock
	registration.Profiles
}

func (m *MockProfiles) GetByID(ctx context.Context, id string, criteria ...repository.SelectCriteria) (*registration.RegistrationProfile, error) {
	args := m.Called(ctx, id, criteria)
	if rec := args.Get(0); rec != nil {
		return rec.(*registration.RegistrationProfile), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProfiles) CreateTx(ctx context.Context, tx bun.IDB, profile *registration.RegistrationProfile, criteria ...repository.InsertCriteria) (*registration.RegistrationProfile, error) {
	args := m.Called(ctx, tx, profile)
	if rec := args.Get(0); rec != nil {
		return rec.(*registration.RegistrationProfile), args.Error(1)
	}
	if args.Error(1) == nil {
		return profile, nil
	}
	return nil, args.Error(1)
}

func (m *MockProfiles) GetByUser(ctx context.Context, userID uuid.UUID) (*registration.RegistrationProfile, error) {
	args := m.Called(ctx, userID)
	if rec := args.Get(0); rec != nil {
		return rec.(*registration.RegistrationProfile), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProfiles) GetByUserTx(ctx context.Context, tx bun.IDB, userID uuid.UUID) (*registration.RegistrationProfile, error) {
	args := m.Called(ctx, tx, userID)
	if rec := args.Get(0); rec != nil {
		return rec.(*registration.RegistrationProfile), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProfiles) GetByActivationKeyTx(ctx context.Context, tx bun.IDB, key string) (*registration.RegistrationProfile, error) {
	args := m.Called(ctx, tx, key)
	if rec := args.Get(0); rec != nil {
		return rec.(*registration.RegistrationProfile), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProfiles) ListWithUsers(ctx context.Context) ([]*registration.RegistrationProfile, error) {
	args := m.Called(ctx)
	if rec := args.Get(0); rec != nil {
		return rec.([]*registration.RegistrationProfile), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProfiles) UpdateKeyStateTx(ctx context.Context, tx bun.IDB, profile *registration.RegistrationProfile) error {
	args := m.Called(ctx, tx, profile)
	return args.Error(0)
}

func (m *MockProfiles) DeleteByID(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProfiles) DeleteByIDTx(ctx context.Context, tx bun.IDB, id uuid.UUID) error {
	args := m.Called(ctx, tx, id)
	return args.Error(0)
}

// MockActivitySink implements registration.ActivitySink
type MockActivitySink struct {
	mock.Mock
}

func (m *MockActivitySink) Record(ctx context.Context, event registration.ActivityEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// capturingMailer records every outbound message
type capturingMailer struct {
	sent []registration.Message
}

func (m *capturingMailer) Send(_ context.Context, msg registration.Message) error {
	m.sent = append(m.sent, msg)
	return nil
}

func (m *capturingMailer) last() registration.Message {
	return m.sent[len(m.sent)-1]
}

// capturingSink records activity events without expectations
type capturingSink struct {
	events []registration.ActivityEvent
}

func (s *capturingSink) Record(_ context.Context, event registration.ActivityEvent) error {
	s.events = append(s.events, event)
	return nil
}

type testLogger struct{}

func (testLogger) Debug(string, ...any) {}
func (testLogger) Info(string, ...any)  {}
func (testLogger) Error(string, ...any) {}
