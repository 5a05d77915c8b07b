package registration

import (
	"context"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type Profiles interface {
	repository.Repository[*RegistrationProfile]

	GetByUser(ctx context.Context, userID uuid.UUID) (*RegistrationProfile, error)
	GetByUserTx(ctx context.Context, tx bun.IDB, userID uuid.UUID) (*RegistrationProfile, error)
	GetByActivationKey(ctx context.Context, key string) (*RegistrationProfile, error)
	GetByActivationKeyTx(ctx context.Context, tx bun.IDB, key string) (*RegistrationProfile, error)
	ListWithUsers(ctx context.Context) ([]*RegistrationProfile, error)
	UpdateKeyState(ctx context.Context, profile *RegistrationProfile) error
	UpdateKeyStateTx(ctx context.Context, tx bun.IDB, profile *RegistrationProfile) error
	DeleteByID(ctx context.Context, id uuid.UUID) error
	DeleteByIDTx(ctx context.Context, tx bun.IDB, id uuid.UUID) error
}

type profiles struct {
	repository.Repository[*RegistrationProfile]
	db *bun.DB
}

var (
	_ Profiles                                    = (*profiles)(nil)
	_ repository.Repository[*RegistrationProfile] = (*profiles)(nil)
)

func NewProfilesRepository(db *bun.DB) Profiles {
	repo := repository.NewRepository[*RegistrationProfile](db, repository.ModelHandlers[*RegistrationProfile]{
		NewRecord: func() *RegistrationProfile { return &RegistrationProfile{} },
		GetID: func(p *RegistrationProfile) uuid.UUID {
			if p == nil {
				return uuid.Nil
			}
			return p.ID
		},
		SetID: func(p *RegistrationProfile, id uuid.UUID) {
			if p != nil {
				p.ID = id
			}
		},
		GetIdentifier: func() string {
			return "activation_key"
		},
	})

	return &profiles{
		Repository: repo,
		db:         db,
	}
}

func (a *profiles) GetByUser(ctx context.Context, userID uuid.UUID) (*RegistrationProfile, error) {
	return a.GetByUserTx(ctx, a.db, userID)
}

func (a *profiles) GetByUserTx(ctx context.Context, tx bun.IDB, userID uuid.UUID) (*RegistrationProfile, error) {
	record := &RegistrationProfile{}
	err := tx.NewSelect().Model(record).
		Relation("User").
		Where("?TableAlias.user_id = ?", userID).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"user_id": userID.String(),
				})
		}
		return nil, err
	}

	return record, nil
}

func (a *profiles) GetByActivationKey(ctx context.Context, key string) (*RegistrationProfile, error) {
	return a.GetByActivationKeyTx(ctx, a.db, key)
}

func (a *profiles) GetByActivationKeyTx(ctx context.Context, tx bun.IDB, key string) (*RegistrationProfile, error) {
	record := &RegistrationProfile{}
	err := tx.NewSelect().Model(record).
		Relation("User").
		Where("?TableAlias.activation_key = ?", key).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"activation_key": key,
				})
		}
		return nil, err
	}

	return record, nil
}

// ListWithUsers returns every profile with its owning user joined in. The
// join is a LEFT JOIN so orphaned profiles come back with a nil User.
func (a *profiles) ListWithUsers(ctx context.Context) ([]*RegistrationProfile, error) {
	var records []*RegistrationProfile
	err := a.db.NewSelect().Model(&records).
		Relation("User").
		Scan(ctx)

	if err != nil {
		return nil, err
	}

	return records, nil
}

// UpdateKeyState persists the activation_key and activated columns only.
// The ORM update path skips zero values, which would miss activated=false.
func (a *profiles) UpdateKeyState(ctx context.Context, profile *RegistrationProfile) error {
	return a.UpdateKeyStateTx(ctx, a.db, profile)
}

func (a *profiles) UpdateKeyStateTx(ctx context.Context, tx bun.IDB, profile *RegistrationProfile) error {
	_, err := tx.NewUpdate().Model(profile).
		Column("activation_key", "activated").
		Where("?TableAlias.id = ?", profile.ID).
		Exec(ctx)

	return err
}

func (a *profiles) DeleteByID(ctx context.Context, id uuid.UUID) error {
	return a.DeleteByIDTx(ctx, a.db, id)
}

func (a *profiles) DeleteByIDTx(ctx context.Context, tx bun.IDB, id uuid.UUID) error {
	_, err := tx.NewDelete().Model((*RegistrationProfile)(nil)).
		Where("?TableAlias.id = ?", id).
		Exec(ctx)

	return err
}
