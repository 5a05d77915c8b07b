package registration

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ActivatedSentinel replaces the activation key once it has been consumed.
// It never matches the hex key shape, so a consumed key can not be replayed.
const ActivatedSentinel = "ALREADY_ACTIVATED"

// User is the user directory record owned by the registration flow. Accounts
// start inactive and are flipped active by activation or admin approval.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Username      string     `bun:"username,notnull,unique" json:"username,omitempty"`
	Email         string     `bun:"email,notnull,unique" json:"email,omitempty"`
	PasswordHash  string     `bun:"password_hash,notnull" json:"-"`
	IsActive      bool       `bun:"is_active,notnull" json:"is_active"`
	DateJoined    time.Time  `bun:"date_joined,notnull" json:"date_joined"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// RegistrationProfile pairs a user with its activation state. At most one
// profile exists per user; the unique constraint on user_id enforces it.
type RegistrationProfile struct {
	bun.BaseModel `bun:"table:registration_profiles,alias:regp"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	UserID        uuid.UUID  `bun:"user_id,notnull,unique,type:uuid" json:"user_id,omitempty"`
	User          *User      `bun:"rel:belongs-to,join:user_id=id" json:"user,omitempty"`
	ActivationKey string     `bun:"activation_key,notnull" json:"-"`
	Activated     bool       `bun:"activated,notnull" json:"activated"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// KeyConsumed reports whether the activation key has already been used.
func (p *RegistrationProfile) KeyConsumed() bool {
	return p.ActivationKey == ActivatedSentinel
}

func (p *RegistrationProfile) String() string {
	username := p.UserID.String()
	if p.User != nil && p.User.Username != "" {
		username = p.User.Username
	}
	return fmt.Sprintf("Registration information for %s", username)
}
