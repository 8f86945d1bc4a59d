package store

import (
	"context"
	"errors"
	"time"

	"github.com/devfolio/devfolio/internal/portfolio/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite for now)
// implement this. It exposes sub-repositories to keep concerns tidy and
// testable.
type Store interface {
	Users() Users
	Slugs() Slugs
	Projects() Projects
	Achievements() Achievements
	RevokedTokens() RevokedTokens

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes a function within a transaction. If fn returns an
	// error, the transaction is rolled back; otherwise it is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// CreateUser inserts a new user (id is provided by app via ULID).
	// Returns ErrAlreadyExists on an email or slug uniqueness violation.
	CreateUser(ctx context.Context, u domain.User) error

	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail looks up a user by lower-cased email.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// DeleteUser removes the account. Owned resources cascade per schema;
	// the slug registry row is retired separately, never deleted.
	DeleteUser(ctx context.Context, userID string) error
}

// Slugs is the permanent registry of every slug ever issued. Rows are never
// deleted; retirement only detaches them from a live account so the value
// can never be handed out again.
type Slugs interface {
	// AllocateSlug records a newly issued slug for a user. Returns
	// ErrAlreadyExists if the slug was ever issued before.
	AllocateSlug(ctx context.Context, slug, userID string) error

	// ResolveSlug returns the user id an active slug points at.
	// Retired or unknown slugs return ErrNotFound.
	ResolveSlug(ctx context.Context, slug string) (string, error)

	// RetireSlug marks the user's slug as retired. The row is kept so the
	// value is burned forever.
	RetireSlug(ctx context.Context, userID string) error
}

type Projects interface {
	CreateProject(ctx context.Context, p domain.Project) error
	GetProjectByID(ctx context.Context, id string) (domain.Project, error)

	// ListProjectsByOwner returns the owner's projects, newest first.
	ListProjectsByOwner(ctx context.Context, ownerID string) ([]domain.Project, error)

	// UpdateProject applies a partial update and bumps updated_at.
	UpdateProject(ctx context.Context, id string, upd domain.ProjectUpdate) error

	DeleteProject(ctx context.Context, id string) error
}

type Achievements interface {
	CreateAchievement(ctx context.Context, a domain.Achievement) error
	GetAchievementByID(ctx context.Context, id string) (domain.Achievement, error)

	// ListAchievementsByOwner returns the owner's achievements, newest first.
	ListAchievementsByOwner(ctx context.Context, ownerID string) ([]domain.Achievement, error)

	// UpdateAchievement applies a partial update.
	UpdateAchievement(ctx context.Context, id string, upd domain.AchievementUpdate) error

	DeleteAchievement(ctx context.Context, id string) error
}

// RevokedTokens is the session denylist, keyed by the token's jti. A row
// only needs to live until the token would have expired anyway.
type RevokedTokens interface {
	// RevokeToken adds a token id to the denylist.
	RevokeToken(ctx context.Context, jti string, expiresAt time.Time) error

	// IsTokenRevoked reports whether a token id is on the denylist.
	IsTokenRevoked(ctx context.Context, jti string) (bool, error)

	// DeleteExpiredRevokedTokens drops rows whose tokens have expired
	// naturally (housekeeping).
	DeleteExpiredRevokedTokens(ctx context.Context) error
}
