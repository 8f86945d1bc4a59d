package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/devfolio/devfolio/internal/portfolio/domain"
	"github.com/devfolio/devfolio/internal/portfolio/store"
	"github.com/devfolio/devfolio/pkg/cryptox"
	"github.com/devfolio/devfolio/pkg/idx"
	"github.com/devfolio/devfolio/pkg/slogx"
)

// slugRandomBytes is the entropy appended to the name-derived prefix.
// Collisions across 4 bytes are rare enough that a handful of retries
// covers them.
const (
	slugRandomBytes  = 4
	slugMaxAttempts  = 5
	minPasswordChars = 8
)

// UserService owns registration, authentication and account lookups.
type UserService struct {
	Store store.Store
}

// Register creates an account and allocates its permanent public slug in a
// single transaction. The email is normalised to lower case before storage
// so uniqueness is case-insensitive.
func (s *UserService) Register(ctx context.Context, email, name, password string) (domain.User, error) {
	log := slogx.FromContext(ctx)

	email = strings.ToLower(strings.TrimSpace(email))
	name = strings.TrimSpace(name)

	if err := validateRegistration(email, name, password); err != nil {
		return domain.User{}, err
	}

	if _, err := s.Store.Users().GetUserByEmail(ctx, email); err == nil {
		return domain.User{}, ErrEmailTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return domain.User{}, fmt.Errorf("check existing email: %w", err)
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	// The slug registry row and the user row are created atomically, and the
	// registry's uniqueness constraint is the only arbiter: a slug that was
	// ever issued, to anyone, ever, collides here and we retry with fresh
	// randomness.
	var user domain.User
	for attempt := 1; attempt <= slugMaxAttempts; attempt++ {
		slug, err := newSlugCandidate(name)
		if err != nil {
			return domain.User{}, fmt.Errorf("generate slug: %w", err)
		}

		user = domain.User{
			ID:           idx.New().String(),
			Email:        email,
			Name:         name,
			PasswordHash: hash,
			Slug:         slug,
			CreatedAt:    time.Now().UTC(),
		}

		err = s.Store.WithTx(ctx, func(tx store.Tx) error {
			if err := tx.Users().CreateUser(ctx, user); err != nil {
				return err
			}
			return tx.Slugs().AllocateSlug(ctx, slug, user.ID)
		})
		if err == nil {
			log.Info("user registered", "user_id", user.ID, "slug", slug)
			return user, nil
		}
		if errors.Is(err, store.ErrAlreadyExists) {
			// Could be the slug or a racing registration of the same email.
			if _, lookupErr := s.Store.Users().GetUserByEmail(ctx, email); lookupErr == nil {
				return domain.User{}, ErrEmailTaken
			}
			log.Warn("slug collision, retrying", "attempt", attempt, "slug", slug)
			continue
		}
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}

	return domain.User{}, ErrSlugExhausted
}

// Authenticate verifies an email/password pair. Unknown email and wrong
// password both return ErrInvalidCredentials; a hash comparison runs in
// either case so the two paths take comparable time.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Burn a comparison against a throwaway hash.
			_ = cryptox.VerifyPassword(password, decoyHash())
			return domain.User{}, ErrInvalidCredentials
		}
		return domain.User{}, fmt.Errorf("lookup user: %w", err)
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrMismatch) {
			return domain.User{}, ErrInvalidCredentials
		}
		return domain.User{}, fmt.Errorf("verify password: %w", err)
	}

	return user, nil
}

// GetUserByID fetches the account backing an authenticated session.
func (s *UserService) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	user, err := s.Store.Users().GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrResourceNotFound
		}
		return domain.User{}, err
	}
	return user, nil
}

// decoyHash returns a valid argon2id encoding used to equalise timing when
// the email is unknown. It never matches any real password. Computed lazily
// so the pepper path is configured before the first hash.
var decoyHash = sync.OnceValue(func() string {
	h, err := cryptox.HashPassword("decoy-password-never-matches")
	if err != nil {
		panic(err)
	}
	return h
})

func validateRegistration(email, name, password string) error {
	if _, err := mail.ParseAddress(email); err != nil {
		return fmt.Errorf("%w: email", ErrValidation)
	}
	if name == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if len(password) < minPasswordChars {
		return fmt.Errorf("%w: password must be at least %d characters", ErrValidation, minPasswordChars)
	}
	return nil
}

// newSlugCandidate derives a URL-safe slug from the display name plus a hex
// random suffix, e.g. "ada-lovelace-1a2b3c4d".
func newSlugCandidate(name string) (string, error) {
	suffix, err := cryptox.GenerateHex(slugRandomBytes)
	if err != nil {
		return "", err
	}

	base := slugify(name)
	if base == "" {
		return "user-" + suffix, nil
	}
	return base + "-" + suffix, nil
}

// slugify lowercases the name and collapses every non-alphanumeric run into
// a single hyphen.
func slugify(name string) string {
	var b strings.Builder
	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(name) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastHyphen = false
		case !lastHyphen:
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}
