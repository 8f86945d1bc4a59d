package service_test

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/devfolio/devfolio/internal/portfolio/domain"
	"github.com/devfolio/devfolio/internal/portfolio/service"
	"github.com/devfolio/devfolio/internal/portfolio/store"
	"github.com/devfolio/devfolio/internal/portfolio/store/drivers/sqlite"
	"github.com/devfolio/devfolio/pkg/cryptox"
	"github.com/devfolio/devfolio/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "devfolio-service-test")
	if err != nil {
		panic(err)
	}
	cryptox.SetPepperPath(filepath.Join(dir, "pepper"))

	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	s, err := sqlite.NewStore("file:" + filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.ApplyMigrations())
	return s
}

func newTestSigner(t *testing.T) *jwtx.Signer {
	t.Helper()

	_, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	signer, err := jwtx.NewSigner("test-key", priv)
	require.NoError(t, err)
	return signer
}

func newTokenService(t *testing.T, st store.Store, ttl time.Duration) *service.TokenService {
	t.Helper()

	signer := newTestSigner(t)
	keys := jwtx.NewKeySet()
	keys.AddSigner(signer)

	return &service.TokenService{
		Store:    st,
		Signer:   signer,
		Verifier: jwtx.NewVerifier(keys, "devfolio-test"),
		Issuer:   "devfolio-test",
		TTL:      ttl,
	}
}

func TestUserServiceRegister(t *testing.T) {
	t.Parallel()

	t.Run("allocates a derived slug", func(t *testing.T) {
		t.Parallel()
		st := newTestStore(t)
		users := &service.UserService{Store: st}

		u, err := users.Register(context.Background(), "Ada@Example.COM", "Ada Lovelace", "correct-horse")
		require.NoError(t, err)

		require.Equal(t, "ada@example.com", u.Email)
		require.Regexp(t, `^ada-lovelace-[0-9a-f]{8}$`, u.Slug)
		require.NotEmpty(t, u.ID)
		require.NotEqual(t, "correct-horse", u.PasswordHash)

		// Slug registry points back at the account.
		userID, err := st.Slugs().ResolveSlug(context.Background(), u.Slug)
		require.NoError(t, err)
		require.Equal(t, u.ID, userID)
	})

	t.Run("duplicate email is rejected case-insensitively", func(t *testing.T) {
		t.Parallel()
		st := newTestStore(t)
		users := &service.UserService{Store: st}
		ctx := context.Background()

		_, err := users.Register(ctx, "dup@example.com", "First", "password-one")
		require.NoError(t, err)

		_, err = users.Register(ctx, "DUP@example.com", "Second", "password-two")
		require.ErrorIs(t, err, service.ErrEmailTaken)
	})

	t.Run("two accounts with the same name get distinct slugs", func(t *testing.T) {
		t.Parallel()
		st := newTestStore(t)
		users := &service.UserService{Store: st}
		ctx := context.Background()

		a, err := users.Register(ctx, "a@example.com", "Same Name", "password-aaa")
		require.NoError(t, err)
		b, err := users.Register(ctx, "b@example.com", "Same Name", "password-bbb")
		require.NoError(t, err)

		require.NotEqual(t, a.Slug, b.Slug)
	})

	t.Run("symbol-only name falls back to a generic slug", func(t *testing.T) {
		t.Parallel()
		st := newTestStore(t)
		users := &service.UserService{Store: st}

		u, err := users.Register(context.Background(), "sym@example.com", "!!!", "password-sym")
		require.NoError(t, err)
		require.Regexp(t, `^user-[0-9a-f]{8}$`, u.Slug)
	})

	t.Run("concurrent registrations never share a slug", func(t *testing.T) {
		t.Parallel()
		st := newTestStore(t)
		users := &service.UserService{Store: st}
		ctx := context.Background()

		const n = 10
		slugs := make(chan string, n)
		errs := make(chan error, n)

		var wg sync.WaitGroup
		for i := range n {
			wg.Add(1)
			go func() {
				defer wg.Done()
				u, err := users.Register(ctx, fmt.Sprintf("race%d@example.com", i), "Race Runner", "password-race")
				if err != nil {
					errs <- err
					return
				}
				slugs <- u.Slug
			}()
		}
		wg.Wait()
		close(slugs)
		close(errs)

		for err := range errs {
			require.NoError(t, err)
		}

		seen := map[string]bool{}
		for slug := range slugs {
			require.False(t, seen[slug], "slug %q issued twice", slug)
			seen[slug] = true
		}
		require.Len(t, seen, n)
	})

	t.Run("validation", func(t *testing.T) {
		t.Parallel()
		st := newTestStore(t)
		users := &service.UserService{Store: st}
		ctx := context.Background()

		_, err := users.Register(ctx, "not-an-email", "Name", "password-123")
		require.ErrorIs(t, err, service.ErrValidation)

		_, err = users.Register(ctx, "short@example.com", "Name", "tiny")
		require.ErrorIs(t, err, service.ErrValidation)

		_, err = users.Register(ctx, "noname@example.com", "   ", "password-123")
		require.ErrorIs(t, err, service.ErrValidation)
	})
}

func TestUserServiceAuthenticate(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	users := &service.UserService{Store: st}
	ctx := context.Background()

	registered, err := users.Register(ctx, "login@example.com", "Login User", "hunter2hunter2")
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		u, err := users.Authenticate(ctx, "Login@Example.com", "hunter2hunter2")
		require.NoError(t, err)
		require.Equal(t, registered.ID, u.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := users.Authenticate(ctx, "login@example.com", "wrong-password")
		require.ErrorIs(t, err, service.ErrInvalidCredentials)
	})

	t.Run("unknown email gives the same error", func(t *testing.T) {
		_, err := users.Authenticate(ctx, "nobody@example.com", "hunter2hunter2")
		require.ErrorIs(t, err, service.ErrInvalidCredentials)
	})
}

func TestTokenService(t *testing.T) {
	t.Parallel()

	t.Run("issue then verify", func(t *testing.T) {
		t.Parallel()
		st := newTestStore(t)
		tokens := newTokenService(t, st, time.Hour)
		ctx := context.Background()

		issued, err := tokens.Issue(ctx, "user-123")
		require.NoError(t, err)
		require.Equal(t, "Bearer", issued.TokenType)
		require.WithinDuration(t, time.Now().Add(time.Hour), issued.ExpiresAt, time.Minute)

		sess, err := tokens.VerifySession(ctx, issued.Token)
		require.NoError(t, err)
		require.Equal(t, "user-123", sess.UserID)
		require.NotEmpty(t, sess.TokenID)
	})

	t.Run("revoked token fails verification", func(t *testing.T) {
		t.Parallel()
		st := newTestStore(t)
		tokens := newTokenService(t, st, time.Hour)
		ctx := context.Background()

		issued, err := tokens.Issue(ctx, "user-123")
		require.NoError(t, err)

		sess, err := tokens.VerifySession(ctx, issued.Token)
		require.NoError(t, err)
		require.NoError(t, tokens.Revoke(ctx, sess.TokenID))

		_, err = tokens.VerifySession(ctx, issued.Token)
		require.ErrorIs(t, err, service.ErrTokenRevoked)
	})

	t.Run("revoking one session leaves others valid", func(t *testing.T) {
		t.Parallel()
		st := newTestStore(t)
		tokens := newTokenService(t, st, time.Hour)
		ctx := context.Background()

		first, err := tokens.Issue(ctx, "user-123")
		require.NoError(t, err)
		second, err := tokens.Issue(ctx, "user-123")
		require.NoError(t, err)

		firstSess, err := tokens.VerifySession(ctx, first.Token)
		require.NoError(t, err)
		require.NoError(t, tokens.Revoke(ctx, firstSess.TokenID))

		_, err = tokens.VerifySession(ctx, first.Token)
		require.ErrorIs(t, err, service.ErrTokenRevoked)
		_, err = tokens.VerifySession(ctx, second.Token)
		require.NoError(t, err)
	})

	t.Run("expired token", func(t *testing.T) {
		t.Parallel()
		st := newTestStore(t)
		tokens := newTokenService(t, st, -time.Minute)
		ctx := context.Background()

		issued, err := tokens.Issue(ctx, "user-123")
		require.NoError(t, err)

		_, err = tokens.VerifySession(ctx, issued.Token)
		require.ErrorIs(t, err, jwtx.ErrExpired)
	})

	t.Run("empty jti cannot be revoked", func(t *testing.T) {
		t.Parallel()
		st := newTestStore(t)
		tokens := newTokenService(t, st, time.Hour)

		err := tokens.Revoke(context.Background(), "")
		require.ErrorIs(t, err, service.ErrValidation)
	})
}

func TestProjectServiceGuard(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	users := &service.UserService{Store: st}
	projects := &service.ProjectService{Store: st}
	ctx := context.Background()

	owner, err := users.Register(ctx, "owner@example.com", "Owner", "password-own")
	require.NoError(t, err)
	intruder, err := users.Register(ctx, "intruder@example.com", "Intruder", "password-int")
	require.NoError(t, err)

	p, err := projects.Create(ctx, owner.ID, service.ProjectInput{
		Title:       "Guarded",
		Description: "mine",
		TechStack:   []string{"Go"},
	})
	require.NoError(t, err)

	t.Run("owner can read", func(t *testing.T) {
		got, err := projects.Get(ctx, owner.ID, p.ID)
		require.NoError(t, err)
		require.Equal(t, "Guarded", got.Title)
	})

	t.Run("foreign actor is denied", func(t *testing.T) {
		_, err := projects.Get(ctx, intruder.ID, p.ID)
		require.ErrorIs(t, err, service.ErrNotOwner)

		title := "stolen"
		_, err = projects.Update(ctx, intruder.ID, p.ID, projectTitleUpdate(title))
		require.ErrorIs(t, err, service.ErrNotOwner)

		err = projects.Delete(ctx, intruder.ID, p.ID)
		require.ErrorIs(t, err, service.ErrNotOwner)
	})

	t.Run("missing resource", func(t *testing.T) {
		_, err := projects.Get(ctx, owner.ID, "01ARZ3NDEKTSV4RRFFQ69G5FAV")
		require.ErrorIs(t, err, service.ErrResourceNotFound)
	})

	t.Run("update flows through for the owner", func(t *testing.T) {
		got, err := projects.Update(ctx, owner.ID, p.ID, projectTitleUpdate("Renamed"))
		require.NoError(t, err)
		require.Equal(t, "Renamed", got.Title)
		require.Equal(t, "mine", got.Description)
	})

	t.Run("list is scoped to the actor", func(t *testing.T) {
		mine, err := projects.List(ctx, owner.ID)
		require.NoError(t, err)
		require.Len(t, mine, 1)

		theirs, err := projects.List(ctx, intruder.ID)
		require.NoError(t, err)
		require.Empty(t, theirs)
	})
}

func TestAchievementServiceGuard(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	users := &service.UserService{Store: st}
	achievements := &service.AchievementService{Store: st}
	ctx := context.Background()

	owner, err := users.Register(ctx, "certowner@example.com", "Cert Owner", "password-own")
	require.NoError(t, err)
	intruder, err := users.Register(ctx, "certintruder@example.com", "Cert Intruder", "password-int")
	require.NoError(t, err)

	a, err := achievements.Create(ctx, owner.ID, service.AchievementInput{
		Title: "Kubernetes Certified",
		Date:  "2025-01",
	})
	require.NoError(t, err)

	t.Run("foreign delete is denied and row survives", func(t *testing.T) {
		err := achievements.Delete(ctx, intruder.ID, a.ID)
		require.ErrorIs(t, err, service.ErrNotOwner)

		got, err := achievements.Get(ctx, owner.ID, a.ID)
		require.NoError(t, err)
		require.Equal(t, "Kubernetes Certified", got.Title)
	})

	t.Run("owner delete works", func(t *testing.T) {
		require.NoError(t, achievements.Delete(ctx, owner.ID, a.ID))

		_, err := achievements.Get(ctx, owner.ID, a.ID)
		require.ErrorIs(t, err, service.ErrResourceNotFound)
	})
}

func TestExportService(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	users := &service.UserService{Store: st}
	projects := &service.ProjectService{Store: st}
	achievements := &service.AchievementService{Store: st}
	exports := &service.ExportService{Store: st, BaseURL: "https://devfolio.test"}
	ctx := context.Background()

	owner, err := users.Register(ctx, "export@example.com", "Export User", "password-exp")
	require.NoError(t, err)

	_, err = projects.Create(ctx, owner.ID, service.ProjectInput{
		Title:     "Public Project",
		TechStack: []string{"Go", "SQLite"},
	})
	require.NoError(t, err)
	_, err = achievements.Create(ctx, owner.ID, service.AchievementInput{Title: "Big Award"})
	require.NoError(t, err)

	t.Run("profile carries both sections and the export link", func(t *testing.T) {
		profile, err := exports.BuildProfile(ctx, owner.Slug, domain.SectionsAll)
		require.NoError(t, err)

		require.Equal(t, "Export User", profile.Name)
		require.Equal(t, owner.Slug, profile.Slug)
		require.Equal(t, "https://devfolio.test/api/export/"+owner.Slug, profile.ExportURL)
		require.NotNil(t, profile.Projects)
		require.Len(t, *profile.Projects, 1)
		require.NotNil(t, profile.Achievements)
		require.Len(t, *profile.Achievements, 1)
	})

	t.Run("sections filter the export", func(t *testing.T) {
		exp, err := exports.BuildExport(ctx, owner.Slug, "projects")
		require.NoError(t, err)

		require.NotNil(t, exp.Projects)
		require.Nil(t, exp.Achievements)
		require.NotNil(t, exp.Metadata.TotalProjects)
		require.Equal(t, 1, *exp.Metadata.TotalProjects)
		require.Nil(t, exp.Metadata.TotalAchievements)
		require.Equal(t, "json", exp.Metadata.Format)
		require.Equal(t, service.ExportFormatVersion, exp.Metadata.Version)
	})

	t.Run("all sections", func(t *testing.T) {
		exp, err := exports.BuildExport(ctx, owner.Slug, "all")
		require.NoError(t, err)
		require.NotNil(t, exp.Projects)
		require.NotNil(t, exp.Achievements)
		require.Equal(t, "https://devfolio.test/api/profile/"+owner.Slug, exp.User.ProfileURL)
	})

	t.Run("profile respects the sections filter", func(t *testing.T) {
		profile, err := exports.BuildProfile(ctx, owner.Slug, domain.SectionsAchievements)
		require.NoError(t, err)
		require.Nil(t, profile.Projects)
		require.NotNil(t, profile.Achievements)
	})

	t.Run("unknown slug", func(t *testing.T) {
		_, err := exports.BuildProfile(ctx, "nobody-deadbeef", domain.SectionsAll)
		require.ErrorIs(t, err, service.ErrResourceNotFound)

		_, err = exports.BuildExport(ctx, "nobody-deadbeef", "all")
		require.ErrorIs(t, err, service.ErrResourceNotFound)
	})
}

func TestHousekeepingService(t *testing.T) {
	t.Parallel()

	t.Run("sweeps expired rows, keeps live ones", func(t *testing.T) {
		t.Parallel()
		st := newTestStore(t)
		ctx := context.Background()

		require.NoError(t, st.RevokedTokens().RevokeToken(ctx, "stale", time.Now().Add(-time.Minute)))
		require.NoError(t, st.RevokedTokens().RevokeToken(ctx, "fresh", time.Now().Add(time.Hour)))

		hk := &service.HousekeepingService{Store: st, Interval: time.Minute}
		hk.Start(ctx)
		hk.Stop()

		revoked, err := st.RevokedTokens().IsTokenRevoked(ctx, "stale")
		require.NoError(t, err)
		require.False(t, revoked)

		revoked, err = st.RevokedTokens().IsTokenRevoked(ctx, "fresh")
		require.NoError(t, err)
		require.True(t, revoked)
	})

	t.Run("immediate stop never loses the first sweep", func(t *testing.T) {
		t.Parallel()
		st := newTestStore(t)
		ctx := context.Background()

		// Start followed by an instant Stop must still have pruned; the
		// initial sweep finishes before Start returns.
		for i := range 10 {
			jti := fmt.Sprintf("stale-%d", i)
			require.NoError(t, st.RevokedTokens().RevokeToken(ctx, jti, time.Now().Add(-time.Minute)))

			hk := &service.HousekeepingService{Store: st, Interval: time.Minute}
			hk.Start(ctx)
			hk.Stop()

			revoked, err := st.RevokedTokens().IsTokenRevoked(ctx, jti)
			require.NoError(t, err)
			require.False(t, revoked, "expired row survived start/stop cycle %d", i)
		}
	})
}

func projectTitleUpdate(title string) domain.ProjectUpdate {
	return domain.ProjectUpdate{Title: &title}
}
