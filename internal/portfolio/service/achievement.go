package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/devfolio/devfolio/internal/portfolio/domain"
	"github.com/devfolio/devfolio/internal/portfolio/store"
	"github.com/devfolio/devfolio/pkg/idx"
	"github.com/devfolio/devfolio/pkg/slogx"
)

// AchievementService owns achievement CRUD, guarded the same way as
// projects.
type AchievementService struct {
	Store store.Store
}

// AchievementInput carries the caller-supplied fields for a new achievement.
type AchievementInput struct {
	Title           string
	Description     string
	Date            string
	CertificateLink string
}

func (s *AchievementService) Create(ctx context.Context, ownerID string, in AchievementInput) (domain.Achievement, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return domain.Achievement{}, fmt.Errorf("%w: title is required", ErrValidation)
	}

	a := domain.Achievement{
		ID:              idx.New().String(),
		OwnerID:         ownerID,
		Title:           in.Title,
		Description:     in.Description,
		Date:            in.Date,
		CertificateLink: in.CertificateLink,
		CreatedAt:       time.Now().UTC(),
	}

	if err := s.Store.Achievements().CreateAchievement(ctx, a); err != nil {
		return domain.Achievement{}, fmt.Errorf("create achievement: %w", err)
	}

	slogx.FromContext(ctx).Info("achievement created", "achievement_id", a.ID, "owner_id", ownerID)
	return a, nil
}

func (s *AchievementService) Get(ctx context.Context, actorID, achievementID string) (domain.Achievement, error) {
	return s.authorized(ctx, actorID, achievementID)
}

// List returns the actor's own achievements, newest first.
func (s *AchievementService) List(ctx context.Context, actorID string) ([]domain.Achievement, error) {
	return s.Store.Achievements().ListAchievementsByOwner(ctx, actorID)
}

func (s *AchievementService) Update(ctx context.Context, actorID, achievementID string, upd domain.AchievementUpdate) (domain.Achievement, error) {
	if _, err := s.authorized(ctx, actorID, achievementID); err != nil {
		return domain.Achievement{}, err
	}

	if upd.Title != nil && strings.TrimSpace(*upd.Title) == "" {
		return domain.Achievement{}, fmt.Errorf("%w: title cannot be empty", ErrValidation)
	}

	if err := s.Store.Achievements().UpdateAchievement(ctx, achievementID, upd); err != nil {
		return domain.Achievement{}, fmt.Errorf("update achievement: %w", err)
	}
	return s.Store.Achievements().GetAchievementByID(ctx, achievementID)
}

func (s *AchievementService) Delete(ctx context.Context, actorID, achievementID string) error {
	if _, err := s.authorized(ctx, actorID, achievementID); err != nil {
		return err
	}

	if err := s.Store.Achievements().DeleteAchievement(ctx, achievementID); err != nil {
		return fmt.Errorf("delete achievement: %w", err)
	}

	slogx.FromContext(ctx).Info("achievement deleted", "achievement_id", achievementID, "owner_id", actorID)
	return nil
}

func (s *AchievementService) authorized(ctx context.Context, actorID, achievementID string) (domain.Achievement, error) {
	a, err := s.Store.Achievements().GetAchievementByID(ctx, achievementID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Achievement{}, ErrResourceNotFound
		}
		return domain.Achievement{}, err
	}
	if err := requireOwner(ctx, actorID, a.OwnerID, "achievement", achievementID); err != nil {
		return domain.Achievement{}, err
	}
	return a, nil
}
