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

// ProjectService owns project CRUD. Every read or write of a single project
// passes through the ownership guard first.
type ProjectService struct {
	Store store.Store
}

// ProjectInput carries the caller-supplied fields for a new project.
type ProjectInput struct {
	Title         string
	Description   string
	ReadmeContent string
	TechStack     []string
	GithubLink    string
	LiveDemoLink  string
}

func (s *ProjectService) Create(ctx context.Context, ownerID string, in ProjectInput) (domain.Project, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return domain.Project{}, fmt.Errorf("%w: title is required", ErrValidation)
	}

	now := time.Now().UTC()
	p := domain.Project{
		ID:            idx.New().String(),
		OwnerID:       ownerID,
		Title:         in.Title,
		Description:   in.Description,
		ReadmeContent: in.ReadmeContent,
		TechStack:     in.TechStack,
		GithubLink:    in.GithubLink,
		LiveDemoLink:  in.LiveDemoLink,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if p.TechStack == nil {
		p.TechStack = []string{}
	}

	if err := s.Store.Projects().CreateProject(ctx, p); err != nil {
		return domain.Project{}, fmt.Errorf("create project: %w", err)
	}

	slogx.FromContext(ctx).Info("project created", "project_id", p.ID, "owner_id", ownerID)
	return p, nil
}

// Get returns a project the actor owns. Missing and foreign projects are
// distinguished by sentinel for logging, never on the wire.
func (s *ProjectService) Get(ctx context.Context, actorID, projectID string) (domain.Project, error) {
	return s.authorized(ctx, actorID, projectID)
}

// List returns the actor's own projects, newest first.
func (s *ProjectService) List(ctx context.Context, actorID string) ([]domain.Project, error) {
	return s.Store.Projects().ListProjectsByOwner(ctx, actorID)
}

func (s *ProjectService) Update(ctx context.Context, actorID, projectID string, upd domain.ProjectUpdate) (domain.Project, error) {
	if _, err := s.authorized(ctx, actorID, projectID); err != nil {
		return domain.Project{}, err
	}

	if upd.Title != nil && strings.TrimSpace(*upd.Title) == "" {
		return domain.Project{}, fmt.Errorf("%w: title cannot be empty", ErrValidation)
	}

	if err := s.Store.Projects().UpdateProject(ctx, projectID, upd); err != nil {
		return domain.Project{}, fmt.Errorf("update project: %w", err)
	}
	return s.Store.Projects().GetProjectByID(ctx, projectID)
}

func (s *ProjectService) Delete(ctx context.Context, actorID, projectID string) error {
	if _, err := s.authorized(ctx, actorID, projectID); err != nil {
		return err
	}

	if err := s.Store.Projects().DeleteProject(ctx, projectID); err != nil {
		return fmt.Errorf("delete project: %w", err)
	}

	slogx.FromContext(ctx).Info("project deleted", "project_id", projectID, "owner_id", actorID)
	return nil
}

func (s *ProjectService) authorized(ctx context.Context, actorID, projectID string) (domain.Project, error) {
	p, err := s.Store.Projects().GetProjectByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Project{}, ErrResourceNotFound
		}
		return domain.Project{}, err
	}
	if err := requireOwner(ctx, actorID, p.OwnerID, "project", projectID); err != nil {
		return domain.Project{}, err
	}
	return p, nil
}
