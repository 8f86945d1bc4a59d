package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/devfolio/devfolio/internal/portfolio/domain"
	"github.com/devfolio/devfolio/internal/portfolio/store"
)

// ExportFormatVersion identifies the shape of the export document. Bump it
// when the projection changes incompatibly.
const ExportFormatVersion = "1.0"

// ExportService builds the unauthenticated public projections: the profile
// page payload and the machine-readable export. Both resolve the slug first
// and only ever emit allow-listed fields.
type ExportService struct {
	Store store.Store

	// BaseURL is the externally visible origin used to build export and
	// profile links, e.g. "https://devfolio.example.com".
	BaseURL string
}

// BuildProfile resolves a slug to its public profile, filtered to the
// requested sections. Unknown and retired slugs both come back as
// ErrResourceNotFound.
func (s *ExportService) BuildProfile(ctx context.Context, slug string, sections domain.Sections) (domain.Profile, error) {
	user, projects, achievements, err := s.load(ctx, slug, sections)
	if err != nil {
		return domain.Profile{}, err
	}

	return domain.Profile{
		Name:         user.Name,
		Slug:         user.Slug,
		ExportURL:    fmt.Sprintf("%s/api/export/%s", s.BaseURL, user.Slug),
		Projects:     projects,
		Achievements: achievements,
	}, nil
}

// BuildExport resolves a slug to its export document, filtered to the
// requested sections. Omitted sections are absent from the JSON, not empty.
func (s *ExportService) BuildExport(ctx context.Context, slug string, sections domain.Sections) (domain.Export, error) {
	user, projects, achievements, err := s.load(ctx, slug, sections)
	if err != nil {
		return domain.Export{}, err
	}

	meta := domain.ExportMetadata{
		ExportedAt:       time.Now().UTC(),
		SectionsIncluded: sections,
		Format:           "json",
		Version:          ExportFormatVersion,
	}
	if projects != nil {
		n := len(*projects)
		meta.TotalProjects = &n
	}
	if achievements != nil {
		n := len(*achievements)
		meta.TotalAchievements = &n
	}

	return domain.Export{
		User: domain.ExportUser{
			Name:       user.Name,
			ProfileURL: fmt.Sprintf("%s/api/profile/%s", s.BaseURL, user.Slug),
		},
		Projects:     projects,
		Achievements: achievements,
		Metadata:     meta,
	}, nil
}

// load resolves the slug and gathers the selected sections.
func (s *ExportService) load(ctx context.Context, slug string, sections domain.Sections) (domain.User, *[]domain.PublicProject, *[]domain.PublicAchievement, error) {
	userID, err := s.Store.Slugs().ResolveSlug(ctx, slug)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, nil, nil, ErrResourceNotFound
		}
		return domain.User{}, nil, nil, fmt.Errorf("resolve slug: %w", err)
	}

	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		// A slug pointing at a missing account is a dangling registry row;
		// treat it as not found rather than erroring.
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, nil, nil, ErrResourceNotFound
		}
		return domain.User{}, nil, nil, fmt.Errorf("load user: %w", err)
	}

	var projects *[]domain.PublicProject
	if sections.IncludesProjects() {
		list, err := s.Store.Projects().ListProjectsByOwner(ctx, userID)
		if err != nil {
			return domain.User{}, nil, nil, fmt.Errorf("list projects: %w", err)
		}
		pub := make([]domain.PublicProject, 0, len(list))
		for _, p := range list {
			pub = append(pub, publicProject(p))
		}
		projects = &pub
	}

	var achievements *[]domain.PublicAchievement
	if sections.IncludesAchievements() {
		list, err := s.Store.Achievements().ListAchievementsByOwner(ctx, userID)
		if err != nil {
			return domain.User{}, nil, nil, fmt.Errorf("list achievements: %w", err)
		}
		pub := make([]domain.PublicAchievement, 0, len(list))
		for _, a := range list {
			pub = append(pub, publicAchievement(a))
		}
		achievements = &pub
	}

	return user, projects, achievements, nil
}

func publicProject(p domain.Project) domain.PublicProject {
	stack := p.TechStack
	if stack == nil {
		stack = []string{}
	}
	return domain.PublicProject{
		Title:         p.Title,
		Description:   p.Description,
		ReadmeContent: p.ReadmeContent,
		TechStack:     stack,
		GithubLink:    p.GithubLink,
		LiveDemoLink:  p.LiveDemoLink,
		CreatedAt:     p.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func publicAchievement(a domain.Achievement) domain.PublicAchievement {
	return domain.PublicAchievement{
		Title:           a.Title,
		Description:     a.Description,
		Date:            a.Date,
		CertificateLink: a.CertificateLink,
	}
}
