package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/devfolio/devfolio/internal/portfolio/domain"
)

type projectsRepo struct {
	db dbtx
}

func (r *projectsRepo) CreateProject(ctx context.Context, p domain.Project) error {
	stack, err := marshalTechStack(p.TechStack)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO projects
			(id, owner_id, title, description, readme_content, tech_stack,
			 github_link, live_demo_link, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.OwnerID, p.Title, p.Description, p.ReadmeContent, stack,
		p.GithubLink, p.LiveDemoLink, p.CreatedAt, p.UpdatedAt,
	)
	return mapConflict(err)
}

func (r *projectsRepo) GetProjectByID(ctx context.Context, id string) (domain.Project, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, owner_id, title, description, readme_content, tech_stack,
		       github_link, live_demo_link, created_at, updated_at
		FROM projects WHERE id = ?`, id)

	return scanProject(row)
}

func (r *projectsRepo) ListProjectsByOwner(ctx context.Context, ownerID string) ([]domain.Project, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, owner_id, title, description, readme_content, tech_stack,
		       github_link, live_demo_link, created_at, updated_at
		FROM projects WHERE owner_id = ?
		ORDER BY created_at DESC, id DESC`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	projects := []domain.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (r *projectsRepo) UpdateProject(ctx context.Context, id string, upd domain.ProjectUpdate) error {
	sets := []string{"updated_at = ?"}
	args := []any{time.Now().UTC()}

	if upd.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *upd.Title)
	}
	if upd.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *upd.Description)
	}
	if upd.ReadmeContent != nil {
		sets = append(sets, "readme_content = ?")
		args = append(args, *upd.ReadmeContent)
	}
	if upd.TechStack != nil {
		stack, err := marshalTechStack(*upd.TechStack)
		if err != nil {
			return err
		}
		sets = append(sets, "tech_stack = ?")
		args = append(args, stack)
	}
	if upd.GithubLink != nil {
		sets = append(sets, "github_link = ?")
		args = append(args, *upd.GithubLink)
	}
	if upd.LiveDemoLink != nil {
		sets = append(sets, "live_demo_link = ?")
		args = append(args, *upd.LiveDemoLink)
	}

	args = append(args, id)
	res, err := r.db.ExecContext(ctx,
		fmt.Sprintf(`UPDATE projects SET %s WHERE id = ?`, strings.Join(sets, ", ")),
		args...,
	)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *projectsRepo) DeleteProject(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func scanProject(row rowScanner) (domain.Project, error) {
	var (
		p     domain.Project
		stack string
	)
	err := row.Scan(
		&p.ID, &p.OwnerID, &p.Title, &p.Description, &p.ReadmeContent, &stack,
		&p.GithubLink, &p.LiveDemoLink, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return domain.Project{}, mapNotFound(err)
	}
	if err := json.Unmarshal([]byte(stack), &p.TechStack); err != nil {
		return domain.Project{}, fmt.Errorf("decode tech_stack for project %s: %w", p.ID, err)
	}
	return p, nil
}

// marshalTechStack stores the stack as a JSON array, normalising nil to [].
func marshalTechStack(stack []string) (string, error) {
	if stack == nil {
		stack = []string{}
	}
	b, err := json.Marshal(stack)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
