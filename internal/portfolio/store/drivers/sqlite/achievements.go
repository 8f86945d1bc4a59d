package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/devfolio/devfolio/internal/portfolio/domain"
	"github.com/devfolio/devfolio/internal/portfolio/store"
)

type achievementsRepo struct {
	db dbtx
}

func (r *achievementsRepo) CreateAchievement(ctx context.Context, a domain.Achievement) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO achievements
			(id, owner_id, title, description, date, certificate_link, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.OwnerID, a.Title, a.Description, a.Date, a.CertificateLink, a.CreatedAt,
	)
	return mapConflict(err)
}

func (r *achievementsRepo) GetAchievementByID(ctx context.Context, id string) (domain.Achievement, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, owner_id, title, description, date, certificate_link, created_at
		FROM achievements WHERE id = ?`, id)

	return scanAchievement(row)
}

func (r *achievementsRepo) ListAchievementsByOwner(ctx context.Context, ownerID string) ([]domain.Achievement, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, owner_id, title, description, date, certificate_link, created_at
		FROM achievements WHERE owner_id = ?
		ORDER BY created_at DESC, id DESC`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	achievements := []domain.Achievement{}
	for rows.Next() {
		a, err := scanAchievement(rows)
		if err != nil {
			return nil, err
		}
		achievements = append(achievements, a)
	}
	return achievements, rows.Err()
}

func (r *achievementsRepo) UpdateAchievement(ctx context.Context, id string, upd domain.AchievementUpdate) error {
	sets := []string{}
	args := []any{}

	if upd.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *upd.Title)
	}
	if upd.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *upd.Description)
	}
	if upd.Date != nil {
		sets = append(sets, "date = ?")
		args = append(args, *upd.Date)
	}
	if upd.CertificateLink != nil {
		sets = append(sets, "certificate_link = ?")
		args = append(args, *upd.CertificateLink)
	}

	if len(sets) == 0 {
		// Nothing to change; still surface not-found for unknown ids.
		_, err := r.GetAchievementByID(ctx, id)
		return err
	}

	args = append(args, id)
	res, err := r.db.ExecContext(ctx,
		fmt.Sprintf(`UPDATE achievements SET %s WHERE id = ?`, strings.Join(sets, ", ")),
		args...,
	)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *achievementsRepo) DeleteAchievement(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM achievements WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func scanAchievement(row rowScanner) (domain.Achievement, error) {
	var a domain.Achievement
	err := row.Scan(
		&a.ID, &a.OwnerID, &a.Title, &a.Description, &a.Date, &a.CertificateLink, &a.CreatedAt,
	)
	if err != nil {
		return domain.Achievement{}, mapNotFound(err)
	}
	return a, nil
}

// requireAffected turns a zero-row write into ErrNotFound.
func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
