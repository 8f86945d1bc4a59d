package domain

import "time"

// Project is an owned portfolio entry. OwnerID is set from the
// authenticated session at creation and is immutable afterwards.
type Project struct {
	ID            string
	OwnerID       string
	Title         string
	Description   string
	ReadmeContent string
	TechStack     []string
	GithubLink    string
	LiveDemoLink  string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ProjectUpdate carries a partial update. Nil fields are left untouched.
type ProjectUpdate struct {
	Title         *string
	Description   *string
	ReadmeContent *string
	TechStack     *[]string
	GithubLink    *string
	LiveDemoLink  *string
}
