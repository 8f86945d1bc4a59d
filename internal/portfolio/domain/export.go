package domain

import (
	"errors"
	"time"
)

// Sections selects which parts of a portfolio a public read includes. It is
// a closed enumeration; anything else is a validation error.
type Sections string

const (
	SectionsAll          Sections = "all"
	SectionsProjects     Sections = "projects"
	SectionsAchievements Sections = "achievements"
)

var ErrInvalidSections = errors.New("domain: invalid sections value")

// ParseSections validates a raw query value. The empty string defaults
// to SectionsAll.
func ParseSections(raw string) (Sections, error) {
	switch Sections(raw) {
	case "":
		return SectionsAll, nil
	case SectionsAll, SectionsProjects, SectionsAchievements:
		return Sections(raw), nil
	default:
		return "", ErrInvalidSections
	}
}

// IncludesProjects reports whether the project list is part of the selection.
func (s Sections) IncludesProjects() bool {
	return s == SectionsAll || s == SectionsProjects
}

// IncludesAchievements reports whether the achievement list is part of the selection.
func (s Sections) IncludesAchievements() bool {
	return s == SectionsAll || s == SectionsAchievements
}

// The public projection types below are deliberate allow-lists: every field
// that leaves the service on an unauthenticated path is named here. New
// private fields on Project/Achievement stay private until added explicitly.

// PublicProject is the public-safe view of a project.
type PublicProject struct {
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	ReadmeContent string   `json:"readme_content"`
	TechStack     []string `json:"tech_stack"`
	GithubLink    string   `json:"github_link"`
	LiveDemoLink  string   `json:"live_demo_link"`
	CreatedAt     string   `json:"created_at"`
}

// PublicAchievement is the public-safe view of an achievement.
type PublicAchievement struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	Date            string `json:"date"`
	CertificateLink string `json:"certificate_link"`
}

// Profile is the public profile projection. Omitted sections leave their
// key absent rather than null or empty.
type Profile struct {
	Name         string               `json:"name"`
	Slug         string               `json:"unique_slug"`
	ExportURL    string               `json:"export_url"`
	Projects     *[]PublicProject     `json:"projects,omitempty"`
	Achievements *[]PublicAchievement `json:"achievements,omitempty"`
}

// Export is the machine-readable export projection.
type Export struct {
	User         ExportUser           `json:"user"`
	Projects     *[]PublicProject     `json:"projects,omitempty"`
	Achievements *[]PublicAchievement `json:"achievements,omitempty"`
	Metadata     ExportMetadata       `json:"metadata"`
}

// ExportUser identifies the exported portfolio without exposing account
// details beyond the display name.
type ExportUser struct {
	Name       string `json:"name"`
	ProfileURL string `json:"profile_url"`
}

// ExportMetadata describes the export itself.
type ExportMetadata struct {
	ExportedAt        time.Time `json:"exported_at"`
	SectionsIncluded  Sections  `json:"sections_included"`
	Format            string    `json:"format"`
	Version           string    `json:"version"`
	TotalProjects     *int      `json:"total_projects,omitempty"`
	TotalAchievements *int      `json:"total_achievements,omitempty"`
}
