// internal/domain/models/application.go
package models

import (
	"time"
)

// Track values accepted for Application.Track.
const (
	TrackBeginner = "beginner"
	TrackAdvanced = "advanced"
)

// Team preference values. The accepted set is configurable (see
// bootstrap.AppConfig.TeamPreferences); these are the defaults.
const (
	TeamIndividual   = "individual"
	TeamJoin         = "team"
	TeamHaveTeam     = "have_team"
	TeamNoPreference = "no_preference" // legacy value still present in older records
)

// MaxTeamMembers is how many teammate emails an applicant may list.
const MaxTeamMembers = 4

// Tracks lists the selectable tracks in display order.
var Tracks = []string{TrackBeginner, TrackAdvanced}

// DefaultTeamPreferences lists the selectable team preferences in display order.
var DefaultTeamPreferences = []string{TeamIndividual, TeamJoin, TeamHaveTeam}

// Application is one applicant's submission. ID and CreatedAt are assigned by
// the store on insert; the record is never modified afterwards.
type Application struct {
	ID        string    `bson:"_id" json:"id"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`

	FullName   string `bson:"full_name" json:"full_name"`
	Email      string `bson:"email" json:"email"`
	EmailCI    string `bson:"email_ci" json:"-"` // ← always stored; unique
	University string `bson:"university" json:"university"`

	Track      string   `bson:"track_selection" json:"track_selection"`
	Skills     []string `bson:"skills" json:"skills"`
	Experience string   `bson:"experience" json:"experience"`
	Motivation string   `bson:"motivation" json:"motivation"`

	GithubURL    string `bson:"github_url,omitempty" json:"github_url,omitempty"`
	LinkedinURL  string `bson:"linkedin_url,omitempty" json:"linkedin_url,omitempty"`
	PortfolioURL string `bson:"portfolio_url,omitempty" json:"portfolio_url,omitempty"`

	TeamPreference string   `bson:"team_preference" json:"team_preference"`
	TeamMembers    []string `bson:"team_members,omitempty" json:"team_members,omitempty"`
}

// ListedTeamMembers returns the non-blank team member emails in order.
func (a Application) ListedTeamMembers() []string {
	var out []string
	for _, m := range a.TeamMembers {
		if m != "" {
			out = append(out, m)
		}
	}
	return out
}

// TrackLabel is the human-readable track name ("Beginner Track").
func TrackLabel(track string) string {
	switch track {
	case TrackBeginner:
		return "Beginner Track"
	case TrackAdvanced:
		return "Advanced Track"
	default:
		return "Not selected"
	}
}

// TeamPreferenceLabel is the human-readable team preference.
func TeamPreferenceLabel(pref string) string {
	switch pref {
	case TeamIndividual:
		return "Work individually"
	case TeamJoin:
		return "Join a team"
	case TeamHaveTeam:
		return "Have a team"
	case TeamNoPreference:
		return "No preference"
	default:
		return "Not selected"
	}
}
