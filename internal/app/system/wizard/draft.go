package wizard

import (
	"strconv"
	"strings"

	"github.com/dalemusser/hackreg/internal/domain/models"
)

// Draft is the in-progress application held by one form session.
type Draft struct {
	FullName   string
	Email      string
	University string

	Experience   string
	Motivation   string
	Track        string
	GithubURL    string
	LinkedinURL  string
	PortfolioURL string
	Skills       []string

	TeamPreference string
	TeamMembers    [models.MaxTeamMembers]string
}

// Value returns the current value of a named field ("" for unknown names).
func (d *Draft) Value(field string) string {
	switch field {
	case FieldFullName:
		return d.FullName
	case FieldEmail:
		return d.Email
	case FieldUniversity:
		return d.University
	case FieldExperience:
		return d.Experience
	case FieldMotivation:
		return d.Motivation
	case FieldTrack:
		return d.Track
	case FieldGithubURL:
		return d.GithubURL
	case FieldLinkedinURL:
		return d.LinkedinURL
	case FieldPortfolioURL:
		return d.PortfolioURL
	case FieldTeamPreference:
		return d.TeamPreference
	}
	if i, ok := teamMemberIndex(field); ok {
		return d.TeamMembers[i]
	}
	return ""
}

// set stores value under field and reports whether the field exists.
func (d *Draft) set(field, value string) bool {
	switch field {
	case FieldFullName:
		d.FullName = value
	case FieldEmail:
		d.Email = value
	case FieldUniversity:
		d.University = value
	case FieldExperience:
		d.Experience = value
	case FieldMotivation:
		d.Motivation = value
	case FieldTrack:
		d.Track = value
	case FieldGithubURL:
		d.GithubURL = value
	case FieldLinkedinURL:
		d.LinkedinURL = value
	case FieldPortfolioURL:
		d.PortfolioURL = value
	case FieldTeamPreference:
		d.TeamPreference = value
	default:
		i, ok := teamMemberIndex(field)
		if !ok {
			return false
		}
		d.TeamMembers[i] = value
	}
	return true
}

func teamMemberIndex(field string) (int, bool) {
	rest, ok := strings.CutPrefix(field, "team_members.")
	if !ok {
		return 0, false
	}
	i, err := strconv.Atoi(rest)
	if err != nil || i < 0 || i >= models.MaxTeamMembers {
		return 0, false
	}
	return i, true
}

// ListedTeamMembers returns the non-blank team member emails in order.
func (d *Draft) ListedTeamMembers() []string {
	var out []string
	for _, m := range d.TeamMembers {
		if m != "" {
			out = append(out, m)
		}
	}
	return out
}

// Application converts the draft into a record ready for the store. Team
// members are only carried when the applicant said they have a team.
func (d *Draft) Application() models.Application {
	app := models.Application{
		FullName:       d.FullName,
		Email:          d.Email,
		University:     d.University,
		Track:          d.Track,
		Experience:     d.Experience,
		Motivation:     d.Motivation,
		GithubURL:      d.GithubURL,
		LinkedinURL:    d.LinkedinURL,
		PortfolioURL:   d.PortfolioURL,
		TeamPreference: d.TeamPreference,
	}
	if len(d.Skills) > 0 {
		app.Skills = append([]string(nil), d.Skills...)
	}
	if d.TeamPreference == models.TeamHaveTeam {
		app.TeamMembers = d.ListedTeamMembers()
	}
	return app
}
