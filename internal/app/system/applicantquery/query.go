// Package applicantquery filters, summarizes and exports applicant records
// for the admin dashboard. Everything here is pure: callers load the records
// from the store and pass them in.
package applicantquery

import (
	"sort"
	"strings"
	"time"

	"github.com/dalemusser/hackreg/internal/domain/models"
)

// Criteria are the admin dashboard filters. Empty fields are inactive.
type Criteria struct {
	Search string // case-insensitive substring of name, email or university
	Skill  string // exact skill tag
	Team   string // exact team preference value
}

// Active reports whether any filter is set.
func (c Criteria) Active() bool {
	return strings.TrimSpace(c.Search) != "" || c.Skill != "" || c.Team != ""
}

// Filter returns the records matching every active criterion, in input order.
func Filter(records []models.Application, c Criteria) []models.Application {
	q := strings.ToLower(strings.TrimSpace(c.Search))
	out := make([]models.Application, 0, len(records))
	for _, r := range records {
		if q != "" && !matchesSearch(r, q) {
			continue
		}
		if c.Skill != "" && !hasSkill(r, c.Skill) {
			continue
		}
		if c.Team != "" && r.TeamPreference != c.Team {
			continue
		}
		out = append(out, r)
	}
	return out
}

func matchesSearch(r models.Application, q string) bool {
	return strings.Contains(strings.ToLower(r.FullName), q) ||
		strings.Contains(strings.ToLower(r.Email), q) ||
		strings.Contains(strings.ToLower(r.University), q)
}

func hasSkill(r models.Application, skill string) bool {
	for _, s := range r.Skills {
		if s == skill {
			return true
		}
	}
	return false
}

// DistinctSkills returns every skill present in records, de-duplicated and sorted.
func DistinctSkills(records []models.Application) []string {
	seen := map[string]struct{}{}
	for _, r := range records {
		for _, s := range r.Skills {
			if s != "" {
				seen[s] = struct{}{}
			}
		}
	}
	out := make([]string, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// Stats are the dashboard summary cards.
type Stats struct {
	Total        int
	ThisWeek     int
	Universities int
	Advanced     int
}

// Summarize computes Stats. ThisWeek counts records created in the seven days
// before now. Universities are counted case-insensitively; blanks are ignored.
func Summarize(records []models.Application, now time.Time) Stats {
	weekAgo := now.Add(-7 * 24 * time.Hour)
	unis := map[string]struct{}{}
	st := Stats{Total: len(records)}
	for _, r := range records {
		if r.CreatedAt.After(weekAgo) {
			st.ThisWeek++
		}
		if u := strings.ToLower(strings.TrimSpace(r.University)); u != "" {
			unis[u] = struct{}{}
		}
		if r.Track == models.TrackAdvanced {
			st.Advanced++
		}
	}
	st.Universities = len(unis)
	return st
}
