// internal/app/features/admin/dashboard.go
package admin

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/dalemusser/hackreg/internal/app/system/applicantquery"
	"github.com/dalemusser/hackreg/internal/app/system/inputval"
	"github.com/dalemusser/hackreg/internal/app/system/timeouts"
	"github.com/dalemusser/hackreg/internal/app/system/viewdata"
	"github.com/dalemusser/hackreg/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
)

// skillsShown is how many skill tags a dashboard row displays.
const skillsShown = 3

type option struct {
	Value    string
	Label    string
	Selected bool
}

type rowVM struct {
	ID             string
	FullName       string
	Email          string
	University     string
	TrackLabel     string
	Skills         []string
	MoreSkills     string // "+N more"
	TeamPreference string
	CreatedAt      string
	MailtoURL      string
}

type dashboardVM struct {
	viewdata.BaseVM
	Stats     applicantquery.Stats
	Criteria  applicantquery.Criteria
	Notice    string
	Skills    []option
	Teams     []option
	Rows      []rowVM
	Showing   int
	Total     int
	ExportURL string
}

// filterInput is the admin filter form as submitted.
type filterInput struct {
	Search string `validate:"max=200" label:"Search"`
	Skill  string `validate:"max=100" label:"Skill"`
	Team   string `validate:"max=50" label:"Team preference"`
}

// criteriaFrom reads the filter query. Invalid input yields empty criteria
// and the first validation message.
func criteriaFrom(q url.Values) (applicantquery.Criteria, string) {
	in := filterInput{
		Search: strings.TrimSpace(q.Get("q")),
		Skill:  q.Get("skill"),
		Team:   q.Get("team"),
	}
	if res := inputval.Validate(in); res.HasErrors() {
		return applicantquery.Criteria{}, res.First()
	}
	return applicantquery.Criteria{Search: in.Search, Skill: in.Skill, Team: in.Team}, ""
}

func encodeCriteria(c applicantquery.Criteria) string {
	v := url.Values{}
	if c.Search != "" {
		v.Set("q", c.Search)
	}
	if c.Skill != "" {
		v.Set("skill", c.Skill)
	}
	if c.Team != "" {
		v.Set("team", c.Team)
	}
	return v.Encode()
}

func (h *Handler) loadAll(ctx context.Context) ([]models.Application, error) {
	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Query(), h.Log, "admin list applicants")
	defer cancel()
	return h.Store.ListAll(ctx)
}

// ServeDashboard lists applicants with the active filters and summary stats.
// GET /admin
func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	all, err := h.loadAll(r.Context())
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list applicants failed", err, "Could not load applications.", "/admin")
		return
	}

	crit, filterErr := criteriaFrom(r.URL.Query())
	filtered := applicantquery.Filter(all, crit)

	vm := dashboardVM{
		BaseVM:   viewdata.NewBaseVM(r, "Applicants", "/admin"),
		Stats:    applicantquery.Summarize(all, h.now()),
		Criteria: crit,
		Notice:   filterErr,
		Showing:  len(filtered),
		Total:    len(all),
	}
	for _, s := range applicantquery.DistinctSkills(all) {
		vm.Skills = append(vm.Skills, option{Value: s, Label: s, Selected: s == crit.Skill})
	}
	for _, p := range teamOptions(all) {
		vm.Teams = append(vm.Teams, option{Value: p, Label: models.TeamPreferenceLabel(p), Selected: p == crit.Team})
	}
	for _, a := range filtered {
		vm.Rows = append(vm.Rows, h.row(a))
	}
	vm.ExportURL = "/admin/export.csv"
	if q := encodeCriteria(crit); q != "" {
		vm.ExportURL += "?" + q
	}

	templates.Render(w, r, "admin_dashboard", vm)
}

// teamOptions lists the default preferences plus any other value present
// in the records (older records may carry a retired preference).
func teamOptions(all []models.Application) []string {
	out := append([]string{}, models.DefaultTeamPreferences...)
	seen := map[string]bool{}
	for _, p := range out {
		seen[p] = true
	}
	for _, a := range all {
		if a.TeamPreference != "" && !seen[a.TeamPreference] {
			seen[a.TeamPreference] = true
			out = append(out, a.TeamPreference)
		}
	}
	return out
}

func (h *Handler) row(a models.Application) rowVM {
	rv := rowVM{
		ID:             a.ID,
		FullName:       a.FullName,
		Email:          a.Email,
		University:     a.University,
		TrackLabel:     models.TrackLabel(a.Track),
		TeamPreference: models.TeamPreferenceLabel(a.TeamPreference),
		CreatedAt:      a.CreatedAt.Format("2006-01-02"),
		MailtoURL:      h.mailto(a),
	}
	rv.Skills = a.Skills
	if len(a.Skills) > skillsShown {
		rv.Skills = a.Skills[:skillsShown]
		rv.MoreSkills = fmt.Sprintf("+%d more", len(a.Skills)-skillsShown)
	}
	return rv
}

func (h *Handler) mailto(a models.Application) string {
	subject := fmt.Sprintf("Your %s application", h.EventName)
	return "mailto:" + a.Email + "?subject=" + url.PathEscape(subject)
}
