package wizard

import (
	"fmt"

	"github.com/dalemusser/hackreg/internal/app/system/inputval"
	"github.com/dalemusser/hackreg/internal/domain/models"
)

// Field names. They double as HTML form input names.
const (
	FieldFullName       = "full_name"
	FieldEmail          = "email"
	FieldUniversity     = "university"
	FieldExperience     = "experience"
	FieldMotivation     = "motivation"
	FieldTrack          = "track_selection"
	FieldGithubURL      = "github_url"
	FieldLinkedinURL    = "linkedin_url"
	FieldPortfolioURL   = "portfolio_url"
	FieldTeamPreference = "team_preference"
)

// TeamMemberField returns the field name for team member i (0-based).
func TeamMemberField(i int) string {
	return fmt.Sprintf("team_members.%d", i)
}

// Messages for required fields.
const (
	MsgFullNameRequired       = "Full name is required"
	MsgExperienceRequired     = "Experience description is required"
	MsgMotivationRequired     = "Motivation is required"
	MsgTrackRequired          = "Please select a track"
	MsgTeamPreferenceRequired = "Team preference is required"
	MsgTeamMemberRequired     = "At least one team member email is required"
)

// Step describes one page of the wizard.
type Step struct {
	Number int
	Title  string
}

// Steps is the fixed, linear page order. The last step is review-only.
var Steps = []Step{
	{Number: 1, Title: "Personal Info"},
	{Number: 2, Title: "Experience & Motivation"},
	{Number: 3, Title: "Additional Info"},
	{Number: 4, Title: "Review & Submit"},
}

// FinalStep is the step from which an application can be submitted.
var FinalStep = len(Steps)

// Requirement declares how one field on one step is validated.
//
// Applies decides whether the field is part of the form at all for the current
// draft (nil means always). When it applies and Required is set, Rule must
// pass; when it applies and is optional, Rule runs only on non-blank values.
// DependsOn lists fields whose changes must re-evaluate this one.
type Requirement struct {
	Step      int
	Field     string
	Required  bool
	Applies   func(d *Draft) bool
	Rule      inputval.Rule
	DependsOn []string
}

func (r Requirement) applies(d *Draft) bool {
	return r.Applies == nil || r.Applies(d)
}

// Check evaluates the requirement against d. Fields that do not apply pass.
func (r Requirement) Check(d *Draft) inputval.Check {
	if !r.applies(d) {
		return inputval.Pass()
	}
	rule := r.Rule
	if rule == nil {
		return inputval.Pass()
	}
	if !r.Required {
		rule = inputval.Optional(rule)
	}
	return rule(d.Value(r.Field))
}

// Config carries the configurable parts of the form.
type Config struct {
	DisposableDomains inputval.DomainSet
	TeamPreferences   []string // accepted team_preference values
}

// DefaultConfig uses the built-in disposable domains and team preferences.
func DefaultConfig() Config {
	return Config{
		DisposableDomains: inputval.NewDomainSet(inputval.DefaultDisposableDomains...),
		TeamPreferences:   models.DefaultTeamPreferences,
	}
}

// Table is the ordered set of requirements for the whole form.
type Table struct {
	reqs    []Requirement
	byField map[string]int
	prefs   []string
}

// NewTable builds the requirement table for cfg.
func NewTable(cfg Config) *Table {
	if cfg.DisposableDomains == nil {
		cfg.DisposableDomains = inputval.NewDomainSet(inputval.DefaultDisposableDomains...)
	}
	if len(cfg.TeamPreferences) == 0 {
		cfg.TeamPreferences = models.DefaultTeamPreferences
	}

	haveTeam := func(d *Draft) bool { return d.TeamPreference == models.TeamHaveTeam }

	reqs := []Requirement{
		{Step: 1, Field: FieldFullName, Required: true, Rule: inputval.Required(MsgFullNameRequired)},
		{Step: 1, Field: FieldEmail, Required: true, Rule: inputval.ApplicantEmail(cfg.DisposableDomains)},
		{Step: 1, Field: FieldUniversity},

		{Step: 2, Field: FieldExperience, Required: true, Rule: inputval.Required(MsgExperienceRequired)},
		{Step: 2, Field: FieldMotivation, Required: true, Rule: inputval.Required(MsgMotivationRequired)},
		{Step: 2, Field: FieldTrack, Required: true, Rule: inputval.OneOf(models.Tracks, MsgTrackRequired)},
		{Step: 2, Field: FieldGithubURL, Rule: inputval.HTTPURL()},
		{Step: 2, Field: FieldLinkedinURL, Rule: inputval.HTTPURL()},
		{Step: 2, Field: FieldPortfolioURL, Rule: inputval.HTTPURL()},

		{Step: 3, Field: FieldTeamPreference, Required: true, Rule: inputval.OneOf(cfg.TeamPreferences, MsgTeamPreferenceRequired)},
	}
	for i := 0; i < models.MaxTeamMembers; i++ {
		req := Requirement{
			Step:      3,
			Field:     TeamMemberField(i),
			Applies:   haveTeam,
			Rule:      inputval.TeamMemberEmail(),
			DependsOn: []string{FieldTeamPreference},
		}
		if i == 0 {
			req.Required = true
			req.Rule = inputval.Chain(inputval.Required(MsgTeamMemberRequired), inputval.TeamMemberEmail())
		}
		reqs = append(reqs, req)
	}

	t := &Table{reqs: reqs, byField: make(map[string]int, len(reqs)), prefs: cfg.TeamPreferences}
	for i, r := range reqs {
		t.byField[r.Field] = i
	}
	return t
}

// TeamPreferences returns the accepted team preference values.
func (t *Table) TeamPreferences() []string {
	out := make([]string, len(t.prefs))
	copy(out, t.prefs)
	return out
}

// Lookup returns the requirement for field.
func (t *Table) Lookup(field string) (Requirement, bool) {
	i, ok := t.byField[field]
	if !ok {
		return Requirement{}, false
	}
	return t.reqs[i], true
}

// ForStep returns the requirements declared on step, in declaration order.
func (t *Table) ForStep(step int) []Requirement {
	var out []Requirement
	for _, r := range t.reqs {
		if r.Step == step {
			out = append(out, r)
		}
	}
	return out
}

// Dependents returns the requirements that must be re-evaluated when field changes.
func (t *Table) Dependents(field string) []Requirement {
	var out []Requirement
	for _, r := range t.reqs {
		for _, dep := range r.DependsOn {
			if dep == field {
				out = append(out, r)
				break
			}
		}
	}
	return out
}

// StepErrors evaluates every requirement on step against d.
func (t *Table) StepErrors(step int, d *Draft) map[string]string {
	errs := map[string]string{}
	for _, r := range t.ForStep(step) {
		if c := r.Check(d); !c.Valid {
			errs[r.Field] = c.Message
		}
	}
	return errs
}

// Errors evaluates every requirement in the table against d.
func (t *Table) Errors(d *Draft) map[string]string {
	errs := map[string]string{}
	for _, r := range t.reqs {
		if c := r.Check(d); !c.Valid {
			errs[r.Field] = c.Message
		}
	}
	return errs
}
