// internal/app/features/apply/viewmodel.go
package apply

import (
	"net/http"
	"strings"

	"github.com/dalemusser/hackreg/internal/app/system/viewdata"
	"github.com/dalemusser/hackreg/internal/app/system/wizard"
	"github.com/dalemusser/hackreg/internal/domain/models"
)

type option struct {
	Value    string
	Label    string
	Selected bool
}

type teamMemberVM struct {
	Number int
	Field  string
	Value  string
	Error  string
}

type stepVM struct {
	viewdata.BaseVM

	Steps     []wizard.Step
	Step      int
	StepTitle string
	IsFinal   bool

	Draft  wizard.Draft
	Errors map[string]string
	Banner string

	Tracks          []option
	TeamPreferences []option
	SkillOptions    []option
	OtherSkills     string
	TeamMembers     []teamMemberVM
	ShowTeamMembers bool

	// Review step
	TrackLabel          string
	TeamPreferenceLabel string
	ListedTeamMembers   []string
}

func (h *Handler) buildStepVM(r *http.Request, wz *wizard.Wizard, banner string) stepVM {
	step := wz.Step()
	d := wz.Draft()
	errs := wz.Errors()

	vm := stepVM{
		BaseVM:    viewdata.NewBaseVM(r, "Apply", "/"),
		Steps:     wizard.Steps,
		Step:      step,
		StepTitle: wizard.Steps[step-1].Title,
		IsFinal:   step == wizard.FinalStep,
		Draft:     d,
		Errors:    errs,
		Banner:    banner,

		ShowTeamMembers:     d.TeamPreference == models.TeamHaveTeam,
		TrackLabel:          models.TrackLabel(d.Track),
		TeamPreferenceLabel: models.TeamPreferenceLabel(d.TeamPreference),
		ListedTeamMembers:   d.ListedTeamMembers(),
	}

	for _, t := range models.Tracks {
		vm.Tracks = append(vm.Tracks, option{Value: t, Label: models.TrackLabel(t), Selected: d.Track == t})
	}
	for _, p := range wz.Table().TeamPreferences() {
		vm.TeamPreferences = append(vm.TeamPreferences, option{Value: p, Label: models.TeamPreferenceLabel(p), Selected: d.TeamPreference == p})
	}

	chosen := make(map[string]bool, len(d.Skills))
	for _, s := range d.Skills {
		chosen[s] = true
	}
	var other []string
	for _, name := range h.Catalog.Names() {
		vm.SkillOptions = append(vm.SkillOptions, option{Value: name, Label: name, Selected: chosen[name]})
		delete(chosen, name)
	}
	for _, s := range d.Skills {
		if chosen[s] {
			other = append(other, s)
		}
	}
	vm.OtherSkills = strings.Join(other, ", ")

	for i := 0; i < models.MaxTeamMembers; i++ {
		f := wizard.TeamMemberField(i)
		vm.TeamMembers = append(vm.TeamMembers, teamMemberVM{
			Number: i + 1,
			Field:  f,
			Value:  d.TeamMembers[i],
			Error:  errs[f],
		})
	}
	return vm
}
