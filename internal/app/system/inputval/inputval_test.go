package inputval

import "testing"

func TestValidate(t *testing.T) {
	type TestInput struct {
		Name  string `validate:"required,max=10" label:"Full name"`
		Email string `validate:"required,appemail" label:"Email address"`
	}

	tests := []struct {
		name       string
		input      TestInput
		wantErrors bool
		wantFirst  string
	}{
		{
			name:       "valid input",
			input:      TestInput{Name: "Ada", Email: "ada@example.com"},
			wantErrors: false,
		},
		{
			name:       "missing name",
			input:      TestInput{Name: "", Email: "ada@example.com"},
			wantErrors: true,
			wantFirst:  "Full name is required.",
		},
		{
			name:       "name too long",
			input:      TestInput{Name: "VeryLongNameThatExceedsLimit", Email: "ada@example.com"},
			wantErrors: true,
			wantFirst:  "Full name must be at most 10 characters.",
		},
		{
			name:       "invalid email",
			input:      TestInput{Name: "Ada", Email: "not-an-email"},
			wantErrors: true,
			wantFirst:  "A valid email address is required.",
		},
		{
			name:       "missing both",
			input:      TestInput{},
			wantErrors: true,
			wantFirst:  "Full name is required.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Validate(tt.input)

			if result.HasErrors() != tt.wantErrors {
				t.Errorf("Validate() HasErrors = %v, want %v", result.HasErrors(), tt.wantErrors)
			}
			if tt.wantErrors && result.First() != tt.wantFirst {
				t.Errorf("Validate() First() = %q, want %q", result.First(), tt.wantFirst)
			}
		})
	}
}

func TestValidate_OneOfAndURL(t *testing.T) {
	type filterInput struct {
		Team string `validate:"omitempty,oneof=individual team have_team" label:"Team preference"`
		Link string `validate:"omitempty,httpurl" label:"Portfolio"`
	}

	if r := Validate(filterInput{}); r.HasErrors() {
		t.Errorf("empty optional fields should pass, got %v", r.All())
	}
	if r := Validate(filterInput{Team: "have_team", Link: "https://me.dev"}); r.HasErrors() {
		t.Errorf("valid input has errors: %v", r.All())
	}

	r := Validate(filterInput{Team: "solo"})
	if !r.HasErrors() {
		t.Fatal("Validate(team=solo) should fail")
	}
	if want := "Team preference must be one of: individual, team, have_team."; r.First() != want {
		t.Errorf("First() = %q, want %q", r.First(), want)
	}

	r = Validate(filterInput{Link: "me.dev"})
	if want := "Portfolio must be a valid http(s) URL."; r.First() != want {
		t.Errorf("First() = %q, want %q", r.First(), want)
	}
}

func TestResult_All(t *testing.T) {
	t.Run("no errors", func(t *testing.T) {
		r := &Result{}
		if r.All() != "" {
			t.Errorf("All() = %q, want empty", r.All())
		}
		if r.First() != "" {
			t.Errorf("First() = %q, want empty", r.First())
		}
	})

	t.Run("multiple errors", func(t *testing.T) {
		r := &Result{
			Errors: []FieldError{
				{Message: "Error 1"},
				{Message: "Error 2"},
			},
		}
		if want := "Error 1; Error 2"; r.All() != want {
			t.Errorf("All() = %q, want %q", r.All(), want)
		}
		if r.First() != "Error 1" {
			t.Errorf("First() = %q, want %q", r.First(), "Error 1")
		}
	})
}
