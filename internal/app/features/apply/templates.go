// internal/app/features/apply/templates.go
package apply

import (
	"embed"

	"github.com/dalemusser/waffle/pantry/templates"
)

//go:embed templates/*.gohtml
var FS embed.FS

func init() {
	templates.Register(templates.Set{
		Name:     "apply",
		FS:       FS,
		Patterns: []string{"templates/*.gohtml"},
	})
}
