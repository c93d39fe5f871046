// internal/app/system/applicantquery/export.go
package applicantquery

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dalemusser/hackreg/internal/domain/models"
)

// SkillsSeparator joins the skills list inside the Skills column.
const SkillsSeparator = "; "

// CreatedAtLayout formats the Created At column.
const CreatedAtLayout = time.RFC3339Nano

// Header is the fixed export column order.
var Header = []string{"Name", "Email", "University", "Track", "Skills", "Team Preference", "Created At"}

// ExportFilename is the download name for an export taken at now.
func ExportFilename(now time.Time) string {
	return "hackathon-applicants-" + now.Format("2006-01-02") + ".csv"
}

// Export writes records as CSV: one header row, then one row per record.
func Export(w io.Writer, records []models.Application) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			r.FullName,
			r.Email,
			r.University,
			r.Track,
			strings.Join(r.Skills, SkillsSeparator),
			r.TeamPreference,
			r.CreatedAt.UTC().Format(CreatedAtLayout),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ParseExport reads a file produced by Export. Only the exported columns are
// populated on the returned records.
func ParseExport(r io.Reader) ([]models.Application, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(Header)

	head, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i, h := range Header {
		if head[i] != h {
			return nil, fmt.Errorf("unexpected column %d: %q, want %q", i+1, head[i], h)
		}
	}

	var out []models.Application
	for {
		row, err := cr.Read()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		created, err := time.Parse(CreatedAtLayout, row[6])
		if err != nil {
			line, _ := cr.FieldPos(6)
			return nil, fmt.Errorf("line %d: created at: %w", line, err)
		}
		var skills []string
		if row[4] != "" {
			skills = strings.Split(row[4], SkillsSeparator)
		}
		out = append(out, models.Application{
			FullName:       row[0],
			Email:          row[1],
			University:     row[2],
			Track:          row[3],
			Skills:         skills,
			TeamPreference: row[5],
			CreatedAt:      created,
		})
	}
}
