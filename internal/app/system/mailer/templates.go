// internal/app/system/mailer/templates.go
package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/dalemusser/hackreg/internal/domain/models"
)

// ConfirmationEmailData holds data for the application confirmation email.
type ConfirmationEmailData struct {
	EventName      string
	FullName       string
	University     string
	TrackLabel     string
	TeamPreference string
	Skills         string // comma-joined; "None listed" when empty
}

// ConfirmationData derives template data from a stored application.
func ConfirmationData(eventName string, app models.Application) ConfirmationEmailData {
	skills := "None listed"
	if len(app.Skills) > 0 {
		skills = strings.Join(app.Skills, ", ")
	}
	university := app.University
	if university == "" {
		university = "Not provided"
	}
	return ConfirmationEmailData{
		EventName:      eventName,
		FullName:       app.FullName,
		University:     university,
		TrackLabel:     models.TrackLabel(app.Track),
		TeamPreference: models.TeamPreferenceLabel(app.TeamPreference),
		Skills:         skills,
	}
}

// BuildConfirmationEmail creates the confirmation email for app with both
// HTML and text bodies. The output depends only on its arguments.
func BuildConfirmationEmail(eventName string, app models.Application) Email {
	data := ConfirmationData(eventName, app)
	return Email{
		To:       app.Email,
		ToName:   app.FullName,
		Subject:  fmt.Sprintf("Welcome to %s - Application Confirmed!", eventName),
		TextBody: buildConfirmationText(data),
		HTMLBody: buildConfirmationHTML(data),
	}
}

func buildConfirmationText(data ConfirmationEmailData) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Hi %s,\n\n", data.FullName)
	fmt.Fprintf(&buf, "Your application for %s has been submitted and confirmed.\n\n", data.EventName)
	buf.WriteString("Application details\n")
	fmt.Fprintf(&buf, "  Name:            %s\n", data.FullName)
	fmt.Fprintf(&buf, "  University:      %s\n", data.University)
	fmt.Fprintf(&buf, "  Track:           %s\n", data.TrackLabel)
	fmt.Fprintf(&buf, "  Team preference: %s\n", data.TeamPreference)
	fmt.Fprintf(&buf, "  Skills:          %s\n\n", data.Skills)
	buf.WriteString("What happens next\n")
	buf.WriteString("  - Within 24 hours: your participant packet with event details\n")
	buf.WriteString("  - 1 week before: final schedule and logistics\n")
	buf.WriteString("  - Event day: check-in opens 1 hour before the start\n\n")
	fmt.Fprintf(&buf, "Best regards,\nThe %s Team\n", data.EventName)
	return buf.String()
}

var confirmationHTML = template.Must(template.New("confirmation").Parse(confirmationHTMLTemplate))

func buildConfirmationHTML(data ConfirmationEmailData) string {
	var buf bytes.Buffer
	_ = confirmationHTML.Execute(&buf, data)
	return buf.String()
}

const confirmationHTMLTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>Application Confirmed</title>
</head>
<body style="margin: 0; padding: 0; font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif; background-color: #f3f4f6;">
  <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="background-color: #f3f4f6;">
    <tr>
      <td align="center" style="padding: 40px 20px;">
        <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="max-width: 560px; background-color: #ffffff; border-radius: 8px; box-shadow: 0 2px 4px rgba(0, 0, 0, 0.1);">
          <tr>
            <td style="padding: 32px 32px 24px; text-align: center; border-bottom: 1px solid #e5e7eb;">
              <h1 style="margin: 0; font-size: 24px; font-weight: 600; color: #2563eb;">{{.EventName}}</h1>
              <p style="margin: 12px 0 0; display: inline-block; padding: 6px 14px; border-radius: 16px; background-color: #dcfce7; color: #166534; font-weight: 600;">Application Confirmed</p>
            </td>
          </tr>
          <tr>
            <td style="padding: 32px;">
              <p style="margin: 0 0 16px; font-size: 16px; color: #374151;">Hi <strong>{{.FullName}}</strong>,</p>
              <p style="margin: 0 0 24px; font-size: 16px; color: #374151; line-height: 1.5;">
                Your application for <strong>{{.EventName}}</strong> has been submitted and confirmed.
              </p>
              <table role="presentation" width="100%" cellspacing="0" cellpadding="8" style="background-color: #f9fafb; border-radius: 8px; font-size: 14px;">
                <tr><td style="color: #6b7280; font-weight: 600;">Name</td><td style="color: #374151;">{{.FullName}}</td></tr>
                <tr><td style="color: #6b7280; font-weight: 600;">University</td><td style="color: #374151;">{{.University}}</td></tr>
                <tr><td style="color: #6b7280; font-weight: 600;">Track</td><td style="color: #374151;">{{.TrackLabel}}</td></tr>
                <tr><td style="color: #6b7280; font-weight: 600;">Team preference</td><td style="color: #374151;">{{.TeamPreference}}</td></tr>
                <tr><td style="color: #6b7280; font-weight: 600;">Skills</td><td style="color: #374151;">{{.Skills}}</td></tr>
              </table>
              <h3 style="margin: 24px 0 8px; font-size: 16px; color: #2563eb;">What happens next?</h3>
              <ul style="margin: 0; padding-left: 20px; font-size: 14px; color: #374151; line-height: 1.6;">
                <li>Within 24 hours: your participant packet with event details</li>
                <li>1 week before: final schedule and logistics</li>
                <li>Event day: check-in opens 1 hour before the start</li>
              </ul>
            </td>
          </tr>
          <tr>
            <td style="padding: 24px 32px; background-color: #f9fafb; border-top: 1px solid #e5e7eb; border-radius: 0 0 8px 8px;">
              <p style="margin: 0; font-size: 12px; color: #9ca3af; text-align: center;">
                This email confirms your application. Please keep it for your records.
              </p>
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>`
