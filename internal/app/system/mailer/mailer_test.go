package mailer

import (
	"context"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/mail"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/dalemusser/hackreg/internal/domain/models"
	"go.uber.org/zap"
)

func sampleApp() models.Application {
	return models.Application{
		FullName:       "Ada Lovelace",
		Email:          "ada@example.edu",
		University:     "Analytical U",
		Track:          models.TrackAdvanced,
		Skills:         []string{"Go", "Rust"},
		TeamPreference: models.TeamHaveTeam,
	}
}

func TestBuildConfirmationEmail_Deterministic(t *testing.T) {
	a := BuildConfirmationEmail("RoboHack 2026", sampleApp())
	b := BuildConfirmationEmail("RoboHack 2026", sampleApp())
	if a != b {
		t.Fatal("same inputs produced different emails")
	}

	if a.To != "ada@example.edu" {
		t.Errorf("To = %q", a.To)
	}
	if a.Subject != "Welcome to RoboHack 2026 - Application Confirmed!" {
		t.Errorf("Subject = %q", a.Subject)
	}
	for _, want := range []string{"Ada Lovelace", "Analytical U", "Advanced Track", "Have a team", "Go, Rust"} {
		if !strings.Contains(a.TextBody, want) {
			t.Errorf("text body missing %q", want)
		}
		if !strings.Contains(a.HTMLBody, want) {
			t.Errorf("html body missing %q", want)
		}
	}
}

func TestBuildConfirmationEmail_EmptyOptionals(t *testing.T) {
	app := sampleApp()
	app.University = ""
	app.Skills = nil
	e := BuildConfirmationEmail("RoboHack", app)
	if !strings.Contains(e.TextBody, "Not provided") {
		t.Error("expected placeholder for missing university")
	}
	if !strings.Contains(e.TextBody, "None listed") {
		t.Error("expected placeholder for missing skills")
	}
}

func TestBuildConfirmationEmail_EscapesHTML(t *testing.T) {
	app := sampleApp()
	app.FullName = "<script>x</script>"
	e := BuildConfirmationEmail("RoboHack", app)
	if strings.Contains(e.HTMLBody, "<script>") {
		t.Error("html body must escape applicant input")
	}
}

func TestBuildMessage_MultipartAlternative(t *testing.T) {
	e := Email{To: "ada@example.edu", ToName: "Ada", Subject: "Héllo", TextBody: "plain body", HTMLBody: "<p>html body</p>"}
	raw, err := buildMessage("noreply@hack.example", "Hack Team", e, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("buildMessage: %v", err)
	}

	msg, err := mail.ReadMessage(strings.NewReader(string(raw)))
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}
	if got := msg.Header.Get("From"); got != `"Hack Team" <noreply@hack.example>` {
		t.Errorf("From = %q", got)
	}
	dec := new(mime.WordDecoder)
	subj, err := dec.DecodeHeader(msg.Header.Get("Subject"))
	if err != nil || subj != "Héllo" {
		t.Errorf("Subject = %q (%v)", subj, err)
	}
	if !strings.HasSuffix(msg.Header.Get("Message-ID"), "@hack.example>") {
		t.Errorf("Message-ID = %q", msg.Header.Get("Message-ID"))
	}

	mt, params, err := mime.ParseMediaType(msg.Header.Get("Content-Type"))
	if err != nil || mt != "multipart/alternative" {
		t.Fatalf("Content-Type = %q (%v)", mt, err)
	}
	mr := multipart.NewReader(msg.Body, params["boundary"])
	var bodies []string
	for {
		p, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("NextPart: %v", err)
		}
		b, _ := io.ReadAll(p)
		bodies = append(bodies, string(b))
	}
	if len(bodies) != 2 || bodies[0] != "plain body" || bodies[1] != "<p>html body</p>" {
		t.Errorf("bodies = %q", bodies)
	}
}

func TestMailer_Send(t *testing.T) {
	m := New(Config{Host: "smtp.example", Port: 2525, From: "noreply@hack.example"}, zap.NewNop())

	var gotAddr string
	var gotTo []string
	m.sendMail = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotTo = addr, to
		if a != nil {
			t.Error("no auth expected without a user")
		}
		return nil
	}

	if err := m.Send(context.Background(), Email{To: "ada@example.edu", TextBody: "hi"}); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if gotAddr != "smtp.example:2525" || len(gotTo) != 1 || gotTo[0] != "ada@example.edu" {
		t.Errorf("addr=%q to=%v", gotAddr, gotTo)
	}
}

func TestMailer_SendErrorAndTimeout(t *testing.T) {
	m := New(Config{Host: "smtp.example", Port: 25}, zap.NewNop())
	boom := errors.New("421 try later")
	m.sendMail = func(string, smtp.Auth, string, []string, []byte) error { return boom }
	if err := m.Send(context.Background(), Email{To: "a@b.io"}); !errors.Is(err, boom) {
		t.Errorf("err = %v, want wrapped transport error", err)
	}

	release := make(chan struct{})
	defer close(release)
	m.sendMail = func(string, smtp.Auth, string, []string, []byte) error { <-release; return nil }
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := m.Send(ctx, Email{To: "a@b.io"}); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want deadline exceeded", err)
	}

	if err := m.Send(context.Background(), Email{}); !errors.Is(err, ErrNoRecipient) {
		t.Errorf("err = %v, want ErrNoRecipient", err)
	}
}

type fakeSES struct {
	in  *ses.SendEmailInput
	err error
}

func (f *fakeSES) SendEmail(ctx context.Context, in *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	f.in = in
	if f.err != nil {
		return nil, f.err
	}
	return &ses.SendEmailOutput{MessageId: aws.String("m-1")}, nil
}

func TestSESSender_Send(t *testing.T) {
	fake := &fakeSES{}
	s := newSESSender(fake, "noreply@hack.example", "Hack Team", zap.NewNop())

	e := BuildConfirmationEmail("RoboHack", sampleApp())
	if err := s.Send(context.Background(), e); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if got := aws.ToString(fake.in.Source); got != `"Hack Team" <noreply@hack.example>` {
		t.Errorf("Source = %q", got)
	}
	if to := fake.in.Destination.ToAddresses; len(to) != 1 || to[0] != "ada@example.edu" {
		t.Errorf("ToAddresses = %v", to)
	}
	if aws.ToString(fake.in.Message.Subject.Data) != e.Subject {
		t.Error("subject not passed through")
	}
	if fake.in.Message.Body.Html == nil || fake.in.Message.Body.Text == nil {
		t.Error("expected both html and text bodies")
	}

	fake.err = errors.New("throttled")
	if err := s.Send(context.Background(), e); err == nil {
		t.Error("expected error from SES to propagate")
	}
}

func TestLogSender(t *testing.T) {
	s := NewLogSender(zap.NewNop())
	if err := s.Send(context.Background(), Email{To: "a@b.io", Subject: "x"}); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if got := s.Sent(); len(got) != 1 || got[0].To != "a@b.io" {
		t.Errorf("Sent = %+v", got)
	}
}
