package inputval

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"
)

// Check is the outcome of a field rule. Message is set only when Valid is false.
type Check struct {
	Valid   bool
	Message string
}

// Pass is the successful Check.
func Pass() Check { return Check{Valid: true} }

// Fail returns a failed Check carrying msg.
func Fail(msg string) Check { return Check{Message: msg} }

// Rule validates one raw field value. Rules never panic and never do I/O.
type Rule func(value string) Check

// Chain runs rules in order and returns the first failure.
func Chain(rules ...Rule) Rule {
	return func(value string) Check {
		for _, r := range rules {
			if c := r(value); !c.Valid {
				return c
			}
		}
		return Pass()
	}
}

// Required fails on empty or whitespace-only input.
func Required(msg string) Rule {
	return func(value string) Check {
		if strings.TrimSpace(value) == "" {
			return Fail(msg)
		}
		return Pass()
	}
}

// Optional skips rule when the value is blank.
func Optional(rule Rule) Rule {
	return func(value string) Check {
		if strings.TrimSpace(value) == "" {
			return Pass()
		}
		return rule(value)
	}
}

// Matches fails when value does not match re.
func Matches(re *regexp.Regexp, msg string) Rule {
	return func(value string) Check {
		if !re.MatchString(value) {
			return Fail(msg)
		}
		return Pass()
	}
}

// NoWhitespace fails when value contains any whitespace rune.
func NoWhitespace(msg string) Rule {
	return func(value string) Check {
		if strings.IndexFunc(value, unicode.IsSpace) >= 0 {
			return Fail(msg)
		}
		return Pass()
	}
}

// OneOf fails unless value is exactly one of allowed.
func OneOf(allowed []string, msg string) Rule {
	return func(value string) Check {
		for _, a := range allowed {
			if value == a {
				return Pass()
			}
		}
		return Fail(msg)
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| Email                                                                      |
*─────────────────────────────────────────────────────────────────────────────*/

var (
	emailPattern      = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	teamMemberPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// Applicant email messages.
const (
	MsgEmailRequired   = "Email is required"
	MsgEmailInvalid    = "Please enter a valid email address"
	MsgEmailSpaces     = "Email cannot contain spaces"
	MsgEmailDomain     = "Please enter a valid email domain"
	MsgEmailDisposable = "Please use a permanent email address"
)

// DefaultDisposableDomains are rejected unless configuration overrides them.
var DefaultDisposableDomains = []string{
	"tempmail.com",
	"10minutemail.com",
	"guerrillamail.com",
	"mailinator.com",
}

// DomainSet is a case-insensitive set of email domains.
type DomainSet map[string]struct{}

// NewDomainSet builds a set from domains, ignoring blanks.
func NewDomainSet(domains ...string) DomainSet {
	s := make(DomainSet, len(domains))
	for _, d := range domains {
		d = strings.ToLower(strings.TrimSpace(d))
		if d != "" {
			s[d] = struct{}{}
		}
	}
	return s
}

// Has reports whether domain is in the set.
func (s DomainSet) Has(domain string) bool {
	_, ok := s[strings.ToLower(domain)]
	return ok
}

// EmailDomain is tier three of applicant email validation: the domain must
// contain a dot and must not be disposable.
func EmailDomain(disposable DomainSet) Rule {
	return func(value string) Check {
		_, domain, found := strings.Cut(value, "@")
		if !found || !strings.Contains(domain, ".") {
			return Fail(MsgEmailDomain)
		}
		if disposable.Has(domain) {
			return Fail(MsgEmailDisposable)
		}
		return Pass()
	}
}

// ApplicantEmail is the full applicant email rule: required, then pattern,
// then whitespace, then domain.
func ApplicantEmail(disposable DomainSet) Rule {
	return Chain(
		Required(MsgEmailRequired),
		Matches(emailPattern, MsgEmailInvalid),
		NoWhitespace(MsgEmailSpaces),
		EmailDomain(disposable),
	)
}

// TeamMemberEmail checks the looser teammate email shape.
func TeamMemberEmail() Rule {
	return Matches(teamMemberPattern, MsgEmailInvalid)
}

// IsValidEmail reports whether s matches the applicant email grammar.
func IsValidEmail(s string) bool {
	return emailPattern.MatchString(strings.TrimSpace(s))
}

/*─────────────────────────────────────────────────────────────────────────────*
| URLs                                                                       |
*─────────────────────────────────────────────────────────────────────────────*/

// MsgURLInvalid is returned by HTTPURL.
const MsgURLInvalid = "Please enter a full http(s) URL"

// IsValidHTTPURL reports whether s is an absolute http or https URL with a host.
func IsValidHTTPURL(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s, " \t\n") {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}

// HTTPURL fails unless value is an absolute http(s) URL.
func HTTPURL() Rule {
	return func(value string) Check {
		if !IsValidHTTPURL(value) {
			return Fail(MsgURLInvalid)
		}
		return Pass()
	}
}
