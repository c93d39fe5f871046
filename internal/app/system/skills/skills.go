// Package skills canonicalises applicant skill tags against a catalog.
//
// Applicants pick skills from the catalog or type their own. Typed tags are
// matched case-insensitively first, then fuzzily ("pythn" → "Python"), so
// the admin skill filter is not split across spellings of the same skill.
// Tags that match nothing are kept as typed.
package skills

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

const (
	// maxDistance bounds how far a fuzzy match may be from the typed tag.
	maxDistance = 2
	// minFuzzyRunes is the shortest typed tag that is matched fuzzily.
	// Shorter tags ("R", "C") are real skill names in their own right.
	minFuzzyRunes = 4
)

// DefaultCatalog is offered when configuration does not provide one.
var DefaultCatalog = []string{
	"Python",
	"JavaScript",
	"TypeScript",
	"Go",
	"Rust",
	"C++",
	"Java",
	"ROS",
	"Machine Learning",
	"Computer Vision",
	"Embedded Systems",
	"Robotics",
	"Simulation",
	"Web Development",
	"UI/UX Design",
}

// Catalog is an immutable list of known skills.
type Catalog struct {
	names  []string
	folded []string
	lookup map[string]string // folded → catalog spelling
}

// NewCatalog builds a catalog, dropping blanks and case-insensitive repeats.
func NewCatalog(names []string) *Catalog {
	c := &Catalog{lookup: make(map[string]string, len(names))}
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		f := strings.ToLower(n)
		if _, dup := c.lookup[f]; dup {
			continue
		}
		c.lookup[f] = n
		c.names = append(c.names, n)
		c.folded = append(c.folded, f)
	}
	return c
}

// Names returns the catalog in its configured order.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// Canonical maps a typed tag to its catalog spelling, or returns it trimmed
// when nothing in the catalog is close enough.
func (c *Catalog) Canonical(tag string) string {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return ""
	}
	f := strings.ToLower(tag)
	if name, ok := c.lookup[f]; ok {
		return name
	}

	if utf8.RuneCountInString(f) < minFuzzyRunes {
		return tag
	}
	ranks := fuzzy.RankFindNormalizedFold(f, c.folded)
	if len(ranks) == 0 {
		return tag
	}
	sort.Sort(ranks)
	best := ranks[0]
	if best.Distance > maxDistance || best.Distance*3 > utf8.RuneCountInString(f) {
		return tag
	}
	return c.lookup[best.Target]
}

// Normalize canonicalises tags and returns them de-duplicated and sorted.
// Each tag is split with Parse first, so no result contains a separator.
func (c *Catalog) Normalize(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	var out []string
	for _, raw := range tags {
		for _, t := range Parse(raw) {
			name := c.Canonical(t)
			if name == "" {
				continue
			}
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// Parse splits a free-text "other skills" entry on commas, semicolons and
// newlines.
func Parse(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ';' || r == '\n' || r == '\r'
	})
	var out []string
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
