package highlight

import (
	"regexp"
	"strings"
)

// Pattern is a case-insensitive literal search term. The term is user
// data, so every regexp metacharacter in it is escaped.
type Pattern struct {
	term string
	re   *regexp.Regexp
}

// Compile trims term and builds its pattern. ok is false for an empty or
// whitespace-only term.
func Compile(term string) (p *Pattern, ok bool) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, false
	}
	return &Pattern{
		term: term,
		re:   regexp.MustCompile("(?i)" + regexp.QuoteMeta(term)),
	}, true
}

// Term returns the trimmed search term.
func (p *Pattern) Term() string { return p.term }

// Match reports whether s contains the term.
func (p *Pattern) Match(s string) bool { return p.re.MatchString(s) }

// Segment is a run of text that either matched the term or did not.
type Segment struct {
	Text  string
	Match bool
}

// Split cuts s into matching and non-matching segments. Concatenating the
// segments' Text in order yields s. Empty non-matching runs (between
// adjacent matches, or at either end) are omitted.
func (p *Pattern) Split(s string) []Segment {
	locs := p.re.FindAllStringIndex(s, -1)
	if len(locs) == 0 {
		return nil
	}
	segs := make([]Segment, 0, 2*len(locs)+1)
	prev := 0
	for _, loc := range locs {
		if loc[0] > prev {
			segs = append(segs, Segment{Text: s[prev:loc[0]]})
		}
		segs = append(segs, Segment{Text: s[loc[0]:loc[1]], Match: true})
		prev = loc[1]
	}
	if prev < len(s) {
		segs = append(segs, Segment{Text: s[prev:]})
	}
	return segs
}
