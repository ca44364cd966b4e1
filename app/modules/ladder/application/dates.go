package ladderservice

import (
	"regexp"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

var compactClock = regexp.MustCompile(`\b(\d{1,2})(\d{2})(am|pm)\b`)

// DateParser turns free-form proposals such as "next friday 7pm" into instants.
type DateParser struct {
	w   *when.Parser
	loc *time.Location
}

// NewDateParser interprets relative expressions in loc; nil means UTC.
func NewDateParser(loc *time.Location) *DateParser {
	if loc == nil {
		loc = time.UTC
	}
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return &DateParser{w: w, loc: loc}
}

// Parse accepts RFC 3339 timestamps or natural language relative to now. ok is false when nothing matched.
func (p *DateParser) Parse(input string, now time.Time) (time.Time, bool) {
	input = strings.TrimSpace(input)
	if input == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, input); err == nil {
		return t.UTC(), true
	}

	normalized := strings.ToLower(input)
	normalized = strings.ReplaceAll(normalized, "today ", "today at ")
	normalized = compactClock.ReplaceAllString(normalized, "$1:$2 $3")

	r, err := p.w.Parse(normalized, now.In(p.loc))
	if err != nil || r == nil {
		return time.Time{}, false
	}
	return r.Time.In(p.loc).Truncate(time.Minute).UTC(), true
}
