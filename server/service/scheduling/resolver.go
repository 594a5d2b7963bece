package scheduling

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	serrors "github.com/hrygo/schedsense/internal/errors"
)

// Patterns for phrase parsing.
var (
	offsetPattern  = regexp.MustCompile(`\bin\s+(\d+)\s+(day|hour|minute|min)s?\b`)
	weekdayPattern = regexp.MustCompile(`\b(next\s+)?(sunday|monday|tuesday|wednesday|thursday|friday|saturday)\b`)
	clock12Pattern = regexp.MustCompile(`\b(\d{1,2})(?::(\d{2}))?\s*(am|pm)\b`)
	clock24Pattern = regexp.MustCompile(`\b(\d{1,2}):(\d{2})\b`)

	hourDurPattern   = regexp.MustCompile(`\b(\d+)\s*(?:hours?|hrs?|h)\b`)
	minuteDurPattern = regexp.MustCompile(`\b(\d+)\s*(?:minutes?|mins?|m)\b`)
)

// relDayWords maps relative day words to day offsets. Ordered longest-first
// so "day after tomorrow" is not shadowed by "tomorrow".
var relDayWords = []struct {
	word   string
	offset int
}{
	{"day after tomorrow", 2},
	{"tomorrow", 1},
	{"today", 0},
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// parsedExpression is the tagged result of running the phrase matchers.
// Exactly the recognized categories carry data; resolution combines them.
type parsedExpression struct {
	hasDate bool
	date    time.Time // date carrier; only Y/M/D are meaningful

	hasClock bool
	hour     int
	minute   int

	// absolute is set for pure offsets ("in 90 minutes") that already
	// denote an instant rather than a date plus wall-clock time.
	absolute bool
	instant  time.Time
}

// Resolver turns natural-language time phrases into absolute instants in a
// fixed timezone. The reference instant is always supplied by the caller;
// the resolver never reads the system clock.
type Resolver struct {
	loc *time.Location
}

// NewResolver creates a resolver producing instants in the given timezone.
func NewResolver(loc *time.Location) *Resolver {
	if loc == nil {
		loc = time.UTC
	}
	return &Resolver{loc: loc}
}

// Resolve parses phrase against the reference instant ref and returns an
// absolute instant in the resolver's timezone. defaultTOD supplies the
// wall-clock time when the phrase names a date but no time.
//
// Recognized categories, applied as an ordered set of matchers:
//   - relative day words: "today", "tomorrow"
//   - named weekdays, optionally qualified by "next"
//   - relative offsets: "in N days/hours/minutes"
//   - explicit clock times: "10 AM", "17:30"
//
// A named weekday resolves to the nearest occurrence strictly after ref's
// date; "next" skips that occurrence and takes the one a week later. This
// disambiguation is a deliberate policy and does not vary.
//
// Unrecognized or contradictory phrases fail with a PARSE_FAILURE error;
// the resolver never guesses.
func (r *Resolver) Resolve(phrase string, ref time.Time, defaultTOD TimeOfDay) (time.Time, error) {
	input := strings.ToLower(strings.TrimSpace(phrase))
	if input == "" {
		return time.Time{}, serrors.ParseFailure("empty time phrase")
	}
	if defaultTOD.Hour < 0 || defaultTOD.Hour > 23 || defaultTOD.Minute < 0 || defaultTOD.Minute > 59 {
		return time.Time{}, serrors.InvalidArgument(fmt.Sprintf("invalid default time of day %s", defaultTOD))
	}

	ref = ref.In(r.loc)

	var expr parsedExpression
	r.matchRelativeOffset(input, ref, &expr)
	r.matchRelativeDay(input, ref, &expr)
	r.matchWeekday(input, ref, &expr)
	if err := r.matchClock(input, &expr); err != nil {
		return time.Time{}, err
	}

	if expr.absolute {
		if expr.hasClock {
			return time.Time{}, serrors.ParseFailure(
				fmt.Sprintf("phrase %q combines a relative offset with an explicit clock time", phrase))
		}
		return expr.instant, nil
	}

	if !expr.hasDate && !expr.hasClock {
		return time.Time{}, serrors.ParseFailure(fmt.Sprintf("unrecognized time phrase %q", phrase))
	}

	// Anchoring via time.Date applies the timezone's offset rules at the
	// target date, so DST transitions between ref and the target resolve
	// to the target date's offset.
	if expr.hasDate {
		tod := defaultTOD
		if expr.hasClock {
			tod = TimeOfDay{Hour: expr.hour, Minute: expr.minute}
		}
		return tod.At(expr.date, r.loc), nil
	}

	// Clock time with no date phrase: ref's date, rolling to the next day
	// if the instant has already passed.
	candidate := TimeOfDay{Hour: expr.hour, Minute: expr.minute}.At(ref, r.loc)
	if candidate.Before(ref) {
		candidate = candidate.AddDate(0, 0, 1)
	}
	return candidate, nil
}

// ResolveDuration parses a duration phrase ("1 hour", "45 minutes",
// "1 hour 30 minutes"). An empty phrase yields the 30-minute default.
func (r *Resolver) ResolveDuration(phrase string) (time.Duration, error) {
	input := strings.ToLower(strings.TrimSpace(phrase))
	if input == "" {
		return DefaultMeetingDuration, nil
	}

	var total time.Duration
	matched := false

	if strings.Contains(input, "half an hour") || strings.Contains(input, "half hour") {
		total += 30 * time.Minute
		matched = true
	} else if strings.Contains(input, "an hour") || strings.Contains(input, "one hour") {
		total += time.Hour
		matched = true
	}

	if m := hourDurPattern.FindStringSubmatch(input); m != nil {
		n, _ := strconv.Atoi(m[1])
		total += time.Duration(n) * time.Hour
		matched = true
	}
	if m := minuteDurPattern.FindStringSubmatch(input); m != nil {
		n, _ := strconv.Atoi(m[1])
		total += time.Duration(n) * time.Minute
		matched = true
	}

	if !matched {
		return 0, serrors.ParseFailure(fmt.Sprintf("unrecognized duration phrase %q", phrase))
	}
	if total <= 0 {
		return 0, serrors.ParseFailure(fmt.Sprintf("duration phrase %q resolves to a non-positive span", phrase))
	}
	return total, nil
}

// matchRelativeOffset handles "in N days/hours/minutes".
func (r *Resolver) matchRelativeOffset(input string, ref time.Time, expr *parsedExpression) {
	m := offsetPattern.FindStringSubmatch(input)
	if m == nil {
		return
	}

	n, _ := strconv.Atoi(m[1])
	switch m[2] {
	case "day":
		expr.hasDate = true
		expr.date = ref.AddDate(0, 0, n)
	case "hour":
		expr.absolute = true
		expr.instant = ref.Add(time.Duration(n) * time.Hour)
	case "minute", "min":
		expr.absolute = true
		expr.instant = ref.Add(time.Duration(n) * time.Minute)
	}
}

// matchRelativeDay handles "today" and "tomorrow".
func (r *Resolver) matchRelativeDay(input string, ref time.Time, expr *parsedExpression) {
	if expr.hasDate || expr.absolute {
		return
	}
	for _, rd := range relDayWords {
		if strings.Contains(input, rd.word) {
			expr.hasDate = true
			expr.date = ref.AddDate(0, 0, rd.offset)
			return
		}
	}
}

// matchWeekday handles named weekdays with the optional "next" qualifier.
func (r *Resolver) matchWeekday(input string, ref time.Time, expr *parsedExpression) {
	if expr.hasDate || expr.absolute {
		return
	}
	m := weekdayPattern.FindStringSubmatch(input)
	if m == nil {
		return
	}

	target := weekdayNames[m[2]]
	// Nearest occurrence strictly after ref's date: 1..7 days ahead.
	days := (int(target) - int(ref.Weekday()) + 7) % 7
	if days == 0 {
		days = 7
	}
	// "next" skips the nearest occurrence and takes the one after it.
	if m[1] != "" {
		days += 7
	}

	expr.hasDate = true
	expr.date = ref.AddDate(0, 0, days)
}

// matchClock handles "10 AM", "10:30pm" and 24-hour "17:30".
func (r *Resolver) matchClock(input string, expr *parsedExpression) error {
	if m := clock12Pattern.FindStringSubmatch(input); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute := 0
		if m[2] != "" {
			minute, _ = strconv.Atoi(m[2])
		}
		if hour < 1 || hour > 12 || minute > 59 {
			return serrors.ParseFailure(fmt.Sprintf("clock time %q out of range", m[0]))
		}
		if m[3] == "pm" && hour != 12 {
			hour += 12
		}
		if m[3] == "am" && hour == 12 {
			hour = 0
		}
		expr.hasClock = true
		expr.hour = hour
		expr.minute = minute
		return nil
	}

	if m := clock24Pattern.FindStringSubmatch(input); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute, _ := strconv.Atoi(m[2])
		if hour > 23 || minute > 59 {
			return serrors.ParseFailure(fmt.Sprintf("clock time %q out of range", m[0]))
		}
		expr.hasClock = true
		expr.hour = hour
		expr.minute = minute
	}
	return nil
}
