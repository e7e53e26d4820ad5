package docimport

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	_ "time/tzdata" // DefaultZone loads without a system zone database.

	"github.com/etnz/docimport/date"
)

// Default layouts of German broker documents.
const (
	DefaultDateLayout     = "02.01.2006"
	DefaultDateTimeLayout = "02.01.2006 15:04"
	DefaultZone           = "Europe/Berlin"
)

// Clock gives the current time. It is injected wherever "now" matters so
// that tests can pin it.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to a Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// SystemClock is the wall clock.
var SystemClock Clock = ClockFunc(time.Now)

// FixedClock returns a Clock always returning t.
func FixedClock(t time.Time) Clock { return ClockFunc(func() time.Time { return t }) }

// timeRE matches HH:mm with optional :ss at the start of a time text,
// followed by a space or nothing, so that "09:04 Uhr" is accepted.
var timeRE = regexp.MustCompile(`^([01]?[0-9]|2[0-3]):([0-5][0-9])(?::([0-5][0-9]))?(?:\s|$)`)

// Synthesizer combines date and time texts found in documents into a
// calendar date and an instant.
type Synthesizer struct {
	Clock    Clock          // used when a document has no execution time.
	Location *time.Location // zone the texts are written in.
}

// NewSynthesizer returns a Synthesizer for the named IANA zone.
func NewSynthesizer(clock Clock, zone string) (Synthesizer, error) {
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return Synthesizer{}, fmt.Errorf("cannot load zone %q: %w", zone, err)
	}
	return Synthesizer{Clock: clock, Location: loc}, nil
}

// DefaultSynthesizer returns a Synthesizer on the system clock for
// DefaultZone, falling back to UTC when the zone database is missing.
func DefaultSynthesizer() Synthesizer {
	s, err := NewSynthesizer(SystemClock, DefaultZone)
	if err != nil {
		return Synthesizer{Clock: SystemClock, Location: time.UTC}
	}
	return s
}

func (s Synthesizer) location() *time.Location {
	if s.Location == nil {
		return time.UTC
	}
	return s.Location
}

func (s Synthesizer) now() time.Time {
	if s.Clock == nil {
		return time.Now()
	}
	return s.Clock.Now()
}

// Synthesize parses dateText with dateLayout and dateText + " " + time
// with dateTimeLayout, both in the Synthesizer's zone.
//
// When timeText is empty or does not start with HH:mm[:ss] the current
// wall time of the Clock, seconds included, is used instead, so that
// same-day activities without a recorded time keep their import order.
// Otherwise seconds are kept only if dateTimeLayout has them.
//
// The date is the zone-local calendar date, the instant is in UTC.
func (s Synthesizer) Synthesize(dateText, timeText, dateLayout, dateTimeLayout string) (date.Date, time.Time, error) {
	loc := s.location()
	dateText = strings.TrimSpace(dateText)

	day, err := time.ParseInLocation(dateLayout, dateText, loc)
	if err != nil {
		return date.Date{}, time.Time{}, fmt.Errorf("invalid date %q want layout %q: %w", dateText, dateLayout, err)
	}

	m := timeRE.FindStringSubmatch(strings.TrimSpace(timeText))
	if m == nil {
		now := s.now().In(loc)
		instant := time.Date(day.Year(), day.Month(), day.Day(), now.Hour(), now.Minute(), now.Second(), 0, loc)
		return date.Of(day), instant.UTC(), nil
	}
	hh, mm, ss := m[1], m[2], m[3]
	if len(hh) == 1 {
		hh = "0" + hh
	}
	if ss == "" {
		ss = "00"
	}
	clock := hh + ":" + mm
	if strings.Contains(dateTimeLayout, "05") {
		clock += ":" + ss
	}

	instant, err := time.ParseInLocation(dateTimeLayout, dateText+" "+clock, loc)
	if err != nil {
		return date.Date{}, time.Time{}, fmt.Errorf("invalid date time %q want layout %q: %w", dateText+" "+clock, dateTimeLayout, err)
	}
	return date.Of(day), instant.UTC(), nil
}
