package report

import (
	"strconv"
	"strings"
	"time"
)

const (
	minYear = 2000
	maxYear = 3000
)

// Window is the reporting period. The zero value is unbounded.
type Window struct {
	Year  int
	Start time.Time
	End   time.Time
}

// ParseYear builds the window for a calendar year in UTC. Anything that is not
// a whole year between 2000 and 3000 yields an unbounded window.
func ParseYear(raw string) Window {
	year, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || year < minYear || year > maxYear {
		return Window{}
	}

	return Window{
		Year:  year,
		Start: time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(year, time.December, 31, 23, 59, 59, int(999*time.Millisecond), time.UTC),
	}
}

func (w Window) Bounded() bool {
	return w.Year != 0
}

// Contains reports whether t falls inside the window, both ends inclusive.
func (w Window) Contains(t time.Time) bool {
	if !w.Bounded() {
		return true
	}

	return !t.Before(w.Start) && !t.After(w.End)
}

// NotAfterEnd reports whether t is on or before the window's end.
func (w Window) NotAfterEnd(t time.Time) bool {
	return !w.Bounded() || !t.After(w.End)
}
