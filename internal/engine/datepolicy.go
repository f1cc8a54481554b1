package engine

import (
	"fmt"
	"time"
)

// DatePolicy decides whether a civil date is offerable at all. It is a pure
// predicate owned by the presentation layer; the engine itself never rejects
// a date. Now is injectable for tests and defaults to time.Now.
type DatePolicy struct {
	Zone           string // zone in which "today" is reckoned
	AllowWeekends  bool
	MaxAdvanceDays int // 0 disables the advance limit
	Now            func() time.Time
}

// Check returns nil if the date may be offered, or an error naming the
// reason. Past days, weekends (unless allowed), and days beyond the advance
// window are rejected.
func (p DatePolicy) Check(date CivilDate) error {
	loc, err := loadZone(p.Zone)
	if err != nil {
		return err
	}

	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	today := CivilDateOf(now().In(loc))

	if before(date, today) {
		return fmt.Errorf("date %s is in the past", date)
	}

	if !p.AllowWeekends {
		switch date.Weekday(loc) {
		case time.Saturday, time.Sunday:
			return fmt.Errorf("date %s falls on a weekend", date)
		}
	}

	if p.MaxAdvanceDays > 0 && before(today.AddDays(p.MaxAdvanceDays), date) {
		return fmt.Errorf("date %s is more than %d days ahead", date, p.MaxAdvanceDays)
	}

	return nil
}

func before(a, b CivilDate) bool {
	if a.Year != b.Year {
		return a.Year < b.Year
	}
	if a.Month != b.Month {
		return a.Month < b.Month
	}
	return a.Day < b.Day
}
