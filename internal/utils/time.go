package utils

import "time"

// StartOfDay returns midnight of t's calendar day in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = t.Location()
	}
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// SameDay reports whether a falls on day's calendar date, judged in day's location.
func SameDay(a, day time.Time) bool {
	a = a.In(day.Location())
	return a.Year() == day.Year() && a.YearDay() == day.YearDay()
}

// DayWindow returns [start of day, start of next day) for t in loc.
func DayWindow(t time.Time, loc *time.Location) (time.Time, time.Time) {
	start := StartOfDay(t, loc)
	return start, start.AddDate(0, 0, 1)
}

// DaysBetween counts calendar days from a to b, both judged in b's location.
func DaysBetween(a, b time.Time) int {
	loc := b.Location()
	da := StartOfDay(a, loc)
	db := StartOfDay(b, loc)
	// Dates in UTC so DST shifts do not produce 23 or 25 hour days.
	ua := time.Date(da.Year(), da.Month(), da.Day(), 0, 0, 0, 0, time.UTC)
	ub := time.Date(db.Year(), db.Month(), db.Day(), 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}

// ClockString formats the wall clock as HH:MM.
func ClockString(t time.Time) string {
	return t.Format("15:04")
}
