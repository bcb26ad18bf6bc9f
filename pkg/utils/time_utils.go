package utils

import "time"

const DateLayout = "2006-01-02"

// ParseDate reads a YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// AnniversaryIn returns the date of a yearly event in the given year. Feb 29 falls on
// Feb 28 in non-leap years.
func AnniversaryIn(birth time.Time, year int, loc *time.Location) time.Time {
	month, day := birth.Month(), birth.Day()
	if month == time.February && day == 29 && !isLeap(year) {
		day = 28
	}
	return time.Date(year, month, day, 0, 0, 0, 0, loc)
}

// NextOccurrence is the first anniversary of birth on or after today.
func NextOccurrence(birth, today time.Time) time.Time {
	today = StartOfDay(today)
	next := AnniversaryIn(birth, today.Year(), today.Location())
	if next.Before(today) {
		next = AnniversaryIn(birth, today.Year()+1, today.Location())
	}
	return next
}

// DaysUntil counts calendar days from today to the next occurrence; today counts as 0.
func DaysUntil(birth, today time.Time) int {
	today = StartOfDay(today)
	next := NextOccurrence(birth, today)
	y1, m1, d1 := today.Date()
	y2, m2, d2 := next.Date()
	a := time.Date(y1, m1, d1, 0, 0, 0, 0, time.UTC)
	b := time.Date(y2, m2, d2, 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}

// AgeOn is the number of full years between birth and day.
func AgeOn(birth, day time.Time) int {
	age := day.Year() - birth.Year()
	if StartOfDay(day).Before(AnniversaryIn(birth, day.Year(), day.Location())) {
		age--
	}
	return age
}

func isLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}
