package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestDaysUntil(t *testing.T) {
	today := date(t, "2026-10-18")
	tests := []struct {
		birth string
		want  int
	}{
		{"1990-10-18", 0},
		{"1990-10-19", 1},
		{"1990-10-17", 364},
		{"1985-12-25", 68},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DaysUntil(date(t, tt.birth), today), tt.birth)
	}
}

func TestLeapDayBirthdays(t *testing.T) {
	birth := date(t, "2000-02-29")
	assert.Equal(t, "2027-02-28", NextOccurrence(birth, date(t, "2026-10-18")).Format(DateLayout))
	assert.Equal(t, "2028-02-29", NextOccurrence(birth, date(t, "2027-03-01")).Format(DateLayout))
}

func TestAgeOn(t *testing.T) {
	birth := date(t, "1990-10-19")
	assert.Equal(t, 35, AgeOn(birth, date(t, "2026-10-18")))
	assert.Equal(t, 36, AgeOn(birth, date(t, "2026-10-19")))
}

func TestNextOccurrenceRespectsLocation(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)
	// 20:00 UTC on Oct 17 is already Oct 18 in India.
	now := time.Date(2026, 10, 17, 20, 0, 0, 0, time.UTC).In(loc)
	assert.Equal(t, 0, DaysUntil(date(t, "1990-10-18"), now))
}

func TestFingerprint(t *testing.T) {
	assert.Equal(t, Fingerprint("a", "b"), Fingerprint("a", "b"))
	assert.NotEqual(t, Fingerprint("ab", "c"), Fingerprint("a", "bc"))
	assert.Len(t, Fingerprint("x"), 64)
}
