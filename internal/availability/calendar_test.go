package availability

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDate(t *testing.T, s string) CalendarDate {
	t.Helper()
	d, err := ParseDate(s)
	require.NoError(t, err)
	return d
}

func newYork(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	return loc
}

func dayOf(t *testing.T, m Month, n int) CalendarDay {
	t.Helper()
	days := m.Days()
	require.GreaterOrEqual(t, len(days), n)
	return days[n-1]
}

func TestBuildLayoutOctober2026(t *testing.T) {
	now := time.Date(2026, time.October, 16, 10, 0, 0, 0, time.UTC)
	m := Build(now, 0, nil)

	assert.Equal(t, "October 2026", m.Title)
	assert.Equal(t, 4, m.LeadingBlanks, "Oct 1 2026 is a Thursday")
	assert.Equal(t, 31, m.DaysInMonth)
	require.Len(t, m.Cells, 35)
	for i := 0; i < 4; i++ {
		assert.True(t, m.Cells[i].Blank)
		assert.Nil(t, m.Cells[i].Day)
	}
	for i, c := range m.Cells[4:] {
		require.False(t, c.Blank)
		assert.Equal(t, i+1, c.Day.DayNumber)
	}
	assert.False(t, m.CanPrev)
	assert.True(t, m.CanNext)
}

func TestBuildOffsetsAndYearRollover(t *testing.T) {
	now := time.Date(2026, time.December, 3, 9, 0, 0, 0, time.UTC)

	dec := Build(now, 0, nil)
	assert.Equal(t, time.December, dec.Month)
	assert.Equal(t, 2, dec.LeadingBlanks)

	jan := Build(now, 1, nil)
	assert.Equal(t, 2027, jan.Year)
	assert.Equal(t, time.January, jan.Month)
	assert.Equal(t, "January 2027", jan.Title)

	feb := Build(now, 2, nil)
	assert.Equal(t, time.February, feb.Month)
	assert.Equal(t, 28, feb.DaysInMonth)
	assert.False(t, feb.CanNext)
	assert.True(t, feb.CanPrev)
}

func TestBuildClampsOffset(t *testing.T) {
	now := time.Date(2026, time.October, 16, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 2, Build(now, 7, nil).Offset)
	assert.Equal(t, time.December, Build(now, 7, nil).Month)
	assert.Equal(t, 0, Build(now, -3, nil).Offset)
}

func TestSingleDayRangeBlocksExactlyThatDay(t *testing.T) {
	now := time.Date(2026, time.October, 1, 8, 0, 0, 0, time.UTC)
	ranges := []BlockedDateRange{{Start: mustDate(t, "2026-10-20"), End: mustDate(t, "2026-10-20")}}

	m := Build(now, 0, ranges)
	for _, d := range m.Days() {
		if d.DayNumber == 20 {
			assert.True(t, d.IsBlocked)
			assert.Equal(t, DefaultReason, d.Reason)
			assert.Equal(t, DayBlocked, d.State())
		} else {
			assert.False(t, d.IsBlocked, "day %d", d.DayNumber)
			assert.Empty(t, d.Reason)
		}
	}
}

func TestRangeBoundsAreInclusiveAndSpanMonths(t *testing.T) {
	now := time.Date(2026, time.October, 1, 8, 0, 0, 0, time.UTC)
	ranges := []BlockedDateRange{{Start: mustDate(t, "2026-10-30"), End: mustDate(t, "2026-11-02"), Reason: "Vacation"}}

	oct := Build(now, 0, ranges)
	assert.False(t, dayOf(t, oct, 29).IsBlocked)
	assert.True(t, dayOf(t, oct, 30).IsBlocked)
	assert.True(t, dayOf(t, oct, 31).IsBlocked)

	nov := Build(now, 1, ranges)
	assert.True(t, dayOf(t, nov, 1).IsBlocked)
	assert.True(t, dayOf(t, nov, 2).IsBlocked)
	assert.False(t, dayOf(t, nov, 3).IsBlocked)
	assert.Equal(t, "Vacation", dayOf(t, nov, 2).Reason)
}

func TestOverlappingRangesUseFirstReason(t *testing.T) {
	now := time.Date(2026, time.October, 1, 8, 0, 0, 0, time.UTC)
	ranges := []BlockedDateRange{
		{Start: mustDate(t, "2026-10-10"), End: mustDate(t, "2026-10-12"), Reason: "Holiday"},
		{Start: mustDate(t, "2026-10-11"), End: mustDate(t, "2026-10-14"), Reason: "Training"},
		{Start: mustDate(t, "2026-10-14"), End: mustDate(t, "2026-10-14")},
	}

	m := Build(now, 0, ranges)
	assert.Equal(t, "Holiday", dayOf(t, m, 11).Reason)
	assert.Equal(t, "Holiday", dayOf(t, m, 12).Reason)
	assert.Equal(t, "Training", dayOf(t, m, 13).Reason)
	assert.Equal(t, "Training", dayOf(t, m, 14).Reason)
}

func TestInvertedRangeMatchesNoDay(t *testing.T) {
	now := time.Date(2026, time.October, 1, 8, 0, 0, 0, time.UTC)
	r := BlockedDateRange{Start: mustDate(t, "2026-10-20"), End: mustDate(t, "2026-10-10")}
	require.True(t, r.Inverted())

	for _, d := range Build(now, 0, []BlockedDateRange{r}).Days() {
		assert.False(t, d.IsBlocked, "day %d", d.DayNumber)
	}
}

func TestTimeOfDayOnBoundariesIsIgnored(t *testing.T) {
	now := time.Date(2026, time.October, 1, 8, 0, 0, 0, time.UTC)
	ranges := []BlockedDateRange{{
		Start: mustDate(t, "2026-10-05T23:30:00-04:00"),
		End:   mustDate(t, "2026-10-06T00:15:00+09:00"),
	}}

	m := Build(now, 0, ranges)
	assert.False(t, dayOf(t, m, 4).IsBlocked)
	assert.True(t, dayOf(t, m, 5).IsBlocked)
	assert.True(t, dayOf(t, m, 6).IsBlocked)
	assert.False(t, dayOf(t, m, 7).IsBlocked)
}

func TestTodayAndPast(t *testing.T) {
	loc := newYork(t)
	now := time.Date(2026, time.October, 16, 10, 30, 0, 0, loc)

	m := Build(now, 0, nil)
	assert.True(t, dayOf(t, m, 15).IsPast)
	assert.Equal(t, DayPast, dayOf(t, m, 15).State())

	today := dayOf(t, m, 16)
	assert.True(t, today.IsToday)
	assert.False(t, today.IsPast)
	assert.Equal(t, DayToday, today.State())

	assert.False(t, dayOf(t, m, 17).IsPast)
	assert.Equal(t, DayNormal, dayOf(t, m, 17).State())

	next := Build(now, 1, nil)
	for _, d := range next.Days() {
		assert.False(t, d.IsToday)
		assert.False(t, d.IsPast)
	}
}

func TestTodayIsJudgedInReferenceLocation(t *testing.T) {
	loc := newYork(t)
	// 02:00 UTC on the 17th is still the 16th in New York.
	now := time.Date(2026, time.October, 17, 2, 0, 0, 0, time.UTC).In(loc)

	m := Build(now, 0, nil)
	assert.True(t, dayOf(t, m, 16).IsToday)
	assert.False(t, dayOf(t, m, 16).IsPast)
	assert.False(t, dayOf(t, m, 17).IsToday)
}

func TestBlockedTodayKeepsBlockedState(t *testing.T) {
	now := time.Date(2026, time.October, 16, 10, 0, 0, 0, time.UTC)
	ranges := []BlockedDateRange{{Start: mustDate(t, "2026-10-16"), End: mustDate(t, "2026-10-16"), Reason: "Closed"}}

	d := dayOf(t, Build(now, 0, ranges), 16)
	assert.True(t, d.IsToday)
	assert.True(t, d.IsBlocked)
	assert.Equal(t, DayBlocked, d.State())
}

func TestBlockedMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	base := NewDate(2026, time.September, 1)
	now := time.Date(2026, time.October, 16, 12, 0, 0, 0, time.UTC)

	for iter := 0; iter < 200; iter++ {
		var ranges []BlockedDateRange
		for i := 0; i < rng.Intn(5); i++ {
			start := base.AddDays(rng.Intn(150))
			ranges = append(ranges, BlockedDateRange{Start: start, End: start.AddDays(rng.Intn(20) - 3)})
		}
		for offset := MinMonthOffset; offset <= MaxMonthOffset; offset++ {
			m := Build(now, offset, ranges)
			for _, d := range m.Days() {
				date := CalendarDate{Year: m.Year, Month: m.Month, Day: d.DayNumber}
				want := false
				for _, r := range ranges {
					if !date.Time(time.UTC).Before(r.Start.Time(time.UTC)) && !date.Time(time.UTC).After(r.End.Time(time.UTC)) {
						want = true
						break
					}
				}
				require.Equal(t, want, d.IsBlocked, "iter %d date %s ranges %v", iter, date, ranges)
			}
		}
	}
}

func TestNavigatorStaysInWindow(t *testing.T) {
	var n Navigator
	assert.False(t, n.CanPrev())
	assert.Equal(t, 0, n.Prev())

	assert.Equal(t, 1, n.Next())
	assert.Equal(t, 2, n.Next())
	assert.False(t, n.CanNext())
	assert.Equal(t, 2, n.Next())
	assert.True(t, n.CanPrev())

	assert.Equal(t, 1, n.Prev())
	assert.Equal(t, 0, n.Prev())
	assert.Equal(t, 0, n.Prev())
}

func TestCalendarDateParsingAndOrdering(t *testing.T) {
	d := mustDate(t, "2026-02-28")
	assert.Equal(t, "2026-03-01", d.AddDays(1).String())
	assert.True(t, d.Before(d.AddDays(1)))
	assert.True(t, d.AddDays(1).After(d))
	assert.Equal(t, 0, d.Compare(NewDate(2026, time.February, 28)))

	_, err := ParseDate("next tuesday")
	assert.ErrorIs(t, err, ErrInvalidDate)
	_, err = ParseDate("")
	assert.ErrorIs(t, err, ErrInvalidDate)
}
