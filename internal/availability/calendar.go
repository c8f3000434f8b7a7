package availability

import (
	"fmt"
	"time"
)

const (
	// MinMonthOffset is the current month.
	MinMonthOffset = 0
	// MaxMonthOffset is two months ahead of the current month.
	MaxMonthOffset = 2

	// DefaultReason labels blocked days whose range carries no reason.
	DefaultReason = "Unavailable"
)

// BlockedDateRange is an inclusive span of days the business is unavailable.
type BlockedDateRange struct {
	Start  CalendarDate `json:"startDate"`
	End    CalendarDate `json:"endDate"`
	Reason string       `json:"reason,omitempty"`
}

// Contains reports start <= d <= end. An inverted range contains nothing.
func (r BlockedDateRange) Contains(d CalendarDate) bool {
	return !d.Before(r.Start) && !d.After(r.End)
}

// Inverted reports whether the range ends before it starts.
func (r BlockedDateRange) Inverted() bool {
	return r.End.Before(r.Start)
}

// FirstMatch returns the first range in input order that contains d.
func FirstMatch(d CalendarDate, ranges []BlockedDateRange) (BlockedDateRange, bool) {
	for _, r := range ranges {
		if r.Contains(d) {
			return r, true
		}
	}
	return BlockedDateRange{}, false
}

// DayState is the display state of a calendar cell.
type DayState string

const (
	DayNormal  DayState = "normal"
	DayBlocked DayState = "blocked"
	DayToday   DayState = "today"
	DayPast    DayState = "past"
)

// CalendarDay is one rendered day of the displayed month.
type CalendarDay struct {
	DayNumber int    `json:"day"`
	IsBlocked bool   `json:"isBlocked"`
	IsToday   bool   `json:"isToday"`
	IsPast    bool   `json:"isPast"`
	Reason    string `json:"reason,omitempty"`
}

// State resolves the flags into a single display state. Blocked wins over
// today, today over past.
func (d CalendarDay) State() DayState {
	switch {
	case d.IsBlocked:
		return DayBlocked
	case d.IsToday:
		return DayToday
	case d.IsPast:
		return DayPast
	default:
		return DayNormal
	}
}

// Cell is either a leading blank or a day of the month.
type Cell struct {
	Blank bool         `json:"blank"`
	Day   *CalendarDay `json:"day,omitempty"`
}

// Month is the full grid for one displayed month.
type Month struct {
	Year          int        `json:"year"`
	Month         time.Month `json:"month"`
	Title         string     `json:"title"`
	Offset        int        `json:"offset"`
	LeadingBlanks int        `json:"leadingBlanks"`
	DaysInMonth   int        `json:"daysInMonth"`
	CanPrev       bool       `json:"canPrev"`
	CanNext       bool       `json:"canNext"`
	Cells         []Cell     `json:"cells"`
}

// Days returns the non-blank cells in day order.
func (m Month) Days() []CalendarDay {
	days := make([]CalendarDay, 0, m.DaysInMonth)
	for _, c := range m.Cells {
		if !c.Blank && c.Day != nil {
			days = append(days, *c.Day)
		}
	}
	return days
}

// ClampOffset bounds a month offset to [MinMonthOffset, MaxMonthOffset].
func ClampOffset(offset int) int {
	if offset < MinMonthOffset {
		return MinMonthOffset
	}
	if offset > MaxMonthOffset {
		return MaxMonthOffset
	}
	return offset
}

// ValidOffset reports whether offset may be requested at all.
func ValidOffset(offset int) bool {
	return offset >= MinMonthOffset && offset <= MaxMonthOffset
}

// Build computes the grid for the month offset months after now's month.
// now supplies both the reference day and the location used for "past".
func Build(now time.Time, offset int, ranges []BlockedDateRange) Month {
	offset = ClampOffset(offset)
	today := DateOf(now)
	first := NewDate(today.Year, today.Month+time.Month(offset), 1)
	days := daysIn(first.Year, first.Month)
	blanks := int(first.Weekday())

	m := Month{
		Year:          first.Year,
		Month:         first.Month,
		Title:         fmt.Sprintf("%s %d", first.Month, first.Year),
		Offset:        offset,
		LeadingBlanks: blanks,
		DaysInMonth:   days,
		CanPrev:       offset > MinMonthOffset,
		CanNext:       offset < MaxMonthOffset,
		Cells:         make([]Cell, 0, blanks+days),
	}
	for i := 0; i < blanks; i++ {
		m.Cells = append(m.Cells, Cell{Blank: true})
	}

	loc := now.Location()
	for n := 1; n <= days; n++ {
		date := CalendarDate{Year: first.Year, Month: first.Month, Day: n}
		day := CalendarDay{
			DayNumber: n,
			IsToday:   date == today,
			IsPast:    date.EndOfDay(loc).Before(now),
		}
		if r, ok := FirstMatch(date, ranges); ok {
			day.IsBlocked = true
			day.Reason = r.Reason
			if day.Reason == "" {
				day.Reason = DefaultReason
			}
		}
		m.Cells = append(m.Cells, Cell{Day: &day})
	}
	return m
}

// Navigator holds the displayed month offset and never leaves the allowed
// window.
type Navigator struct {
	offset int
}

func (n *Navigator) Offset() int   { return n.offset }
func (n *Navigator) CanPrev() bool { return n.offset > MinMonthOffset }
func (n *Navigator) CanNext() bool { return n.offset < MaxMonthOffset }

// Prev moves one month back. It is a no-op on the current month.
func (n *Navigator) Prev() int {
	if n.CanPrev() {
		n.offset--
	}
	return n.offset
}

// Next moves one month ahead. It is a no-op on the last allowed month.
func (n *Navigator) Next() int {
	if n.CanNext() {
		n.offset++
	}
	return n.offset
}
