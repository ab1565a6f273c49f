package calendar

import (
	"fmt"
	"time"
)

// Default fiscal year: July through June.
const (
	DefaultFiscalStart = 7
	DefaultFiscalEnd   = 6
)

// Range is an inclusive span of days.
type Range struct {
	From, To Date
}

// Contains reports whether d falls within r, boundaries included.
func (r Range) Contains(d Date) bool { return !d.Before(r.From) && !d.After(r.To) }

// YearMonth identifies one calendar month.
type YearMonth struct {
	Year  int
	Month time.Month
}

// Of returns the month containing d.
func Of(d Date) YearMonth { return YearMonth{d.Year(), d.Month()} }

// Range returns the first through last day of the month.
func (ym YearMonth) Range() Range { return MonthRange(ym.Year, ym.Month) }

// Next returns the following month.
func (ym YearMonth) Next() YearMonth {
	if ym.Month == time.December {
		return YearMonth{ym.Year + 1, time.January}
	}
	return YearMonth{ym.Year, ym.Month + 1}
}

func (ym YearMonth) String() string { return fmt.Sprintf("%04d-%02d", ym.Year, ym.Month) }

// MonthRange returns the first through last day of the given month. The end
// is inclusive for the whole day.
func MonthRange(year int, month time.Month) Range {
	start := NewDate(year, month, 1)
	return Range{From: start, To: start.EndOfMonth()}
}

// FiscalRange is one fiscal year. End is inclusive: an entry dated End
// belongs to the year.
type FiscalRange struct {
	Start Date
	End   Date
	Label string
}

// Range returns the fiscal year as a plain Range.
func (f FiscalRange) Range() Range { return Range{From: f.Start, To: f.End} }

// Contains reports whether d falls inside the fiscal year.
func (f FiscalRange) Contains(d Date) bool { return f.Range().Contains(d) }

// Months returns the twelve months of the fiscal year in fiscal order,
// starting at the start month.
func (f FiscalRange) Months() []YearMonth {
	months := make([]YearMonth, 12)
	ym := Of(f.Start)
	for i := range months {
		months[i] = ym
		ym = ym.Next()
	}
	return months
}

// DefaultFiscalRangeFor is FiscalRangeFor with the July-June year.
func DefaultFiscalRangeFor(ref Date) FiscalRange {
	return FiscalRangeFor(ref, DefaultFiscalStart, DefaultFiscalEnd)
}

// FiscalRangeFor returns the fiscal year containing ref.
//
// The year begins on the first day of startMonth, in ref's year when ref's
// month is at or after startMonth and in the previous year otherwise. When
// endMonth is the month before startMonth the year ends the day before the
// next start, so (1, 12) is the calendar year. Any other endMonth is not
// checked against startMonth: the year ends on the last day of endMonth in
// the year after it began, which is not twelve months long. Months outside
// 1..12 fall back to the defaults. The label is always "begin/end" by year.
func FiscalRangeFor(ref Date, startMonth, endMonth int) FiscalRange {
	if startMonth < 1 || startMonth > 12 {
		startMonth = DefaultFiscalStart
	}
	if endMonth < 1 || endMonth > 12 {
		endMonth = DefaultFiscalEnd
	}

	beginYear := ref.Year()
	if int(ref.Month()) < startMonth {
		beginYear--
	}
	start := NewDate(beginYear, time.Month(startMonth), 1)

	var end Date
	if endMonth == (startMonth+10)%12+1 {
		end = start.AddMonths(12).PreviousDay()
	} else {
		end = NewDate(beginYear+1, time.Month(endMonth), 1).EndOfMonth()
	}

	label := fmt.Sprintf("%d/%d", start.Year(), end.Year())
	return FiscalRange{Start: start, End: end, Label: label}
}

// RecentFiscalYears returns the fiscal year containing today followed by the
// years containing the same month in each of the n-1 previous calendar years.
func RecentFiscalYears(today Date, n, startMonth, endMonth int) []FiscalRange {
	years := make([]FiscalRange, 0, n)
	first := today.StartOfMonth()
	for i := 0; i < n; i++ {
		years = append(years, FiscalRangeFor(first.AddMonths(-12*i), startMonth, endMonth))
	}
	return years
}
