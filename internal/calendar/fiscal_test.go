package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFiscalRangeFor_Default(t *testing.T) {
	tests := []struct {
		ref        Date
		start, end string
		label      string
	}{
		{NewDate(2024, 3, 15), "2023-07-01", "2024-06-30", "2023/2024"},
		{NewDate(2024, 8, 1), "2024-07-01", "2025-06-30", "2024/2025"},
		{NewDate(2024, 7, 1), "2024-07-01", "2025-06-30", "2024/2025"},
		{NewDate(2024, 6, 30), "2023-07-01", "2024-06-30", "2023/2024"},
		{NewDate(2024, 1, 1), "2023-07-01", "2024-06-30", "2023/2024"},
		{NewDate(2024, 12, 31), "2024-07-01", "2025-06-30", "2024/2025"},
	}
	for _, tt := range tests {
		got := FiscalRangeFor(tt.ref, 7, 6)
		assert.Equal(t, tt.start, got.Start.String(), tt.ref.String())
		assert.Equal(t, tt.end, got.End.String(), tt.ref.String())
		assert.Equal(t, tt.label, got.Label, tt.ref.String())
		assert.Equal(t, got, DefaultFiscalRangeFor(tt.ref))
	}
}

func TestFiscalRangeFor_EndIsInclusive(t *testing.T) {
	fy := DefaultFiscalRangeFor(NewDate(2024, 3, 15))
	assert.True(t, fy.Contains(NewDate(2024, 6, 30)))
	assert.True(t, fy.Contains(NewDate(2023, 7, 1)))
	assert.False(t, fy.Contains(NewDate(2024, 7, 1)))
	assert.False(t, fy.Contains(NewDate(2023, 6, 30)))
}

func TestFiscalRangeFor_AprilToMarch(t *testing.T) {
	got := FiscalRangeFor(NewDate(2024, 3, 15), 4, 3)
	assert.Equal(t, "2023-04-01", got.Start.String())
	assert.Equal(t, "2024-03-31", got.End.String())
	assert.Equal(t, "2023/2024", got.Label)

	got = FiscalRangeFor(NewDate(2024, 4, 1), 4, 3)
	assert.Equal(t, "2024-04-01", got.Start.String())
	assert.Equal(t, "2025-03-31", got.End.String())
	assert.Equal(t, "2024/2025", got.Label)
}

func TestFiscalRangeFor_CalendarYear(t *testing.T) {
	got := FiscalRangeFor(NewDate(2024, 3, 15), 1, 12)
	assert.Equal(t, "2024-01-01", got.Start.String())
	assert.Equal(t, "2024-12-31", got.End.String())
	assert.Equal(t, "2024/2024", got.Label)

	got = FiscalRangeFor(NewDate(2024, 12, 31), 1, 12)
	assert.Equal(t, "2024-01-01", got.Start.String())
	assert.Equal(t, "2024/2024", got.Label)
}

func TestFiscalRangeFor_MismatchedMonthsNotValidated(t *testing.T) {
	// July start with a March end: a nine month span, accepted silently.
	got := FiscalRangeFor(NewDate(2024, 8, 10), 7, 3)
	assert.Equal(t, "2024-07-01", got.Start.String())
	assert.Equal(t, "2025-03-31", got.End.String())
	assert.Equal(t, "2024/2025", got.Label)

	// July start with a September end runs on to September of the next year.
	got = FiscalRangeFor(NewDate(2024, 8, 10), 7, 9)
	assert.Equal(t, "2024-07-01", got.Start.String())
	assert.Equal(t, "2025-09-30", got.End.String())
	assert.Equal(t, "2024/2025", got.Label)

	got = FiscalRangeFor(NewDate(2024, 3, 10), 7, 9)
	assert.Equal(t, "2023-07-01", got.Start.String())
	assert.Equal(t, "2024-09-30", got.End.String())
	assert.Equal(t, "2023/2024", got.Label)
}

func TestFiscalRangeFor_LeapFebruaryEnd(t *testing.T) {
	got := FiscalRangeFor(NewDate(2023, 5, 1), 3, 2)
	assert.Equal(t, "2023-03-01", got.Start.String())
	assert.Equal(t, "2024-02-29", got.End.String())
}

func TestFiscalRangeFor_InvalidMonthsFallBack(t *testing.T) {
	got := FiscalRangeFor(NewDate(2024, 3, 15), 0, 13)
	assert.Equal(t, DefaultFiscalRangeFor(NewDate(2024, 3, 15)), got)
}

func TestFiscalMonths(t *testing.T) {
	months := DefaultFiscalRangeFor(NewDate(2024, 9, 1)).Months()
	require.Len(t, months, 12)
	assert.Equal(t, YearMonth{2024, time.July}, months[0])
	assert.Equal(t, YearMonth{2024, time.December}, months[5])
	assert.Equal(t, YearMonth{2025, time.January}, months[6])
	assert.Equal(t, YearMonth{2025, time.June}, months[11])
}

func TestMonthRange(t *testing.T) {
	r := MonthRange(2024, time.February)
	assert.Equal(t, "2024-02-01", r.From.String())
	assert.Equal(t, "2024-02-29", r.To.String())
	assert.True(t, r.Contains(NewDate(2024, 2, 29)))
	assert.False(t, r.Contains(NewDate(2024, 3, 1)))

	assert.Equal(t, "2024-12-31", MonthRange(2024, time.December).To.String())
	assert.Equal(t, "2024-12", YearMonth{2024, time.December}.String())
	assert.Equal(t, YearMonth{2025, time.January}, YearMonth{2024, time.December}.Next())
}

func TestRecentFiscalYears(t *testing.T) {
	years := RecentFiscalYears(NewDate(2024, 2, 29), 5, 7, 6)
	require.Len(t, years, 5)
	labels := make([]string, len(years))
	for i, y := range years {
		labels[i] = y.Label
	}
	assert.Equal(t, []string{"2023/2024", "2022/2023", "2021/2022", "2020/2021", "2019/2020"}, labels)
	assert.Equal(t, "2021-07-01", years[2].Start.String())
}
