package asset

import (
	"fmt"
	"time"
)

// Age is an elapsed span in full calendar years, months and days.
type Age struct {
	Years  int
	Months int
	Days   int
}

func (a Age) String() string {
	return fmt.Sprintf("%dy %dm %dd", a.Years, a.Months, a.Days)
}

// AgeAt computes the calendar age of purchaseDate relative to now. When the
// day component goes negative it borrows the actual day-count of the months
// preceding now, repeating until non-negative, then borrows a month from 12
// if the month component went negative. This keeps the result consistent
// with calendar subtraction even across month-length boundaries
// (e.g. 2023-01-31 to 2024-03-01 is 1y 0m 30d, not 1y 1m -1d).
func AgeAt(purchaseDate, now time.Time) Age {
	years := now.Year() - purchaseDate.Year()
	months := int(now.Month()) - int(purchaseDate.Month())
	days := now.Day() - purchaseDate.Day()

	y, m := now.Year(), int(now.Month())
	for days < 0 {
		m--
		if m < 1 {
			m = 12
			y--
		}
		days += daysInMonth(y, m)
		months--
	}

	for months < 0 {
		months += 12
		years--
	}

	return Age{Years: years, Months: months, Days: days}
}

func daysInMonth(year, month int) int {
	// day 0 of the next month is the last day of this one
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
