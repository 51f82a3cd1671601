package utils

import (
	"time"

	"github.com/shopspring/decimal"
)

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// BillingDate computes the due date `monthsAhead` months after the contract
// start, on the contract's due day. A due day past the end of the target
// month is clamped to the month's last day (due day 31 in February -> Feb 28/29).
func BillingDate(start time.Time, monthsAhead int, dueDay int) time.Time {
	anchor := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
	target := anchor.AddDate(0, monthsAhead, 0)

	day := dueDay
	if max := DaysInMonth(target.Year(), target.Month()); day > max {
		day = max
	}

	return time.Date(target.Year(), target.Month(), day, 0, 0, 0, 0, time.UTC)
}

// DateOnly truncates a timestamp to midnight UTC.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// MonthsOverdue converts elapsed overdue days into whole 30-day months.
// Integer truncation is intentional: day 1 through 29 count as zero months.
func MonthsOverdue(dueDate, asOf time.Time) int {
	days := int(DateOnly(asOf).Sub(DateOnly(dueDate)).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days / 30
}

// RoundMinorUnit rounds to the currency's minor-unit precision (2 decimal
// places, half up).
func RoundMinorUnit(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// PercentOf returns pct percent of amount, rounded to the minor unit.
func PercentOf(amount decimal.Decimal, pct int) decimal.Decimal {
	return RoundMinorUnit(amount.Mul(decimal.NewFromInt(int64(pct))).Div(decimal.NewFromInt(100)))
}

// IsDateOverdue checks if a due date lies strictly before the given day.
func IsDateOverdue(dueDate, asOf time.Time) bool {
	return DateOnly(dueDate).Before(DateOnly(asOf))
}
