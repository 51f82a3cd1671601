package utils

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestBillingDate(t *testing.T) {
	start := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		start       time.Time
		monthsAhead int
		dueDay      int
		expected    time.Time
	}{
		{
			name:        "first month keeps due day",
			start:       start,
			monthsAhead: 0,
			dueDay:      5,
			expected:    time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
		},
		{
			name:        "second month keeps due day",
			start:       start,
			monthsAhead: 1,
			dueDay:      5,
			expected:    time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC),
		},
		{
			name:        "due day 31 clamps to leap February",
			start:       time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
			monthsAhead: 1,
			dueDay:      31,
			expected:    time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
		},
		{
			name:        "due day 31 clamps to April",
			start:       time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
			monthsAhead: 3,
			dueDay:      31,
			expected:    time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC),
		},
		{
			name:        "year rollover",
			start:       time.Date(2024, 11, 5, 0, 0, 0, 0, time.UTC),
			monthsAhead: 2,
			dueDay:      5,
			expected:    time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := BillingDate(tt.start, tt.monthsAhead, tt.dueDay)
			assert.True(t, result.Equal(tt.expected),
				"Expected %v, but got %v", tt.expected, result)
		})
	}
}

func TestMonthsOverdue(t *testing.T) {
	due := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		asOf     time.Time
		expected int
	}{
		{"not yet due", due.AddDate(0, 0, -1), 0},
		{"29 days overdue is zero months", due.AddDate(0, 0, 29), 0},
		{"30 days overdue is one month", due.AddDate(0, 0, 30), 1},
		{"75 days overdue truncates to two months", due.AddDate(0, 0, 75), 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MonthsOverdue(due, tt.asOf))
		})
	}
}

func TestIsDateOverdue(t *testing.T) {
	due := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)

	assert.False(t, IsDateOverdue(due, due), "due day itself is not overdue")
	assert.False(t, IsDateOverdue(due, due.AddDate(0, 0, -1)))
	assert.True(t, IsDateOverdue(due, due.AddDate(0, 0, 1)))
}

func TestPercentOf(t *testing.T) {
	tests := []struct {
		name     string
		amount   decimal.Decimal
		pct      int
		expected decimal.Decimal
	}{
		{"30 percent of 1000", decimal.NewFromInt(1000), 30, decimal.NewFromInt(300)},
		{"33 percent of 100 rounds to minor unit", decimal.NewFromInt(100), 33, decimal.NewFromInt(33)},
		{"rounding half up", decimal.NewFromFloat(10.05), 50, decimal.NewFromFloat(5.03)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := PercentOf(tt.amount, tt.pct)
			assert.True(t, result.Equal(tt.expected),
				"Expected %v, but got %v", tt.expected, result)
		})
	}
}
