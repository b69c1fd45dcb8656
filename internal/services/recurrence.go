package services

import (
	"fmt"
	"time"

	"escalas/internal/models"
)

// GenerateRecurrenceDates expands a start date into count occurrence dates
// (YYYY-MM-DD). The start date is always the first occurrence. Weekly and
// biweekly step by exact days; monthly steps by calendar month via
// AddDate, which normalizes overflow the Go way (Jan 31 + 1 month lands
// on Mar 2 or Mar 3, it never clamps to Feb 28).
func GenerateRecurrenceDates(startDate string, unit string, count int) ([]string, error) {
	if !models.ValidRecurrence(unit) {
		return nil, fmt.Errorf("invalid recurrence unit %q", unit)
	}
	if count < 1 {
		return nil, fmt.Errorf("occurrence count must be at least 1, got %d", count)
	}

	start, err := time.Parse("2006-01-02", startDate)
	if err != nil {
		return nil, fmt.Errorf("invalid start date %q: %w", startDate, err)
	}

	dates := make([]string, 0, count)
	current := start
	for i := 0; i < count; i++ {
		dates = append(dates, current.Format("2006-01-02"))
		switch unit {
		case models.RecurrenceWeekly:
			current = current.AddDate(0, 0, 7)
		case models.RecurrenceBiweekly:
			current = current.AddDate(0, 0, 14)
		case models.RecurrenceMonthly:
			current = current.AddDate(0, 1, 0)
		}
	}
	return dates, nil
}
