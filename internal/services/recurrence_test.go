package services

import (
	"testing"

	"escalas/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestGenerateRecurrenceDates_Weekly(t *testing.T) {
	dates, err := GenerateRecurrenceDates("2026-09-06", models.RecurrenceWeekly, 4)

	assert.NoError(t, err)
	assert.Equal(t, []string{"2026-09-06", "2026-09-13", "2026-09-20", "2026-09-27"}, dates)
}

func TestGenerateRecurrenceDates_Biweekly(t *testing.T) {
	dates, err := GenerateRecurrenceDates("2026-09-06", models.RecurrenceBiweekly, 3)

	assert.NoError(t, err)
	assert.Equal(t, []string{"2026-09-06", "2026-09-20", "2026-10-04"}, dates)
}

func TestGenerateRecurrenceDates_Monthly(t *testing.T) {
	dates, err := GenerateRecurrenceDates("2026-09-15", models.RecurrenceMonthly, 3)

	assert.NoError(t, err)
	assert.Equal(t, []string{"2026-09-15", "2026-10-15", "2026-11-15"}, dates)
}

// AddDate normalizes month-end overflow instead of clamping, so a series
// started on Jan 31 drifts through March.
func TestGenerateRecurrenceDates_MonthlyOverflow(t *testing.T) {
	dates, err := GenerateRecurrenceDates("2026-01-31", models.RecurrenceMonthly, 3)

	assert.NoError(t, err)
	assert.Equal(t, []string{"2026-01-31", "2026-03-03", "2026-04-03"}, dates)
}

func TestGenerateRecurrenceDates_StartIsFirstOccurrence(t *testing.T) {
	dates, err := GenerateRecurrenceDates("2026-09-06", models.RecurrenceWeekly, 1)

	assert.NoError(t, err)
	assert.Equal(t, []string{"2026-09-06"}, dates)
}

func TestGenerateRecurrenceDates_InvalidUnit(t *testing.T) {
	dates, err := GenerateRecurrenceDates("2026-09-06", "daily", 4)

	assert.Error(t, err)
	assert.Nil(t, dates)
}

func TestGenerateRecurrenceDates_InvalidCount(t *testing.T) {
	dates, err := GenerateRecurrenceDates("2026-09-06", models.RecurrenceWeekly, 0)

	assert.Error(t, err)
	assert.Nil(t, dates)
}

func TestGenerateRecurrenceDates_InvalidStartDate(t *testing.T) {
	dates, err := GenerateRecurrenceDates("06/09/2026", models.RecurrenceWeekly, 4)

	assert.Error(t, err)
	assert.Nil(t, dates)
}
