package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDaysInMonth(t *testing.T) {
	require.Equal(t, 31, DaysInMonth(2025, 1))
	require.Equal(t, 28, DaysInMonth(2025, 2))
	require.Equal(t, 29, DaysInMonth(2024, 2))
	require.Equal(t, 30, DaysInMonth(2025, 4))
	require.Equal(t, 31, DaysInMonth(2025, 12))
}

func TestPreviousPeriod(t *testing.T) {
	year, month := PreviousPeriod(2025, 6)
	require.Equal(t, 2025, year)
	require.Equal(t, 5, month)

	year, month = PreviousPeriod(2025, 1)
	require.Equal(t, 2024, year)
	require.Equal(t, 12, month)
}

func TestPeriodRange(t *testing.T) {
	start, end := PeriodRange(2025, 2)
	require.Equal(t, "2025-02-01", start)
	require.Equal(t, "2025-02-28", end)

	start, end = PeriodRange(2024, 2)
	require.Equal(t, "2024-02-01", start)
	require.Equal(t, "2024-02-29", end)
}

func TestPeriodDays(t *testing.T) {
	days := PeriodDays(2025, 6)
	require.Len(t, days, 30)
	require.Equal(t, "2025-06-01", days[0])
	require.Equal(t, "2025-06-30", days[29])
}
