package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPartitionHardRequestsByYear(t *testing.T) {
	day := func(year int, month time.Month, d int) time.Time {
		return time.Date(year, month, d, 0, 0, 0, 0, time.Local)
	}
	requests := []*HardRequest{
		{ID: 1, Date: day(2025, 6, 10)},
		{ID: 2, Date: day(2024, 12, 31)},
		{ID: 3, Date: day(2026, 1, 1)},
		{ID: 4, Date: day(2023, 3, 5)},
	}

	current, past := PartitionHardRequestsByYear(requests, 2025)

	require.Len(t, current, 2)
	require.Equal(t, int64(1), current[0].ID)
	require.Equal(t, int64(3), current[1].ID)

	require.Len(t, past, 2)
	require.Equal(t, int64(2), past[0].ID)
	require.Equal(t, int64(4), past[1].ID)

	// 空列表分组后两边都是空切片而不是 nil
	current, past = PartitionHardRequestsByYear(nil, 2025)
	require.NotNil(t, current)
	require.NotNil(t, past)
}

func TestValidateHardRequestDate(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 30, 0, 0, time.Local)

	t.Run("明天可以", func(t *testing.T) {
		date := time.Date(2025, 6, 16, 0, 0, 0, 0, time.Local)
		require.NoError(t, ValidateHardRequestDate(date, now))
	})

	t.Run("当天不行", func(t *testing.T) {
		date := time.Date(2025, 6, 15, 23, 59, 0, 0, time.Local)
		require.ErrorIs(t, ValidateHardRequestDate(date, now), ErrLeadTimeViolation)
	})

	t.Run("过去不行", func(t *testing.T) {
		date := time.Date(2025, 6, 1, 0, 0, 0, 0, time.Local)
		require.ErrorIs(t, ValidateHardRequestDate(date, now), ErrLeadTimeViolation)
	})

	t.Run("跨年也可以", func(t *testing.T) {
		date := time.Date(2026, 1, 1, 0, 0, 0, 0, time.Local)
		require.NoError(t, ValidateHardRequestDate(date, now))
	})
}
