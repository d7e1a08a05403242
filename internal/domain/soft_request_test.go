package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateSoftRequestEntries(t *testing.T) {
	t.Run("合法的集合", func(t *testing.T) {
		entries := []SoftRequestEntry{
			{Type: RequestTypeNoMondays, IsHighPriority: true},
			{Type: RequestTypeNoSpecificDays, Days: []int32{5, 20}},
		}
		require.NoError(t, ValidateSoftRequestEntries(entries, 2025, 6))
	})

	t.Run("空集合也是合法的", func(t *testing.T) {
		require.NoError(t, ValidateSoftRequestEntries(nil, 2025, 6))
	})

	t.Run("超过两条", func(t *testing.T) {
		entries := []SoftRequestEntry{
			{Type: RequestTypeNoMondays},
			{Type: RequestTypeNoTuesdays},
			{Type: RequestTypeNoNightShifts},
		}
		err := ValidateSoftRequestEntries(entries, 2025, 6)

		var quotaErr *QuotaError
		require.ErrorAs(t, err, &quotaErr)
		require.Equal(t, 3, quotaErr.Current)
		require.Equal(t, MaxSoftRequestEntries, quotaErr.Limit)
	})

	t.Run("两条都是高优先级", func(t *testing.T) {
		entries := []SoftRequestEntry{
			{Type: RequestTypeNoMondays, IsHighPriority: true},
			{Type: RequestTypeNoNightShifts, IsHighPriority: true},
		}
		err := ValidateSoftRequestEntries(entries, 2025, 6)
		require.ErrorIs(t, err, ErrPriorityQuotaExceeded)
	})

	t.Run("未知类型", func(t *testing.T) {
		entries := []SoftRequestEntry{{Type: "no_everything"}}
		err := ValidateSoftRequestEntries(entries, 2025, 6)
		require.ErrorIs(t, err, ErrMalformedRequest)
	})

	t.Run("指定日期超出当月天数", func(t *testing.T) {
		entries := []SoftRequestEntry{
			{Type: RequestTypeNoSpecificDays, Days: []int32{30}},
		}
		// 2025 年 2 月只有 28 天
		err := ValidateSoftRequestEntries(entries, 2025, 2)
		require.ErrorIs(t, err, ErrMalformedRequest)
	})

	t.Run("指定日期数量超限", func(t *testing.T) {
		entries := []SoftRequestEntry{
			{Type: RequestTypeNoSpecificDays, Days: []int32{1, 2, 3}},
		}
		err := ValidateSoftRequestEntries(entries, 2025, 6)
		require.ErrorIs(t, err, ErrMalformedRequest)
	})

	t.Run("指定班次数量超限", func(t *testing.T) {
		entries := []SoftRequestEntry{
			{Type: RequestTypeSpecificShiftsOnDays, Shifts: []SpecificShift{
				{Day: 1, Shift: ShiftMorning},
				{Day: 2, Shift: ShiftAfternoon},
				{Day: 3, Shift: ShiftNight},
				{Day: 4, Shift: ShiftMorning},
			}},
		}
		err := ValidateSoftRequestEntries(entries, 2025, 6)
		require.ErrorIs(t, err, ErrMalformedRequest)
	})

	t.Run("指定班次允许夜午连班", func(t *testing.T) {
		entries := []SoftRequestEntry{
			{Type: RequestTypeSpecificShiftsOnDays, Shifts: []SpecificShift{
				{Day: 10, Shift: ShiftNightAfternoonDouble},
			}},
		}
		require.NoError(t, ValidateSoftRequestEntries(entries, 2025, 6))
	})

	t.Run("指定班次不允许休息码", func(t *testing.T) {
		entries := []SoftRequestEntry{
			{Type: RequestTypeSpecificShiftsOnDays, Shifts: []SpecificShift{
				{Day: 10, Shift: ShiftOff},
			}},
		}
		err := ValidateSoftRequestEntries(entries, 2025, 6)
		require.ErrorIs(t, err, ErrMalformedRequest)
	})

	t.Run("无结构值的类型不允许携带值", func(t *testing.T) {
		entries := []SoftRequestEntry{
			{Type: RequestTypeNoMondays, Days: []int32{1}},
		}
		err := ValidateSoftRequestEntries(entries, 2025, 6)
		require.ErrorIs(t, err, ErrMalformedRequest)
	})
}

func TestRequestTypeVocabulary(t *testing.T) {
	// request_specific_shifts_on_days 只能出现在按月请求里
	require.False(t, RequestTypeSpecificShiftsOnDays.IsConstraintType())
	require.True(t, RequestTypeSpecificShiftsOnDays.IsSoftRequestType())

	require.True(t, RequestTypeNoSpecificDays.IsConstraintType())
	require.True(t, RequestTypeNoNightAfternoonDouble.IsConstraintType())

	var unknown RequestType = "no_everything"
	require.False(t, unknown.IsSoftRequestType())
}

func TestValidateConstraints(t *testing.T) {
	t.Run("合法约束", func(t *testing.T) {
		constraints := []NurseConstraint{
			{Type: RequestTypeNoNightShifts, Strength: ConstraintStrengthHard},
			{Type: RequestTypeNoSpecificDays, Days: []int32{1, 15}, Strength: ConstraintStrengthSoft},
		}
		require.NoError(t, ValidateConstraints(constraints))
	})

	t.Run("约束不允许按月专属类型", func(t *testing.T) {
		constraints := []NurseConstraint{
			{Type: RequestTypeSpecificShiftsOnDays, Strength: ConstraintStrengthSoft},
		}
		require.ErrorIs(t, ValidateConstraints(constraints), ErrMalformedRequest)
	})

	t.Run("强度非法", func(t *testing.T) {
		constraints := []NurseConstraint{
			{Type: RequestTypeNoMondays, Strength: "mandatory"},
		}
		require.ErrorIs(t, ValidateConstraints(constraints), ErrMalformedRequest)
	})
}

func TestQuotaErrorMessage(t *testing.T) {
	err := &QuotaError{Scope: "本年度硬性请求", Current: 5, Limit: 5}
	require.Contains(t, err.Error(), "5/5")

	var target *QuotaError
	require.True(t, errors.As(err, &target))
}
