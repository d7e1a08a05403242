package optimizer

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/ward-shift-dev/nurse-shift-manager/backend/internal/domain"
)

func testParameters() domain.ScheduleParameters {
	return domain.ScheduleParameters{
		RequiredNursesMorning:      2,
		RequiredNursesAfternoon:    2,
		RequiredNursesNight:        1,
		MaxConsecutiveShiftsWorked: 5,
		TargetOffDays:              8,
		SolverTimeLimit:            60,
	}
}

func testNurses(n int) []*domain.Nurse {
	nurses := make([]*domain.Nurse, 0, n)
	for i := 0; i < n; i++ {
		nurses = append(nurses, &domain.Nurse{
			ID:          int64(i + 1),
			Ward:        domain.WardMedicine,
			Constraints: []domain.NurseConstraint{},
		})
	}
	return nurses
}

func TestBuildRequestInsufficientStaff(t *testing.T) {
	parameters := testParameters()
	parameters.RequiredNursesNight = 4

	_, err := BuildRequest(&BuildInput{
		Year:       2025,
		Month:      6,
		Parameters: parameters,
		Nurses:     testNurses(3),
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStaff)
	require.Contains(t, err.Error(), "3 名护士")
	require.Contains(t, err.Error(), "4 人")
}

func TestBuildRequestAssemblesPayload(t *testing.T) {
	nurses := testNurses(4)
	nurses[0].IsGovernmentOfficial = true
	nurses[0].Constraints = []domain.NurseConstraint{
		{Type: domain.RequestTypeNoNightShifts, Strength: domain.ConstraintStrengthHard},
		{Type: domain.RequestTypeNoSpecificDays, Days: []int32{3, 18}, Strength: domain.ConstraintStrengthSoft},
	}

	in := &BuildInput{
		Year:       2025,
		Month:      2,
		Parameters: testParameters(),
		Nurses:     nurses,
		SoftRequests: map[int64][]domain.SoftRequestEntry{
			2: {
				{Type: domain.RequestTypeNoMondays, IsHighPriority: true},
				{Type: domain.RequestTypeSpecificShiftsOnDays, Shifts: []domain.SpecificShift{
					{Day: 10, Shift: domain.ShiftNight},
				}},
			},
		},
		ApprovedOffDates: map[int64][]string{
			3: {"2025-02-14"},
		},
		CarryOverFlags: map[int64]bool{
			2: true,
			4: false,
		},
	}

	request, err := BuildRequest(in)
	require.NoError(t, err)

	// 周期首尾
	require.Equal(t, "2025-02-01", request.Schedule.StartDate)
	require.Equal(t, "2025-02-28", request.Schedule.EndDate)

	// 护士 id 用字符串，约束按类型携带值
	require.Len(t, request.Nurses, 4)
	require.Equal(t, "1", request.Nurses[0].ID)
	require.True(t, request.Nurses[0].IsGovernmentOfficial)
	require.Len(t, request.Nurses[0].Constraints, 2)
	require.Equal(t, "no_night_shifts", request.Nurses[0].Constraints[0].Type)
	require.Nil(t, request.Nurses[0].Constraints[0].Value)
	require.Equal(t, "no_specific_days", request.Nurses[0].Constraints[1].Type)
	require.Equal(t, []int32{3, 18}, request.Nurses[0].Constraints[1].Value)

	// 软性请求按护士分组，键也是字符串
	softRequests, ok := request.MonthlySoftRequests["2"]
	require.True(t, ok)
	require.Len(t, softRequests, 2)
	require.Equal(t, "no_mondays", softRequests[0].Type)
	require.True(t, softRequests[0].IsHighPriority)
	require.Nil(t, softRequests[0].Value)
	require.Equal(t, "request_specific_shifts_on_days", softRequests[1].Type)
	require.Equal(t, []specificShiftValue{{Day: 10, ShiftType: 3}}, softRequests[1].Value)

	// 结转标记与已批准休息日原样透传
	require.Equal(t, map[string]bool{"2": true, "4": false}, request.CarryOverFlags)
	require.Equal(t, map[string][]string{"3": {"2025-02-14"}}, request.ApprovedOffDates)

	// 未提供节假日时序列化为空数组而不是 null
	require.NotNil(t, request.Holidays)
	require.Empty(t, request.Holidays)

	require.Nil(t, request.PreviousMonthSchedule)
}

func TestBuildRequestStaffingAtBoundary(t *testing.T) {
	// 人数恰好等于最大班次需求时允许生成
	request, err := BuildRequest(&BuildInput{
		Year:       2025,
		Month:      6,
		Parameters: testParameters(),
		Nurses:     testNurses(2),
	})
	require.NoError(t, err)
	require.Len(t, request.Nurses, 2)
}

func TestResponseToSchedule(t *testing.T) {
	resp := &Response{
		StartDate: "2025-06-01",
		EndDate:   "2025-06-30",
		Days:      domain.PeriodDays(2025, 6),
		NurseSchedules: map[int64]domain.NurseSchedule{
			1: {Shifts: map[string][]domain.ShiftCode{
				"2025-06-01": {domain.ShiftMorning},
				"2025-06-02": {domain.ShiftNight, domain.ShiftAfternoon},
			}},
		},
		ShiftsCount: map[int64]domain.ShiftsCount{
			1: {Morning: 1, Night: 1, Afternoon: 1, Total: 3, NightAfternoonDouble: 1},
		},
		NextCarryOverFlags: map[int64]bool{1: true},
		SolverStatus:       "OPTIMAL",
		PenaltyValue:       12.5,
	}

	parameters := testParameters()
	schedule := resp.ToSchedule(domain.WardSurgery, 2025, 6, parameters, 42)

	require.Equal(t, domain.WardSurgery, schedule.Ward)
	require.Equal(t, 2025, schedule.Year)
	require.Equal(t, 6, schedule.Month)
	require.Equal(t, resp.NurseSchedules, schedule.NurseSchedules)
	require.Equal(t, map[int64]bool{1: true}, schedule.NextCarryOverFlags)
	require.Equal(t, "OPTIMAL", schedule.SolverStatus)
	require.Equal(t, parameters, schedule.Parameters)
	require.Equal(t, int64(42), schedule.CreatedBy)
}
