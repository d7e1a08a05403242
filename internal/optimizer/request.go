package optimizer

import (
	"fmt"
	"strconv"

	"github.com/ward-shift-dev/nurse-shift-manager/backend/internal/domain"
)

// 请求里的护士 id 一律用字符串，优化服务把它们当作字典键使用

type Constraint struct {
	Type     string `json:"type"`
	Value    any    `json:"value,omitempty"`
	Strength string `json:"strength"`
}

type RequestNurse struct {
	ID                   string       `json:"id"`
	IsGovernmentOfficial bool         `json:"isGovernmentOfficial"`
	Constraints          []Constraint `json:"constraints"`
}

type Window struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

type SoftRequest struct {
	Type           string `json:"type"`
	Value          any    `json:"value,omitempty"`
	IsHighPriority bool   `json:"is_high_priority"`
}

type specificShiftValue struct {
	Day       int32 `json:"day"`
	ShiftType int32 `json:"shift_type"`
}

type Request struct {
	Nurses                     []RequestNurse           `json:"nurses"`
	Schedule                   Window                   `json:"schedule"`
	RequiredNursesMorning      int32                    `json:"requiredNursesMorning"`
	RequiredNursesAfternoon    int32                    `json:"requiredNursesAfternoon"`
	RequiredNursesNight        int32                    `json:"requiredNursesNight"`
	MaxConsecutiveShiftsWorked int32                    `json:"maxConsecutiveShiftsWorked"`
	TargetOffDays              int32                    `json:"targetOffDays"`
	SolverTimeLimit            float64                  `json:"solverTimeLimit"`
	MonthlySoftRequests        map[string][]SoftRequest `json:"monthly_soft_requests"`
	CarryOverFlags             map[string]bool          `json:"carry_over_flags"`
	ApprovedOffDates           map[string][]string      `json:"approved_off_dates"`
	Holidays                   []int32                  `json:"holidays"`
	PreviousMonthSchedule      *domain.Schedule         `json:"previousMonthSchedule"`
}

type Response struct {
	StartDate          string                         `json:"startDate"`
	EndDate            string                         `json:"endDate"`
	Days               []string                       `json:"days"`
	NurseSchedules     map[int64]domain.NurseSchedule `json:"nurseSchedules"`
	ShiftsCount        map[int64]domain.ShiftsCount   `json:"shiftsCount"`
	FairnessReport     domain.FairnessReport          `json:"fairnessReport"`
	NextCarryOverFlags map[int64]bool                 `json:"nextCarryOverFlags"`
	SolverStatus       string                         `json:"solverStatus"`
	PenaltyValue       float64                        `json:"penaltyValue"`
}

// BuildInput 组装请求所需的全部素材，由调用方读好后传入
type BuildInput struct {
	Year             int
	Month            int
	Parameters       domain.ScheduleParameters
	Nurses           []*domain.Nurse
	SoftRequests     map[int64][]domain.SoftRequestEntry
	ApprovedOffDates map[int64][]string
	CarryOverFlags   map[int64]bool
	PreviousSchedule *domain.Schedule
}

// BuildRequest 把一个周期的所有约束组装成一次优化请求
// 只做组装，不访问存储，人数不足时直接失败，不会发起优化调用
func BuildRequest(in *BuildInput) (*Request, error) {
	maxTarget := in.Parameters.MaxStaffingTarget()
	if len(in.Nurses) < int(maxTarget) {
		return nil, fmt.Errorf("%w，共有 %d 名护士，单个班次最多需要 %d 人", domain.ErrInsufficientStaff, len(in.Nurses), maxTarget)
	}

	nurses := make([]RequestNurse, 0, len(in.Nurses))
	for _, nurse := range in.Nurses {
		constraints := make([]Constraint, 0, len(nurse.Constraints))
		for _, c := range nurse.Constraints {
			constraint := Constraint{
				Type:     string(c.Type),
				Strength: string(c.Strength),
			}
			if c.Type == domain.RequestTypeNoSpecificDays {
				constraint.Value = c.Days
			}
			constraints = append(constraints, constraint)
		}
		nurses = append(nurses, RequestNurse{
			ID:                   strconv.FormatInt(nurse.ID, 10),
			IsGovernmentOfficial: nurse.IsGovernmentOfficial,
			Constraints:          constraints,
		})
	}

	softRequests := make(map[string][]SoftRequest, len(in.SoftRequests))
	for nurseID, entries := range in.SoftRequests {
		converted := make([]SoftRequest, 0, len(entries))
		for _, e := range entries {
			converted = append(converted, convertSoftEntry(e))
		}
		softRequests[strconv.FormatInt(nurseID, 10)] = converted
	}

	carryOverFlags := make(map[string]bool, len(in.CarryOverFlags))
	for nurseID, flag := range in.CarryOverFlags {
		carryOverFlags[strconv.FormatInt(nurseID, 10)] = flag
	}

	offDates := make(map[string][]string, len(in.ApprovedOffDates))
	for nurseID, dates := range in.ApprovedOffDates {
		offDates[strconv.FormatInt(nurseID, 10)] = dates
	}

	startDate, endDate := domain.PeriodRange(in.Year, in.Month)
	holidays := in.Parameters.Holidays
	if holidays == nil {
		holidays = []int32{}
	}

	return &Request{
		Nurses:                     nurses,
		Schedule:                   Window{StartDate: startDate, EndDate: endDate},
		RequiredNursesMorning:      in.Parameters.RequiredNursesMorning,
		RequiredNursesAfternoon:    in.Parameters.RequiredNursesAfternoon,
		RequiredNursesNight:        in.Parameters.RequiredNursesNight,
		MaxConsecutiveShiftsWorked: in.Parameters.MaxConsecutiveShiftsWorked,
		TargetOffDays:              in.Parameters.TargetOffDays,
		SolverTimeLimit:            in.Parameters.SolverTimeLimit,
		MonthlySoftRequests:        softRequests,
		CarryOverFlags:             carryOverFlags,
		ApprovedOffDates:           offDates,
		Holidays:                   holidays,
		PreviousMonthSchedule:      in.PreviousSchedule,
	}, nil
}

func convertSoftEntry(e domain.SoftRequestEntry) SoftRequest {
	request := SoftRequest{
		Type:           string(e.Type),
		IsHighPriority: e.IsHighPriority,
	}

	switch e.Type {
	case domain.RequestTypeNoSpecificDays:
		request.Value = e.Days
	case domain.RequestTypeSpecificShiftsOnDays:
		values := make([]specificShiftValue, 0, len(e.Shifts))
		for _, s := range e.Shifts {
			values = append(values, specificShiftValue{Day: s.Day, ShiftType: int32(s.Shift)})
		}
		request.Value = values
	}

	return request
}

// ToSchedule 把优化结果转换成可以入库的排班记录
func (resp *Response) ToSchedule(ward domain.Ward, year, month int, parameters domain.ScheduleParameters, createdBy int64) *domain.Schedule {
	return &domain.Schedule{
		Ward:               ward,
		Year:               year,
		Month:              month,
		StartDate:          resp.StartDate,
		EndDate:            resp.EndDate,
		Days:               resp.Days,
		NurseSchedules:     resp.NurseSchedules,
		ShiftsCount:        resp.ShiftsCount,
		FairnessReport:     resp.FairnessReport,
		NextCarryOverFlags: resp.NextCarryOverFlags,
		SolverStatus:       resp.SolverStatus,
		PenaltyValue:       resp.PenaltyValue,
		Parameters:         parameters,
		CreatedBy:          createdBy,
	}
}
