package domain

import "time"

// NurseSchedule 某位护士整月的班表，键为 "YYYY-MM-DD"
type NurseSchedule struct {
	Shifts map[string][]ShiftCode `json:"shifts"`
}

// ShiftsCount 优化器统计的每位护士的各类班次数量
type ShiftsCount struct {
	Morning              int32 `json:"morning"`
	Afternoon            int32 `json:"afternoon"`
	Night                int32 `json:"night"`
	Total                int32 `json:"total"`
	DaysOff              int32 `json:"daysOff"`
	NightAfternoonDouble int32 `json:"nightAfternoonDouble"`
}

// FairnessReport 优化器给出的公平性报告，入库前供管理员评估
type FairnessReport struct {
	OffDaysMin     int32 `json:"offDaysMin"`
	OffDaysMax     int32 `json:"offDaysMax"`
	TotalShiftsMin int32 `json:"totalShiftsMin"`
	TotalShiftsMax int32 `json:"totalShiftsMax"`
	MorningMin     int32 `json:"morningMin"`
	MorningMax     int32 `json:"morningMax"`
	AfternoonMin   int32 `json:"afternoonMin"`
	AfternoonMax   int32 `json:"afternoonMax"`
	NightMin       int32 `json:"nightMin"`
	NightMax       int32 `json:"nightMax"`
	TotalNADoubles int32 `json:"totalNADoubles"`
}

// ScheduleParameters 生成排班时管理员填写的参数，随排班一起保存
type ScheduleParameters struct {
	RequiredNursesMorning      int32   `json:"requiredNursesMorning" validate:"required,min=1"`
	RequiredNursesAfternoon    int32   `json:"requiredNursesAfternoon" validate:"required,min=1"`
	RequiredNursesNight        int32   `json:"requiredNursesNight" validate:"required,min=1"`
	MaxConsecutiveShiftsWorked int32   `json:"maxConsecutiveShiftsWorked" validate:"required,min=1"`
	TargetOffDays              int32   `json:"targetOffDays" validate:"min=0"`
	SolverTimeLimit            float64 `json:"solverTimeLimit" validate:"required,min=1"`
	Holidays                   []int32 `json:"holidays"`
}

// MaxStaffingTarget 三类班次中最大的需求人数
func (p *ScheduleParameters) MaxStaffingTarget() int32 {
	m := p.RequiredNursesMorning
	if p.RequiredNursesAfternoon > m {
		m = p.RequiredNursesAfternoon
	}
	if p.RequiredNursesNight > m {
		m = p.RequiredNursesNight
	}
	return m
}

// Schedule 某病区某月的排班结果，按 (ward, year, month) 唯一
// 同一周期重新生成并确认会整体覆盖旧结果
type Schedule struct {
	ID                 int64                   `json:"id"`
	Ward               Ward                    `json:"ward"`
	Year               int                     `json:"year"`
	Month              int                     `json:"month"`
	StartDate          string                  `json:"startDate"`
	EndDate            string                  `json:"endDate"`
	Days               []string                `json:"days"`
	NurseSchedules     map[int64]NurseSchedule `json:"nurseSchedules"`
	ShiftsCount        map[int64]ShiftsCount   `json:"shiftsCount"`
	FairnessReport     FairnessReport          `json:"fairnessReport"`
	NextCarryOverFlags map[int64]bool          `json:"nextCarryOverFlags"`
	SolverStatus       string                  `json:"solverStatus"`
	PenaltyValue       float64                 `json:"penaltyValue"`
	Parameters         ScheduleParameters      `json:"parameters"`
	CreatedBy          int64                   `json:"createdBy"`
	CreatedAt          time.Time               `json:"createdAt"`
	Version            int32                   `json:"-"`
}
