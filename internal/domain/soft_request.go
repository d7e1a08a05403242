package domain

import "time"

// RequestType 软性请求与长期约束共用的类型词汇表
type RequestType string

const (
	RequestTypeNoMondays              RequestType = "no_mondays"
	RequestTypeNoTuesdays             RequestType = "no_tuesdays"
	RequestTypeNoWednesdays           RequestType = "no_wednesdays"
	RequestTypeNoThursdays            RequestType = "no_thursdays"
	RequestTypeNoFridays              RequestType = "no_fridays"
	RequestTypeNoSaturdays            RequestType = "no_saturdays"
	RequestTypeNoSundays              RequestType = "no_sundays"
	RequestTypeNoMorningShifts        RequestType = "no_morning_shifts"
	RequestTypeNoAfternoonShifts      RequestType = "no_afternoon_shifts"
	RequestTypeNoNightShifts          RequestType = "no_night_shifts"
	RequestTypeNoNightAfternoonDouble RequestType = "no_night_afternoon_double"
	RequestTypeNoSpecificDays         RequestType = "no_specific_days"
	RequestTypeSpecificShiftsOnDays   RequestType = "request_specific_shifts_on_days"
)

// IsConstraintType 报告该类型是否可以作为护士的长期约束
// request_specific_shifts_on_days 只能出现在按月的软性请求里
func (t RequestType) IsConstraintType() bool {
	switch t {
	case RequestTypeNoMondays, RequestTypeNoTuesdays, RequestTypeNoWednesdays,
		RequestTypeNoThursdays, RequestTypeNoFridays, RequestTypeNoSaturdays,
		RequestTypeNoSundays, RequestTypeNoMorningShifts, RequestTypeNoAfternoonShifts,
		RequestTypeNoNightShifts, RequestTypeNoNightAfternoonDouble, RequestTypeNoSpecificDays:
		return true
	}
	return false
}

func (t RequestType) IsSoftRequestType() bool {
	return t.IsConstraintType() || t == RequestTypeSpecificShiftsOnDays
}

// ShiftCode 班次编码，和优化服务约定一致
type ShiftCode int32

const (
	ShiftOff                  ShiftCode = 0
	ShiftMorning              ShiftCode = 1
	ShiftAfternoon            ShiftCode = 2
	ShiftNight                ShiftCode = 3
	ShiftNightAfternoonDouble ShiftCode = 4 // 只出现在请求里，排班结果里是 3 + 2
)

// SpecificShift 指定某一天想上的班次
type SpecificShift struct {
	Day   int32     `json:"day"`
	Shift ShiftCode `json:"shift"`
}

const (
	// MaxSoftRequestEntries 每人每月软性请求条数上限
	MaxSoftRequestEntries = 2
	// MaxHighPriorityEntries 每人每月高优先级请求条数上限
	MaxHighPriorityEntries = 1
	// MaxNoSpecificDays no_specific_days 最多指定的天数
	MaxNoSpecificDays = 2
	// MaxSpecificShifts request_specific_shifts_on_days 最多指定的班次数
	MaxSpecificShifts = 3
)

// SoftRequestEntry 一条软性请求
// Days 仅用于 no_specific_days，Shifts 仅用于 request_specific_shifts_on_days
type SoftRequestEntry struct {
	Type           RequestType     `json:"type"`
	Days           []int32         `json:"days,omitempty"`
	Shifts         []SpecificShift `json:"shifts,omitempty"`
	IsHighPriority bool            `json:"isHighPriority"`
}

// SoftRequestSet 某位护士某个月的全部软性请求，整体替换式更新
type SoftRequestSet struct {
	ID        int64              `json:"id"`
	NurseID   int64              `json:"nurseId"`
	Ward      Ward               `json:"ward"`
	Year      int                `json:"year"`
	Month     int                `json:"month"`
	Entries   []SoftRequestEntry `json:"entries"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
	Version   int32              `json:"-"`
}

// ValidateSoftRequestEntries 校验某个月的软性请求集合
// 形状错误返回 ErrMalformedRequest，数量超限返回 QuotaError，
// 高优先级超限返回 ErrPriorityQuotaExceeded
func ValidateSoftRequestEntries(entries []SoftRequestEntry, year, month int) error {
	if len(entries) > MaxSoftRequestEntries {
		return &QuotaError{Scope: "每月软性请求", Current: len(entries), Limit: MaxSoftRequestEntries}
	}

	highPriority := 0
	daysInMonth := int32(DaysInMonth(year, month))
	for _, e := range entries {
		if e.IsHighPriority {
			highPriority++
		}

		switch {
		case e.Type == RequestTypeNoSpecificDays:
			if len(e.Days) == 0 || len(e.Days) > MaxNoSpecificDays || len(e.Shifts) > 0 {
				return ErrMalformedRequest
			}
			for _, d := range e.Days {
				if d < 1 || d > daysInMonth {
					return ErrMalformedRequest
				}
			}
		case e.Type == RequestTypeSpecificShiftsOnDays:
			if len(e.Shifts) == 0 || len(e.Shifts) > MaxSpecificShifts || len(e.Days) > 0 {
				return ErrMalformedRequest
			}
			for _, s := range e.Shifts {
				if s.Day < 1 || s.Day > daysInMonth {
					return ErrMalformedRequest
				}
				switch s.Shift {
				case ShiftMorning, ShiftAfternoon, ShiftNight, ShiftNightAfternoonDouble:
				default:
					return ErrMalformedRequest
				}
			}
		case e.Type.IsSoftRequestType():
			if len(e.Days) > 0 || len(e.Shifts) > 0 {
				return ErrMalformedRequest
			}
		default:
			return ErrMalformedRequest
		}
	}

	if highPriority > MaxHighPriorityEntries {
		return ErrPriorityQuotaExceeded
	}
	return nil
}
