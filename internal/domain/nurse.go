package domain

import "time"

// Ward 病区标识
type Ward string

const (
	WardMedicine   Ward = "medicine"
	WardSurgery    Ward = "surgery"
	WardPediatrics Ward = "pediatrics"
	WardEmergency  Ward = "emergency"
)

// AllWards 顺序固定，种子数据和下拉列表都依赖这个顺序
var AllWards = []Ward{WardMedicine, WardSurgery, WardPediatrics, WardEmergency}

func (w Ward) IsValid() bool {
	switch w {
	case WardMedicine, WardSurgery, WardPediatrics, WardEmergency:
		return true
	}
	return false
}

// DisplayName 病区中文名
func (w Ward) DisplayName() string {
	switch w {
	case WardMedicine:
		return "内科"
	case WardSurgery:
		return "外科"
	case WardPediatrics:
		return "儿科"
	case WardEmergency:
		return "急诊科"
	}
	return string(w)
}

// MaxWardAdmins 每个病区最多的管理员数量
const MaxWardAdmins = 2

// ConstraintStrength 长期约束的强度，hard 表示优化器必须满足
type ConstraintStrength string

const (
	ConstraintStrengthHard ConstraintStrength = "hard"
	ConstraintStrengthSoft ConstraintStrength = "soft"
)

// NurseConstraint 护士的长期排班约束，随护士档案一起维护
// Days 仅在 Type 为 no_specific_days 时使用
type NurseConstraint struct {
	Type     RequestType        `json:"type"`
	Days     []int32            `json:"days,omitempty"`
	Strength ConstraintStrength `json:"strength"`
}

type Nurse struct {
	ID                   int64             `json:"id"`
	Username             string            `json:"username"`
	PasswordHash         string            `json:"-"`
	FullName             string            `json:"fullName"`
	Email                string            `json:"email"`
	Ward                 Ward              `json:"ward"`
	IsAdmin              bool              `json:"isAdmin"`
	IsGovernmentOfficial bool              `json:"isGovernmentOfficial"`
	Constraints          []NurseConstraint `json:"constraints"`
	CreatedAt            time.Time         `json:"createdAt"`
	Version              int32             `json:"-"`
}

// ValidateConstraints 检查长期约束的形状是否合法
func ValidateConstraints(constraints []NurseConstraint) error {
	for _, c := range constraints {
		if !c.Type.IsConstraintType() {
			return ErrMalformedRequest
		}
		if c.Strength != ConstraintStrengthHard && c.Strength != ConstraintStrengthSoft {
			return ErrMalformedRequest
		}
		if c.Type == RequestTypeNoSpecificDays {
			if len(c.Days) == 0 {
				return ErrMalformedRequest
			}
			for _, d := range c.Days {
				if d < 1 || d > 31 {
					return ErrMalformedRequest
				}
			}
		} else if len(c.Days) > 0 {
			return ErrMalformedRequest
		}
	}
	return nil
}
