package domain

import "time"

type HardRequestStatus string

const (
	HardRequestStatusPending  HardRequestStatus = "pending"
	HardRequestStatusApproved HardRequestStatus = "approved"
	HardRequestStatusRejected HardRequestStatus = "rejected"
)

// MaxHardRequestsPerYear 每人每个自然年的硬性请求上限，按请求日期所在年份计算
const MaxHardRequestsPerYear = 5

// HardRequest 指定某一天必须休息的请求，批准后优化器必须排休
type HardRequest struct {
	ID              int64             `json:"id"`
	NurseID         int64             `json:"nurseId"`
	NurseName       string            `json:"nurseName,omitempty"`
	Ward            Ward              `json:"ward"`
	Date            time.Time         `json:"date"`
	Reason          string            `json:"reason"`
	Status          HardRequestStatus `json:"status"`
	ReviewerID      *int64            `json:"reviewerId,omitempty"`
	RejectionReason string            `json:"rejectionReason,omitempty"`
	CreatedAt       time.Time         `json:"createdAt"`
	ReviewedAt      *time.Time        `json:"reviewedAt,omitempty"`
	Version         int32             `json:"-"`
}

// ApprovedHardRequest 批准记录，排班生成时按月取出交给优化器
// HardRequestID 上有唯一约束，保证一次批准只产生一条记录
type ApprovedHardRequest struct {
	ID            int64     `json:"id"`
	HardRequestID int64     `json:"hardRequestId"`
	NurseID       int64     `json:"nurseId"`
	Date          time.Time `json:"date"`
	CreatedAt     time.Time `json:"createdAt"`
}

// PartitionHardRequestsByYear 按请求日期把列表分成今年及以后与往年两组
// 配额按年计算，分组展示可以看出本年度的用量
func PartitionHardRequestsByYear(requests []*HardRequest, year int) (current, past []*HardRequest) {
	current = make([]*HardRequest, 0, len(requests))
	past = make([]*HardRequest, 0)
	for _, request := range requests {
		if request.Date.Year() >= year {
			current = append(current, request)
		} else {
			past = append(past, request)
		}
	}
	return current, past
}

// ValidateHardRequestDate 请求日期必须严格晚于今天
func ValidateHardRequestDate(date time.Time, now time.Time) error {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	d := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, now.Location())
	if !d.After(today) {
		return ErrLeadTimeViolation
	}
	return nil
}
