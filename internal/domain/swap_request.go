package domain

import "time"

type SwapRequestStatus string

const (
	SwapRequestStatusPending  SwapRequestStatus = "pending"  // 等待对方接受
	SwapRequestStatusAccepted SwapRequestStatus = "accepted" // 对方已接受，等待管理员批准
	SwapRequestStatusApproved SwapRequestStatus = "approved" // 终态
	SwapRequestStatusRejected SwapRequestStatus = "rejected" // 终态
)

// CanTransitionTo 状态机：pending -> accepted/rejected，accepted -> approved/rejected
func (s SwapRequestStatus) CanTransitionTo(next SwapRequestStatus) bool {
	switch s {
	case SwapRequestStatusPending:
		return next == SwapRequestStatusAccepted || next == SwapRequestStatusRejected
	case SwapRequestStatusAccepted:
		return next == SwapRequestStatusApproved || next == SwapRequestStatusRejected
	}
	return false
}

func (s SwapRequestStatus) IsTerminal() bool {
	return s == SwapRequestStatusApproved || s == SwapRequestStatusRejected
}

// SwapRequest 换班请求，发起时快照双方当天的班次
// 快照之后排班若被重新生成，管理员批准前应自行核对
type SwapRequest struct {
	ID              int64             `json:"id"`
	RequesterID     int64             `json:"requesterId"`
	RequesterName   string            `json:"requesterName"`
	TargetID        int64             `json:"targetId"`
	TargetName      string            `json:"targetName"`
	Ward            Ward              `json:"ward"`
	RequesterDate   string            `json:"requesterDate"`
	RequesterShifts []ShiftCode       `json:"requesterShifts"`
	TargetDate      string            `json:"targetDate"`
	TargetShifts    []ShiftCode       `json:"targetShifts"`
	Message         string            `json:"message"`
	Status          SwapRequestStatus `json:"status"`
	ReviewerID      *int64            `json:"reviewerId,omitempty"`
	RejectionReason string            `json:"rejectionReason,omitempty"`
	CreatedAt       time.Time         `json:"createdAt"`
	AcceptedAt      *time.Time        `json:"acceptedAt,omitempty"`
	ReviewedAt      *time.Time        `json:"reviewedAt,omitempty"`
	Version         int32             `json:"-"`
}

// ValidateSwapProposal 发起换班前的校验
func ValidateSwapProposal(requesterID, targetID int64, requesterShifts, targetShifts []ShiftCode) error {
	if requesterID == targetID {
		return ErrSelfSwap
	}
	if len(requesterShifts) == 0 && len(targetShifts) == 0 {
		return ErrBothIdle
	}
	return nil
}
