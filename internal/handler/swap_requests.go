package handler

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/ward-shift-dev/nurse-shift-manager/backend/internal/domain"
)

// shiftsOnDate 从已确认的排班里取出某位护士某天的班次快照
func (h *Handler) shiftsOnDate(ward domain.Ward, nurseID int64, date string) ([]domain.ShiftCode, error) {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, domain.ErrMalformedRequest
	}

	schedule, err := h.repository.GetSchedule(ward, day.Year(), int(day.Month()))
	if err != nil {
		return nil, err
	}

	shifts := schedule.NurseSchedules[nurseID].Shifts[date]
	if shifts == nil {
		shifts = []domain.ShiftCode{}
	}
	return shifts, nil
}

func (h *Handler) ProposeSwapRequest(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TargetID      int64  `json:"targetId" validate:"required"`
		RequesterDate string `json:"requesterDate" validate:"required"`
		TargetDate    string `json:"targetDate" validate:"required"`
		Message       string `json:"message"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	myInfo := r.Context().Value(MyInfoCtx).(*domain.Nurse)

	if req.TargetID == myInfo.ID {
		h.errorResponse(w, r, domain.ErrSelfSwap.Error())
		return
	}

	target, err := h.repository.GetNurseByID(req.TargetID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "目标护士不存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if target.Ward != myInfo.Ward {
		h.errorResponse(w, r, "只能和同病区的护士换班")
		return
	}

	// 发起时把双方当天的班次快照下来，后续排班变动不会回写到这里
	requesterShifts, err := h.shiftsOnDate(myInfo.Ward, myInfo.ID, req.RequesterDate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			h.errorResponse(w, r, "该日期所在月份还没有排班")
			return
		}
		h.domainErrorResponse(w, r, err)
		return
	}
	targetShifts, err := h.shiftsOnDate(myInfo.Ward, target.ID, req.TargetDate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			h.errorResponse(w, r, "该日期所在月份还没有排班")
			return
		}
		h.domainErrorResponse(w, r, err)
		return
	}

	if err := domain.ValidateSwapProposal(myInfo.ID, target.ID, requesterShifts, targetShifts); err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	request := &domain.SwapRequest{
		RequesterID:     myInfo.ID,
		RequesterName:   myInfo.FullName,
		TargetID:        target.ID,
		TargetName:      target.FullName,
		Ward:            myInfo.Ward,
		RequesterDate:   req.RequesterDate,
		RequesterShifts: requesterShifts,
		TargetDate:      req.TargetDate,
		TargetShifts:    targetShifts,
		Message:         req.Message,
	}

	if err := h.repository.CreateSwapRequest(request); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// 请求已经落库，通知发送失败只记录日志
	if err := h.publishNotification(domain.NotificationMessage{
		Type: domain.NotificationTypeSwapRequestIncoming,
		To:   target.Email,
		Data: domain.SwapRequestIncomingData{
			RequesterName: myInfo.FullName,
			TargetName:    target.FullName,
			RequesterDate: req.RequesterDate,
			TargetDate:    req.TargetDate,
		},
	}); err != nil {
		slog.Error("无法发送换班请求通知", "requestId", request.ID, "error", err)
	}

	h.successResponse(w, r, "换班请求已发出，等待对方接受", request)
}

func (h *Handler) GetMySwapRequests(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Nurse)

	requests, err := h.repository.GetSwapRequestsByRequester(myInfo.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取换班请求列表成功", requests)
}

func (h *Handler) GetIncomingSwapRequests(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Nurse)

	requests, err := h.repository.GetPendingSwapRequestsByTarget(myInfo.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取待接受的换班请求成功", requests)
}

func (h *Handler) GetSwapRequestsAwaitingApproval(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Nurse)

	requests, err := h.repository.GetAcceptedSwapRequestsByWard(myInfo.Ward)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取待批准的换班请求成功", requests)
}

func (h *Handler) AcceptSwapRequest(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Nurse)
	request := r.Context().Value(SwapRequestCtx).(*domain.SwapRequest)

	// 只有被请求的一方可以接受
	if request.TargetID != myInfo.ID {
		h.errorResponse(w, r, domain.ErrForbidden.Error())
		return
	}

	if err := h.repository.AcceptSwapRequest(request); err != nil {
		h.domainErrorResponse(w, r, err)
		return
	}

	h.successResponse(w, r, "已接受换班请求，等待管理员批准", request)
}

// RejectSwapRequest 被请求方和本病区管理员都可以驳回
func (h *Handler) RejectSwapRequest(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Reason string `json:"reason"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	myInfo := r.Context().Value(MyInfoCtx).(*domain.Nurse)
	request := r.Context().Value(SwapRequestCtx).(*domain.SwapRequest)

	var reviewerID *int64
	switch {
	case request.TargetID == myInfo.ID:
		// 对方本人驳回，不记录审批人
	case myInfo.IsAdmin && request.Ward == myInfo.Ward:
		reviewerID = &myInfo.ID
	default:
		h.errorResponse(w, r, domain.ErrForbidden.Error())
		return
	}

	if err := h.repository.RejectSwapRequest(request, reviewerID, req.Reason); err != nil {
		h.domainErrorResponse(w, r, err)
		return
	}

	h.notifySwapRequestDecided(w, r, request, "已驳回该换班请求")
}

func (h *Handler) ApproveSwapRequest(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Nurse)
	request := r.Context().Value(SwapRequestCtx).(*domain.SwapRequest)

	if request.Ward != myInfo.Ward {
		h.errorResponse(w, r, domain.ErrForbidden.Error())
		return
	}

	if err := h.repository.ApproveSwapRequest(request, myInfo.ID); err != nil {
		h.domainErrorResponse(w, r, err)
		return
	}

	// 实际的班次交换由管理员在排班上另行处理
	h.notifySwapRequestDecided(w, r, request, "已批准该换班请求")
}

// notifySwapRequestDecided 决定已经落库，通知发送失败只记录日志，不影响返回结果
func (h *Handler) notifySwapRequestDecided(w http.ResponseWriter, r *http.Request, request *domain.SwapRequest, msg string) {
	data := domain.SwapRequestDecidedData{
		RequesterName: request.RequesterName,
		TargetName:    request.TargetName,
		Approved:      request.Status == domain.SwapRequestStatusApproved,
		Reason:        request.RejectionReason,
	}

	for _, nurseID := range []int64{request.RequesterID, request.TargetID} {
		nurse, err := h.repository.GetNurseByID(nurseID)
		if err != nil {
			slog.Error("无法发送换班结果通知", "requestId", request.ID, "nurseId", nurseID, "error", err)
			continue
		}
		if err := h.publishNotification(domain.NotificationMessage{
			Type: domain.NotificationTypeSwapRequestDecided,
			To:   nurse.Email,
			Data: data,
		}); err != nil {
			slog.Error("无法发送换班结果通知", "requestId", request.ID, "nurseId", nurseID, "error", err)
		}
	}

	h.successResponse(w, r, msg, request)
}
