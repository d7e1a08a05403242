package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/ward-shift-dev/nurse-shift-manager/backend/internal/domain"
)

func (h *Handler) SubmitHardRequest(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date   string `json:"date" validate:"required"`
		Reason string `json:"reason" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	date, err := time.ParseInLocation("2006-01-02", req.Date, time.Local)
	if err != nil {
		h.errorResponse(w, r, "日期格式无效")
		return
	}

	// 必须至少提前一天提交
	if err := domain.ValidateHardRequestDate(date, time.Now()); err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	myInfo := r.Context().Value(MyInfoCtx).(*domain.Nurse)

	request := &domain.HardRequest{
		NurseID: myInfo.ID,
		Ward:    myInfo.Ward,
		Date:    date,
		Reason:  req.Reason,
	}

	if err := h.repository.CreateHardRequest(request); err != nil {
		h.domainErrorResponse(w, r, err)
		return
	}

	h.successResponse(w, r, "硬性请求提交成功", request)
}

func (h *Handler) GetMyHardRequests(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Nurse)

	requests, err := h.repository.GetHardRequestsByNurse(myInfo.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	current, past := domain.PartitionHardRequestsByYear(requests, time.Now().Year())

	h.successResponse(w, r, "获取硬性请求列表成功", struct {
		CurrentYear []*domain.HardRequest `json:"currentYear"`
		Past        []*domain.HardRequest `json:"past"`
	}{current, past})
}

func (h *Handler) GetPendingHardRequests(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Nurse)

	requests, err := h.repository.GetPendingHardRequestsByWard(myInfo.Ward)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取待审批请求成功", requests)
}

func (h *Handler) ApproveHardRequest(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Nurse)
	request := r.Context().Value(HardRequestCtx).(*domain.HardRequest)

	// 管理员只能审批自己病区的请求
	if request.Ward != myInfo.Ward {
		h.errorResponse(w, r, domain.ErrForbidden.Error())
		return
	}

	approved, err := h.repository.ApproveHardRequest(request.ID, myInfo.ID)
	if err != nil {
		h.domainErrorResponse(w, r, err)
		return
	}

	h.notifyHardRequestDecided(w, r, approved)
}

func (h *Handler) RejectHardRequest(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Reason string `json:"reason" validate:"required"`
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
	request := r.Context().Value(HardRequestCtx).(*domain.HardRequest)

	if request.Ward != myInfo.Ward {
		h.errorResponse(w, r, domain.ErrForbidden.Error())
		return
	}

	rejected, err := h.repository.RejectHardRequest(request.ID, myInfo.ID, req.Reason)
	if err != nil {
		h.domainErrorResponse(w, r, err)
		return
	}

	h.notifyHardRequestDecided(w, r, rejected)
}

// notifyHardRequestDecided 审批结果已经落库，通知发送失败只记录日志，不影响返回结果
func (h *Handler) notifyHardRequestDecided(w http.ResponseWriter, r *http.Request, request *domain.HardRequest) {
	nurse, err := h.repository.GetNurseByID(request.NurseID)
	if err != nil {
		slog.Error("无法发送审批结果通知", "requestId", request.ID, "error", err)
	} else if err := h.publishNotification(domain.NotificationMessage{
		Type: domain.NotificationTypeHardRequestDecided,
		To:   nurse.Email,
		Data: domain.HardRequestDecidedData{
			FullName: nurse.FullName,
			Date:     request.Date.Format("2006-01-02"),
			Approved: request.Status == domain.HardRequestStatusApproved,
			Reason:   request.RejectionReason,
		},
	}); err != nil {
		slog.Error("无法发送审批结果通知", "requestId", request.ID, "error", err)
	}

	if request.Status == domain.HardRequestStatusApproved {
		h.successResponse(w, r, "已批准该硬性请求", request)
		return
	}
	h.successResponse(w, r, "已驳回该硬性请求", request)
}
