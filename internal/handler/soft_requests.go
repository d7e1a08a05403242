package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/ward-shift-dev/nurse-shift-manager/backend/internal/domain"
)

func (h *Handler) GetMySoftRequests(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Nurse)
	period := r.Context().Value(PeriodCtx).(Period)

	set, err := h.repository.GetSoftRequestSet(myInfo.ID, period.Year, period.Month)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.successResponse(w, r, "该月暂无软性请求", nil)
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "获取软性请求成功", set)
}

// ReplaceSoftRequests 整体替换当月的软性请求集合
func (h *Handler) ReplaceSoftRequests(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Entries []domain.SoftRequestEntry `json:"entries"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	period := r.Context().Value(PeriodCtx).(Period)

	if err := domain.ValidateSoftRequestEntries(req.Entries, period.Year, period.Month); err != nil {
		h.domainErrorResponse(w, r, err)
		return
	}

	myInfo := r.Context().Value(MyInfoCtx).(*domain.Nurse)

	entries := req.Entries
	if entries == nil {
		entries = []domain.SoftRequestEntry{}
	}

	set := &domain.SoftRequestSet{
		NurseID: myInfo.ID,
		Ward:    myInfo.Ward,
		Year:    period.Year,
		Month:   period.Month,
		Entries: entries,
	}

	if err := h.repository.ReplaceSoftRequestSet(set); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "软性请求保存成功", set)
}

// RemoveSoftRequestEntry 删除一条软性请求并立即落库
// 版本冲突时重试一次，仍失败则按已处理对待
func (h *Handler) RemoveSoftRequestEntry(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || index < 0 {
		h.errorResponse(w, r, "序号无效")
		return
	}

	myInfo := r.Context().Value(MyInfoCtx).(*domain.Nurse)
	period := r.Context().Value(PeriodCtx).(Period)

	var set *domain.SoftRequestSet
	for attempt := 0; attempt < 2; attempt++ {
		set, err = h.repository.GetSoftRequestSet(myInfo.ID, period.Year, period.Month)
		if err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				h.errorResponse(w, r, "该月没有软性请求")
			default:
				h.internalServerError(w, r, err)
			}
			return
		}

		if index >= len(set.Entries) {
			h.errorResponse(w, r, "序号无效")
			return
		}

		set.Entries = append(set.Entries[:index], set.Entries[index+1:]...)

		err = h.repository.UpdateSoftRequestSetEntries(set)
		if err == nil {
			h.successResponse(w, r, "删除软性请求成功", set)
			return
		}
		if !errors.Is(err, sql.ErrNoRows) {
			h.internalServerError(w, r, err)
			return
		}
	}

	h.errorResponse(w, r, domain.ErrRequestAlreadyHandled.Error())
}
