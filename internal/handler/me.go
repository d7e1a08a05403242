package handler

import (
	"net/http"

	"github.com/ward-shift-dev/nurse-shift-manager/backend/internal/domain"
)

func (h *Handler) GetMyInfo(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Nurse)
	h.successResponse(w, r, "获取个人信息成功", myInfo)
}
