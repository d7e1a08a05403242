package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ward-shift-dev/nurse-shift-manager/backend/internal/domain"
	"github.com/ward-shift-dev/nurse-shift-manager/backend/internal/utils"
	"golang.org/x/crypto/bcrypt"
)

func (h *Handler) GetWardNurses(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Nurse)

	nurses, err := h.repository.GetNursesByWard(myInfo.Ward)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取护士列表成功", nurses)
}

func (h *Handler) CreateNurse(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username             string                   `json:"username" validate:"required"`
		FullName             string                   `json:"fullName" validate:"required"`
		Email                string                   `json:"email" validate:"required,email"`
		IsAdmin              bool                     `json:"isAdmin"`
		IsGovernmentOfficial bool                     `json:"isGovernmentOfficial"`
		Constraints          []domain.NurseConstraint `json:"constraints"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := domain.ValidateConstraints(req.Constraints); err != nil {
		h.badRequest(w, r, err)
		return
	}

	// 生成随机密码
	password := utils.GenerateRandomPassword(h.config.NewNurse.PasswordLength)

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// 新护士默认进入操作者所在的病区
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Nurse)

	constraints := req.Constraints
	if constraints == nil {
		constraints = []domain.NurseConstraint{}
	}

	nurse := &domain.Nurse{
		Username:             req.Username,
		PasswordHash:         string(hashedPassword),
		FullName:             req.FullName,
		Email:                req.Email,
		Ward:                 myInfo.Ward,
		IsAdmin:              req.IsAdmin,
		IsGovernmentOfficial: req.IsGovernmentOfficial,
		Constraints:          constraints,
	}

	if err := h.repository.CreateNurse(nurse); err != nil {
		var pgErr *pgconn.PgError
		var quotaErr *domain.QuotaError
		switch {
		case errors.As(err, &quotaErr):
			h.errorResponse(w, r, quotaErr.Error())
		case errors.As(err, &pgErr):
			switch {
			case pgErr.ConstraintName == "nurses_username_key":
				h.badRequest(w, r, errors.New("用户名已存在"))
			case pgErr.ConstraintName == "nurses_email_key":
				h.badRequest(w, r, errors.New("邮箱已存在"))
			default:
				h.internalServerError(w, r, err)
			}
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	// 初始密码通过通知队列发给本人
	if err := h.publishNotification(domain.NotificationMessage{
		Type: domain.NotificationTypeAccountCreated,
		To:   nurse.Email,
		Data: domain.AccountCreatedData{
			FullName: req.FullName,
			Username: req.Username,
			Password: password,
		},
	}); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "护士账号创建成功", nurse)
}

func (h *Handler) GetNurseInfo(w http.ResponseWriter, r *http.Request) {
	nurse := r.Context().Value(NurseInfoCtx).(*domain.Nurse)
	h.successResponse(w, r, "获取护士信息成功", nurse)
}

func (h *Handler) UpdateNurse(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FullName             *string                   `json:"fullName"`
		Email                *string                   `json:"email" validate:"omitempty,email"`
		IsAdmin              *bool                     `json:"isAdmin"`
		IsGovernmentOfficial *bool                     `json:"isGovernmentOfficial"`
		Constraints          *[]domain.NurseConstraint `json:"constraints"`
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
	nurse := r.Context().Value(NurseInfoCtx).(*domain.Nurse)

	// 管理员只能管理自己病区的护士
	if nurse.Ward != myInfo.Ward {
		h.errorResponse(w, r, domain.ErrForbidden.Error())
		return
	}

	wasAdmin := nurse.IsAdmin

	if req.FullName != nil {
		nurse.FullName = *req.FullName
	}
	if req.Email != nil {
		nurse.Email = *req.Email
	}
	if req.IsAdmin != nil {
		nurse.IsAdmin = *req.IsAdmin
	}
	if req.IsGovernmentOfficial != nil {
		nurse.IsGovernmentOfficial = *req.IsGovernmentOfficial
	}
	if req.Constraints != nil {
		if err := domain.ValidateConstraints(*req.Constraints); err != nil {
			h.badRequest(w, r, err)
			return
		}
		nurse.Constraints = *req.Constraints
	}

	if err := h.repository.UpdateNurse(nurse, wasAdmin); err != nil {
		var pgErr *pgconn.PgError
		var quotaErr *domain.QuotaError
		switch {
		case errors.As(err, &quotaErr):
			h.errorResponse(w, r, quotaErr.Error())
		case errors.As(err, &pgErr):
			switch {
			case pgErr.ConstraintName == "nurses_email_key":
				h.badRequest(w, r, errors.New("邮箱已存在"))
			default:
				h.internalServerError(w, r, err)
			}
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "更新护士信息失败，请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "更新护士信息成功", nurse)
}

func (h *Handler) TransferNurseWard(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Ward string `json:"ward" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	newWard := domain.Ward(req.Ward)
	if !newWard.IsValid() {
		h.errorResponse(w, r, "病区无效")
		return
	}

	myInfo := r.Context().Value(MyInfoCtx).(*domain.Nurse)
	nurse := r.Context().Value(NurseInfoCtx).(*domain.Nurse)

	if nurse.ID == myInfo.ID {
		h.errorResponse(w, r, domain.ErrSelfTransfer.Error())
		return
	}
	if nurse.Ward != myInfo.Ward {
		h.errorResponse(w, r, domain.ErrForbidden.Error())
		return
	}
	if nurse.Ward == newWard {
		h.errorResponse(w, r, domain.ErrNoOpTransfer.Error())
		return
	}

	if err := h.repository.TransferNurseWard(nurse, newWard); err != nil {
		var quotaErr *domain.QuotaError
		switch {
		case errors.As(err, &quotaErr):
			h.errorResponse(w, r, quotaErr.Error())
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "转移病区失败，请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "转移病区成功", nurse)
}
