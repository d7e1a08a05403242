package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/ward-shift-dev/nurse-shift-manager/backend/internal/domain"
	"github.com/ward-shift-dev/nurse-shift-manager/backend/internal/optimizer"
)

// scheduleDraft 生成后等待确认的排班草稿，确认前只存在于 redis 中
type scheduleDraft struct {
	Parameters domain.ScheduleParameters `json:"parameters"`
	Result     *optimizer.Response       `json:"result"`
}

func scheduleDraftKey(ward domain.Ward, year, month int) string {
	return fmt.Sprintf("schedule_draft_%s_%d_%d", ward, year, month)
}

func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Nurse)
	period := r.Context().Value(PeriodCtx).(Period)

	schedule, err := h.repository.GetSchedule(myInfo.Ward, period.Year, period.Month)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "该月还没有排班")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "获取排班成功", schedule)
}

// GenerateSchedule 汇总当月的约束调用优化服务，结果作为草稿暂存
// 草稿只有经过确认才会入库，放弃确认的草稿到期自动失效
func (h *Handler) GenerateSchedule(w http.ResponseWriter, r *http.Request) {
	var parameters domain.ScheduleParameters

	if err := h.readJSON(r, &parameters); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(parameters); err != nil {
		h.badRequest(w, r, err)
		return
	}

	myInfo := r.Context().Value(MyInfoCtx).(*domain.Nurse)
	period := r.Context().Value(PeriodCtx).(Period)

	// 汇总素材
	nurses, err := h.repository.GetNursesByWard(myInfo.Ward)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	softRequests, err := h.repository.GetSoftRequestEntriesByWardAndPeriod(myInfo.Ward, period.Year, period.Month)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	startDate, endDate := domain.PeriodRange(period.Year, period.Month)
	approvedOffDates, err := h.repository.GetApprovedDatesByWardAndRange(myInfo.Ward, startDate, endDate)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// 上个周期优化器给出的结转标志原样转发，这里不做重新判定
	carryOverFlags, err := h.repository.GetCarryOverFlags(myInfo.Ward, period.Year, period.Month)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	previousSchedule, err := h.repository.GetPreviousSchedule(myInfo.Ward, period.Year, period.Month)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	request, err := optimizer.BuildRequest(&optimizer.BuildInput{
		Year:             period.Year,
		Month:            period.Month,
		Parameters:       parameters,
		Nurses:           nurses,
		SoftRequests:     softRequests,
		ApprovedOffDates: approvedOffDates,
		CarryOverFlags:   carryOverFlags,
		PreviousSchedule: previousSchedule,
	})
	if err != nil {
		h.domainErrorResponse(w, r, err)
		return
	}

	result, err := h.optimizer.GenerateSchedule(r.Context(), request)
	if err != nil {
		h.domainErrorResponse(w, r, err)
		return
	}

	// 草稿存入 redis，等待管理员检查后确认
	draft := scheduleDraft{
		Parameters: parameters,
		Result:     result,
	}
	draftData, err := json.Marshal(draft)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.Redis.OperationTimeout)*time.Second)
	defer cancel()

	key := scheduleDraftKey(myInfo.Ward, period.Year, period.Month)
	expiration := time.Duration(h.config.Optimizer.DraftExpiration) * time.Second
	if err := h.redisClient.Set(ctx, key, draftData, expiration).Err(); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "排班生成成功，请检查后确认", result)
}

// ConfirmSchedule 把草稿落库并清掉草稿，同一周期重复确认会整体覆盖
func (h *Handler) ConfirmSchedule(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Nurse)
	period := r.Context().Value(PeriodCtx).(Period)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.Redis.OperationTimeout)*time.Second)
	defer cancel()

	key := scheduleDraftKey(myInfo.Ward, period.Year, period.Month)
	draftData, err := h.redisClient.Get(ctx, key).Bytes()
	if err != nil {
		switch {
		case errors.Is(err, redis.Nil):
			h.errorResponse(w, r, "没有待确认的排班草稿或草稿已过期，请重新生成")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	var draft scheduleDraft
	if err := json.Unmarshal(draftData, &draft); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	schedule := draft.Result.ToSchedule(myInfo.Ward, period.Year, period.Month, draft.Parameters, myInfo.ID)
	if err := h.repository.UpsertSchedule(schedule); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if err := h.redisClient.Del(ctx, key).Err(); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "排班已确认", schedule)
}
