//go:build integration

package handler

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/require"
	"github.com/ward-shift-dev/nurse-shift-manager/backend/internal/config"
	"github.com/ward-shift-dev/nurse-shift-manager/backend/internal/domain"
	"github.com/ward-shift-dev/nurse-shift-manager/backend/internal/repository"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// unreachablePublisher 模拟消息队列不可用
type unreachablePublisher struct{}

func (unreachablePublisher) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	return errors.New("connection closed")
}

func newIntegrationHandler(t *testing.T) (*Handler, *repository.Repository) {
	t.Helper()

	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	require.NoError(t, err)
	t.Cleanup(func() { dbpool.Close() })
	require.NoError(t, dbpool.Ping())

	repo := repository.NewRepository(cfg, dbpool)
	h, err := NewHandler(cfg, repo, unreachablePublisher{}, nil, nil)
	require.NoError(t, err)

	return h, repo
}

func TestApproveHardRequestHandler(t *testing.T) {
	h, repo := newIntegrationHandler(t)

	username := fmt.Sprintf("it%d", time.Now().UnixNano())
	nurse := &domain.Nurse{
		Username:     username,
		PasswordHash: "x",
		FullName:     "测试护士",
		Email:        username + "@example.com",
		Ward:         domain.WardMedicine,
		Constraints:  []domain.NurseConstraint{},
	}
	require.NoError(t, repo.CreateNurse(nurse))

	request := &domain.HardRequest{
		NurseID: nurse.ID,
		Ward:    nurse.Ward,
		Date:    time.Date(2097, 3, 10, 0, 0, 0, 0, time.Local),
		Reason:  "集成测试",
	}
	require.NoError(t, repo.CreateHardRequest(request))

	admin := &domain.Nurse{ID: nurse.ID, Ward: nurse.Ward, IsAdmin: true}

	approve := func(req *domain.HardRequest) (Response, int) {
		r := httptest.NewRequest(http.MethodPost, "/", nil)
		ctx := context.WithValue(r.Context(), MyInfoCtx, admin)
		ctx = context.WithValue(ctx, HardRequestCtx, req)

		w := httptest.NewRecorder()
		h.ApproveHardRequest(w, r.WithContext(ctx))
		return decodeResponse(t, w), w.Code
	}

	// 通知队列不可用时审批仍然成功，结果已落库
	resp, code := approve(request)
	require.Equal(t, http.StatusOK, code)
	require.True(t, resp.Success)

	reloaded, err := repo.GetHardRequestByID(request.ID)
	require.NoError(t, err)
	require.Equal(t, domain.HardRequestStatusApproved, reloaded.Status)

	// 重复审批落空
	resp, _ = approve(reloaded)
	require.False(t, resp.Success)
	require.Equal(t, domain.ErrRequestAlreadyHandled.Error(), resp.Message)

	dateStr := request.Date.Format("2006-01-02")
	dates, err := repo.GetApprovedDatesByWardAndRange(nurse.Ward, dateStr, dateStr)
	require.NoError(t, err)
	require.Len(t, dates[nurse.ID], 1)
}
