//go:build integration

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/ward-shift-dev/nurse-shift-manager/backend/internal/config"
	"github.com/ward-shift-dev/nurse-shift-manager/backend/internal/domain"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()

	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	require.NoError(t, err)
	t.Cleanup(func() { dbpool.Close() })

	require.NoError(t, dbpool.Ping())

	return NewRepository(cfg, dbpool)
}

func createTestNurse(t *testing.T, repo *Repository) *domain.Nurse {
	t.Helper()

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
	return nurse
}

// 名额计数都在事务里验证，最后整体回滚，不污染计数表
func TestWardAdminCountCap(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	tx, err := repo.dbpool.BeginTx(ctx, nil)
	require.NoError(t, err)
	defer tx.Rollback()

	ward := domain.WardPediatrics

	current := 0
	err = tx.QueryRowContext(ctx, `SELECT admin_count FROM ward_admin_counts WHERE ward = $1`, ward).Scan(&current)
	if err != nil {
		require.ErrorIs(t, err, sql.ErrNoRows)
	}

	// 把剩余名额占满
	for i := current; i < domain.MaxWardAdmins; i++ {
		require.NoError(t, incrementWardAdminCount(ctx, tx, ward))
	}

	err = incrementWardAdminCount(ctx, tx, ward)
	var quotaErr *domain.QuotaError
	require.ErrorAs(t, err, &quotaErr)
	require.Equal(t, domain.MaxWardAdmins, quotaErr.Current)
	require.Equal(t, domain.MaxWardAdmins, quotaErr.Limit)

	// 释放一个名额后可以再次占用
	require.NoError(t, decrementWardAdminCount(ctx, tx, ward))
	require.NoError(t, incrementWardAdminCount(ctx, tx, ward))
}

func TestHardRequestQuotaCap(t *testing.T) {
	repo := newTestRepository(t)
	nurse := createTestNurse(t, repo)
	ctx := context.Background()

	tx, err := repo.dbpool.BeginTx(ctx, nil)
	require.NoError(t, err)
	defer tx.Rollback()

	year := 2099
	for i := 0; i < domain.MaxHardRequestsPerYear; i++ {
		require.NoError(t, incrementHardRequestQuota(ctx, tx, nurse.ID, year))
	}

	err = incrementHardRequestQuota(ctx, tx, nurse.ID, year)
	var quotaErr *domain.QuotaError
	require.ErrorAs(t, err, &quotaErr)
	require.Equal(t, domain.MaxHardRequestsPerYear, quotaErr.Current)

	// 驳回归还配额后可以再次提交
	require.NoError(t, decrementHardRequestQuota(ctx, tx, nurse.ID, year))
	require.NoError(t, incrementHardRequestQuota(ctx, tx, nurse.ID, year))
}

func TestCreateHardRequestRespectsAnnualQuota(t *testing.T) {
	repo := newTestRepository(t)
	nurse := createTestNurse(t, repo)

	day := func(d int) time.Time {
		return time.Date(2099, 1, d, 0, 0, 0, 0, time.Local)
	}

	requests := make([]*domain.HardRequest, 0, domain.MaxHardRequestsPerYear)
	for i := 0; i < domain.MaxHardRequestsPerYear; i++ {
		request := &domain.HardRequest{
			NurseID: nurse.ID,
			Ward:    nurse.Ward,
			Date:    day(i + 1),
			Reason:  "集成测试",
		}
		require.NoError(t, repo.CreateHardRequest(request))
		requests = append(requests, request)
	}

	over := &domain.HardRequest{NurseID: nurse.ID, Ward: nurse.Ward, Date: day(10), Reason: "集成测试"}
	err := repo.CreateHardRequest(over)
	var quotaErr *domain.QuotaError
	require.ErrorAs(t, err, &quotaErr)

	// 驳回一条后配额归还，可以再次提交
	_, err = repo.RejectHardRequest(requests[0].ID, nurse.ID, "集成测试驳回")
	require.NoError(t, err)
	require.NoError(t, repo.CreateHardRequest(over))
}

func TestApproveHardRequestExactlyOnce(t *testing.T) {
	repo := newTestRepository(t)
	nurse := createTestNurse(t, repo)

	request := &domain.HardRequest{
		NurseID: nurse.ID,
		Ward:    nurse.Ward,
		Date:    time.Date(2098, 6, 15, 0, 0, 0, 0, time.Local),
		Reason:  "集成测试",
	}
	require.NoError(t, repo.CreateHardRequest(request))

	approved, err := repo.ApproveHardRequest(request.ID, nurse.ID)
	require.NoError(t, err)
	require.Equal(t, domain.HardRequestStatusApproved, approved.Status)

	// 重复批准只会落空，不会产生第二条批准记录
	_, err = repo.ApproveHardRequest(request.ID, nurse.ID)
	require.ErrorIs(t, err, domain.ErrRequestAlreadyHandled)

	dateStr := request.Date.Format("2006-01-02")
	dates, err := repo.GetApprovedDatesByWardAndRange(nurse.Ward, dateStr, dateStr)
	require.NoError(t, err)
	require.Len(t, dates[nurse.ID], 1)
}
