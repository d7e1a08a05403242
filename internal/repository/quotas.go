package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/ward-shift-dev/nurse-shift-manager/backend/internal/domain"
)

// 配额都用独立的计数表维护，增加配额时带条件地原子自增，
// 避免先查数量再写入带来的竞争问题

func incrementWardAdminCount(ctx context.Context, tx *sql.Tx, ward domain.Ward) error {
	query := `
		INSERT INTO ward_admin_counts (ward, admin_count)
		VALUES ($1, 1)
		ON CONFLICT (ward) DO UPDATE
		SET admin_count = ward_admin_counts.admin_count + 1
		WHERE ward_admin_counts.admin_count < $2
		RETURNING admin_count
	`

	var count int
	if err := tx.QueryRowContext(ctx, query, ward, domain.MaxWardAdmins).Scan(&count); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// 条件自增失败，说明已达上限
			current := 0
			if err := tx.QueryRowContext(ctx, `SELECT admin_count FROM ward_admin_counts WHERE ward = $1`, ward).Scan(&current); err != nil && !errors.Is(err, sql.ErrNoRows) {
				return err
			}
			return &domain.QuotaError{Scope: ward.DisplayName() + "管理员", Current: current, Limit: domain.MaxWardAdmins}
		}
		return err
	}

	return nil
}

func decrementWardAdminCount(ctx context.Context, tx *sql.Tx, ward domain.Ward) error {
	query := `
		UPDATE ward_admin_counts
		SET admin_count = admin_count - 1
		WHERE ward = $1 AND admin_count > 0
	`

	if _, err := tx.ExecContext(ctx, query, ward); err != nil {
		return err
	}

	return nil
}

func incrementHardRequestQuota(ctx context.Context, tx *sql.Tx, nurseID int64, year int) error {
	query := `
		INSERT INTO hard_request_quotas (nurse_id, year, used)
		VALUES ($1, $2, 1)
		ON CONFLICT (nurse_id, year) DO UPDATE
		SET used = hard_request_quotas.used + 1
		WHERE hard_request_quotas.used < $3
		RETURNING used
	`

	var used int
	if err := tx.QueryRowContext(ctx, query, nurseID, year, domain.MaxHardRequestsPerYear).Scan(&used); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			current := 0
			if err := tx.QueryRowContext(ctx, `SELECT used FROM hard_request_quotas WHERE nurse_id = $1 AND year = $2`, nurseID, year).Scan(&current); err != nil && !errors.Is(err, sql.ErrNoRows) {
				return err
			}
			return &domain.QuotaError{Scope: "本年度硬性请求", Current: current, Limit: domain.MaxHardRequestsPerYear}
		}
		return err
	}

	return nil
}

func decrementHardRequestQuota(ctx context.Context, tx *sql.Tx, nurseID int64, year int) error {
	query := `
		UPDATE hard_request_quotas
		SET used = used - 1
		WHERE nurse_id = $1 AND year = $2 AND used > 0
	`

	if _, err := tx.ExecContext(ctx, query, nurseID, year); err != nil {
		return err
	}

	return nil
}
