package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/ward-shift-dev/nurse-shift-manager/backend/internal/domain"
)

// CreateHardRequest 占用年度配额并插入请求，两步在同一事务内完成
// 配额按请求日期所在年份计算
func (r *Repository) CreateHardRequest(request *domain.HardRequest) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := incrementHardRequestQuota(ctx, tx, request.NurseID, request.Date.Year()); err != nil {
		return err
	}

	query := `
		INSERT INTO hard_requests (nurse_id, ward, date, reason)
		VALUES ($1, $2, $3, $4)
		RETURNING id, status, created_at, version
	`

	args := []any{request.NurseID, request.Ward, request.Date, request.Reason}
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&request.ID, &request.Status, &request.CreatedAt, &request.Version); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetHardRequestByID(id int64) (*domain.HardRequest, error) {
	query := `
		SELECT nurse_id, ward, date, reason, status, reviewer_id, rejection_reason, created_at, reviewed_at, version
		FROM hard_requests WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	request := &domain.HardRequest{
		ID: id,
	}

	var rejectionReason sql.NullString
	dst := []any{&request.NurseID, &request.Ward, &request.Date, &request.Reason, &request.Status, &request.ReviewerID, &rejectionReason, &request.CreatedAt, &request.ReviewedAt, &request.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}
	request.RejectionReason = rejectionReason.String

	return request, nil
}

func (r *Repository) GetHardRequestsByNurse(nurseID int64) ([]*domain.HardRequest, error) {
	query := `
		SELECT id, ward, date, reason, status, reviewer_id, rejection_reason, created_at, reviewed_at, version
		FROM hard_requests
		WHERE nurse_id = $1
		ORDER BY created_at DESC
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, nurseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requests := make([]*domain.HardRequest, 0)
	for rows.Next() {
		request := &domain.HardRequest{
			NurseID: nurseID,
		}
		var rejectionReason sql.NullString
		dst := []any{&request.ID, &request.Ward, &request.Date, &request.Reason, &request.Status, &request.ReviewerID, &rejectionReason, &request.CreatedAt, &request.ReviewedAt, &request.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		request.RejectionReason = rejectionReason.String
		requests = append(requests, request)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return requests, nil
}

// GetPendingHardRequestsByWard 管理员审批列表，带上护士姓名方便展示
func (r *Repository) GetPendingHardRequestsByWard(ward domain.Ward) ([]*domain.HardRequest, error) {
	query := `
		SELECT hr.id, hr.nurse_id, n.full_name, hr.date, hr.reason, hr.status, hr.created_at, hr.version
		FROM hard_requests hr
		JOIN nurses n ON hr.nurse_id = n.id
		WHERE hr.ward = $1 AND hr.status = 'pending'
		ORDER BY hr.created_at ASC
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, ward)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requests := make([]*domain.HardRequest, 0)
	for rows.Next() {
		request := &domain.HardRequest{
			Ward: ward,
		}
		dst := []any{&request.ID, &request.NurseID, &request.NurseName, &request.Date, &request.Reason, &request.Status, &request.CreatedAt, &request.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		requests = append(requests, request)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return requests, nil
}

// ApproveHardRequest 带状态前置条件地批准请求，并写入批准记录
// 批准记录以 hard_request_id 作为幂等键，重试不会产生第二条
func (r *Repository) ApproveHardRequest(id int64, reviewerID int64) (*domain.HardRequest, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		UPDATE hard_requests
		SET status = 'approved', reviewer_id = $1, reviewed_at = NOW(), version = version + 1
		WHERE id = $2 AND status = 'pending'
		RETURNING nurse_id, ward, date, reason, status, created_at, reviewed_at, version
	`

	request := &domain.HardRequest{
		ID:         id,
		ReviewerID: &reviewerID,
	}
	dst := []any{&request.NurseID, &request.Ward, &request.Date, &request.Reason, &request.Status, &request.CreatedAt, &request.ReviewedAt, &request.Version}
	if err := tx.QueryRowContext(ctx, query, reviewerID, id).Scan(dst...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRequestAlreadyHandled
		}
		return nil, err
	}

	query = `
		INSERT INTO approved_hard_requests (hard_request_id, nurse_id, date)
		VALUES ($1, $2, $3)
		ON CONFLICT (hard_request_id) DO NOTHING
	`
	if _, err := tx.ExecContext(ctx, query, id, request.NurseID, request.Date); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return request, nil
}

// RejectHardRequest 带状态前置条件地驳回请求，并归还年度配额
func (r *Repository) RejectHardRequest(id int64, reviewerID int64, reason string) (*domain.HardRequest, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		UPDATE hard_requests
		SET status = 'rejected', reviewer_id = $1, rejection_reason = $2, reviewed_at = NOW(), version = version + 1
		WHERE id = $3 AND status = 'pending'
		RETURNING nurse_id, ward, date, reason, status, created_at, reviewed_at, version
	`

	request := &domain.HardRequest{
		ID:              id,
		ReviewerID:      &reviewerID,
		RejectionReason: reason,
	}
	dst := []any{&request.NurseID, &request.Ward, &request.Date, &request.Reason, &request.Status, &request.CreatedAt, &request.ReviewedAt, &request.Version}
	if err := tx.QueryRowContext(ctx, query, reviewerID, reason, id).Scan(dst...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRequestAlreadyHandled
		}
		return nil, err
	}

	if err := decrementHardRequestQuota(ctx, tx, request.NurseID, request.Date.Year()); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return request, nil
}

// GetApprovedDatesByWardAndRange 某病区在日期区间内的所有批准休息日
// 返回护士 id 到日期列表的映射，日期格式 "YYYY-MM-DD"
func (r *Repository) GetApprovedDatesByWardAndRange(ward domain.Ward, startDate, endDate string) (map[int64][]string, error) {
	query := `
		SELECT ahr.nurse_id, ahr.date
		FROM approved_hard_requests ahr
		JOIN nurses n ON ahr.nurse_id = n.id
		WHERE n.ward = $1 AND ahr.date BETWEEN $2 AND $3
		ORDER BY ahr.date
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, ward, startDate, endDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	dates := make(map[int64][]string)
	for rows.Next() {
		var nurseID int64
		var date time.Time
		if err := rows.Scan(&nurseID, &date); err != nil {
			return nil, err
		}
		dates[nurseID] = append(dates[nurseID], date.Format("2006-01-02"))
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return dates, nil
}
