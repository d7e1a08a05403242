package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/ward-shift-dev/nurse-shift-manager/backend/internal/domain"
)

func (r *Repository) CreateSwapRequest(request *domain.SwapRequest) error {
	requesterShifts, err := json.Marshal(request.RequesterShifts)
	if err != nil {
		return err
	}
	targetShifts, err := json.Marshal(request.TargetShifts)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO swap_requests (
			requester_id,
			requester_name,
			target_id,
			target_name,
			ward,
			requester_date,
			requester_shifts,
			target_date,
			target_shifts,
			message
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, status, created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{
		request.RequesterID,
		request.RequesterName,
		request.TargetID,
		request.TargetName,
		request.Ward,
		request.RequesterDate,
		requesterShifts,
		request.TargetDate,
		targetShifts,
		request.Message,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&request.ID, &request.Status, &request.CreatedAt, &request.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetSwapRequestByID(id int64) (*domain.SwapRequest, error) {
	query := `
		SELECT
			requester_id,
			requester_name,
			target_id,
			target_name,
			ward,
			requester_date,
			requester_shifts,
			target_date,
			target_shifts,
			message,
			status,
			reviewer_id,
			rejection_reason,
			created_at,
			accepted_at,
			reviewed_at,
			version
		FROM swap_requests WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	request := &domain.SwapRequest{
		ID: id,
	}

	var requesterShifts, targetShifts []byte
	var rejectionReason sql.NullString
	dst := []any{
		&request.RequesterID,
		&request.RequesterName,
		&request.TargetID,
		&request.TargetName,
		&request.Ward,
		&request.RequesterDate,
		&requesterShifts,
		&request.TargetDate,
		&targetShifts,
		&request.Message,
		&request.Status,
		&request.ReviewerID,
		&rejectionReason,
		&request.CreatedAt,
		&request.AcceptedAt,
		&request.ReviewedAt,
		&request.Version,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}
	request.RejectionReason = rejectionReason.String

	if err := json.Unmarshal(requesterShifts, &request.RequesterShifts); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(targetShifts, &request.TargetShifts); err != nil {
		return nil, err
	}

	return request, nil
}

func (r *Repository) querySwapRequests(query string, args ...any) ([]*domain.SwapRequest, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requests := make([]*domain.SwapRequest, 0)
	for rows.Next() {
		request := &domain.SwapRequest{}
		var requesterShifts, targetShifts []byte
		var rejectionReason sql.NullString
		dst := []any{
			&request.ID,
			&request.RequesterID,
			&request.RequesterName,
			&request.TargetID,
			&request.TargetName,
			&request.Ward,
			&request.RequesterDate,
			&requesterShifts,
			&request.TargetDate,
			&targetShifts,
			&request.Message,
			&request.Status,
			&request.ReviewerID,
			&rejectionReason,
			&request.CreatedAt,
			&request.AcceptedAt,
			&request.ReviewedAt,
			&request.Version,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		request.RejectionReason = rejectionReason.String

		if err := json.Unmarshal(requesterShifts, &request.RequesterShifts); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(targetShifts, &request.TargetShifts); err != nil {
			return nil, err
		}
		requests = append(requests, request)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return requests, nil
}

const swapRequestColumns = `
	id,
	requester_id,
	requester_name,
	target_id,
	target_name,
	ward,
	requester_date,
	requester_shifts,
	target_date,
	target_shifts,
	message,
	status,
	reviewer_id,
	rejection_reason,
	created_at,
	accepted_at,
	reviewed_at,
	version
`

func (r *Repository) GetSwapRequestsByRequester(requesterID int64) ([]*domain.SwapRequest, error) {
	query := `SELECT ` + swapRequestColumns + `
		FROM swap_requests
		WHERE requester_id = $1
		ORDER BY created_at DESC
	`
	return r.querySwapRequests(query, requesterID)
}

// GetPendingSwapRequestsByTarget 等待当前护士接受的换班请求
func (r *Repository) GetPendingSwapRequestsByTarget(targetID int64) ([]*domain.SwapRequest, error) {
	query := `SELECT ` + swapRequestColumns + `
		FROM swap_requests
		WHERE target_id = $1 AND status = 'pending'
		ORDER BY created_at ASC
	`
	return r.querySwapRequests(query, targetID)
}

// GetAcceptedSwapRequestsByWard 双方都同意、等待管理员批准的换班请求
func (r *Repository) GetAcceptedSwapRequestsByWard(ward domain.Ward) ([]*domain.SwapRequest, error) {
	query := `SELECT ` + swapRequestColumns + `
		FROM swap_requests
		WHERE ward = $1 AND status = 'accepted'
		ORDER BY created_at ASC
	`
	return r.querySwapRequests(query, ward)
}

// AcceptSwapRequest 对方接受换班，只有 pending 状态可以接受
func (r *Repository) AcceptSwapRequest(request *domain.SwapRequest) error {
	query := `
		UPDATE swap_requests
		SET status = 'accepted', accepted_at = NOW(), version = version + 1
		WHERE id = $1 AND status = 'pending'
		RETURNING status, accepted_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if err := r.dbpool.QueryRowContext(ctx, query, request.ID).Scan(&request.Status, &request.AcceptedAt, &request.Version); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrRequestAlreadyHandled
		}
		return err
	}

	return nil
}

// ApproveSwapRequest 管理员批准换班，只有 accepted 状态可以批准
func (r *Repository) ApproveSwapRequest(request *domain.SwapRequest, reviewerID int64) error {
	query := `
		UPDATE swap_requests
		SET status = 'approved', reviewer_id = $1, reviewed_at = NOW(), version = version + 1
		WHERE id = $2 AND status = 'accepted'
		RETURNING status, reviewed_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if err := r.dbpool.QueryRowContext(ctx, query, reviewerID, request.ID).Scan(&request.Status, &request.ReviewedAt, &request.Version); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrRequestAlreadyHandled
		}
		return err
	}
	request.ReviewerID = &reviewerID

	return nil
}

// RejectSwapRequest 驳回换班，pending 和 accepted 状态都可以驳回
// reviewerID 为空表示由对方驳回而不是管理员
func (r *Repository) RejectSwapRequest(request *domain.SwapRequest, reviewerID *int64, reason string) error {
	query := `
		UPDATE swap_requests
		SET status = 'rejected', reviewer_id = $1, rejection_reason = $2, reviewed_at = NOW(), version = version + 1
		WHERE id = $3 AND status IN ('pending', 'accepted')
		RETURNING status, reviewed_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if err := r.dbpool.QueryRowContext(ctx, query, reviewerID, reason, request.ID).Scan(&request.Status, &request.ReviewedAt, &request.Version); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrRequestAlreadyHandled
		}
		return err
	}
	request.ReviewerID = reviewerID
	request.RejectionReason = reason

	return nil
}
