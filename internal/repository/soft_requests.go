package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ward-shift-dev/nurse-shift-manager/backend/internal/domain"
)

// ReplaceSoftRequestSet 整体替换某护士某个月的软性请求集合
func (r *Repository) ReplaceSoftRequestSet(set *domain.SoftRequestSet) error {
	entries, err := json.Marshal(set.Entries)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO soft_request_sets (nurse_id, ward, year, month, entries)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (nurse_id, year, month) DO UPDATE
		SET ward = EXCLUDED.ward,
			entries = EXCLUDED.entries,
			updated_at = NOW(),
			version = soft_request_sets.version + 1
		RETURNING id, created_at, updated_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{set.NurseID, set.Ward, set.Year, set.Month, entries}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&set.ID, &set.CreatedAt, &set.UpdatedAt, &set.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetSoftRequestSet(nurseID int64, year, month int) (*domain.SoftRequestSet, error) {
	query := `
		SELECT id, ward, entries, created_at, updated_at, version
		FROM soft_request_sets
		WHERE nurse_id = $1 AND year = $2 AND month = $3
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	set := &domain.SoftRequestSet{
		NurseID: nurseID,
		Year:    year,
		Month:   month,
	}

	var entries []byte
	dst := []any{&set.ID, &set.Ward, &entries, &set.CreatedAt, &set.UpdatedAt, &set.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, nurseID, year, month).Scan(dst...); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(entries, &set.Entries); err != nil {
		return nil, err
	}

	return set, nil
}

// UpdateSoftRequestSetEntries 按版本号条件更新集合内容，竞争失败返回 sql.ErrNoRows
// 删除单条请求走这条路径，保证立刻落库
func (r *Repository) UpdateSoftRequestSetEntries(set *domain.SoftRequestSet) error {
	entries, err := json.Marshal(set.Entries)
	if err != nil {
		return err
	}

	query := `
		UPDATE soft_request_sets
		SET entries = $1, updated_at = NOW(), version = version + 1
		WHERE id = $2 AND version = $3
		RETURNING updated_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if err := r.dbpool.QueryRowContext(ctx, query, entries, set.ID, set.Version).Scan(&set.UpdatedAt, &set.Version); err != nil {
		return err
	}

	return nil
}

// GetSoftRequestEntriesByWardAndPeriod 生成排班时按病区取出整月的软性请求
func (r *Repository) GetSoftRequestEntriesByWardAndPeriod(ward domain.Ward, year, month int) (map[int64][]domain.SoftRequestEntry, error) {
	query := `
		SELECT nurse_id, entries
		FROM soft_request_sets
		WHERE ward = $1 AND year = $2 AND month = $3
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, ward, year, month)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[int64][]domain.SoftRequestEntry)
	for rows.Next() {
		var nurseID int64
		var raw []byte
		if err := rows.Scan(&nurseID, &raw); err != nil {
			return nil, err
		}

		var entries []domain.SoftRequestEntry
		if err := json.Unmarshal(raw, &entries); err != nil {
			return nil, err
		}
		result[nurseID] = entries
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}
