package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ward-shift-dev/nurse-shift-manager/backend/internal/domain"
)

func (r *Repository) CreateNurse(nurse *domain.Nurse) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// 先占用管理员名额再插入，超限时整个事务回滚
	if nurse.IsAdmin {
		if err := incrementWardAdminCount(ctx, tx, nurse.Ward); err != nil {
			return err
		}
	}

	constraints, err := json.Marshal(nurse.Constraints)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO nurses (username, password_hash, full_name, email, ward, is_admin, is_government_official, constraints)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, version
	`

	args := []any{nurse.Username, nurse.PasswordHash, nurse.FullName, nurse.Email, nurse.Ward, nurse.IsAdmin, nurse.IsGovernmentOfficial, constraints}
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&nurse.ID, &nurse.CreatedAt, &nurse.Version); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetNurseByID(id int64) (*domain.Nurse, error) {
	query := `
		SELECT username, password_hash, full_name, email, ward, is_admin, is_government_official, constraints, created_at, version
		FROM nurses WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	nurse := &domain.Nurse{
		ID: id,
	}

	var constraints []byte
	dst := []any{&nurse.Username, &nurse.PasswordHash, &nurse.FullName, &nurse.Email, &nurse.Ward, &nurse.IsAdmin, &nurse.IsGovernmentOfficial, &constraints, &nurse.CreatedAt, &nurse.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(constraints, &nurse.Constraints); err != nil {
		return nil, err
	}

	return nurse, nil
}

func (r *Repository) GetNurseByUsername(username string) (*domain.Nurse, error) {
	query := `
		SELECT id, password_hash, full_name, email, ward, is_admin, is_government_official, constraints, created_at, version
		FROM nurses WHERE username = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	nurse := &domain.Nurse{
		Username: username,
	}

	var constraints []byte
	dst := []any{&nurse.ID, &nurse.PasswordHash, &nurse.FullName, &nurse.Email, &nurse.Ward, &nurse.IsAdmin, &nurse.IsGovernmentOfficial, &constraints, &nurse.CreatedAt, &nurse.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, username).Scan(dst...); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(constraints, &nurse.Constraints); err != nil {
		return nil, err
	}

	return nurse, nil
}

func (r *Repository) GetNursesByWard(ward domain.Ward) ([]*domain.Nurse, error) {
	query := `
		SELECT id, username, full_name, email, ward, is_admin, is_government_official, constraints, created_at, version
		FROM nurses WHERE ward = $1
		ORDER BY id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, ward)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	nurses := make([]*domain.Nurse, 0)
	for rows.Next() {
		nurse := &domain.Nurse{}
		var constraints []byte
		dst := []any{&nurse.ID, &nurse.Username, &nurse.FullName, &nurse.Email, &nurse.Ward, &nurse.IsAdmin, &nurse.IsGovernmentOfficial, &constraints, &nurse.CreatedAt, &nurse.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(constraints, &nurse.Constraints); err != nil {
			return nil, err
		}
		nurses = append(nurses, nurse)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return nurses, nil
}

// UpdateNurse 更新护士档案，wasAdmin 是调用方读到的更新前的管理员标志
// 管理员标志发生变化时同步维护病区管理员名额
func (r *Repository) UpdateNurse(nurse *domain.Nurse, wasAdmin bool) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if nurse.IsAdmin && !wasAdmin {
		if err := incrementWardAdminCount(ctx, tx, nurse.Ward); err != nil {
			return err
		}
	}
	if !nurse.IsAdmin && wasAdmin {
		if err := decrementWardAdminCount(ctx, tx, nurse.Ward); err != nil {
			return err
		}
	}

	constraints, err := json.Marshal(nurse.Constraints)
	if err != nil {
		return err
	}

	query := `
		UPDATE nurses
		SET
			password_hash = $1,
			full_name = $2,
			email = $3,
			is_admin = $4,
			is_government_official = $5,
			constraints = $6,
			version = version + 1
		WHERE id = $7 AND version = $8
		RETURNING username, created_at, version
	`

	args := []any{nurse.PasswordHash, nurse.FullName, nurse.Email, nurse.IsAdmin, nurse.IsGovernmentOfficial, constraints, nurse.ID, nurse.Version}
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&nurse.Username, &nurse.CreatedAt, &nurse.Version); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

// TransferNurseWard 把护士转移到新病区，管理员随迁时两边的名额一起调整
func (r *Repository) TransferNurseWard(nurse *domain.Nurse, newWard domain.Ward) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if nurse.IsAdmin {
		if err := incrementWardAdminCount(ctx, tx, newWard); err != nil {
			return err
		}
		if err := decrementWardAdminCount(ctx, tx, nurse.Ward); err != nil {
			return err
		}
	}

	query := `
		UPDATE nurses
		SET ward = $1, version = version + 1
		WHERE id = $2 AND version = $3
		RETURNING version
	`

	if err := tx.QueryRowContext(ctx, query, newWard, nurse.ID, nurse.Version).Scan(&nurse.Version); err != nil {
		return err
	}
	nurse.Ward = newWard

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}
