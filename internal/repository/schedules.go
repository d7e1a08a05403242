package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/ward-shift-dev/nurse-shift-manager/backend/internal/domain"
)

func (r *Repository) GetSchedule(ward domain.Ward, year, month int) (*domain.Schedule, error) {
	query := `
		SELECT
			id,
			start_date,
			end_date,
			days,
			nurse_schedules,
			shifts_count,
			fairness_report,
			next_carry_over_flags,
			solver_status,
			penalty_value,
			parameters,
			created_by,
			created_at,
			version
		FROM schedules
		WHERE ward = $1 AND year = $2 AND month = $3
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	schedule := &domain.Schedule{
		Ward:  ward,
		Year:  year,
		Month: month,
	}

	var days, nurseSchedules, shiftsCount, fairnessReport, carryOverFlags, parameters []byte
	dst := []any{
		&schedule.ID,
		&schedule.StartDate,
		&schedule.EndDate,
		&days,
		&nurseSchedules,
		&shiftsCount,
		&fairnessReport,
		&carryOverFlags,
		&schedule.SolverStatus,
		&schedule.PenaltyValue,
		&parameters,
		&schedule.CreatedBy,
		&schedule.CreatedAt,
		&schedule.Version,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, ward, year, month).Scan(dst...); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(days, &schedule.Days); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(nurseSchedules, &schedule.NurseSchedules); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(shiftsCount, &schedule.ShiftsCount); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(fairnessReport, &schedule.FairnessReport); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(carryOverFlags, &schedule.NextCarryOverFlags); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(parameters, &schedule.Parameters); err != nil {
		return nil, err
	}

	return schedule, nil
}

// UpsertSchedule 写入确认后的排班结果，同一周期重复确认会整体覆盖
func (r *Repository) UpsertSchedule(schedule *domain.Schedule) error {
	days, err := json.Marshal(schedule.Days)
	if err != nil {
		return err
	}
	nurseSchedules, err := json.Marshal(schedule.NurseSchedules)
	if err != nil {
		return err
	}
	shiftsCount, err := json.Marshal(schedule.ShiftsCount)
	if err != nil {
		return err
	}
	fairnessReport, err := json.Marshal(schedule.FairnessReport)
	if err != nil {
		return err
	}
	carryOverFlags, err := json.Marshal(schedule.NextCarryOverFlags)
	if err != nil {
		return err
	}
	parameters, err := json.Marshal(schedule.Parameters)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO schedules (
			ward,
			year,
			month,
			start_date,
			end_date,
			days,
			nurse_schedules,
			shifts_count,
			fairness_report,
			next_carry_over_flags,
			solver_status,
			penalty_value,
			parameters,
			created_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (ward, year, month) DO UPDATE
		SET start_date = EXCLUDED.start_date,
			end_date = EXCLUDED.end_date,
			days = EXCLUDED.days,
			nurse_schedules = EXCLUDED.nurse_schedules,
			shifts_count = EXCLUDED.shifts_count,
			fairness_report = EXCLUDED.fairness_report,
			next_carry_over_flags = EXCLUDED.next_carry_over_flags,
			solver_status = EXCLUDED.solver_status,
			penalty_value = EXCLUDED.penalty_value,
			parameters = EXCLUDED.parameters,
			created_by = EXCLUDED.created_by,
			created_at = NOW(),
			version = schedules.version + 1
		RETURNING id, created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{
		schedule.Ward,
		schedule.Year,
		schedule.Month,
		schedule.StartDate,
		schedule.EndDate,
		days,
		nurseSchedules,
		shiftsCount,
		fairnessReport,
		carryOverFlags,
		schedule.SolverStatus,
		schedule.PenaltyValue,
		parameters,
		schedule.CreatedBy,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&schedule.ID, &schedule.CreatedAt, &schedule.Version); err != nil {
		return err
	}

	return nil
}

// GetCarryOverFlags 读取上一个周期排班里优化器给出的结转标志
// 上个周期没有排班时返回空映射，表示没有需要结转的护士
func (r *Repository) GetCarryOverFlags(ward domain.Ward, year, month int) (map[int64]bool, error) {
	prevYear, prevMonth := domain.PreviousPeriod(year, month)

	previous, err := r.GetSchedule(ward, prevYear, prevMonth)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return map[int64]bool{}, nil
		}
		return nil, err
	}

	if previous.NextCarryOverFlags == nil {
		return map[int64]bool{}, nil
	}
	return previous.NextCarryOverFlags, nil
}

// GetPreviousSchedule 上一个周期的排班，用于跨月连续性约束，没有时返回 nil
func (r *Repository) GetPreviousSchedule(ward domain.Ward, year, month int) (*domain.Schedule, error) {
	prevYear, prevMonth := domain.PreviousPeriod(year, month)

	previous, err := r.GetSchedule(ward, prevYear, prevMonth)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return previous, nil
}
