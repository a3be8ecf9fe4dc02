package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dcrowhurst/telos/internal/db"
	"github.com/dcrowhurst/telos/internal/domain"
)

// SQLiteScheduleItemRepo implements ScheduleItemRepo using a SQLite database.
type SQLiteScheduleItemRepo struct {
	db db.DBTX
}

// NewSQLiteScheduleItemRepo creates a new SQLiteScheduleItemRepo.
func NewSQLiteScheduleItemRepo(dbtx db.DBTX) *SQLiteScheduleItemRepo {
	return &SQLiteScheduleItemRepo{db: dbtx}
}

const itemColumns = `id, activity_id, template_id, name, kind, order_index,
	anchor_type, anchor_ref_id, offset_days, fixed_date, milestone_key,
	override_enabled, override_date, created_at, updated_at`

const qualifiedItemColumns = `si.id, si.activity_id, si.template_id, si.name, si.kind, si.order_index,
	si.anchor_type, si.anchor_ref_id, si.offset_days, si.fixed_date, si.milestone_key,
	si.override_enabled, si.override_date, si.created_at, si.updated_at`

func (r *SQLiteScheduleItemRepo) Create(ctx context.Context, it *domain.ScheduleItem) error {
	query := `INSERT INTO schedule_items (` + itemColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		it.ID,
		it.ActivityID,
		it.TemplateID,
		it.Name,
		string(it.Kind),
		it.OrderIndex,
		string(it.AnchorType),
		it.AnchorRefID,
		it.OffsetDays,
		nullableTimeToString(it.FixedDate, dateLayout),
		it.MilestoneKey,
		boolToInt(it.OverrideEnabled),
		nullableTimeToString(it.OverrideDate, dateLayout),
		it.CreatedAt.Format(time.RFC3339),
		it.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting schedule item: %w", err)
	}
	return nil
}

func (r *SQLiteScheduleItemRepo) GetByID(ctx context.Context, id string) (*domain.ScheduleItem, error) {
	query := `SELECT ` + itemColumns + ` FROM schedule_items WHERE id = ?`
	return r.scanItem(r.db.QueryRowContext(ctx, query, id))
}

func (r *SQLiteScheduleItemRepo) ListByActivity(ctx context.Context, activityID string) ([]*domain.ScheduleItem, error) {
	query := `SELECT ` + itemColumns + ` FROM schedule_items
		WHERE activity_id = ? ORDER BY order_index, created_at`
	return r.list(ctx, query, activityID)
}

// ListByProject returns every schedule item across all of the project's
// activities, ordered by activity then item position. Anchor resolution
// works on this full set.
func (r *SQLiteScheduleItemRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.ScheduleItem, error) {
	query := `SELECT ` + qualifiedItemColumns + ` FROM schedule_items si
		JOIN activities a ON a.id = si.activity_id
		WHERE a.project_id = ?
		ORDER BY a.order_index, si.order_index, si.created_at`
	return r.list(ctx, query, projectID)
}

func (r *SQLiteScheduleItemRepo) Update(ctx context.Context, it *domain.ScheduleItem) error {
	query := `UPDATE schedule_items SET activity_id = ?, name = ?, kind = ?, order_index = ?,
		anchor_type = ?, anchor_ref_id = ?, offset_days = ?, fixed_date = ?, milestone_key = ?,
		override_enabled = ?, override_date = ?, updated_at = ?
		WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		it.ActivityID,
		it.Name,
		string(it.Kind),
		it.OrderIndex,
		string(it.AnchorType),
		it.AnchorRefID,
		it.OffsetDays,
		nullableTimeToString(it.FixedDate, dateLayout),
		it.MilestoneKey,
		boolToInt(it.OverrideEnabled),
		nullableTimeToString(it.OverrideDate, dateLayout),
		it.UpdatedAt.Format(time.RFC3339),
		it.ID,
	)
	if err != nil {
		return fmt.Errorf("updating schedule item: %w", err)
	}
	return nil
}

func (r *SQLiteScheduleItemRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM schedule_items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting schedule item: %w", err)
	}
	return nil
}

func (r *SQLiteScheduleItemRepo) list(ctx context.Context, query string, args ...any) ([]*domain.ScheduleItem, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing schedule items: %w", err)
	}
	defer rows.Close()

	var items []*domain.ScheduleItem
	for rows.Next() {
		it, err := r.scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating schedule items: %w", err)
	}
	return items, nil
}

func (r *SQLiteScheduleItemRepo) scanItem(row scanner) (*domain.ScheduleItem, error) {
	var it domain.ScheduleItem
	var kindStr, anchorTypeStr, createdAtStr, updatedAtStr string
	var fixedDateStr, overrideDateStr sql.NullString
	var overrideEnabled int

	err := row.Scan(
		&it.ID, &it.ActivityID, &it.TemplateID, &it.Name,
		&kindStr, &it.OrderIndex,
		&anchorTypeStr, &it.AnchorRefID, &it.OffsetDays,
		&fixedDateStr, &it.MilestoneKey,
		&overrideEnabled, &overrideDateStr,
		&createdAtStr, &updatedAtStr,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("schedule item not found")
		}
		return nil, fmt.Errorf("scanning schedule item: %w", err)
	}

	it.Kind = domain.ItemKind(kindStr)
	it.AnchorType = domain.AnchorType(anchorTypeStr)
	it.FixedDate = parseNullableTime(fixedDateStr, dateLayout)
	it.OverrideDate = parseNullableTime(overrideDateStr, dateLayout)
	it.OverrideEnabled = intToBool(overrideEnabled)

	var parseErr error
	it.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	it.UpdatedAt, parseErr = time.Parse(time.RFC3339, updatedAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", parseErr)
	}

	return &it, nil
}
