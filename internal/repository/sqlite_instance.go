package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dcrowhurst/telos/internal/db"
	"github.com/dcrowhurst/telos/internal/domain"
)

// SQLiteInstanceRepo implements InstanceRepo using a SQLite database.
type SQLiteInstanceRepo struct {
	db db.DBTX
}

// NewSQLiteInstanceRepo creates a new SQLiteInstanceRepo.
func NewSQLiteInstanceRepo(dbtx db.DBTX) *SQLiteInstanceRepo {
	return &SQLiteInstanceRepo{db: dbtx}
}

const instanceColumns = `id, assignment_id, supplier_id, item_id, status, locked, overridden,
	planned_date, actual_date, created_at, updated_at`

func (r *SQLiteInstanceRepo) Create(ctx context.Context, i *domain.Instance) error {
	query := `INSERT INTO instances (` + instanceColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		i.ID,
		i.AssignmentID,
		i.SupplierID,
		i.ItemID,
		string(i.Status),
		boolToInt(i.Locked),
		boolToInt(i.Overridden),
		nullableTimeToString(i.PlannedDate, dateLayout),
		nullableTimeToString(i.ActualDate, dateLayout),
		i.CreatedAt.Format(time.RFC3339),
		i.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting instance: %w", err)
	}
	return nil
}

func (r *SQLiteInstanceRepo) GetByID(ctx context.Context, id string) (*domain.Instance, error) {
	query := `SELECT ` + instanceColumns + ` FROM instances WHERE id = ?`
	return r.scanInstance(r.db.QueryRowContext(ctx, query, id))
}

func (r *SQLiteInstanceRepo) ListByAssignment(ctx context.Context, assignmentID string) ([]*domain.Instance, error) {
	query := `SELECT ` + instanceColumns + ` FROM instances
		WHERE assignment_id = ? ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, query, assignmentID)
	if err != nil {
		return nil, fmt.Errorf("listing instances: %w", err)
	}
	defer rows.Close()

	var instances []*domain.Instance
	for rows.Next() {
		i, err := r.scanInstance(rows)
		if err != nil {
			return nil, err
		}
		instances = append(instances, i)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating instances: %w", err)
	}
	return instances, nil
}

// ListByProject joins through assignments so a single query loads every
// supplier's instances for propagation.
func (r *SQLiteInstanceRepo) ListByProject(ctx context.Context, projectID string) ([]InstanceRecord, error) {
	query := `SELECT i.id, i.assignment_id, i.supplier_id, i.item_id, i.status, i.locked, i.overridden,
			i.planned_date, i.actual_date, i.created_at, i.updated_at, s.code
		FROM instances i
		JOIN assignments a ON a.id = i.assignment_id
		JOIN suppliers s ON s.id = i.supplier_id
		WHERE a.project_id = ?
		ORDER BY s.code, i.created_at, i.id`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing project instances: %w", err)
	}
	defer rows.Close()

	var records []InstanceRecord
	for rows.Next() {
		var i domain.Instance
		var statusStr, createdAtStr, updatedAtStr, code string
		var plannedStr, actualStr sql.NullString
		var locked, overridden int

		err := rows.Scan(
			&i.ID, &i.AssignmentID, &i.SupplierID, &i.ItemID,
			&statusStr, &locked, &overridden,
			&plannedStr, &actualStr,
			&createdAtStr, &updatedAtStr,
			&code,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning project instance: %w", err)
		}

		i.Status = domain.InstanceStatus(statusStr)
		i.Locked = intToBool(locked)
		i.Overridden = intToBool(overridden)
		i.PlannedDate = parseNullableTime(plannedStr, dateLayout)
		i.ActualDate = parseNullableTime(actualStr, dateLayout)

		var parseErr error
		i.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr)
		if parseErr != nil {
			return nil, fmt.Errorf("parsing created_at: %w", parseErr)
		}
		i.UpdatedAt, parseErr = time.Parse(time.RFC3339, updatedAtStr)
		if parseErr != nil {
			return nil, fmt.Errorf("parsing updated_at: %w", parseErr)
		}

		records = append(records, InstanceRecord{
			Instance:     i,
			AssignmentID: i.AssignmentID,
			SupplierCode: code,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating project instances: %w", err)
	}
	return records, nil
}

func (r *SQLiteInstanceRepo) Update(ctx context.Context, i *domain.Instance) error {
	query := `UPDATE instances SET status = ?, locked = ?, overridden = ?,
		planned_date = ?, actual_date = ?, updated_at = ?
		WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		string(i.Status),
		boolToInt(i.Locked),
		boolToInt(i.Overridden),
		nullableTimeToString(i.PlannedDate, dateLayout),
		nullableTimeToString(i.ActualDate, dateLayout),
		i.UpdatedAt.Format(time.RFC3339),
		i.ID,
	)
	if err != nil {
		return fmt.Errorf("updating instance: %w", err)
	}
	return nil
}

func (r *SQLiteInstanceRepo) DeleteByItem(ctx context.Context, assignmentID, itemID string) error {
	query := `DELETE FROM instances WHERE assignment_id = ? AND item_id = ?`
	_, err := r.db.ExecContext(ctx, query, assignmentID, itemID)
	if err != nil {
		return fmt.Errorf("deleting instance: %w", err)
	}
	return nil
}

func (r *SQLiteInstanceRepo) scanInstance(row scanner) (*domain.Instance, error) {
	var i domain.Instance
	var statusStr, createdAtStr, updatedAtStr string
	var plannedStr, actualStr sql.NullString
	var locked, overridden int

	err := row.Scan(
		&i.ID, &i.AssignmentID, &i.SupplierID, &i.ItemID,
		&statusStr, &locked, &overridden,
		&plannedStr, &actualStr,
		&createdAtStr, &updatedAtStr,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("instance not found")
		}
		return nil, fmt.Errorf("scanning instance: %w", err)
	}

	i.Status = domain.InstanceStatus(statusStr)
	i.Locked = intToBool(locked)
	i.Overridden = intToBool(overridden)
	i.PlannedDate = parseNullableTime(plannedStr, dateLayout)
	i.ActualDate = parseNullableTime(actualStr, dateLayout)

	var parseErr error
	i.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	i.UpdatedAt, parseErr = time.Parse(time.RFC3339, updatedAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", parseErr)
	}

	return &i, nil
}
