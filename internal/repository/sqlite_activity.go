package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dcrowhurst/telos/internal/db"
	"github.com/dcrowhurst/telos/internal/domain"
)

// SQLiteActivityRepo implements ActivityRepo using a SQLite database.
type SQLiteActivityRepo struct {
	db db.DBTX
}

// NewSQLiteActivityRepo creates a new SQLiteActivityRepo.
func NewSQLiteActivityRepo(dbtx db.DBTX) *SQLiteActivityRepo {
	return &SQLiteActivityRepo{db: dbtx}
}

const activityColumns = `id, project_id, template_id, name, rule_id, order_index, created_at, updated_at`

func (r *SQLiteActivityRepo) Create(ctx context.Context, a *domain.Activity) error {
	query := `INSERT INTO activities (` + activityColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		a.ID,
		a.ProjectID,
		a.TemplateID,
		a.Name,
		nullableString(a.RuleID),
		a.OrderIndex,
		a.CreatedAt.Format(time.RFC3339),
		a.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting activity: %w", err)
	}
	return nil
}

func (r *SQLiteActivityRepo) GetByID(ctx context.Context, id string) (*domain.Activity, error) {
	query := `SELECT ` + activityColumns + ` FROM activities WHERE id = ?`
	return r.scanActivity(r.db.QueryRowContext(ctx, query, id))
}

func (r *SQLiteActivityRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.Activity, error) {
	query := `SELECT ` + activityColumns + ` FROM activities
		WHERE project_id = ? ORDER BY order_index, created_at`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing activities: %w", err)
	}
	defer rows.Close()

	var activities []*domain.Activity
	for rows.Next() {
		a, err := r.scanActivity(rows)
		if err != nil {
			return nil, err
		}
		activities = append(activities, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating activities: %w", err)
	}
	return activities, nil
}

func (r *SQLiteActivityRepo) Update(ctx context.Context, a *domain.Activity) error {
	query := `UPDATE activities SET name = ?, rule_id = ?, order_index = ?, updated_at = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		a.Name,
		nullableString(a.RuleID),
		a.OrderIndex,
		a.UpdatedAt.Format(time.RFC3339),
		a.ID,
	)
	if err != nil {
		return fmt.Errorf("updating activity: %w", err)
	}
	return nil
}

func (r *SQLiteActivityRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM activities WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting activity: %w", err)
	}
	return nil
}

func (r *SQLiteActivityRepo) scanActivity(row scanner) (*domain.Activity, error) {
	var a domain.Activity
	var ruleID sql.NullString
	var createdAtStr, updatedAtStr string

	err := row.Scan(
		&a.ID, &a.ProjectID, &a.TemplateID, &a.Name,
		&ruleID, &a.OrderIndex,
		&createdAtStr, &updatedAtStr,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("activity not found")
		}
		return nil, fmt.Errorf("scanning activity: %w", err)
	}

	a.RuleID = ruleID.String

	var parseErr error
	a.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	a.UpdatedAt, parseErr = time.Parse(time.RFC3339, updatedAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", parseErr)
	}

	return &a, nil
}
