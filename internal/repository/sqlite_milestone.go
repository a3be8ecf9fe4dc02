package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/dcrowhurst/telos/internal/db"
	"github.com/dcrowhurst/telos/internal/domain"
)

// SQLiteMilestoneRepo implements MilestoneRepo using a SQLite database.
type SQLiteMilestoneRepo struct {
	db db.DBTX
}

// NewSQLiteMilestoneRepo creates a new SQLiteMilestoneRepo.
func NewSQLiteMilestoneRepo(dbtx db.DBTX) *SQLiteMilestoneRepo {
	return &SQLiteMilestoneRepo{db: dbtx}
}

func (r *SQLiteMilestoneRepo) Upsert(ctx context.Context, m *domain.ProjectMilestone) error {
	query := `INSERT INTO project_milestones (project_id, key, name, date, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(project_id, key) DO UPDATE SET name = excluded.name, date = excluded.date, updated_at = excluded.updated_at`
	_, err := r.db.ExecContext(ctx, query,
		m.ProjectID,
		m.Key,
		m.Name,
		m.Date.Format(dateLayout),
		m.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upserting milestone: %w", err)
	}
	return nil
}

func (r *SQLiteMilestoneRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.ProjectMilestone, error) {
	query := `SELECT project_id, key, name, date, updated_at
		FROM project_milestones WHERE project_id = ? ORDER BY date, key`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing milestones: %w", err)
	}
	defer rows.Close()

	var milestones []*domain.ProjectMilestone
	for rows.Next() {
		var m domain.ProjectMilestone
		var dateStr, updatedAtStr string
		if err := rows.Scan(&m.ProjectID, &m.Key, &m.Name, &dateStr, &updatedAtStr); err != nil {
			return nil, fmt.Errorf("scanning milestone: %w", err)
		}
		var parseErr error
		m.Date, parseErr = time.Parse(dateLayout, dateStr)
		if parseErr != nil {
			return nil, fmt.Errorf("parsing date: %w", parseErr)
		}
		m.UpdatedAt, parseErr = time.Parse(time.RFC3339, updatedAtStr)
		if parseErr != nil {
			return nil, fmt.Errorf("parsing updated_at: %w", parseErr)
		}
		milestones = append(milestones, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating milestones: %w", err)
	}
	return milestones, nil
}

func (r *SQLiteMilestoneRepo) Delete(ctx context.Context, projectID, key string) error {
	query := `DELETE FROM project_milestones WHERE project_id = ? AND key = ?`
	_, err := r.db.ExecContext(ctx, query, projectID, key)
	if err != nil {
		return fmt.Errorf("deleting milestone: %w", err)
	}
	return nil
}
