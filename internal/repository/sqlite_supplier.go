package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dcrowhurst/telos/internal/db"
	"github.com/dcrowhurst/telos/internal/domain"
)

// SQLiteSupplierRepo implements SupplierRepo using a SQLite database.
type SQLiteSupplierRepo struct {
	db db.DBTX
}

// NewSQLiteSupplierRepo creates a new SQLiteSupplierRepo.
func NewSQLiteSupplierRepo(dbtx db.DBTX) *SQLiteSupplierRepo {
	return &SQLiteSupplierRepo{db: dbtx}
}

const supplierColumns = `id, code, name, rank, part_ranks, created_at, updated_at`

func (r *SQLiteSupplierRepo) Create(ctx context.Context, s *domain.Supplier) error {
	query := `INSERT INTO suppliers (` + supplierColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		s.ID,
		s.Code,
		s.Name,
		s.Rank,
		joinRanks(s.PartRanks),
		s.CreatedAt.Format(time.RFC3339),
		s.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting supplier: %w", err)
	}
	return nil
}

func (r *SQLiteSupplierRepo) GetByID(ctx context.Context, id string) (*domain.Supplier, error) {
	query := `SELECT ` + supplierColumns + ` FROM suppliers WHERE id = ?`
	return r.scanSupplier(r.db.QueryRowContext(ctx, query, id))
}

func (r *SQLiteSupplierRepo) GetByCode(ctx context.Context, code string) (*domain.Supplier, error) {
	query := `SELECT ` + supplierColumns + ` FROM suppliers WHERE UPPER(code) = UPPER(?)`
	return r.scanSupplier(r.db.QueryRowContext(ctx, query, code))
}

func (r *SQLiteSupplierRepo) List(ctx context.Context) ([]*domain.Supplier, error) {
	query := `SELECT ` + supplierColumns + ` FROM suppliers ORDER BY code`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing suppliers: %w", err)
	}
	defer rows.Close()

	var suppliers []*domain.Supplier
	for rows.Next() {
		s, err := r.scanSupplier(rows)
		if err != nil {
			return nil, err
		}
		suppliers = append(suppliers, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating suppliers: %w", err)
	}
	return suppliers, nil
}

func (r *SQLiteSupplierRepo) Update(ctx context.Context, s *domain.Supplier) error {
	query := `UPDATE suppliers SET code = ?, name = ?, rank = ?, part_ranks = ?, updated_at = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		s.Code,
		s.Name,
		s.Rank,
		joinRanks(s.PartRanks),
		s.UpdatedAt.Format(time.RFC3339),
		s.ID,
	)
	if err != nil {
		return fmt.Errorf("updating supplier: %w", err)
	}
	return nil
}

func (r *SQLiteSupplierRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM suppliers WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting supplier: %w", err)
	}
	return nil
}

func (r *SQLiteSupplierRepo) scanSupplier(row scanner) (*domain.Supplier, error) {
	var s domain.Supplier
	var partRanks, createdAtStr, updatedAtStr string

	err := row.Scan(&s.ID, &s.Code, &s.Name, &s.Rank, &partRanks, &createdAtStr, &updatedAtStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("supplier not found")
		}
		return nil, fmt.Errorf("scanning supplier: %w", err)
	}

	s.PartRanks = splitRanks(partRanks)

	var parseErr error
	s.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	s.UpdatedAt, parseErr = time.Parse(time.RFC3339, updatedAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", parseErr)
	}

	return &s, nil
}

// SQLiteAssignmentRepo implements AssignmentRepo using a SQLite database.
type SQLiteAssignmentRepo struct {
	db db.DBTX
}

// NewSQLiteAssignmentRepo creates a new SQLiteAssignmentRepo.
func NewSQLiteAssignmentRepo(dbtx db.DBTX) *SQLiteAssignmentRepo {
	return &SQLiteAssignmentRepo{db: dbtx}
}

func (r *SQLiteAssignmentRepo) Create(ctx context.Context, a *domain.Assignment) error {
	query := `INSERT INTO assignments (id, project_id, supplier_id, created_at) VALUES (?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		a.ID,
		a.ProjectID,
		a.SupplierID,
		a.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting assignment: %w", err)
	}
	return nil
}

func (r *SQLiteAssignmentRepo) Get(ctx context.Context, projectID, supplierID string) (*domain.Assignment, error) {
	query := `SELECT id, project_id, supplier_id, created_at FROM assignments
		WHERE project_id = ? AND supplier_id = ?`
	return r.scanAssignment(r.db.QueryRowContext(ctx, query, projectID, supplierID))
}

func (r *SQLiteAssignmentRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.Assignment, error) {
	query := `SELECT id, project_id, supplier_id, created_at FROM assignments
		WHERE project_id = ? ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing assignments: %w", err)
	}
	defer rows.Close()

	var assignments []*domain.Assignment
	for rows.Next() {
		a, err := r.scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		assignments = append(assignments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating assignments: %w", err)
	}
	return assignments, nil
}

func (r *SQLiteAssignmentRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM assignments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting assignment: %w", err)
	}
	return nil
}

func (r *SQLiteAssignmentRepo) scanAssignment(row scanner) (*domain.Assignment, error) {
	var a domain.Assignment
	var createdAtStr string

	err := row.Scan(&a.ID, &a.ProjectID, &a.SupplierID, &createdAtStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("assignment not found")
		}
		return nil, fmt.Errorf("scanning assignment: %w", err)
	}

	var parseErr error
	a.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	return &a, nil
}
