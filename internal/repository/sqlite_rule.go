package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dcrowhurst/telos/internal/db"
	"github.com/dcrowhurst/telos/internal/domain"
)

// SQLiteRuleRepo implements RuleRepo using a SQLite database.
// Clauses cascade with their rule.
type SQLiteRuleRepo struct {
	db db.DBTX
}

// NewSQLiteRuleRepo creates a new SQLiteRuleRepo.
func NewSQLiteRuleRepo(dbtx db.DBTX) *SQLiteRuleRepo {
	return &SQLiteRuleRepo{db: dbtx}
}

func (r *SQLiteRuleRepo) Create(ctx context.Context, rule *domain.ApplicabilityRule) error {
	query := `INSERT INTO rules (id, name, operator, enabled, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		rule.ID,
		rule.Name,
		string(rule.Operator),
		boolToInt(rule.Enabled),
		rule.CreatedAt.Format(time.RFC3339),
		rule.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting rule: %w", err)
	}
	return nil
}

func (r *SQLiteRuleRepo) GetByID(ctx context.Context, id string) (*domain.ApplicabilityRule, error) {
	query := `SELECT id, name, operator, enabled, created_at, updated_at FROM rules WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	var rule domain.ApplicabilityRule
	var operatorStr, createdAtStr, updatedAtStr string
	var enabled int

	err := row.Scan(&rule.ID, &rule.Name, &operatorStr, &enabled, &createdAtStr, &updatedAtStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("rule not found")
		}
		return nil, fmt.Errorf("scanning rule: %w", err)
	}

	rule.Operator = domain.RuleOperator(operatorStr)
	rule.Enabled = intToBool(enabled)

	var parseErr error
	rule.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	rule.UpdatedAt, parseErr = time.Parse(time.RFC3339, updatedAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", parseErr)
	}

	return &rule, nil
}

func (r *SQLiteRuleRepo) Update(ctx context.Context, rule *domain.ApplicabilityRule) error {
	query := `UPDATE rules SET name = ?, operator = ?, enabled = ?, updated_at = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		rule.Name,
		string(rule.Operator),
		boolToInt(rule.Enabled),
		rule.UpdatedAt.Format(time.RFC3339),
		rule.ID,
	)
	if err != nil {
		return fmt.Errorf("updating rule: %w", err)
	}
	return nil
}

func (r *SQLiteRuleRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM rules WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting rule: %w", err)
	}
	return nil
}

func (r *SQLiteRuleRepo) CreateClause(ctx context.Context, c *domain.ApplicabilityClause) error {
	query := `INSERT INTO rule_clauses (id, rule_id, order_index, subject, comparator, value)
		VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		c.ID,
		c.RuleID,
		c.OrderIndex,
		string(c.Subject),
		string(c.Comparator),
		c.Value,
	)
	if err != nil {
		return fmt.Errorf("inserting rule clause: %w", err)
	}
	return nil
}

func (r *SQLiteRuleRepo) ListClauses(ctx context.Context, ruleID string) ([]domain.ApplicabilityClause, error) {
	query := `SELECT id, rule_id, order_index, subject, comparator, value
		FROM rule_clauses WHERE rule_id = ? ORDER BY order_index, id`
	rows, err := r.db.QueryContext(ctx, query, ruleID)
	if err != nil {
		return nil, fmt.Errorf("listing rule clauses: %w", err)
	}
	defer rows.Close()

	var clauses []domain.ApplicabilityClause
	for rows.Next() {
		var c domain.ApplicabilityClause
		var subjectStr, comparatorStr string
		if err := rows.Scan(&c.ID, &c.RuleID, &c.OrderIndex, &subjectStr, &comparatorStr, &c.Value); err != nil {
			return nil, fmt.Errorf("scanning rule clause: %w", err)
		}
		c.Subject = domain.ClauseSubject(subjectStr)
		c.Comparator = domain.Comparator(comparatorStr)
		clauses = append(clauses, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rule clauses: %w", err)
	}
	return clauses, nil
}
