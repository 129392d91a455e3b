package mysql

import (
	"context"
	"database/sql"

	"pocketsplit/internal/models"
	"pocketsplit/internal/storage"
	"pocketsplit/pkg/utils"
)

func (s *Store) CreateDebt(ctx context.Context, d *models.Debt) error {
	now := Now()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO debts (creditor_id, debtor_id, amount, description, status, type, split_id, due_date, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.CreditorID, d.DebtorID, d.Amount, d.Description, models.DebtStatusPending, d.Type, d.SplitID, d.DueDate, now)
	if err != nil {
		return utils.ErrorHandler(err, "failed to insert debt")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return utils.ErrorHandler(err, "failed to read debt id")
	}
	d.ID = int(id)
	d.Status = models.DebtStatusPending
	d.CreatedAt = sql.NullString{String: now, Valid: true}
	return nil
}

func (s *Store) GetDebt(ctx context.Context, id int) (*models.Debt, error) {
	var d models.Debt
	err := s.db.QueryRowContext(ctx,
		`SELECT id, creditor_id, debtor_id, amount, description, status, type, split_id, due_date, paid_at, payment_method, created_at, updated_at
		 FROM debts WHERE id = ?`, id).
		Scan(&d.ID, &d.CreditorID, &d.DebtorID, &d.Amount, &d.Description, &d.Status, &d.Type,
			&d.SplitID, &d.DueDate, &d.PaidAt, &d.PaymentMethod, &d.CreatedAt, &d.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, utils.ErrorHandler(err, "failed to load debt")
	}
	return &d, nil
}

func (s *Store) ListDebts(ctx context.Context, userID int, filter storage.DebtFilter) ([]models.Debt, error) {
	query := `SELECT id, creditor_id, debtor_id, amount, description, status, type, split_id, due_date, paid_at, payment_method, created_at, updated_at
		FROM debts WHERE `
	var args []any

	switch filter.Direction {
	case "owed":
		query += "creditor_id = ?"
		args = append(args, userID)
	case "owing":
		query += "debtor_id = ?"
		args = append(args, userID)
	default:
		query += "(creditor_id = ? OR debtor_id = ?)"
		args = append(args, userID, userID)
	}
	if filter.Status != "" {
		query += " AND status = ?"
		args = append(args, filter.Status)
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, utils.ErrorHandler(err, "failed to list debts")
	}
	defer rows.Close()

	var debts []models.Debt
	for rows.Next() {
		var d models.Debt
		if err := rows.Scan(&d.ID, &d.CreditorID, &d.DebtorID, &d.Amount, &d.Description, &d.Status, &d.Type,
			&d.SplitID, &d.DueDate, &d.PaidAt, &d.PaymentMethod, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, utils.ErrorHandler(err, "failed to scan debt")
		}
		debts = append(debts, d)
	}
	return debts, rows.Err()
}

func (s *Store) UpdateDebtDetails(ctx context.Context, d *models.Debt) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		"UPDATE debts SET amount = ?, description = ?, due_date = ?, updated_at = ? WHERE id = ? AND status = ?",
		d.Amount, d.Description, d.DueDate, Now(), d.ID, models.DebtStatusPending)
	if err != nil {
		return false, utils.ErrorHandler(err, "failed to update debt")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, utils.ErrorHandler(err, "failed to read rows affected")
	}
	return n > 0, nil
}

// TransitionDebt is the single atomic status move. The WHERE clause on the
// old status makes a lost race show up as zero rows, never a double write.
func (s *Store) TransitionDebt(ctx context.Context, id int, from, to, paidAt, method string) (bool, error) {
	var at, pm any
	if paidAt != "" {
		at = paidAt
	}
	if method != "" {
		pm = method
	}
	res, err := s.db.ExecContext(ctx,
		"UPDATE debts SET status = ?, paid_at = ?, payment_method = ?, updated_at = ? WHERE id = ? AND status = ?",
		to, at, pm, Now(), id, from)
	if err != nil {
		return false, utils.ErrorHandler(err, "failed to transition debt")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, utils.ErrorHandler(err, "failed to read rows affected")
	}
	return n > 0, nil
}

func (s *Store) CascadeDebts(ctx context.Context, splitID int, status, paidAt string) (int, error) {
	var at any
	if paidAt != "" {
		at = paidAt
	}
	res, err := s.db.ExecContext(ctx,
		"UPDATE debts SET status = ?, paid_at = ?, updated_at = ? WHERE split_id = ? AND status = ?",
		status, at, Now(), splitID, models.DebtStatusPending)
	if err != nil {
		return 0, utils.ErrorHandler(err, "failed to cascade debts")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, utils.ErrorHandler(err, "failed to read rows affected")
	}
	return int(n), nil
}
