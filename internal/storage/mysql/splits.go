package mysql

import (
	"context"
	"database/sql"

	"pocketsplit/internal/models"
	"pocketsplit/internal/storage"
	"pocketsplit/pkg/utils"
)

// CreateSplit writes the event and its shares in one transaction. Shares are
// immutable afterwards, so this is the only multi-record write for splits.
func (s *Store) CreateSplit(ctx context.Context, split *models.SplitEvent, shares []models.SplitShare) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return utils.ErrorHandler(err, "failed to start transaction")
	}

	now := Now()
	res, err := tx.ExecContext(ctx,
		"INSERT INTO split_events (creator_id, payer_id, description, total, mode, status, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		split.CreatorID, split.PayerID, split.Description, split.Total, split.Mode, models.SplitStatusActive, now)
	if err != nil {
		tx.Rollback()
		return utils.ErrorHandler(err, "failed to insert split event")
	}
	id, err := res.LastInsertId()
	if err != nil {
		tx.Rollback()
		return utils.ErrorHandler(err, "failed to read split event id")
	}
	split.ID = int(id)
	split.Status = models.SplitStatusActive
	split.CreatedAt = sql.NullString{String: now, Valid: true}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO split_shares (split_id, user_id, name, email, amount, created_at) VALUES (?, ?, ?, ?, ?, ?)")
	if err != nil {
		tx.Rollback()
		return utils.ErrorHandler(err, "failed to prepare share insert")
	}
	defer stmt.Close()

	for i := range shares {
		shares[i].SplitID = split.ID
		res, err := stmt.ExecContext(ctx, split.ID, shares[i].UserID, shares[i].Name, shares[i].Email, shares[i].Amount, now)
		if err != nil {
			tx.Rollback()
			return utils.ErrorHandler(err, "failed to insert split share")
		}
		if sid, err := res.LastInsertId(); err == nil {
			shares[i].ID = int(sid)
		}
	}

	if err := tx.Commit(); err != nil {
		return utils.ErrorHandler(err, "failed to commit split event")
	}
	return nil
}

func (s *Store) GetSplit(ctx context.Context, id int) (*models.SplitEvent, error) {
	var e models.SplitEvent
	err := s.db.QueryRowContext(ctx,
		"SELECT id, creator_id, payer_id, description, total, mode, status, created_at, settled_at FROM split_events WHERE id = ?", id).
		Scan(&e.ID, &e.CreatorID, &e.PayerID, &e.Description, &e.Total, &e.Mode, &e.Status, &e.CreatedAt, &e.SettledAt)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, utils.ErrorHandler(err, "failed to load split event")
	}
	return &e, nil
}

func (s *Store) GetSplitShares(ctx context.Context, splitID int) ([]models.SplitShare, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, split_id, user_id, name, email, amount, created_at FROM split_shares WHERE split_id = ?", splitID)
	if err != nil {
		return nil, utils.ErrorHandler(err, "failed to load split shares")
	}
	defer rows.Close()

	var shares []models.SplitShare
	for rows.Next() {
		var sh models.SplitShare
		if err := rows.Scan(&sh.ID, &sh.SplitID, &sh.UserID, &sh.Name, &sh.Email, &sh.Amount, &sh.CreatedAt); err != nil {
			return nil, utils.ErrorHandler(err, "failed to scan split share")
		}
		shares = append(shares, sh)
	}
	return shares, rows.Err()
}

// ListSplits returns the events the user created, paid for, or carries a
// share in, newest first.
func (s *Store) ListSplits(ctx context.Context, userID int) ([]models.SplitEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT e.id, e.creator_id, e.payer_id, e.description, e.total, e.mode, e.status, e.created_at, e.settled_at
		FROM split_events e
		LEFT JOIN split_shares sh ON sh.split_id = e.id
		WHERE e.creator_id = ? OR e.payer_id = ? OR sh.user_id = ?
		ORDER BY e.created_at DESC`, userID, userID, userID)
	if err != nil {
		return nil, utils.ErrorHandler(err, "failed to list split events")
	}
	defer rows.Close()

	var events []models.SplitEvent
	for rows.Next() {
		var e models.SplitEvent
		if err := rows.Scan(&e.ID, &e.CreatorID, &e.PayerID, &e.Description, &e.Total, &e.Mode, &e.Status, &e.CreatedAt, &e.SettledAt); err != nil {
			return nil, utils.ErrorHandler(err, "failed to scan split event")
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (s *Store) UpdateSplitStatus(ctx context.Context, id int, status, settledAt string) (bool, error) {
	var at any
	if settledAt != "" {
		at = settledAt
	}
	res, err := s.db.ExecContext(ctx,
		"UPDATE split_events SET status = ?, settled_at = ? WHERE id = ? AND status = ?",
		status, at, id, models.SplitStatusActive)
	if err != nil {
		return false, utils.ErrorHandler(err, "failed to update split status")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, utils.ErrorHandler(err, "failed to read rows affected")
	}
	return n > 0, nil
}
