package mysql

import (
	"context"
	"database/sql"

	"pocketsplit/internal/models"
	"pocketsplit/pkg/utils"
)

func (s *Store) CreateNotification(ctx context.Context, n *models.Notification) error {
	now := Now()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO notifications (recipient_id, sender_id, type, title, body, is_read, related_kind, related_id, created_at)
		 VALUES (?, ?, ?, ?, ?, FALSE, ?, ?, ?)`,
		n.RecipientID, n.SenderID, n.Type, n.Title, n.Body, n.RelatedKind, n.RelatedID, now)
	if err != nil {
		return utils.ErrorHandler(err, "failed to insert notification")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return utils.ErrorHandler(err, "failed to read notification id")
	}
	n.ID = int(id)
	n.CreatedAt = sql.NullString{String: now, Valid: true}
	return nil
}
