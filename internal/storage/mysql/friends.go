package mysql

import (
	"context"
	"database/sql"

	"pocketsplit/internal/models"
	"pocketsplit/internal/storage"
	"pocketsplit/pkg/utils"
)

func (s *Store) GetUser(ctx context.Context, id int) (*models.User, error) {
	var u models.User
	err := s.db.QueryRowContext(ctx,
		"SELECT id, first_name, last_name, username, email, role, currency, inactive_status, created_at FROM users WHERE id = ?", id).
		Scan(&u.ID, &u.FirstName, &u.LastName, &u.Username, &u.Email, &u.Role, &u.Currency, &u.InactiveStatus, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, utils.ErrorHandler(err, "failed to load user")
	}
	return &u, nil
}

// ResolveFriend turns a friend record owned by ownerID into an account
// identity. A record pointing back at the owner, or one with neither a target
// account nor an email, is treated as unusable and reported as ErrNotFound
// after logging, so the caller skips the participant.
func (s *Store) ResolveFriend(ctx context.Context, ownerID, friendID int) (storage.Resolution, error) {
	var f models.Friend
	err := s.db.QueryRowContext(ctx,
		"SELECT id, user_id, friend_user_id, name, email, status FROM friends WHERE id = ? AND user_id = ? AND status = ?",
		friendID, ownerID, models.FriendStatusActive).
		Scan(&f.ID, &f.UserID, &f.FriendUserID, &f.Name, &f.Email, &f.Status)
	if err == sql.ErrNoRows {
		return storage.Resolution{}, storage.ErrNotFound
	}
	if err != nil {
		return storage.Resolution{}, utils.ErrorHandler(err, "failed to load friend record")
	}

	if !f.FriendUserID.Valid {
		if f.Email == "" {
			utils.Logger.Warnf("friend record %d has neither account nor email, skipping", f.ID)
			return storage.Resolution{}, storage.ErrNotFound
		}
		// Email-only contact: maybe the address registered since the link was made.
		return s.ResolveEmail(ctx, f.Email)
	}

	target := int(f.FriendUserID.Int64)
	if target == ownerID {
		utils.Logger.Warnf("friend record %d points back at its owner, skipping", f.ID)
		return storage.Resolution{}, storage.ErrNotFound
	}

	// Stale references happen; confirm the account still exists.
	u, err := s.GetUser(ctx, target)
	if err == storage.ErrNotFound {
		utils.Logger.Warnf("friend record %d references missing user %d", f.ID, target)
		return storage.Resolution{Name: f.Name, Email: f.Email}, nil
	}
	if err != nil {
		return storage.Resolution{}, err
	}
	return storage.Resolution{UserID: u.ID, Name: u.FirstName + " " + u.LastName, Email: u.Email, Resolved: true}, nil
}

func (s *Store) ResolveEmail(ctx context.Context, email string) (storage.Resolution, error) {
	var u models.User
	err := s.db.QueryRowContext(ctx,
		"SELECT id, first_name, last_name, email FROM users WHERE email = ?", email).
		Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email)
	if err == sql.ErrNoRows {
		return storage.Resolution{Email: email}, nil
	}
	if err != nil {
		return storage.Resolution{}, utils.ErrorHandler(err, "failed to resolve email")
	}
	return storage.Resolution{UserID: u.ID, Name: u.FirstName + " " + u.LastName, Email: u.Email, Resolved: true}, nil
}
