// Package storage provides the persistence abstraction used by the
// settlement services. The concrete MySQL implementation lives in
// storage/mysql; tests substitute an in-memory fake.
package storage

import (
	"context"
	"errors"

	"pocketsplit/internal/models"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// Resolution is the outcome of resolving a participant reference. Resolved is
// true when the reference maps to a live registered account; otherwise the
// participant is contact-only and carries a share but never a debt record.
type Resolution struct {
	UserID   int
	Name     string
	Email    string
	Resolved bool
}

// DebtFilter narrows ListDebts. Direction is "owed" (user is creditor),
// "owing" (user is debtor) or "" for both.
type DebtFilter struct {
	Direction string
	Status    string
}

// Store is the persistence collaborator for splits, debts, friends and
// notifications. Single-record updates are atomic; there are no transactions
// spanning multiple records, so callers own any partial-failure policy.
type Store interface {
	// GetUser returns the account with the given ID, or ErrNotFound.
	GetUser(ctx context.Context, id int) (*models.User, error)

	// ResolveFriend resolves a friend record scoped to ownerID. It returns
	// ErrNotFound when no active record exists. A record whose target account
	// is gone resolves to a contact-only Resolution.
	ResolveFriend(ctx context.Context, ownerID, friendID int) (Resolution, error)

	// ResolveEmail resolves a bare email to an account if one exists;
	// otherwise it returns a contact-only Resolution. Never ErrNotFound.
	ResolveEmail(ctx context.Context, email string) (Resolution, error)

	// CreateSplit persists the event and its shares and fills in the IDs.
	CreateSplit(ctx context.Context, split *models.SplitEvent, shares []models.SplitShare) error
	GetSplit(ctx context.Context, id int) (*models.SplitEvent, error)
	GetSplitShares(ctx context.Context, splitID int) ([]models.SplitShare, error)
	ListSplits(ctx context.Context, userID int) ([]models.SplitEvent, error)

	// UpdateSplitStatus moves an active split to settled or cancelled. It
	// returns false when the split was not in the active status.
	UpdateSplitStatus(ctx context.Context, id int, status, settledAt string) (bool, error)

	CreateDebt(ctx context.Context, debt *models.Debt) error
	GetDebt(ctx context.Context, id int) (*models.Debt, error)
	ListDebts(ctx context.Context, userID int, filter DebtFilter) ([]models.Debt, error)

	// UpdateDebtDetails rewrites amount, description and due date of a
	// pending debt. Returns false when the debt was not pending.
	UpdateDebtDetails(ctx context.Context, debt *models.Debt) (bool, error)

	// TransitionDebt atomically moves one debt from status `from` to `to`,
	// recording paidAt/method when paying. Returns false when the debt was
	// not in `from` (the caller decides how to report it).
	TransitionDebt(ctx context.Context, id int, from, to, paidAt, method string) (bool, error)

	// CascadeDebts transitions every pending debt linked to splitID to the
	// given status in bulk, returning how many changed.
	CascadeDebts(ctx context.Context, splitID int, status, paidAt string) (int, error)

	// CreateNotification enqueues one notification row.
	CreateNotification(ctx context.Context, n *models.Notification) error
}
