package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"pocketsplit/internal/models"
	"pocketsplit/internal/storage"
	"pocketsplit/pkg/utils"
)

type DebtService struct {
	store storage.Store
}

func NewDebtService(store storage.Store) *DebtService {
	return &DebtService{store: store}
}

type CreateDebtInput struct {
	CreditorID  int
	FriendID    int
	Email       string
	Amount      decimal.Decimal
	Description string
	Type        string // manual or loan
	DueDate     string
}

// CreateManual records a debt owed to the creditor by a resolved friend.
// Unlike split shares, a manual debt requires a registered debtor.
func (s *DebtService) CreateManual(ctx context.Context, in CreateDebtInput) (*models.Debt, error) {
	if !in.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be greater than 0", ErrInvalidInput)
	}
	if in.Description == "" {
		return nil, fmt.Errorf("%w: description is required", ErrInvalidInput)
	}
	if in.Type == "" {
		in.Type = models.DebtTypeManual
	}
	if in.Type != models.DebtTypeManual && in.Type != models.DebtTypeLoan {
		return nil, fmt.Errorf("%w: type must be '%s' or '%s'", ErrInvalidInput, models.DebtTypeManual, models.DebtTypeLoan)
	}

	var res storage.Resolution
	var err error
	switch {
	case in.FriendID > 0:
		res, err = s.store.ResolveFriend(ctx, in.CreditorID, in.FriendID)
	case in.Email != "":
		res, err = s.store.ResolveEmail(ctx, in.Email)
	default:
		return nil, fmt.Errorf("%w: a friend reference or email is required", ErrInvalidInput)
	}
	if err == storage.ErrNotFound {
		return nil, fmt.Errorf("%w: debtor reference does not match an active friend", ErrInvalidInput)
	}
	if err != nil {
		return nil, err
	}
	if !res.Resolved {
		return nil, fmt.Errorf("%w: debtor must be a registered user", ErrInvalidInput)
	}
	if res.UserID == in.CreditorID {
		return nil, fmt.Errorf("%w: you cannot owe yourself", ErrInvalidInput)
	}

	debt := &models.Debt{
		CreditorID:  in.CreditorID,
		DebtorID:    res.UserID,
		Amount:      in.Amount,
		Description: in.Description,
		Type:        in.Type,
	}
	if in.DueDate != "" {
		debt.DueDate = sql.NullString{String: in.DueDate, Valid: true}
	}
	if err := s.store.CreateDebt(ctx, debt); err != nil {
		return nil, err
	}

	err = s.store.CreateNotification(ctx, &models.Notification{
		RecipientID: debt.DebtorID,
		SenderID:    debt.CreditorID,
		Type:        models.NotificationTypeDebtCreated,
		Title:       "New debt recorded against you",
		Body:        fmt.Sprintf("You owe %s for '%s'.", debt.Amount.StringFixed(2), debt.Description),
		RelatedKind: models.RelatedKindDebt,
		RelatedID:   sql.NullInt64{Int64: int64(debt.ID), Valid: true},
	})
	if err != nil {
		utils.Logger.Errorf("failed to notify debtor %d about debt %d: %v", debt.DebtorID, debt.ID, err)
	}
	return debt, nil
}

// MarkPaid is the debtor's "I paid" action: pending to paid, once. A second
// call fails with already-paid and leaves the record untouched.
func (s *DebtService) MarkPaid(ctx context.Context, actorID, debtID int, method string) (*models.Debt, error) {
	debt, err := s.store.GetDebt(ctx, debtID)
	if err != nil {
		return nil, err
	}
	if actorID != debt.DebtorID {
		return nil, fmt.Errorf("%w: only the debtor can mark this debt as paid", ErrForbidden)
	}
	return s.transition(ctx, debt, models.DebtStatusPaid, method, actorID, debt.CreditorID,
		models.NotificationTypeDebtPaid, "Debt marked as paid",
		fmt.Sprintf("The debt of %s for '%s' was marked as paid.", debt.Amount.StringFixed(2), debt.Description))
}

// ConfirmReceived is the creditor's acknowledgement: pending to paid.
func (s *DebtService) ConfirmReceived(ctx context.Context, actorID, debtID int, method string) (*models.Debt, error) {
	debt, err := s.store.GetDebt(ctx, debtID)
	if err != nil {
		return nil, err
	}
	if actorID != debt.CreditorID {
		return nil, fmt.Errorf("%w: only the creditor can confirm this debt", ErrForbidden)
	}
	return s.transition(ctx, debt, models.DebtStatusPaid, method, actorID, debt.DebtorID,
		models.NotificationTypeDebtPaid, "Debt confirmed as received",
		fmt.Sprintf("Payment of %s for '%s' was confirmed.", debt.Amount.StringFixed(2), debt.Description))
}

// Cancel forgives a pending debt; creditor only.
func (s *DebtService) Cancel(ctx context.Context, actorID, debtID int) (*models.Debt, error) {
	debt, err := s.store.GetDebt(ctx, debtID)
	if err != nil {
		return nil, err
	}
	if actorID != debt.CreditorID {
		return nil, fmt.Errorf("%w: only the creditor can cancel this debt", ErrForbidden)
	}
	return s.transition(ctx, debt, models.DebtStatusCancelled, "", actorID, debt.DebtorID,
		models.NotificationTypeDebtCancelled, "Debt cancelled",
		fmt.Sprintf("The debt of %s for '%s' was cancelled.", debt.Amount.StringFixed(2), debt.Description))
}

// Dispute flags a pending debt; debtor only.
func (s *DebtService) Dispute(ctx context.Context, actorID, debtID int) (*models.Debt, error) {
	debt, err := s.store.GetDebt(ctx, debtID)
	if err != nil {
		return nil, err
	}
	if actorID != debt.DebtorID {
		return nil, fmt.Errorf("%w: only the debtor can dispute this debt", ErrForbidden)
	}
	return s.transition(ctx, debt, models.DebtStatusDisputed, "", actorID, debt.CreditorID,
		models.NotificationTypeDebtDisputed, "Debt disputed",
		fmt.Sprintf("The debt of %s for '%s' was disputed.", debt.Amount.StringFixed(2), debt.Description))
}

// transition applies the pending-only state machine and notifies the other
// party on success. Paid and cancelled are terminal.
func (s *DebtService) transition(ctx context.Context, debt *models.Debt, to, method string, actorID, recipientID int, notifType, title, body string) (*models.Debt, error) {
	switch debt.Status {
	case models.DebtStatusPending:
		// fall through to the atomic update
	case models.DebtStatusPaid:
		return nil, ErrAlreadyPaid
	default:
		return nil, fmt.Errorf("%w: status is %s", ErrNotPending, debt.Status)
	}

	paidAt := ""
	if to == models.DebtStatusPaid {
		paidAt = nowString()
	}
	changed, err := s.store.TransitionDebt(ctx, debt.ID, models.DebtStatusPending, to, paidAt, method)
	if err != nil {
		return nil, err
	}
	if !changed {
		// Lost a race: re-read to report the right failure.
		current, err := s.store.GetDebt(ctx, debt.ID)
		if err != nil {
			return nil, err
		}
		if current.Status == models.DebtStatusPaid {
			return nil, ErrAlreadyPaid
		}
		return nil, fmt.Errorf("%w: status is %s", ErrNotPending, current.Status)
	}

	debt.Status = to
	if paidAt != "" {
		debt.PaidAt = sql.NullString{String: paidAt, Valid: true}
	}
	if method != "" {
		debt.PaymentMethod = sql.NullString{String: method, Valid: true}
	}

	err = s.store.CreateNotification(ctx, &models.Notification{
		RecipientID: recipientID,
		SenderID:    actorID,
		Type:        notifType,
		Title:       title,
		Body:        body,
		RelatedKind: models.RelatedKindDebt,
		RelatedID:   sql.NullInt64{Int64: int64(debt.ID), Valid: true},
	})
	if err != nil {
		utils.Logger.Errorf("failed to notify user %d about debt %d: %v", recipientID, debt.ID, err)
	}
	return debt, nil
}

type UpdateDebtInput struct {
	Amount      decimal.Decimal
	Description string
	DueDate     string
}

// Update edits amount, description and due date while the debt is still
// pending; creditor only.
func (s *DebtService) Update(ctx context.Context, actorID, debtID int, in UpdateDebtInput) (*models.Debt, error) {
	debt, err := s.store.GetDebt(ctx, debtID)
	if err != nil {
		return nil, err
	}
	if actorID != debt.CreditorID {
		return nil, fmt.Errorf("%w: only the creditor can edit this debt", ErrForbidden)
	}
	if debt.Status != models.DebtStatusPending {
		return nil, fmt.Errorf("%w: status is %s", ErrNotPending, debt.Status)
	}
	if !in.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be greater than 0", ErrInvalidInput)
	}
	if in.Description == "" {
		return nil, fmt.Errorf("%w: description is required", ErrInvalidInput)
	}

	debt.Amount = in.Amount
	debt.Description = in.Description
	debt.DueDate = sql.NullString{}
	if in.DueDate != "" {
		debt.DueDate = sql.NullString{String: in.DueDate, Valid: true}
	}
	changed, err := s.store.UpdateDebtDetails(ctx, debt)
	if err != nil {
		return nil, err
	}
	if !changed {
		return nil, fmt.Errorf("%w: debt is no longer pending", ErrNotPending)
	}
	return debt, nil
}

// List returns the user's debts, filtered by direction and status.
func (s *DebtService) List(ctx context.Context, userID int, filter storage.DebtFilter) ([]models.Debt, error) {
	if filter.Direction != "" && filter.Direction != "owed" && filter.Direction != "owing" {
		return nil, fmt.Errorf("%w: direction must be 'owed' or 'owing'", ErrInvalidInput)
	}
	return s.store.ListDebts(ctx, userID, filter)
}
