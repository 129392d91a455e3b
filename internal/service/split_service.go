// Package service implements the settlement workflows on top of
// storage.Store: resolving participants, computing shares, deriving debts and
// fanning out notifications.
package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"pocketsplit/internal/calculator"
	"pocketsplit/internal/models"
	"pocketsplit/internal/storage"
	"pocketsplit/pkg/utils"
)

type SplitService struct {
	store storage.Store
}

func NewSplitService(store storage.Store) *SplitService {
	return &SplitService{store: store}
}

// ParticipantRef is one requested participant: a friend record ID scoped to
// the creator, or a bare email. Amount is required in explicit mode and for
// email-only participants.
type ParticipantRef struct {
	FriendID int             `json:"friend_id,omitempty"`
	Email    string          `json:"email,omitempty"`
	Amount   decimal.Decimal `json:"amount,omitempty"`
}

type CreateSplitInput struct {
	CreatorID     int
	Description   string
	Total         decimal.Decimal
	PayerFriendID int // 0 means the creator paid
	Mode          string
	Participants  []ParticipantRef
}

// CreateSplitResult reports the headline outcome plus an itemized warnings
// list for every downstream write that failed. Partial failure never hides.
type CreateSplitResult struct {
	Split             *models.SplitEvent  `json:"split"`
	Shares            []models.SplitShare `json:"shares"`
	DebtsCreated      int                 `json:"debts_created"`
	NotificationsSent int                 `json:"notifications_sent"`
	Warnings          []string            `json:"warnings,omitempty"`
}

// resolvedShare pairs a participant resolution with its computed amount.
type resolvedShare struct {
	res    storage.Resolution
	amount decimal.Decimal
}

// CreateSplit runs the full settlement workflow. Validation failures reject
// before any write; once the split event is persisted, debt and notification
// failures are collected as warnings and never roll anything back.
func (s *SplitService) CreateSplit(ctx context.Context, in CreateSplitInput) (*CreateSplitResult, error) {
	if in.Description == "" {
		return nil, fmt.Errorf("%w: description is required", ErrInvalidInput)
	}
	if !in.Total.IsPositive() {
		return nil, fmt.Errorf("%w: total must be greater than 0", ErrInvalidInput)
	}
	if in.Mode != models.SplitModeEqual && in.Mode != models.SplitModeExplicit {
		return nil, fmt.Errorf("%w: mode must be '%s' or '%s'", ErrInvalidInput, models.SplitModeEqual, models.SplitModeExplicit)
	}
	if len(in.Participants) == 0 {
		return nil, fmt.Errorf("%w: at least one participant is required", ErrInvalidInput)
	}

	payerID, err := s.resolvePayer(ctx, in)
	if err != nil {
		return nil, err
	}

	result := &CreateSplitResult{}
	shares := s.resolveParticipants(ctx, in, result)
	if len(shares) == 0 {
		return nil, fmt.Errorf("%w: no valid participants", ErrInvalidInput)
	}

	if err := s.applyAmounts(in, shares); err != nil {
		return nil, err
	}

	split := &models.SplitEvent{
		CreatorID:   in.CreatorID,
		PayerID:     payerID,
		Description: in.Description,
		Total:       in.Total,
		Mode:        in.Mode,
	}
	shareRows := make([]models.SplitShare, 0, len(shares))
	for _, sh := range shares {
		row := models.SplitShare{
			Name:   sh.res.Name,
			Email:  sh.res.Email,
			Amount: sh.amount,
		}
		if sh.res.Resolved {
			row.UserID = sql.NullInt64{Int64: int64(sh.res.UserID), Valid: true}
		}
		shareRows = append(shareRows, row)
	}

	if err := s.store.CreateSplit(ctx, split, shareRows); err != nil {
		return nil, err
	}
	result.Split = split
	result.Shares = shareRows

	// Best effort from here: the split event exists, every further failure
	// becomes a warning.
	s.createDebts(ctx, split, shares, result)
	return result, nil
}

func (s *SplitService) resolvePayer(ctx context.Context, in CreateSplitInput) (int, error) {
	if in.PayerFriendID == 0 {
		return in.CreatorID, nil
	}
	res, err := s.store.ResolveFriend(ctx, in.CreatorID, in.PayerFriendID)
	if err == storage.ErrNotFound {
		return 0, fmt.Errorf("%w: payer reference does not match an active friend", ErrInvalidInput)
	}
	if err != nil {
		return 0, err
	}
	if !res.Resolved {
		return 0, fmt.Errorf("%w: payer must be a registered user", ErrInvalidInput)
	}
	return res.UserID, nil
}

// resolveParticipants turns the raw references into resolutions, skipping the
// unusable ones with a warning. Contact-only participants stay in the list:
// they carry a share of the total but never a debt record.
func (s *SplitService) resolveParticipants(ctx context.Context, in CreateSplitInput, result *CreateSplitResult) []*resolvedShare {
	var shares []*resolvedShare
	for i, ref := range in.Participants {
		var res storage.Resolution
		var err error

		switch {
		case ref.FriendID > 0:
			res, err = s.store.ResolveFriend(ctx, in.CreatorID, ref.FriendID)
		case ref.Email != "":
			res, err = s.store.ResolveEmail(ctx, ref.Email)
		default:
			result.Warnings = append(result.Warnings, fmt.Sprintf("participant %d skipped: no friend reference or email", i+1))
			continue
		}

		if err == storage.ErrNotFound {
			result.Warnings = append(result.Warnings, fmt.Sprintf("participant %d skipped: could not be resolved", i+1))
			continue
		}
		if err != nil {
			utils.Logger.Errorf("failed to resolve participant %d: %v", i+1, err)
			result.Warnings = append(result.Warnings, fmt.Sprintf("participant %d skipped: lookup failed", i+1))
			continue
		}
		if res.Resolved && res.UserID == in.CreatorID {
			result.Warnings = append(result.Warnings, fmt.Sprintf("participant %d skipped: cannot split with yourself", i+1))
			continue
		}

		shares = append(shares, &resolvedShare{res: res, amount: in.Participants[i].Amount})
	}
	return shares
}

// applyAmounts fills each share's amount. Equal mode divides by count+1: the
// payer always carries an implicit share of their own, and the rounding
// remainder is absorbed by that unrecorded share.
func (s *SplitService) applyAmounts(in CreateSplitInput, shares []*resolvedShare) error {
	if in.Mode == models.SplitModeEqual {
		perPerson, err := calculator.EqualShare(in.Total, len(shares))
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		for _, sh := range shares {
			sh.amount = perPerson
		}
		return nil
	}

	amounts := make([]decimal.Decimal, len(shares))
	for i, sh := range shares {
		amounts[i] = sh.amount
	}
	if err := calculator.ValidateExplicitShares(in.Total, amounts); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}

func (s *SplitService) createDebts(ctx context.Context, split *models.SplitEvent, shares []*resolvedShare, result *CreateSplitResult) {
	for _, sh := range shares {
		if !sh.res.Resolved {
			continue // contact-only: share recorded, no debt
		}

		creditorID, debtorID, ok := calculator.Direction(split.PayerID, split.CreatorID, sh.res.UserID)
		if !ok {
			continue // the participant is the payer, nothing owed
		}

		debt := &models.Debt{
			CreditorID:  creditorID,
			DebtorID:    debtorID,
			Amount:      sh.amount,
			Description: fmt.Sprintf("Split: %s", split.Description),
			Type:        models.DebtTypeSplit,
			SplitID:     sql.NullInt64{Int64: int64(split.ID), Valid: true},
		}
		if err := s.store.CreateDebt(ctx, debt); err != nil {
			utils.Logger.Errorf("failed to create debt for user %d on split %d: %v", sh.res.UserID, split.ID, err)
			result.Warnings = append(result.Warnings, fmt.Sprintf("debt record for %s could not be created", sh.res.Name))
			continue
		}
		result.DebtsCreated++

		if err := s.notifySplitDebt(ctx, split, debt, sh.res); err != nil {
			utils.Logger.Errorf("failed to notify user %d about split %d: %v", sh.res.UserID, split.ID, err)
			result.Warnings = append(result.Warnings, fmt.Sprintf("notification for %s could not be sent", sh.res.Name))
			continue
		}
		result.NotificationsSent++
	}
}

// notifySplitDebt tells the participant about the debt derived from their
// share, worded by direction.
func (s *SplitService) notifySplitDebt(ctx context.Context, split *models.SplitEvent, debt *models.Debt, res storage.Resolution) error {
	var title, body string
	if debt.DebtorID == res.UserID {
		title = "You owe a share of a split expense"
		body = fmt.Sprintf("You owe %s for '%s'.", debt.Amount.StringFixed(2), split.Description)
	} else {
		title = "You are owed for a split expense"
		body = fmt.Sprintf("You are owed %s for '%s' that you paid.", debt.Amount.StringFixed(2), split.Description)
	}
	return s.store.CreateNotification(ctx, &models.Notification{
		RecipientID: res.UserID,
		SenderID:    split.CreatorID,
		Type:        models.NotificationTypeSplitCreated,
		Title:       title,
		Body:        body,
		RelatedKind: models.RelatedKindSplit,
		RelatedID:   sql.NullInt64{Int64: int64(split.ID), Valid: true},
	})
}

// SettleSplitResult reports a cascade outcome.
type SettleSplitResult struct {
	Split        *models.SplitEvent `json:"split"`
	DebtsUpdated int                `json:"debts_updated"`
	Warnings     []string           `json:"warnings,omitempty"`
}

// SettleSplit marks an active split settled or cancelled and cascades every
// linked pending debt in bulk. Authorization is split-level (creator or
// payer); the per-debt checks are deliberately bypassed.
func (s *SplitService) SettleSplit(ctx context.Context, actorID, splitID int, cancel bool) (*SettleSplitResult, error) {
	split, err := s.store.GetSplit(ctx, splitID)
	if err != nil {
		return nil, err
	}
	if actorID != split.CreatorID && actorID != split.PayerID {
		return nil, fmt.Errorf("%w: only the creator or the payer can settle a split", ErrForbidden)
	}
	if split.Status != models.SplitStatusActive {
		return nil, fmt.Errorf("%w: split is already %s", ErrAlreadySettled, split.Status)
	}

	status := models.SplitStatusSettled
	debtStatus := models.DebtStatusPaid
	notifType := models.NotificationTypeSplitSettled
	// A cancelled split never records a settlement time; same for its debts'
	// paid_at.
	settledAt := nowString()
	paidAt := settledAt
	if cancel {
		status = models.SplitStatusCancelled
		debtStatus = models.DebtStatusCancelled
		notifType = models.NotificationTypeSplitCancelled
		settledAt = ""
		paidAt = ""
	}

	changed, err := s.store.UpdateSplitStatus(ctx, splitID, status, settledAt)
	if err != nil {
		return nil, err
	}
	if !changed {
		return nil, fmt.Errorf("%w: split is no longer active", ErrAlreadySettled)
	}
	split.Status = status
	if settledAt != "" {
		split.SettledAt = sql.NullString{String: settledAt, Valid: true}
	}

	result := &SettleSplitResult{Split: split}
	n, err := s.store.CascadeDebts(ctx, splitID, debtStatus, paidAt)
	if err != nil {
		// The split status already changed; report the cascade failure
		// instead of pretending nothing happened.
		utils.Logger.Errorf("failed to cascade debts for split %d: %v", splitID, err)
		result.Warnings = append(result.Warnings, "linked debts could not all be updated")
	}
	result.DebtsUpdated = n

	shares, err := s.store.GetSplitShares(ctx, splitID)
	if err != nil {
		result.Warnings = append(result.Warnings, "participants could not be notified")
		return result, nil
	}
	verb := "settled"
	if cancel {
		verb = "cancelled"
	}
	for _, sh := range shares {
		if !sh.UserID.Valid || int(sh.UserID.Int64) == actorID {
			continue
		}
		err := s.store.CreateNotification(ctx, &models.Notification{
			RecipientID: int(sh.UserID.Int64),
			SenderID:    actorID,
			Type:        notifType,
			Title:       fmt.Sprintf("Split expense %s", verb),
			Body:        fmt.Sprintf("'%s' was %s, your linked debts were closed.", split.Description, verb),
			RelatedKind: models.RelatedKindSplit,
			RelatedID:   sql.NullInt64{Int64: int64(splitID), Valid: true},
		})
		if err != nil {
			utils.Logger.Errorf("failed to notify user %d about split %d: %v", sh.UserID.Int64, splitID, err)
			result.Warnings = append(result.Warnings, fmt.Sprintf("notification for %s could not be sent", sh.Name))
		}
	}
	return result, nil
}

// ListSplits returns the split events the user created, paid for or holds a
// share in. Shares are fetched per split via GetSplit.
func (s *SplitService) ListSplits(ctx context.Context, userID int) ([]models.SplitEvent, error) {
	return s.store.ListSplits(ctx, userID)
}

// GetSplit returns one split with shares, restricted to people involved in it.
func (s *SplitService) GetSplit(ctx context.Context, actorID, splitID int) (*models.SplitEvent, []models.SplitShare, error) {
	split, err := s.store.GetSplit(ctx, splitID)
	if err != nil {
		return nil, nil, err
	}
	shares, err := s.store.GetSplitShares(ctx, splitID)
	if err != nil {
		return nil, nil, err
	}
	if !involvedInSplit(actorID, split, shares) {
		return nil, nil, fmt.Errorf("%w: you are not part of this split", ErrForbidden)
	}
	return split, shares, nil
}

func involvedInSplit(userID int, split *models.SplitEvent, shares []models.SplitShare) bool {
	if userID == split.CreatorID || userID == split.PayerID {
		return true
	}
	for _, sh := range shares {
		if sh.UserID.Valid && int(sh.UserID.Int64) == userID {
			return true
		}
	}
	return false
}

// nowString matches the storage timestamp layout.
func nowString() string {
	return time.Now().UTC().Format("2006-01-02 15:04:05")
}
