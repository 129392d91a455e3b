package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pocketsplit/internal/models"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCreateSplitEqual(t *testing.T) {
	store := newFakeStore()
	store.addFriend(10, 2, "Ama", "ama@example.com")
	store.addFriend(11, 3, "Kofi", "kofi@example.com")
	svc := NewSplitService(store)

	result, err := svc.CreateSplit(context.Background(), CreateSplitInput{
		CreatorID:   1,
		Description: "Dinner",
		Total:       d("100"),
		Mode:        models.SplitModeEqual,
		Participants: []ParticipantRef{
			{FriendID: 10},
			{FriendID: 11},
		},
	})
	require.NoError(t, err)

	require.Len(t, result.Shares, 2)
	for _, sh := range result.Shares {
		assert.True(t, sh.Amount.Equal(d("33.33")), "share was %s", sh.Amount)
	}
	assert.Equal(t, 2, result.DebtsCreated)
	assert.Equal(t, 2, result.NotificationsSent)
	assert.Empty(t, result.Warnings)

	// Creator paid, so each participant owes the creator.
	for _, debt := range store.debts {
		assert.Equal(t, 1, debt.CreditorID)
		assert.Equal(t, models.DebtStatusPending, debt.Status)
		assert.Equal(t, models.DebtTypeSplit, debt.Type)
		assert.True(t, debt.SplitID.Valid)
	}
}

func TestCreateSplitExplicit(t *testing.T) {
	store := newFakeStore()
	store.addFriend(10, 2, "Ama", "ama@example.com")
	store.addFriend(11, 3, "Kofi", "kofi@example.com")
	svc := NewSplitService(store)

	result, err := svc.CreateSplit(context.Background(), CreateSplitInput{
		CreatorID:   1,
		Description: "Groceries",
		Total:       d("90"),
		Mode:        models.SplitModeExplicit,
		Participants: []ParticipantRef{
			{FriendID: 10, Amount: d("60")},
			{FriendID: 11, Amount: d("30")},
		},
	})
	require.NoError(t, err)
	assert.True(t, result.Shares[0].Amount.Equal(d("60")))
	assert.True(t, result.Shares[1].Amount.Equal(d("30")))
}

func TestCreateSplitExplicitRejectsMismatch(t *testing.T) {
	store := newFakeStore()
	store.addFriend(10, 2, "Ama", "ama@example.com")
	svc := NewSplitService(store)

	_, err := svc.CreateSplit(context.Background(), CreateSplitInput{
		CreatorID:   1,
		Description: "Groceries",
		Total:       d("100"),
		Mode:        models.SplitModeExplicit,
		Participants: []ParticipantRef{
			{FriendID: 10, Amount: d("80")},
		},
	})
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.Empty(t, store.splits, "nothing should be written on validation failure")
}

func TestCreateSplitPayerIsParticipant(t *testing.T) {
	store := newFakeStore()
	store.addFriend(10, 2, "Ama", "ama@example.com")
	store.addFriend(11, 3, "Kofi", "kofi@example.com")
	svc := NewSplitService(store)

	// Friend 10 (user 2) paid. Their own share turns into the creator owing
	// the payer; the other participant owes the payer directly.
	result, err := svc.CreateSplit(context.Background(), CreateSplitInput{
		CreatorID:     1,
		PayerFriendID: 10,
		Description:   "Taxi",
		Total:         d("30"),
		Mode:          models.SplitModeEqual,
		Participants: []ParticipantRef{
			{FriendID: 10},
			{FriendID: 11},
		},
	})
	require.NoError(t, err)
	require.Len(t, result.Shares, 2)

	require.Equal(t, 2, result.DebtsCreated)
	debtors := map[int]bool{}
	for _, debt := range store.debts {
		assert.Equal(t, 2, debt.CreditorID, "every debt points at the payer")
		assert.NotEqual(t, 2, debt.DebtorID, "the payer never owes themselves")
		debtors[debt.DebtorID] = true
	}
	assert.True(t, debtors[1], "creator owes the payer")
	assert.True(t, debtors[3], "other participant owes the payer")
}

func TestCreateSplitContactOnlyParticipantGetsShareButNoDebt(t *testing.T) {
	store := newFakeStore()
	store.addFriend(10, 2, "Ama", "ama@example.com")
	store.addContact(12, "Yaw", "yaw@example.com")
	svc := NewSplitService(store)

	result, err := svc.CreateSplit(context.Background(), CreateSplitInput{
		CreatorID:   1,
		Description: "Lunch",
		Total:       d("60"),
		Mode:        models.SplitModeEqual,
		Participants: []ParticipantRef{
			{FriendID: 10},
			{FriendID: 12},
		},
	})
	require.NoError(t, err)

	require.Len(t, result.Shares, 2)
	assert.Equal(t, 1, result.DebtsCreated, "contact-only participant must not produce a debt")

	var contactShare *models.SplitShare
	for i := range result.Shares {
		if result.Shares[i].Name == "Yaw" {
			contactShare = &result.Shares[i]
		}
	}
	require.NotNil(t, contactShare)
	assert.False(t, contactShare.UserID.Valid)
	assert.True(t, contactShare.Amount.Equal(d("20")))
}

func TestCreateSplitSkipsUnusableParticipantsWithWarnings(t *testing.T) {
	store := newFakeStore()
	store.addFriend(10, 2, "Ama", "ama@example.com")
	svc := NewSplitService(store)

	result, err := svc.CreateSplit(context.Background(), CreateSplitInput{
		CreatorID:   1,
		Description: "Drinks",
		Total:       d("40"),
		Mode:        models.SplitModeEqual,
		Participants: []ParticipantRef{
			{FriendID: 10},
			{FriendID: 99}, // no such friend record
			{},             // neither reference nor email
		},
	})
	require.NoError(t, err)

	require.Len(t, result.Shares, 1)
	assert.Len(t, result.Warnings, 2)
	// One surviving participant: 40 / 2 = 20.
	assert.True(t, result.Shares[0].Amount.Equal(d("20")))
}

func TestCreateSplitAllParticipantsUnusable(t *testing.T) {
	store := newFakeStore()
	svc := NewSplitService(store)

	_, err := svc.CreateSplit(context.Background(), CreateSplitInput{
		CreatorID:   1,
		Description: "Drinks",
		Total:       d("40"),
		Mode:        models.SplitModeEqual,
		Participants: []ParticipantRef{
			{FriendID: 99},
		},
	})
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.Empty(t, store.splits)
}

func TestCreateSplitSkipsCreatorAsParticipant(t *testing.T) {
	store := newFakeStore()
	store.addFriend(10, 1, "Me", "me@example.com") // resolves to the creator
	store.addFriend(11, 2, "Ama", "ama@example.com")
	svc := NewSplitService(store)

	result, err := svc.CreateSplit(context.Background(), CreateSplitInput{
		CreatorID:   1,
		Description: "Tickets",
		Total:       d("50"),
		Mode:        models.SplitModeEqual,
		Participants: []ParticipantRef{
			{FriendID: 10},
			{FriendID: 11},
		},
	})
	require.NoError(t, err)
	require.Len(t, result.Shares, 1)
	assert.Len(t, result.Warnings, 1)
}

func TestCreateSplitDebtFailureBecomesWarning(t *testing.T) {
	store := newFakeStore()
	store.addFriend(10, 2, "Ama", "ama@example.com")
	store.addFriend(11, 3, "Kofi", "kofi@example.com")
	store.failCreateDebtFor[3] = true
	svc := NewSplitService(store)

	result, err := svc.CreateSplit(context.Background(), CreateSplitInput{
		CreatorID:   1,
		Description: "Dinner",
		Total:       d("100"),
		Mode:        models.SplitModeEqual,
		Participants: []ParticipantRef{
			{FriendID: 10},
			{FriendID: 11},
		},
	})
	require.NoError(t, err, "split creation succeeds even when a debt write fails")

	assert.Equal(t, 1, result.DebtsCreated)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "Kofi")
	assert.NotNil(t, result.Split)
	assert.Len(t, result.Shares, 2, "shares stay recorded despite the failed debt")
}

func TestCreateSplitPayerMustBeRegistered(t *testing.T) {
	store := newFakeStore()
	store.addContact(12, "Yaw", "yaw@example.com")
	store.addFriend(10, 2, "Ama", "ama@example.com")
	svc := NewSplitService(store)

	_, err := svc.CreateSplit(context.Background(), CreateSplitInput{
		CreatorID:     1,
		PayerFriendID: 12,
		Description:   "Dinner",
		Total:         d("100"),
		Mode:          models.SplitModeEqual,
		Participants:  []ParticipantRef{{FriendID: 10}},
	})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestSettleSplitCascadesPendingDebts(t *testing.T) {
	store := newFakeStore()
	store.addFriend(10, 2, "Ama", "ama@example.com")
	store.addFriend(11, 3, "Kofi", "kofi@example.com")
	svc := NewSplitService(store)

	created, err := svc.CreateSplit(context.Background(), CreateSplitInput{
		CreatorID:   1,
		Description: "Dinner",
		Total:       d("90"),
		Mode:        models.SplitModeEqual,
		Participants: []ParticipantRef{
			{FriendID: 10},
			{FriendID: 11},
		},
	})
	require.NoError(t, err)

	// One participant already paid their own debt.
	var firstDebtID int
	for id := range store.debts {
		firstDebtID = id
		break
	}
	_, err = store.TransitionDebt(context.Background(), firstDebtID, models.DebtStatusPending, models.DebtStatusPaid, "2026-01-01 00:00:00", "")
	require.NoError(t, err)

	result, err := svc.SettleSplit(context.Background(), 1, created.Split.ID, false)
	require.NoError(t, err)

	assert.Equal(t, models.SplitStatusSettled, result.Split.Status)
	assert.True(t, result.Split.SettledAt.Valid, "settling records the settlement time")
	assert.Equal(t, 1, result.DebtsUpdated, "only the remaining pending debt cascades")
	for _, debt := range store.debts {
		assert.Equal(t, models.DebtStatusPaid, debt.Status)
	}
}

func TestCancelSplitCascadesToCancelled(t *testing.T) {
	store := newFakeStore()
	store.addFriend(10, 2, "Ama", "ama@example.com")
	svc := NewSplitService(store)

	created, err := svc.CreateSplit(context.Background(), CreateSplitInput{
		CreatorID:    1,
		Description:  "Dinner",
		Total:        d("50"),
		Mode:         models.SplitModeEqual,
		Participants: []ParticipantRef{{FriendID: 10}},
	})
	require.NoError(t, err)

	result, err := svc.SettleSplit(context.Background(), 1, created.Split.ID, true)
	require.NoError(t, err)

	assert.Equal(t, models.SplitStatusCancelled, result.Split.Status)
	assert.False(t, result.Split.SettledAt.Valid, "cancelled splits carry no settlement time")
	assert.False(t, store.splits[created.Split.ID].SettledAt.Valid)
	for _, debt := range store.debts {
		assert.Equal(t, models.DebtStatusCancelled, debt.Status)
		assert.False(t, debt.PaidAt.Valid, "cancelled debts carry no paid timestamp")
	}
}

func TestSettleSplitAuthorization(t *testing.T) {
	store := newFakeStore()
	store.addFriend(10, 2, "Ama", "ama@example.com")
	svc := NewSplitService(store)

	created, err := svc.CreateSplit(context.Background(), CreateSplitInput{
		CreatorID:    1,
		Description:  "Dinner",
		Total:        d("50"),
		Mode:         models.SplitModeEqual,
		Participants: []ParticipantRef{{FriendID: 10}},
	})
	require.NoError(t, err)

	// A mere participant cannot settle the split.
	_, err = svc.SettleSplit(context.Background(), 2, created.Split.ID, false)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestSettleSplitTwiceFails(t *testing.T) {
	store := newFakeStore()
	store.addFriend(10, 2, "Ama", "ama@example.com")
	svc := NewSplitService(store)

	created, err := svc.CreateSplit(context.Background(), CreateSplitInput{
		CreatorID:    1,
		Description:  "Dinner",
		Total:        d("50"),
		Mode:         models.SplitModeEqual,
		Participants: []ParticipantRef{{FriendID: 10}},
	})
	require.NoError(t, err)

	_, err = svc.SettleSplit(context.Background(), 1, created.Split.ID, false)
	require.NoError(t, err)

	_, err = svc.SettleSplit(context.Background(), 1, created.Split.ID, false)
	assert.ErrorIs(t, err, ErrAlreadySettled)
}

func TestGetSplitRestrictedToInvolvedUsers(t *testing.T) {
	store := newFakeStore()
	store.addFriend(10, 2, "Ama", "ama@example.com")
	svc := NewSplitService(store)

	created, err := svc.CreateSplit(context.Background(), CreateSplitInput{
		CreatorID:    1,
		Description:  "Dinner",
		Total:        d("50"),
		Mode:         models.SplitModeEqual,
		Participants: []ParticipantRef{{FriendID: 10}},
	})
	require.NoError(t, err)

	_, _, err = svc.GetSplit(context.Background(), 2, created.Split.ID)
	assert.NoError(t, err, "share holder can view")

	_, _, err = svc.GetSplit(context.Background(), 42, created.Split.ID)
	assert.ErrorIs(t, err, ErrForbidden)
}
