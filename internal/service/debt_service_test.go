package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pocketsplit/internal/models"
	"pocketsplit/internal/storage"
)

func newPendingDebt(t *testing.T, store *fakeStore, creditorID, debtorID int) *models.Debt {
	t.Helper()
	debt := &models.Debt{
		CreditorID:  creditorID,
		DebtorID:    debtorID,
		Amount:      d("25"),
		Description: "Lunch",
		Type:        models.DebtTypeManual,
	}
	require.NoError(t, store.CreateDebt(context.Background(), debt))
	return debt
}

func TestCreateManualDebt(t *testing.T) {
	store := newFakeStore()
	store.addFriend(10, 2, "Ama", "ama@example.com")
	svc := NewDebtService(store)

	debt, err := svc.CreateManual(context.Background(), CreateDebtInput{
		CreditorID:  1,
		FriendID:    10,
		Amount:      d("25"),
		Description: "Lunch",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, debt.CreditorID)
	assert.Equal(t, 2, debt.DebtorID)
	assert.Equal(t, models.DebtTypeManual, debt.Type)
	assert.Equal(t, models.DebtStatusPending, store.debts[debt.ID].Status)
	require.Len(t, store.notifications, 1)
	assert.Equal(t, 2, store.notifications[0].RecipientID)
}

func TestCreateManualDebtRejectsContactOnly(t *testing.T) {
	store := newFakeStore()
	store.addContact(12, "Yaw", "yaw@example.com")
	svc := NewDebtService(store)

	_, err := svc.CreateManual(context.Background(), CreateDebtInput{
		CreditorID:  1,
		FriendID:    12,
		Amount:      d("25"),
		Description: "Lunch",
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCreateManualDebtRejectsSelf(t *testing.T) {
	store := newFakeStore()
	store.addFriend(10, 1, "Me", "me@example.com")
	svc := NewDebtService(store)

	_, err := svc.CreateManual(context.Background(), CreateDebtInput{
		CreditorID:  1,
		FriendID:    10,
		Amount:      d("25"),
		Description: "Lunch",
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestMarkPaid(t *testing.T) {
	store := newFakeStore()
	svc := NewDebtService(store)
	debt := newPendingDebt(t, store, 1, 2)

	updated, err := svc.MarkPaid(context.Background(), 2, debt.ID, "transfer")
	require.NoError(t, err)

	assert.Equal(t, models.DebtStatusPaid, updated.Status)
	assert.True(t, updated.PaidAt.Valid)
	assert.Equal(t, "transfer", updated.PaymentMethod.String)
	require.Len(t, store.notifications, 1)
	assert.Equal(t, 1, store.notifications[0].RecipientID, "creditor gets notified")
}

func TestMarkPaidTwiceReturnsAlreadyPaid(t *testing.T) {
	store := newFakeStore()
	svc := NewDebtService(store)
	debt := newPendingDebt(t, store, 1, 2)

	_, err := svc.MarkPaid(context.Background(), 2, debt.ID, "")
	require.NoError(t, err)

	_, err = svc.MarkPaid(context.Background(), 2, debt.ID, "")
	assert.ErrorIs(t, err, ErrAlreadyPaid)
	assert.Equal(t, models.DebtStatusPaid, store.debts[debt.ID].Status, "record stays untouched")
}

func TestMarkPaidOnlyDebtor(t *testing.T) {
	store := newFakeStore()
	svc := NewDebtService(store)
	debt := newPendingDebt(t, store, 1, 2)

	_, err := svc.MarkPaid(context.Background(), 1, debt.ID, "")
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestConfirmReceivedOnlyCreditor(t *testing.T) {
	store := newFakeStore()
	svc := NewDebtService(store)
	debt := newPendingDebt(t, store, 1, 2)

	_, err := svc.ConfirmReceived(context.Background(), 2, debt.ID, "")
	assert.ErrorIs(t, err, ErrForbidden)

	updated, err := svc.ConfirmReceived(context.Background(), 1, debt.ID, "cash")
	require.NoError(t, err)
	assert.Equal(t, models.DebtStatusPaid, updated.Status)
}

func TestCancelDebt(t *testing.T) {
	store := newFakeStore()
	svc := NewDebtService(store)
	debt := newPendingDebt(t, store, 1, 2)

	_, err := svc.Cancel(context.Background(), 2, debt.ID)
	assert.ErrorIs(t, err, ErrForbidden, "debtor cannot cancel")

	updated, err := svc.Cancel(context.Background(), 1, debt.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DebtStatusCancelled, updated.Status)
	assert.False(t, updated.PaidAt.Valid)

	// Cancelled is terminal.
	_, err = svc.MarkPaid(context.Background(), 2, debt.ID, "")
	assert.ErrorIs(t, err, ErrNotPending)
}

func TestDisputeDebt(t *testing.T) {
	store := newFakeStore()
	svc := NewDebtService(store)
	debt := newPendingDebt(t, store, 1, 2)

	_, err := svc.Dispute(context.Background(), 1, debt.ID)
	assert.ErrorIs(t, err, ErrForbidden, "creditor cannot dispute")

	updated, err := svc.Dispute(context.Background(), 2, debt.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DebtStatusDisputed, updated.Status)

	// A disputed debt can no longer be paid through the normal path.
	_, err = svc.MarkPaid(context.Background(), 2, debt.ID, "")
	assert.ErrorIs(t, err, ErrNotPending)
}

func TestUpdateDebtPendingOnly(t *testing.T) {
	store := newFakeStore()
	svc := NewDebtService(store)
	debt := newPendingDebt(t, store, 1, 2)

	updated, err := svc.Update(context.Background(), 1, debt.ID, UpdateDebtInput{
		Amount:      d("30"),
		Description: "Lunch and coffee",
	})
	require.NoError(t, err)
	assert.True(t, updated.Amount.Equal(d("30")))

	_, err = svc.Cancel(context.Background(), 1, debt.ID)
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), 1, debt.ID, UpdateDebtInput{
		Amount:      d("40"),
		Description: "Lunch",
	})
	assert.ErrorIs(t, err, ErrNotPending)
}

func TestUpdateDebtCreditorOnly(t *testing.T) {
	store := newFakeStore()
	svc := NewDebtService(store)
	debt := newPendingDebt(t, store, 1, 2)

	_, err := svc.Update(context.Background(), 2, debt.ID, UpdateDebtInput{
		Amount:      d("30"),
		Description: "Lunch",
	})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestListDebtsDirectionFilter(t *testing.T) {
	store := newFakeStore()
	svc := NewDebtService(store)
	newPendingDebt(t, store, 1, 2)
	newPendingDebt(t, store, 2, 1)

	owed, err := svc.List(context.Background(), 1, storage.DebtFilter{Direction: "owed"})
	require.NoError(t, err)
	require.Len(t, owed, 1)
	assert.Equal(t, 1, owed[0].CreditorID)

	owing, err := svc.List(context.Background(), 1, storage.DebtFilter{Direction: "owing"})
	require.NoError(t, err)
	require.Len(t, owing, 1)
	assert.Equal(t, 1, owing[0].DebtorID)

	both, err := svc.List(context.Background(), 1, storage.DebtFilter{})
	require.NoError(t, err)
	assert.Len(t, both, 2)

	_, err = svc.List(context.Background(), 1, storage.DebtFilter{Direction: "sideways"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestTransitionSurvivesNotificationFailure(t *testing.T) {
	store := newFakeStore()
	store.failNotifications = true
	svc := NewDebtService(store)
	debt := newPendingDebt(t, store, 1, 2)

	updated, err := svc.MarkPaid(context.Background(), 2, debt.ID, "")
	require.NoError(t, err, "a failed notification never blocks the transition")
	assert.Equal(t, models.DebtStatusPaid, updated.Status)
	assert.Equal(t, 1, store.notificationAttempts)
}

func TestMarkPaidMissingDebt(t *testing.T) {
	store := newFakeStore()
	svc := NewDebtService(store)

	_, err := svc.MarkPaid(context.Background(), 2, 99, "")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
